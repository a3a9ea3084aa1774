package dataprocessing

import (
	"fmt"
	"regexp"
	"strings"

	"ymreport/pkg/contracts/domain"
)

// Rule is one entry of an ordered rule table: a category and its keywords.
// Declaration order decides ties, the first matching rule wins.
type Rule struct {
	Category string
	Keywords []string
}

// MatchMode selects how a rule's keywords are tested against text.
type MatchMode int

const (
	// MatchAllSubstrings matches when every keyword occurs as a
	// case-insensitive substring ("guide tire" matches "Guide tire worn").
	MatchAllSubstrings MatchMode = iota
	// MatchAnyWholeWord matches when any keyword occurs as a case-insensitive
	// whole word ("add" does not match "address").
	MatchAnyWholeWord
)

// String returns the mode name used in logs and metrics
func (m MatchMode) String() string {
	switch m {
	case MatchAllSubstrings:
		return "all_substrings"
	case MatchAnyWholeWord:
		return "any_whole_word"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// Matcher tests lowercased text against one compiled rule.
type Matcher interface {
	Match(text string) bool
}

type allSubstrings []string

func (m allSubstrings) Match(text string) bool {
	for _, kw := range m {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

type anyWholeWord struct {
	re *regexp.Regexp
}

func (m anyWholeWord) Match(text string) bool {
	return m.re.MatchString(text)
}

type compiledRule struct {
	category string
	matcher  Matcher
}

// Classifier assigns the category of the first rule matching a text.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	mode  MatchMode
	rules []compiledRule
}

// NewClassifier compiles rules once for the given match mode.
func NewClassifier(mode MatchMode, rules []Rule) (*Classifier, error) {
	c := &Classifier{mode: mode, rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		if strings.TrimSpace(r.Category) == "" {
			return nil, fmt.Errorf("rule %d: empty category", i)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("rule %q: no keywords", r.Category)
		}
		keywords := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			kw = strings.ToLower(kw)
			if strings.TrimSpace(kw) == "" {
				return nil, fmt.Errorf("rule %q: empty keyword", r.Category)
			}
			keywords = append(keywords, kw)
		}

		var m Matcher
		switch mode {
		case MatchAllSubstrings:
			m = allSubstrings(keywords)
		case MatchAnyWholeWord:
			alts := make([]string, len(keywords))
			for j, kw := range keywords {
				alts[j] = regexp.QuoteMeta(kw)
			}
			re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`)
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", r.Category, err)
			}
			m = anyWholeWord{re: re}
		default:
			return nil, fmt.Errorf("unknown match mode %d", int(mode))
		}
		c.rules = append(c.rules, compiledRule{category: r.Category, matcher: m})
	}
	return c, nil
}

// MustClassifier is like NewClassifier but panics on an invalid rule table.
// Use it for the built-in tables.
func MustClassifier(mode MatchMode, rules []Rule) *Classifier {
	c, err := NewClassifier(mode, rules)
	if err != nil {
		panic(fmt.Sprintf("invalid rule table: %v", err))
	}
	return c
}

// Mode returns the classifier's match mode
func (c *Classifier) Mode() MatchMode {
	return c.mode
}

// ClassifyText returns the first matching category. ok is false when no
// rule matches, which is a valid outcome and not an error.
func (c *Classifier) ClassifyText(text string) (category string, ok bool) {
	text = strings.ToLower(text)
	for _, r := range c.rules {
		if r.matcher.Match(text) {
			return r.category, true
		}
	}
	return "", false
}

// Classify classifies a cell value. Empty cells yield the empty category.
func (c *Classifier) Classify(v any) string {
	text, ok := cellText(v)
	if !ok {
		return ""
	}
	category, _ := c.ClassifyText(text)
	return category
}

// cellText converts a cell to text; ok is false for an empty cell.
func cellText(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case domain.LiteralText:
		return string(val), true
	default:
		return fmt.Sprint(val), true
	}
}
