package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemClassifier(t *testing.T) {
	c := ProblemClassifier()
	require.Equal(t, MatchAllSubstrings, c.Mode())

	tests := []struct {
		name string
		text any
		want string
	}{
		{name: "all keywords any order", text: "Worn GUIDE TIRE on car 2", want: "Guide tire worn out"},
		{name: "first rule wins", text: "guide tire worn, warning shown", want: "Guide tire worn out"},
		{name: "substring inside word", text: "Overloaded bogie, tyre worn", want: "Load tire worn out"},
		{name: "single keyword rule shadows later pair", text: "TWP brake pressure low", want: "Train not responding in TWP"},
		{name: "collector before ccd crack", text: "CCD collector shoe missing", want: "CCD replacement"},
		{name: "ccd only", text: "CCD cracked", want: "CCD crack"},
		{name: "phrase keyword", text: "Smoke alarm in cab", want: "Smoke alarm"},
		{name: "phrase split does not match", text: "smoke in cab, alarm", want: ""},
		{name: "three keywords", text: "MTC major failure reported", want: "MTC Major failure"},
		{name: "partial keyword set", text: "MTC major issue", want: ""},
		{name: "no match", text: "Window cleaning", want: ""},
		{name: "empty cell", text: nil, want: ""},
		{name: "numeric cell", text: 42.0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.text))
		})
	}
}

func TestTypeClassifier(t *testing.T) {
	c := TypeClassifier()
	require.Equal(t, MatchAnyWholeWord, c.Mode())

	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{name: "checklist", text: "Guide tire worn, checklist done", want: "FC", wantOK: true},
		{name: "corrective wins over check", text: "Inspected and repaired the hose", want: "CM", wantOK: true},
		{name: "code keyword", text: "pm done", want: "PM", wantOK: true},
		{name: "warranty", text: "Sent under warranty", want: "IW", wantOK: true},
		{name: "modification", text: "Added new bracket", want: "MOD", wantOK: true},
		{name: "hyphen is a word boundary", text: "re-check after shift", want: "FC", wantOK: true},
		{name: "add inside address", text: "Update the address label", wantOK: false},
		{name: "iw inside widow", text: "WIDOW seal loose", wantOK: false},
		{name: "cm inside word", text: "CMS screen frozen", wantOK: false},
		{name: "empty", text: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.ClassifyText(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchModesDiffer(t *testing.T) {
	rules := []Rule{{Category: "MOD", Keywords: []string{"add"}}}
	substr := MustClassifier(MatchAllSubstrings, rules)
	word := MustClassifier(MatchAnyWholeWord, rules)

	assert.Equal(t, "MOD", substr.Classify("address"))
	assert.Equal(t, "", word.Classify("address"))
	assert.Equal(t, "MOD", word.Classify("add a clamp"))
}

func TestNewClassifier_InvalidRules(t *testing.T) {
	tests := []struct {
		name  string
		mode  MatchMode
		rules []Rule
	}{
		{name: "empty category", rules: []Rule{{Category: " ", Keywords: []string{"x"}}}},
		{name: "no keywords", rules: []Rule{{Category: "A"}}},
		{name: "blank keyword", rules: []Rule{{Category: "A", Keywords: []string{"x", " "}}}},
		{name: "unknown mode", mode: MatchMode(9), rules: []Rule{{Category: "A", Keywords: []string{"x"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClassifier(tt.mode, tt.rules)
			assert.Error(t, err)
		})
	}

	assert.Panics(t, func() { MustClassifier(MatchAllSubstrings, []Rule{{Category: "A"}}) })
}

func TestMatchMode_String(t *testing.T) {
	assert.Equal(t, "all_substrings", MatchAllSubstrings.String())
	assert.Equal(t, "any_whole_word", MatchAnyWholeWord.String())
	assert.Equal(t, "MatchMode(7)", MatchMode(7).String())
}
