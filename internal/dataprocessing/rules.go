package dataprocessing

// ProblemRules is the ordered Problem table, evaluated with MatchAllSubstrings.
// Earlier rules shadow later ones: "TWP" alone wins over "TWP" + "Brake".
var ProblemRules = []Rule{
	{Category: "Guide tire worn out", Keywords: []string{"Guide tire", "worn"}},
	{Category: "Guide tire warning", Keywords: []string{"Guide tire", "warning"}},
	{Category: "Load tire worn out", Keywords: []string{"load", "worn"}},
	{Category: "Load tire warning", Keywords: []string{"load", "warning"}},
	{Category: "CCD worn out", Keywords: []string{"CCD", "Worn out"}},
	{Category: "Train not responding in TWP", Keywords: []string{"TWP"}},
	{Category: "Smoke alarm", Keywords: []string{"Smoke alarm"}},
	{Category: "APU faulty", Keywords: []string{"APU faulty"}},
	{Category: "Guide tire lost signal", Keywords: []string{"Guide tire", "signal"}},
	{Category: "CCD replacement", Keywords: []string{"Collector"}},
	{Category: "CCD crack", Keywords: []string{"CCD"}},
	{Category: "Brake pressure low", Keywords: []string{"TWP", "Brake"}},
	{Category: "Ceiling loud noise", Keywords: []string{"ceiling", "sound"}},
	{Category: "Door major failure", Keywords: []string{"door major"}},
	{Category: "Gangway lound noise", Keywords: []string{"gangway loud"}},
	{Category: "Liquid cooling system", Keywords: []string{"liquid"}},
	{Category: "MTC Major failure", Keywords: []string{"MTC", "major", "failure"}},
	{Category: "Steering Cylinder leak", Keywords: []string{"steering", "leak"}},
	{Category: "Steering Cylinder warning", Keywords: []string{"steering", "warning"}},
	{Category: "Water dripping", Keywords: []string{"water", "drip"}},
	{Category: "Wheel Arc", Keywords: []string{"Allcar", "arc"}},
	{Category: "Wheel well door lock braket", Keywords: []string{"bracket"}},
}

// TypeRules is the ordered maintenance Type table, evaluated with
// MatchAnyWholeWord. Corrective work is checked before checks and
// inspections so a repaired fault found during a checklist stays CM.
var TypeRules = []Rule{
	{Category: "CM", Keywords: []string{"CM", "replace", "replaced", "repair", "repaired", "faulty", "broken", "leak", "leaking", "crack", "cracked"}},
	{Category: "FC", Keywords: []string{"FC", "checklist", "check", "checked", "inspection", "inspected"}},
	{Category: "PM", Keywords: []string{"PM", "preventive", "lubrication", "lubricated", "cleaning", "cleaned"}},
	{Category: "IW", Keywords: []string{"IW", "warranty"}},
	{Category: "MOD", Keywords: []string{"MOD", "add", "added", "install", "installed", "modification"}},
}

var (
	problemClassifier = MustClassifier(MatchAllSubstrings, ProblemRules)
	typeClassifier    = MustClassifier(MatchAnyWholeWord, TypeRules)
)

// ProblemClassifier returns the shared classifier compiled from ProblemRules.
func ProblemClassifier() *Classifier { return problemClassifier }

// TypeClassifier returns the shared classifier compiled from TypeRules.
func TypeClassifier() *Classifier { return typeClassifier }
