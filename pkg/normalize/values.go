package normalize

import (
	"strings"

	"github.com/digitalocean/framer-hubspot/pkg/config"
)

// ValueEntry maps any of its matchers onto Label
type ValueEntry struct {
	Label    string
	Matchers []string
}

// ValueTable canonicalizes noisy values of one categorical field. Entries are
// tried in order and the first entry with a matcher contained in the folded
// value wins.
type ValueTable struct {
	Name    string
	Fields  []string
	Entries []ValueEntry
}

// DefaultValueTables are used when no rules file overrides them
var DefaultValueTables = []ValueTable{
	{
		Name:   "fitness_goal",
		Fields: []string{"goal", "objective"},
		Entries: []ValueEntry{
			{Label: "Lose weight", Matchers: []string{"lose weight", "weight loss", "fat loss", "slim"}},
			{Label: "Build muscle", Matchers: []string{"build muscle", "muscle gain", "gain muscle", "bulk"}},
			{Label: "Improve endurance", Matchers: []string{"endurance", "stamina", "cardio"}},
			{Label: "Increase flexibility", Matchers: []string{"flexibility", "mobility", "stretch"}},
			{Label: "Improve general fitness", Matchers: []string{"general fitness", "get fit", "fitness", "health"}},
		},
	},
}

// AppliesTo reports whether the table handles a field with this name
func (t ValueTable) AppliesTo(fieldName string) bool {
	key := FoldKey(fieldName)
	for _, f := range t.Fields {
		if f = FoldKey(f); f != "" && strings.Contains(key, f) {
			return true
		}
	}
	return false
}

// Canonicalize returns the label for value, or value unchanged when nothing matches.
func (t ValueTable) Canonicalize(value string) string {
	folded := FoldValue(value)
	if folded == "" {
		return value
	}
	for _, e := range t.Entries {
		for _, m := range e.Matchers {
			if m = FoldValue(m); m != "" && strings.Contains(folded, m) {
				return e.Label
			}
		}
	}
	return value
}

// ValueTables is an ordered set of tables; the first table that applies to a
// field owns its values.
type ValueTables []ValueTable

// Canonicalize runs value through the first table applying to fieldName
func (ts ValueTables) Canonicalize(fieldName, value string) string {
	for _, t := range ts {
		if t.AppliesTo(fieldName) {
			return t.Canonicalize(value)
		}
	}
	return value
}

// ValueTablesFromRules converts the rules file form
func ValueTablesFromRules(in []config.ValueTable) ValueTables {
	out := make(ValueTables, 0, len(in))
	for _, t := range in {
		vt := ValueTable{Name: t.Name, Fields: t.Fields}
		for _, e := range t.Entries {
			vt.Entries = append(vt.Entries, ValueEntry{Label: e.Label, Matchers: e.Matchers})
		}
		out = append(out, vt)
	}
	return out
}
