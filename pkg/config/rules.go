package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldRule maps form field names onto one CRM property.
type FieldRule struct {
	Property string   `yaml:"property"`
	Equals   []string `yaml:"equals"`
	Contains []string `yaml:"contains"`
}

// ValueEntry is one canonical label and the fragments that select it.
type ValueEntry struct {
	Label    string   `yaml:"label"`
	Matchers []string `yaml:"matchers"`
}

// ValueTable canonicalizes the values of fields whose name contains one of Fields.
type ValueTable struct {
	Name    string       `yaml:"name"`
	Fields  []string     `yaml:"fields"`
	Entries []ValueEntry `yaml:"entries"`
}

// Rules is the on-disk form of the classifier tables
type Rules struct {
	Fields      []FieldRule  `yaml:"fields"`
	ValueTables []ValueTable `yaml:"value_tables"`
}

// LoadRules reads a YAML rules file. Empty sections mean "keep the defaults".
func LoadRules(path string) (*Rules, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var rules Rules
	if err := yaml.Unmarshal(b, &rules); err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", path, err)
	}

	for i, r := range rules.Fields {
		if r.Property == "" {
			return nil, fmt.Errorf("field rule %d: property is required", i)
		}
		if len(r.Equals) == 0 && len(r.Contains) == 0 {
			return nil, fmt.Errorf("field rule %d (%s): needs equals or contains", i, r.Property)
		}
	}
	for i, t := range rules.ValueTables {
		if len(t.Fields) == 0 {
			return nil, fmt.Errorf("value table %d (%s): fields are required", i, t.Name)
		}
		for j, e := range t.Entries {
			if e.Label == "" || len(e.Matchers) == 0 {
				return nil, fmt.Errorf("value table %s entry %d: label and matchers are required", t.Name, j)
			}
		}
	}

	return &rules, nil
}
