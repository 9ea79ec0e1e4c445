package classifier

import (
	"strings"

	"github.com/digitalocean/framer-hubspot/pkg/config"
	"github.com/digitalocean/framer-hubspot/pkg/models"
	"github.com/digitalocean/framer-hubspot/pkg/normalize"
)

// Classifier turns an arbitrary form field map into CRM contact properties
// plus a notes aggregate for everything it cannot place.
type Classifier struct {
	rules  []Rule
	tables normalize.ValueTables
	phone  *normalize.PhoneNormalizer
}

// New creates a classifier with the default predicate table and value tables
func New(phone *normalize.PhoneNormalizer) *Classifier {
	return &Classifier{
		rules:  DefaultRules,
		tables: normalize.DefaultValueTables,
		phone:  phone,
	}
}

// NewFromRules creates a classifier whose tables come from a rules file.
// Sections the file leaves empty keep their defaults.
func NewFromRules(phone *normalize.PhoneNormalizer, rules *config.Rules) (*Classifier, error) {
	c := New(phone)
	if rules == nil {
		return c, nil
	}
	if len(rules.Fields) > 0 {
		converted, err := RulesFromConfig(rules.Fields)
		if err != nil {
			return nil, err
		}
		c.rules = converted
	}
	if len(rules.ValueTables) > 0 {
		c.tables = normalize.ValueTablesFromRules(rules.ValueTables)
	}
	return c, nil
}

// Property returns the property the first matching rule assigns to a field
// name, or "" when the field belongs in the notes.
func (c *Classifier) Property(fieldName string) string {
	key := normalize.FoldKey(fieldName)
	if key == "" {
		return ""
	}
	for _, r := range c.rules {
		if r.Matches(key) {
			return r.Property
		}
	}
	return ""
}

// Classify maps every non-empty field. Fields are visited in sorted name
// order so the result does not depend on map iteration.
func (c *Classifier) Classify(raw models.RawSubmission) (models.Properties, models.Notes) {
	props := models.Properties{}
	var notes models.Notes
	var fullNames []field

	for _, name := range raw.Fields() {
		value := raw[name]
		if models.IsEmptyValue(value) {
			continue
		}
		value = strings.TrimSpace(c.tables.Canonicalize(name, value))

		prop := c.Property(name)
		switch prop {
		case "":
			notes.Add(name, value)
			continue
		case PropFullName:
			// Split after the loop so an explicit first name field always wins.
			fullNames = append(fullNames, field{name: name, value: value})
			continue
		case models.PropEmail:
			value = strings.ToLower(value)
		case models.PropPhone:
			value = c.phone.Normalize(value)
			if value == "" {
				notes.Add(name, raw[name])
				continue
			}
		}

		if props.Has(prop) {
			// Keep the first value, the second one is still worth a note.
			notes.Add(name, value)
			continue
		}
		props[prop] = value
	}

	for _, f := range fullNames {
		if props.Has(models.PropFirstName) {
			notes.Add(f.name, f.value)
			continue
		}
		splitName(props, f.value)
	}

	return props, notes
}

type field struct {
	name  string
	value string
}

// splitName puts the first token into firstname and the rest into lastname.
func splitName(props models.Properties, full string) {
	tokens := strings.Fields(full)
	if len(tokens) == 0 {
		return
	}
	props[models.PropFirstName] = tokens[0]
	if len(tokens) > 1 && !props.Has(models.PropLastName) {
		props[models.PropLastName] = strings.Join(tokens[1:], " ")
	}
}
