package classifier

import (
	"fmt"
	"strings"

	"github.com/digitalocean/framer-hubspot/pkg/config"
	"github.com/digitalocean/framer-hubspot/pkg/models"
	"github.com/digitalocean/framer-hubspot/pkg/normalize"
)

// PropFullName is the pseudo property of the "name" rule. Its value is split
// into firstname and lastname instead of being stored.
const PropFullName = "name"

// Rule matches folded field names onto a property
type Rule struct {
	Property string
	Equals   []string
	Contains []string
}

// Matches reports whether the folded field name hits the rule
func (r Rule) Matches(key string) bool {
	for _, e := range r.Equals {
		if key == e {
			return true
		}
	}
	for _, c := range r.Contains {
		if strings.Contains(key, c) {
			return true
		}
	}
	return false
}

// DefaultRules is the predicate table in priority order. Earlier rules win, so
// "contact email" is an email and "company website" is a website.
var DefaultRules = []Rule{
	{Property: models.PropEmail, Contains: []string{"email", "e mail"}},
	{Property: models.PropPhone, Contains: []string{"phone", "mobile", "tel", "whatsapp", "contact"}},
	{Property: models.PropFirstName, Equals: []string{"first name", "firstname", "fname", "given name", "forename"}},
	{Property: models.PropLastName, Equals: []string{"last name", "lastname", "lname", "surname", "family name"}},
	{Property: PropFullName, Equals: []string{"name", "full name", "fullname", "your name"}},
	{Property: models.PropWebsite, Equals: []string{"site", "web"}, Contains: []string{"website", "url"}},
	{Property: models.PropCompany, Contains: []string{"company", "organization", "organisation", "business"}},
	{Property: models.PropJobTitle, Equals: []string{"title", "role"}, Contains: []string{"job title", "jobtitle", "position"}},
	{Property: models.PropAddress, Contains: []string{"address", "street"}},
	{Property: models.PropZip, Contains: []string{"zip", "postal", "postcode"}},
	{Property: models.PropCity, Contains: []string{"city", "town"}},
	{Property: models.PropState, Contains: []string{"state", "province", "emirate"}},
	{Property: models.PropCountry, Contains: []string{"country"}},
}

var knownProperties = map[string]bool{
	models.PropEmail:     true,
	models.PropFirstName: true,
	models.PropLastName:  true,
	models.PropPhone:     true,
	models.PropCompany:   true,
	models.PropAddress:   true,
	models.PropCity:      true,
	models.PropState:     true,
	models.PropZip:       true,
	models.PropCountry:   true,
	models.PropWebsite:   true,
	models.PropJobTitle:  true,
	PropFullName:         true,
}

// RulesFromConfig converts rules file entries, folding every pattern the same
// way field names are folded.
func RulesFromConfig(in []config.FieldRule) ([]Rule, error) {
	out := make([]Rule, 0, len(in))
	for i, fr := range in {
		prop := strings.ToLower(strings.TrimSpace(fr.Property))
		if !knownProperties[prop] {
			return nil, fmt.Errorf("field rule %d: unknown property %q", i, fr.Property)
		}
		out = append(out, Rule{
			Property: prop,
			Equals:   foldAll(fr.Equals),
			Contains: foldAll(fr.Contains),
		})
	}
	return out, nil
}

func foldAll(in []string) []string {
	var out []string
	for _, s := range in {
		if f := normalize.FoldKey(s); f != "" {
			out = append(out, f)
		}
	}
	return out
}
