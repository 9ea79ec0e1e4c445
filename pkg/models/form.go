package models

import (
	"sort"
	"strings"
)

// NotesSeparator joins the entries of a Notes aggregate
const NotesSeparator = " | "

// RawSubmission is the field map of one form submission, keyed by the field
// name exactly as the form builder sent it.
type RawSubmission map[string]string

// Fields returns the field names in a stable order
func (r RawSubmission) Fields() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEmptyValue reports whether a submitted value carries nothing.
// Form builders send unset inputs as "", null or the string "undefined".
func IsEmptyValue(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "null", "undefined":
		return true
	}
	return false
}

// Properties are CRM contact properties keyed by their internal name
type Properties map[string]string

// Contact property names
const (
	PropEmail     = "email"
	PropFirstName = "firstname"
	PropLastName  = "lastname"
	PropPhone     = "phone"
	PropCompany   = "company"
	PropAddress   = "address"
	PropCity      = "city"
	PropState     = "state"
	PropZip       = "zip"
	PropCountry   = "country"
	PropWebsite   = "website"
	PropJobTitle  = "jobtitle"
	PropNotes     = "notes"
)

// Get returns the trimmed value for key
func (p Properties) Get(key string) string {
	return strings.TrimSpace(p[key])
}

// Has reports whether key holds a non-empty value
func (p Properties) Has(key string) bool {
	return p.Get(key) != ""
}

// Prune returns a copy without empty values
func (p Properties) Prune() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		if strings.TrimSpace(v) != "" {
			out[k] = v
		}
	}
	return out
}

// Clone returns a shallow copy of p
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Notes collects "Label: value" entries for fields with no CRM property.
type Notes []string

// Add appends one entry
func (n *Notes) Add(label, value string) {
	*n = append(*n, strings.TrimSpace(label)+": "+strings.TrimSpace(value))
}

// Join renders the aggregate as one string
func (n Notes) Join() string {
	return strings.Join(n, NotesSeparator)
}

// Entries returns the entries whose label is one of labels
// (case-insensitive). With no labels every entry is returned.
func (n Notes) Entries(labels ...string) Notes {
	want := make(map[string]bool, len(labels))
	for _, l := range labels {
		want[strings.ToLower(strings.TrimSpace(l))] = true
	}

	var out Notes
	for _, entry := range n {
		label, _, ok := strings.Cut(entry, ": ")
		if !ok {
			continue
		}
		if len(want) == 0 || want[strings.ToLower(label)] {
			out = append(out, entry)
		}
	}
	return out
}
