package services

import (
	"strings"
	"time"

	"github.com/digitalocean/framer-hubspot/pkg/models"
)

// NotesMergeSeparator separates an existing notes value from a new submission
const NotesMergeSeparator = "\n\n"

// MergeNotes appends incoming to existing behind a marker naming the time of
// the new submission. Either side may be empty.
func MergeNotes(existing, incoming string, at time.Time) string {
	existing = strings.TrimSpace(existing)
	incoming = strings.TrimSpace(incoming)

	switch {
	case incoming == "":
		return existing
	case existing == "":
		return incoming
	}
	marker := "[NEW SUBMISSION " + at.UTC().Format(time.RFC3339) + "] "
	return existing + NotesMergeSeparator + marker + incoming
}

// DuplicateChecker decides whether a submission repeats what a contact
// already has on file, in which case no update is sent.
type DuplicateChecker interface {
	IsDuplicate(existingNotes string, incoming models.Notes) bool
}

// NotesContainChecker treats a submission as a repeat when every checked
// "Label: value" entry is already part of the stored notes. Labels narrow the
// check to those entries; with no labels every entry is checked.
type NotesContainChecker struct {
	Labels []string
}

// IsDuplicate implements DuplicateChecker
func (c NotesContainChecker) IsDuplicate(existingNotes string, incoming models.Notes) bool {
	existing := strings.ToLower(existingNotes)
	if strings.TrimSpace(existing) == "" {
		return false
	}

	entries := incoming.Entries(c.Labels...)
	if len(entries) == 0 {
		return false
	}
	for _, e := range entries {
		if !strings.Contains(existing, strings.ToLower(e)) {
			return false
		}
	}
	return true
}

// NeverDuplicate disables suppression
type NeverDuplicate struct{}

// IsDuplicate implements DuplicateChecker
func (NeverDuplicate) IsDuplicate(string, models.Notes) bool { return false }
