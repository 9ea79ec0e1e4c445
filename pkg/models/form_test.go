package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmptyValue(t *testing.T) {
	for _, v := range []string{"", "  ", "null", "undefined", " undefined "} {
		assert.True(t, IsEmptyValue(v), "%q", v)
	}
	for _, v := range []string{"0", "no", "Null Island"} {
		assert.False(t, IsEmptyValue(v), "%q", v)
	}
}

func TestProperties_Prune(t *testing.T) {
	props := Properties{"email": "a@b.com", "company": "", "city": "  "}

	pruned := props.Prune()

	assert.Equal(t, Properties{"email": "a@b.com"}, pruned)
	assert.Len(t, props, 3, "Prune must not modify the receiver")
}

func TestNotes(t *testing.T) {
	var notes Notes
	notes.Add("Goal", " Lose weight ")
	notes.Add(" Referral Source", "Instagram")

	assert.Equal(t, "Goal: Lose weight | Referral Source: Instagram", notes.Join())
	assert.Equal(t, notes, notes.Entries())
	assert.Equal(t, Notes{"Referral Source: Instagram"}, notes.Entries("referral source"))
	assert.Empty(t, notes.Entries("Budget"))
}

func TestRawSubmission_FieldsSorted(t *testing.T) {
	raw := RawSubmission{"b": "1", "a": "2", "C": "3"}
	assert.Equal(t, []string{"C", "a", "b"}, raw.Fields())
}
