package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalocean/framer-hubspot/pkg/models"
)

func TestParseSubmission(t *testing.T) {
	raw, err := ParseSubmission([]byte(`{
		"Email": "a@b.com",
		"Age": 34,
		"Budget": 1500.50,
		"Newsletter": true,
		"Company": null,
		"Interests": ["Yoga", "", "Running", null],
		"Address": {"City": "Dubai", "Street": "Sheikh Zayed Rd"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, models.RawSubmission{
		"Email":          "a@b.com",
		"Age":            "34",
		"Budget":         "1500.50",
		"Newsletter":     "true",
		"Interests":      "Yoga, Running",
		"Address City":   "Dubai",
		"Address Street": "Sheikh Zayed Rd",
	}, raw)
}

func TestParseSubmission_DataMustBeObject(t *testing.T) {
	raw, err := ParseSubmission([]byte(`{"data": "not a map", "email": "a@b.com"}`))
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", raw["email"])
	assert.Equal(t, "not a map", raw["data"])
}

func TestParseSubmission_CollidingNamesAreStable(t *testing.T) {
	body := []byte(`{
		"Email ": "second@b.com",
		"Email": "first@b.com",
		"Address City": "Abu Dhabi",
		"Address": {"City": "Dubai"}
	}`)

	for i := 0; i < 20; i++ {
		raw, err := ParseSubmission(body)
		require.NoError(t, err)

		assert.Equal(t, models.RawSubmission{
			"Email":        "first@b.com",
			"Address City": "Dubai",
		}, raw)
	}
}

func TestParseSubmission_Errors(t *testing.T) {
	for _, body := range []string{``, `{`, `[]`, `42`, `null`} {
		_, err := ParseSubmission([]byte(body))
		assert.Error(t, err, "body %q", body)
	}
}
