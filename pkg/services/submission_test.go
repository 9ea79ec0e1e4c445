package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalocean/framer-hubspot/pkg/classifier"
	"github.com/digitalocean/framer-hubspot/pkg/clients/hubspot"
	"github.com/digitalocean/framer-hubspot/pkg/models"
	"github.com/digitalocean/framer-hubspot/pkg/normalize"
)

func newTestSubmissionService(crm *fakeCRM, configured bool) SubmissionService {
	phone := normalize.NewPhoneNormalizer("971", 9)
	return NewSubmissionService(
		classifier.New(phone),
		newTestUpserter(crm, NotesContainChecker{}),
		phone,
		configured,
		nil,
	)
}

func TestProcessSubmission_CreatesContact(t *testing.T) {
	crm := &fakeCRM{}
	svc := newTestSubmissionService(crm, true)

	result, err := svc.ProcessSubmission(context.Background(), models.RawSubmission{
		"Email":      "A@B.com",
		"First Name": "Jane",
		"Phone":      "0501234567",
		"Goal":       "lose-weight",
	})
	require.NoError(t, err)

	assert.Equal(t, ActionCreated, result.Action)
	require.Len(t, crm.creates, 1)
	assert.Equal(t, models.Properties{
		"email":     "a@b.com",
		"firstname": "Jane",
		"phone":     "+971501234567",
		"company":   "Website Lead",
		"notes":     "Goal: Lose weight",
	}, crm.creates[0])
}

func TestProcessSubmission_MissingEmailMakesNoCRMCall(t *testing.T) {
	crm := &fakeCRM{}
	svc := newTestSubmissionService(crm, true)

	for _, raw := range []models.RawSubmission{
		{},
		{"Name": "Jane Doe", "Phone": "0501234567", "Referral Source": "Instagram"},
		{"Email": "", "Message": "undefined"},
	} {
		_, err := svc.ProcessSubmission(context.Background(), raw)

		var validationErr *ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "email", validationErr.Field)
	}

	assert.Empty(t, crm.searches)
	assert.Empty(t, crm.creates)
	assert.Empty(t, crm.updates)
}

func TestProcessSubmission_SameEmailTwice(t *testing.T) {
	crm := &fakeCRM{}
	svc := newTestSubmissionService(crm, true)
	ctx := context.Background()

	_, err := svc.ProcessSubmission(ctx, models.RawSubmission{"email": "a@b.com", "Message": "First question"})
	require.NoError(t, err)
	result, err := svc.ProcessSubmission(ctx, models.RawSubmission{"Email": "A@b.com", "Message": "Second question"})
	require.NoError(t, err)

	assert.Equal(t, ActionUpdated, result.Action)
	require.Len(t, crm.creates, 1)
	require.Len(t, crm.updates, 1)
	notes := crm.updates[0].Properties["notes"]
	assert.Contains(t, notes, "Message: First question"+NotesMergeSeparator)
	assert.Contains(t, notes, "Message: Second question")
}

func TestProcessSubmission_NotConfigured(t *testing.T) {
	crm := &fakeCRM{}
	svc := newTestSubmissionService(crm, false)

	_, err := svc.ProcessSubmission(context.Background(), models.RawSubmission{"email": "a@b.com"})

	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, crm.searches)
}

func TestProcessSubmission_UpsertFailurePropagates(t *testing.T) {
	crm := &fakeCRM{writeErr: &hubspot.APIError{StatusCode: 500, Body: "boom"}}
	svc := newTestSubmissionService(crm, true)

	_, err := svc.ProcessSubmission(context.Background(), models.RawSubmission{"email": "a@b.com"})

	var upsertErr *UpsertError
	assert.True(t, errors.As(err, &upsertErr))
}
