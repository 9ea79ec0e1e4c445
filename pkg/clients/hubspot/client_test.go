package hubspot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalocean/framer-hubspot/pkg/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]interface{}
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(b, &body)
		requests = append(requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Auth:   r.Header.Get("Authorization"),
			Body:   body,
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newTestClient(baseURL string) Client {
	return NewClient("pat-test", Options{BaseURL: baseURL, RateLimit: 1000, RateBurst: 10})
}

func TestSearchContacts(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, `{
		"total": 1,
		"results": [{"id": "501", "properties": {"email": "a@b.com", "notes": "Goal: Lose weight", "phone": null}}]
	}`)
	client := newTestClient(srv.URL)

	contacts, err := client.SearchContacts(context.Background(), "email", "a@b.com", "email", "notes")
	require.NoError(t, err)

	require.Len(t, contacts, 1)
	assert.Equal(t, "501", contacts[0].ID)
	assert.Equal(t, "Goal: Lose weight", contacts[0].Properties["notes"])
	assert.Equal(t, "", contacts[0].Properties["phone"])

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/crm/v3/objects/contacts/search", req.Path)
	assert.Equal(t, "Bearer pat-test", req.Auth)

	groups := req.Body["filterGroups"].([]interface{})
	filter := groups[0].(map[string]interface{})["filters"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "email", filter["propertyName"])
	assert.Equal(t, "EQ", filter["operator"])
	assert.Equal(t, "a@b.com", filter["value"])
	assert.Equal(t, []interface{}{"email", "notes"}, req.Body["properties"])
}

func TestSearchContacts_NoResults(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"total": 0, "results": []}`)

	contacts, err := newTestClient(srv.URL).SearchContacts(context.Background(), "phone", "+971501234567")

	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestCreateContact_PrunesEmptyValues(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusCreated, `{"id": "777", "properties": {}}`)

	id, err := newTestClient(srv.URL).CreateContact(context.Background(), models.Properties{
		"email":   "a@b.com",
		"company": "",
		"city":    " ",
	})

	require.NoError(t, err)
	assert.Equal(t, "777", id)

	req := (*requests)[0]
	assert.Equal(t, "/crm/v3/objects/contacts", req.Path)
	assert.Equal(t, map[string]interface{}{"email": "a@b.com"}, req.Body["properties"])
}

func TestUpdateContact(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, `{"id": "501", "properties": {"notes": "merged"}}`)

	contact, err := newTestClient(srv.URL).UpdateContact(context.Background(), "501", models.Properties{"notes": "merged"})

	require.NoError(t, err)
	assert.Equal(t, "merged", contact.Properties["notes"])

	req := (*requests)[0]
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "/crm/v3/objects/contacts/501", req.Path)
}

func TestAPIError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusConflict, `{"status":"error","message":"Contact already exists"}`)

	_, err := newTestClient(srv.URL).CreateContact(context.Background(), models.Properties{"email": "a@b.com"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "already exists")
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	client := NewClient("pat-test", Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})

	_, err := client.SearchContacts(context.Background(), "email", "a@b.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
