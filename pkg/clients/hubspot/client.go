package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/digitalocean/framer-hubspot/pkg/models"
	"github.com/digitalocean/framer-hubspot/pkg/utils"
)

const contactsPath = "/crm/v3/objects/contacts"

// Client defines the interface for interacting with the HubSpot contacts API
type Client interface {
	SearchContacts(ctx context.Context, property, value string, properties ...string) ([]Contact, error)
	CreateContact(ctx context.Context, properties models.Properties) (string, error)
	UpdateContact(ctx context.Context, id string, properties models.Properties) (*Contact, error)
}

// Contact is a HubSpot contact record
type Contact struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// APIError is a non-2xx answer from HubSpot
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("error from HubSpot API (HTTP %d): %s", e.StatusCode, e.Body)
}

// Options tune the transport. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64
	RateBurst  int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type clientImpl struct {
	token      string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a new HubSpot client authenticated with a private app token
func NewClient(accessToken string, opts Options) Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.hubapi.com"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 9
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 1
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &clientImpl{
		token:      accessToken,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		timeout:    opts.Timeout,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		logger:     opts.Logger.Named("hubspot"),
	}
}

type searchFilter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type filterGroup struct {
	Filters []searchFilter `json:"filters"`
}

type searchRequest struct {
	FilterGroups []filterGroup `json:"filterGroups"`
	Properties   []string      `json:"properties,omitempty"`
	Limit        int           `json:"limit"`
}

// SearchContacts finds contacts whose property equals value exactly
func (c *clientImpl) SearchContacts(ctx context.Context, property, value string, properties ...string) ([]Contact, error) {
	payload := searchRequest{
		FilterGroups: []filterGroup{{
			Filters: []searchFilter{{PropertyName: property, Operator: "EQ", Value: value}},
		}},
		Properties: properties,
		Limit:      1,
	}

	body, err := c.do(ctx, http.MethodPost, contactsPath+"/search", payload)
	if err != nil {
		return nil, err
	}

	var response struct {
		Total   int       `json:"total"`
		Results []Contact `json:"results"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	c.logger.Debug("contact search",
		zap.String("property", property),
		zap.String("value_hash", utils.ShortHash(value)),
		zap.Int("total", response.Total))
	return response.Results, nil
}

// CreateContact creates a contact and returns its id
func (c *clientImpl) CreateContact(ctx context.Context, properties models.Properties) (string, error) {
	payload := map[string]interface{}{
		"properties": properties.Prune(),
	}

	body, err := c.do(ctx, http.MethodPost, contactsPath, payload)
	if err != nil {
		return "", err
	}

	var created Contact
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("error from HubSpot API: create returned no id")
	}

	c.logger.Info("created contact", zap.String("contact_id", created.ID))
	return created.ID, nil
}

// UpdateContact patches the given properties of an existing contact
func (c *clientImpl) UpdateContact(ctx context.Context, id string, properties models.Properties) (*Contact, error) {
	payload := map[string]interface{}{
		"properties": properties.Prune(),
	}

	body, err := c.do(ctx, http.MethodPatch, contactsPath+"/"+url.PathEscape(id), payload)
	if err != nil {
		return nil, err
	}

	var updated Contact
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	c.logger.Info("updated contact", zap.String("contact_id", id))
	return &updated, nil
}

// do sends one JSON request under its own timeout and returns the body of a
// 2xx response.
func (c *clientImpl) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("error waiting for rate limiter: %w", err)
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Add("Authorization", "Bearer "+c.token)
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling HubSpot %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
