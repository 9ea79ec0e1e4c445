package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration values
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	HubSpotAccessToken string
	HubSpotBaseURL     string
	CRMTimeout         time.Duration
	CRMRateLimit       float64
	CRMRateBurst       int

	WebhookSecret    string
	VerifySignatures bool
	SignatureHeader  string

	PhoneCountryCode string
	PhoneLocalLength int

	DefaultCompany string
	NotesProperty  string
	DedupEnabled   bool
	DedupLabels    []string
	StrictErrors   bool

	FieldRulesFile string
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "release"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		HubSpotAccessToken: os.Getenv("HUBSPOT_ACCESS_TOKEN"),
		HubSpotBaseURL:     strings.TrimRight(getEnv("HUBSPOT_BASE_URL", "https://api.hubapi.com"), "/"),
		CRMTimeout:         getEnvDuration("CRM_TIMEOUT", 10*time.Second),
		// HubSpot private apps are limited to 100 requests per 10 seconds.
		CRMRateLimit: getEnvFloat("CRM_RATE_LIMIT", 9),
		CRMRateBurst: getEnvInt("CRM_RATE_BURST", 1),

		WebhookSecret:    os.Getenv("WEBHOOK_SECRET"),
		VerifySignatures: getEnvBool("VERIFY_SIGNATURES", false),
		SignatureHeader:  getEnv("SIGNATURE_HEADER", "X-Webhook-Signature"),

		PhoneCountryCode: strings.TrimPrefix(getEnv("PHONE_COUNTRY_CODE", "971"), "+"),
		PhoneLocalLength: getEnvInt("PHONE_LOCAL_LENGTH", 9),

		DefaultCompany: getEnv("DEFAULT_COMPANY", "Website Lead"),
		NotesProperty:  getEnv("NOTES_PROPERTY", "notes"),
		DedupEnabled:   getEnvBool("DEDUP_ENABLED", true),
		DedupLabels:    getEnvList("DEDUP_LABELS"),
		StrictErrors:   getEnvBool("STRICT_ERRORS", false),

		FieldRulesFile: os.Getenv("FIELD_RULES_FILE"),
	}
}

// Validate reports the first configuration value that cannot work.
// A missing HubSpot token is not an error here: the server still starts and
// answers submissions with a 500 until one is configured.
func (c *Config) Validate() error {
	if c.PhoneCountryCode == "" {
		return fmt.Errorf("PHONE_COUNTRY_CODE must not be empty")
	}
	if _, err := strconv.Atoi(c.PhoneCountryCode); err != nil {
		return fmt.Errorf("PHONE_COUNTRY_CODE must be numeric, got %q", c.PhoneCountryCode)
	}
	if c.PhoneLocalLength <= 0 {
		return fmt.Errorf("PHONE_LOCAL_LENGTH must be positive, got %d", c.PhoneLocalLength)
	}
	if c.CRMTimeout <= 0 {
		return fmt.Errorf("CRM_TIMEOUT must be positive, got %s", c.CRMTimeout)
	}
	if c.CRMRateLimit <= 0 || c.CRMRateBurst <= 0 {
		return fmt.Errorf("CRM_RATE_LIMIT and CRM_RATE_BURST must be positive")
	}
	if c.VerifySignatures && c.WebhookSecret == "" {
		return fmt.Errorf("VERIFY_SIGNATURES is set but WEBHOOK_SECRET is empty")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}
	if c.NotesProperty == "" {
		return fmt.Errorf("NOTES_PROPERTY must not be empty")
	}
	return nil
}

// HasCRMConfig returns true if the HubSpot access token is configured
func (c *Config) HasCRMConfig() bool {
	return c.HubSpotAccessToken != ""
}

// SignatureVerificationEnabled returns true when inbound signatures are checked
func (c *Config) SignatureVerificationEnabled() bool {
	return c.VerifySignatures && c.WebhookSecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, defaultValue.String()))
	if err != nil {
		return defaultValue
	}
	return d
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
