package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrSignatureMismatch means the request body was not signed with the shared secret
var ErrSignatureMismatch = errors.New("signature mismatch")

// HashString creates a SHA-256 hash of the input string
func HashString(input string) string {
	h := sha256.New()
	h.Write([]byte(input))

	return hex.EncodeToString(h.Sum(nil))
}

// ShortHash is the first 12 hex characters of HashString, used to refer to
// an email or phone number in logs without writing it out.
func ShortHash(input string) string {
	if input == "" {
		return ""
	}
	return HashString(strings.ToLower(strings.TrimSpace(input)))[:12]
}

// SignBody returns the hex HMAC-SHA256 of body under secret
func SignBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a "sha256=<hex>" or bare "<hex>" signature header
// value against the body.
func VerifySignature(secret string, body []byte, header string) error {
	sig := strings.TrimSpace(header)
	sig = strings.TrimPrefix(sig, "sha256=")

	got, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil || len(got) != sha256.Size {
		return ErrSignatureMismatch
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return ErrSignatureMismatch
	}
	return nil
}
