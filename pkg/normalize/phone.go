package normalize

import "strings"

// PhoneNormalizer rewrites loosely typed phone numbers into +<country><number>
// for one home region. It is a heuristic, not a numbering-plan validator.
type PhoneNormalizer struct {
	CountryCode string
	LocalLength int
}

// NewPhoneNormalizer creates a normalizer for the given country calling code
// ("971", "+971") and local subscriber number length.
func NewPhoneNormalizer(countryCode string, localLength int) *PhoneNormalizer {
	return &PhoneNormalizer{
		CountryCode: strings.TrimPrefix(strings.TrimSpace(countryCode), "+"),
		LocalLength: localLength,
	}
}

// Normalize never fails. Input without any digit yields "".
func (p *PhoneNormalizer) Normalize(raw string) string {
	cleaned := clean(raw)
	digits := strings.TrimPrefix(cleaned, "+")
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(cleaned, "+") {
		return cleaned
	}

	out := p.rewrite(digits)
	if strings.TrimPrefix(out, "+") == "" {
		// A bare international prefix leaves nothing to dial.
		return ""
	}
	return out
}

func (p *PhoneNormalizer) rewrite(digits string) string {
	cc := p.CountryCode
	switch {
	case cc != "" && strings.HasPrefix(digits, "00"+cc):
		return "+" + cc + digits[len(cc)+2:]
	case strings.HasPrefix(digits, "00"):
		return "+" + digits[2:]
	case cc != "" && strings.HasPrefix(digits, cc):
		return "+" + digits
	case strings.HasPrefix(digits, "0"):
		return "+" + cc + digits[1:]
	default:
		// A bare local subscriber number, or something we cannot place.
		return "+" + cc + digits
	}
}

// Plausible reports whether a normalized number has the shape of a home
// region number, or is a foreign number at all.
func (p *PhoneNormalizer) Plausible(normalized string) bool {
	if !strings.HasPrefix(normalized, "+") {
		return false
	}
	if !strings.HasPrefix(normalized, "+"+p.CountryCode) || p.LocalLength <= 0 {
		return len(normalized) > 4
	}
	return len(normalized) == 1+len(p.CountryCode)+p.LocalLength
}

// clean keeps digits and a "+" in leading position.
func clean(raw string) string {
	var b strings.Builder
	s := strings.TrimSpace(raw)
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
