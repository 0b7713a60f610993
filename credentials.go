package houdiniswap

import (
	"strings"
)

const (
	// credentialSeparator joins key and secret in the Authorization header.
	// The exact "key:secret" format is required for wire compatibility.
	credentialSeparator = ":"

	// maxCredentialLength bounds the combined key+secret length. HTTP
	// headers typically have an 8KB limit; stay well under it.
	maxCredentialLength = 1000

	// redactMask replaces sensitive values in anything handed to a logger.
	redactMask = "***REDACTED***"
)

// Credentials holds validated API credentials. Created once at client
// construction and immutable afterwards; the raw values are unexported so
// they cannot leak through accidental serialization.
type Credentials struct {
	key    string
	secret string
}

// ValidateCredentials checks the key/secret pair and returns an immutable
// Credentials value. It fails with a Validation error when either value is
// empty or whitespace-only, contains the header separator character, or the
// combined length exceeds maxCredentialLength.
func ValidateCredentials(key, secret string) (Credentials, error) {
	if strings.TrimSpace(key) == "" || strings.TrimSpace(secret) == "" {
		return Credentials{}, newValidationError("API key and secret must be non-empty")
	}
	if strings.Contains(key, credentialSeparator) || strings.Contains(secret, credentialSeparator) {
		return Credentials{}, newValidationError("API key and secret cannot contain %q", credentialSeparator)
	}
	if len(key)+len(secret) > maxCredentialLength {
		return Credentials{}, newValidationError("API credentials exceed maximum length of %d characters", maxCredentialLength)
	}
	return Credentials{key: key, secret: secret}, nil
}

// authHeader formats the Authorization header value as key:secret.
func (c Credentials) authHeader() string {
	return c.key + credentialSeparator + c.secret
}

// sensitiveFields names the mapping keys whose values are masked by Redact,
// compared case-insensitively.
var sensitiveFields = map[string]struct{}{
	"authorization": {},
	"apikey":        {},
	"api_key":       {},
	"apisecret":     {},
	"api_secret":    {},
	"key":           {},
	"secret":        {},
}

func isSensitiveField(name string) bool {
	_, ok := sensitiveFields[strings.ToLower(name)]
	return ok
}

// Redact returns a deep copy of v where every value under a sensitive
// mapping key is replaced with a fixed mask. It recurses into nested
// mappings and sequences and never mutates the input, which may be shared
// or logged concurrently. Redact is only for values handed to observability
// sinks; values sent over the wire are never redacted.
func Redact(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if isSensitiveField(k) {
				out[k] = redactMask
			} else {
				out[k] = Redact(val)
			}
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, val := range t {
			if isSensitiveField(k) {
				out[k] = redactMask
			} else {
				out[k] = val
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Redact(val)
		}
		return out
	default:
		return v
	}
}
