package registry

import (
	"net/url"
	"regexp"
	"strings"

	"content_ingest/internal/domain"
)

const maxNameLength = 100

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,15}$`)

// ValidateEndpoint checks endpoint syntax against the rules of the source
// type and returns the normalized form to persist. Social handles are
// stored without the leading @.
func ValidateEndpoint(t domain.SourceType, endpoint string) (string, error) {
	switch t {
	case domain.SourceTypeRSS:
		return validateFeedURL(endpoint)
	case domain.SourceTypeSocial:
		return validateHandle(endpoint)
	default:
		return "", &domain.ConfigurationError{Type: string(t)}
	}
}

func validateFeedURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", &domain.ValidationError{Field: "endpoint", Reason: "malformed URL"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &domain.ValidationError{Field: "endpoint", Reason: "URL must use http or https"}
	}
	if u.Host == "" {
		return "", &domain.ValidationError{Field: "endpoint", Reason: "URL must have a host"}
	}
	return u.String(), nil
}

func validateHandle(raw string) (string, error) {
	handle := strings.TrimPrefix(strings.TrimSpace(raw), "@")
	if !handlePattern.MatchString(handle) {
		return "", &domain.ValidationError{
			Field:  "endpoint",
			Reason: "handle must be 1-15 characters of letters, digits and underscores",
		}
	}
	return handle, nil
}

func validateName(name string) error {
	if name == "" {
		return &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len(name) > maxNameLength {
		return &domain.ValidationError{Field: "name", Reason: "too long"}
	}
	return nil
}
