package validator

import (
	"fmt"
	"net/url"
)

// ValidateAppID accepts a non-empty string of decimal digits.
func ValidateAppID(id string) error {
	if id == "" {
		return fmt.Errorf("app id cannot be empty")
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return fmt.Errorf("app id %q must be numeric", id)
		}
	}
	return nil
}

// ValidateBaseURL accepts an absolute http(s) URL with a host.
func ValidateBaseURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("only HTTP(S) URLs are allowed")
	}

	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("base URL must not carry a query or fragment")
	}

	return nil
}
