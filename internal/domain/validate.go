package domain

import (
	"net/url"
	"strings"
)

// ValidateOriginalURL accepts any syntactically valid absolute URL.
func ValidateOriginalURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return ErrInvalidURL
	}

	u, err := url.Parse(s)
	if err != nil {
		return ErrInvalidURL
	}

	if !u.IsAbs() {
		return ErrInvalidURL
	}

	if u.Host == "" && u.Opaque == "" {
		return ErrInvalidURL
	}

	return nil
}
