// Package bcclient provides the main entry point for creating extension management API clients
package bcclient

import (
	"strings"

	"github.com/fivetwenty-io/bcext/internal/client"
	"github.com/fivetwenty-io/bcext/pkg/bcapi"
)

// New creates a client from config. The base URL gets an https:// scheme when it has none.
// The caller's config is not modified.
func New(config *bcapi.Config) (bcapi.Client, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	normalized := *config
	normalized.APIBaseURL = NormalizeBaseURL(config.APIBaseURL)

	bcClient, err := client.New(&normalized)
	if err != nil {
		return nil, err
	}

	return bcClient, nil
}

// NewWithPassword creates a client for baseURL authenticating as username.
func NewWithPassword(baseURL, username, password string) (bcapi.Client, error) {
	return New(&bcapi.Config{
		APIBaseURL:  baseURL,
		APIUsername: username,
		APIPassword: password,
	})
}

// NormalizeBaseURL trims whitespace and adds https:// when no scheme is present.
// Trailing slashes are kept; URL composition tolerates both forms.
func NormalizeBaseURL(baseURL string) string {
	normalized := strings.TrimSpace(baseURL)
	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		normalized = "https://" + normalized
	}

	return normalized
}
