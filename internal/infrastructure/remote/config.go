package remote

import (
	"errors"
	"net/url"
	"time"
)

// Config holds configuration for the remote catalog system connection
type Config struct {
	// BaseURL is the base URL of the remote catalog API
	BaseURL string
	// Timeout is the per-request HTTP timeout
	Timeout time.Duration
}

// Errors for remote configuration
var (
	ErrConfigMissingBaseURL = errors.New("remote: base URL is required")
	ErrConfigInvalidBaseURL = errors.New("remote: base URL must be absolute")
)

// NewConfig creates a new remote configuration with defaults
func NewConfig(baseURL string) *Config {
	return &Config{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Validate validates the remote configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrConfigInvalidBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return nil
}
