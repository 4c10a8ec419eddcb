package predict

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultEndpoint is the prediction service URL used when none is configured
const DefaultEndpoint = "http://localhost:5000/predict"

// Config holds prediction client settings
type Config struct {
	// Endpoint is the full URL requests are POSTed to
	Endpoint string `json:"endpoint"`

	// Timeout bounds a whole request; zero leaves it to the transport
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns the default client configuration
func DefaultConfig() *Config {
	return &Config{
		Endpoint: DefaultEndpoint,
		Timeout:  0,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", c.Endpoint)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}
