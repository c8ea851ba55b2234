package config

import (
	"errors"
	"fmt"
	"net/url"
)

var validSessionKinds = map[string]struct{}{
	"race":              {},
	"qualifying":        {},
	"sprint_race":       {},
	"sprint_qualifying": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateUpstream(); err != nil {
		return err
	}
	if err := c.validateIngest(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateUpstream() error {
	parsed, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("upstream.base_url %q is not a valid URL", c.Upstream.BaseURL)
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.RetryMaxAttempts > 10 {
		return errors.New("ingest.retry_max_attempts must be 10 or fewer")
	}
	for _, kind := range c.Ingest.SessionKinds {
		if _, ok := validSessionKinds[kind]; !ok {
			return fmt.Errorf("ingest.session_kinds: unknown session kind %q", kind)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
