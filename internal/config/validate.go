package config

import (
	"errors"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable. The storage section may be
// left unconfigured; API calls that need it fail with a configuration error
// instead of preventing startup.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	return c.validateSessions()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.URL != "" {
		parsed, err := url.Parse(c.Storage.URL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return errors.New("storage.url must be an absolute http(s) URL")
		}
	}
	if c.Storage.Username != "" && c.Storage.Password == "" {
		return errors.New("storage.password must be set when storage.username is set")
	}
	if c.Storage.RequestTimeout <= 0 {
		return errors.New("storage.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateSessions() error {
	if c.Sessions.TTLHours <= 0 {
		return errors.New("sessions.ttl_hours must be positive")
	}
	if c.Sessions.PurgeIntervalMins <= 0 {
		return errors.New("sessions.purge_interval_mins must be positive")
	}
	return nil
}
