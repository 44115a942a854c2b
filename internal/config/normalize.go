package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStorage()
	c.normalizeSessions()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeStorage() {
	c.Storage.URL = strings.TrimRight(strings.TrimSpace(c.Storage.URL), "/")
	c.Storage.Username = strings.TrimSpace(c.Storage.Username)
	c.Storage.Token = strings.TrimSpace(c.Storage.Token)
	if c.Storage.Token == "" {
		if value, ok := os.LookupEnv("MEDIAMEND_STORAGE_TOKEN"); ok {
			c.Storage.Token = strings.TrimSpace(value)
		}
	}
	if c.Storage.Password == "" {
		if value, ok := os.LookupEnv("MEDIAMEND_STORAGE_PASSWORD"); ok {
			c.Storage.Password = value
		}
	}
	c.Storage.RootPath = strings.TrimSpace(c.Storage.RootPath)
	if c.Storage.RootPath == "" {
		c.Storage.RootPath = defaultStorageRootPath
	}
	if !strings.HasPrefix(c.Storage.RootPath, "/") {
		c.Storage.RootPath = "/" + c.Storage.RootPath
	}
	if c.Storage.RequestTimeout <= 0 {
		c.Storage.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeSessions() {
	if c.Sessions.TTLHours <= 0 {
		c.Sessions.TTLHours = defaultSessionTTLHours
	}
	if c.Sessions.PurgeIntervalMins <= 0 {
		c.Sessions.PurgeIntervalMins = defaultSessionPurgeMinutes
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
