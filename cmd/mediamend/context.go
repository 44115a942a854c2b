package main

import (
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"mediamend/internal/config"
	"mediamend/internal/corrections"
	"mediamend/internal/logging"
	"mediamend/internal/metastore"
	"mediamend/internal/services"
	"mediamend/internal/services/alist"
	"mediamend/internal/sessions"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// correctionService builds a correction service against the configured
// storage host. Commands fail cleanly when storage settings are absent.
func (c *commandContext) correctionService() (*corrections.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.StorageConfigured() {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "storage",
			"storage is not configured; set url and token (or username/password) in the config file", nil)
	}
	client := alist.New(cfg.Storage.URL, cfg.Storage.Token, cfg.Storage.Username, cfg.Storage.Password,
		alist.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Storage.RequestTimeout) * time.Second}),
		alist.WithLogger(logging.NewNop()))
	return corrections.NewService(client, metastore.NewCache(), cfg.Storage.RootPath, logging.NewNop()), nil
}

// withSessionStore opens the shared session database under the data
// directory, runs fn, and closes the store afterwards.
func (c *commandContext) withSessionStore(fn func(*sessions.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := sessions.Open(filepath.Join(cfg.Paths.DataDir, "sessions.db"))
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
