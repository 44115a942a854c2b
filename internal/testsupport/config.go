package testsupport

import (
	"path/filepath"
	"testing"

	"mediamend/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithStorage points the config at a storage endpoint, typically an
// httptest server standing in for the remote host.
func WithStorage(url, token, rootPath string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Storage.URL = url
		cfg.Storage.Token = token
		cfg.Storage.RootPath = rootPath
	}
}

// WithCredentials sets username/password storage auth on the test config.
func WithCredentials(username, password string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Storage.Username = username
		cfg.Storage.Password = password
	}
}
