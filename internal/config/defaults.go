package config

const (
	defaultDataDir             = "~/.local/share/mediamend"
	defaultLogDir              = "~/.local/share/mediamend/logs"
	defaultAPIBind             = "127.0.0.1:7319"
	defaultStorageRootPath     = "/"
	defaultRequestTimeout      = 30
	defaultSessionTTLHours     = 24 * 14
	defaultSessionPurgeMinutes = 30
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Storage: Storage{
			RootPath:       defaultStorageRootPath,
			RequestTimeout: defaultRequestTimeout,
		},
		Sessions: Sessions{
			TTLHours:          defaultSessionTTLHours,
			PurgeIntervalMins: defaultSessionPurgeMinutes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
