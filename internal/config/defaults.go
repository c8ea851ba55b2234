package config

const (
	defaultDataDir               = "~/.local/share/paddock"
	defaultLogDir                = "~/.local/share/paddock/logs"
	defaultCacheDir              = "~/.cache/paddock/upstream"
	defaultDatabasePath          = "~/.local/share/paddock/paddock.db"
	defaultUpstreamBaseURL       = "https://api.motorsportarchive.dev/v1"
	defaultUpstreamTimeout       = 60
	defaultRequestsPerSecond     = 2.0
	defaultBurst                 = 1
	defaultRetryMaxAttempts      = 3
	defaultRetryBaseDelaySeconds = 1
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

func defaultSessionKinds() []string {
	return []string{"race", "qualifying", "sprint_race", "sprint_qualifying"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			CacheDir: defaultCacheDir,
		},
		Database: Database{
			Path: defaultDatabasePath,
		},
		Upstream: Upstream{
			BaseURL:           defaultUpstreamBaseURL,
			TimeoutSeconds:    defaultUpstreamTimeout,
			RequestsPerSecond: defaultRequestsPerSecond,
			Burst:             defaultBurst,
		},
		Ingest: Ingest{
			RetryMaxAttempts:      defaultRetryMaxAttempts,
			RetryBaseDelaySeconds: defaultRetryBaseDelaySeconds,
			SessionKinds:          defaultSessionKinds(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
