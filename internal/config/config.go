package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned by Validate when no Cursor Admin API key
// is configured. This is a fatal configuration error: no request is
// attempted without a credential.
var ErrMissingAPIKey = errors.New("CURSOR_API_KEY is required (set it in the environment, a .env file, or config.yaml)")

// Config is the top-level cursorwatch configuration.
type Config struct {
	APIKey                string `mapstructure:"api_key"`
	OrgID                 string `mapstructure:"org_id"`
	BaseURL               string `mapstructure:"base_url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	RosterCacheTTLMinutes int    `mapstructure:"roster_cache_ttl_minutes"`
	CacheMaxEntries       int    `mapstructure:"cache_max_entries"`
	InactiveDays          int    `mapstructure:"inactive_days"`
	WindowDays            int    `mapstructure:"window_days"`
	LeaderboardSize       int    `mapstructure:"leaderboard_size"`
	Output                Output `mapstructure:"output"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// RosterCacheTTL returns the roster cache TTL as a duration.
func (c *Config) RosterCacheTTL() time.Duration {
	return time.Duration(c.RosterCacheTTLMinutes) * time.Minute
}

// Validate checks that the configuration can actually reach the API.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. A .env file in the
// working directory is loaded first so CURSOR_API_KEY can live there,
// matching how deployments of the dashboard have historically been
// configured.
func Load(cfgFile string) (*Config, error) {
	// Missing .env is fine; real env vars win over .env values.
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults. api_key and org_id default to empty so Unmarshal
	// sees the keys even when they only arrive via the environment.
	v.SetDefault("api_key", "")
	v.SetDefault("org_id", "")
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("request_timeout_seconds", DefaultRequestTimeoutSeconds)
	v.SetDefault("roster_cache_ttl_minutes", DefaultRosterCacheTTLMinutes)
	v.SetDefault("cache_max_entries", DefaultCacheMaxEntries)
	v.SetDefault("inactive_days", DefaultInactiveDays)
	v.SetDefault("window_days", DefaultWindowDays)
	v.SetDefault("leaderboard_size", DefaultLeaderboardSize)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)

	// Environment bindings. The env names predate this tool, so they
	// are bound explicitly rather than derived from the key names.
	_ = v.BindEnv("api_key", "CURSOR_API_KEY")
	_ = v.BindEnv("org_id", "CURSOR_ORG_ID")
	_ = v.BindEnv("base_url", "CURSOR_API_BASE_URL")

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
