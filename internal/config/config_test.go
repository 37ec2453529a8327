package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	require.Equal(t, DefaultBaseURL, cfg.BaseURL)
	require.Equal(t, DefaultRequestTimeoutSeconds, cfg.RequestTimeoutSeconds)
	require.Equal(t, DefaultRosterCacheTTLMinutes, cfg.RosterCacheTTLMinutes)
	require.Equal(t, DefaultCacheMaxEntries, cfg.CacheMaxEntries)
	require.Equal(t, DefaultInactiveDays, cfg.InactiveDays)
	require.Equal(t, DefaultLeaderboardSize, cfg.LeaderboardSize)
	require.True(t, cfg.Output.Color)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CURSOR_API_KEY", "key_test_123")
	t.Setenv("CURSOR_API_BASE_URL", "http://localhost:9999")
	t.Setenv("CURSOR_ORG_ID", "org_42")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	require.Equal(t, "key_test_123", cfg.APIKey)
	require.Equal(t, "http://localhost:9999", cfg.BaseURL)
	require.Equal(t, "org_42", cfg.OrgID)
	require.NoError(t, cfg.Validate())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "api_key: from_file\ninactive_days: 15\noutput:\n  color: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "from_file", cfg.APIKey)
	require.Equal(t, 15, cfg.InactiveDays)
	require.False(t, cfg.Output.Color)
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := &Config{APIKey: "   "}
	require.ErrorIs(t, cfg.Validate(), ErrMissingAPIKey)
}
