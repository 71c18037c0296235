package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, time.Hour, cfg.SnapshotTTL)
	require.Equal(t, 5*time.Minute, cfg.SnapshotStale)
	require.Equal(t, time.Hour, cfg.OverdueScanInterval)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigRejectsStaleAboveTTL(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("SNAPSHOT_TTL", "5m")
	t.Setenv("SNAPSHOT_STALE", "1h")

	_, err := LoadConfig()
	require.Error(t, err)
}
