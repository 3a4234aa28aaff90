package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, 100, cfg.Scan.DefaultLimit)
	require.Equal(t, 30, cfg.Scan.LookbackDays)
	require.Equal(t, 2*time.Second, cfg.Scan.Debounce)
	require.Equal(t, "count", cfg.Scan.Mode)
	require.Equal(t, 90, cfg.Matching.AutoConfirmThreshold)
	require.Equal(t, 85, cfg.Matching.DefaultRuleThreshold)
	require.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SCAN_DEFAULT_LIMIT", "25")
	t.Setenv("SCAN_DEBOUNCE", "500ms")
	t.Setenv("SCAN_MODE", "days")
	t.Setenv("MATCH_AUTO_CONFIRM_THRESHOLD", "95")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg := Load()

	require.Equal(t, 25, cfg.Scan.DefaultLimit)
	require.Equal(t, 500*time.Millisecond, cfg.Scan.Debounce)
	require.Equal(t, "days", cfg.Scan.Mode)
	require.Equal(t, 95, cfg.Matching.AutoConfirmThreshold)
	require.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("SCAN_LOOKBACK_DAYS", "thirty")
	t.Setenv("SCAN_DEBOUNCE", "soon")

	cfg := Load()

	require.Equal(t, 30, cfg.Scan.LookbackDays)
	require.Equal(t, 2*time.Second, cfg.Scan.Debounce)
}
