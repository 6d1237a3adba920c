package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("ATOP_CONFIG", path)
}

func TestDefaults(t *testing.T) {
	t.Setenv("ATOP_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.Logging.LogLevel)
	assert.Equal(t, "jarrow", cfg.Pricing.FactorMethod)
	assert.Equal(t, 500, cfg.Pricing.Periods)
	assert.Equal(t, 1.0, cfg.Pricing.Years)
	assert.Equal(t, 10000, cfg.Pricing.MaxPeriods)
	assert.Equal(t, 100, cfg.Pricing.MaxStepInPeriods)
	assert.Equal(t, 20, cfg.Pricing.MaxConvergence)
	assert.Equal(t, 2, cfg.Guide.Rounding)
	assert.True(t, cfg.Guide.Color)
	assert.Equal(t, PayoffConfig{GridMin: 0, GridMax: 100, GridStep: 1, MaxPoints: 10001}, cfg.Payoff)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("ATOP_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PRICING_PERIODS", "250")
	t.Setenv("PRICING_YEARS", "0.5")
	t.Setenv("GUIDE_COLOR", "false")
	t.Setenv("GUIDE_ROUNDING", "not a number")

	cfg := Load()
	assert.Equal(t, 250, cfg.Pricing.Periods)
	assert.Equal(t, 0.5, cfg.Pricing.Years)
	assert.False(t, cfg.Guide.Color)
	assert.Equal(t, 2, cfg.Guide.Rounding, "unparseable values fall back to the default")
}

func TestYAMLOverlay(t *testing.T) {
	writeConfig(t, `
server:
  port: "9090"
logging:
  log_level: debug
  max_backups: 7
pricing:
  factor_method: cox
  periods: 1000
guide:
  rounding: 0
  color: false
payoff:
  grid_min: 20
  grid_max: 60
  grid_step: 0.5
export:
  chart_width: 800
`)

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.Logging.LogLevel)
	assert.Equal(t, 7, cfg.Logging.MaxBackups)
	assert.Equal(t, 10, cfg.Logging.MaxSizeMB)
	assert.Equal(t, "cox", cfg.Pricing.FactorMethod)
	assert.Equal(t, 1000, cfg.Pricing.Periods)
	assert.Equal(t, 0, cfg.Guide.Rounding)
	assert.False(t, cfg.Guide.Color)
	assert.Equal(t, PayoffConfig{GridMin: 20, GridMax: 60, GridStep: 0.5, MaxPoints: 10001}, cfg.Payoff)
	assert.Equal(t, 800, cfg.Export.ChartWidth)
	assert.Equal(t, 400, cfg.Export.ChartHeight)
}

func TestPeriodsCappedByMax(t *testing.T) {
	writeConfig(t, "pricing:\n  periods: 5000\n  max_periods: 2000\n")

	cfg := Load()
	assert.Equal(t, 2000, cfg.Pricing.Periods)
}

func TestZeroMaxPeriodsKeepsDefault(t *testing.T) {
	t.Setenv("ATOP_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PRICING_MAX_PERIODS", "0")

	cfg := Load()
	assert.Equal(t, 500, cfg.Pricing.Periods)
	assert.Equal(t, 0, cfg.Pricing.MaxPeriods)
}

func TestRequestLimitsOverlay(t *testing.T) {
	writeConfig(t, `
pricing:
  max_step_in_periods: 25
  max_convergence: 5
payoff:
  max_points: 500
`)

	cfg := Load()
	assert.Equal(t, 25, cfg.Pricing.MaxStepInPeriods)
	assert.Equal(t, 5, cfg.Pricing.MaxConvergence)
	assert.Equal(t, PayoffConfig{GridMin: 0, GridMax: 100, GridStep: 1, MaxPoints: 500}, cfg.Payoff)
}

func TestMalformedYAMLIgnored(t *testing.T) {
	writeConfig(t, "pricing: [unclosed")

	cfg := Load()
	assert.Equal(t, 500, cfg.Pricing.Periods)
}
