package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/kitchen-display/internal/alarm"
	"github.com/oshokin/kitchen-display/internal/logger"
)

// TestValidate checks defaults and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Empty settings get every default.
	settings := new(Config)

	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultTickPeriod, settings.TickPeriod)
	require.Equal(t, DefaultRefreshInterval, settings.RefreshInterval)
	require.Equal(t, "orders.json", settings.OrdersSource)
	require.Equal(t, "manual_orders.json", settings.ManualOrdersSource)
	require.Equal(t, alarm.DefaultEnvelope(), settings.Alarm)

	// Negative durations.
	settings = &Config{TickPeriod: -time.Second}
	require.ErrorIs(t, Validate(settings), errInvalidDuration)

	// Bad level.
	settings = &Config{LogLevel: "loud"}
	require.ErrorIs(t, Validate(settings), logger.ErrUnknownLevel)

	// Bad envelope.
	settings = &Config{Alarm: alarm.Envelope{BaseFreq: 500, DurationSeconds: 30}}
	require.ErrorIs(t, Validate(settings), alarm.ErrInvalidEnvelope)

	// Bad listen address.
	settings = &Config{MetricsAddress: "9100"}
	require.Error(t, Validate(settings))

	// Okay with both endpoints.
	settings = &Config{MetricsAddress: ":9100", HealthAddress: "127.0.0.1:50051"}
	require.NoError(t, Validate(settings))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	settings := &Config{
		TickPeriod:   500 * time.Millisecond,
		OrdersSource: "http://otter.local/orders.json",
		Alarm: alarm.Envelope{
			BaseFreq:        440,
			StepFreq:        30,
			PlaySeconds:     0.25,
			PauseSeconds:    0.75,
			DurationSeconds: 20,
		},
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings.TickPeriod, loaded.TickPeriod)
	require.Equal(t, settings.OrdersSource, loaded.OrdersSource)
	require.Equal(t, settings.Alarm, loaded.Alarm)
	require.Equal(t, DefaultRefreshInterval, loaded.RefreshInterval)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoad_HumanReadableDurations parses YAML durations such as "750ms".
func TestLoad_HumanReadableDurations(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "kitchen.yaml")
	contents := []byte("tick_period: 750ms\nrefresh_interval: 3s\nalarm:\n  base_freq: 600\n  step_freq: 20\n" +
		"  play_seconds: 0.5\n  pause_seconds: 1\n  duration_seconds: 10\n")
	require.NoError(t, os.WriteFile(path, contents, DefaultFilePermissions))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 750*time.Millisecond, loaded.TickPeriod)
	require.Equal(t, 3*time.Second, loaded.RefreshInterval)
	require.InDelta(t, 600.0, loaded.Alarm.BaseFreq, 1e-9)
}

// TestLoad_MissingFile distinguishes the default path from an explicit one.
func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, Save(filepath.Join(t.TempDir(), "x.yaml"), Default()))
	require.Error(t, Save("", nil))
}
