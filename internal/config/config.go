package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/kitchen-display/internal/alarm"
	"github.com/oshokin/kitchen-display/internal/feed"
	"github.com/oshokin/kitchen-display/internal/logger"
	"github.com/oshokin/kitchen-display/internal/tone"
)

// Config holds the settings of the kitchen display.
type Config struct {
	// TickPeriod is the virtual clock step.
	TickPeriod time.Duration `yaml:"tick_period"`
	// RefreshInterval is how often the order feed is polled.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	// FetchTimeout bounds a single feed refresh.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// OrdersSource is the delivery feed file path or URL.
	OrdersSource string `yaml:"orders_source"`
	// ManualOrdersSource is the manual feed file path or URL.
	ManualOrdersSource string `yaml:"manual_orders_source"`
	// ToneOutput is a comma separated list of tone outputs.
	ToneOutput string `yaml:"tone_output"`
	// LogLevel is the minimum level of log messages.
	LogLevel string `yaml:"log_level"`
	// MetricsAddress enables the Prometheus endpoint when set.
	MetricsAddress string `yaml:"metrics_addr"`
	// HealthAddress enables the gRPC health endpoint when set.
	HealthAddress string `yaml:"health_addr"`
	// Alarm shapes every alarm.
	Alarm alarm.Envelope `yaml:"alarm"`
}

const (
	// DefaultConfigFilename is the default filename for board settings.
	DefaultConfigFilename = "kitchen-display.yaml"

	// DefaultTickPeriod is the default clock step.
	DefaultTickPeriod = time.Second

	// DefaultRefreshInterval is the default feed polling interval.
	DefaultRefreshInterval = 2 * time.Second

	// DefaultFetchTimeout is the default duration for one feed refresh.
	DefaultFetchTimeout = 5 * time.Second

	// DefaultToneOutput logs tones and rings the terminal bell.
	DefaultToneOutput = tone.OutputLog + "," + tone.OutputBell

	// DefaultLogLevel is the default minimum log level.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidDuration is returned for negative durations.
	errInvalidDuration = errors.New("durations must not be negative")
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := new(Config)

	//nolint:errcheck // Defaults always validate.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
// A missing file at the default path yields the defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes Config to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills unset fields with defaults and checks the rest.
func Validate(settings *Config) error {
	if settings.TickPeriod < 0 || settings.RefreshInterval < 0 || settings.FetchTimeout < 0 {
		return errInvalidDuration
	}

	if settings.TickPeriod == 0 {
		settings.TickPeriod = DefaultTickPeriod
	}

	if settings.RefreshInterval == 0 {
		settings.RefreshInterval = DefaultRefreshInterval
	}

	if settings.FetchTimeout == 0 {
		settings.FetchTimeout = DefaultFetchTimeout
	}

	if settings.OrdersSource == "" {
		settings.OrdersSource = feed.DefaultOrdersSource
	}

	if settings.ManualOrdersSource == "" {
		settings.ManualOrdersSource = feed.DefaultManualOrdersSource
	}

	if settings.ToneOutput == "" {
		settings.ToneOutput = DefaultToneOutput
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", logger.ErrUnknownLevel, settings.LogLevel)
	}

	if settings.Alarm.IsZero() {
		settings.Alarm = alarm.DefaultEnvelope()
	}

	if err := settings.Alarm.Validate(); err != nil {
		return err
	}

	for _, address := range []string{settings.MetricsAddress, settings.HealthAddress} {
		if address == "" {
			continue
		}

		if _, _, err := net.SplitHostPort(address); err != nil {
			return fmt.Errorf("invalid listen address %q: %w", address, err)
		}
	}

	return nil
}
