// Package config loads and validates the tracescope configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"github.com/tracescope/tracescope/internal/chart"
)

var (
	ErrInvalidRate     = errors.New("rate must be positive")
	ErrInvalidBuffer   = errors.New("buffer must hold at least one sample")
	ErrInvalidDuration = errors.New("window duration must be positive and fit in the buffer")
	ErrInvalidWidth    = errors.New("max width must be between 1 and 2000")
	ErrInvalidLevel    = errors.New("unknown log level")
)

// Config holds the application configuration.
type Config struct {
	Acquisition AcquisitionConfig `yaml:"acquisition"`
	Chart       ChartConfig       `yaml:"chart"`
	Log         LogConfig         `yaml:"log"`
}

// AcquisitionConfig describes the sample source and the ring behind it.
type AcquisitionConfig struct {
	Rate     float64       `yaml:"rate"`
	Buffer   time.Duration `yaml:"buffer"`
	Interval time.Duration `yaml:"interval"`
}

// ChartConfig holds the initial view settings.
type ChartConfig struct {
	Duration time.Duration `yaml:"duration"`
	MaxWidth int           `yaml:"max_width"`
	Digital  bool          `yaml:"digital"`
}

// LogConfig selects where logs go. An empty path discards them.
type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// Default returns the default configuration, with TRACESCOPE_* environment
// overrides applied.
func Default() *Config {
	return &Config{
		Acquisition: AcquisitionConfig{
			Rate:     getEnvFloat("TRACESCOPE_RATE", 100_000),
			Buffer:   getEnvDuration("TRACESCOPE_BUFFER", 10*time.Second),
			Interval: 10 * time.Millisecond,
		},
		Chart: ChartConfig{
			Duration: getEnvDuration("TRACESCOPE_DURATION", 3*time.Second),
			MaxWidth: chart.MaxWidth,
			Digital:  getEnvBool("TRACESCOPE_DIGITAL", true),
		},
		Log: LogConfig{
			Path:  getEnv("TRACESCOPE_LOG", ""),
			Level: getEnv("TRACESCOPE_LOG_LEVEL", "info"),
		},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Capacity returns the number of ring slots needed to hold the buffer.
func (c *Config) Capacity() int {
	return int(c.Acquisition.Buffer.Seconds() * c.Acquisition.Rate)
}

// DurationUs returns the initial window duration in microseconds.
func (c *Config) DurationUs() float64 {
	return float64(c.Chart.Duration.Microseconds())
}

// BufferUs returns the time the ring holds in microseconds.
func (c *Config) BufferUs() float64 {
	return float64(c.Acquisition.Buffer.Microseconds())
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !(c.Acquisition.Rate > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRate, c.Acquisition.Rate)
	}
	if c.Capacity() < 1 {
		return fmt.Errorf("%w: %s at %v sps", ErrInvalidBuffer, c.Acquisition.Buffer, c.Acquisition.Rate)
	}
	if c.Chart.Duration <= 0 || c.Chart.Duration > c.Acquisition.Buffer {
		return fmt.Errorf("%w: %s", ErrInvalidDuration, c.Chart.Duration)
	}
	if c.Chart.MaxWidth < 1 || c.Chart.MaxWidth > chart.MaxWidth {
		return fmt.Errorf("%w: %d", ErrInvalidWidth, c.Chart.MaxWidth)
	}
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLevel, c.Log.Level)
	}
	return nil
}

// ApplyFlags overlays flags the user set explicitly. Flags left at their
// defaults do not override file or environment values.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	var errs []error
	visit := func(name string, apply func() error) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := apply(); err != nil {
				errs = append(errs, fmt.Errorf("parse %s flag: %w", name, err))
			}
		}
	}

	visit("rate", func() (err error) {
		c.Acquisition.Rate, err = flags.GetFloat64("rate")
		return err
	})
	visit("buffer", func() (err error) {
		c.Acquisition.Buffer, err = flags.GetDuration("buffer")
		return err
	})
	visit("duration", func() (err error) {
		c.Chart.Duration, err = flags.GetDuration("duration")
		return err
	})
	visit("max-width", func() (err error) {
		c.Chart.MaxWidth, err = flags.GetInt("max-width")
		return err
	})
	visit("no-digital", func() error {
		off, err := flags.GetBool("no-digital")
		c.Chart.Digital = !off
		return err
	})
	visit("log", func() (err error) {
		c.Log.Path, err = flags.GetString("log")
		return err
	})
	visit("log-level", func() (err error) {
		c.Log.Level, err = flags.GetString("log-level")
		return err
	})

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}
