package ambilight

import (
	"fmt"
	"time"

	"github.com/caarlos0/env"
)

// Config is the immutable pipeline configuration. Defaults come from
// environment variables; command-line flags override them before
// Validate. Changing any of it requires restarting the pipeline.
type Config struct {
	LeftLEDs  int `env:"LEDS_LEFT" envDefault:"19"`
	TopLEDs   int `env:"LEDS_TOP" envDefault:"35"`
	RightLEDs int `env:"LEDS_RIGHT" envDefault:"19"`

	CaptureDepth int `env:"CAPTURE_DEPTH" envDefault:"30"`
	SampleStride int `env:"SAMPLE_STRIDE" envDefault:"2"`

	FPS        int     `env:"FPS" envDefault:"30"`
	Brightness int     `env:"BRIGHTNESS" envDefault:"255"`
	Saturation float64 `env:"SATURATION" envDefault:"1.2"`
	Smoothing  float64 `env:"SMOOTHING" envDefault:"0.6"`

	Port    string `env:"PORT" envDefault:"auto"`
	Monitor int    `env:"MONITOR" envDefault:"0"`
}

// FromEnv builds a Config from environment variables, falling back to
// the built-in defaults.
func FromEnv() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate clamps tunables into their working ranges and rejects values
// that cannot be clamped into something meaningful.
func (c *Config) Validate() error {
	if c.LeftLEDs <= 0 || c.TopLEDs <= 0 || c.RightLEDs <= 0 {
		return fmt.Errorf("LED counts must be positive, got %d/%d/%d",
			c.LeftLEDs, c.TopLEDs, c.RightLEDs)
	}
	if c.CaptureDepth < 1 {
		return fmt.Errorf("capture depth must be at least 1, got %d", c.CaptureDepth)
	}
	if c.SampleStride < 1 {
		c.SampleStride = 1
	}
	if c.FPS < 1 {
		c.FPS = 1
	}
	if c.FPS > 60 {
		c.FPS = 60
	}
	if c.Brightness < 0 {
		c.Brightness = 0
	}
	if c.Brightness > 255 {
		c.Brightness = 255
	}
	if c.Smoothing <= 0 || c.Smoothing > 1 {
		return fmt.Errorf("smoothing must be in (0,1], got %g", c.Smoothing)
	}
	if c.Saturation < 0 {
		return fmt.Errorf("saturation must be non-negative, got %g", c.Saturation)
	}
	return nil
}

// TotalLEDs returns the strip length covered by all three edges.
func (c Config) TotalLEDs() int {
	return c.LeftLEDs + c.TopLEDs + c.RightLEDs
}

// BrightnessFactor maps the 0-255 brightness setting to a [0,1] scale
// factor.
func (c Config) BrightnessFactor() float64 {
	return float64(c.Brightness) / 255.0
}

// FramePeriod is the target interval between output frames.
func (c Config) FramePeriod() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
