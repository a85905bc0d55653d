// Package config provides the configuration schema and YAML loader for the
// fingerspell recognition pipeline.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	DefaultMinDetectionConfidence = 0.8
	DefaultMinPresenceConfidence  = 0.8
	DefaultMinTrackingConfidence  = 0.8
	DefaultHoldDuration           = 500 * time.Millisecond
	DefaultChannelCapacity        = 8
	DefaultFPS                    = 30
)

// Config holds all tunables for the pipeline. Thresholds and timers are
// passed explicitly into the driver and state machine at construction;
// nothing reads them from ambient global state.
type Config struct {
	// MinDetectionConfidence is the minimum hand detection confidence
	// for the pose model, in (0, 1]. Default 0.8.
	MinDetectionConfidence float64 `yaml:"min_detection_confidence"`

	// MinPresenceConfidence is the minimum hand presence confidence,
	// in (0, 1]. Predictions from frames below this are ignored by the
	// confirmation state machine. Default 0.8.
	MinPresenceConfidence float64 `yaml:"min_presence_confidence"`

	// MinTrackingConfidence is the minimum tracking confidence for the
	// pose model, in (0, 1]. Default 0.8.
	MinTrackingConfidence float64 `yaml:"min_tracking_confidence"`

	// HoldDuration is how long a letter must be held, with an unbroken
	// streak of consistent predictions, before it is confirmed.
	// Valid range 100ms to 5s. Default 500ms.
	HoldDuration time.Duration `yaml:"hold_duration"`

	// ChannelCapacity is the bounded size of the confirmed-event queue
	// between the pipeline goroutine and the consumer. Valid range
	// 1 to 64. Default 8.
	ChannelCapacity int `yaml:"channel_capacity"`

	// CameraID is the capture device index. Default 0.
	CameraID int `yaml:"camera_id"`

	// FPS is the pipeline tick rate. Default 30.
	FPS int `yaml:"fps"`

	// ModelPath is the classifier artifact to load at startup.
	ModelPath string `yaml:"model_path"`

	// LandmarkerPath is the hand landmarker bundle for the pose model.
	LandmarkerPath string `yaml:"landmarker_path"`

	// DBPath is the SQLite database for samples and event history.
	DBPath string `yaml:"db_path"`

	// ListenAddr is the HTTP server address (e.g. ":8080").
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		MinDetectionConfidence: DefaultMinDetectionConfidence,
		MinPresenceConfidence:  DefaultMinPresenceConfidence,
		MinTrackingConfidence:  DefaultMinTrackingConfidence,
		HoldDuration:           DefaultHoldDuration,
		ChannelCapacity:        DefaultChannelCapacity,
		CameraID:               0,
		FPS:                    DefaultFPS,
		ListenAddr:             ":8080",
	}
}

// Load reads the YAML configuration file at path, applies defaults for
// unset fields, and validates the result.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r on top of the defaults and
// validates the result. Useful in tests where configs are constructed
// from string literals.
func LoadFromReader(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration values are within their valid
// ranges. It returns a joined error listing all failures found.
func (c Config) Validate() error {
	var errs []error

	checkConfidence := func(name string, v float64) {
		if v <= 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be in (0, 1], got %v", name, v))
		}
	}
	checkConfidence("min_detection_confidence", c.MinDetectionConfidence)
	checkConfidence("min_presence_confidence", c.MinPresenceConfidence)
	checkConfidence("min_tracking_confidence", c.MinTrackingConfidence)

	if c.HoldDuration < 100*time.Millisecond || c.HoldDuration > 5*time.Second {
		errs = append(errs, fmt.Errorf("hold_duration must be between 100ms and 5s, got %v", c.HoldDuration))
	}
	if c.ChannelCapacity < 1 || c.ChannelCapacity > 64 {
		errs = append(errs, fmt.Errorf("channel_capacity must be between 1 and 64, got %d", c.ChannelCapacity))
	}
	if c.CameraID < 0 {
		errs = append(errs, fmt.Errorf("camera_id must not be negative, got %d", c.CameraID))
	}
	if c.FPS < 1 || c.FPS > 120 {
		errs = append(errs, fmt.Errorf("fps must be between 1 and 120, got %d", c.FPS))
	}

	return errors.Join(errs...)
}
