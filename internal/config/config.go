// Package config loads the Mudra runtime configuration from environment
// variables.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// Setting keys recognized by ApplySettings. They match the keys the settings
// API stores, so values saved through the UI survive restarts.
const (
	SettingVocabulary      = "vocabulary"
	SettingDiscipline      = "discipline"
	SettingDwellMs         = "dwell_ms"
	SettingFingerMargin    = "finger_margin"
	SettingThumbThreshold  = "thumb_threshold"
	SettingTiltThreshold   = "tilt_threshold"
	SettingMotionThreshold = "motion_threshold"
)

// Config holds every runtime setting. All values have working defaults so
// the application starts with no environment at all.
type Config struct {
	Addr      string `env:"MUDRA_ADDR" envDefault:":8080"`
	DBPath    string `env:"MUDRA_DB_PATH"`
	WebDir    string `env:"MUDRA_WEB_DIR"`
	PluginDir string `env:"MUDRA_PLUGIN_DIR"`
	Tray      bool   `env:"MUDRA_TRAY" envDefault:"false"`

	CameraID        int     `env:"MUDRA_CAMERA_ID" envDefault:"0"`
	MotionThreshold float64 `env:"MUDRA_MOTION_THRESHOLD" envDefault:"1.0"`

	Vocabulary     string  `env:"MUDRA_VOCABULARY" envDefault:"rps"`
	Discipline     string  `env:"MUDRA_DISCIPLINE" envDefault:"single"`
	DwellMs        int     `env:"MUDRA_DWELL_MS" envDefault:"400"`
	FingerMargin   float64 `env:"MUDRA_FINGER_MARGIN" envDefault:"0.05"`
	ThumbThreshold float64 `env:"MUDRA_THUMB_THRESHOLD" envDefault:"0.12"`
	TiltThreshold  float64 `env:"MUDRA_TILT_THRESHOLD" envDefault:"0.25"`

	MinConfidence   float64 `env:"MUDRA_MIN_CONFIDENCE" envDefault:"0.5"`
	MinTrackingConf float64 `env:"MUDRA_MIN_TRACKING_CONFIDENCE" envDefault:"0.5"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Vocabulary != "rps" && cfg.Vocabulary != "directional" {
		return Config{}, fmt.Errorf("invalid MUDRA_VOCABULARY %q", cfg.Vocabulary)
	}
	if cfg.Discipline != "single" && cfg.Discipline != "repeat" {
		return Config{}, fmt.Errorf("invalid MUDRA_DISCIPLINE %q", cfg.Discipline)
	}
	if cfg.DwellMs <= 0 {
		return Config{}, fmt.Errorf("MUDRA_DWELL_MS must be positive, got %d", cfg.DwellMs)
	}

	return cfg, nil
}

// ApplySettings overlays persisted settings onto the configuration. Stored
// values take precedence over environment values, so changes saved through
// the settings API win on the next run. Unknown keys are ignored; a
// malformed value for a known key is an error.
func (c Config) ApplySettings(settings map[string]string) (Config, error) {
	for key, value := range settings {
		switch key {
		case SettingVocabulary:
			if value != "rps" && value != "directional" {
				return Config{}, fmt.Errorf("invalid stored vocabulary %q", value)
			}
			c.Vocabulary = value
		case SettingDiscipline:
			if value != "single" && value != "repeat" {
				return Config{}, fmt.Errorf("invalid stored discipline %q", value)
			}
			c.Discipline = value
		case SettingDwellMs:
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return Config{}, fmt.Errorf("invalid stored dwell_ms %q", value)
			}
			c.DwellMs = n
		case SettingFingerMargin:
			f, err := parseThreshold(key, value)
			if err != nil {
				return Config{}, err
			}
			c.FingerMargin = f
		case SettingThumbThreshold:
			f, err := parseThreshold(key, value)
			if err != nil {
				return Config{}, err
			}
			c.ThumbThreshold = f
		case SettingTiltThreshold:
			f, err := parseThreshold(key, value)
			if err != nil {
				return Config{}, err
			}
			c.TiltThreshold = f
		case SettingMotionThreshold:
			f, err := parseThreshold(key, value)
			if err != nil {
				return Config{}, err
			}
			c.MotionThreshold = f
		}
	}
	return c, nil
}

func parseThreshold(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid stored %s %q", key, value)
	}
	return f, nil
}

// Dwell returns the configured dwell threshold as a duration.
func (c Config) Dwell() time.Duration {
	return time.Duration(c.DwellMs) * time.Millisecond
}
