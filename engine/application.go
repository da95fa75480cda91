package engine

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/ossa/engine/animation"
	"github.com/spaghettifunk/ossa/engine/core"
)

type ApplicationConfig struct {
	// The application name used in logs.
	Name string `toml:"name"`
	// Minimum log level: debug, info, warn or error.
	LogLevel string `toml:"log_level"`
	// Directory watched for .anim files.
	AssetsDir string `toml:"assets_dir"`
	// Length of a simulation step in seconds.
	TargetFrameSeconds float64 `toml:"target_frame_seconds"`
	// Crossfade length handed to animators that don't override it.
	DefaultFadeDuration float32 `toml:"default_fade_duration"`
	// Global playback speed multiplier.
	PlaybackSpeed float32 `toml:"playback_speed"`
}

// LoadApplicationConfig reads a TOML configuration file. Missing
// fields keep their defaults.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config := DefaultApplicationConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return config, config.Validate()
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:                "Ossa",
		LogLevel:            "info",
		AssetsDir:           "assets",
		TargetFrameSeconds:  1.0 / 60.0,
		DefaultFadeDuration: animation.DefaultFadeDuration,
		PlaybackSpeed:       1.0,
	}
}

func (c *ApplicationConfig) Validate() error {
	if c.TargetFrameSeconds <= 0 {
		return fmt.Errorf("target_frame_seconds must be positive, got %f", c.TargetFrameSeconds)
	}
	if c.DefaultFadeDuration < 0 {
		return fmt.Errorf("default_fade_duration must not be negative, got %f", c.DefaultFadeDuration)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level resolves the configured log level name.
func (c *ApplicationConfig) Level() (core.LogLevel, error) {
	switch strings.ToLower(c.LogLevel) {
	case "", "info":
		return core.InfoLevel, nil
	case "debug":
		return core.DebugLevel, nil
	case "warn", "warning":
		return core.WarnLevel, nil
	case "error":
		return core.ErrorLevel, nil
	}
	return core.InfoLevel, fmt.Errorf("unknown log level %q", c.LogLevel)
}
