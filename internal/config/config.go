// Package config provides YAML-based configuration loading for the flappy
// binary. World and physics constants are fixed in the simulation and are not
// part of the configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/thxaman/flappy-lidar/internal/lidar"
)

// Config contains the runtime settings of the game shell.
type Config struct {
	TickRate  int             `yaml:"tick_rate"` // Frames per second the front-end aims for
	Seed      int64           `yaml:"seed"`      // Obstacle RNG seed; 0 picks one from the clock
	Frontend  string          `yaml:"frontend"`  // Registered front-end name
	Log       LogConfig       `yaml:"log"`
	Scanner   ScannerConfig   `yaml:"scanner"`
	Collision CollisionConfig `yaml:"collision"`
	Record    RecordConfig    `yaml:"record"`
	Window    WindowConfig    `yaml:"window"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
	File  string `yaml:"file"`  // Log file; empty logs to stderr, or nowhere in the terminal front-end
}

// ScannerConfig controls the distance scanner.
type ScannerConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Clip       string `yaml:"clip"`        // legacy or ray
	LogSamples bool   `yaml:"log_samples"` // Log the angle/distance table every frame at debug level
}

// CollisionConfig selects the body collision shape.
type CollisionConfig struct {
	Body string `yaml:"body"` // mask or rect
}

// RecordConfig controls the telemetry recorder.
type RecordConfig struct {
	Path  string `yaml:"path"`  // SQLite database; empty disables recording
	Every int    `yaml:"every"` // Record one frame every N ticks
}

// WindowConfig controls the desktop window front-end.
type WindowConfig struct {
	Scale float64 `yaml:"scale"` // Window size relative to the 800x538 world
}

// Collision body shapes.
const (
	BodyMask = "mask"
	BodyRect = "rect"
)

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.TickRate < 1 || c.TickRate > 240 {
		return fmt.Errorf("tick_rate must be between 1 and 240, got %d", c.TickRate)
	}
	if strings.TrimSpace(c.Frontend) == "" {
		return fmt.Errorf("frontend must not be empty")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if _, err := c.ClipMode(); err != nil {
		return err
	}
	switch c.Collision.Body {
	case BodyMask, BodyRect:
	default:
		return fmt.Errorf("collision.body must be %q or %q, got %q", BodyMask, BodyRect, c.Collision.Body)
	}
	if c.Record.Every < 1 {
		return fmt.Errorf("record.every must be at least 1, got %d", c.Record.Every)
	}
	if !(c.Window.Scale > 0) {
		return fmt.Errorf("window.scale must be positive, got %v", c.Window.Scale)
	}
	return nil
}

// LogLevel parses the configured log level.
func (c Config) LogLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// ClipMode parses the configured scanner clip mode.
func (c Config) ClipMode() (lidar.ClipMode, error) {
	m, err := lidar.ParseClipMode(c.Scanner.Clip)
	if err != nil {
		return m, fmt.Errorf("scanner.clip: %w", err)
	}
	return m, nil
}

// RectBody reports whether collision uses the body's bounding box.
func (c Config) RectBody() bool {
	return c.Collision.Body == BodyRect
}
