package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TickRate: 60,
		Seed:     0,
		Frontend: "tui",
		Log: LogConfig{
			Level: "info",
		},
		Scanner: ScannerConfig{
			Enabled: true,
			Clip:    "legacy",
		},
		Collision: CollisionConfig{
			Body: BodyMask,
		},
		Record: RecordConfig{
			Every: 6,
		},
		Window: WindowConfig{
			Scale: 1,
		},
	}
}
