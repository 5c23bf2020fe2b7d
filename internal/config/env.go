package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override configuration values.
const (
	EnvTickRate      = "FLAPPY_TICK_RATE"
	EnvSeed          = "FLAPPY_SEED"
	EnvFrontend      = "FLAPPY_FRONTEND"
	EnvLogLevel      = "FLAPPY_LOG_LEVEL"
	EnvLogFile       = "FLAPPY_LOG_FILE"
	EnvRecord        = "FLAPPY_RECORD"
	EnvScannerClip   = "FLAPPY_SCANNER_CLIP"
	EnvCollisionBody = "FLAPPY_COLLISION_BODY"
)

// LoadEnv loads KEY=value files into the process environment. With no
// arguments it reads ./.env. Missing files are not an error, and variables
// already set in the environment win over the files.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with the FLAPPY_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvTickRate); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTickRate, err)
		}
		cfg.TickRate = n
	}
	if v, ok := os.LookupEnv(EnvSeed); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Seed = n
	}
	if v, ok := os.LookupEnv(EnvFrontend); ok {
		cfg.Frontend = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvLogFile); ok {
		cfg.Log.File = v
	}
	if v, ok := os.LookupEnv(EnvRecord); ok {
		cfg.Record.Path = v
	}
	if v, ok := os.LookupEnv(EnvScannerClip); ok {
		cfg.Scanner.Clip = v
	}
	if v, ok := os.LookupEnv(EnvCollisionBody); ok {
		cfg.Collision.Body = v
	}
	return nil
}
