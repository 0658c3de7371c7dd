// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the server.
//
// The two upload ceilings are deliberately separate knobs: profile pictures
// and mountain images have different limits, and making them explicit
// configuration keeps the difference a decision instead of an accident.
type Config struct {
	Port      int    `env:"PORT" env-default:"8080"`
	DataDir   string `env:"DATA_DIR" env-default:"data"`
	UploadDir string `env:"UPLOAD_DIR" env-default:"uploads"`

	// JWTSecret signs bearer tokens. Required; generate with
	// `openssl rand -hex 32`.
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" env-default:"720h"`

	MaxPfpBytes   int64 `env:"MAX_PFP_BYTES" env-default:"5242880"`    // 5 MiB
	MaxImageBytes int64 `env:"MAX_IMAGE_BYTES" env-default:"10485760"` // 10 MiB
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// Missing .env is fine — production sets real env vars.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: reading environment: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET is required")
	}
	return &cfg, nil
}

// UsersFile is the path of the user store.
func (c *Config) UsersFile() string { return filepath.Join(c.DataDir, "users.json") }

// MountainsFile is the path of the mountain store.
func (c *Config) MountainsFile() string { return filepath.Join(c.DataDir, "mountains.json") }

// StagingDir holds uploads between staging and commit. Lives under the
// upload dir so commits are same-filesystem renames, but is never mounted on
// a public route.
func (c *Config) StagingDir() string { return filepath.Join(c.UploadDir, "staging") }

// MountainImagesDir holds committed mountain images.
func (c *Config) MountainImagesDir() string { return filepath.Join(c.UploadDir, "mountains") }

// ProfileImagesDir holds committed profile pictures.
func (c *Config) ProfileImagesDir() string { return filepath.Join(c.UploadDir, "pfp") }
