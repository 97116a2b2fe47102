// Package config loads the console's connection and storage settings.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/revenueguard/internal/tokenstore"
	"gopkg.in/yaml.v3"
)

const (
	EnvServer    = "REVENUEGUARD_SERVER"
	EnvStore     = "REVENUEGUARD_STORE"
	EnvStorePath = "REVENUEGUARD_STORE_PATH"
	EnvProfile   = "REVENUEGUARD_PROFILE"
	EnvTimeout   = "REVENUEGUARD_TIMEOUT"
)

// Config holds the console settings.
type Config struct {
	Server        string             `yaml:"server"`
	Store         tokenstore.Backend `yaml:"store"`
	StorePath     string             `yaml:"store_path"`
	Profile       string             `yaml:"profile"`
	Timeout       time.Duration      `yaml:"timeout"`
	RedirectDelay time.Duration      `yaml:"redirect_delay"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Server:        "http://localhost:8080",
		Store:         tokenstore.BackendFile,
		Profile:       tokenstore.DefaultProfile,
		Timeout:       30 * time.Second,
		RedirectDelay: 2 * time.Second,
	}
}

// DefaultPath returns ~/.revenueguard/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".revenueguard", "config.yaml"), nil
}

// Load reads .env from the working directory, then the YAML file at path
// (DefaultPath when empty), then REVENUEGUARD_* environment overrides.
// Missing files are not errors. The result is not validated so callers
// can apply their own overrides first; call Validate before use.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := cfg.readFile(path); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("loaded config file")
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvServer); ok {
		c.Server = v
	}
	if v, ok := os.LookupEnv(EnvStore); ok {
		c.Store = tokenstore.Backend(v)
	}
	if v, ok := os.LookupEnv(EnvStorePath); ok {
		c.StorePath = v
	}
	if v, ok := os.LookupEnv(EnvProfile); ok {
		c.Profile = v
	}
	if v, ok := os.LookupEnv(EnvTimeout); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server must be an http or https URL, got %q", c.Server)
	}

	switch c.Store {
	case tokenstore.BackendFile, tokenstore.BackendSQLite, tokenstore.BackendMemory:
	default:
		return fmt.Errorf("%w: %q", tokenstore.ErrUnknownBackend, c.Store)
	}

	if c.Profile == "" {
		return errors.New("profile cannot be empty")
	}
	if strings.ContainsAny(c.Profile, `/\`) || c.Profile == "." || c.Profile == ".." {
		return fmt.Errorf("profile must be a plain name, got %q", c.Profile)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be > 0")
	}
	if c.RedirectDelay < 0 {
		return errors.New("redirect_delay cannot be negative")
	}
	return nil
}

// OpenStore opens the configured token store.
func (c *Config) OpenStore() (tokenstore.Store, error) {
	return tokenstore.Open(c.Store, c.StorePath, c.Profile)
}
