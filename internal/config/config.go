// Package config resolves settings from defaults, an optional YAML file, an
// optional .env file and CONTROLDESK_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DataDir    string `yaml:"data_dir"`
	DBSlot     string `yaml:"db_slot"`
	Theme      string `yaml:"theme"`
	DefaultTag string `yaml:"default_tag"`
	// Color is auto, always or never.
	Color string `yaml:"color"`
}

func Default() Config {
	dir := ".controldesk"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".controldesk")
	}
	return Config{
		DataDir:    dir,
		DBSlot:     "deliveryControlDB",
		DefaultTag: "general",
		Color:      "auto",
	}
}

// Load builds the config. path may be empty; then CONTROLDESK_CONFIG or
// <data_dir>/config.yaml is tried. A missing file is not an error.
func Load(path string) (Config, error) {
	// .env only fills variables that are not already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if d := strings.TrimSpace(os.Getenv("CONTROLDESK_DATA_DIR")); d != "" {
		cfg.DataDir = d
	}

	explicit := true
	if path == "" {
		path = os.Getenv("CONTROLDESK_CONFIG")
	}
	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.yaml")
		explicit = false
	}
	if err := cfg.readFile(path, explicit); err != nil {
		return Config{}, err
	}

	cfg.applyEnv()
	cfg.DataDir = expandHome(cfg.DataDir)
	return cfg, cfg.validate()
}

func (c *Config) readFile(path string, explicit bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.DataDir, "CONTROLDESK_DATA_DIR")
	set(&c.DBSlot, "CONTROLDESK_DB_SLOT")
	set(&c.Theme, "CONTROLDESK_THEME")
	set(&c.DefaultTag, "CONTROLDESK_DEFAULT_TAG")
	set(&c.Color, "CONTROLDESK_COLOR")
}

func (c Config) validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: color must be auto, always or never, got %q", c.Color)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("config: data_dir is empty")
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
