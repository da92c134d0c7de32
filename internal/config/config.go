package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the server configuration, loadable from a yaml file.
type Config struct {
	Port         int    `yaml:"port"`
	AllowOrigins string `yaml:"allow_origins"`
	ClockSeconds int    `yaml:"clock_seconds"`
}

func Default() Config {
	return Config{
		Port:         3000,
		AllowOrigins: "http://localhost:5173",
		ClockSeconds: 600,
	}
}

// Load reads a yaml config file and fills in defaults for anything unset.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = Default().Port
	}
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = Default().AllowOrigins
	}
	if cfg.ClockSeconds == 0 {
		cfg.ClockSeconds = Default().ClockSeconds
	}
	return cfg, nil
}
