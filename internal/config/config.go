// Package config loads the dashboard configuration.
//
// Sources, by priority:
//  1. an explicit path (--config);
//  2. CONFIG_PATH;
//  3. environment variables only.
//
// Environment variables always override values read from a file.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config interface {
	EnvConfig
	GatewayConfig
	StorageConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars  `yaml:"app"`
	Gateway  `yaml:"gateway"`
	Storage  `yaml:"storage"`
	Security `yaml:"security"`
}

// New reads the configuration from the environment only.
func New() Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

// MustLoad panics when the configuration cannot be read.
func MustLoad(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (Config, error) {
	var cfg mainConfig

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	return cfg, nil
}
