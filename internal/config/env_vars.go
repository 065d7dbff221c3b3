package config

import (
	"strings"
)

// EnvDev enables the coloured route log and console log output
const EnvDev = "DEV"

type EnvVars struct {
	Port     string `yaml:"port" env:"PORT" env-default:"3000"`
	AppName  string `yaml:"name" env:"APP_NAME" env-default:"Inventario SaaS"`
	Env      string `yaml:"env" env:"ENV" env-default:"DEV"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

var _ EnvConfig = EnvVars{}

// GetPort returns the listen address, always prefixed with ':'.
func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "3000"
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return EnvDev
	}
	return e.Env
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}
