package config

import (
	"strings"
	"time"
)

type GatewayConfig interface {
	GetAPIURL() string
	GetRequestTimeout() time.Duration
}

type Gateway struct {
	APIURL         string        `yaml:"api_url" env:"API_URL" env-default:"http://localhost:8000/api"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" env-default:"15s"`
}

var _ GatewayConfig = Gateway{}

// GetAPIURL returns the backend base URL without a trailing slash
func (g Gateway) GetAPIURL() string {
	return strings.TrimRight(g.APIURL, "/")
}

func (g Gateway) GetRequestTimeout() time.Duration {
	return g.RequestTimeout
}
