package config

import "time"

type SecurityConfig interface {
	GetSessionIdle() time.Duration
	GetBrowserCookieName() string
}

type Security struct {
	SessionIdle       time.Duration `yaml:"session_idle" env:"SESSION_IDLE" env-default:"30m"`
	BrowserCookieName string        `yaml:"cookie_name" env:"BROWSER_COOKIE" env-default:"inventario_browser"`
}

var _ SecurityConfig = Security{}

// GetSessionIdle is how long an untouched in-memory session lives before it is swept
func (s Security) GetSessionIdle() time.Duration {
	return s.SessionIdle
}

func (s Security) GetBrowserCookieName() string {
	return s.BrowserCookieName
}
