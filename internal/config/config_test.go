package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-inventory-dashboard/internal/config"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := config.Load("")
	require.NoError(t, err)

	require.Equal(t, ":3000", cfg.GetPort())
	require.Equal(t, "Inventario SaaS", cfg.GetAppName())
	require.Equal(t, "DEV", cfg.GetEnv())
	require.Equal(t, "http://localhost:8000/api", cfg.GetAPIURL())
	require.Equal(t, 15*time.Second, cfg.GetRequestTimeout())
	require.Equal(t, config.StoreMemory, cfg.GetCredentialStore())
	require.Equal(t, 168*time.Hour, cfg.GetCredentialTTL())
	require.Equal(t, 30*time.Minute, cfg.GetSessionIdle())

	key, err := cfg.GetCredentialKey()
	require.NoError(t, err)
	require.Nil(t, key)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("API_URL", "https://api.example.com/api/")
	t.Setenv("PORT", ":9000")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("CREDENTIAL_STORE", "sqlite")

	cfg, err := config.Load("")
	require.NoError(t, err)

	require.Equal(t, "https://api.example.com/api", cfg.GetAPIURL())
	require.Equal(t, ":9000", cfg.GetPort())
	require.Equal(t, 2*time.Second, cfg.GetRequestTimeout())
	require.Equal(t, config.StoreSQLite, cfg.GetCredentialStore())
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	dir := t.TempDir()
	path := writeFile(t, dir, "dashboard.yaml", `
app:
  port: "8081"
  env: "PROD"
gateway:
  api_url: "http://backend:8000/api"
  request_timeout: "5s"
storage:
  kind: "redis"
  redis_url: "redis://cache:6379/1"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, ":8081", cfg.GetPort())
	require.Equal(t, "PROD", cfg.GetEnv())
	require.Equal(t, "http://backend:8000/api", cfg.GetAPIURL())
	require.Equal(t, 5*time.Second, cfg.GetRequestTimeout())
	require.Equal(t, config.StoreRedis, cfg.GetCredentialStore())
	require.Equal(t, "redis://cache:6379/1", cfg.GetRedisURL())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "stat failed")
}

func TestStorage_GetCredentialKey(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s := config.Storage{CredentialKey: "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"}
		key, err := s.GetCredentialKey()
		require.NoError(t, err)
		require.Len(t, key, 32)
	})

	t.Run("not hex", func(t *testing.T) {
		s := config.Storage{CredentialKey: "zz"}
		_, err := s.GetCredentialKey()
		require.Error(t, err)
	})

	t.Run("wrong length", func(t *testing.T) {
		s := config.Storage{CredentialKey: "0001"}
		_, err := s.GetCredentialKey()
		require.Error(t, err)
		require.Contains(t, err.Error(), "32 bytes")
	})
}
