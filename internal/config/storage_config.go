package config

import (
	"encoding/hex"
	"fmt"
	"time"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

type StorageConfig interface {
	GetCredentialStore() string
	GetSQLitePath() string
	GetRedisURL() string
	GetCredentialTTL() time.Duration
	GetCredentialKey() ([]byte, error)
}

type Storage struct {
	Kind          string        `yaml:"kind" env:"CREDENTIAL_STORE" env-default:"memory"`
	SQLitePath    string        `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"./data/credentials.db"`
	RedisURL      string        `yaml:"redis_url" env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	CredentialTTL time.Duration `yaml:"ttl" env:"CREDENTIAL_TTL" env-default:"168h"`
	CredentialKey string        `yaml:"key" env:"CREDENTIAL_KEY"`
}

var _ StorageConfig = Storage{}

func (s Storage) GetCredentialStore() string {
	return s.Kind
}

func (s Storage) GetSQLitePath() string {
	return s.SQLitePath
}

func (s Storage) GetRedisURL() string {
	return s.RedisURL
}

func (s Storage) GetCredentialTTL() time.Duration {
	return s.CredentialTTL
}

// GetCredentialKey decodes CREDENTIAL_KEY. A nil key means values are stored unsealed.
func (s Storage) GetCredentialKey() ([]byte, error) {
	if s.CredentialKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(s.CredentialKey)
	if err != nil {
		return nil, fmt.Errorf("CREDENTIAL_KEY must be hex encoded: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("CREDENTIAL_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}
