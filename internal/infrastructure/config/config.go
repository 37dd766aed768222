package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// APIBaseURL is the deal-pipeline backend root.
	APIBaseURL string        `env:"API_BASE_URL, default=http://localhost:8081/api"`
	Timeout    time.Duration `env:"API_TIMEOUT,  default=0"`
	Env        string        `env:"ENV,          default=development"`
	LogLevel   string        `env:"LOG_LEVEL,    default=info"`

	Session SessionConfig
	Redis   RedisConfig
}

// SessionConfig selects where the session slots are persisted.
type SessionConfig struct {
	// Backend is one of "file", "redis", "memory".
	Backend string `env:"SESSION_BACKEND, default=file"`
	// CredentialsFile is the file backend's path. Empty means
	// $HOME/.dealpipeline/credentials.json, resolved at startup.
	CredentialsFile string `env:"CREDENTIALS_FILE"`
}

type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR,      default=localhost:6379"`
	DB        int    `env:"REDIS_DB,        default=0"`
	Namespace string `env:"REDIS_NAMESPACE, default=pipeline"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
