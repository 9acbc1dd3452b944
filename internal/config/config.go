// Package config содержит логику чтения конфигурации бэк-офиса.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress = "localhost:8080"
	defaultTokenTTL   = time.Hour
)

// Config содержит параметры конфигурации сервиса.
// Пустой DatabaseURI означает хранение данных в памяти процесса.
type Config struct {
	RunAddress            string        `env:"RUN_ADDRESS"`
	DatabaseURI           string        `env:"DATABASE_URI"`
	JWTSecret             string        `env:"JWT_SECRET"`
	TokenTTL              time.Duration `env:"TOKEN_TTL"`
	RedisAddress          string        `env:"REDIS_ADDRESS"`
	RedisPassword         string        `env:"REDIS_PASSWORD"`
	RedisDB               int           `env:"REDIS_DB" envDefault:"0"`
	RestockWebhookAddress string        `env:"RESTOCK_WEBHOOK_ADDRESS"`
	DirectorUsername      string        `env:"DIRECTOR_USERNAME"`
	DirectorPassword      string        `env:"DIRECTOR_PASSWORD"`
	DirectorEmail         string        `env:"DIRECTOR_EMAIL"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envCfg := *cfg

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.JWTSecret, "s", "", "secret key for signing access tokens")
	flag.DurationVar(&cfg.TokenTTL, "t", defaultTokenTTL, "access token lifetime")
	flag.StringVar(&cfg.RedisAddress, "r", "", "redis address for stock locks")
	flag.StringVar(&cfg.RestockWebhookAddress, "w", "", "restock notification service address")

	flag.Parse()

	if envCfg.RunAddress != "" {
		cfg.RunAddress = envCfg.RunAddress
	}
	if envCfg.DatabaseURI != "" {
		cfg.DatabaseURI = envCfg.DatabaseURI
	}
	if envCfg.JWTSecret != "" {
		cfg.JWTSecret = envCfg.JWTSecret
	}
	if envCfg.TokenTTL > 0 {
		cfg.TokenTTL = envCfg.TokenTTL
	}
	if envCfg.RedisAddress != "" {
		cfg.RedisAddress = envCfg.RedisAddress
	}
	if envCfg.RestockWebhookAddress != "" {
		cfg.RestockWebhookAddress = envCfg.RestockWebhookAddress
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	return cfg, nil
}
