package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "CRICK_"

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New())
//  2. YAML file named by CRICK_CONFIG
//  3. env vars prefixed CRICK_ (a .env file in the working directory is read first)
func Load(ctx context.Context) (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// CRICK_REPLY_TIMEOUT_MS -> reply_timeout_ms; keys stay flat.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants both binaries rely on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.ReplyURL) == "":
		return fmt.Errorf("%w: reply_url must not be empty", ErrInvalidConfig)
	case c.ReplyTimeoutMS <= 0:
		return fmt.Errorf("%w: reply_timeout_ms must be positive", ErrInvalidConfig)
	case c.SettleWindowMS <= 0:
		return fmt.Errorf("%w: settle_window_ms must be positive", ErrInvalidConfig)
	case strings.TrimSpace(c.FallbackMessage) == "":
		return fmt.Errorf("%w: fallback_message must not be empty", ErrInvalidConfig)
	}
	return nil
}
