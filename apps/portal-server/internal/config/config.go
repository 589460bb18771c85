// Package config は環境変数から設定を読み込む。
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/oyaguma3/hr-portal/pkg/guard"
	"github.com/oyaguma3/hr-portal/pkg/valkey"
)

// Config はPortal Serverの設定を保持する。
type Config struct {
	// Valkey設定
	RedisHost string `envconfig:"REDIS_HOST" required:"true"`
	RedisPort string `envconfig:"REDIS_PORT" required:"true"`
	RedisPass string `envconfig:"REDIS_PASS" default:""`

	// サーバー設定
	ListenAddr      string `envconfig:"LISTEN_ADDR" default:":8080"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"INFO"`
	LogMaskUsername bool   `envconfig:"LOG_MASK_USERNAME" default:"true"`
	GinMode         string `envconfig:"GIN_MODE" default:"release"`

	// セッション設定（0は無期限）
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"0"`

	// ルート定義ファイル（空の場合は組み込み定義）
	RoutesFile string `envconfig:"ROUTES_FILE" default:""`

	// 許可ロール集合が空のビューの扱い（"allow_authenticated" or "deny"）
	GuardEmptyRequirement string `envconfig:"GUARD_EMPTY_REQUIREMENT" default:"allow_authenticated"`

	// オリジンCookieにSecure属性を付与するか
	CookieSecure bool `envconfig:"COOKIE_SECURE" default:"false"`
}

// Load は環境変数から設定を読み込む。
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// RedisAddr はValkey接続文字列を返す。
func (c *Config) RedisAddr() string {
	return valkey.BuildAddr(c.RedisHost, c.RedisPort)
}

// EmptyRequirementPolicy はガードの空要件ポリシーを返す。
// validate済みのため解析エラーは発生しない。
func (c *Config) EmptyRequirementPolicy() guard.EmptyRequirementPolicy {
	p, _ := guard.ParseEmptyRequirementPolicy(c.GuardEmptyRequirement)
	return p
}

// ValkeyOptions はValkeyクライアント生成用のOptionsを返す。
func (c *Config) ValkeyOptions() *valkey.Options {
	return valkey.DefaultOptions().
		WithAddr(c.RedisAddr()).
		WithPassword(c.RedisPass).
		WithTimeouts(ValkeyConnectTimeout, ValkeyCommandTimeout, ValkeyCommandTimeout).
		WithPool(ValkeyPoolSize, ValkeyMinIdleConns)
}

// validate は設定値のバリデーションを行う。
func (c *Config) validate() error {
	if c.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative")
	}
	if _, err := guard.ParseEmptyRequirementPolicy(c.GuardEmptyRequirement); err != nil {
		return fmt.Errorf("GUARD_EMPTY_REQUIREMENT: %w", err)
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR")
	}
	return nil
}
