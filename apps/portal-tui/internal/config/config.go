// Package config はPortal TUIの設定管理を提供する。
// 環境変数を読み込んだ後、コマンドライン引数で上書きする。
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/oyaguma3/hr-portal/pkg/guard"
	"github.com/oyaguma3/hr-portal/pkg/valkey"
	"github.com/spf13/pflag"
)

// Config はPortal TUIの設定を表す。
type Config struct {
	// Valkey設定
	RedisHost string `envconfig:"REDIS_HOST" default:"127.0.0.1"`
	RedisPort string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPass string `envconfig:"REDIS_PASS" default:""`

	// 接続するストレージオリジン。同じ値の端末・ブラウザはセッションを共有する。
	Origin string `envconfig:"PORTAL_ORIGIN" default:"default"`

	// ログ設定（画面を崩さないようファイルへ出力する）
	LogLevel        string `envconfig:"LOG_LEVEL" default:"INFO"`
	LogFile         string `envconfig:"LOG_FILE" default:"portal-tui.log"`
	LogMaskUsername bool   `envconfig:"LOG_MASK_USERNAME" default:"true"`

	SessionTTL            time.Duration `envconfig:"SESSION_TTL" default:"0"`
	RoutesFile            string        `envconfig:"ROUTES_FILE" default:""`
	GuardEmptyRequirement string        `envconfig:"GUARD_EMPTY_REQUIREMENT" default:"allow_authenticated"`
}

// Load は環境変数とコマンドライン引数から設定を読み込む。
// argsにはプログラム名を除いた引数を渡す。
func Load(args []string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// parseFlags はコマンドライン引数で設定を上書きする。
// -h/--help の場合はpflag.ErrHelpを返す。
func (c *Config) parseFlags(args []string) error {
	fs := pflag.NewFlagSet("portal-tui", pflag.ContinueOnError)
	fs.StringVarP(&c.Origin, "origin", "o", c.Origin, "storage origin shared with other tabs (PORTAL_ORIGIN)")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "log output file (LOG_FILE)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "DEBUG, INFO, WARN or ERROR (LOG_LEVEL)")
	fs.StringVar(&c.RoutesFile, "routes", c.RoutesFile, "route table YAML (ROUTES_FILE)")
	return fs.Parse(args)
}

// RedisAddr はValkey接続文字列を返す。
func (c *Config) RedisAddr() string {
	return valkey.BuildAddr(c.RedisHost, c.RedisPort)
}

// EmptyRequirementPolicy はガードの空要件ポリシーを返す。
func (c *Config) EmptyRequirementPolicy() guard.EmptyRequirementPolicy {
	p, _ := guard.ParseEmptyRequirementPolicy(c.GuardEmptyRequirement)
	return p
}

// ValkeyOptions はValkeyクライアント生成用のOptionsを返す。
func (c *Config) ValkeyOptions() *valkey.Options {
	return valkey.TUIOptions().
		WithAddr(c.RedisAddr()).
		WithPassword(c.RedisPass).
		WithTimeouts(ValkeyConnectTimeout, ValkeyCommandTimeout, ValkeyCommandTimeout)
}

// validate は設定値のバリデーションを行う。
func (c *Config) validate() error {
	if c.Origin == "" || strings.ContainsAny(c.Origin, " \t\r\n") {
		return fmt.Errorf("origin must be a non-empty string without whitespace")
	}
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
