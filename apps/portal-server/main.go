// Package main はPortal Serverのエントリーポイント。
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/oyaguma3/hr-portal/apps/portal-server/internal/config"
	"github.com/oyaguma3/hr-portal/apps/portal-server/internal/handler"
	"github.com/oyaguma3/hr-portal/apps/portal-server/internal/server"
	"github.com/oyaguma3/hr-portal/pkg/audit"
	"github.com/oyaguma3/hr-portal/pkg/logging"
	"github.com/oyaguma3/hr-portal/pkg/routes"
	"github.com/oyaguma3/hr-portal/pkg/valkey"
)

const appName = "portal-server"

func main() {
	// 1. 設定読み込み
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. ロガー初期化
	initLogger(cfg)

	// 3. ルート定義読み込み
	table, err := routes.Load(cfg.RoutesFile)
	if err != nil {
		slog.Error("failed to load route table", "error", err)
		os.Exit(1)
	}

	slog.Info("starting "+appName,
		"listen_addr", cfg.ListenAddr,
		"log_level", cfg.LogLevel,
		"session_ttl", cfg.SessionTTL.String(),
		"empty_requirement", string(cfg.EmptyRequirementPolicy()),
		"routes", len(table.Routes),
	)

	// 4. Valkey接続
	client, err := valkey.NewClient(cfg.ValkeyOptions())
	if err != nil {
		slog.Error("failed to connect to Valkey",
			logging.WithEventID(logging.EventValkeyConnErr),
			logging.WithError(err),
		)
		os.Exit(1)
	}
	defer client.Close()

	slog.Info("connected to Valkey", "addr", cfg.RedisAddr())

	// 5. ハンドラー
	auditor := audit.NewLogger(appName, logging.NewMasker(cfg.LogMaskUsername))
	h := handler.New(client, table, auditor, handler.Options{
		SessionTTL:       cfg.SessionTTL,
		EmptyRequirement: cfg.EmptyRequirementPolicy(),
		MaskUsername:     cfg.LogMaskUsername,
		KeepAlive:        config.SSEKeepAliveInterval,
	})

	// 6. サーバー起動
	srv := server.New(cfg, h)

	// 7. Graceful Shutdown設定
	go func() {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// 8. シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

// initLogger はロガーを初期化する。
func initLogger(cfg *config.Config) {
	level := slog.LevelInfo
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	h := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(h).With("app", appName)
	slog.SetDefault(logger)
}
