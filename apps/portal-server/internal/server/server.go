// Package server はHTTPサーバーの管理を提供する。
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oyaguma3/hr-portal/apps/portal-server/internal/config"
	"github.com/oyaguma3/hr-portal/apps/portal-server/internal/handler"
)

// Server はHTTPサーバーを管理する。
type Server struct {
	engine *gin.Engine
	server *http.Server
	cfg    *config.Config
}

// New は新しいServerを生成する。
func New(cfg *config.Config, h *handler.Handler) *Server {
	// Ginモード設定
	gin.SetMode(cfg.GinMode)

	engine := NewEngine(h, OriginCookie{Secure: cfg.CookieSecure})

	// Shutdownは処理中のリクエストのctxをキャンセルしないため、
	// SSEストリームが終わるようベースコンテキストを合わせてキャンセルする
	baseCtx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:        cfg.ListenAddr,
		Handler:     engine,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancel)

	return &Server{
		engine: engine,
		server: srv,
		cfg:    cfg,
	}
}

// NewEngine はミドルウェアとルーティングを設定したエンジンを生成する。
func NewEngine(h *handler.Handler, cookie OriginCookie) *gin.Engine {
	engine := gin.New()

	// ミドルウェア登録
	engine.Use(TraceIDMiddleware())
	engine.Use(OriginMiddleware(cookie))
	engine.Use(LoggingMiddleware())
	engine.Use(RecoveryMiddleware())

	// ルーティング
	SetupRouter(engine, h)

	return engine
}

// Run はサーバーを起動する。
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve は指定したリスナーでサーバーを起動する。
func (s *Server) Serve(ln net.Listener) error {
	slog.Info("starting server", "addr", ln.Addr().String())
	return s.server.Serve(ln)
}

// Shutdown はサーバーをシャットダウンする。
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down server")
	return s.server.Shutdown(ctx)
}
