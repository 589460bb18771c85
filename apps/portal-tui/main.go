// Portal TUI - 端末1つをポータルの1タブとして動かすクライアント
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/oyaguma3/hr-portal/apps/portal-tui/internal/config"
	"github.com/oyaguma3/hr-portal/apps/portal-tui/internal/tab"
	"github.com/oyaguma3/hr-portal/apps/portal-tui/internal/ui"
	"github.com/oyaguma3/hr-portal/pkg/apperr"
	"github.com/oyaguma3/hr-portal/pkg/audit"
	"github.com/oyaguma3/hr-portal/pkg/guard"
	"github.com/oyaguma3/hr-portal/pkg/logging"
	"github.com/oyaguma3/hr-portal/pkg/navigation"
	"github.com/oyaguma3/hr-portal/pkg/notify"
	"github.com/oyaguma3/hr-portal/pkg/portal"
	"github.com/oyaguma3/hr-portal/pkg/routes"
	"github.com/oyaguma3/hr-portal/pkg/session"
	"github.com/oyaguma3/hr-portal/pkg/valkey"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
)

const appName = "portal-tui"

// Application はアプリケーション全体を管理する。
type Application struct {
	app         *ui.App
	cfg         *config.Config
	table       *routes.Table
	auditLogger *audit.Logger
	ctx         context.Context

	redisClient *redis.Client
	bus         *notify.ValkeyBus
	ctrl        *tab.Controller

	login *ui.LoginScreen
	view  *ui.ViewScreen
}

func main() {
	// 設定読み込み
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// ロガー初期化（画面を崩さないようファイルへ出力）
	logOut, err := openLogFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logOut.Close()
	initLogger(cfg, logOut)

	table, err := routes.Load(cfg.RoutesFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	source := uuid.NewString()
	ctx := logging.ContextWithOrigin(logging.ContextWithTraceID(context.Background(), source), cfg.Origin)

	application := &Application{
		app:         ui.NewApp(),
		cfg:         cfg,
		table:       table,
		auditLogger: audit.NewLoggerWithWriter(logOut, appName, logging.NewMasker(cfg.LogMaskUsername)),
		ctx:         ctx,
	}
	application.app.GetStatusBar().SetOrigin(cfg.Origin)
	application.app.GetStatusBar().SetDuration(config.StatusMessageDuration)

	slog.InfoContext(ctx, "starting "+appName,
		append(logging.ContextAttrs(ctx), "routes", len(table.Routes))...)

	// Valkey接続
	if err := application.connect(source); err != nil {
		application.showStartupError(source, err)
	} else {
		application.showPortal()
	}

	application.setupGlobalKeyBindings()

	if err := application.app.Run(); err != nil {
		slog.Error("application error", logging.WithError(err))
	}
	application.cleanup()
}

// connect はValkeyへ接続し、変更通知の購読を開始する。
func (a *Application) connect(source string) error {
	client, err := valkey.NewClient(a.cfg.ValkeyOptions())
	if err != nil {
		slog.ErrorContext(a.ctx, "failed to connect to Valkey",
			append(logging.ContextAttrs(a.ctx),
				logging.WithEventID(logging.EventValkeyConnErr),
				logging.WithError(err))...)
		return err
	}

	// 受信ループはアプリケーション終了時のCloseまで継続する
	bus := notify.NewValkeyBus(client, a.cfg.Origin, source)
	if err := bus.Listen(a.ctx); err != nil {
		_ = client.Close()
		return err
	}

	a.redisClient = client
	a.bus = bus
	a.ctrl = tab.New(tab.Deps{
		Repository: session.NewValkeyRepository(client, a.cfg.Origin, session.WithTTL(a.cfg.SessionTTL)),
		Bus:        bus,
		Table:      a.table,
		Guard: []guard.Option{
			guard.WithEmptyRequirementPolicy(a.cfg.EmptyRequirementPolicy()),
			guard.WithAuditor(a.auditLogger),
		},
		Portal: []portal.Option{
			portal.WithAuditor(a.auditLogger),
			portal.WithMasker(logging.NewMasker(a.cfg.LogMaskUsername)),
		},
	})
	return nil
}

func (a *Application) showStartupError(source string, cause error) {
	screen := ui.NewStartupErrorScreen(a.cfg.RedisAddr(), cause.Error(),
		func() {
			// Retry
			if err := a.connect(source); err != nil {
				a.app.GetStatusBar().ShowError("Connection failed: " + err.Error())
				return
			}
			a.app.RemovePage(ui.PageStartupError)
			a.showPortal()
		},
		func() {
			// Exit
			a.app.Stop()
		},
	)
	a.app.AddPage(ui.PageStartupError, screen.GetModal(), true, true)
}

// showPortal は画面を組み立て、初期画面を開く。
// コントローラーの呼び出しは通信を伴うため、メインゴルーチン外で行う。
func (a *Application) showPortal() {
	a.login = ui.NewLoginScreen(a.ctrl.Roles())
	a.login.SetOnSubmit(func(cred portal.Credentials) {
		a.async(func() error { return a.ctrl.Login(a.ctx, cred) })
	})
	a.login.SetOnQuit(a.app.Stop)

	a.view = ui.NewViewScreen(a.ctrl.Menu())
	a.view.SetOnOpen(func(path string) {
		a.async(func() error { return a.ctrl.Open(a.ctx, path) })
	})
	a.view.SetOnLogout(a.logout)

	a.app.AddPage(ui.PageLogin, a.login.GetForm(), true, false)
	a.app.AddPage(ui.PageView, a.view.GetLayout(), true, false)

	a.ctrl.OnChange(func(v tab.View) {
		a.app.QueueUpdateDraw(func() { a.render(v) })
	})

	a.async(func() error { return a.ctrl.Start(a.ctx, navigation.PathRoot) })
}

// render は画面状態を反映する。QueueUpdateDraw内で呼ばれる。
func (a *Application) render(v tab.View) {
	a.app.GetStatusBar().SetSession(v.Authenticated, v.Role.String())
	if v.Path == navigation.PathLogin {
		a.login.Reset()
		a.app.SwitchToPage(ui.PageLogin, a.login.GetForm())
		return
	}
	a.view.Render(v)
	a.app.SwitchToPage(ui.PageView, a.view.GetMenu())
}

func (a *Application) logout() {
	a.async(func() error { return a.ctrl.Logout(a.ctx) })
}

// async はfnをメインゴルーチン外で実行し、エラーをステータスバーに表示する。
func (a *Application) async(fn func() error) {
	go func() {
		if err := fn(); err != nil {
			msg := err.Error()
			var ve *apperr.ValidationError
			if errors.As(err, &ve) {
				msg = "Invalid input: " + ve.Message
			}
			a.app.QueueUpdateDraw(func() {
				a.app.GetStatusBar().ShowError(msg)
			})
		}
	}()
}

func (a *Application) setupGlobalKeyBindings() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Ctrl+Q で終了
		if event.Key() == ui.KeyQuit {
			a.app.Stop()
			return nil
		}

		if a.ctrl == nil || a.app.CurrentPage() == ui.PageStartupError {
			return event
		}

		switch event.Key() {
		case ui.KeyLogout:
			a.logout()
			return nil
		case ui.KeyRefresh:
			go a.ctrl.Refresh(a.ctx)
			return nil
		case ui.KeyBack:
			go a.ctrl.Back(a.ctx)
			return nil
		}
		return event
	})
}

func (a *Application) cleanup() {
	if a.ctrl != nil {
		a.ctrl.Close()
	}
	if a.bus != nil {
		_ = a.bus.Close()
	}
	if a.redisClient != nil {
		_ = a.redisClient.Close()
	}
}

func openLogFile(path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// initLogger はロガーを初期化する。
func initLogger(cfg *config.Config, w io.Writer) {
	level := slog.LevelInfo
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	logger := slog.New(h).With("app", appName)
	slog.SetDefault(logger)
}
