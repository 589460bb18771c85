// Package tab は端末1つ分の実行コンテキストを管理する。
// UIに依存せず、画面遷移・ガード判定・ログイン操作・変更通知の受信をまとめる。
package tab

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/oyaguma3/hr-portal/pkg/guard"
	"github.com/oyaguma3/hr-portal/pkg/logging"
	"github.com/oyaguma3/hr-portal/pkg/model"
	"github.com/oyaguma3/hr-portal/pkg/navigation"
	"github.com/oyaguma3/hr-portal/pkg/notify"
	"github.com/oyaguma3/hr-portal/pkg/portal"
	"github.com/oyaguma3/hr-portal/pkg/routes"
	"github.com/oyaguma3/hr-portal/pkg/session"
)

// ErrUnknownPath はルート定義にないパスへ遷移しようとした場合のエラー
var ErrUnknownPath = errors.New("unknown path")

// Bus は発行元IDを持つ通知バス。
type Bus interface {
	notify.Bus
	Source() string
}

// Deps はControllerの依存関係。
type Deps struct {
	Repository session.Repository
	Bus        Bus
	Table      *routes.Table
	Guard      []guard.Option
	Portal     []portal.Option
}

// View は現在表示すべき画面の状態。
type View struct {
	Path          string
	Name          string
	Authenticated bool
	Role          model.Role
}

// Controller は1コンテキスト分の画面状態を保持する。
type Controller struct {
	table   *routes.Table
	query   *session.Query
	guard   *guard.Guard
	service *portal.Service
	bus     Bus
	history *navigation.History

	mu          sync.Mutex
	onChange    func(View)
	unsubscribe func()
}

// New は新しいControllerを生成する。初期画面はログイン画面。
func New(deps Deps) *Controller {
	table := deps.Table
	if table == nil {
		table = routes.Default()
	}
	query := session.NewQuery(deps.Repository)
	return &Controller{
		table:   table,
		query:   query,
		guard:   guard.New(query, deps.Guard...),
		service: portal.NewService(deps.Repository, deps.Bus, table, deps.Portal...),
		bus:     deps.Bus,
		history: navigation.NewHistory(navigation.PathLogin),
	}
}

// OnChange は画面状態が変わるたびに呼ばれる関数を設定する。
// 通知受信時は受信ゴルーチンから呼ばれる。
func (c *Controller) OnChange(fn func(View)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Start は変更通知の購読を開始し、pathを開く。
func (c *Controller) Start(ctx context.Context, path string) error {
	c.mu.Lock()
	if c.unsubscribe == nil {
		c.unsubscribe = c.bus.Subscribe(c.handleEvent)
	}
	c.mu.Unlock()
	return c.Open(ctx, path)
}

// Close は購読を解除する。
func (c *Controller) Close() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Open はpathへ遷移する。保護されたビューは遷移後にガードで判定し、
// 拒否時はログイン画面で履歴を置き換える。
func (c *Controller) Open(ctx context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	route, ok := c.table.Lookup(path)
	if !ok {
		return ErrUnknownPath
	}
	if route.Redirect != "" {
		path = route.Redirect
	}
	// 同じ画面を開き直す場合は履歴を積まない
	c.history.Navigate(path, path == c.history.Current())
	c.enforceCurrent(ctx)
	c.publish(ctx)
	return nil
}

// Back は1つ前の画面へ戻る。戻り先も改めてガードで判定する。
func (c *Controller) Back(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.history.Back(); !ok {
		return false
	}
	c.enforceCurrent(ctx)
	c.publish(ctx)
	return true
}

// Refresh は現在の画面をストアの最新状態で再判定する。
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enforceCurrent(ctx)
	c.publish(ctx)
}

// Login はログインしてロール別の画面へ遷移する。
// 遷移先も他の遷移と同じくガードで判定する。
func (c *Controller) Login(ctx context.Context, cred portal.Credentials) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.service.Login(ctx, c.history, cred); err != nil {
		return err
	}
	c.enforceCurrent(ctx)
	c.publish(ctx)
	return nil
}

// Logout はログアウトしてログイン画面へ置き換え遷移する。
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.service.Logout(ctx, c.history); err != nil {
		return err
	}
	c.publish(ctx)
	return nil
}

// Current は現在の画面状態を返す。
func (c *Controller) Current(ctx context.Context) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view(ctx)
}

// History は履歴のコピーを返す。
func (c *Controller) History() []string {
	return c.history.Entries()
}

// Menu はメニューに表示するビューを返す。
func (c *Controller) Menu() []routes.Route {
	return c.table.Views()
}

// Roles はログインフォームで選択できるロールを返す。
func (c *Controller) Roles() []model.Role {
	return c.table.Roles()
}

// handleEvent は他コンテキストからの変更通知で現在の画面を再判定する。
// 自身の発行した通知はLogin/Logoutの中で処理済みのため無視する。
func (c *Controller) handleEvent(ctx context.Context, ev notify.Event) {
	if ev.Type != notify.EventSessionChanged || ev.Source == c.bus.Source() {
		return
	}
	slog.DebugContext(ctx, "session changed in another context",
		append(logging.ContextAttrs(ctx), "source", ev.Source)...)
	c.Refresh(ctx)
}

// enforceCurrent はmuを保持した状態で呼ぶ。
func (c *Controller) enforceCurrent(ctx context.Context) {
	path := c.history.Current()
	route, ok := c.table.Lookup(path)
	if !ok || !route.Protected {
		return
	}
	c.guard.Enforce(ctx, c.history, path, route.Requirement())
}

// publish はmuを保持した状態で呼ぶ。
func (c *Controller) publish(ctx context.Context) {
	if c.onChange != nil {
		c.onChange(c.view(ctx))
	}
}

func (c *Controller) view(ctx context.Context) View {
	path := c.history.Current()
	v := View{Path: path}
	if route, ok := c.table.Lookup(path); ok {
		v.Name = route.View
	}
	v.Role, v.Authenticated = c.query.UserRole(ctx)
	return v
}
