// Package portal はログイン・ログアウト操作を提供する。
package portal

//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=portal

import (
	"context"

	"github.com/oyaguma3/hr-portal/pkg/model"
)

// SessionStore はセッションスロットへのアクセスのインターフェース。
type SessionStore interface {
	Get(ctx context.Context) (*model.Session, error)
	Set(ctx context.Context, role model.Role) error
	Clear(ctx context.Context) error
}

// Notifier はセッション変更通知のインターフェース。
type Notifier interface {
	Emit(ctx context.Context) error
}

// Navigator はビュー遷移のインターフェース。
type Navigator interface {
	Navigate(path string, replace bool)
}

// Auditor は監査ログ出力のインターフェース。
type Auditor interface {
	LogLogin(ctx context.Context, username, role, landing string)
	LogLoginRejected(ctx context.Context, username, field string)
	LogLogout(ctx context.Context, role string)
}
