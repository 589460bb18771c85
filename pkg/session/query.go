package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oyaguma3/hr-portal/pkg/logging"
	"github.com/oyaguma3/hr-portal/pkg/model"
)

// Query はセッションストアから導出される参照ヘルパー。
// 結果はキャッシュせず、呼び出しごとにストアを読み直す。
type Query struct {
	repo Repository
}

// NewQuery は新しいQueryを生成する。
func NewQuery(repo Repository) *Query {
	return &Query{repo: repo}
}

// Session は現在のセッションを返す。
// 読み出しに失敗した場合はセッションなしとして扱う（fail closed）。
func (q *Query) Session(ctx context.Context) (*model.Session, bool) {
	sess, err := q.repo.Get(ctx)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			slog.WarnContext(ctx, "session read failed, treating as unauthenticated",
				logging.WithEventID(logging.EventSessionReadErr),
				logging.WithError(err),
			)
		}
		return nil, false
	}
	return sess, true
}

// UserRole は現在のロールをそのまま返す。
// 第2戻り値がfalseの場合はセッションなし。空文字列のロールもセッションありとして扱う。
func (q *Query) UserRole(ctx context.Context) (model.Role, bool) {
	sess, ok := q.Session(ctx)
	if !ok {
		return "", false
	}
	return sess.Role, true
}

// IsAuthenticated はセッションが存在するかを返す。
func (q *Query) IsAuthenticated(ctx context.Context) bool {
	_, ok := q.UserRole(ctx)
	return ok
}

// HasRole は現在のロールがroleと完全一致するかを返す。
func (q *Query) HasRole(ctx context.Context, role model.Role) bool {
	current, ok := q.UserRole(ctx)
	return ok && current == role
}
