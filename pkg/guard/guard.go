package guard

import (
	"context"
	"log/slog"

	"github.com/oyaguma3/hr-portal/pkg/logging"
	"github.com/oyaguma3/hr-portal/pkg/model"
	"github.com/oyaguma3/hr-portal/pkg/navigation"
	"github.com/oyaguma3/hr-portal/pkg/session"
)

// Auditor は拒否判定を監査ログへ記録する。
type Auditor interface {
	LogDeny(ctx context.Context, path, role, reason string)
}

// Guard はビュー表示前にセッションのロールを検査する。
type Guard struct {
	query     *session.Query
	policy    EmptyRequirementPolicy
	loginPath string
	auditor   Auditor
}

// Option はGuardの設定を変更する。
type Option func(*Guard)

// WithEmptyRequirementPolicy は許可ロール集合が空の場合の扱いを設定する。
func WithEmptyRequirementPolicy(p EmptyRequirementPolicy) Option {
	return func(g *Guard) { g.policy = p }
}

// WithLoginPath は拒否時の遷移先を設定する。
func WithLoginPath(path string) Option {
	return func(g *Guard) { g.loginPath = path }
}

// WithAuditor は監査ログ出力先を設定する。
func WithAuditor(a Auditor) Option {
	return func(g *Guard) { g.auditor = a }
}

// New は新しいGuardを生成する。
func New(query *session.Query, opts ...Option) *Guard {
	g := &Guard{
		query:     query,
		policy:    PolicyAllowAuthenticated,
		loginPath: navigation.PathLogin,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate は現在のセッションに対してreqを判定する。
// ロールは呼び出しごとにストアから読み直す。
func (g *Guard) Evaluate(ctx context.Context, req Requirement) Decision {
	role, ok := g.query.UserRole(ctx)
	if !ok {
		return g.deny(ReasonUnauthenticated, false, "")
	}

	allowed := req.Normalize()
	if len(allowed) == 0 {
		if g.policy == PolicyDeny {
			return g.deny(ReasonNoRequirement, true, role)
		}
		return Decision{Outcome: Allowed, Authenticated: true, Role: role}
	}
	if !model.ContainsRole(allowed, role) {
		return g.deny(ReasonRoleMismatch, true, role)
	}
	return Decision{Outcome: Allowed, Authenticated: true, Role: role}
}

func (g *Guard) deny(reason Reason, authenticated bool, role model.Role) Decision {
	return Decision{
		Outcome:       Denied,
		Reason:        reason,
		Authenticated: authenticated,
		Role:          role,
		Redirect:      g.loginPath,
	}
}

// Enforce はtargetへの遷移可否を判定し、拒否時はログインビューへ置き換え遷移する。
// 許可時の遷移は呼び出し側が行う。
func (g *Guard) Enforce(ctx context.Context, nav navigation.Navigator, target string, req Requirement) Decision {
	d := g.Evaluate(ctx, req)

	attrs := append(logging.ContextAttrs(ctx),
		logging.WithPath(target),
		logging.WithRole(string(d.Role)),
	)
	if d.Allowed() {
		slog.DebugContext(ctx, "access allowed", append(attrs, logging.WithEventID(logging.EventGuardAllow))...)
		return d
	}

	slog.InfoContext(ctx, "access denied",
		append(attrs, logging.WithEventID(logging.EventGuardDeny), logging.WithReason(string(d.Reason)))...)
	if g.auditor != nil {
		g.auditor.LogDeny(ctx, target, string(d.Role), string(d.Reason))
	}
	nav.Navigate(d.Redirect, true)
	return d
}
