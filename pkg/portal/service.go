package portal

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/oyaguma3/hr-portal/pkg/apperr"
	"github.com/oyaguma3/hr-portal/pkg/logging"
	"github.com/oyaguma3/hr-portal/pkg/model"
	"github.com/oyaguma3/hr-portal/pkg/navigation"
	"github.com/oyaguma3/hr-portal/pkg/routes"
)

// Credentials はログインフォームの入力値。
// ユーザー名とパスワードは検証せず、ユーザー名はログにのみ使う。
type Credentials struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

// Service はログイン・ログアウト操作を提供する。
type Service struct {
	store    SessionStore
	notifier Notifier
	table    *routes.Table
	auditor  Auditor
	fields   *logging.CommonFields
}

// Option はServiceの設定を変更する。
type Option func(*Service)

// WithAuditor は監査ログ出力先を設定する。
func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.auditor = a }
}

// WithMasker はログ出力時のユーザー名マスキング設定を指定する。
func WithMasker(m *logging.Masker) Option {
	return func(s *Service) { s.fields = logging.NewCommonFields(m) }
}

// NewService は新しいServiceを生成する。tableがnilの場合は組み込みのルート定義を使う。
func NewService(store SessionStore, notifier Notifier, table *routes.Table, opts ...Option) *Service {
	if table == nil {
		table = routes.Default()
	}
	s := &Service{
		store:    store,
		notifier: notifier,
		table:    table,
		fields:   logging.NewCommonFields(logging.NewMasker(true)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login はロールをセッションに保存し、変更を通知してロール別のビューへ遷移する。
// 入力不備の場合は*apperr.ValidationErrorを返し、副作用は発生しない。
// 保存失敗時は通知も遷移も行わない。通知失敗はログのみでログインは成功扱い。
func (s *Service) Login(ctx context.Context, nav Navigator, cred Credentials) error {
	landing, err := s.validate(cred)
	if err != nil {
		var ve *apperr.ValidationError
		if errors.As(err, &ve) {
			slog.InfoContext(ctx, "login rejected",
				append(logging.ContextAttrs(ctx),
					logging.WithEventID(logging.EventLoginInvalid),
					s.fields.WithUsername(cred.Username),
					logging.WithReason(ve.Field))...)
			if s.auditor != nil {
				s.auditor.LogLoginRejected(ctx, cred.Username, ve.Field)
			}
		}
		return err
	}

	if err := s.store.Set(ctx, cred.Role); err != nil {
		slog.ErrorContext(ctx, "failed to store session",
			append(logging.ContextAttrs(ctx),
				logging.WithEventID(logging.EventSessionWriteErr),
				logging.WithError(err))...)
		return err
	}

	s.emit(ctx)

	slog.InfoContext(ctx, "login succeeded",
		append(s.fields.LoginLogFields(logging.EventLoginOK, logging.OriginFromContext(ctx), cred.Username, cred.Role.String()),
			logging.WithPath(landing))...)
	if s.auditor != nil {
		s.auditor.LogLogin(ctx, cred.Username, cred.Role.String(), landing)
	}

	nav.Navigate(landing, false)
	return nil
}

func (s *Service) validate(cred Credentials) (string, error) {
	if strings.TrimSpace(cred.Username) == "" {
		return "", apperr.NewValidationError("username", "username is required")
	}
	if strings.TrimSpace(cred.Password) == "" {
		return "", apperr.NewValidationError("password", "password is required")
	}
	landing, ok := s.table.LandingFor(cred.Role)
	if !ok {
		return "", apperr.NewValidationError("role", "unknown role: "+cred.Role.String())
	}
	return landing, nil
}

// Logout はセッションを消去し、変更を通知してログインビューへ置き換え遷移する。
// セッションがなくても同じ手順を実行する。消去に失敗した場合は通知も遷移も行わない。
func (s *Service) Logout(ctx context.Context, nav Navigator) error {
	var previous string
	if sess, err := s.store.Get(ctx); err == nil {
		previous = sess.Role.String()
	}

	if err := s.store.Clear(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to clear session",
			append(logging.ContextAttrs(ctx),
				logging.WithEventID(logging.EventSessionWriteErr),
				logging.WithError(err))...)
		return err
	}

	s.emit(ctx)

	slog.InfoContext(ctx, "logout",
		append(logging.ContextAttrs(ctx),
			logging.WithEventID(logging.EventLogout),
			logging.WithRole(previous))...)
	if s.auditor != nil {
		s.auditor.LogLogout(ctx, previous)
	}

	nav.Navigate(navigation.PathLogin, true)
	return nil
}

func (s *Service) emit(ctx context.Context) {
	if err := s.notifier.Emit(ctx); err != nil {
		slog.WarnContext(ctx, "failed to notify session change",
			append(logging.ContextAttrs(ctx),
				logging.WithEventID(logging.EventNotifyErr),
				logging.WithError(err))...)
	}
}
