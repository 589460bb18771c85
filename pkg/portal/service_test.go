package portal

import (
	"context"
	"errors"
	"testing"

	"github.com/oyaguma3/hr-portal/pkg/apperr"
	"github.com/oyaguma3/hr-portal/pkg/guard"
	"github.com/oyaguma3/hr-portal/pkg/model"
	"github.com/oyaguma3/hr-portal/pkg/navigation"
	"github.com/oyaguma3/hr-portal/pkg/notify"
	"github.com/oyaguma3/hr-portal/pkg/routes"
	"github.com/oyaguma3/hr-portal/pkg/session"
	"go.uber.org/mock/gomock"
)

type mocks struct {
	store    *MockSessionStore
	notifier *MockNotifier
	nav      *MockNavigator
	auditor  *MockAuditor
}

func setupService(ctrl *gomock.Controller) (*Service, *mocks) {
	m := &mocks{
		store:    NewMockSessionStore(ctrl),
		notifier: NewMockNotifier(ctrl),
		nav:      NewMockNavigator(ctrl),
		auditor:  NewMockAuditor(ctrl),
	}
	svc := NewService(m.store, m.notifier, routes.Default(), WithAuditor(m.auditor))
	return svc, m
}

func TestLogin_Success(t *testing.T) {
	tests := []struct {
		role    model.Role
		landing string
	}{
		{model.RoleEmployee, navigation.PathEmployee},
		{model.RoleHR, navigation.PathHR},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, m := setupService(ctrl)
			ctx := context.Background()

			gomock.InOrder(
				m.store.EXPECT().Set(gomock.Any(), tt.role).Return(nil),
				m.notifier.EXPECT().Emit(gomock.Any()).Return(nil),
				m.auditor.EXPECT().LogLogin(gomock.Any(), "alice", tt.role.String(), tt.landing),
				m.nav.EXPECT().Navigate(tt.landing, false),
			)

			err := svc.Login(ctx, m.nav, Credentials{Username: "alice", Password: "x", Role: tt.role})
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
		})
	}
}

func TestLogin_Validation(t *testing.T) {
	tests := []struct {
		name      string
		cred      Credentials
		wantField string
	}{
		{"empty username", Credentials{Username: "", Password: "x", Role: model.RoleHR}, "username"},
		{"blank username", Credentials{Username: "   ", Password: "x", Role: model.RoleHR}, "username"},
		{"empty password", Credentials{Username: "alice", Password: "", Role: model.RoleHR}, "password"},
		{"blank password", Credentials{Username: "alice", Password: "\t\n", Role: model.RoleHR}, "password"},
		{"both empty reports username", Credentials{Role: model.RoleHR}, "username"},
		{"unknown role", Credentials{Username: "alice", Password: "x", Role: "admin"}, "role"},
		{"role case mismatch", Credentials{Username: "alice", Password: "x", Role: "HR"}, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, m := setupService(ctrl)

			// Set, Emit, Navigateは呼ばれない
			m.auditor.EXPECT().LogLoginRejected(gomock.Any(), tt.cred.Username, tt.wantField)

			err := svc.Login(context.Background(), m.nav, tt.cred)
			ve, ok := apperr.AsValidationError(err)
			if !ok {
				t.Fatalf("Login() error = %v, want ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestLogin_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := setupService(ctrl)

	storeErr := apperr.NewValkeyError("SET", "portal:o:role", errors.New("connection refused"))
	m.store.EXPECT().Set(gomock.Any(), model.RoleHR).Return(storeErr)
	// Emit, Navigate, LogLoginは呼ばれない

	err := svc.Login(context.Background(), m.nav, Credentials{Username: "alice", Password: "x", Role: model.RoleHR})
	if !errors.Is(err, apperr.ErrValkeyUnavailable) {
		t.Errorf("Login() error = %v, want ErrValkeyUnavailable", err)
	}
}

func TestLogin_NotifyFailureStillSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := setupService(ctrl)

	gomock.InOrder(
		m.store.EXPECT().Set(gomock.Any(), model.RoleEmployee).Return(nil),
		m.notifier.EXPECT().Emit(gomock.Any()).Return(errors.New("publish failed")),
		m.auditor.EXPECT().LogLogin(gomock.Any(), "bob", "employee", navigation.PathEmployee),
		m.nav.EXPECT().Navigate(navigation.PathEmployee, false),
	)

	err := svc.Login(context.Background(), m.nav, Credentials{Username: "bob", Password: "x", Role: model.RoleEmployee})
	if err != nil {
		t.Errorf("Login() error = %v, want nil", err)
	}
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name     string
		current  *model.Session
		getErr   error
		wantRole string
	}{
		{"with session", model.NewSession(model.RoleHR), nil, "hr"},
		{"without session", nil, session.ErrSessionNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, m := setupService(ctrl)

			gomock.InOrder(
				m.store.EXPECT().Get(gomock.Any()).Return(tt.current, tt.getErr),
				m.store.EXPECT().Clear(gomock.Any()).Return(nil),
				m.notifier.EXPECT().Emit(gomock.Any()).Return(nil),
				m.auditor.EXPECT().LogLogout(gomock.Any(), tt.wantRole),
				m.nav.EXPECT().Navigate(navigation.PathLogin, true),
			)

			if err := svc.Logout(context.Background(), m.nav); err != nil {
				t.Fatalf("Logout() error = %v", err)
			}
		})
	}
}

func TestLogout_ClearFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := setupService(ctrl)

	m.store.EXPECT().Get(gomock.Any()).Return(model.NewSession(model.RoleHR), nil)
	m.store.EXPECT().Clear(gomock.Any()).Return(errors.New("connection refused"))

	if err := svc.Logout(context.Background(), m.nav); err == nil {
		t.Error("Logout() error = nil, want error")
	}
}

// 実装を組み合わせたシナリオ
func TestLoginLogout_WithGuard(t *testing.T) {
	ctx := context.Background()
	storage := session.NewMemoryStorage()
	tabA := session.NewMemoryRepository(storage)
	tabB := session.NewMemoryRepository(storage)

	busA := notify.NewLocalBus("tab-a")
	svc := NewService(tabA, busA, nil)

	var notified int
	busA.Subscribe(func(context.Context, notify.Event) { notified++ })

	historyA := navigation.NewHistory(navigation.PathLogin)
	if err := svc.Login(ctx, historyA, Credentials{Username: "hana", Password: "pw", Role: model.RoleEmployee}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if historyA.Current() != navigation.PathEmployee {
		t.Errorf("Current() = %q, want %q", historyA.Current(), navigation.PathEmployee)
	}
	if notified != 1 {
		t.Errorf("notified = %d, want 1", notified)
	}

	// 同一オリジンの別タブからも見える
	g := guard.New(session.NewQuery(tabB))
	if d := g.Evaluate(ctx, guard.RequireAnyOf(model.RoleEmployee, model.RoleHR)); !d.Allowed() {
		t.Errorf("tab-b employee view = %v, want allowed", d.Outcome)
	}
	if d := g.Evaluate(ctx, guard.RequireRole(model.RoleHR)); d.Allowed() {
		t.Error("tab-b hr view allowed for employee")
	}

	if err := svc.Logout(ctx, historyA); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if notified != 2 {
		t.Errorf("notified = %d, want 2", notified)
	}
	if historyA.Current() != navigation.PathLogin {
		t.Errorf("Current() = %q, want %q", historyA.Current(), navigation.PathLogin)
	}
	if d := g.Evaluate(ctx, guard.RequireAnyOf(model.RoleEmployee, model.RoleHR)); d.Allowed() {
		t.Error("tab-b employee view allowed after logout")
	}

	// 2回目のログアウトも同じ結果で通知は発行される
	if err := svc.Logout(ctx, historyA); err != nil {
		t.Fatalf("second Logout() error = %v", err)
	}
	if notified != 3 {
		t.Errorf("notified = %d, want 3", notified)
	}
}

func TestLogin_ValidationLeavesSessionUntouched(t *testing.T) {
	ctx := context.Background()
	repo := session.NewMemoryRepository(session.NewMemoryStorage())
	_ = repo.Set(ctx, model.RoleHR)
	bus := notify.NewLocalBus("tab-a")
	var notified int
	bus.Subscribe(func(context.Context, notify.Event) { notified++ })

	svc := NewService(repo, bus, nil)
	var rec navigation.Recorder
	err := svc.Login(ctx, &rec, Credentials{Username: "", Password: "pw", Role: model.RoleEmployee})
	if err == nil {
		t.Fatal("Login() error = nil, want ValidationError")
	}

	sess, err := repo.Get(ctx)
	if err != nil || sess.Role != model.RoleHR {
		t.Errorf("session = %v, %v; want hr unchanged", sess, err)
	}
	if notified != 0 {
		t.Errorf("notified = %d, want 0", notified)
	}
	if rec.Redirect {
		t.Errorf("navigated to %q, want no navigation", rec.Path)
	}
}
