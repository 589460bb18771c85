package model

import (
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	sess := NewSession(RoleHR)

	if sess.Role != RoleHR {
		t.Errorf("Role = %q, want %q", sess.Role, RoleHR)
	}
	if sess.HasExpiry() {
		t.Error("HasExpiry() = true, want false")
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"no expiry", time.Time{}, false},
		{"future", now.Add(time.Minute), false},
		{"exactly now", now, true},
		{"past", now.Add(-time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &Session{Role: RoleEmployee, ExpiresAt: tt.expiresAt}
			if got := sess.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionSlot(t *testing.T) {
	if SessionSlot != "role" {
		t.Errorf("SessionSlot = %q, want %q", SessionSlot, "role")
	}
}
