package model

import "time"

// SessionSlot はセッションを保持するストレージスロット名。
const SessionSlot = "role"

// Session は現在のアクターが名乗っているロールを表す。
// Valkeyキー: portal:{origin}:role
// TTL: 既定は無期限（SESSION_TTLで設定可能）
type Session struct {
	Role      Role      `json:"role"`                 // ロール識別子
	ExpiresAt time.Time `json:"expires_at,omitempty"` // 有効期限（ゼロ値は無期限）
}

// NewSession は新しいSessionを生成する。
func NewSession(role Role) *Session {
	return &Session{Role: role}
}

// HasExpiry は有効期限が設定されているかを返す。
func (s *Session) HasExpiry() bool {
	return !s.ExpiresAt.IsZero()
}

// Expired は指定時刻においてセッションが期限切れかどうかを判定する。
// 有効期限が設定されていない場合は常にfalse。
func (s *Session) Expired(now time.Time) bool {
	if !s.HasExpiry() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}
