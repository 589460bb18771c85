package handler

import "time"

// HealthResponse はGET /healthのレスポンス。
type HealthResponse struct {
	Status string `json:"status"`
}

// ViewResponse はビュー表示のレスポンス。
type ViewResponse struct {
	View          string  `json:"view"`
	Path          string  `json:"path"`
	Authenticated bool    `json:"authenticated"`
	Role          *string `json:"role"`
}

// LoginRequest はPOST /api/v1/loginのリクエスト。
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// RedirectResponse はログイン・ログアウト後の遷移先。
type RedirectResponse struct {
	Redirect string `json:"redirect"`
	Replace  bool   `json:"replace"`
}

// SessionResponse はGET /api/v1/sessionのレスポンス。
type SessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	Role          *string    `json:"role"`
	ExpiresAt     *time.Time `json:"expires_at"`
}
