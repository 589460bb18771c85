package config

import "time"

// Valkey接続設定
const (
	ValkeyConnectTimeout = 3 * time.Second
	ValkeyCommandTimeout = 2 * time.Second
	ValkeyPoolSize       = 20
	ValkeyMinIdleConns   = 2
)

// オリジンCookie設定
const (
	OriginCookieName   = "portal_origin"
	OriginCookieMaxAge = 365 * 24 * 60 * 60
)

// SSE設定
const (
	SSEKeepAliveInterval = 15 * time.Second
)

// サーバーシャットダウン設定
const (
	ShutdownTimeout = 10 * time.Second
)
