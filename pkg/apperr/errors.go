// Package apperr は共通エラー定義を提供する。
package apperr

import "errors"

// セッション関連エラー
var (
	// ErrSessionNotFound はセッションが存在しない場合のエラー
	ErrSessionNotFound = errors.New("session not found")
)

// インフラ関連エラー
var (
	// ErrValkeyUnavailable はValkeyへの接続が利用不可能な場合のエラー
	ErrValkeyUnavailable = errors.New("valkey unavailable")
	// ErrInvalidRequest は不正なリクエストエラー
	ErrInvalidRequest = errors.New("invalid request")
)
