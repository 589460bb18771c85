package session

import "github.com/oyaguma3/hr-portal/pkg/apperr"

// セッション関連エラー
var (
	// ErrSessionNotFound はセッションスロットが空の場合のエラー
	ErrSessionNotFound = apperr.ErrSessionNotFound

	// ErrValkeyUnavailable はストレージが利用不可能な場合のエラー
	ErrValkeyUnavailable = apperr.ErrValkeyUnavailable
)
