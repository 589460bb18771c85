package logging

import "log/slog"

// ログフィールド名の定数
const (
	FieldTraceID    = "trace_id"
	FieldEventID    = "event_id"
	FieldError      = "error"
	FieldSrcIP      = "src_ip"
	FieldLatencyMs  = "latency_ms"
	FieldHTTPStatus = "http_status"
	FieldOrigin     = "origin"
	FieldRole       = "role"
	FieldPath       = "path"
	FieldReason     = "reason"
	FieldUsername   = "username"
)

// イベントID
const (
	EventLoginOK         = "LOGIN_OK"
	EventLoginInvalid    = "LOGIN_INVALID"
	EventLogout          = "LOGOUT"
	EventGuardAllow      = "GUARD_ALLOW"
	EventGuardDeny       = "GUARD_DENY"
	EventSessionReadErr  = "SESSION_READ_ERR"
	EventSessionWriteErr = "SESSION_WRITE_ERR"
	EventNotifyErr       = "NOTIFY_ERR"
	EventValkeyConnErr   = "VALKEY_CONN_ERR"
)

// WithTraceID はトレースIDのslog.Attrを返す。
func WithTraceID(traceID string) slog.Attr {
	return slog.String(FieldTraceID, traceID)
}

// WithEventID はイベントIDのslog.Attrを返す。
func WithEventID(eventID string) slog.Attr {
	return slog.String(FieldEventID, eventID)
}

// WithError はエラーのslog.Attrを返す。
func WithError(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}

// WithSrcIP はソースIPアドレスのslog.Attrを返す。
func WithSrcIP(ip string) slog.Attr {
	return slog.String(FieldSrcIP, ip)
}

// WithLatency はレイテンシ（ミリ秒）のslog.Attrを返す。
func WithLatency(ms int64) slog.Attr {
	return slog.Int64(FieldLatencyMs, ms)
}

// WithHTTPStatus はHTTPステータスコードのslog.Attrを返す。
func WithHTTPStatus(status int) slog.Attr {
	return slog.Int(FieldHTTPStatus, status)
}

// WithOrigin はストレージオリジンのslog.Attrを返す。
func WithOrigin(origin string) slog.Attr {
	return slog.String(FieldOrigin, origin)
}

// WithRole はロールのslog.Attrを返す。
func WithRole(role string) slog.Attr {
	return slog.String(FieldRole, role)
}

// WithPath は遷移先パスのslog.Attrを返す。
func WithPath(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// WithReason は判定理由のslog.Attrを返す。
func WithReason(reason string) slog.Attr {
	return slog.String(FieldReason, reason)
}

// CommonFields はマスキング設定を保持するログフィールド生成器。
type CommonFields struct {
	masker *Masker
}

// NewCommonFields は新しいCommonFieldsを生成する。
func NewCommonFields(masker *Masker) *CommonFields {
	if masker == nil {
		masker = NewMasker(false)
	}
	return &CommonFields{masker: masker}
}

// WithUsername はマスキングされたユーザー名のslog.Attrを返す。
func (cf *CommonFields) WithUsername(username string) slog.Attr {
	return slog.String(FieldUsername, cf.masker.Username(username))
}

// Masker は内部のMaskerを返す。
func (cf *CommonFields) Masker() *Masker {
	return cf.masker
}

// LoginLogFields はログイン系ログ用の共通フィールドを返す。
func (cf *CommonFields) LoginLogFields(eventID, origin, username, role string) []any {
	return []any{
		WithEventID(eventID),
		WithOrigin(origin),
		cf.WithUsername(username),
		WithRole(role),
	}
}
