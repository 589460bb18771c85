// Package audit は監査ログ機能を提供する。
package audit

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/oyaguma3/hr-portal/pkg/logging"
)

// Operation は監査ログの操作種別を表す。
type Operation string

const (
	// OpLogin はログイン操作
	OpLogin Operation = "login"
	// OpLoginRejected は入力不備で拒否されたログイン操作
	OpLoginRejected Operation = "login_rejected"
	// OpLogout はログアウト操作
	OpLogout Operation = "logout"
	// OpDeny はガードによるアクセス拒否
	OpDeny Operation = "deny"
)

// Entry は監査ログエントリを表す。
type Entry struct {
	Time      string    `json:"time"`               // RFC3339形式のタイムスタンプ
	Level     string    `json:"level"`              // ログレベル（常に"INFO"）
	App       string    `json:"app"`                // アプリケーション名
	EventID   string    `json:"event_id"`           // イベントID（常に"AUDIT_LOG"）
	Msg       string    `json:"msg"`                // メッセージ
	Operation Operation `json:"operation"`          // 操作種別
	TraceID   string    `json:"trace_id,omitempty"` // トレースID
	Origin    string    `json:"origin,omitempty"`   // ストレージオリジン
	Username  string    `json:"username,omitempty"` // ユーザー名（マスキング設定に従う）
	Role      string    `json:"role,omitempty"`     // 対象ロール
	Path      string    `json:"path,omitempty"`     // 対象パス
	Reason    string    `json:"reason,omitempty"`   // 拒否理由
}

// Logger は監査ログを出力する。
type Logger struct {
	writer io.Writer
	app    string
	masker *logging.Masker
	mu     sync.Mutex
}

// NewLogger は標準出力へ書き込むLoggerを生成する。
func NewLogger(app string, masker *logging.Masker) *Logger {
	return NewLoggerWithWriter(os.Stdout, app, masker)
}

// NewLoggerWithWriter は指定されたWriterを使用するLoggerを生成する。
func NewLoggerWithWriter(writer io.Writer, app string, masker *logging.Masker) *Logger {
	if masker == nil {
		masker = logging.NewMasker(true)
	}
	return &Logger{
		writer: writer,
		app:    app,
		masker: masker,
	}
}

// Log は監査ログエントリを出力する。
// Time, Level, App, EventID, TraceID, Originは自動で埋める。
func (l *Logger) Log(ctx context.Context, entry Entry) {
	entry.Time = time.Now().UTC().Format(time.RFC3339)
	entry.Level = "INFO"
	entry.App = l.app
	entry.EventID = "AUDIT_LOG"
	entry.TraceID = logging.TraceIDFromContext(ctx)
	entry.Origin = logging.OriginFromContext(ctx)

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.writer.Write(append(data, '\n'))
}

// LogLogin はLOGIN操作のログを出力する。
func (l *Logger) LogLogin(ctx context.Context, username, role, landing string) {
	l.Log(ctx, Entry{
		Msg:       "login succeeded",
		Operation: OpLogin,
		Username:  l.masker.Username(username),
		Role:      role,
		Path:      landing,
	})
}

// LogLoginRejected は入力検証で拒否されたログインのログを出力する。
func (l *Logger) LogLoginRejected(ctx context.Context, username, field string) {
	l.Log(ctx, Entry{
		Msg:       "login rejected",
		Operation: OpLoginRejected,
		Username:  l.masker.Username(username),
		Reason:    "invalid_" + field,
	})
}

// LogLogout はLOGOUT操作のログを出力する。
func (l *Logger) LogLogout(ctx context.Context, role string) {
	l.Log(ctx, Entry{
		Msg:       "logout",
		Operation: OpLogout,
		Role:      role,
	})
}

// LogDeny はガード拒否のログを出力する。
// roleは拒否時点のロール（未認証なら空）、reasonは内部的な拒否理由。
func (l *Logger) LogDeny(ctx context.Context, path, role, reason string) {
	l.Log(ctx, Entry{
		Msg:       "access denied",
		Operation: OpDeny,
		Role:      role,
		Path:      path,
		Reason:    reason,
	})
}
