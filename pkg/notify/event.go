// Package notify はセッション変更の通知バスを提供する。
//
// 同一コンテキスト内の通知はLocalBusで同期的に配送し、
// 同一オリジンの他コンテキストへの通知はValkeyBusがPub/Subで中継する。
package notify

import "context"

// EventType は通知イベントの種別。
type EventType string

// EventSessionChanged はセッションスロットが書き換えられたことを示す。
// イベント自体はセッション内容を持たないため、受信側はストアを読み直す。
const EventSessionChanged EventType = "session_changed"

// Event は通知イベント。
type Event struct {
	Type   EventType `json:"type"`
	Source string    `json:"source"` // 発行元コンテキストID
}

// Listener はイベント受信時に呼ばれる関数。
type Listener func(ctx context.Context, ev Event)

// Bus はセッション変更通知の発行・購読を定義する。
type Bus interface {
	// Emit はEventSessionChangedを発行する。
	Emit(ctx context.Context) error
	// Subscribe はリスナーを登録し、登録解除関数を返す。
	// 登録解除関数は複数回呼んでも安全。
	Subscribe(l Listener) (unsubscribe func())
}
