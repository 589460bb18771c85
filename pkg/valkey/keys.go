package valkey

import "github.com/oyaguma3/hr-portal/pkg/model"

// Valkeyキープレフィックス
const (
	KeyPrefixPortal = "portal:" // ポータル共通プレフィックス
	SuffixEvents    = ":events" // セッション変更通知チャネル
)

// RoleKey はオリジンごとのセッションスロットキーを返す。
// 形式: portal:{origin}:role
func RoleKey(origin string) string {
	return KeyPrefixPortal + origin + ":" + model.SessionSlot
}

// EventsChannel はオリジンごとのセッション変更通知チャネル名を返す。
// 形式: portal:{origin}:events
func EventsChannel(origin string) string {
	return KeyPrefixPortal + origin + SuffixEvents
}
