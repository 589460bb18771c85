package ui

import "github.com/gdamore/tcell/v2"

// キーバインド定義
var (
	KeyBack    = tcell.KeyEsc
	KeyLogout  = tcell.KeyCtrlL
	KeyRefresh = tcell.KeyF5
	KeyQuit    = tcell.KeyCtrlQ
	KeyTab     = tcell.KeyTab
	KeyEnter   = tcell.KeyEnter
)

// KeyBinding はキーバインドの情報を表す。
type KeyBinding struct {
	Key         tcell.Key
	Rune        rune
	Description string
}

// GetGlobalKeyBindings はグローバルキーバインドのリストを返す。
func GetGlobalKeyBindings() []KeyBinding {
	return []KeyBinding{
		{KeyBack, 0, "Back"},
		{KeyRefresh, 0, "Refresh"},
		{KeyLogout, 0, "Logout"},
		{KeyQuit, 0, "Quit"},
	}
}

// GetFormKeyBindings はログインフォームのキーバインドのリストを返す。
func GetFormKeyBindings() []KeyBinding {
	return []KeyBinding{
		{KeyTab, 0, "Next field"},
		{KeyEnter, 0, "Submit/Select"},
	}
}

// FormatKeyBindingHint はキーバインドのヒント文字列を生成する。
func FormatKeyBindingHint(bindings []KeyBinding) string {
	hints := ""
	for i, b := range bindings {
		if i > 0 {
			hints += " | "
		}
		if b.Key != 0 {
			hints += keyToString(b.Key) + ":" + b.Description
		} else {
			hints += string(b.Rune) + ":" + b.Description
		}
	}
	return hints
}

// keyToString はキーコードを文字列に変換する。
func keyToString(key tcell.Key) string {
	switch key {
	case tcell.KeyF5:
		return "F5"
	case tcell.KeyTab:
		return "Tab"
	case tcell.KeyEnter:
		return "Enter"
	case tcell.KeyEsc:
		return "Esc"
	case tcell.KeyCtrlL:
		return "Ctrl+L"
	case tcell.KeyCtrlQ:
		return "Ctrl+Q"
	default:
		return "?"
	}
}
