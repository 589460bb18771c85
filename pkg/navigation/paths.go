// Package navigation はビュー遷移の抽象と実装を提供する。
package navigation

// ビューのパス。値は不透明な文字列として扱う。
const (
	PathRoot     = "/"
	PathLogin    = "/login"
	PathHome     = "/home"
	PathEmployee = "/employee"
	PathHR       = "/hr"
)

// Navigator はビュー遷移を行う。
// replaceがtrueの場合、現在の履歴エントリを置き換える（戻る操作で元のビューに戻れない）。
type Navigator interface {
	Navigate(path string, replace bool)
}
