package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// StatusType はステータスメッセージの種類を表す。
type StatusType int

const (
	// StatusInfo は情報メッセージ
	StatusInfo StatusType = iota
	// StatusSuccess は成功メッセージ
	StatusSuccess
	// StatusWarning は警告メッセージ
	StatusWarning
	// StatusError はエラーメッセージ
	StatusError
)

// StatusBar は画面下部にセッション状態とメッセージを表示する。
type StatusBar struct {
	view        *tview.TextView
	app         *tview.Application
	clearTimer  *time.Timer
	duration    time.Duration
	origin      string
	session     string
	defaultText string
}

// NewStatusBar は新しいStatusBarを生成する。
func NewStatusBar() *StatusBar {
	view := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	view.SetBackgroundColor(ColorPrimaryDark)
	view.SetTextColor(ColorText)

	s := &StatusBar{
		view:     view,
		duration: 5 * time.Second,
		session:  "not signed in",
	}
	s.rebuild()
	return s
}

// SetApp はtview.Applicationへの参照を設定する。
func (s *StatusBar) SetApp(app *tview.Application) {
	s.app = app
	s.ShowDefault()
}

// SetDuration はメッセージの表示時間を設定する。
func (s *StatusBar) SetDuration(d time.Duration) {
	s.duration = d
}

// SetOrigin は接続中のオリジンを設定する。
func (s *StatusBar) SetOrigin(origin string) {
	s.origin = origin
	s.rebuild()
}

// SetSession はセッション状態の表示を更新する。
func (s *StatusBar) SetSession(authenticated bool, role string) {
	if authenticated {
		s.session = "role: " + StyleBold(tview.Escape(role))
	} else {
		s.session = "not signed in"
	}
	s.rebuild()
	s.ShowDefault()
}

func (s *StatusBar) rebuild() {
	s.defaultText = fmt.Sprintf(" %s %s | %s", tview.Escape("["+s.origin+"]"), s.session, FormatKeyBindingHint(GetGlobalKeyBindings()))
}

// ShowDefault はデフォルトのステータスメッセージを表示する。
func (s *StatusBar) ShowDefault() {
	s.view.SetText(s.defaultText)
}

// Text は表示中の文字列を色タグを除いて返す。
func (s *StatusBar) Text() string {
	return s.view.GetText(true)
}

// Show はステータスメッセージを表示する。
func (s *StatusBar) Show(statusType StatusType, message string) {
	// 既存のタイマーをキャンセル
	if s.clearTimer != nil {
		s.clearTimer.Stop()
	}

	message = tview.Escape(message)
	var coloredMessage string
	switch statusType {
	case StatusSuccess:
		coloredMessage = "[green::b] ✓ " + message + " [-::-]"
	case StatusWarning:
		coloredMessage = "[yellow::b] ⚠ " + message + " [-::-]"
	case StatusError:
		coloredMessage = "[red::b] ✗ " + message + " [-::-]"
	default:
		coloredMessage = "[teal] ℹ " + message + " [-]"
	}

	s.view.SetText(coloredMessage)

	if s.duration > 0 {
		s.clearTimer = time.AfterFunc(s.duration, func() {
			if s.app != nil {
				s.app.QueueUpdateDraw(s.ShowDefault)
			}
		})
	}
}

// ShowInfo は情報メッセージを表示する。
func (s *StatusBar) ShowInfo(message string) {
	s.Show(StatusInfo, message)
}

// ShowSuccess は成功メッセージを表示する。
func (s *StatusBar) ShowSuccess(message string) {
	s.Show(StatusSuccess, message)
}

// ShowWarning は警告メッセージを表示する。
func (s *StatusBar) ShowWarning(message string) {
	s.Show(StatusWarning, message)
}

// ShowError はエラーメッセージを表示する。
func (s *StatusBar) ShowError(message string) {
	s.Show(StatusError, message)
}
