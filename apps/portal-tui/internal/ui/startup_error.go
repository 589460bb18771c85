package ui

import (
	"github.com/rivo/tview"
)

// StartupErrorScreen は起動エラー画面を表す。
type StartupErrorScreen struct {
	modal *tview.Modal
}

// NewStartupErrorScreen は新しいStartupErrorScreenを生成する。
func NewStartupErrorScreen(addr, errorMessage string, onRetry, onExit func()) *StartupErrorScreen {
	modal := tview.NewModal().
		SetText("Failed to connect to Valkey at " + addr + ":\n\n" + errorMessage +
			"\n\nPlease check:\n- Valkey is running\n- REDIS_HOST / REDIS_PORT / REDIS_PASS are set correctly").
		AddButtons([]string{"Retry", "Exit"}).
		SetDoneFunc(func(_ int, buttonLabel string) {
			if buttonLabel == "Retry" {
				if onRetry != nil {
					onRetry()
				}
				return
			}
			if onExit != nil {
				onExit()
			}
		})

	modal.SetTitle(" Connection Error ").
		SetBorder(true).
		SetBorderColor(ColorError)

	return &StartupErrorScreen{modal: modal}
}

// GetModal は内部のtview.Modalを返す。
func (s *StartupErrorScreen) GetModal() *tview.Modal {
	return s.modal
}
