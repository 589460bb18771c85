package ui

import (
	"github.com/oyaguma3/hr-portal/pkg/model"
	"github.com/oyaguma3/hr-portal/pkg/portal"
	"github.com/rivo/tview"
)

// フォーム項目ラベル
const (
	labelUsername = "Username"
	labelPassword = "Password"
	labelRole     = "Role"
)

// LoginScreen はログインフォームを表す。
// ロールは定義済みの選択肢からのみ選べる。
type LoginScreen struct {
	form     *tview.Form
	roles    []model.Role
	onSubmit func(portal.Credentials)
	onQuit   func()
}

// NewLoginScreen は新しいLoginScreenを生成する。
func NewLoginScreen(roles []model.Role) *LoginScreen {
	s := &LoginScreen{
		form:  tview.NewForm(),
		roles: roles,
	}

	options := make([]string, len(roles))
	for i, r := range roles {
		options[i] = r.String()
	}

	s.form.AddInputField(labelUsername, "", 30, nil, nil)
	s.form.AddPasswordField(labelPassword, "", 30, '*', nil)
	s.form.AddDropDown(labelRole, options, 0, nil)
	s.form.AddButton("Login", s.handleSubmit)
	s.form.AddButton("Quit", func() {
		if s.onQuit != nil {
			s.onQuit()
		}
	})

	s.form.SetTitle(" HR Portal - Login ").
		SetTitleAlign(tview.AlignCenter).
		SetBorder(true).
		SetBorderColor(ColorBorderFocus)

	return s
}

// SetOnSubmit はログインボタン押下時のコールバックを設定する。
func (s *LoginScreen) SetOnSubmit(handler func(portal.Credentials)) {
	s.onSubmit = handler
}

// SetOnQuit は終了ボタン押下時のコールバックを設定する。
func (s *LoginScreen) SetOnQuit(handler func()) {
	s.onQuit = handler
}

// GetForm は内部のtview.Formを返す。
func (s *LoginScreen) GetForm() *tview.Form {
	return s.form
}

// Credentials はフォームの入力値を返す。
func (s *LoginScreen) Credentials() portal.Credentials {
	cred := portal.Credentials{
		Username: s.form.GetFormItemByLabel(labelUsername).(*tview.InputField).GetText(),
		Password: s.form.GetFormItemByLabel(labelPassword).(*tview.InputField).GetText(),
	}
	if idx, _ := s.form.GetFormItemByLabel(labelRole).(*tview.DropDown).GetCurrentOption(); idx >= 0 && idx < len(s.roles) {
		cred.Role = s.roles[idx]
	}
	return cred
}

// SetInput はフォームの入力値を設定する。
func (s *LoginScreen) SetInput(username, password string, roleIndex int) {
	s.form.GetFormItemByLabel(labelUsername).(*tview.InputField).SetText(username)
	s.form.GetFormItemByLabel(labelPassword).(*tview.InputField).SetText(password)
	s.form.GetFormItemByLabel(labelRole).(*tview.DropDown).SetCurrentOption(roleIndex)
}

// Reset はパスワード欄を消去し、先頭項目にフォーカスを戻す。
func (s *LoginScreen) Reset() {
	s.form.GetFormItemByLabel(labelPassword).(*tview.InputField).SetText("")
	s.form.SetFocus(0)
}

func (s *LoginScreen) handleSubmit() {
	if s.onSubmit != nil {
		s.onSubmit(s.Credentials())
	}
}
