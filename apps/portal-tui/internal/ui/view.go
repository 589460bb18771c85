package ui

import (
	"fmt"
	"strings"

	"github.com/oyaguma3/hr-portal/apps/portal-tui/internal/tab"
	"github.com/oyaguma3/hr-portal/pkg/routes"
	"github.com/rivo/tview"
)

// ViewScreen はログイン画面以外のビューとメニューを表示する。
type ViewScreen struct {
	layout   *tview.Flex
	body     *tview.TextView
	menu     *tview.List
	routes   []routes.Route
	onOpen   func(path string)
	onLogout func()
}

// NewViewScreen は新しいViewScreenを生成する。
func NewViewScreen(views []routes.Route) *ViewScreen {
	s := &ViewScreen{
		body:   tview.NewTextView().SetDynamicColors(true),
		menu:   tview.NewList().ShowSecondaryText(true),
		routes: views,
	}

	s.body.SetBorder(true)
	s.menu.SetTitle(" Menu ").SetBorder(true)

	for i, r := range views {
		path := r.Path
		s.menu.AddItem(r.View, describeRoute(r), rune('1'+i), func() {
			if s.onOpen != nil {
				s.onOpen(path)
			}
		})
	}
	s.menu.AddItem("logout", "end the session in every tab", 'l', func() {
		if s.onLogout != nil {
			s.onLogout()
		}
	})

	s.layout = tview.NewFlex().
		AddItem(s.menu, 32, 0, true).
		AddItem(s.body, 0, 1, false)

	return s
}

// SetOnOpen はメニューからビューを選択したときのコールバックを設定する。
func (s *ViewScreen) SetOnOpen(handler func(path string)) {
	s.onOpen = handler
}

// SetOnLogout はログアウト選択時のコールバックを設定する。
func (s *ViewScreen) SetOnLogout(handler func()) {
	s.onLogout = handler
}

// GetLayout は画面全体のプリミティブを返す。
func (s *ViewScreen) GetLayout() *tview.Flex {
	return s.layout
}

// GetMenu はフォーカス対象のメニューを返す。
func (s *ViewScreen) GetMenu() *tview.List {
	return s.menu
}

// Render は画面状態を描画する。
func (s *ViewScreen) Render(v tab.View) {
	s.body.SetTitle(fmt.Sprintf(" %s (%s) ", tview.Escape(v.Name), tview.Escape(v.Path)))
	s.body.SetBorderColor(ViewColor(v.Name))

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", StyleHighlight(viewHeadline(v.Name)))
	if v.Authenticated {
		fmt.Fprintf(&b, "Signed in as %s\n", StyleBold(tview.Escape(v.Role.String())))
	} else {
		b.WriteString("Not signed in\n")
	}
	b.WriteString("\n" + StyleDim("Select a view from the menu. Protected views re-check the role on every visit."))
	s.body.SetText(b.String())

	for i, r := range s.routes {
		if r.Path == v.Path {
			s.menu.SetCurrentItem(i)
			break
		}
	}
}

// Body は本文を色タグを除いて返す。
func (s *ViewScreen) Body() string {
	return s.body.GetText(true)
}

func viewHeadline(view string) string {
	switch view {
	case "home":
		return "HR Portal"
	case "employee":
		return "Employee area"
	case "hr":
		return "HR area"
	default:
		return view
	}
}

func describeRoute(r routes.Route) string {
	if !r.Protected {
		return "public"
	}
	roles := r.Requirement().Normalize()
	if len(roles) == 0 {
		return "signed-in users"
	}
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = role.String()
	}
	return "roles: " + strings.Join(names, ", ")
}
