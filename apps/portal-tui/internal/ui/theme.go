package ui

import "github.com/gdamore/tcell/v2"

// 色定義
var (
	ColorPrimary     = tcell.ColorBlue
	ColorPrimaryDark = tcell.ColorDarkBlue

	ColorSuccess = tcell.ColorGreen
	ColorWarning = tcell.ColorYellow
	ColorError   = tcell.ColorRed

	ColorText      = tcell.ColorWhite
	ColorTextMuted = tcell.ColorGray

	ColorBorder      = tcell.ColorWhite
	ColorBorderFocus = tcell.ColorBlue
)

// viewColors はビューごとの枠線色。
var viewColors = map[string]tcell.Color{
	"home":     tcell.ColorTeal,
	"employee": tcell.ColorGreen,
	"hr":       tcell.ColorFuchsia,
}

// ViewColor はビュー名に対応する枠線色を返す。
func ViewColor(view string) tcell.Color {
	if c, ok := viewColors[view]; ok {
		return c
	}
	return ColorBorder
}

// StyleBold は太字スタイルを適用した文字列を返す。
func StyleBold(text string) string {
	return "[::b]" + text + "[::-]"
}

// StyleDim は薄い色のスタイルを適用した文字列を返す。
func StyleDim(text string) string {
	return "[::d]" + text + "[::-]"
}

// StyleHighlight はハイライトスタイルを適用した文字列を返す。
func StyleHighlight(text string) string {
	return "[yellow::b]" + text + "[-::-]"
}
