package navigation

import "sync"

// History は1コンテキスト分の履歴スタック。
type History struct {
	mu      sync.Mutex
	entries []string
	onMove  func(path string)
}

// NewHistory は初期パスを持つHistoryを生成する。
func NewHistory(initial string) *History {
	return &History{entries: []string{initial}}
}

// OnMove は現在パスが変わるたびに呼ばれる関数を設定する。
func (h *History) OnMove(fn func(path string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMove = fn
}

// Navigate はpathへ遷移する。
func (h *History) Navigate(path string, replace bool) {
	h.mu.Lock()
	if replace && len(h.entries) > 0 {
		h.entries[len(h.entries)-1] = path
	} else {
		h.entries = append(h.entries, path)
	}
	fn := h.onMove
	h.mu.Unlock()

	if fn != nil {
		fn(path)
	}
}

// Current は現在のパスを返す。
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

// Back は1つ前のエントリへ戻り、そのパスを返す。
// 戻れない場合は現在のパスとfalseを返す。
func (h *History) Back() (string, bool) {
	h.mu.Lock()
	if len(h.entries) < 2 {
		cur := ""
		if len(h.entries) == 1 {
			cur = h.entries[0]
		}
		h.mu.Unlock()
		return cur, false
	}
	h.entries = h.entries[:len(h.entries)-1]
	path := h.entries[len(h.entries)-1]
	fn := h.onMove
	h.mu.Unlock()

	if fn != nil {
		fn(path)
	}
	return path, true
}

// Entries は履歴のコピーを古い順に返す。
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
