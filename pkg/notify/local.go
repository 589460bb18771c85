package notify

import (
	"context"
	"sync"
)

// LocalBus は同一コンテキスト内のオブザーバーリスト。
type LocalBus struct {
	source string

	mu        sync.RWMutex
	nextID    uint64
	listeners map[uint64]Listener
}

// NewLocalBus は新しいLocalBusを生成する。sourceは発行元コンテキストID。
func NewLocalBus(source string) *LocalBus {
	return &LocalBus{
		source:    source,
		listeners: make(map[uint64]Listener),
	}
}

// Source は発行元コンテキストIDを返す。
func (b *LocalBus) Source() string {
	return b.source
}

// Emit は登録済みリスナーへ同期的に配送する。失敗しない。
func (b *LocalBus) Emit(ctx context.Context) error {
	b.dispatch(ctx, Event{Type: EventSessionChanged, Source: b.source})
	return nil
}

// Subscribe はリスナーを登録する。
func (b *LocalBus) Subscribe(l Listener) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = l
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Len は登録中のリスナー数を返す。
func (b *LocalBus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// dispatch はロック外でリスナーを呼び出す。
// リスナー内からSubscribe/unsubscribeしてもデッドロックしない。
func (b *LocalBus) dispatch(ctx context.Context, ev Event) {
	b.mu.RLock()
	snapshot := make([]Listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		snapshot = append(snapshot, l)
	}
	b.mu.RUnlock()

	for _, l := range snapshot {
		l(ctx, ev)
	}
}
