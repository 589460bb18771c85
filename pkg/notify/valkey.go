package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/oyaguma3/hr-portal/pkg/apperr"
	"github.com/oyaguma3/hr-portal/pkg/logging"
	"github.com/oyaguma3/hr-portal/pkg/valkey"
	"github.com/redis/go-redis/v9"
)

// ErrAlreadyListening はListenが二重に呼ばれた場合のエラー
var ErrAlreadyListening = errors.New("notify: already listening")

// ValkeyBus はLocalBusにValkey Pub/Subによる他コンテキストへの中継を加えたBus。
// チャネル: portal:{origin}:events（JSON形式のEvent）
type ValkeyBus struct {
	local   *LocalBus
	client  *redis.Client
	channel string

	mu     sync.Mutex
	pubsub *redis.PubSub
	done   chan struct{}
}

// NewValkeyBus は新しいValkeyBusを生成する。
// sourceはこのコンテキストを識別するIDで、自身が発行したイベントの再配送防止に使う。
func NewValkeyBus(client *redis.Client, origin, source string) *ValkeyBus {
	return &ValkeyBus{
		local:   NewLocalBus(source),
		client:  client,
		channel: valkey.EventsChannel(origin),
	}
}

// Source は発行元コンテキストIDを返す。
func (b *ValkeyBus) Source() string {
	return b.local.Source()
}

// Emit はローカルリスナーへ同期配送した後、チャネルへPUBLISHする。
// PUBLISH失敗時もローカル配送は完了している。
func (b *ValkeyBus) Emit(ctx context.Context) error {
	ev := Event{Type: EventSessionChanged, Source: b.local.Source()}
	b.local.dispatch(ctx, ev)

	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return apperr.NewValkeyError("PUBLISH", b.channel, err)
	}
	return nil
}

// Subscribe はローカルリスナーを登録する。
func (b *ValkeyBus) Subscribe(l Listener) func() {
	return b.local.Subscribe(l)
}

// Listen はチャネルを購読し、他コンテキスト発のイベントをローカルリスナーへ配送する。
// 購読確立後に戻り、受信ループはctxのキャンセルまたはCloseまで継続する。
func (b *ValkeyBus) Listen(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pubsub != nil {
		return ErrAlreadyListening
	}

	ps := b.client.Subscribe(ctx, b.channel)
	// 最初の応答でSUBSCRIBEの完了を確認する
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return apperr.NewValkeyError("SUBSCRIBE", b.channel, err)
	}

	b.pubsub = ps
	b.done = make(chan struct{})
	go b.receiveLoop(ctx, ps, b.done)
	return nil
}

func (b *ValkeyBus) receiveLoop(ctx context.Context, ps *redis.PubSub, done chan struct{}) {
	defer close(done)
	// ctxのキャンセルで抜けた場合も再度Listenできるよう状態を戻す
	defer func() {
		b.mu.Lock()
		if b.pubsub == ps {
			b.pubsub, b.done = nil, nil
		}
		b.mu.Unlock()
	}()
	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			_ = ps.Close()
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.handleMessage(ctx, msg.Payload)
		}
	}
}

func (b *ValkeyBus) handleMessage(ctx context.Context, payload string) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		slog.Warn("invalid event message",
			logging.WithEventID(logging.EventNotifyErr),
			logging.WithError(err),
		)
		return
	}
	if ev.Type != EventSessionChanged {
		slog.Debug("unknown event type ignored", "type", string(ev.Type))
		return
	}
	// 自身の発行分はEmit時にローカル配送済み
	if ev.Source == b.local.Source() {
		return
	}
	b.local.dispatch(ctx, ev)
}

// Close は購読を終了し、受信ループの停止を待つ。Listen前に呼んでも安全。
func (b *ValkeyBus) Close() error {
	b.mu.Lock()
	ps, done := b.pubsub, b.done
	b.pubsub, b.done = nil, nil
	b.mu.Unlock()

	if ps == nil {
		return nil
	}
	err := ps.Close()
	<-done
	if errors.Is(err, redis.ErrClosed) {
		// ctxのキャンセルで既に閉じられている
		return nil
	}
	return err
}
