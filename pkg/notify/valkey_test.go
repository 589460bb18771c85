package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/oyaguma3/hr-portal/pkg/apperr"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

func setupValkey(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func collect(bus Bus) <-chan Event {
	ch := make(chan Event, 16)
	bus.Subscribe(func(_ context.Context, ev Event) { ch <- ev })
	return ch
}

func TestValkeyBus_EmitDeliversLocallyOnce(t *testing.T) {
	_, client := setupValkey(t)
	ctx := context.Background()

	bus := NewValkeyBus(client, "origin-1", "tab-a")
	require.NoError(t, bus.Listen(ctx))
	t.Cleanup(func() { _ = bus.Close() })
	events := collect(bus)

	require.NoError(t, bus.Emit(ctx))

	select {
	case ev := <-events:
		assert.Equal(t, EventSessionChanged, ev.Type)
		assert.Equal(t, "tab-a", ev.Source)
	default:
		t.Fatal("local listener was not called synchronously")
	}

	// Pub/Sub経由で自身の発行分が再配送されないこと
	select {
	case ev := <-events:
		t.Fatalf("unexpected second delivery: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestValkeyBus_CrossContextDelivery(t *testing.T) {
	_, client := setupValkey(t)
	ctx := context.Background()

	tabA := NewValkeyBus(client, "origin-1", "tab-a")
	tabB := NewValkeyBus(client, "origin-1", "tab-b")
	require.NoError(t, tabB.Listen(ctx))
	t.Cleanup(func() { _ = tabB.Close() })
	events := collect(tabB)

	require.NoError(t, tabA.Emit(ctx))

	select {
	case ev := <-events:
		assert.Equal(t, EventSessionChanged, ev.Type)
		assert.Equal(t, "tab-a", ev.Source)
	case <-time.After(waitTimeout):
		t.Fatal("tab-b did not receive the event")
	}
}

func TestValkeyBus_OriginIsolation(t *testing.T) {
	_, client := setupValkey(t)
	ctx := context.Background()

	other := NewValkeyBus(client, "origin-2", "tab-x")
	require.NoError(t, other.Listen(ctx))
	t.Cleanup(func() { _ = other.Close() })
	events := collect(other)

	require.NoError(t, NewValkeyBus(client, "origin-1", "tab-a").Emit(ctx))

	select {
	case ev := <-events:
		t.Fatalf("event leaked to another origin: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestValkeyBus_IgnoresMalformedMessages(t *testing.T) {
	mr, client := setupValkey(t)
	ctx := context.Background()

	bus := NewValkeyBus(client, "origin-1", "tab-a")
	require.NoError(t, bus.Listen(ctx))
	t.Cleanup(func() { _ = bus.Close() })
	events := collect(bus)

	mr.Publish("portal:origin-1:events", "not-json")
	mr.Publish("portal:origin-1:events", `{"type":"other","source":"tab-b"}`)
	mr.Publish("portal:origin-1:events", `{"type":"session_changed","source":"tab-b"}`)

	select {
	case ev := <-events:
		assert.Equal(t, "tab-b", ev.Source)
	case <-time.After(waitTimeout):
		t.Fatal("valid event was not delivered")
	}
	select {
	case ev := <-events:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestValkeyBus_ListenTwice(t *testing.T) {
	_, client := setupValkey(t)
	ctx := context.Background()

	bus := NewValkeyBus(client, "origin-1", "tab-a")
	require.NoError(t, bus.Listen(ctx))
	t.Cleanup(func() { _ = bus.Close() })

	assert.ErrorIs(t, bus.Listen(ctx), ErrAlreadyListening)
}

func TestValkeyBus_CloseStopsDelivery(t *testing.T) {
	_, client := setupValkey(t)
	ctx := context.Background()

	tabB := NewValkeyBus(client, "origin-1", "tab-b")
	require.NoError(t, tabB.Listen(ctx))
	events := collect(tabB)
	require.NoError(t, tabB.Close())
	require.NoError(t, tabB.Close())

	require.NoError(t, NewValkeyBus(client, "origin-1", "tab-a").Emit(ctx))
	select {
	case ev := <-events:
		t.Fatalf("event delivered after Close: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestValkeyBus_ContextCancelStopsLoop(t *testing.T) {
	_, client := setupValkey(t)
	ctx, cancel := context.WithCancel(context.Background())

	bus := NewValkeyBus(client, "origin-1", "tab-b")
	require.NoError(t, bus.Listen(ctx))
	cancel()

	// ctxキャンセル後のCloseもエラーにならない
	require.Eventually(t, func() bool { return bus.Close() == nil }, waitTimeout, 10*time.Millisecond)
}

func TestValkeyBus_ListenAgainAfterCancel(t *testing.T) {
	_, client := setupValkey(t)
	ctx, cancel := context.WithCancel(context.Background())

	tabB := NewValkeyBus(client, "origin-1", "tab-b")
	require.NoError(t, tabB.Listen(ctx))
	cancel()

	require.Eventually(t, func() bool {
		return tabB.Listen(context.Background()) == nil
	}, waitTimeout, 10*time.Millisecond)
	t.Cleanup(func() { _ = tabB.Close() })

	events := collect(tabB)
	require.NoError(t, NewValkeyBus(client, "origin-1", "tab-a").Emit(context.Background()))
	select {
	case ev := <-events:
		assert.Equal(t, "tab-a", ev.Source)
	case <-time.After(waitTimeout):
		t.Fatal("no event after listening again")
	}
}

func TestValkeyBus_PublishFailure(t *testing.T) {
	mr, client := setupValkey(t)
	ctx := context.Background()

	bus := NewValkeyBus(client, "origin-1", "tab-a")
	events := collect(bus)
	mr.Close()

	err := bus.Emit(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValkeyUnavailable))

	// ローカル配送は完了している
	select {
	case <-events:
	default:
		t.Fatal("local listener was not called before publish failure")
	}
}

func TestValkeyBus_ListenFailure(t *testing.T) {
	mr, client := setupValkey(t)
	mr.Close()

	bus := NewValkeyBus(client, "origin-1", "tab-a")
	err := bus.Listen(context.Background())
	assert.ErrorIs(t, err, apperr.ErrValkeyUnavailable)
	assert.NoError(t, bus.Close())
}
