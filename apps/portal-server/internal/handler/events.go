package handler

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oyaguma3/hr-portal/pkg/httputil"
	"github.com/oyaguma3/hr-portal/pkg/logging"
	"github.com/oyaguma3/hr-portal/pkg/notify"
)

// SSEイベント名
const (
	sseEventReady     = "ready"
	sseEventKeepAlive = "keepalive"
)

// HandleEvents はGET /api/v1/events のハンドラー。
// オリジン内のセッション変更をServer-Sent Eventsで配信する。
// 購読確立後に"ready"を送り、以降は変更ごとに"session_changed"を送る。
func (h *Handler) HandleEvents(c *gin.Context) {
	ctx, origin, traceID := requestScope(c)

	source := uuid.NewString()
	bus := notify.NewValkeyBus(h.client, origin, source)
	if err := bus.Listen(ctx); err != nil {
		slog.Warn("failed to subscribe session events",
			logging.WithTraceID(traceID),
			logging.WithEventID(logging.EventNotifyErr),
			logging.WithError(err),
		)
		httputil.WriteError(c, httputil.ServiceUnavailable("session events unavailable"))
		return
	}
	defer func() { _ = bus.Close() }()

	events := make(chan notify.Event, 16)
	unsubscribe := bus.Subscribe(func(_ context.Context, ev notify.Event) {
		select {
		case events <- ev:
		default:
			// 受信側が遅い場合は破棄する。次のイベントで再取得される
		}
	})
	defer unsubscribe()

	ticker := time.NewTicker(h.opts.KeepAlive)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent(sseEventReady, gin.H{"source": source})
	c.Writer.Flush()

	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev := <-events:
			c.SSEvent(string(ev.Type), ev)
			return true
		case <-ticker.C:
			c.SSEvent(sseEventKeepAlive, gin.H{})
			return true
		}
	})
}
