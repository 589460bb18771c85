// Package handler はHTTPリクエストハンドラーを提供する。
package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oyaguma3/hr-portal/pkg/audit"
	"github.com/oyaguma3/hr-portal/pkg/guard"
	"github.com/oyaguma3/hr-portal/pkg/logging"
	"github.com/oyaguma3/hr-portal/pkg/notify"
	"github.com/oyaguma3/hr-portal/pkg/portal"
	"github.com/oyaguma3/hr-portal/pkg/routes"
	"github.com/oyaguma3/hr-portal/pkg/session"
	"github.com/redis/go-redis/v9"
)

// コンテキストキー
const (
	TraceIDKey = "trace_id"
	OriginKey  = "origin"
)

// Options はハンドラーの動作設定。
type Options struct {
	SessionTTL       time.Duration
	EmptyRequirement guard.EmptyRequirementPolicy
	MaskUsername     bool
	KeepAlive        time.Duration
}

// Handler はポータルのHTTPハンドラー。
// セッションストアと通知バスはリクエストのオリジンごとに組み立てる。
type Handler struct {
	client  *redis.Client
	table   *routes.Table
	auditor *audit.Logger
	masker  *logging.Masker
	opts    Options
}

// New は新しいHandlerを生成する。
func New(client *redis.Client, table *routes.Table, auditor *audit.Logger, opts Options) *Handler {
	if table == nil {
		table = routes.Default()
	}
	if opts.KeepAlive <= 0 {
		opts.KeepAlive = 15 * time.Second
	}
	return &Handler{
		client:  client,
		table:   table,
		auditor: auditor,
		masker:  logging.NewMasker(opts.MaskUsername),
		opts:    opts,
	}
}

// Table はルート定義を返す。
func (h *Handler) Table() *routes.Table {
	return h.table
}

func (h *Handler) repository(origin string) session.Repository {
	return session.NewValkeyRepository(h.client, origin, session.WithTTL(h.opts.SessionTTL))
}

func (h *Handler) guard(origin string) *guard.Guard {
	opts := []guard.Option{guard.WithEmptyRequirementPolicy(h.opts.EmptyRequirement)}
	if h.auditor != nil {
		opts = append(opts, guard.WithAuditor(h.auditor))
	}
	return guard.New(session.NewQuery(h.repository(origin)), opts...)
}

// service はリクエスト単位のServiceを返す。sourceは通知の発行元ID。
func (h *Handler) service(origin, source string) *portal.Service {
	bus := notify.NewValkeyBus(h.client, origin, source)
	opts := []portal.Option{portal.WithMasker(h.masker)}
	if h.auditor != nil {
		opts = append(opts, portal.WithAuditor(h.auditor))
	}
	return portal.NewService(h.repository(origin), bus, h.table, opts...)
}

// requestScope はリクエストのコンテキストとオリジン、トレースIDを返す。
func requestScope(c *gin.Context) (context.Context, string, string) {
	return c.Request.Context(), c.GetString(OriginKey), c.GetString(TraceIDKey)
}
