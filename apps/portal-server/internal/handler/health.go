package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oyaguma3/hr-portal/pkg/httputil"
	"github.com/oyaguma3/hr-portal/pkg/logging"
)

// HandleHealth はGET /health のハンドラー。
func (h *Handler) HandleHealth(c *gin.Context) {
	if err := h.client.Ping(c.Request.Context()).Err(); err != nil {
		slog.Warn("health check failed",
			logging.WithEventID(logging.EventValkeyConnErr),
			logging.WithError(err),
		)
		httputil.WriteError(c, httputil.ServiceUnavailable("session store unavailable"))
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
