package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oyaguma3/hr-portal/pkg/apperr"
	"github.com/oyaguma3/hr-portal/pkg/httputil"
	"github.com/oyaguma3/hr-portal/pkg/logging"
	"github.com/oyaguma3/hr-portal/pkg/model"
	"github.com/oyaguma3/hr-portal/pkg/navigation"
	"github.com/oyaguma3/hr-portal/pkg/portal"
	"github.com/oyaguma3/hr-portal/pkg/session"
)

// HandleLogin はPOST /api/v1/login のハンドラー。
func (h *Handler) HandleLogin(c *gin.Context) {
	ctx, origin, traceID := requestScope(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("invalid request body",
			logging.WithTraceID(traceID),
			logging.WithEventID(logging.EventLoginInvalid),
			logging.WithError(fmt.Errorf("%w: %v", apperr.ErrInvalidRequest, err)),
		)
		httputil.WriteError(c, httputil.BadRequest("Invalid request body"))
		return
	}

	var rec navigation.Recorder
	err := h.service(origin, traceID).Login(ctx, &rec, portal.Credentials{
		Username: req.Username,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		writeActionError(c, err)
		return
	}

	c.JSON(http.StatusOK, RedirectResponse{Redirect: rec.Path, Replace: rec.Replace})
}

// HandleLogout はPOST /api/v1/logout のハンドラー。
func (h *Handler) HandleLogout(c *gin.Context) {
	ctx, origin, traceID := requestScope(c)

	var rec navigation.Recorder
	if err := h.service(origin, traceID).Logout(ctx, &rec); err != nil {
		writeActionError(c, err)
		return
	}

	c.JSON(http.StatusOK, RedirectResponse{Redirect: rec.Path, Replace: rec.Replace})
}

// HandleSession はGET /api/v1/session のハンドラー。
// 読み出し失敗時はセッションなしとして応答する。
func (h *Handler) HandleSession(c *gin.Context) {
	ctx, origin, _ := requestScope(c)

	var resp SessionResponse
	if sess, ok := session.NewQuery(h.repository(origin)).Session(ctx); ok {
		role := sess.Role.String()
		resp.Authenticated = true
		resp.Role = &role
		if sess.HasExpiry() {
			exp := sess.ExpiresAt.UTC()
			resp.ExpiresAt = &exp
		}
	}
	c.JSON(http.StatusOK, resp)
}

func writeActionError(c *gin.Context, err error) {
	if ve, ok := apperr.AsValidationError(err); ok {
		httputil.WriteError(c, httputil.FromValidationError(ve))
		return
	}
	if errors.Is(err, apperr.ErrValkeyUnavailable) {
		httputil.WriteError(c, httputil.ServiceUnavailable("session store unavailable"))
		return
	}
	httputil.WriteError(c, httputil.InternalServerError("An unexpected error occurred"))
}
