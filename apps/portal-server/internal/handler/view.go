package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oyaguma3/hr-portal/pkg/navigation"
	"github.com/oyaguma3/hr-portal/pkg/routes"
	"github.com/oyaguma3/hr-portal/pkg/session"
)

// View はルート定義からビューのハンドラーを生成する。
func (h *Handler) View(route routes.Route) gin.HandlerFunc {
	switch {
	case route.Redirect != "":
		return func(c *gin.Context) {
			c.Redirect(http.StatusFound, route.Redirect)
		}
	case route.Protected:
		return func(c *gin.Context) { h.serveProtected(c, route) }
	default:
		return func(c *gin.Context) { h.servePublic(c, route) }
	}
}

// serveProtected はガードを通してビューを返す。
// 拒否時は303でログインビューへリダイレクトし、ブラウザの履歴に拒否されたビューを残さない。
func (h *Handler) serveProtected(c *gin.Context, route routes.Route) {
	ctx, origin, _ := requestScope(c)

	var rec navigation.Recorder
	d := h.guard(origin).Enforce(ctx, &rec, route.Path, route.Requirement())
	if !d.Allowed() {
		c.Redirect(http.StatusSeeOther, rec.Path)
		return
	}

	role := d.Role.String()
	c.JSON(http.StatusOK, ViewResponse{
		View:          route.View,
		Path:          route.Path,
		Authenticated: true,
		Role:          &role,
	})
}

func (h *Handler) servePublic(c *gin.Context, route routes.Route) {
	ctx, origin, _ := requestScope(c)

	resp := ViewResponse{View: route.View, Path: route.Path}
	if role, ok := session.NewQuery(h.repository(origin)).UserRole(ctx); ok {
		r := role.String()
		resp.Authenticated = true
		resp.Role = &r
	}
	c.JSON(http.StatusOK, resp)
}
