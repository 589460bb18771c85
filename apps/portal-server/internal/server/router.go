package server

import (
	"github.com/gin-gonic/gin"
	"github.com/oyaguma3/hr-portal/apps/portal-server/internal/handler"
	"github.com/oyaguma3/hr-portal/pkg/httputil"
	"github.com/oyaguma3/hr-portal/pkg/routes"
)

// SetupRouter はルーティングを設定する。
func SetupRouter(engine *gin.Engine, h *handler.Handler) {
	// ヘルスチェック
	engine.GET(routes.PathHealth, h.HandleHealth)

	// ビュー（ルート定義から生成）
	for _, route := range h.Table().Routes {
		engine.GET(route.Path, h.View(route))
	}

	// API v1
	v1 := engine.Group(routes.PathAPI + "/v1")
	{
		v1.POST("/login", h.HandleLogin)
		v1.POST("/logout", h.HandleLogout)
		v1.GET("/session", h.HandleSession)
		v1.GET("/events", h.HandleEvents)
	}

	engine.NoRoute(func(c *gin.Context) {
		httputil.WriteError(c, httputil.NotFound("no view at "+c.Request.URL.Path))
	})
}
