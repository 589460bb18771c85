package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oyaguma3/hr-portal/apps/portal-server/internal/config"
	"github.com/oyaguma3/hr-portal/apps/portal-server/internal/handler"
	"github.com/oyaguma3/hr-portal/pkg/httputil"
	"github.com/oyaguma3/hr-portal/pkg/logging"
)

const traceIDHeader = "X-Trace-ID"

// TraceIDMiddleware はX-Trace-IDヘッダからトレースIDを取得する。
// ヘッダがない場合はUUIDを採番する。
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(handler.TraceIDKey, traceID)
		c.Header(traceIDHeader, traceID)
		c.Request = c.Request.WithContext(logging.ContextWithTraceID(c.Request.Context(), traceID))
		c.Next()
	}
}

// OriginCookie はオリジンCookieの属性。
type OriginCookie struct {
	Secure bool
}

// OriginMiddleware はブラウザのストレージオリジンを識別する。
// Cookieがない、または不正な値の場合は新しいオリジンを発行する。
func OriginMiddleware(cookie OriginCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin, err := c.Cookie(config.OriginCookieName)
		if err != nil || uuid.Validate(origin) != nil {
			origin = uuid.NewString()
			c.SetCookie(config.OriginCookieName, origin, config.OriginCookieMaxAge, "/", "", cookie.Secure, true)
		}
		c.Set(handler.OriginKey, origin)
		c.Request = c.Request.WithContext(logging.ContextWithOrigin(c.Request.Context(), origin))
		c.Next()
	}
}

// LoggingMiddleware はリクエストログを出力する。
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)

		slog.Info("request completed",
			logging.WithTraceID(c.GetString(handler.TraceIDKey)),
			logging.WithOrigin(c.GetString(handler.OriginKey)),
			"method", c.Request.Method,
			logging.WithPath(c.Request.URL.Path),
			logging.WithHTTPStatus(c.Writer.Status()),
			logging.WithLatency(latency.Milliseconds()),
			logging.WithSrcIP(c.ClientIP()),
		)
	}
}

// RecoveryMiddleware はパニックからの復旧を行う。
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic recovered",
					logging.WithTraceID(c.GetString(handler.TraceIDKey)),
					"error", err,
				)
				httputil.AbortWithError(c, httputil.InternalServerError("An unexpected error occurred"))
			}
		}()
		c.Next()
	}
}
