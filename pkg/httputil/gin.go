package httputil

import (
	"github.com/gin-gonic/gin"
	"github.com/oyaguma3/hr-portal/pkg/logging"
)

// WriteError はリクエスト情報を補ったProblemDetailを書き込む。
// セッション状態に依存する応答のためキャッシュさせない。
func WriteError(c *gin.Context, problem *ProblemDetail) {
	writeHeaders(c)
	c.JSON(problem.Status, forRequest(c, problem))
}

// AbortWithError はWriteErrorと同じ応答を書き込み、後続のハンドラーを中断する。
func AbortWithError(c *gin.Context, problem *ProblemDetail) {
	writeHeaders(c)
	c.AbortWithStatusJSON(problem.Status, forRequest(c, problem))
}

func writeHeaders(c *gin.Context) {
	c.Header("Content-Type", ContentType)
	c.Header("Cache-Control", "no-store")
}

// forRequest は呼び出し元の値を書き換えないようコピーに設定する。
func forRequest(c *gin.Context, problem *ProblemDetail) *ProblemDetail {
	p := *problem
	if c.Request == nil {
		return &p
	}
	if p.Instance == "" {
		p.Instance = c.Request.URL.Path
	}
	if p.TraceID == "" {
		p.TraceID = logging.TraceIDFromContext(c.Request.Context())
	}
	return &p
}
