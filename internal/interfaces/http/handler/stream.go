// Package handler 提供 HTTP 请求处理器
package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"vision-narrator-api/internal/application/relay"
	"vision-narrator-api/pkg/logger"
)

// streamSession 把已打开的生成流逐帧写给客户端
// 中途失败时直接结束响应，不追加错误帧。
func streamSession(c *gin.Context, sess *relay.Session) {
	defer sess.Close()

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	c.Stream(func(w io.Writer) bool {
		more, err := sess.Forward(w)
		if err != nil {
			logger.Warn(c.Request.Context(), "generation stream truncated",
				"chunks", sess.Chunks(),
				"error", err.Error(),
			)
			return false
		}
		return more
	})
}
