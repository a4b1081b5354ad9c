// Package middleware 提供 HTTP 中间件
package middleware

import (
	"strconv"
	"time"

	"vision-narrator-api/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// staticPathLabel 静态资源回退路由的统一标签，避免任意路径撑大标签基数
const staticPathLabel = "static"

// Metrics Prometheus 指标采集中间件
// SSE 响应的耗时覆盖整个流，响应大小为所有帧之和。
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		c.Next()

		// 路由匹配结果在处理后才确定（NoRoute 时为空）
		path := c.FullPath()
		if path == "" {
			path = staticPathLabel
		}

		if reqSize := float64(c.Request.ContentLength); reqSize > 0 {
			metrics.HTTPRequestSize.WithLabelValues(method, path).Observe(reqSize)
		}

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		if respSize := float64(c.Writer.Size()); respSize > 0 {
			metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(respSize)
		}
	}
}
