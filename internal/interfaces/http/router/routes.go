// Package router 提供 HTTP 路由配置
package router

import (
	"vision-narrator-api/internal/interfaces/http/handler"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes 注册 /api 路由
func RegisterAPIRoutes(
	api *gin.RouterGroup,
	generationHandler *handler.GenerationHandler,
	ttsHandler *handler.TTSHandler,
) {
	api.POST("/generate", generationHandler.Generate)
	api.POST("/automated", generationHandler.Automated)
	api.POST("/tts", ttsHandler.Synthesize)
}
