package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vision-narrator-api/internal/application/prompt"
	"vision-narrator-api/internal/application/relay"
	"vision-narrator-api/internal/domain/entity"
	"vision-narrator-api/internal/interfaces/http/dto"
)

// GenerationHandler 图像描述生成处理器
// 流开始前的失败以 200 + {"error": ...} 返回，与前端约定一致。
type GenerationHandler struct {
	composer *prompt.Composer
	relay    *relay.Relay
}

// NewGenerationHandler 创建生成处理器
func NewGenerationHandler(composer *prompt.Composer, r *relay.Relay) *GenerationHandler {
	return &GenerationHandler{
		composer: composer,
		relay:    r,
	}
}

// Generate 交互式生成
// @Summary 交互式图像描述
// @Tags Generation
// @Accept json
// @Produce text/event-stream
// @Router /api/generate [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusOK, err.Error())
		return
	}

	genReq, err := h.composer.Interactive(req.Contents, req.Model)
	if err != nil {
		dto.FailWithError(c, http.StatusOK, err)
		return
	}
	h.stream(c, relay.ModeInteractive, genReq)
}

// Automated 自动描述摄像头画面
// @Summary 自动图像描述
// @Tags Generation
// @Accept json
// @Produce text/event-stream
// @Router /api/automated [post]
func (h *GenerationHandler) Automated(c *gin.Context) {
	var req dto.AutomatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusOK, err.Error())
		return
	}

	genReq, err := h.composer.Automated(req.ImageBase64)
	if err != nil {
		dto.FailWithError(c, http.StatusOK, err)
		return
	}
	h.stream(c, relay.ModeAutomated, genReq)
}

func (h *GenerationHandler) stream(c *gin.Context, mode relay.Mode, req *entity.GenerationRequest) {
	sess, err := h.relay.Open(c.Request.Context(), mode, req)
	if err != nil {
		dto.FailWithError(c, http.StatusOK, err)
		return
	}
	streamSession(c, sess)
}
