package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vision-narrator-api/internal/application/speech"
	"vision-narrator-api/internal/interfaces/http/dto"
)

// TTSHandler 语音合成处理器
type TTSHandler struct {
	synth *speech.Synthesizer
}

// NewTTSHandler 创建语音合成处理器
func NewTTSHandler(synth *speech.Synthesizer) *TTSHandler {
	return &TTSHandler{synth: synth}
}

// Synthesize 把文本合成为 MP3 并返回其 URL
// 缺少文本返回 400，其余失败返回 200 + {"error": ...}。
// @Summary 文本转语音
// @Tags Speech
// @Accept json
// @Produce json
// @Success 200 {object} dto.TTSResponse
// @Failure 400 {object} dto.ErrorEnvelope
// @Router /api/tts [post]
func (h *TTSHandler) Synthesize(c *gin.Context) {
	var req dto.TTSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusOK, err.Error())
		return
	}

	art, err := h.synth.Synthesize(c.Request.Context(), req.Text)
	if errors.Is(err, speech.ErrNoText) {
		dto.FailWithError(c, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		dto.FailWithError(c, http.StatusOK, err)
		return
	}

	c.JSON(http.StatusOK, dto.TTSResponse{URL: art.URL})
}
