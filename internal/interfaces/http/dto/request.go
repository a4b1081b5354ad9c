package dto

import "vision-narrator-api/internal/domain/entity"

// GenerateRequest 交互式生成请求
// contents 保持调用方结构，其中 contents[0].parts[1] 必须是文本。
type GenerateRequest struct {
	Contents []entity.Content `json:"contents"`
	Model    string           `json:"model"`
}

// AutomatedRequest 自动描述请求
type AutomatedRequest struct {
	ImageBase64 string `json:"image_base64"`
}

// TTSRequest 语音合成请求
type TTSRequest struct {
	Text string `json:"text"`
}

// TTSResponse 语音合成响应
type TTSResponse struct {
	URL string `json:"url"`
}
