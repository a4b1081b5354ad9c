// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"github.com/gin-gonic/gin"

	apperrors "vision-narrator-api/pkg/errors"
)

// ErrorEnvelope 统一错误响应结构
type ErrorEnvelope struct {
	Error string `json:"error"`
}

// Fail 返回错误响应
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorEnvelope{Error: message})
}

// FailWithError 用错误的对外文本返回错误响应
func FailWithError(c *gin.Context, status int, err error) {
	Fail(c, status, apperrors.PublicMessage(err))
}

// AbortWithError 中断后续处理并返回错误响应
func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: message})
}
