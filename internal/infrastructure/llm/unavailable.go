package llm

import (
	"context"

	"vision-narrator-api/internal/application/relay"
	"vision-narrator-api/internal/domain/entity"
	apperrors "vision-narrator-api/pkg/errors"
)

var _ relay.Provider = (*UnavailableProvider)(nil)

// UnavailableProvider 缺少凭证时使用，每次调用都返回同一个错误
type UnavailableProvider struct {
	err error
}

// NewUnavailableProvider 创建占位提供商
func NewUnavailableProvider(reason string) *UnavailableProvider {
	return &UnavailableProvider{err: apperrors.New(apperrors.CodeServiceUnavailable, reason)}
}

// Stream 总是失败
func (p *UnavailableProvider) Stream(context.Context, *entity.GenerationRequest) (relay.ChunkReader, error) {
	return nil, p.err
}
