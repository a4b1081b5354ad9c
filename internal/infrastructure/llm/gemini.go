// Package llm 提供生成模型提供商实现
package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"vision-narrator-api/internal/application/relay"
	"vision-narrator-api/internal/config"
	"vision-narrator-api/internal/domain/entity"
	apperrors "vision-narrator-api/pkg/errors"
)

// 编译期校验接口实现
var _ relay.Provider = (*GeminiProvider)(nil)

// GeminiProvider 基于 genai SDK 的流式生成提供商
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider 创建 Gemini 提供商，API Key 在进程启动时注入
func NewGeminiProvider(ctx context.Context, cfg *config.LLMConfig) (*GeminiProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("llm.api_key is not configured")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: cfg.APIVersion,
		},
	}
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

// Stream 以流式模式调用模型
// genai 的流是惰性的，请求在第一次 Recv 时才真正发出。
func (p *GeminiProvider) Stream(ctx context.Context, req *entity.GenerationRequest) (relay.ChunkReader, error) {
	contents, err := toGenaiContents(req.Contents)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidParam, "invalid generation request")
	}

	model := strings.TrimPrefix(req.Model, "models/")
	seq := p.client.Models.GenerateContentStream(ctx, model, contents, nil)
	return newStreamReader(seq), nil
}

type streamReader struct {
	next func() (*genai.GenerateContentResponse, error, bool)
	stop func()
}

func newStreamReader(seq iter.Seq2[*genai.GenerateContentResponse, error]) *streamReader {
	next, stop := iter.Pull2(seq)
	return &streamReader{next: next, stop: stop}
}

// Recv 读取下一个响应块
func (r *streamReader) Recv() (*entity.GenerationChunk, error) {
	resp, err, ok := r.next()
	if !ok {
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return &entity.GenerationChunk{}, nil
	}
	if len(resp.Candidates) == 0 && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	return &entity.GenerationChunk{Text: chunkText(resp)}, nil
}

// Close 停止底层迭代，可重复调用
func (r *streamReader) Close() error {
	r.stop()
	return nil
}

// chunkText 拼接首个候选中的全部文本片段
func chunkText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// toGenaiContents 领域内容转换为 SDK 结构，内联数据在此处 base64 解码
func toGenaiContents(contents []entity.Content) ([]*genai.Content, error) {
	out := make([]*genai.Content, 0, len(contents))
	for i, c := range contents {
		gc := &genai.Content{Role: c.Role, Parts: make([]*genai.Part, 0, len(c.Parts))}
		for j, p := range c.Parts {
			switch p.Kind {
			case entity.PartText:
				gc.Parts = append(gc.Parts, &genai.Part{Text: p.Text})
			case entity.PartInlineData:
				data, err := decodeBase64(p.InlineData.Data)
				if err != nil {
					return nil, fmt.Errorf("contents[%d].parts[%d]: invalid base64 data: %w", i, j, err)
				}
				gc.Parts = append(gc.Parts, &genai.Part{InlineData: &genai.Blob{
					MIMEType: p.InlineData.MIMEType,
					Data:     data,
				}})
			default:
				return nil, fmt.Errorf("contents[%d].parts[%d]: unsupported part, expected text or inline_data", i, j)
			}
		}
		out = append(out, gc)
	}
	return out, nil
}

func decodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	// 浏览器端偶尔会去掉填充
	if raw, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
		return raw, nil
	}
	return nil, err
}
