// Package relay 把提供商的流式生成结果转发为 SSE 帧
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"vision-narrator-api/internal/domain/entity"
	apperrors "vision-narrator-api/pkg/errors"
	"vision-narrator-api/pkg/logger"
	"vision-narrator-api/pkg/metrics"
	"vision-narrator-api/pkg/tracer"
)

// Provider 流式文本生成提供商
type Provider interface {
	Stream(ctx context.Context, req *entity.GenerationRequest) (ChunkReader, error)
}

// ChunkReader 惰性、有限、不可重启的增量序列
// 序列耗尽时 Recv 返回 io.EOF；Close 可重复调用。
type ChunkReader interface {
	Recv() (*entity.GenerationChunk, error)
	Close() error
}

// Mode 请求入口
type Mode string

const (
	ModeInteractive Mode = "interactive"
	ModeAutomated   Mode = "automated"
)

const (
	statusOK          = "ok"
	statusOpenFailed  = "open_failed"
	statusInterrupted = "interrupted"
)

// Relay 生成中继，对两种入口一视同仁
type Relay struct {
	provider Provider
}

// New 创建生成中继
func New(provider Provider) *Relay {
	return &Relay{provider: provider}
}

// Open 调用提供商并等待首个增量
// 首个增量之前的任何失败都在这里返回，调用方据此回退为普通 JSON 错误响应。
func (r *Relay) Open(ctx context.Context, mode Mode, req *entity.GenerationRequest) (*Session, error) {
	if req == nil {
		return nil, apperrors.New(apperrors.CodeGenerationFailed, "generation request is empty")
	}

	start := time.Now()
	ctx, span := tracer.Start(ctx, "relay.Stream", trace.WithAttributes(
		attribute.String("relay.mode", string(mode)),
		attribute.String("relay.model", req.Model),
		attribute.Int("relay.contents", len(req.Contents)),
	))

	fail := func(err error) (*Session, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		metrics.GenerationTotal.WithLabelValues(string(mode), req.Model, statusOpenFailed).Inc()
		logger.Warn(ctx, "generation stream failed to open", "mode", mode, "model", req.Model, "error", err.Error())
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, apperrors.CodeLLMProviderError, "generation failed")
	}

	reader, err := r.provider.Stream(ctx, req)
	if err != nil {
		return fail(err)
	}

	s := &Session{
		ctx:    ctx,
		span:   span,
		reader: reader,
		mode:   mode,
		model:  req.Model,
		start:  start,
	}

	first, err := reader.Recv()
	switch {
	case errors.Is(err, io.EOF):
		s.exhausted = true
	case err != nil:
		_ = reader.Close()
		return fail(err)
	default:
		s.pending = first
	}

	metrics.GenerationFirstChunkLatency.WithLabelValues(string(mode), req.Model).Observe(time.Since(start).Seconds())
	metrics.ActiveStreams.Inc()
	logger.Info(ctx, "generation stream opened", "mode", mode, "model", req.Model)
	return s, nil
}

// Session 一次已打开的生成流
// 只由处理该请求的 goroutine 使用。
type Session struct {
	ctx    context.Context
	span   trace.Span
	reader ChunkReader
	mode   Mode
	model  string
	start  time.Time

	pending   *entity.GenerationChunk
	exhausted bool
	err       error
	chunks    int
	closed    bool
}

// Next 按提供商产出顺序返回下一个增量，序列结束时返回 io.EOF
func (s *Session) Next() (*entity.GenerationChunk, error) {
	if s.closed {
		return nil, io.ErrClosedPipe
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.pending != nil {
		chunk := s.pending
		s.pending = nil
		return chunk, nil
	}
	if s.exhausted {
		return nil, io.EOF
	}

	chunk, err := s.reader.Recv()
	if errors.Is(err, io.EOF) {
		s.exhausted = true
		return nil, io.EOF
	}
	if err != nil {
		s.err = err
		return nil, err
	}
	return chunk, nil
}

// Forward 把下一个增量编码为一帧写入 w
// 返回 false 表示流已结束；err 非空表示提供商或客户端连接中途失败，流就此截断。
func (s *Session) Forward(w io.Writer) (bool, error) {
	chunk, err := s.Next()
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	frame, err := EncodeFrame(chunk)
	if err != nil {
		s.err = err
		return false, err
	}
	if _, err := w.Write(frame); err != nil {
		s.err = fmt.Errorf("write frame: %w", err)
		return false, s.err
	}
	s.chunks++
	metrics.GenerationChunks.WithLabelValues(string(s.mode), s.model).Inc()
	return true, nil
}

// Chunks 已转发的帧数
func (s *Session) Chunks() int {
	return s.chunks
}

// Close 释放提供商流并记录结果，可重复调用
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.reader.Close()

	status := statusOK
	if !s.exhausted {
		status = statusInterrupted
	}
	duration := time.Since(s.start)

	metrics.ActiveStreams.Dec()
	metrics.GenerationTotal.WithLabelValues(string(s.mode), s.model, status).Inc()
	metrics.GenerationDuration.WithLabelValues(string(s.mode), s.model).Observe(duration.Seconds())

	s.span.SetAttributes(
		attribute.Int("relay.chunks", s.chunks),
		attribute.String("relay.status", status),
	)
	if s.err != nil {
		s.span.RecordError(s.err)
		s.span.SetStatus(codes.Error, s.err.Error())
		logger.Warn(s.ctx, "generation stream interrupted",
			"mode", s.mode, "model", s.model, "chunks", s.chunks, "error", s.err.Error())
	} else {
		logger.Info(s.ctx, "generation stream finished",
			"mode", s.mode, "model", s.model, "chunks", s.chunks, "status", status,
			"duration_ms", duration.Milliseconds())
	}
	s.span.End()

	return err
}

type frameData struct {
	Text string `json:"text"`
}

// EncodeFrame 编码一帧：data: {"text": ...}\n\n
func EncodeFrame(chunk *entity.GenerationChunk) ([]byte, error) {
	var payload bytes.Buffer
	enc := json.NewEncoder(&payload)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(frameData{Text: chunk.Text}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	frame := make([]byte, 0, payload.Len()+8)
	frame = append(frame, "data: "...)
	frame = append(frame, bytes.TrimRight(payload.Bytes(), "\n")...)
	frame = append(frame, "\n\n"...)
	return frame, nil
}
