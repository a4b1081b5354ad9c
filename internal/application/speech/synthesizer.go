// Package speech 把文本合成为可下载的音频产物
package speech

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"vision-narrator-api/internal/domain/entity"
	apperrors "vision-narrator-api/pkg/errors"
	"vision-narrator-api/pkg/logger"
	"vision-narrator-api/pkg/metrics"
	"vision-narrator-api/pkg/tracer"
)

// DefaultLang 默认朗读语言
const DefaultLang = "en"

// ErrNoText 请求中没有文本
var ErrNoText = apperrors.New(apperrors.CodeInvalidParam, "No text provided")

// Engine 文本转语音引擎，把 MP3 字节写入 w
type Engine interface {
	Synthesize(ctx context.Context, text, lang string, w io.Writer) error
}

// Store 产物存储
type Store interface {
	Save(ctx context.Context, name string, write func(io.Writer) error) (path string, size int64, err error)
	URL(name string) string
}

// Synthesizer 语音合成适配器
// 每次调用生成新的 UUID 文件名，并发请求之间互不覆盖。
type Synthesizer struct {
	engine Engine
	store  Store
	lang   string
	now    func() time.Time
}

// NewSynthesizer 创建语音合成适配器
func NewSynthesizer(engine Engine, store Store, lang string) *Synthesizer {
	if lang == "" {
		lang = DefaultLang
	}
	return &Synthesizer{
		engine: engine,
		store:  store,
		lang:   lang,
		now:    time.Now,
	}
}

// Lang 合成语言
func (s *Synthesizer) Lang() string {
	return s.lang
}

// Synthesize 合成 text 并保存为 <uuid>.mp3
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (*entity.AudioArtifact, error) {
	if text == "" {
		return nil, ErrNoText
	}

	id := uuid.NewString()
	name := entity.AudioFileName(id)

	ctx, span := tracer.Start(ctx, "speech.Synthesize", trace.WithAttributes(
		attribute.String("speech.artifact_id", id),
		attribute.String("speech.lang", s.lang),
		attribute.Int("speech.text_len", len(text)),
	))
	defer span.End()

	start := s.now()
	path, size, err := s.store.Save(ctx, name, func(w io.Writer) error {
		return s.engine.Synthesize(ctx, text, s.lang, w)
	})
	metrics.SynthesisDuration.WithLabelValues(s.lang).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.SynthesisTotal.WithLabelValues(s.lang, "failed").Inc()
		logger.Error(ctx, "speech synthesis failed", err, "artifact_id", id)
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, apperrors.CodeSynthesisFailed, "speech synthesis failed")
	}

	metrics.SynthesisTotal.WithLabelValues(s.lang, "ok").Inc()
	metrics.SynthesisBytes.WithLabelValues(s.lang).Observe(float64(size))
	logger.Info(ctx, "speech artifact written", "artifact_id", id, "bytes", size)

	return &entity.AudioArtifact{
		ID:        id,
		Path:      path,
		URL:       s.store.URL(name),
		Size:      size,
		CreatedAt: start,
	}, nil
}
