// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"strings"

	"vision-narrator-api/internal/application/prompt"
	"vision-narrator-api/internal/application/relay"
	"vision-narrator-api/internal/application/speech"
	"vision-narrator-api/internal/config"
	"vision-narrator-api/internal/infrastructure/llm"
	"vision-narrator-api/internal/infrastructure/persistence/redis"
	"vision-narrator-api/internal/infrastructure/storage"
	"vision-narrator-api/internal/infrastructure/tts"
	"vision-narrator-api/internal/interfaces/http/handler"
	"vision-narrator-api/internal/interfaces/http/middleware"
	"vision-narrator-api/internal/interfaces/http/router"
	"vision-narrator-api/pkg/logger"
)

// InitializeApp 组装 HTTP 应用
// 返回的 cleanup 释放 Redis 等外部连接。
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	store, err := ProvideArtifactStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	provider, err := ProvideGenerationProvider(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	redisClient, cleanupRedis, err := ProvideRedisClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	composer := prompt.NewComposer(cfg.LLM.DefaultModel)
	synth := speech.NewSynthesizer(tts.NewGoogleTranslateEngine(&cfg.TTS), store, cfg.TTS.Lang)

	var (
		checker handler.HealthChecker
		limiter middleware.RateLimiter
	)
	if redisClient != nil {
		checker = redisClient
		limiter = redis.NewRateLimiter(redisClient)
	}

	handlers := router.Handlers{
		Health:     handler.NewHealthHandler(cfg.App.Version, checker, strings.TrimSpace(cfg.LLM.APIKey) != "", store.Dir()),
		Generation: handler.NewGenerationHandler(composer, relay.New(provider)),
		TTS:        handler.NewTTSHandler(synth),
		Static:     handler.NewStaticHandler(&cfg.Web),
	}

	r := router.New(cfg, handlers, router.Options{
		Limiter:        limiter,
		ArtifactDir:    store.Dir(),
		ArtifactPrefix: store.URLPrefix(),
	})
	return r, cleanupRedis, nil
}

// ProvideArtifactStore 提供音频产物存储，启动时创建输出目录
func ProvideArtifactStore(cfg *config.Config) (*storage.LocalStore, error) {
	return storage.NewLocalStore(cfg.TTS.OutputDir)
}

// ProvideGenerationProvider 提供生成模型；未配置 API Key 时服务照常启动，生成请求返回错误
func ProvideGenerationProvider(ctx context.Context, cfg *config.Config) (relay.Provider, error) {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Warn(ctx, "llm api key not configured, generation endpoints will fail")
		return llm.NewUnavailableProvider("llm.api_key is not configured"), nil
	}
	return llm.NewGeminiProvider(ctx, &cfg.LLM)
}

// ProvideRedisClient 提供 Redis 客户端，未启用时返回 nil
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}
