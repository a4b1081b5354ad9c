// Package router 提供 HTTP 路由配置
package router

import (
	"vision-narrator-api/internal/config"
	"vision-narrator-api/internal/interfaces/http/handler"
	"vision-narrator-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由依赖的处理器
type Handlers struct {
	Health     *handler.HealthHandler
	Generation *handler.GenerationHandler
	TTS        *handler.TTSHandler
	Static     *handler.StaticHandler
}

// Options 可选依赖
type Options struct {
	// Limiter 为 nil 时不限流
	Limiter middleware.RateLimiter
	// ArtifactDir 合成音频所在目录，ArtifactPrefix 为其 URL 前缀
	ArtifactDir    string
	ArtifactPrefix string
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers Handlers
	opts     Options
}

// New 创建新的路由器
func New(cfg *config.Config, handlers Handlers, opts Options) *Router {
	// 设置 Gin 模式
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	r := &Router{
		engine:   engine,
		cfg:      cfg,
		handlers: handlers,
		opts:     opts,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	// 基础中间件
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	// CORS 中间件
	r.engine.Use(middleware.CORS(r.cfg.Security.CORS))

	// 追踪中间件
	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	// 指标中间件
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	r.engine.Use(middleware.AccessLog())
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	h := r.handlers

	// 系统端点
	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/ready", h.Health.Ready)
	r.engine.GET("/live", h.Health.Live)

	// Prometheus 指标端点
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// 页面
	r.engine.GET("/", h.Static.Index)
	r.engine.GET("/automated", h.Static.AutomatedPage)

	// 合成音频
	if r.opts.ArtifactDir != "" && r.opts.ArtifactPrefix != "" {
		r.engine.StaticFS(r.opts.ArtifactPrefix, gin.Dir(r.opts.ArtifactDir, false))
	}

	// API 路由组
	api := r.engine.Group("/api")
	api.Use(middleware.RateLimit(r.cfg.Security.RateLimit, r.opts.Limiter))
	RegisterAPIRoutes(api, h.Generation, h.TTS)

	// 其余路径按静态资源处理
	r.engine.NoRoute(h.Static.Asset)
}
