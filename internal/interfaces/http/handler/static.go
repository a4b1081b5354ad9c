package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"vision-narrator-api/internal/config"
	"vision-narrator-api/internal/interfaces/http/dto"
)

// StaticHandler 页面与静态资源处理器
// 只读取 web 根目录内的文件。
type StaticHandler struct {
	root          string
	indexPage     string
	automatedPage string
}

// NewStaticHandler 创建静态资源处理器
func NewStaticHandler(cfg *config.WebConfig) *StaticHandler {
	return &StaticHandler{
		root:          filepath.Clean(cfg.Root),
		indexPage:     cfg.IndexPage,
		automatedPage: cfg.AutomatedPage,
	}
}

// Index 首页
func (h *StaticHandler) Index(c *gin.Context) {
	h.serve(c, h.indexPage)
}

// AutomatedPage 自动描述页面
func (h *StaticHandler) AutomatedPage(c *gin.Context) {
	h.serve(c, h.automatedPage)
}

// Asset 按请求路径返回 web 根目录下的资源
func (h *StaticHandler) Asset(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		dto.Fail(c, http.StatusNotFound, "not found")
		return
	}
	h.serve(c, c.Request.URL.Path)
}

func (h *StaticHandler) serve(c *gin.Context, rel string) {
	full, ok := h.resolve(rel)
	if !ok {
		dto.Fail(c, http.StatusNotFound, "not found")
		return
	}
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		dto.Fail(c, http.StatusNotFound, "not found")
		return
	}
	c.File(full)
}

// resolve 把请求路径映射为根目录内的文件路径
func (h *StaticHandler) resolve(rel string) (string, bool) {
	if strings.ContainsRune(rel, 0) || strings.Contains(rel, "\\") {
		return "", false
	}
	clean := strings.TrimPrefix(path.Clean("/"+rel), "/")
	if clean == "" {
		return "", false
	}
	full := filepath.Join(h.root, filepath.FromSlash(clean))

	within, err := filepath.Rel(h.root, full)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}
