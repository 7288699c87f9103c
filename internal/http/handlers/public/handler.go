package public

import "github.com/ze-news/internal/provider"

// Handler 公开接口处理器入口
// 说明：匿名可访问的读取接口、认证接口与事实核查提交。
type Handler struct {
	*provider.Container
}

// New 创建公开处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
