package admin

import "github.com/ze-news/internal/provider"

// Handler 后台管理接口处理器入口
// 说明：该处理器仅用于 admin / editor 的写入与审核接口。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
