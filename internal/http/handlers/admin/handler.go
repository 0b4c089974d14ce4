package admin

import "github.com/dujiao-next/order-desk/internal/provider"

// Handler 录单后台接口处理器
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
