package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dujiao-next/order-desk/internal/logger"
)

// HTTPService 对外 HTTP 接口
type HTTPService struct {
	server *http.Server
}

// NewHTTPService 创建 HTTP 服务，服务端错误写入结构化日志
func NewHTTPService(addr string, handler http.Handler) *HTTPService {
	return &HTTPService{server: &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		ErrorLog:          logger.StdLogger(),
	}}
}

// Name 服务名称
func (s *HTTPService) Name() string {
	return "http"
}

// Start 监听直到 Stop；请求上下文不继承 ctx，停机时进行中的请求可以完成
func (s *HTTPService) Start(context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop 优雅关闭，等待进行中的请求
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
