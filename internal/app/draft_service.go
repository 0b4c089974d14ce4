package app

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/dujiao-next/order-desk/internal/logger"
)

// DraftFlusher 可立即持久化草稿工作区
type DraftFlusher interface {
	Flush(ctx context.Context) error
}

// DraftService 草稿工作区生命周期
// 运行期间按间隔落盘，停止时做最后一次落盘并释放队列等资源
type DraftService struct {
	flusher  DraftFlusher
	interval time.Duration
	closers  []io.Closer
	done     chan struct{}
}

// NewDraftService 创建草稿生命周期服务；interval <= 0 时只在停止时落盘
func NewDraftService(flusher DraftFlusher, interval time.Duration, closers ...io.Closer) *DraftService {
	return &DraftService{
		flusher:  flusher,
		interval: interval,
		closers:  closers,
		done:     make(chan struct{}),
	}
}

// Name 服务名称
func (s *DraftService) Name() string {
	return "drafts"
}

// Start 阻塞直到 ctx 结束
func (s *DraftService) Start(ctx context.Context) error {
	defer close(s.done)
	if s.flusher == nil || s.interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.flusher.Flush(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warnw("draft_service_periodic_flush_failed", "error", err)
			}
		}
	}
}

// Stop 最后一次落盘后关闭依赖
func (s *DraftService) Stop(ctx context.Context) error {
	select {
	case <-s.done:
	case <-ctx.Done():
	}
	var errs []error
	if s.flusher != nil {
		if err := s.flusher.Flush(ctx); err != nil {
			logger.Errorw("draft_service_final_flush_failed", "error", err)
			errs = append(errs, err)
		}
	}
	for _, closer := range s.closers {
		if closer == nil {
			continue
		}
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
