package app

import (
	"errors"

	"github.com/dujiao-next/order-desk/internal/cache"
	"github.com/dujiao-next/order-desk/internal/config"
	"github.com/dujiao-next/order-desk/internal/provider"
	"github.com/dujiao-next/order-desk/internal/router"
	"github.com/dujiao-next/order-desk/internal/worker"
)

// BuildRunner 按启动模式装配服务
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	mode, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}
	opts := Options{Mode: mode}
	container := provider.NewContainer(cfg)

	var services []Service
	if opts.servesHTTP() {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Addr(), engine))
	}
	if opts.runsWorker() {
		workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}

	// 草稿落盘放在最后，HTTP 停止后不再有新的变更
	var flusher DraftFlusher
	if opts.servesHTTP() {
		flusher = container.ComposerService
	}
	services = append(services, NewDraftService(
		flusher,
		cfg.Composer.FlushInterval(),
		container.QueueClient,
		closerFunc(cache.Close),
	))
	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}
	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}
