package worker

import (
	"context"
	"errors"

	"github.com/dujiao-next/order-desk/internal/logger"
	"github.com/dujiao-next/order-desk/internal/provider"
	"github.com/dujiao-next/order-desk/internal/queue"
	"github.com/dujiao-next/order-desk/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderSubmitted, c.handleOrderSubmitted)
}

// handleOrderSubmitted 录单提交后的订单确认：submitted -> processing
func (c *Consumer) handleOrderSubmitted(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_submitted_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderSubmittedPayload(task)
	if err != nil {
		logger.Warnw("worker_order_submitted_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_submitted_skip_invalid_payload", "order_no", payload.OrderNo)
		return nil
	}
	if c.Container == nil || c.OrderService == nil {
		logger.Warnw("worker_order_submitted_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	order, err := c.OrderService.MarkProcessed(payload.OrderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_submitted_skip_order_not_found", "order_id", payload.OrderID, "order_no", payload.OrderNo)
			return nil
		}
		logger.Warnw("worker_order_submitted_mark_failed", "order_id", payload.OrderID, "order_no", payload.OrderNo, "error", err)
		return err
	}
	logger.Infow("worker_order_submitted_processed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"admin_id", payload.AdminID,
		"draft_id", payload.DraftID,
		"status", order.Status,
	)
	return nil
}
