package worker

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dujiao-next/order-desk/internal/constants"
	"github.com/dujiao-next/order-desk/internal/models"
	"github.com/dujiao-next/order-desk/internal/provider"
	"github.com/dujiao-next/order-desk/internal/queue"
	"github.com/dujiao-next/order-desk/internal/repository"
	"github.com/dujiao-next/order-desk/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupConsumer(t *testing.T) (*Consumer, repository.OrderRepository) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateModels(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	repo := repository.NewOrderRepository(db)
	container := &provider.Container{
		OrderRepo:    repo,
		OrderService: service.NewOrderService(repo, nil, constants.CurrencyDefault),
	}
	return NewConsumer(container), repo
}

func createSubmittedOrder(t *testing.T, repo repository.OrderRepository) *models.Order {
	t.Helper()
	amount := models.NewMoneyFromDecimal(decimal.NewFromInt(50000))
	order := &models.Order{
		OrderNo:        "OD20260101000000123456",
		DraftID:        "draft-1",
		AdminID:        1,
		Status:         constants.OrderStatusSubmitted,
		Currency:       constants.CurrencyDefault,
		OriginalAmount: amount,
		TotalAmount:    amount,
	}
	if err := repo.Create(order, nil); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestHandleOrderSubmittedMarksProcessing(t *testing.T) {
	consumer, repo := setupConsumer(t)
	order := createSubmittedOrder(t, repo)

	task, err := queue.NewOrderSubmittedTask(queue.OrderSubmittedPayload{OrderID: order.ID, OrderNo: order.OrderNo, AdminID: 1})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderSubmitted(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}
	stored, err := repo.GetByID(order.ID)
	if err != nil || stored == nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.Status != constants.OrderStatusProcessing || stored.ProcessedAt == nil {
		t.Fatalf("expected processing order, got status=%s processed_at=%v", stored.Status, stored.ProcessedAt)
	}

	// 重复投递保持幂等
	if err := consumer.handleOrderSubmitted(context.Background(), task); err != nil {
		t.Fatalf("redelivery should succeed: %v", err)
	}
}

func TestHandleOrderSubmittedSkipsMissingOrder(t *testing.T) {
	consumer, _ := setupConsumer(t)
	task, err := queue.NewOrderSubmittedTask(queue.OrderSubmittedPayload{OrderID: 404})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderSubmitted(context.Background(), task); err != nil {
		t.Fatalf("missing order should be skipped, got %v", err)
	}
	if err := consumer.handleOrderSubmitted(context.Background(), asynq.NewTask(queue.TaskOrderSubmitted, []byte(`{"order_id":0}`))); err != nil {
		t.Fatalf("empty payload should be skipped, got %v", err)
	}
	if err := consumer.handleOrderSubmitted(context.Background(), asynq.NewTask(queue.TaskOrderSubmitted, []byte(`{`))); err == nil {
		t.Fatalf("malformed payload should fail")
	}
}
