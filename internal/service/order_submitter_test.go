package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/dujiao-next/order-desk/internal/composer"
	"github.com/dujiao-next/order-desk/internal/constants"
	"github.com/dujiao-next/order-desk/internal/queue"
	"github.com/dujiao-next/order-desk/internal/repository"

	"github.com/hibiken/asynq"
)

type recordingEnqueuer struct {
	payloads []queue.OrderSubmittedPayload
	err      error
}

func (r *recordingEnqueuer) EnqueueOrderSubmitted(payload queue.OrderSubmittedPayload, _ ...asynq.Option) error {
	r.payloads = append(r.payloads, payload)
	return r.err
}

func sampleSubmitRequest(t *testing.T) composer.SubmitRequest {
	t.Helper()
	draft := composer.Draft{
		ID:          "draft-1",
		LineItems:   composer.LineItems{}.AddOrMergeProduct(vaseItem()),
		Customer:    &composer.CustomerInfo{Name: " Lan ", Phone: "0901"},
		Discount:    &composer.Discount{Code: "TEN", Type: constants.DiscountTypePercentage, Value: svcMoney(10)},
		ShippingFee: svcMoney(30000),
	}
	draft, err := composer.ToggleAttribute(draft, vaseItem(), "B")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	req, err := composer.BuildSubmitRequest(draft)
	if err != nil {
		t.Fatalf("build request failed: %v", err)
	}
	return req
}

func TestOrderServiceSubmitPersistsSnapshot(t *testing.T) {
	db := openServiceTestDB(t)
	enqueuer := &recordingEnqueuer{}
	svc := NewOrderService(repository.NewOrderRepository(db), enqueuer, "VND")

	order, err := svc.Submit(context.Background(), 7, sampleSubmitRequest(t))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !regexp.MustCompile(`^OD\d{20}$`).MatchString(order.OrderNo) {
		t.Fatalf("unexpected order no %q", order.OrderNo)
	}
	stored, err := svc.GetByOrderNo(order.OrderNo)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if stored.Status != constants.OrderStatusSubmitted || stored.AdminID != 7 || stored.DraftID != "draft-1" {
		t.Fatalf("unexpected stored order %+v", stored)
	}
	if stored.CustomerName != "Lan" || stored.DiscountCode != "TEN" || stored.Currency != "VND" {
		t.Fatalf("unexpected customer or discount %+v", stored)
	}
	assertServiceMoney(t, "original", stored.OriginalAmount, 90000)
	assertServiceMoney(t, "discount", stored.DiscountAmount, 9000)
	assertServiceMoney(t, "total", stored.TotalAmount, 111000)
	if len(stored.Items) != 1 || len(stored.Items[0].Attributes) != 1 || stored.Items[0].Attributes[0].Name != "B" {
		t.Fatalf("unexpected items %+v", stored.Items)
	}
	assertServiceMoney(t, "unit price", stored.Items[0].UnitPrice, 90000)

	if len(enqueuer.payloads) != 1 || enqueuer.payloads[0].OrderID != order.ID {
		t.Fatalf("expected one follow-up task, got %+v", enqueuer.payloads)
	}
}

func TestOrderServiceSubmitIgnoresEnqueueFailure(t *testing.T) {
	db := openServiceTestDB(t)
	svc := NewOrderService(repository.NewOrderRepository(db), &recordingEnqueuer{err: errors.New("redis down")}, "VND")
	if _, err := svc.Submit(context.Background(), 1, sampleSubmitRequest(t)); err != nil {
		t.Fatalf("enqueue failure must not fail submit: %v", err)
	}
	if _, err := svc.Submit(context.Background(), 1, composer.SubmitRequest{}); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestOrderServiceMarkProcessedIsIdempotent(t *testing.T) {
	db := openServiceTestDB(t)
	svc := NewOrderService(repository.NewOrderRepository(db), nil, "VND")
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	order, err := svc.Submit(context.Background(), 1, sampleSubmitRequest(t))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if order.OrderNo[:16] != "OD20260301100000" {
		t.Fatalf("order no should embed submit time, got %s", order.OrderNo)
	}

	processed, err := svc.MarkProcessed(order.ID)
	if err != nil || processed.Status != constants.OrderStatusProcessing || processed.ProcessedAt == nil {
		t.Fatalf("mark processed failed: %+v err=%v", processed, err)
	}
	svc.now = func() time.Time { return fixed.Add(time.Hour) }
	again, err := svc.MarkProcessed(order.ID)
	if err != nil || again.Status != constants.OrderStatusProcessing {
		t.Fatalf("second mark should be a no-op: %+v err=%v", again, err)
	}
	if !again.ProcessedAt.Equal(fixed) {
		t.Fatalf("processed_at should not move, got %v", again.ProcessedAt)
	}

	if _, err := svc.MarkProcessed(9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
