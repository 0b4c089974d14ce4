package queue

import (
	"testing"

	"github.com/dujiao-next/order-desk/internal/config"
)

func TestOrderSubmittedTaskRoundTrip(t *testing.T) {
	task, err := NewOrderSubmittedTask(OrderSubmittedPayload{OrderID: 9, OrderNo: "OD1", AdminID: 2, DraftID: "d"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskOrderSubmitted {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseOrderSubmittedPayload(task)
	if err != nil || payload.OrderID != 9 || payload.OrderNo != "OD1" {
		t.Fatalf("unexpected payload %+v err=%v", payload, err)
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueOrderSubmitted(OrderSubmittedPayload{OrderID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: "redis", Port: 6380, DB: 2})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 10 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}

	opt, _ = BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("nil config should use local redis, got %s", opt.Addr)
	}
}

func TestOrderSubmittedTaskID(t *testing.T) {
	if id := OrderSubmittedTaskID(OrderSubmittedPayload{OrderNo: " OD20260101 "}); id != TaskOrderSubmitted+":OD20260101" {
		t.Fatalf("unexpected task id %q", id)
	}
	if id := OrderSubmittedTaskID(OrderSubmittedPayload{OrderID: 3}); id != "" {
		t.Fatalf("missing order no should not produce a task id, got %q", id)
	}
}
