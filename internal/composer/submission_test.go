package composer

import (
	"context"
	"errors"
	"testing"
)

func TestValidateForSubmission(t *testing.T) {
	if err := ValidateForSubmission(Draft{}); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	draft := Draft{LineItems: LineItems{}.AddOrMergeProduct(sampleProduct())}
	if err := ValidateForSubmission(draft); err != nil {
		t.Fatalf("walk-in draft should be valid: %v", err)
	}
	draft.Customer = &CustomerInfo{Phone: "0901"}
	if err := ValidateForSubmission(draft); !errors.Is(err, ErrCustomerNameRequired) {
		t.Fatalf("expected ErrCustomerNameRequired, got %v", err)
	}
}

func TestBuildSubmitRequestSnapshotsDraft(t *testing.T) {
	draft := sampleDrafts()[0]
	draft.Customer.Name = "  Lan  "
	req, err := BuildSubmitRequest(draft)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if req.DraftID != "d1" || req.Customer.Name != "Lan" {
		t.Fatalf("unexpected request: %+v", req)
	}
	assertMoney(t, "subtotal", req.Summary.Subtotal, 90000)
	assertMoney(t, "discount", req.Summary.DiscountAmount, 9000)
	assertMoney(t, "total", req.Summary.Total, 111000)

	req.LineItems[0].Quantity = 99
	if draft.LineItems[0].Quantity == 99 {
		t.Fatalf("request must not alias draft line items")
	}
}

func TestToggleAttributeUnknownLine(t *testing.T) {
	if _, err := ToggleAttribute(Draft{}, sampleProduct(), "A"); !errors.Is(err, ErrLineItemNotFound) {
		t.Fatalf("expected ErrLineItemNotFound, got %v", err)
	}
}

func TestTasksLifecycle(t *testing.T) {
	tasks := NewTasks()
	finished, done := tasks.Begin(context.Background(), "d1")
	pending, _ := tasks.Begin(context.Background(), "d1")
	done()
	if finished.Err() == nil {
		t.Fatalf("finished task context should be released")
	}
	if n := tasks.CancelDraft("d1"); n != 1 {
		t.Fatalf("expected one pending task cancelled, got %d", n)
	}
	if pending.Err() == nil {
		t.Fatalf("pending task context should be cancelled")
	}
	if n := tasks.CancelDraft("d1"); n != 0 {
		t.Fatalf("expected nothing to cancel, got %d", n)
	}
}
