package composer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dujiao-next/order-desk/internal/models"

	"github.com/shopspring/decimal"
)

func money(v int64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromInt(v))
}

func assertMoney(t *testing.T, label string, got models.Money, want int64) {
	t.Helper()
	if !got.Decimal.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("%s: want %d got %s", label, want, got.String())
	}
}

func assertLineTotals(t *testing.T, items LineItems) {
	t.Helper()
	for _, line := range items {
		want := line.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity)))
		if !line.LineTotal.Decimal.Equal(want) {
			t.Fatalf("line total mismatch for %s: unit=%s qty=%d total=%s", line.ProductID, line.UnitPrice.String(), line.Quantity, line.LineTotal.String())
		}
		if line.Quantity < 1 {
			t.Fatalf("quantity must be positive for %s: %d", line.ProductID, line.Quantity)
		}
	}
}

func assertSingleActive(t *testing.T, drafts []Draft) {
	t.Helper()
	active := 0
	for _, draft := range drafts {
		if draft.IsActive {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active draft, got %d", active)
	}
}

func sampleProduct() CatalogItem {
	return CatalogItem{
		ID:        "P",
		Name:      "Ceramic vase",
		Thumbnail: "https://img.example/p.png",
		BasePrice: money(50000),
		AttributeOptions: []AttributeOption{
			{Name: "A", Unit: "size", Price: money(70000)},
			{Name: "B", Unit: "size", Price: money(90000)},
		},
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("draft-%d", n)
	}
}

// failingStore 模拟不可用的存储
type failingStore struct {
	saves int
}

func (s *failingStore) SaveSlot(context.Context, string, []byte) error {
	s.saves++
	return errors.New("storage unavailable")
}

func (s *failingStore) LoadSlot(context.Context, string) ([]byte, error) {
	return nil, errors.New("storage unavailable")
}
