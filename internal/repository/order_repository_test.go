package repository

import (
	"testing"

	"github.com/dujiao-next/order-desk/internal/constants"
	"github.com/dujiao-next/order-desk/internal/models"

	"gorm.io/gorm"
)

func TestOrderRepositoryCreateInTransaction(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)

	order := &models.Order{
		OrderNo:        "OD20260101000000123456",
		DraftID:        "draft-1",
		AdminID:        7,
		Status:         constants.OrderStatusSubmitted,
		Currency:       constants.CurrencyDefault,
		CustomerName:   "Lan",
		OriginalAmount: testMoney(90000),
		TotalAmount:    testMoney(120000),
		ShippingFee:    testMoney(30000),
	}
	items := []models.OrderItem{{
		ProductID:  "1",
		Title:      "Ceramic vase",
		BasePrice:  testMoney(50000),
		Attributes: models.AttributeSnapshots{{Name: "Large", Unit: "size", Price: testMoney(90000)}},
		UnitPrice:  testMoney(90000),
		Quantity:   1,
		TotalPrice: testMoney(90000),
	}}

	err := repo.Transaction(func(tx *gorm.DB) error {
		return repo.WithTx(tx).Create(order, items)
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	got, err := repo.GetByOrderNo(order.OrderNo)
	if err != nil || got == nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(got.Items) != 1 || len(got.Items[0].Attributes) != 1 || got.Items[0].Attributes[0].Name != "Large" {
		t.Fatalf("unexpected items: %+v", got.Items)
	}
	if !got.TotalAmount.Decimal.Equal(testMoney(120000).Decimal) {
		t.Fatalf("unexpected total: %s", got.TotalAmount.String())
	}

	exists, err := repo.ExistsOrderNo(order.OrderNo)
	if err != nil || !exists {
		t.Fatalf("order no should exist: %v %v", exists, err)
	}

	if err := repo.UpdateStatus(got.ID, constants.OrderStatusProcessing, nil); err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	list, total, err := repo.ListAdmin(OrderListFilter{AdminID: 7, Status: constants.OrderStatusProcessing})
	if err != nil || total != 1 || len(list) != 1 {
		t.Fatalf("list admin failed: total=%d err=%v", total, err)
	}
}

func TestOrderRepositoryGetMissing(t *testing.T) {
	repo := NewOrderRepository(openTestDB(t))
	got, err := repo.GetByID(42)
	if err != nil || got != nil {
		t.Fatalf("missing order should return nil,nil got %v %v", got, err)
	}
}

func TestCouponRepositoryCaseInsensitive(t *testing.T) {
	repo := NewCouponRepository(openTestDB(t))
	if err := repo.Create(&models.Coupon{Code: "TEN", Type: constants.DiscountTypePercentage, Value: testMoney(10), IsActive: true}); err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	got, err := repo.GetByCode(" ten ")
	if err != nil || got == nil || got.Code != "TEN" {
		t.Fatalf("expected coupon, got %+v err=%v", got, err)
	}
	missing, err := repo.GetByCode("nope")
	if err != nil || missing != nil {
		t.Fatalf("unknown code should return nil,nil")
	}
}
