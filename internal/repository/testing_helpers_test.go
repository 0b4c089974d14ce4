package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dujiao-next/order-desk/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateModels(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func testMoney(v int64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromInt(v))
}
