package repository

import (
	"strings"
	"testing"

	"github.com/dujiao-next/order-desk/internal/models"

	"gorm.io/gorm"
)

func TestContainsAnyEscapesWildcards(t *testing.T) {
	db := openTestDB(t)
	var products []models.Product
	stmt := db.Session(&gorm.Session{DryRun: true}).
		Model(&models.Product{}).
		Scopes(containsAny(" 50%_off ", "name", "slug")).
		Find(&products).Statement

	sql := stmt.SQL.String()
	if !strings.Contains(sql, "name LIKE ?") || !strings.Contains(sql, " OR slug LIKE ?") {
		t.Fatalf("unexpected sql: %s", sql)
	}
	if len(stmt.Vars) != 2 || stmt.Vars[0] != `%50\%\_off%` {
		t.Fatalf("unexpected vars: %v", stmt.Vars)
	}
}

func TestContainsAnyMatchesLiteralPercent(t *testing.T) {
	repo := NewProductRepository(openTestDB(t))
	createProduct(t, repo, "sale", "Vase 50% off", true)
	createProduct(t, repo, "plain", "Vase 500", true)

	items, total, err := repo.List(ProductListFilter{Search: "50%"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || items[0].Slug != "sale" {
		t.Fatalf("percent should match literally, total=%d items=%+v", total, items)
	}
}

func TestPaginateScope(t *testing.T) {
	repo := NewProductRepository(openTestDB(t))
	for _, slug := range []string{"a", "b", "c"} {
		createProduct(t, repo, slug, "Item "+slug, true)
	}
	page, total, err := repo.List(ProductListFilter{Page: 0, PageSize: 2})
	if err != nil || total != 3 || len(page) != 2 {
		t.Fatalf("first page want 2 of 3, got %d of %d err=%v", len(page), total, err)
	}
	page, _, err = repo.List(ProductListFilter{Page: 2, PageSize: 2})
	if err != nil || len(page) != 1 {
		t.Fatalf("second page want 1 item, got %d err=%v", len(page), err)
	}
}
