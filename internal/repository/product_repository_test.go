package repository

import (
	"testing"

	"github.com/dujiao-next/order-desk/internal/models"
)

func createProduct(t *testing.T, repo *GormProductRepository, slug, name string, active bool, attributes ...models.ProductAttribute) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:       slug,
		Name:       name,
		BasePrice:  testMoney(50000),
		Tags:       models.StringArray{"demo"},
		IsActive:   true,
		Attributes: attributes,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if !active {
		if err := repo.db.Model(product).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate product failed: %v", err)
		}
	}
	return product
}

func TestProductRepositoryGetByIDPreloadsAttributes(t *testing.T) {
	repo := NewProductRepository(openTestDB(t))
	created := createProduct(t, repo, "vase", "Ceramic vase", true,
		models.ProductAttribute{Name: "Small", Unit: "size", Price: testMoney(60000), SortOrder: 1},
		models.ProductAttribute{Name: "Large", Unit: "size", Price: testMoney(90000), SortOrder: 2},
	)

	got, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if got == nil || len(got.Attributes) != 2 {
		t.Fatalf("expected product with 2 attributes, got %+v", got)
	}
	if got.Attributes[0].Name != "Large" {
		t.Fatalf("attributes should be ordered by sort_order desc, got %s", got.Attributes[0].Name)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "demo" {
		t.Fatalf("unexpected tags: %v", got.Tags)
	}

	missing, err := repo.GetByID(9999)
	if err != nil || missing != nil {
		t.Fatalf("missing product should return nil,nil got %v %v", missing, err)
	}
}

func TestProductRepositoryListSearchAndActive(t *testing.T) {
	repo := NewProductRepository(openTestDB(t))
	createProduct(t, repo, "vase", "Ceramic vase", true)
	createProduct(t, repo, "bowl", "Ceramic bowl", false)
	createProduct(t, repo, "lamp", "Desk lamp", true)

	products, total, err := repo.List(ProductListFilter{Search: "ceramic", OnlyActive: true, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(products) != 1 || products[0].Slug != "vase" {
		t.Fatalf("unexpected search result total=%d products=%+v", total, products)
	}

	all, total, err := repo.List(ProductListFilter{})
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("expected 3 products, got %d", total)
	}
}
