package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dujiao-next/order-desk/internal/cache"
	"github.com/dujiao-next/order-desk/internal/composer"
	"github.com/dujiao-next/order-desk/internal/logger"
	"github.com/dujiao-next/order-desk/internal/models"
	"github.com/dujiao-next/order-desk/internal/repository"
)

// CatalogLookup 商品目录查询（草稿引擎的外部协作者）
type CatalogLookup interface {
	Lookup(ctx context.Context, productID string) (composer.CatalogItem, error)
}

// CatalogSearchInput 目录搜索参数
type CatalogSearchInput struct {
	Keyword    string
	CategoryID uint
	Page       int
	PageSize   int
}

// CatalogMaxPageSize 目录搜索单页上限
const CatalogMaxPageSize = 50

// CategoryView 分类及其在售商品数
type CategoryView struct {
	ID           uint   `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	ProductCount int64  `json:"product_count"`
}

// CatalogService 商品目录服务
type CatalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cacheTTL     time.Duration
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{productRepo: productRepo, categoryRepo: categoryRepo, cacheTTL: cacheTTL}
}

// Lookup 获取单个商品的目录快照；残缺数据在边界处被拒绝
func (s *CatalogService) Lookup(ctx context.Context, productID string) (composer.CatalogItem, error) {
	id, err := parseProductID(productID)
	if err != nil {
		return composer.CatalogItem{}, ErrProductNotFound
	}
	key := strconv.FormatUint(uint64(id), 10)

	var cached composer.CatalogItem
	hit, err := cache.GetCatalogItem(ctx, key, &cached)
	if err != nil {
		logger.Warnw("catalog_cache_read_failed", "product_id", key, "error", err)
	}
	if hit && cached.Validate() == nil {
		return cached, nil
	}

	if err := ctx.Err(); err != nil {
		return composer.CatalogItem{}, err
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return composer.CatalogItem{}, fmt.Errorf("%w: %v", ErrProductFetchFailed, err)
	}
	if product == nil || !product.IsActive {
		return composer.CatalogItem{}, ErrProductNotFound
	}
	item := ToCatalogItem(product)
	if err := item.Validate(); err != nil {
		logger.Warnw("catalog_item_rejected", "product_id", key, "error", err)
		return composer.CatalogItem{}, fmt.Errorf("%w: %v", ErrInvalidCatalogPayload, err)
	}
	if err := cache.SetCatalogItem(ctx, key, item, s.cacheTTL); err != nil {
		logger.Warnw("catalog_cache_write_failed", "product_id", key, "error", err)
	}
	return item, nil
}

// Search 搜索在售商品，跳过无法通过校验的目录数据
func (s *CatalogService) Search(ctx context.Context, input CatalogSearchInput) ([]composer.CatalogItem, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	page, pageSize := normalizePagination(input.Page, input.PageSize)
	products, total, err := s.productRepo.List(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: input.CategoryID,
		Search:     input.Keyword,
		OnlyActive: true,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrProductFetchFailed, err)
	}
	items := make([]composer.CatalogItem, 0, len(products))
	for i := range products {
		item := ToCatalogItem(&products[i])
		if err := item.Validate(); err != nil {
			logger.Warnw("catalog_item_rejected", "product_id", item.ID, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, total, nil
}

// Categories 分类列表，附带在售商品数
func (s *CatalogService) Categories(ctx context.Context) ([]CategoryView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.categoryRepo == nil {
		return []CategoryView{}, nil
	}
	categories, err := s.categoryRepo.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProductFetchFailed, err)
	}
	views := make([]CategoryView, 0, len(categories))
	for _, category := range categories {
		count, err := s.categoryRepo.CountProducts(category.ID, true)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProductFetchFailed, err)
		}
		views = append(views, CategoryView{
			ID:           category.ID,
			Slug:         category.Slug,
			Name:         category.Name,
			Icon:         category.Icon,
			ProductCount: count,
		})
	}
	return views, nil
}

// ToCatalogItem 将商品模型转换为目录快照
func ToCatalogItem(product *models.Product) composer.CatalogItem {
	if product == nil {
		return composer.CatalogItem{}
	}
	options := make([]composer.AttributeOption, 0, len(product.Attributes))
	for _, attr := range product.Attributes {
		options = append(options, composer.AttributeOption{
			Name:  strings.TrimSpace(attr.Name),
			Unit:  attr.Unit,
			Price: attr.Price.Normalized(),
			Image: attr.Image,
		})
	}
	return composer.CatalogItem{
		ID:               strconv.FormatUint(uint64(product.ID), 10),
		Name:             strings.TrimSpace(product.Name),
		Thumbnail:        product.Thumbnail,
		BasePrice:        product.BasePrice.Normalized(),
		AttributeOptions: options,
	}
}

func parseProductID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("product id is zero")
	}
	return uint(id), nil
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > CatalogMaxPageSize {
		pageSize = CatalogMaxPageSize
	}
	return page, pageSize
}
