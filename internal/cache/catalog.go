package cache

import (
	"context"
	"strings"
	"time"
)

func catalogItemKey(productID string) string {
	return "catalog:product:" + strings.TrimSpace(productID)
}

// GetCatalogItem 读取商品目录快照缓存
func GetCatalogItem(ctx context.Context, productID string, dest interface{}) (bool, error) {
	if strings.TrimSpace(productID) == "" {
		return false, nil
	}
	return GetJSON(ctx, catalogItemKey(productID), dest)
}

// SetCatalogItem 写入商品目录快照缓存；ttl <= 0 时不写入
func SetCatalogItem(ctx context.Context, productID string, value interface{}, ttl time.Duration) error {
	if strings.TrimSpace(productID) == "" || ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, catalogItemKey(productID), value, ttl)
}

// DelCatalogItem 删除商品目录快照缓存
func DelCatalogItem(ctx context.Context, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return nil
	}
	return Del(ctx, catalogItemKey(productID))
}
