package composer

import (
	"strings"

	"github.com/dujiao-next/order-desk/internal/models"
)

// LineItems 单个草稿的订单行集合
// 所有方法均返回新集合，不修改接收者
type LineItems []LineItem

// Find 按商品 ID 查找订单行
func (items LineItems) Find(productID string) (LineItem, bool) {
	idx := items.indexOf(productID)
	if idx < 0 {
		return LineItem{}, false
	}
	return items[idx].clone(), true
}

// AddOrMergeProduct 添加商品；已存在则数量 +1
func (items LineItems) AddOrMergeProduct(product CatalogItem) LineItems {
	next := items.clone()
	productID := strings.TrimSpace(product.ID)
	if idx := next.indexOf(productID); idx >= 0 {
		line := next[idx]
		line.Quantity++
		next[idx] = line.withTotals()
		return next
	}
	line := LineItem{
		ProductID:          productID,
		Name:               product.Name,
		Thumbnail:          product.Thumbnail,
		BasePrice:          product.BasePrice.Normalized(),
		SelectedAttributes: []AttributeSelection{},
		UnitPrice:          product.BasePrice.Normalized(),
		Quantity:           1,
	}
	return append(next, line.withTotals())
}

// SetQuantity 设置数量；n <= 0 视为删除
func (items LineItems) SetQuantity(productID string, n int) LineItems {
	if n <= 0 {
		return items.RemoveItem(productID)
	}
	next := items.clone()
	idx := next.indexOf(productID)
	if idx < 0 {
		return next
	}
	line := next[idx]
	line.Quantity = n
	next[idx] = line.withTotals()
	return next
}

// RemoveItem 删除订单行，不存在时无操作
func (items LineItems) RemoveItem(productID string) LineItems {
	target := strings.TrimSpace(productID)
	next := make(LineItems, 0, len(items))
	for _, line := range items {
		if line.ProductID == target {
			continue
		}
		next = append(next, line.clone())
	}
	return next
}

// ApplyAttributeSelection 以快照替换属性与单价，保留数量
func (items LineItems) ApplyAttributeSelection(productID string, selections []AttributeSelection, resolvedPrice models.Money) LineItems {
	next := items.clone()
	idx := next.indexOf(productID)
	if idx < 0 {
		return next
	}
	line := next[idx]
	line.SelectedAttributes = append([]AttributeSelection{}, selections...)
	line.UnitPrice = resolvedPrice
	next[idx] = line.withTotals()
	return next
}

// Count 订单行数量
func (items LineItems) Count() int {
	return len(items)
}

// normalize 修正持久化数据：合并重复商品、数量兜底、重算小计
func (items LineItems) normalize() LineItems {
	next := make(LineItems, 0, len(items))
	for _, line := range items {
		line = line.clone()
		line.ProductID = strings.TrimSpace(line.ProductID)
		if line.ProductID == "" || line.Quantity <= 0 {
			continue
		}
		if line.SelectedAttributes == nil {
			line.SelectedAttributes = []AttributeSelection{}
		}
		line.BasePrice = line.BasePrice.Normalized()
		line.UnitPrice = ResolveAttributePrice(line.BasePrice, line.SelectedAttributes)
		if idx := next.indexOf(line.ProductID); idx >= 0 {
			merged := next[idx]
			merged.Quantity += line.Quantity
			next[idx] = merged.withTotals()
			continue
		}
		next = append(next, line.withTotals())
	}
	return next
}

func (items LineItems) indexOf(productID string) int {
	target := strings.TrimSpace(productID)
	for i, line := range items {
		if line.ProductID == target {
			return i
		}
	}
	return -1
}

func (items LineItems) clone() LineItems {
	next := make(LineItems, len(items))
	for i, line := range items {
		next[i] = line.clone()
	}
	return next
}
