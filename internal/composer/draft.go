package composer

import (
	"strings"

	"github.com/dujiao-next/order-desk/internal/models"

	"github.com/shopspring/decimal"
)

// AttributeOption 商品属性选项（来自商品目录，只读）
type AttributeOption struct {
	Name  string       `json:"name"`
	Unit  string       `json:"unit"`
	Price models.Money `json:"price"`
	Image string       `json:"image,omitempty"`
}

// CatalogItem 商品目录快照（外部查询结果）
type CatalogItem struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Thumbnail        string            `json:"thumbnail"`
	BasePrice        models.Money      `json:"base_price"`
	AttributeOptions []AttributeOption `json:"attribute_options"`
}

// Validate 校验目录数据，边界处拒绝残缺数据而不是静默补默认值
func (c CatalogItem) Validate() error {
	if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Name) == "" {
		return ErrInvalidCatalogItem
	}
	if c.BasePrice.Decimal.IsNegative() {
		return ErrInvalidCatalogItem
	}
	seen := make(map[string]struct{}, len(c.AttributeOptions))
	for _, option := range c.AttributeOptions {
		name := strings.TrimSpace(option.Name)
		if name == "" || option.Price.Decimal.IsNegative() {
			return ErrInvalidCatalogItem
		}
		if _, ok := seen[name]; ok {
			return ErrInvalidCatalogItem
		}
		seen[name] = struct{}{}
	}
	return nil
}

// FindOption 按名称查找属性选项
func (c CatalogItem) FindOption(name string) (AttributeOption, bool) {
	target := strings.TrimSpace(name)
	for _, option := range c.AttributeOptions {
		if strings.TrimSpace(option.Name) == target {
			return option, true
		}
	}
	return AttributeOption{}, false
}

// AttributeSelection 选中属性的价格快照，不引用目录实时数据
type AttributeSelection struct {
	Name  string       `json:"name"`
	Unit  string       `json:"unit"`
	Price models.Money `json:"price"`
	Image string       `json:"image,omitempty"`
}

// SelectionFromOption 由属性选项生成快照
func SelectionFromOption(option AttributeOption) AttributeSelection {
	return AttributeSelection{
		Name:  strings.TrimSpace(option.Name),
		Unit:  option.Unit,
		Price: option.Price.Normalized(),
		Image: option.Image,
	}
}

// LineItem 草稿订单行
// 不变式：LineTotal == UnitPrice * Quantity，Quantity >= 1
type LineItem struct {
	ProductID          string               `json:"product_id"`
	Name               string               `json:"name"`
	Thumbnail          string               `json:"thumbnail"`
	BasePrice          models.Money         `json:"base_price"`
	SelectedAttributes []AttributeSelection `json:"selected_attributes"`
	UnitPrice          models.Money         `json:"unit_price"`
	Quantity           int                  `json:"quantity"`
	LineTotal          models.Money         `json:"line_total"`
}

func (item LineItem) withTotals() LineItem {
	item.UnitPrice = item.UnitPrice.Normalized()
	item.LineTotal = models.NewMoneyFromDecimal(item.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
	return item
}

func (item LineItem) clone() LineItem {
	if item.SelectedAttributes != nil {
		item.SelectedAttributes = append([]AttributeSelection(nil), item.SelectedAttributes...)
	}
	return item
}

// CustomerInfo 客户信息，缺省为空（散客）
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Note    string `json:"note,omitempty"`
}

// Normalize 去除首尾空白
func (c CustomerInfo) Normalize() CustomerInfo {
	return CustomerInfo{
		Name:    strings.TrimSpace(c.Name),
		Phone:   strings.TrimSpace(c.Phone),
		Email:   strings.TrimSpace(c.Email),
		Address: strings.TrimSpace(c.Address),
		Note:    strings.TrimSpace(c.Note),
	}
}

// Draft 草稿订单（一个标签页）
type Draft struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	LineItems   LineItems     `json:"line_items"`
	Customer    *CustomerInfo `json:"customer,omitempty"`
	Discount    *Discount     `json:"discount,omitempty"`
	ShippingFee models.Money  `json:"shipping_fee"`
	IsActive    bool          `json:"is_active"`
}

// CustomerOrWalkIn 返回客户信息，未填写时返回空值（散客）
func (d Draft) CustomerOrWalkIn() CustomerInfo {
	if d.Customer == nil {
		return CustomerInfo{}
	}
	return *d.Customer
}

// Summary 计算草稿汇总
func (d Draft) Summary() OrderSummary {
	return Summarize(d.LineItems, d.Discount, d.ShippingFee)
}

func (d Draft) clone() Draft {
	d.LineItems = d.LineItems.clone()
	if d.Customer != nil {
		customer := *d.Customer
		d.Customer = &customer
	}
	if d.Discount != nil {
		discount := d.Discount.clone()
		d.Discount = &discount
	}
	return d
}
