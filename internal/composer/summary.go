package composer

import (
	"strings"

	"github.com/dujiao-next/order-desk/internal/constants"
	"github.com/dujiao-next/order-desk/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Discount 折扣快照（应用优惠码时解析得到）
// Type 为空表示无法识别的优惠码，折扣为 0
type Discount struct {
	Code      string        `json:"code"`
	Type      string        `json:"type"`
	Value     models.Money  `json:"value"`
	MaxAmount *models.Money `json:"max_amount,omitempty"`
}

func (d Discount) clone() Discount {
	if d.MaxAmount != nil {
		maxAmount := *d.MaxAmount
		d.MaxAmount = &maxAmount
	}
	return d
}

// Recognized 是否为可识别的折扣类型
func (d Discount) Recognized() bool {
	switch strings.ToLower(strings.TrimSpace(d.Type)) {
	case constants.DiscountTypePercentage, constants.DiscountTypeFixed:
		return true
	default:
		return false
	}
}

// OrderSummary 订单汇总（派生数据，不存储）
type OrderSummary struct {
	Subtotal       models.Money `json:"subtotal"`
	DiscountAmount models.Money `json:"discount_amount"`
	ShippingFee    models.Money `json:"shipping_fee"`
	Total          models.Money `json:"total"`
}

// Summarize 计算汇总
// total = max(0, subtotal - discount) + shipping；折扣额被限制在 [0, subtotal]
func Summarize(items []LineItem, discount *Discount, shippingFee models.Money) OrderSummary {
	subtotal := decimal.Zero
	for _, line := range items {
		subtotal = subtotal.Add(line.LineTotal.Decimal)
	}
	shipping := shippingFee.Decimal
	if shipping.IsNegative() {
		shipping = decimal.Zero
	}
	discountAmount := ResolveDiscountAmount(discount, models.NewMoneyFromDecimal(subtotal)).Decimal
	total := subtotal.Sub(discountAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return OrderSummary{
		Subtotal:       models.NewMoneyFromDecimal(subtotal),
		DiscountAmount: models.NewMoneyFromDecimal(discountAmount),
		ShippingFee:    models.NewMoneyFromDecimal(shipping),
		Total:          models.NewMoneyFromDecimal(total.Add(shipping)),
	}
}

// ResolveDiscountAmount 根据折扣快照计算折扣额，无法识别时返回 0
func ResolveDiscountAmount(discount *Discount, subtotal models.Money) models.Money {
	if discount == nil || !subtotal.Decimal.IsPositive() {
		return models.Money{}
	}
	value := discount.Value.Decimal
	if !value.IsPositive() {
		return models.Money{}
	}
	var amount decimal.Decimal
	switch strings.ToLower(strings.TrimSpace(discount.Type)) {
	case constants.DiscountTypePercentage:
		amount = subtotal.Decimal.Mul(value).Div(hundred)
		if discount.MaxAmount != nil && discount.MaxAmount.Decimal.IsPositive() && amount.GreaterThan(discount.MaxAmount.Decimal) {
			amount = discount.MaxAmount.Decimal
		}
	case constants.DiscountTypeFixed:
		amount = value
	default:
		return models.Money{}
	}
	if amount.GreaterThan(subtotal.Decimal) {
		amount = subtotal.Decimal
	}
	return models.NewMoneyFromDecimal(amount)
}
