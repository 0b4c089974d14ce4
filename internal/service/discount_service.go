package service

import (
	"context"
	"strings"
	"time"

	"github.com/dujiao-next/order-desk/internal/composer"
	"github.com/dujiao-next/order-desk/internal/constants"
	"github.com/dujiao-next/order-desk/internal/logger"
	"github.com/dujiao-next/order-desk/internal/repository"
)

// DiscountResolver 优惠码解析（草稿引擎的外部协作者）
type DiscountResolver interface {
	Resolve(ctx context.Context, code string) (composer.Discount, error)
}

// DiscountService 优惠码服务
type DiscountService struct {
	couponRepo repository.CouponRepository
	now        func() time.Time
}

// NewDiscountService 创建优惠码服务
func NewDiscountService(couponRepo repository.CouponRepository) *DiscountService {
	return &DiscountService{couponRepo: couponRepo, now: time.Now}
}

// Resolve 解析优惠码为折扣快照
// 未知、停用、过期或查询失败的优惠码降级为无类型快照，汇总时折扣为 0
func (s *DiscountService) Resolve(ctx context.Context, code string) (composer.Discount, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return composer.Discount{}, ErrDiscountCodeRequired
	}
	unresolved := composer.Discount{Code: normalized}
	if err := ctx.Err(); err != nil {
		return composer.Discount{}, err
	}

	coupon, err := s.couponRepo.GetByCode(normalized)
	if err != nil {
		logger.Warnw("discount_resolve_failed", "code", normalized, "error", err)
		return unresolved, nil
	}
	if coupon == nil || !coupon.UsableAt(s.now()) {
		return unresolved, nil
	}

	discountType := strings.ToLower(strings.TrimSpace(coupon.Type))
	switch discountType {
	case constants.DiscountTypePercentage, constants.DiscountTypeFixed:
	default:
		logger.Warnw("discount_type_unknown", "code", normalized, "type", coupon.Type)
		return unresolved, nil
	}

	discount := composer.Discount{
		Code:  normalized,
		Type:  discountType,
		Value: coupon.Value.Normalized(),
	}
	if coupon.MaxDiscount.Decimal.IsPositive() {
		maxAmount := coupon.MaxDiscount.Normalized()
		discount.MaxAmount = &maxAmount
	}
	return discount, nil
}
