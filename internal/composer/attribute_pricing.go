package composer

import (
	"strings"

	"github.com/dujiao-next/order-desk/internal/models"
)

// ResolveAttributePrice 计算有效单价
// 规则：取最后选中属性的价格（非累加、非取最大）；未选属性时回落到基础价
func ResolveAttributePrice(basePrice models.Money, selections []AttributeSelection) models.Money {
	if len(selections) == 0 {
		return basePrice.Normalized()
	}
	return selections[len(selections)-1].Price.Normalized()
}

// AttributePicker 属性切换器
// 选中集合按切入顺序保存，重复选择同一属性会将其移除
type AttributePicker struct {
	basePrice models.Money
	item      CatalogItem
	chosen    []AttributeSelection
}

// NewAttributePicker 基于目录项和当前已选快照创建切换器
func NewAttributePicker(product CatalogItem, current []AttributeSelection) *AttributePicker {
	return &AttributePicker{
		basePrice: product.BasePrice.Normalized(),
		item:      CatalogItem{ID: product.ID, AttributeOptions: append([]AttributeOption(nil), product.AttributeOptions...)},
		chosen:    append([]AttributeSelection{}, current...),
	}
}

// Toggle 切换属性选中状态，返回切换后是否处于选中
func (p *AttributePicker) Toggle(name string) (bool, error) {
	target := strings.TrimSpace(name)
	for i, selection := range p.chosen {
		if selection.Name == target {
			p.chosen = append(p.chosen[:i:i], p.chosen[i+1:]...)
			return false, nil
		}
	}
	option, ok := p.item.FindOption(target)
	if !ok {
		return false, ErrAttributeNotFound
	}
	p.chosen = append(p.chosen, SelectionFromOption(option))
	return true, nil
}

// Selections 当前选中属性（按切入顺序）
func (p *AttributePicker) Selections() []AttributeSelection {
	return append([]AttributeSelection{}, p.chosen...)
}

// EffectivePrice 当前有效单价
func (p *AttributePicker) EffectivePrice() models.Money {
	return ResolveAttributePrice(p.basePrice, p.chosen)
}
