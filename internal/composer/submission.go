package composer

import "strings"

// SubmitRequest 提交给外部下单接口的数据
type SubmitRequest struct {
	DraftID   string       `json:"draft_id"`
	LineItems []LineItem   `json:"line_items"`
	Customer  CustomerInfo `json:"customer"`
	Discount  *Discount    `json:"discount,omitempty"`
	Summary   OrderSummary `json:"summary"`
}

// ValidateForSubmission 提交前校验
// 未填写客户信息视为散客；一旦填写则姓名必填
func ValidateForSubmission(d Draft) error {
	if len(d.LineItems) == 0 {
		return ErrEmptyCart
	}
	if d.Customer != nil && strings.TrimSpace(d.Customer.Name) == "" {
		return ErrCustomerNameRequired
	}
	return nil
}

// BuildSubmitRequest 校验并构建提交请求
func BuildSubmitRequest(d Draft) (SubmitRequest, error) {
	if err := ValidateForSubmission(d); err != nil {
		return SubmitRequest{}, err
	}
	d = d.clone()
	var discount *Discount
	if d.Discount != nil {
		snapshot := d.Discount.clone()
		discount = &snapshot
	}
	return SubmitRequest{
		DraftID:   d.ID,
		LineItems: d.LineItems,
		Customer:  d.CustomerOrWalkIn().Normalize(),
		Discount:  discount,
		Summary:   d.Summary(),
	}, nil
}

// ToggleAttribute 切换草稿中某订单行的属性并重算单价
func ToggleAttribute(d Draft, product CatalogItem, attributeName string) (Draft, error) {
	line, ok := d.LineItems.Find(product.ID)
	if !ok {
		return d, ErrLineItemNotFound
	}
	// 基础价沿用加入时的快照
	picker := NewAttributePicker(CatalogItem{
		ID:               line.ProductID,
		BasePrice:        line.BasePrice,
		AttributeOptions: product.AttributeOptions,
	}, line.SelectedAttributes)
	if _, err := picker.Toggle(attributeName); err != nil {
		return d, err
	}
	d.LineItems = d.LineItems.ApplyAttributeSelection(line.ProductID, picker.Selections(), picker.EffectivePrice())
	return d, nil
}
