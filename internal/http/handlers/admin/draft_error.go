package admin

import (
	"context"
	"errors"

	"github.com/dujiao-next/order-desk/internal/http/response"
	"github.com/dujiao-next/order-desk/internal/service"

	"github.com/gin-gonic/gin"
)

type draftErrorMapping struct {
	target error
	code   int
	key    string
	log    bool
}

// 按顺序匹配，首个命中的映射生效
var draftErrorMappings = []draftErrorMapping{
	{target: service.ErrDraftNotFound, code: response.CodeNotFound, key: "error.draft_not_found"},
	{target: service.ErrLineItemNotFound, code: response.CodeNotFound, key: "error.line_item_not_found"},
	{target: service.ErrAttributeNotFound, code: response.CodeBadRequest, key: "error.attribute_not_found"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrInvalidCatalogPayload, code: response.CodeBadGateway, key: "error.catalog_payload_invalid", log: true},
	{target: service.ErrProductFetchFailed, code: response.CodeInternal, key: "error.product_fetch_failed", log: true},
	{target: service.ErrDiscountCodeRequired, code: response.CodeBadRequest, key: "error.discount_code_required"},
	{target: service.ErrInvalidShippingFee, code: response.CodeBadRequest, key: "error.shipping_fee_invalid"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrCustomerNameRequired, code: response.CodeBadRequest, key: "error.customer_name_required"},
	{target: service.ErrSubmitInProgress, code: response.CodeConflict, key: "error.draft_submitting"},
	{target: service.ErrStaleResult, code: response.CodeConflict, key: "error.stale_result"},
	{target: context.Canceled, code: response.CodeConflict, key: "error.stale_result"},
	{target: service.ErrSubmissionFailed, code: response.CodeInternal, key: "error.order_submit_failed", log: true},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
}

// respondDraftError 将录单相关错误映射为业务码与文案
func respondDraftError(c *gin.Context, err error) {
	for _, mapping := range draftErrorMappings {
		if errors.Is(err, mapping.target) {
			if mapping.log {
				respondError(c, mapping.code, mapping.key, err)
				return
			}
			respondError(c, mapping.code, mapping.key, nil)
			return
		}
	}
	respondError(c, response.CodeInternal, "error.internal", err)
}
