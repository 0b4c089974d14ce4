package service

import (
	"errors"

	"github.com/dujiao-next/order-desk/internal/composer"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAdminNotFound         = errors.New("admin not found")
	ErrTokenRevoked          = errors.New("token revoked")
	ErrAdminDisabled         = errors.New("admin disabled")
	ErrCaptchaDisabled       = errors.New("captcha disabled")
	ErrCaptchaRequired       = errors.New("captcha required")
	ErrCaptchaInvalid        = errors.New("captcha invalid")
	ErrProductNotFound       = errors.New("product not found")
	ErrProductFetchFailed    = errors.New("product fetch failed")
	ErrInvalidCatalogPayload = errors.New("catalog payload rejected")
	ErrDiscountCodeRequired  = errors.New("discount code is required")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrSubmissionFailed      = errors.New("order submission failed")
	ErrOrderNotFound         = errors.New("order not found")
)

// 草稿引擎错误直接透出，便于 handler 统一映射
var (
	ErrDraftNotFound        = composer.ErrDraftNotFound
	ErrLineItemNotFound     = composer.ErrLineItemNotFound
	ErrAttributeNotFound    = composer.ErrAttributeNotFound
	ErrEmptyCart            = composer.ErrEmptyCart
	ErrCustomerNameRequired = composer.ErrCustomerNameRequired
	ErrInvalidShippingFee   = composer.ErrInvalidShippingFee
	ErrStaleResult          = composer.ErrStaleResult
	ErrSubmitInProgress     = composer.ErrSubmitInProgress
)
