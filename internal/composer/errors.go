package composer

import "errors"

var (
	ErrDraftNotFound        = errors.New("draft not found")
	ErrLineItemNotFound     = errors.New("line item not found")
	ErrAttributeNotFound    = errors.New("attribute option not found")
	ErrInvalidCatalogItem   = errors.New("invalid catalog item")
	ErrEmptyCart            = errors.New("draft has no line items")
	ErrCustomerNameRequired = errors.New("customer name is required")
	ErrInvalidShippingFee   = errors.New("shipping fee must not be negative")
	ErrStaleResult          = errors.New("async result target is gone")
	ErrSubmitInProgress     = errors.New("draft submission in progress")
	ErrUnsupportedVersion   = errors.New("unsupported persisted draft version")
)
