package catalog

import "errors"

// Error message constants for catalog validation.
const (
	ErrMsgProductNameRequired = "product name is required"
	ErrMsgDuplicateSKUID      = "duplicate SKU id"
	ErrMsgDuplicateVariant    = "duplicate colour/size pair"
	ErrMsgDuplicateProductID  = "duplicate product id"
	ErrMsgNegativePrice       = "price must not be negative"
	ErrMsgSaleAboveWas        = "sale price exceeds previous price"
	ErrMsgInvalidAmount       = "invalid amount"
	ErrMsgPriceRequired       = "price needs either regular or sale"
)

var (
	// ErrProductNotFound is returned when a product id is not in the catalog.
	ErrProductNotFound = errors.New("product not found")
	// ErrSKUNotFound is returned when a SKU id is not in the catalog.
	ErrSKUNotFound = errors.New("sku not found")
)
