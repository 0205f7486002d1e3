package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingMethod is one way a product can be delivered.
type ShippingMethod struct {
	Name    string
	Cost    decimal.Decimal
	MinDays int
	MaxDays int
}

// ShippingInfo lists the delivery options for a product.
type ShippingInfo struct {
	ProductID ProductID
	Methods   []ShippingMethod
}

// Cheapest returns the lowest cost method, if any.
func (s ShippingInfo) Cheapest() (ShippingMethod, bool) {
	if len(s.Methods) == 0 {
		return ShippingMethod{}, false
	}
	best := s.Methods[0]
	for _, m := range s.Methods[1:] {
		if m.Cost.LessThan(best.Cost) {
			best = m
		}
	}
	return best, true
}

// BagReceipt confirms a SKU was placed in the shopping bag.
type BagReceipt struct {
	LineID   uuid.UUID
	SKUID    SKUID
	Quantity int
	Subtotal decimal.Decimal
}
