// Package logic provides the pure business logic behind a product detail
// page: the page state, and the operations that move it from one snapshot
// to the next. It has no UI or transport dependencies and can be tested in
// isolation.
package logic

import "github.com/PeqNP/CommandAndControl/catalog"

// Amount bounds for the quantity selector.
const (
	MinAmountToAddToBag = 1
	MaxAmountToAddToBag = 99
)

// AddToBagState is the lifecycle of the add-to-bag button.
type AddToBagState int

const (
	Add AddToBagState = iota
	Adding
	Added
)

func (s AddToBagState) String() string {
	switch s {
	case Add:
		return "add"
	case Adding:
		return "adding"
	case Added:
		return "added"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of a product detail page. Every accepted
// operation produces a new State; none is ever modified in place. SKUs is
// shared between snapshots and must be treated as read-only.
type State struct {
	ProductID   catalog.ProductID
	ProductName string
	Price       catalog.NormalPrice
	SKUs        []catalog.SKU

	AmountToAddToBag int
	AddToBagState    AddToBagState
	SelectedColor    *catalog.SKUColor
	SelectedSize     *catalog.SKUSize
	SelectedSKU      *catalog.SKU // always the SKU matching SelectedColor and SelectedSize
}

// NewState creates the initial state for a product.
func NewState(product catalog.Product) State {
	skus := make([]catalog.SKU, len(product.SKUs))
	copy(skus, product.SKUs)
	return State{
		ProductID:        product.ID,
		ProductName:      product.Name,
		Price:            product.Price,
		SKUs:             skus,
		AmountToAddToBag: MinAmountToAddToBag,
		AddToBagState:    Add,
	}
}

// HasSelectedSKU reports whether the current selection resolves to a SKU.
func (s State) HasSelectedSKU() bool {
	return s.SelectedSKU != nil
}

// IsAdding reports whether an add-to-bag request is in flight.
func (s State) IsAdding() bool {
	return s.AddToBagState == Adding
}

// with returns a copy of s with change applied to it.
func (s State) with(change func(next *State)) State {
	next := s
	change(&next)
	return next
}

// withSelection returns a copy of s with a new colour and size, and the SKU
// they resolve to.
func (s State) withSelection(color *catalog.SKUColor, size *catalog.SKUSize) State {
	return s.with(func(next *State) {
		next.SelectedColor = color
		next.SelectedSize = size
		next.SelectedSKU = resolveSKU(s.SKUs, color, size)
	})
}

func resolveSKU(skus []catalog.SKU, color *catalog.SKUColor, size *catalog.SKUSize) *catalog.SKU {
	if color == nil || size == nil {
		return nil
	}
	sku, ok := catalog.FindSKU(skus, *color, *size)
	if !ok {
		return nil
	}
	return &sku
}
