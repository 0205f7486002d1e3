// Package catalog holds the immutable product model shown on a product
// detail page: products, their purchasable variants (SKUs) and pricing.
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductID identifies a product.
type ProductID int64

// SKUID identifies a purchasable variant of a product.
type SKUID int64

// PriceKind discriminates the Price variants.
type PriceKind int

const (
	PriceRegular PriceKind = iota
	PriceSale
)

func (k PriceKind) String() string {
	switch k {
	case PriceRegular:
		return "regular"
	case PriceSale:
		return "sale"
	default:
		return "unknown"
	}
}

// Price is either a regular amount or a sale with the previous amount.
type Price struct {
	Kind   PriceKind
	Amount decimal.Decimal // what the buyer pays now
	Was    decimal.Decimal // only meaningful for PriceSale
}

// Regular creates a regular price.
func Regular(amount decimal.Decimal) Price {
	return Price{Kind: PriceRegular, Amount: amount}
}

// Sale creates a sale price.
func Sale(was, now decimal.Decimal) Price {
	return Price{Kind: PriceSale, Amount: now, Was: was}
}

// Current returns the amount a buyer pays.
func (p Price) Current() decimal.Decimal {
	return p.Amount
}

// IsSale reports whether the price is discounted.
func (p Price) IsSale() bool {
	return p.Kind == PriceSale
}

// Equal reports whether two prices have the same kind and amounts.
func (p Price) Equal(other Price) bool {
	if p.Kind != other.Kind || !p.Amount.Equal(other.Amount) {
		return false
	}
	return p.Kind != PriceSale || p.Was.Equal(other.Was)
}

// Validate checks that amounts are non-negative and a sale does not raise the price.
func (p Price) Validate() error {
	if p.Amount.IsNegative() {
		return fmt.Errorf("%s: %s", ErrMsgNegativePrice, p.Amount)
	}
	if p.Kind == PriceSale && p.Amount.GreaterThan(p.Was) {
		return fmt.Errorf("%s: was %s, now %s", ErrMsgSaleAboveWas, p.Was, p.Amount)
	}
	return nil
}

// NormalPriceKind discriminates the NormalPrice variants.
type NormalPriceKind int

const (
	PriceSingle NormalPriceKind = iota
	PriceRange
)

// NormalPrice is the advertised price of a product: one price, or a range
// across its SKUs.
type NormalPrice struct {
	Kind NormalPriceKind
	From Price
	To   Price // only meaningful for PriceRange
}

// Single creates a NormalPrice with one price.
func Single(p Price) NormalPrice {
	return NormalPrice{Kind: PriceSingle, From: p}
}

// Range creates a NormalPrice spanning two prices.
func Range(from, to Price) NormalPrice {
	return NormalPrice{Kind: PriceRange, From: from, To: to}
}

// Equal reports whether two normal prices are the same.
func (n NormalPrice) Equal(other NormalPrice) bool {
	if n.Kind != other.Kind || !n.From.Equal(other.From) {
		return false
	}
	return n.Kind != PriceRange || n.To.Equal(other.To)
}

// SKUColor is a colour option. ImageURL is empty when the colour has no swatch image.
type SKUColor struct {
	Name     string
	ImageURL string
}

// SKUSize is a size option. MetaDescription is empty when absent.
type SKUSize struct {
	Name            string
	MetaDescription string
}

// SKU is a purchasable variant of a product.
type SKU struct {
	ID    SKUID
	Color SKUColor
	Size  SKUSize
	Price Price
}

// Product is created once per page load and never modified.
type Product struct {
	ID    ProductID
	Name  string
	Price NormalPrice
	SKUs  []SKU
}

// SKUFor returns the SKU with the given colour and size.
func (p Product) SKUFor(color SKUColor, size SKUSize) (SKU, bool) {
	return FindSKU(p.SKUs, color, size)
}

// FindSKU returns the first SKU in skus matching colour and size.
func FindSKU(skus []SKU, color SKUColor, size SKUSize) (SKU, bool) {
	for _, sku := range skus {
		if sku.Color == color && sku.Size == size {
			return sku, true
		}
	}
	return SKU{}, false
}

// Colors lists the distinct colours in first-seen order.
func (p Product) Colors() []SKUColor {
	return DistinctColors(p.SKUs)
}

// Sizes lists the distinct sizes in first-seen order.
func (p Product) Sizes() []SKUSize {
	return DistinctSizes(p.SKUs)
}

// DistinctColors lists the colours used by skus in first-seen order.
func DistinctColors(skus []SKU) []SKUColor {
	seen := make(map[SKUColor]bool)
	var colors []SKUColor
	for _, sku := range skus {
		if !seen[sku.Color] {
			seen[sku.Color] = true
			colors = append(colors, sku.Color)
		}
	}
	return colors
}

// DistinctSizes lists the sizes used by skus in first-seen order.
func DistinctSizes(skus []SKU) []SKUSize {
	seen := make(map[SKUSize]bool)
	var sizes []SKUSize
	for _, sku := range skus {
		if !seen[sku.Size] {
			seen[sku.Size] = true
			sizes = append(sizes, sku.Size)
		}
	}
	return sizes
}

// Validate rejects products whose SKU list is ambiguous.
func (p Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("product %d: %s", p.ID, ErrMsgProductNameRequired)
	}
	ids := make(map[SKUID]bool, len(p.SKUs))
	type variant struct {
		color SKUColor
		size  SKUSize
	}
	pairs := make(map[variant]SKUID, len(p.SKUs))
	for _, sku := range p.SKUs {
		if ids[sku.ID] {
			return fmt.Errorf("product %d: %s: %d", p.ID, ErrMsgDuplicateSKUID, sku.ID)
		}
		ids[sku.ID] = true

		key := variant{sku.Color, sku.Size}
		if other, ok := pairs[key]; ok {
			return fmt.Errorf("product %d: %s: SKUs %d and %d share %s/%s",
				p.ID, ErrMsgDuplicateVariant, other, sku.ID, sku.Color.Name, sku.Size.Name)
		}
		pairs[key] = sku.ID

		if err := sku.Price.Validate(); err != nil {
			return fmt.Errorf("product %d: sku %d: %w", p.ID, sku.ID, err)
		}
	}
	return nil
}
