// Package viewstate turns PDP state into the display-ready values a page
// renders. Every function here is pure.
package viewstate

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/PeqNP/CommandAndControl/catalog"
	"github.com/PeqNP/CommandAndControl/logic"
)

// DefaultCurrencySymbol prefixes every amount unless configured otherwise.
const DefaultCurrencySymbol = "$"

// Button titles for each add-to-bag state.
const (
	TitleAddToBag = "Add to Bag"
	TitleAdding   = "Adding..."
	TitleAdded    = "Added!"
)

// ColorViewState is one colour swatch.
type ColorViewState struct {
	Name      string
	ImageURL  string
	Selected  bool
	Available bool // a SKU exists for this colour and the selected size
}

// SizeViewState is one size option.
type SizeViewState struct {
	Name            string
	MetaDescription string
	Selected        bool
	Available       bool // a SKU exists for this size and the selected colour
}

// SKUViewState summarises the selected SKU.
type SKUViewState struct {
	ID         catalog.SKUID
	Title      string
	PriceLabel string
	OnSale     bool
}

// PDPViewState is everything the page needs to draw itself.
type PDPViewState struct {
	ProductName      string
	PriceLabel       string
	AmountToAddToBag string
	Colors           []ColorViewState
	Sizes            []SizeViewState
	SelectedColor    *ColorViewState
	SelectedSize     *SizeViewState
	SelectedSKU      *SKUViewState
	AddToBagState    logic.AddToBagState
	AddToBagTitle    string
	CanIncrease      bool
	CanDecrease      bool
	CanAddToBag      bool
}

// ShippingMethodViewState is one delivery option.
type ShippingMethodViewState struct {
	Name     string
	Cost     string
	Estimate string
	Cheapest bool
}

// ShippingInfoViewState lists the delivery options for the product.
type ShippingInfoViewState struct {
	ProductID catalog.ProductID
	Methods   []ShippingMethodViewState
	Summary   string
}

// Factory builds view states.
type Factory interface {
	// PDP projects page state into a PDPViewState.
	PDP(state logic.State) PDPViewState

	// ShippingInfo projects delivery options into a ShippingInfoViewState.
	ShippingInfo(info catalog.ShippingInfo) ShippingInfoViewState
}

// DefaultFactory is the default implementation of Factory.
type DefaultFactory struct {
	CurrencySymbol string
}

// NewFactory creates a Factory. An empty symbol falls back to
// DefaultCurrencySymbol.
func NewFactory(currencySymbol string) Factory {
	if currencySymbol == "" {
		currencySymbol = DefaultCurrencySymbol
	}
	return &DefaultFactory{CurrencySymbol: currencySymbol}
}

// PDP projects page state into a PDPViewState.
func (f *DefaultFactory) PDP(state logic.State) PDPViewState {
	vs := PDPViewState{
		ProductName:      state.ProductName,
		PriceLabel:       f.NormalPriceLabel(state.Price),
		AmountToAddToBag: strconv.Itoa(state.AmountToAddToBag),
		AddToBagState:    state.AddToBagState,
		AddToBagTitle:    AddToBagTitle(state.AddToBagState),
		CanIncrease:      !state.IsAdding() && state.AmountToAddToBag < logic.MaxAmountToAddToBag,
		CanDecrease:      !state.IsAdding() && state.AmountToAddToBag > logic.MinAmountToAddToBag,
		CanAddToBag:      !state.IsAdding() && state.HasSelectedSKU(),
	}

	for _, color := range catalog.DistinctColors(state.SKUs) {
		swatch := ColorViewState{
			Name:      color.Name,
			ImageURL:  color.ImageURL,
			Selected:  state.SelectedColor != nil && *state.SelectedColor == color,
			Available: available(state.SKUs, &color, state.SelectedSize),
		}
		vs.Colors = append(vs.Colors, swatch)
		if swatch.Selected {
			selected := swatch
			vs.SelectedColor = &selected
		}
	}

	for _, size := range catalog.DistinctSizes(state.SKUs) {
		option := SizeViewState{
			Name:            size.Name,
			MetaDescription: size.MetaDescription,
			Selected:        state.SelectedSize != nil && *state.SelectedSize == size,
			Available:       available(state.SKUs, state.SelectedColor, &size),
		}
		vs.Sizes = append(vs.Sizes, option)
		if option.Selected {
			selected := option
			vs.SelectedSize = &selected
		}
	}

	if sku := state.SelectedSKU; sku != nil {
		vs.SelectedSKU = &SKUViewState{
			ID:         sku.ID,
			Title:      fmt.Sprintf("%s / %s", sku.Color.Name, sku.Size.Name),
			PriceLabel: f.PriceLabel(sku.Price),
			OnSale:     sku.Price.IsSale(),
		}
	}
	return vs
}

// ShippingInfo projects delivery options into a ShippingInfoViewState.
func (f *DefaultFactory) ShippingInfo(info catalog.ShippingInfo) ShippingInfoViewState {
	vs := ShippingInfoViewState{ProductID: info.ProductID}

	cheapest, ok := info.Cheapest()
	if !ok {
		vs.Summary = "Shipping unavailable"
		return vs
	}

	for _, m := range info.Methods {
		vs.Methods = append(vs.Methods, ShippingMethodViewState{
			Name:     m.Name,
			Cost:     f.costLabel(m.Cost),
			Estimate: estimate(m.MinDays, m.MaxDays),
			Cheapest: m.Name == cheapest.Name && m.Cost.Equal(cheapest.Cost),
		})
	}
	if cheapest.Cost.IsZero() {
		vs.Summary = "Free shipping available"
	} else {
		vs.Summary = "Shipping from " + f.Amount(cheapest.Cost)
	}
	return vs
}

// Amount formats an amount with the currency symbol and two decimals.
func (f *DefaultFactory) Amount(d decimal.Decimal) string {
	return f.CurrencySymbol + d.StringFixed(2)
}

// PriceLabel formats a single price. Sales show the previous amount.
func (f *DefaultFactory) PriceLabel(p catalog.Price) string {
	if p.IsSale() {
		return fmt.Sprintf("%s (was %s)", f.Amount(p.Current()), f.Amount(p.Was))
	}
	return f.Amount(p.Current())
}

// NormalPriceLabel formats the advertised product price.
func (f *DefaultFactory) NormalPriceLabel(n catalog.NormalPrice) string {
	if n.Kind == catalog.PriceRange {
		return fmt.Sprintf("%s - %s", f.Amount(n.From.Current()), f.Amount(n.To.Current()))
	}
	return f.PriceLabel(n.From)
}

func (f *DefaultFactory) costLabel(cost decimal.Decimal) string {
	if cost.IsZero() {
		return "Free"
	}
	return f.Amount(cost)
}

// AddToBagTitle returns the button title for an add-to-bag state.
func AddToBagTitle(s logic.AddToBagState) string {
	switch s {
	case logic.Adding:
		return TitleAdding
	case logic.Added:
		return TitleAdded
	default:
		return TitleAddToBag
	}
}

// available reports whether some SKU matches the given colour and size. A
// nil option matches anything.
func available(skus []catalog.SKU, color *catalog.SKUColor, size *catalog.SKUSize) bool {
	for _, sku := range skus {
		if color != nil && sku.Color != *color {
			continue
		}
		if size != nil && sku.Size != *size {
			continue
		}
		return true
	}
	return false
}

func estimate(minDays, maxDays int) string {
	switch {
	case maxDays <= 0:
		return ""
	case minDays == maxDays && minDays == 1:
		return "1 day"
	case minDays == maxDays || minDays <= 0:
		return fmt.Sprintf("%d days", maxDays)
	default:
		return fmt.Sprintf("%d-%d days", minDays, maxDays)
	}
}
