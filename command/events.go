package command

import "github.com/PeqNP/CommandAndControl/catalog"

// Event is something the page tells the orchestrator. The set is closed.
type Event interface {
	isEvent()
}

// Configure loads a product into the page. It must come before any other event.
type Configure struct {
	Product catalog.Product
}

// ViewReady asks for the current view state.
type ViewReady struct{}

// SelectSize selects a size option.
type SelectSize struct {
	Size catalog.SKUSize
}

// SelectColor selects a colour swatch.
type SelectColor struct {
	Color catalog.SKUColor
}

// IncreaseAmount adds one to the quantity.
type IncreaseAmount struct{}

// DecreaseAmount removes one from the quantity.
type DecreaseAmount struct{}

// SetAmount sets the quantity directly, for example from a picker.
type SetAmount struct {
	Amount int
}

// AddToBagTapped asks to add the selected SKU to the bag.
type AddToBagTapped struct{}

// RequestShippingInfo asks for the product's delivery options.
type RequestShippingInfo struct{}

// TappedMoreInfo asks for the product description.
type TappedMoreInfo struct{}

// TappedCarouselImage asks for the image gallery.
type TappedCarouselImage struct{}

// TappedRecommendedProduct opens another product's page.
type TappedRecommendedProduct struct {
	ProductID catalog.ProductID
}

func (Configure) isEvent()                {}
func (ViewReady) isEvent()                {}
func (SelectSize) isEvent()               {}
func (SelectColor) isEvent()              {}
func (IncreaseAmount) isEvent()           {}
func (DecreaseAmount) isEvent()           {}
func (SetAmount) isEvent()                {}
func (AddToBagTapped) isEvent()           {}
func (RequestShippingInfo) isEvent()      {}
func (TappedMoreInfo) isEvent()           {}
func (TappedCarouselImage) isEvent()      {}
func (TappedRecommendedProduct) isEvent() {}
