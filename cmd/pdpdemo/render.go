package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/PeqNP/CommandAndControl/catalog"
	"github.com/PeqNP/CommandAndControl/command"
	"github.com/PeqNP/CommandAndControl/viewstate"
)

// describe renders a command as one line of text.
func describe(c command.Command) string {
	switch c := c.(type) {
	case command.Update:
		return "update: " + describePDP(c.ViewState)
	case command.ShowLoadingIndicator:
		return "loading: show"
	case command.HideLoadingIndicator:
		return "loading: hide"
	case command.ShowShippingInfo:
		var methods []string
		for _, m := range c.ViewState.Methods {
			methods = append(methods, fmt.Sprintf("%s %s (%s)", m.Name, m.Cost, m.Estimate))
		}
		return fmt.Sprintf("shipping: %s [%s]", c.ViewState.Summary, strings.Join(methods, ", "))
	case command.ShowMoreInfo:
		return "more info"
	case command.ShowImageGallery:
		return "image gallery"
	case command.RouteToPDP:
		return fmt.Sprintf("route: product %d", c.ProductID)
	case command.ShowError:
		return "error: " + c.Err.Error()
	default:
		return fmt.Sprintf("%T", c)
	}
}

func describePDP(vs viewstate.PDPViewState) string {
	selection := "no selection"
	if vs.SelectedSKU != nil {
		selection = fmt.Sprintf("%s %s", vs.SelectedSKU.Title, vs.SelectedSKU.PriceLabel)
	} else if vs.SelectedColor != nil || vs.SelectedSize != nil {
		var parts []string
		if vs.SelectedColor != nil {
			parts = append(parts, vs.SelectedColor.Name)
		}
		if vs.SelectedSize != nil {
			parts = append(parts, vs.SelectedSize.Name)
		}
		selection = strings.Join(parts, " / ") + " (unavailable)"
	}
	return fmt.Sprintf("%s | %s | qty %s | %s | [%s]",
		vs.ProductName, vs.PriceLabel, vs.AmountToAddToBag, selection, vs.AddToBagTitle)
}

func printCatalog(w io.Writer, cat *catalog.Catalog, f *viewstate.DefaultFactory) {
	for _, p := range cat.Products() {
		fmt.Fprintf(w, "%d  %s  %s\n", p.ID, p.Name, f.NormalPriceLabel(p.Price))
		for _, sku := range p.SKUs {
			fmt.Fprintf(w, "    %d  %s / %s  %s\n", sku.ID, sku.Color.Name, sku.Size.Name, f.PriceLabel(sku.Price))
		}
	}
}
