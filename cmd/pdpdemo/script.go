package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PeqNP/CommandAndControl/catalog"
	"github.com/PeqNP/CommandAndControl/command"
)

// step is one scripted action: an event to send, or a pause.
type step struct {
	event command.Event
	wait  time.Duration
}

// parseScript turns run arguments into steps. Colour and size names are
// matched case-insensitively against the product.
func parseScript(tokens []string, product catalog.Product) ([]step, error) {
	steps := make([]step, 0, len(tokens))
	for _, tok := range tokens {
		s, err := parseToken(tok, product)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", tok, err)
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func parseToken(tok string, product catalog.Product) (step, error) {
	name, arg, hasArg := strings.Cut(tok, "=")
	switch strings.ToLower(name) {
	case "ready":
		return step{event: command.ViewReady{}}, nil
	case "+", "inc":
		return step{event: command.IncreaseAmount{}}, nil
	case "-", "dec":
		return step{event: command.DecreaseAmount{}}, nil
	case "add":
		return step{event: command.AddToBagTapped{}}, nil
	case "shipping":
		return step{event: command.RequestShippingInfo{}}, nil
	case "more-info":
		return step{event: command.TappedMoreInfo{}}, nil
	case "gallery":
		return step{event: command.TappedCarouselImage{}}, nil
	}

	if !hasArg {
		return step{}, fmt.Errorf("unknown event")
	}
	switch strings.ToLower(name) {
	case "color", "colour":
		for _, c := range product.Colors() {
			if strings.EqualFold(c.Name, arg) {
				return step{event: command.SelectColor{Color: c}}, nil
			}
		}
		return step{}, fmt.Errorf("product has no colour %q", arg)
	case "size":
		for _, s := range product.Sizes() {
			if strings.EqualFold(s.Name, arg) {
				return step{event: command.SelectSize{Size: s}}, nil
			}
		}
		return step{}, fmt.Errorf("product has no size %q", arg)
	case "amount":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return step{}, fmt.Errorf("invalid amount: %w", err)
		}
		return step{event: command.SetAmount{Amount: n}}, nil
	case "recommended":
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return step{}, fmt.Errorf("invalid product id: %w", err)
		}
		return step{event: command.TappedRecommendedProduct{ProductID: catalog.ProductID(id)}}, nil
	case "wait":
		d, err := time.ParseDuration(arg)
		if err != nil {
			return step{}, fmt.Errorf("invalid duration: %w", err)
		}
		return step{wait: d}, nil
	default:
		return step{}, fmt.Errorf("unknown event")
	}
}
