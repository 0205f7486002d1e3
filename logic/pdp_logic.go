package logic

import (
	"context"

	"github.com/PeqNP/CommandAndControl/catalog"
	"github.com/PeqNP/CommandAndControl/deferred"
)

// BagService places SKUs in the shopper's bag.
type BagService interface {
	AddToBag(ctx context.Context, skuID catalog.SKUID, quantity int) *deferred.Deferred[catalog.BagReceipt]
}

// PDPLogic owns the state of one product detail page. Every operation
// returns the resulting state, or the unchanged state and an *Error.
//
// PDPLogic is not safe for concurrent use; the page drives it from a single
// thread of control.
type PDPLogic struct {
	bag   BagService
	state State
}

// New creates the logic for a freshly loaded product.
func New(bag BagService, product catalog.Product) *PDPLogic {
	return NewFromState(bag, NewState(product))
}

// NewFromState creates the logic starting from an existing snapshot.
func NewFromState(bag BagService, state State) *PDPLogic {
	return &PDPLogic{bag: bag, state: state}
}

// State returns the current snapshot.
func (l *PDPLogic) State() State {
	return l.state
}

// ProductID returns the id of the product on the page.
func (l *PDPLogic) ProductID() catalog.ProductID {
	return l.state.ProductID
}

// SelectedSKUID returns the id of the selected SKU, if any.
func (l *PDPLogic) SelectedSKUID() (catalog.SKUID, bool) {
	if l.state.SelectedSKU == nil {
		return 0, false
	}
	return l.state.SelectedSKU.ID, true
}

func (l *PDPLogic) commit(next State) State {
	l.state = next
	return next
}

// SelectColor selects a colour and resolves the SKU for it and the selected size.
func (l *PDPLogic) SelectColor(color catalog.SKUColor) (State, error) {
	return l.commit(l.state.withSelection(&color, l.state.SelectedSize)), nil
}

// SelectSize selects a size and resolves the SKU for it and the selected colour.
func (l *PDPLogic) SelectSize(size catalog.SKUSize) (State, error) {
	return l.commit(l.state.withSelection(l.state.SelectedColor, &size)), nil
}

// IncreaseAmount adds one to the amount, rejecting amounts past the maximum.
func (l *PDPLogic) IncreaseAmount() (State, error) {
	amount := l.state.AmountToAddToBag + 1
	if err := RequireBelow(amount, MaxAmountToAddToBag+1, ErrAmountExceeded); err != nil {
		return l.state, err
	}
	return l.commit(l.state.with(func(next *State) {
		next.AmountToAddToBag = amount
	})), nil
}

// DecreaseAmount removes one from the amount. At the minimum it does nothing.
func (l *PDPLogic) DecreaseAmount() (State, error) {
	amount := l.state.AmountToAddToBag - 1
	if amount < MinAmountToAddToBag {
		return l.state, nil
	}
	return l.commit(l.state.with(func(next *State) {
		next.AmountToAddToBag = amount
	})), nil
}

// SetAmount sets the amount, clamped to the allowed range.
func (l *PDPLogic) SetAmount(amount int) (State, error) {
	amount = min(max(amount, MinAmountToAddToBag), MaxAmountToAddToBag)
	if amount == l.state.AmountToAddToBag {
		return l.state, nil
	}
	return l.commit(l.state.with(func(next *State) {
		next.AmountToAddToBag = amount
	})), nil
}

// BeginAddToBag moves the page into Adding and asks the bag service to add
// the selected SKU. The returned Deferred settles with the service's answer,
// which the caller reports back through CompleteAddToBag.
func (l *PDPLogic) BeginAddToBag(ctx context.Context) (State, *deferred.Deferred[catalog.BagReceipt], error) {
	if err := RequireAddToBagStateNot(l.state.AddToBagState, Adding, ErrOperationInProgress); err != nil {
		return l.state, nil, err
	}
	if err := RequireSelected(l.state); err != nil {
		return l.state, nil, err
	}

	next := l.commit(l.state.with(func(next *State) {
		next.AddToBagState = Adding
	}))
	pending := l.bag.AddToBag(ctx, next.SelectedSKU.ID, next.AmountToAddToBag)
	return next, pending, nil
}

// CompleteAddToBag records the outcome of the bag request. Success moves
// Adding to Added.
//
// Unlike the other operations, a failure returns a changed state and an error
// together: Adding moves back to Add and ErrFailedToAddSKUToBag is returned
// with it, so the page can both redraw the button and warn. A failure outside
// Adding returns the unchanged state with the same error. A success outside
// Adding leaves the state alone.
func (l *PDPLogic) CompleteAddToBag(success bool) (State, error) {
	if l.state.AddToBagState != Adding {
		if success {
			return l.state, nil
		}
		return l.state, ErrFailedToAddSKUToBag
	}
	if success {
		return l.commit(l.state.with(func(next *State) {
			next.AddToBagState = Added
		})), nil
	}
	return l.commit(l.state.with(func(next *State) {
		next.AddToBagState = Add
	})), ErrFailedToAddSKUToBag
}

// ResetAddToBagState moves Added back to Add once the confirmation has been
// shown. Any other state is left alone, so a late reset cannot interrupt a
// newer request.
func (l *PDPLogic) ResetAddToBagState() (State, error) {
	if l.state.AddToBagState != Added {
		return l.state, nil
	}
	return l.commit(l.state.with(func(next *State) {
		next.AddToBagState = Add
	})), nil
}
