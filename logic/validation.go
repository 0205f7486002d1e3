package logic

// RequireSelected checks that a SKU has been resolved from the selection.
func RequireSelected(s State) *Error {
	if s.SelectedSKU == nil {
		return ErrSKUNotSelected
	}
	return nil
}

// RequireAddToBagStateNot checks that the add-to-bag state is NOT the forbidden value.
func RequireAddToBagStateNot(actual, forbidden AddToBagState, err *Error) *Error {
	if actual == forbidden {
		return err
	}
	return nil
}

// RequireBelow checks that value is strictly below limit.
func RequireBelow(value, limit int, err *Error) *Error {
	if value >= limit {
		return err
	}
	return nil
}
