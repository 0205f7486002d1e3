package logic

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewError_setsKindAndMessage(t *testing.T) {
	err := NewError(KindAmountExceeded, "too many")
	if err.Kind != KindAmountExceeded {
		t.Errorf("expected KindAmountExceeded, got %v", err.Kind)
	}
	if err.Error() != "too many" {
		t.Errorf("expected 'too many', got %q", err.Error())
	}
}

func TestError_Is_comparesByKind(t *testing.T) {
	custom := NewError(KindSKUNotSelected, "pick something")
	if !errors.Is(custom, ErrSKUNotSelected) {
		t.Error("expected errors with the same kind to match")
	}
	if errors.Is(custom, ErrAmountExceeded) {
		t.Error("expected errors with different kinds not to match")
	}

	wrapped := fmt.Errorf("reducer: %w", ErrFailedToAddSKUToBag)
	if !errors.Is(wrapped, ErrFailedToAddSKUToBag) {
		t.Error("expected wrapped error to match")
	}
}

func TestErrorKind_Status(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want StatusCode
	}{
		{KindSKUNotSelected, StatusFailedPrecondition},
		{KindOperationInProgress, StatusFailedPrecondition},
		{KindAmountExceeded, StatusOutOfRange},
		{KindFailedToAddSKUToBag, StatusUnavailable},
	}
	for _, tt := range tests {
		if got := tt.kind.Status(); got != tt.want {
			t.Errorf("%s.Status() = %s, want %s", tt.kind, got, tt.want)
		}
	}
}

func TestErrorKind_String_returnsLabel(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindSKUNotSelected, "SKUNotSelected"},
		{KindOperationInProgress, "OperationInProgress"},
		{KindAmountExceeded, "AmountExceeded"},
		{KindFailedToAddSKUToBag, "FailedToAddSKUToBag"},
		{ErrorKind(0), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestStatusCode_String_returnsLabel(t *testing.T) {
	tests := []struct {
		code StatusCode
		want string
	}{
		{StatusFailedPrecondition, "FAILED_PRECONDITION"},
		{StatusOutOfRange, "OUT_OF_RANGE"},
		{StatusUnavailable, "UNAVAILABLE"},
		{StatusCode(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("StatusCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestAddToBagState_String(t *testing.T) {
	tests := []struct {
		state AddToBagState
		want  string
	}{
		{Add, "add"},
		{Adding, "adding"},
		{Added, "added"},
		{AddToBagState(7), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("AddToBagState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
