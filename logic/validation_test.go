package logic

import (
	"testing"

	"github.com/PeqNP/CommandAndControl/catalog"
)

func TestRequireSelected_FailsWithoutSKU(t *testing.T) {
	err := RequireSelected(State{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Kind != KindSKUNotSelected {
		t.Errorf("expected KindSKUNotSelected, got %v", err.Kind)
	}
}

func TestRequireSelected_PassesWithSKU(t *testing.T) {
	if err := RequireSelected(State{SelectedSKU: &catalog.SKU{ID: 1}}); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestRequireAddToBagStateNot(t *testing.T) {
	if err := RequireAddToBagStateNot(Add, Adding, ErrOperationInProgress); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := RequireAddToBagStateNot(Adding, Adding, ErrOperationInProgress); err != ErrOperationInProgress {
		t.Errorf("expected ErrOperationInProgress, got %v", err)
	}
}

func TestRequireBelow(t *testing.T) {
	if err := RequireBelow(99, 100, ErrAmountExceeded); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := RequireBelow(100, 100, ErrAmountExceeded); err == nil {
		t.Fatal("expected error, got nil")
	}
}
