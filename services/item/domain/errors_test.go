package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_NonNil(t *testing.T) {
	for _, err := range []error{
		ErrItemNotFound, ErrInvalidItemID, ErrMissingFields,
		ErrInvalidFilter, ErrEmptyUpdate, ErrStorage,
	} {
		if err == nil {
			t.Fatal("sentinel error must not be nil")
		}
	}
}

func TestSentinelErrors_Messages(t *testing.T) {
	if ErrItemNotFound.Error() != "item not found" {
		t.Fatalf("unexpected message: %q", ErrItemNotFound.Error())
	}
	if ErrInvalidItemID.Error() != "invalid id" {
		t.Fatalf("unexpected message: %q", ErrInvalidItemID.Error())
	}
	if ErrStorage.Error() != "database error" {
		t.Fatalf("unexpected message: %q", ErrStorage.Error())
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	if errors.Is(ErrItemNotFound, ErrStorage) || errors.Is(ErrStorage, ErrItemNotFound) {
		t.Fatal("not-found and storage errors must be distinct")
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", ErrItemNotFound)
	if !errors.Is(wrapped, ErrItemNotFound) {
		t.Fatal("errors.Is must match wrapped ErrItemNotFound")
	}

	wrapped2 := fmt.Errorf("%w: %w", ErrStorage, errors.New("connection refused"))
	if !errors.Is(wrapped2, ErrStorage) {
		t.Fatal("errors.Is must match double-wrapped ErrStorage")
	}
}
