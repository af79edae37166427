package domain

import "errors"

// Sentinel errors for the item domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidItemID indicates the path identifier is not a 24-character hex token.
	ErrInvalidItemID = errors.New("invalid id")

	// ErrMissingFields indicates a create or replace body lacks a required field.
	ErrMissingFields = errors.New("missing fields")

	// ErrInvalidFilter indicates a list query parameter could not be interpreted.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrEmptyUpdate indicates a partial update carried no fields to set.
	ErrEmptyUpdate = errors.New("no fields to update")

	// ErrStorage wraps every failure reported by the storage collaborator.
	ErrStorage = errors.New("database error")
)
