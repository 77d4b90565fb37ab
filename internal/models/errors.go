package models

import "errors"

var (
	// ErrAlreadyApplied is returned when a line is applied to inventory twice.
	ErrAlreadyApplied = errors.New("line already applied to inventory")

	// ErrNotMatched is returned when applying a line that has no inventory match.
	ErrNotMatched = errors.New("line is not matched to an inventory item")

	// ErrNotFound is returned when an inventory item does not exist.
	ErrNotFound = errors.New("inventory item not found")

	// ErrInvalidLine is returned for lines that violate the API contract
	// (nil input, negative application quantity).
	ErrInvalidLine = errors.New("invalid line")

	// ErrUnknownVendorType is returned when no handler is registered for a vendor type.
	ErrUnknownVendorType = errors.New("unknown vendor type")
)
