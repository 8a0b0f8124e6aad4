package domain

import "errors"

// Error kinds shared across packages. Callers match them with errors.Is;
// the wrapping message carries the detail.
var (
	// ErrFileNotFound is returned when an input location does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrParse is returned when a timestamp, number or CSV record cannot be decoded.
	ErrParse = errors.New("parse error")

	// ErrSchema is returned when a required column is missing.
	ErrSchema = errors.New("schema error")

	// ErrInsufficientData is returned when there are too few rows to split or fit.
	ErrInsufficientData = errors.New("insufficient data")
)
