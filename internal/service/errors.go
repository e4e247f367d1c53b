package service

import "errors"

var (
	// ErrNotFound is returned when no student has the requested id.
	ErrNotFound = errors.New("student not found")

	// ErrInvalidInput is returned when a value cannot be coerced to its field type.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoData is returned by summaries that are undefined on an empty table.
	ErrNoData = errors.New("no student data")
)
