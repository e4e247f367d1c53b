package storage

import "errors"

var (
	// ErrUnavailable is returned when the backing store cannot be read or written.
	ErrUnavailable = errors.New("student storage unavailable")

	// ErrMalformed is returned when stored data cannot be decoded into students.
	ErrMalformed = errors.New("malformed student table")
)
