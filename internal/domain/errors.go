package domain

import "errors"

var (
	// ErrDuplicate signals that an entry with the same URL already exists.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrNotFound signals that no entry matched the given key.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated signals an operation that requires an identity
	// was attempted without one.
	ErrUnauthenticated = errors.New("authentication required")
)
