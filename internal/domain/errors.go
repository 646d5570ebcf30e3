package domain

import "errors"

// Sentinel errors shared between the store layer and the handlers.
// They are wrapped with fmt.Errorf("%w") on the way up and matched
// with errors.Is at the HTTP boundary.
var (
	// ErrNotFound indicates a referenced id did not resolve. HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken indicates the registration email is already in use.
	ErrEmailTaken = errors.New("email already registered")
)
