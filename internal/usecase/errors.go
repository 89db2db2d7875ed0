package usecase

import "errors"

// Error kinds surfaced by the core operations. The HTTP layer maps
// these to transport statuses; nothing below the usecases leaks out.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrConflict         = errors.New("conflict")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternal         = errors.New("internal error")
)
