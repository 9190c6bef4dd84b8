package service

import "errors"

var (
	// ErrForbidden means the requester holds the right role but not the
	// resource, e.g. a seller touching another seller's product.
	ErrForbidden    = errors.New("requester does not own this resource")
	ErrInvalidInput = errors.New("invalid input")
)
