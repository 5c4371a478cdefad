package types

import "errors"

// Error taxonomy for the viability engine. Validation errors are raised
// before any upstream call or simulation begins. ErrUpstreamUnavailable is
// the only error expected to be transient; callers may retry the whole
// request. Everything else is deterministic for the same input.
var (
	ErrInvalidCoordinates       = errors.New("invalid coordinates")
	ErrInvalidSystemParameters  = errors.New("invalid system parameters")
	ErrInsufficientArea         = errors.New("insufficient area")
	ErrUpstreamUnavailable      = errors.New("all irradiation sources unavailable")
	ErrIRRNotFound              = errors.New("irr not found in solver range")
	ErrUnsupportedConsumerGroup = errors.New("unsupported consumer group")
)
