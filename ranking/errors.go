package ranking

import "errors"

var (
	// ErrInvalidMaxResults is returned when MaxResults is outside 1..50.
	ErrInvalidMaxResults = errors.New("max results must be between 1 and 50")

	// ErrInvalidRecencyWindow is returned for a negative recency window.
	ErrInvalidRecencyWindow = errors.New("recency window must not be negative")

	// ErrInvalidWeight is returned for a negative weight.
	ErrInvalidWeight = errors.New("weights must not be negative")
)
