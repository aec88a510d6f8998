package feedrank

import "errors"

var (
	// ErrSourceDisabled is returned when a query names a source that is not enabled.
	ErrSourceDisabled = errors.New("source is disabled")

	// ErrInvalidQuery is returned for out-of-range query parameters.
	ErrInvalidQuery = errors.New("invalid query")
)
