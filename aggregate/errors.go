package aggregate

import "errors"

// ErrSourcePanic wraps a panic recovered from a source.
var ErrSourcePanic = errors.New("source panicked")
