package engine

import (
	"errors"

	"github.com/tartampluch/go-lifestats/internal/config"
)

// Error taxonomy of the engine. Callers match with errors.Is; the engine wraps
// these with context but never replaces them.
var (
	// ErrInvalidInput reports a missing, malformed or future birth value.
	ErrInvalidInput = errors.New(config.ErrInvalidInput)

	// ErrInvalidRange reports a birth instant later than the "now" it is measured against.
	ErrInvalidRange = errors.New(config.ErrInvalidRange)

	// ErrInvalidInterval reports a non-positive refresh interval.
	ErrInvalidInterval = errors.New(config.ErrInvalidInterval)
)
