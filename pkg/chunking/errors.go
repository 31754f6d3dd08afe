package chunking

import "errors"

var (
	// ErrInvalidConfig is returned for configuration the engine cannot
	// safely auto-correct, e.g. min_chunk_size > max_chunk_size.
	ErrInvalidConfig = errors.New("invalid chunking configuration")

	// ErrUnknownStrategy is returned when strategy_override names no
	// registered strategy.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrNoChunks is the internal reason a strategy run is treated as
	// failed by the fallback cascade; it never reaches the caller.
	ErrNoChunks = errors.New("strategy produced no chunks")

	// ErrSelectionExhausted indicates every strategy including the
	// universal one failed. Seeing it means an engine defect, not a
	// user error.
	ErrSelectionExhausted = errors.New("all strategies failed")
)
