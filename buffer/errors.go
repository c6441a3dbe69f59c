package buffer

import "errors"

var (
	// ErrNegativeSize indicates a negative length or an operation on a free pool slot.
	ErrNegativeSize = errors.New("buffer: negative size")

	// ErrCapacity indicates the requested size exceeds MaxCapacity.
	ErrCapacity = errors.New("buffer: capacity ceiling exceeded")

	// ErrPoolExhausted indicates every pool slot is in use and no new slot can be added.
	ErrPoolExhausted = errors.New("buffer: pool exhausted")

	// ErrNotPooled indicates a buffer that was not handed out by the pool.
	ErrNotPooled = errors.New("buffer: not a pool slot")
)
