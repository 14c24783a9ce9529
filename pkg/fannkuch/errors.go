package fannkuch

import "errors"

var (
	// ErrOutOfRange indicates n is outside [0, MaxN]; 13! does not fit a
	// 32-bit signed integer.
	ErrOutOfRange = errors.New("fannkuch: n must be between 0 and 12")
	// ErrInvalidChunks indicates a chunk target below 1.
	ErrInvalidChunks = errors.New("fannkuch: chunk count must be at least 1")
	// ErrIndexOutOfRange indicates a permutation index outside [0, n!).
	ErrIndexOutOfRange = errors.New("fannkuch: permutation index out of range")
	// ErrTaskOutOfRange indicates a task whose range is not within [0, n!].
	ErrTaskOutOfRange = errors.New("fannkuch: task range out of bounds")
)
