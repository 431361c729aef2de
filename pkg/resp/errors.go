package resp

import (
	"errors"
	"fmt"
)

// Protocol limits. A declared length above them is treated as malformed.
const (
	// MaxArrayLen limits the number of elements of an array, set or map.
	MaxArrayLen = 1024 * 1024

	// MaxBulkLen limits the payload of a single bulk string (512MB, as Redis).
	MaxBulkLen = 512 * 1024 * 1024

	// MaxDepth limits how deeply arrays, sets and maps may nest.
	MaxDepth = 64

	// MaxLineLen limits simple strings and simple errors.
	MaxLineLen = 64 * 1024

	// maxHeaderLen bounds a type byte + signed 64-bit decimal.
	maxHeaderLen = 21
)

var (
	// ErrNotComplete means the buffer holds only a prefix of a frame.
	// Nothing was consumed; retry once more bytes are available.
	ErrNotComplete = errors.New("resp: frame not complete")

	// ErrMalformed means the input does not follow the RESP grammar.
	// The stream cannot be resynchronized.
	ErrMalformed = errors.New("resp: malformed frame")

	// ErrLimitExceeded is a malformed frame whose declared size exceeds a limit.
	ErrLimitExceeded = fmt.Errorf("%w: limit exceeded", ErrMalformed)
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformed}, args...)...)
}
