package signature

import (
	"errors"
	"fmt"
)

// ErrCorrupt is wrapped by a CodecError when the wire data is structurally
// invalid rather than truncated.
var ErrCorrupt = errors.New("corrupt signature data")

// CodecError is the only error kind raised by this package. It always
// wraps the underlying cause.
type CodecError struct {
	Op  string // "encode" or "decode"
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("signature %s: %v", e.Op, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

// ioError carries a failure out of the recursive readers and writers.
type ioError struct{ err error }

func corruptf(format string, args ...interface{}) ioError {
	return ioError{fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))}
}

// catch converts a panicking ioError into a CodecError.
func catch(op string, err *error) {
	x := recover()
	if x == nil {
		return
	}
	ioErr, ok := x.(ioError)
	if !ok {
		panic(x)
	}
	*err = &CodecError{Op: op, Err: ioErr.err}
}
