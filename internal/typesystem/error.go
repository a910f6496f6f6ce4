package typesystem

import (
	"errors"
	"fmt"
)

// ErrInvalidAlgebra is matched by every InvalidAlgebraError.
var ErrInvalidAlgebra = errors.New("invalid type algebra")

// InvalidAlgebraError reports a construction or mutation that breaks the
// closed-variant invariants (empty union, mutating a read-only synthetic node).
type InvalidAlgebraError struct {
	Op     string
	Reason string
}

func (e *InvalidAlgebraError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *InvalidAlgebraError) Is(target error) bool {
	return target == ErrInvalidAlgebra
}

func newInvalidAlgebra(op, format string, args ...interface{}) *InvalidAlgebraError {
	return &InvalidAlgebraError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
