package buffer

import (
	"fmt"
	"unsafe"
)

// IOError wraps the underlying filesystem error from the file-boundary
// operations (FromFile, Save).
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return "i/o error: " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// OutOfBoundsError reports an access whose requested range exceeds the
// buffer boundary. Boundary is the buffer length, Attempted the offending
// offset or end offset.
type OutOfBoundsError struct {
	Boundary  int
	Attempted int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("out of bounds: boundary is %#x, got %#x instead", e.Boundary, e.Attempted)
}

// InvalidPointerError reports a pointer that does not fall within the
// buffer's own address range.
type InvalidPointerError struct {
	Ptr unsafe.Pointer
}

func (e *InvalidPointerError) Error() string {
	return fmt.Sprintf("invalid pointer: %p", e.Ptr)
}
