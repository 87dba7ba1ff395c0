package cast

import "fmt"

// AlignmentError reports a cast whose start address does not satisfy the
// target type's alignment. Residue is the address modulo Align.
type AlignmentError struct {
	Align   int
	Residue int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("bad alignment: required alignment is %d, address is off by %d", e.Align, e.Residue)
}

// SizeMismatchError reports a bytes-to-reference cast whose input length is
// not exactly the target type's size.
type SizeMismatchError struct {
	Want int
	Got  int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("size mismatch: expected %d byte(s), got %d", e.Want, e.Got)
}

// ZeroSizedTypeError reports a counted conversion attempted against a type
// with zero size, for which no per-element byte count exists.
type ZeroSizedTypeError struct {
	Type string
}

func (e *ZeroSizedTypeError) Error() string {
	return fmt.Sprintf("zero-sized type: %s has no representable element width", e.Type)
}
