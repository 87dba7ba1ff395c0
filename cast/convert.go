package cast

import (
	"fmt"
	"unsafe"
)

// zeroBase anchors references to zero-sized types. Its address is valid and
// never dereferenced for more than zero bytes.
var zeroBase struct{}

// RefToBytes reinterprets data as a byte slice of exactly unsafe.Sizeof(*data)
// bytes, sharing the value's storage. A zero-sized T yields an empty slice.
// Panics if T is not castable.
func RefToBytes[T any](data *T) []byte {
	assertCastable[T]()
	return unsafe.Slice((*byte)(unsafe.Pointer(data)), unsafe.Sizeof(*data))
}

// SliceToBytes reinterprets data as a byte slice of Sizeof(T)*len(data)
// bytes, sharing the slice's storage. Returns a ZeroSizedTypeError when T
// has zero size, since no element boundary could be represented in the
// output. Panics if T is not castable.
func SliceToBytes[T any](data []T) ([]byte, error) {
	assertCastable[T]()
	var zero T
	size := unsafe.Sizeof(zero)
	if size == 0 {
		return nil, &ZeroSizedTypeError{Type: fmt.Sprintf("%T", zero)}
	}
	ptr := (*byte)(unsafe.Pointer(unsafe.SliceData(data)))
	return unsafe.Slice(ptr, uintptr(len(data))*size), nil
}

// BytesToRef reinterprets data in place as a *T. Returns a SizeMismatchError
// unless len(data) equals Sizeof(T), and an AlignmentError unless the slice
// start satisfies Alignof(T). A zero-sized T degenerates to an always-valid
// empty access. Panics if T is not castable.
//
// The returned pointer aliases data: writes through it mutate the backing
// storage directly, and it remains valid only while that storage does.
func BytesToRef[T any](data []byte) (*T, error) {
	assertCastable[T]()
	var zero T
	size := unsafe.Sizeof(zero)
	if uintptr(len(data)) != size {
		return nil, &SizeMismatchError{Want: int(size), Got: len(data)}
	}
	if size == 0 {
		return (*T)(unsafe.Pointer(&zeroBase)), nil
	}
	ptr := unsafe.Pointer(unsafe.SliceData(data))
	align := unsafe.Alignof(zero)
	if residue := uintptr(ptr) % align; residue != 0 {
		return nil, &AlignmentError{Align: int(align), Residue: int(residue)}
	}
	return (*T)(ptr), nil
}
