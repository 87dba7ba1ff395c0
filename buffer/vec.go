package buffer

import (
	"os"
	"slices"
	"unsafe"

	"github.com/quickwritereader/bytecast/cast"
)

// VecBuffer owns a growable byte store and exposes it through the Buffer
// contract.
//
// Invalidation contract: any operation that can change the store's length
// (Append, AppendRef, AppendSlice, Insert, Remove, Retain, Push, Pop,
// Clear, SplitOff, Resize, ResizeWith, Truncate, Dedup) may relocate the
// backing array. Every pointer, reference, and slice previously obtained
// from this buffer is invalid after such a call; holding one across a
// structural operation is a caller error the library cannot detect.
type VecBuffer struct {
	data []byte
}

// NewVecBuffer returns an empty owned buffer.
func NewVecBuffer() *VecBuffer {
	return &VecBuffer{}
}

// FromData returns an owned buffer initialized with a copy of data.
func FromData(data []byte) *VecBuffer {
	return &VecBuffer{data: slices.Clone(data)}
}

// WithSize returns an owned buffer of size bytes, all zero.
func WithSize(size int) *VecBuffer {
	return &VecBuffer{data: make([]byte, size)}
}

// FromFile reads the whole file at path into a new owned buffer, wrapping
// any filesystem error in an IOError.
func FromFile(path string) (*VecBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Err: err}
	}
	return &VecBuffer{data: data}, nil
}

// Len returns the buffer's size in bytes.
func (v *VecBuffer) Len() int { return len(v.data) }

// Ptr returns the buffer's base address. The address is stable only until
// the next structural operation.
func (v *VecBuffer) Ptr() unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(v.data))
}

// Bytes returns the backing storage.
func (v *VecBuffer) Bytes() []byte { return v.data }

// AsPtrBuffer returns an unowned view over the current storage. The view
// is subject to the same invalidation contract as every other derived
// pointer.
func (v *VecBuffer) AsPtrBuffer() *PtrBuffer {
	return NewPtrBuffer(v.Ptr(), v.Len())
}

// Append grows the buffer by copying data onto its end.
func (v *VecBuffer) Append(data []byte) {
	v.data = append(v.data, data...)
}

// AppendRef appends the raw bytes of *data and returns a reference to the
// appended copy inside the buffer. The returned reference is checked the
// same way GetRef checks it, so an append landing at a misaligned offset
// fails with a cast.AlignmentError (the bytes stay appended).
// Panics if T is not castable.
func AppendRef[T any](v *VecBuffer, data *T) (*T, error) {
	offset := v.Len()
	v.Append(cast.RefToBytes(data))
	return GetRef[T](v, offset)
}

// AppendSlice appends the raw bytes of data and returns a slice aliasing
// the appended copy, under the same checking rules as AppendRef.
func AppendSlice[T any](v *VecBuffer, data []T) ([]T, error) {
	view, err := cast.SliceToBytes(data)
	if err != nil {
		return nil, err
	}
	offset := v.Len()
	v.Append(view)
	return GetSlice[T](v, offset, len(data))
}

// Insert places value at offset, shifting later bytes right. Like slice
// indexing, it panics when offset is outside [0, Len].
func (v *VecBuffer) Insert(offset int, value byte) {
	v.data = slices.Insert(v.data, offset, value)
}

// Remove deletes and returns the byte at offset, shifting later bytes
// left. Panics when offset is out of range.
func (v *VecBuffer) Remove(offset int) byte {
	value := v.data[offset]
	v.data = slices.Delete(v.data, offset, offset+1)
	return value
}

// Retain keeps only the bytes for which keep returns true, preserving
// order.
func (v *VecBuffer) Retain(keep func(byte) bool) {
	v.data = slices.DeleteFunc(v.data, func(c byte) bool { return !keep(c) })
}

// Push appends a single byte.
func (v *VecBuffer) Push(value byte) {
	v.data = append(v.data, value)
}

// Pop removes and returns the last byte. The second result is false when
// the buffer is empty.
func (v *VecBuffer) Pop() (byte, bool) {
	if len(v.data) == 0 {
		return 0, false
	}
	value := v.data[len(v.data)-1]
	v.data = v.data[:len(v.data)-1]
	return value, true
}

// Clear empties the buffer, keeping its capacity.
func (v *VecBuffer) Clear() {
	v.data = v.data[:0]
}

// SplitOff removes the bytes from at onward into a newly owned buffer,
// leaving [0, at) behind. Panics when at is outside [0, Len].
func (v *VecBuffer) SplitOff(at int) *VecBuffer {
	tail := slices.Clone(v.data[at:])
	v.data = v.data[:at]
	return &VecBuffer{data: tail}
}

// Resize changes the length to size, filling any new bytes with value.
func (v *VecBuffer) Resize(size int, value byte) {
	if size <= len(v.data) {
		v.data = v.data[:size]
		return
	}
	for len(v.data) < size {
		v.data = append(v.data, value)
	}
}

// ResizeWith changes the length to size, filling any new bytes with
// successive results of f.
func (v *VecBuffer) ResizeWith(size int, f func() byte) {
	if size <= len(v.data) {
		v.data = v.data[:size]
		return
	}
	for len(v.data) < size {
		v.data = append(v.data, f())
	}
}

// Truncate shortens the buffer to size bytes. A size at or beyond the
// current length leaves the buffer unchanged.
func (v *VecBuffer) Truncate(size int) {
	if size < len(v.data) {
		v.data = v.data[:size]
	}
}

// Dedup removes consecutive repeated bytes, keeping the first of each run.
func (v *VecBuffer) Dedup() {
	v.data = slices.Compact(v.data)
}
