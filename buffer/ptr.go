package buffer

import "unsafe"

// PtrBuffer is an unowned view over a raw address range. It never
// allocates, frees, or relocates the memory it points at; the caller is
// responsible for keeping the region alive and sized as declared.
//
// PtrBuffer values are cheap to copy. Copies alias the same memory.
type PtrBuffer struct {
	ptr  unsafe.Pointer
	size int
}

// NewPtrBuffer builds a view over size bytes starting at ptr.
func NewPtrBuffer(ptr unsafe.Pointer, size int) *PtrBuffer {
	return &PtrBuffer{ptr: ptr, size: size}
}

// PtrFromBytes builds a view aliasing the given slice's storage.
func PtrFromBytes(data []byte) *PtrBuffer {
	return &PtrBuffer{ptr: unsafe.Pointer(unsafe.SliceData(data)), size: len(data)}
}

// Len returns the view's size in bytes.
func (b *PtrBuffer) Len() int { return b.size }

// Ptr returns the view's base address.
func (b *PtrBuffer) Ptr() unsafe.Pointer { return b.ptr }

// Bytes returns the viewed memory as a byte slice aliasing the base
// address.
func (b *PtrBuffer) Bytes() []byte {
	return unsafe.Slice((*byte)(b.ptr), b.size)
}

// SetPtr repoints the view at a new base address, keeping its size.
func (b *PtrBuffer) SetPtr(ptr unsafe.Pointer) { b.ptr = ptr }

// SetSize redeclares the view's size, keeping its base address.
func (b *PtrBuffer) SetSize(size int) { b.size = size }

// SubBuffer returns a new view over size bytes of b starting at offset.
// The requested range must lie entirely within b.
func (b *PtrBuffer) SubBuffer(offset, size int) (*PtrBuffer, error) {
	p, err := OffsetToPtr(b, offset)
	if err != nil {
		return nil, err
	}
	if end := offset + size; end > b.size {
		return nil, &OutOfBoundsError{Boundary: b.size, Attempted: end}
	}
	return &PtrBuffer{ptr: p, size: size}, nil
}

// SplitAt divides b into two adjacent views at mid: the first holds bytes
// [0, mid), the second [mid, Len). Fails with an OutOfBoundsError when mid
// exceeds the view.
func (b *PtrBuffer) SplitAt(mid int) (*PtrBuffer, *PtrBuffer, error) {
	if mid > b.size {
		return nil, nil, &OutOfBoundsError{Boundary: b.size, Attempted: mid}
	}
	left := &PtrBuffer{ptr: b.ptr, size: mid}
	right := &PtrBuffer{ptr: unsafe.Add(b.ptr, mid), size: b.size - mid}
	return left, right, nil
}
