// Package buffer implements bounds- and alignment-checked views over raw
// memory. A Buffer exposes three primitives (length, base pointer, byte
// view); every other operation is derived from those and works with any
// backend. Two backends ship with the package: PtrBuffer, a copyable view
// over memory the caller does not own, and VecBuffer, an owning growable
// byte container.
//
// Typed accessors reinterpret buffer regions in place through the cast
// package; no read or write ever escapes the buffer's bounds, and checked
// accessors refuse misaligned or undersized storage.
package buffer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"unicode/utf8"
	"unsafe"

	"github.com/quickwritereader/bytecast/cast"
)

// Buffer is the capability contract shared by all backends. Len reports the
// view's size in bytes, Ptr its base address, and Bytes the backing storage
// as a byte slice aliasing that address.
type Buffer interface {
	Len() int
	Ptr() unsafe.Pointer
	Bytes() []byte
}

// End returns the one-past-last address of b. The pointer is a boundary
// marker for range arithmetic and must never be dereferenced.
func End(b Buffer) unsafe.Pointer {
	return unsafe.Add(b.Ptr(), b.Len())
}

// ValidPtr reports whether p falls within b's address range.
func ValidPtr(b Buffer, p unsafe.Pointer) bool {
	return uintptr(p) >= uintptr(b.Ptr()) && uintptr(p) < uintptr(End(b))
}

// OffsetToPtr converts offset into an address within b. Returns an
// OutOfBoundsError when the offset is outside the buffer.
func OffsetToPtr(b Buffer, offset int) (unsafe.Pointer, error) {
	if offset < 0 || offset >= b.Len() {
		return nil, &OutOfBoundsError{Boundary: b.Len(), Attempted: offset}
	}
	return unsafe.Add(b.Ptr(), offset), nil
}

// PtrToOffset converts p back into an offset from b's base. Returns an
// InvalidPointerError when p does not belong to b.
func PtrToOffset(b Buffer, p unsafe.Pointer) (int, error) {
	if !ValidPtr(b, p) {
		return 0, &InvalidPointerError{Ptr: p}
	}
	return int(uintptr(p) - uintptr(b.Ptr())), nil
}

// RefToOffset resolves the offset of a reference previously carved from b.
func RefToOffset[T any](b Buffer, data *T) (int, error) {
	return PtrToOffset(b, unsafe.Pointer(data))
}

// SliceToOffset resolves the offset of a slice previously carved from b.
func SliceToOffset[T any](b Buffer, data []T) (int, error) {
	return PtrToOffset(b, unsafe.Pointer(unsafe.SliceData(data)))
}

// GetRef returns a *T aliasing the Sizeof(T) bytes of b at offset. The
// access is bounds- and alignment-checked; errors are OutOfBoundsError or
// cast.AlignmentError. Panics if T is not castable.
//
// The reference is valid only while the backing storage is neither
// relocated nor freed; see VecBuffer for the structural operations that
// invalidate it.
func GetRef[T any](b Buffer, offset int) (*T, error) {
	var zero T
	view, err := Read(b, offset, int(unsafe.Sizeof(zero)))
	if err != nil {
		return nil, err
	}
	return cast.BytesToRef[T](view)
}

// GetRefUnaligned is GetRef without the alignment check and without the
// castability requirement, since no certified-cast machinery is invoked.
// The caller accepts the consequences of a misaligned load on architectures
// that fault on one.
func GetRefUnaligned[T any](b Buffer, offset int) (*T, error) {
	p, err := OffsetToPtr(b, offset)
	if err != nil {
		return nil, err
	}
	var zero T
	if end := offset + int(unsafe.Sizeof(zero)); end > b.Len() {
		return nil, &OutOfBoundsError{Boundary: b.Len(), Attempted: end}
	}
	return (*T)(p), nil
}

// ForceGetRef tries the checked path first and falls back to the unaligned
// path only on an alignment failure, never on an out-of-bounds one.
func ForceGetRef[T any](b Buffer, offset int) (*T, error) {
	ref, err := GetRef[T](b, offset)
	if err != nil {
		var alignErr *cast.AlignmentError
		if errors.As(err, &alignErr) {
			return GetRefUnaligned[T](b, offset)
		}
		return nil, err
	}
	return ref, nil
}

// MakeRef re-derives a reference presumed to originate from b: it resolves
// data to an offset (InvalidPointerError if it does not belong to b) and
// performs a checked GetRef there.
func MakeRef[T any](b Buffer, data *T) (*T, error) {
	offset, err := RefToOffset(b, data)
	if err != nil {
		return nil, err
	}
	return GetRef[T](b, offset)
}

// MakeRefUnaligned is MakeRef through the unaligned access path.
func MakeRefUnaligned[T any](b Buffer, data *T) (*T, error) {
	offset, err := RefToOffset(b, data)
	if err != nil {
		return nil, err
	}
	return GetRefUnaligned[T](b, offset)
}

// ForceMakeRef is MakeRef with the ForceGetRef fallback rule.
func ForceMakeRef[T any](b Buffer, data *T) (*T, error) {
	offset, err := RefToOffset(b, data)
	if err != nil {
		return nil, err
	}
	return ForceGetRef[T](b, offset)
}

// GetSlice returns a []T of count elements aliasing b at offset. The region
// must hold Sizeof(T)*count bytes and start on T's alignment boundary.
// Zero-sized element types are rejected with a cast.ZeroSizedTypeError.
// Panics if T is not castable.
func GetSlice[T any](b Buffer, offset, count int) ([]T, error) {
	cast.MustDerive[T]()
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return nil, &cast.ZeroSizedTypeError{Type: fmt.Sprintf("%T", zero)}
	}
	p, err := OffsetToPtr(b, offset)
	if err != nil {
		return nil, err
	}
	real := size * count
	if real < 0 || offset+real > b.Len() {
		return nil, &OutOfBoundsError{Boundary: b.Len(), Attempted: offset + real}
	}
	align := unsafe.Alignof(zero)
	if residue := uintptr(p) % align; residue != 0 {
		return nil, &cast.AlignmentError{Align: int(align), Residue: int(residue)}
	}
	return unsafe.Slice((*T)(p), count), nil
}

// GetSliceUnaligned is GetSlice without the alignment check and without the
// castability requirement. See GetRefUnaligned for the contract.
func GetSliceUnaligned[T any](b Buffer, offset, count int) ([]T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return nil, &cast.ZeroSizedTypeError{Type: fmt.Sprintf("%T", zero)}
	}
	p, err := OffsetToPtr(b, offset)
	if err != nil {
		return nil, err
	}
	real := size * count
	if real < 0 || offset+real > b.Len() {
		return nil, &OutOfBoundsError{Boundary: b.Len(), Attempted: offset + real}
	}
	return unsafe.Slice((*T)(p), count), nil
}

// ForceGetSlice tries the checked path first and falls back to the
// unaligned path only on an alignment failure.
func ForceGetSlice[T any](b Buffer, offset, count int) ([]T, error) {
	s, err := GetSlice[T](b, offset, count)
	if err != nil {
		var alignErr *cast.AlignmentError
		if errors.As(err, &alignErr) {
			return GetSliceUnaligned[T](b, offset, count)
		}
		return nil, err
	}
	return s, nil
}

// MakeSlice re-derives a slice presumed to originate from b, in the manner
// of MakeRef.
func MakeSlice[T any](b Buffer, data []T) ([]T, error) {
	offset, err := SliceToOffset(b, data)
	if err != nil {
		return nil, err
	}
	return GetSlice[T](b, offset, len(data))
}

// MakeSliceUnaligned is MakeSlice through the unaligned access path.
func MakeSliceUnaligned[T any](b Buffer, data []T) ([]T, error) {
	offset, err := SliceToOffset(b, data)
	if err != nil {
		return nil, err
	}
	return GetSliceUnaligned[T](b, offset, len(data))
}

// ForceMakeSlice is MakeSlice with the ForceGetSlice fallback rule.
func ForceMakeSlice[T any](b Buffer, data []T) ([]T, error) {
	offset, err := SliceToOffset(b, data)
	if err != nil {
		return nil, err
	}
	return ForceGetSlice[T](b, offset, len(data))
}

// Read returns the size bytes of b at offset, aliasing the backing storage.
// Writes through the returned slice mutate the buffer directly.
func Read(b Buffer, offset, size int) ([]byte, error) {
	return GetSlice[byte](b, offset, size)
}

// Write copies data into b at offset. The destination range is validated
// before any byte moves; on failure the buffer is untouched.
func Write(b Buffer, offset int, data []byte) error {
	if _, err := OffsetToPtr(b, offset); err != nil {
		return err
	}
	if end := offset + len(data); end > b.Len() {
		return &OutOfBoundsError{Boundary: b.Len(), Attempted: end}
	}
	copy(b.Bytes()[offset:], data)
	return nil
}

// WriteRef writes the raw bytes of *data into b at offset.
// Panics if T is not castable.
func WriteRef[T any](b Buffer, offset int, data *T) error {
	return Write(b, offset, cast.RefToBytes(data))
}

// WriteSlice writes the raw bytes of data into b at offset, surfacing the
// cast package's conversion errors unchanged.
func WriteSlice[T any](b Buffer, offset int, data []T) error {
	view, err := cast.SliceToBytes(data)
	if err != nil {
		return err
	}
	return Write(b, offset, view)
}

// StartWith writes data at the very start of b.
func StartWith(b Buffer, data []byte) error {
	return Write(b, 0, data)
}

// StartWithRef writes the raw bytes of *data at the start of b.
func StartWithRef[T any](b Buffer, data *T) error {
	return StartWith(b, cast.RefToBytes(data))
}

// StartWithSlice writes the raw bytes of data at the start of b.
func StartWithSlice[T any](b Buffer, data []T) error {
	view, err := cast.SliceToBytes(data)
	if err != nil {
		return err
	}
	return StartWith(b, view)
}

// EndWith writes data so that it ends exactly at b's boundary. Fails with
// an OutOfBoundsError when the payload exceeds the buffer length.
func EndWith(b Buffer, data []byte) error {
	if len(data) > b.Len() {
		return &OutOfBoundsError{Boundary: b.Len(), Attempted: len(data)}
	}
	return Write(b, b.Len()-len(data), data)
}

// EndWithRef writes the raw bytes of *data at the end of b.
func EndWithRef[T any](b Buffer, data *T) error {
	return EndWith(b, cast.RefToBytes(data))
}

// EndWithSlice writes the raw bytes of data at the end of b.
func EndWithSlice[T any](b Buffer, data []T) error {
	view, err := cast.SliceToBytes(data)
	if err != nil {
		return err
	}
	return EndWith(b, view)
}

// Contains reports whether b contains the byte sequence data. The scan is
// the historical naive matcher: a cursor over data advances on each
// matching byte and resets to zero on any mismatch without re-examining the
// current byte. Kept bit-for-bit for compatibility; Search is the
// overlap-correct primitive.
func Contains(b Buffer, data []byte) bool {
	if len(data) > b.Len() {
		return false
	}
	hay := b.Bytes()
	offset := 0
	for i := 0; i < len(hay); i++ {
		if offset >= len(data) {
			break
		}
		if hay[i] != data[offset] {
			offset = 0
			continue
		}
		offset++
	}
	return offset == len(data)
}

// ContainsRef reports whether b contains the raw bytes of *data.
// Panics if T is not castable.
func ContainsRef[T any](b Buffer, data *T) bool {
	return Contains(b, cast.RefToBytes(data))
}

// ContainsSlice reports whether b contains the raw bytes of data, surfacing
// the cast package's conversion errors unchanged.
func ContainsSlice[T any](b Buffer, data []T) (bool, error) {
	view, err := cast.SliceToBytes(data)
	if err != nil {
		return false, err
	}
	return Contains(b, view), nil
}

// StartsWith reports whether b begins with needle.
func StartsWith(b Buffer, needle []byte) bool {
	return bytes.HasPrefix(b.Bytes(), needle)
}

// EndsWith reports whether b ends with needle.
func EndsWith(b Buffer, needle []byte) bool {
	return bytes.HasSuffix(b.Bytes(), needle)
}

// IsEmpty reports whether b holds no bytes.
func IsEmpty(b Buffer) bool {
	return b.Len() == 0
}

// Get returns the byte at offset. The second result is false when the
// offset is out of range.
func Get(b Buffer, offset int) (byte, bool) {
	if offset < 0 || offset >= b.Len() {
		return 0, false
	}
	return b.Bytes()[offset], true
}

// Clone copies b's contents into a fresh byte slice.
func Clone(b Buffer) []byte {
	return bytes.Clone(b.Bytes())
}

// Equal reports whether two buffers hold the same bytes.
func Equal(a, b Buffer) bool {
	return bytes.Equal(a.Bytes(), b.Bytes())
}

// Swap exchanges the bytes at offsets i and j. Like slice indexing, it
// panics when either offset is out of range.
func Swap(b Buffer, i, j int) {
	s := b.Bytes()
	s[i], s[j] = s[j], s[i]
}

// Reverse reverses b in place.
func Reverse(b Buffer) {
	slices.Reverse(b.Bytes())
}

// Fill sets every byte of b to value.
func Fill(b Buffer, value byte) {
	s := b.Bytes()
	for i := range s {
		s[i] = value
	}
}

// FillWith sets every byte of b to successive results of f.
func FillWith(b Buffer, f func() byte) {
	s := b.Bytes()
	for i := range s {
		s[i] = f()
	}
}

// RotateLeft rotates b in place so that the byte at offset mid becomes the
// first byte. Panics when mid is out of range.
func RotateLeft(b Buffer, mid int) {
	s := b.Bytes()
	if mid == 0 || mid == len(s) {
		return
	}
	reverseRange(s, 0, mid)
	reverseRange(s, mid, len(s))
	slices.Reverse(s)
}

// RotateRight rotates b in place so that its last k bytes move to the
// front. Panics when k is out of range.
func RotateRight(b Buffer, k int) {
	RotateLeft(b, b.Len()-k)
}

func reverseRange(s []byte, lo, hi int) {
	for i, j := lo, hi-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// CopyFrom copies src into the front of b, up to the shorter length, and
// returns the number of bytes copied.
func CopyFrom(b Buffer, src []byte) int {
	return copy(b.Bytes(), src)
}

// CopyWithin copies b's bytes in [srcStart, srcEnd) to dest, handling
// overlap. Panics when either range is out of bounds.
func CopyWithin(b Buffer, srcStart, srcEnd, dest int) {
	s := b.Bytes()
	copy(s[dest:], s[srcStart:srcEnd])
}

// Sort sorts b's bytes ascending, in place.
func Sort(b Buffer) {
	slices.Sort(b.Bytes())
}

// SortFunc sorts b in place by the given comparison.
func SortFunc(b Buffer, cmp func(a, c byte) int) {
	slices.SortFunc(b.Bytes(), cmp)
}

// SwapWith exchanges b's contents with other, byte for byte. Panics when
// other is shorter than b.
func SwapWith(b Buffer, other []byte) {
	s := b.Bytes()
	for i := range s {
		s[i], other[i] = other[i], s[i]
	}
}

// UppercaseASCII maps ASCII letters to uppercase in place, leaving every
// other byte untouched.
func UppercaseASCII(b Buffer) {
	s := b.Bytes()
	for i, c := range s {
		if 'a' <= c && c <= 'z' {
			s[i] = c - ('a' - 'A')
		}
	}
}

// LowercaseASCII maps ASCII letters to lowercase in place, leaving every
// other byte untouched.
func LowercaseASCII(b Buffer) {
	s := b.Bytes()
	for i, c := range s {
		if 'A' <= c && c <= 'Z' {
			s[i] = c + ('a' - 'A')
		}
	}
}

// IsASCII reports whether every byte of b is below utf8.RuneSelf.
func IsASCII(b Buffer) bool {
	for _, c := range b.Bytes() {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// EqualFold reports whether b and other are equal under Unicode case
// folding.
func EqualFold(b Buffer, other []byte) bool {
	return bytes.EqualFold(b.Bytes(), other)
}

// Repeat returns a fresh slice holding b's contents repeated count times.
func Repeat(b Buffer, count int) []byte {
	return bytes.Repeat(b.Bytes(), count)
}

// Save writes b's full contents to path, wrapping any filesystem error in
// an IOError. The write either fully applies or fails as a unit from the
// caller's point of view.
func Save(b Buffer, path string) error {
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		return &IOError{Err: err}
	}
	return nil
}
