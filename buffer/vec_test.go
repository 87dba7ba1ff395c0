package buffer

import (
	"encoding/binary"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickwritereader/bytecast/cast"
)

func TestVecBuffer_Constructors(t *testing.T) {
	assert.Equal(t, 0, NewVecBuffer().Len())

	zeroed := WithSize(8)
	assert.Equal(t, make([]byte, 8), zeroed.Bytes())

	src := []byte{1, 2, 3}
	v := FromData(src)
	src[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, v.Bytes())
}

func TestVecBuffer_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	require.NoError(t, os.WriteFile(path, fixture(), 0o644))

	v, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, fixture(), v.Bytes())

	_, err = FromFile(filepath.Join(t.TempDir(), "absent.bin"))
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestVecBuffer_AppendPushPop(t *testing.T) {
	v := NewVecBuffer()

	v.Append([]byte{1, 2})
	v.Push(3)
	assert.Equal(t, []byte{1, 2, 3}, v.Bytes())

	got, ok := v.Pop()
	require.True(t, ok)
	assert.Equal(t, byte(3), got)

	v.Clear()
	assert.Equal(t, 0, v.Len())
	_, ok = v.Pop()
	assert.False(t, ok)
}

func TestVecBuffer_AppendRef(t *testing.T) {
	v := NewVecBuffer()

	value := uint32(0xdeadbeef)
	ref, err := AppendRef(v, &value)
	require.NoError(t, err)
	assert.Equal(t, 4, v.Len())
	assert.Equal(t, value, *ref)

	// The reference points into the buffer, not at the argument.
	*ref = 7
	assert.Equal(t, uint32(7), binary.NativeEndian.Uint32(v.Bytes()))
	assert.Equal(t, uint32(0xdeadbeef), value)
}

func TestVecBuffer_AppendRef_MisalignedOffset(t *testing.T) {
	v := NewVecBuffer()
	v.Push(0xff)

	value := uint32(42)
	_, err := AppendRef(v, &value)
	var alignErr *cast.AlignmentError
	require.ErrorAs(t, err, &alignErr)

	// The bytes land even when the checked reference is refused.
	assert.Equal(t, 5, v.Len())
	assert.Equal(t, uint32(42), binary.NativeEndian.Uint32(v.Bytes()[1:5]))
}

func TestVecBuffer_AppendSlice(t *testing.T) {
	v := NewVecBuffer()

	words, err := AppendSlice(v, []uint16{10, 20, 30})
	require.NoError(t, err)
	assert.Equal(t, 6, v.Len())
	require.Len(t, words, 3)

	words[2] = 99
	assert.Equal(t, uint16(99), binary.NativeEndian.Uint16(v.Bytes()[4:6]))

	_, err = AppendSlice(v, []struct{}{{}})
	var zstErr *cast.ZeroSizedTypeError
	assert.ErrorAs(t, err, &zstErr)
}

func TestVecBuffer_InsertRemove(t *testing.T) {
	v := FromData([]byte{1, 3, 4})

	v.Insert(1, 2)
	assert.Equal(t, []byte{1, 2, 3, 4}, v.Bytes())
	assert.Panics(t, func() { v.Insert(9, 0) })

	got := v.Remove(0)
	assert.Equal(t, byte(1), got)
	assert.Equal(t, []byte{2, 3, 4}, v.Bytes())
	assert.Panics(t, func() { v.Remove(3) })
}

func TestVecBuffer_Retain(t *testing.T) {
	v := FromData([]byte{1, 2, 3, 4, 5, 6})

	v.Retain(func(c byte) bool { return c%2 == 0 })
	assert.Equal(t, []byte{2, 4, 6}, v.Bytes())
}

func TestVecBuffer_SplitOff(t *testing.T) {
	v := FromData([]byte{1, 2, 3, 4, 5})

	tail := v.SplitOff(2)
	assert.Equal(t, []byte{1, 2}, v.Bytes())
	assert.Equal(t, []byte{3, 4, 5}, tail.Bytes())

	// The halves own separate storage.
	tail.Bytes()[0] = 9
	v.Push(7)
	assert.Equal(t, []byte{1, 2, 7}, v.Bytes())
	assert.Equal(t, []byte{9, 4, 5}, tail.Bytes())

	assert.Panics(t, func() { v.SplitOff(9) })
}

func TestVecBuffer_ResizeTruncate(t *testing.T) {
	v := FromData([]byte{1, 2})

	v.Resize(5, 0xee)
	assert.Equal(t, []byte{1, 2, 0xee, 0xee, 0xee}, v.Bytes())

	v.Resize(2, 0)
	assert.Equal(t, []byte{1, 2}, v.Bytes())

	n := byte(0)
	v.ResizeWith(4, func() byte { n++; return n })
	assert.Equal(t, []byte{1, 2, 1, 2}, v.Bytes())

	v.Truncate(3)
	assert.Equal(t, []byte{1, 2, 1}, v.Bytes())
	v.Truncate(10)
	assert.Equal(t, 3, v.Len())
}

func TestVecBuffer_Dedup(t *testing.T) {
	v := FromData([]byte{1, 1, 2, 2, 2, 3, 1})

	v.Dedup()
	assert.Equal(t, []byte{1, 2, 3, 1}, v.Bytes())
}

func TestVecBuffer_AsPtrBuffer(t *testing.T) {
	v := FromData([]byte{1, 2, 3, 4})

	view := v.AsPtrBuffer()
	assert.Equal(t, v.Len(), view.Len())

	view.Bytes()[0] = 9
	assert.Equal(t, byte(9), v.Bytes()[0])
}

func TestVecBuffer_TypedAccess(t *testing.T) {
	v := NewVecBuffer()
	_, err := AppendSlice(v, []uint64{0xdeadbeefabad1dea, 0xdeadbea7defaced1})
	require.NoError(t, err)

	ref, err := GetRef[uint64](v, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xdeadbea7defaced1), *ref)

	var oob *OutOfBoundsError
	_, err = GetRef[uint64](v, 9)
	assert.ErrorAs(t, err, &oob)
}
