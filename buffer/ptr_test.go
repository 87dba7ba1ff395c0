package buffer

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPtrFromBytes_Aliases(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	b := PtrFromBytes(data)

	require.Equal(t, 4, b.Len())
	data[0] = 9
	assert.Equal(t, byte(9), b.Bytes()[0])

	b.Bytes()[3] = 7
	assert.Equal(t, byte(7), data[3])
}

func TestNewPtrBuffer(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	b := NewPtrBuffer(unsafe.Pointer(unsafe.SliceData(data)), len(data))

	assert.Equal(t, data, b.Bytes())
	assert.Equal(t, unsafe.Pointer(unsafe.SliceData(data)), b.Ptr())
}

func TestPtrBuffer_SetPtrSetSize(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6}
	b := PtrFromBytes(data)

	b.SetSize(4)
	assert.Equal(t, []byte{1, 2, 3, 4}, b.Bytes())

	b.SetPtr(unsafe.Add(unsafe.Pointer(unsafe.SliceData(data)), 2))
	assert.Equal(t, []byte{3, 4, 5, 6}, b.Bytes())
}

func TestPtrBuffer_SubBuffer(t *testing.T) {
	b := PtrFromBytes([]byte{1, 2, 3, 4, 5, 6, 7, 8})

	sub, err := b.SubBuffer(2, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 4, 5, 6}, sub.Bytes())

	// The sub-buffer is a view, not a copy.
	sub.Bytes()[0] = 0xff
	assert.Equal(t, byte(0xff), b.Bytes()[2])

	var oob *OutOfBoundsError
	_, err = b.SubBuffer(8, 1)
	assert.ErrorAs(t, err, &oob)
	_, err = b.SubBuffer(6, 3)
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, 9, oob.Attempted)
}

func TestPtrBuffer_SplitAt(t *testing.T) {
	b := PtrFromBytes([]byte{1, 2, 3, 4, 5, 6})

	left, right, err := b.SplitAt(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, left.Bytes())
	assert.Equal(t, []byte{3, 4, 5, 6}, right.Bytes())
	assert.Equal(t, End(left), right.Ptr())

	left, right, err = b.SplitAt(6)
	require.NoError(t, err)
	assert.Equal(t, 6, left.Len())
	assert.Equal(t, 0, right.Len())

	_, _, err = b.SplitAt(7)
	var oob *OutOfBoundsError
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, 7, oob.Attempted)
}
