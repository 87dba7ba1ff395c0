package buffer

import (
	"bytes"
	"iter"

	"github.com/quickwritereader/bytecast/cast"
)

// SearchIter walks a buffer yielding every offset at which a needle occurs,
// overlapping matches included. Candidate positions are prefiltered on the
// needle's first byte before the full comparison runs.
//
// The iterator snapshots the byte view at creation time; structural changes
// to the underlying buffer during iteration are not observed safely.
type SearchIter struct {
	hay    []byte
	needle []byte
	pos    int
}

// Search validates the needle against b and returns an iterator over its
// match offsets. An empty needle, or one longer than the buffer, fails with
// an OutOfBoundsError carrying the needle length.
func Search(b Buffer, data []byte) (*SearchIter, error) {
	if len(data) == 0 || len(data) > b.Len() {
		return nil, &OutOfBoundsError{Boundary: b.Len(), Attempted: len(data)}
	}
	return &SearchIter{hay: b.Bytes(), needle: data}, nil
}

// SearchRef searches for the raw bytes of *data.
// Panics if T is not castable.
func SearchRef[T any](b Buffer, data *T) (*SearchIter, error) {
	return Search(b, cast.RefToBytes(data))
}

// SearchSlice searches for the raw bytes of data, surfacing the cast
// package's conversion errors unchanged.
func SearchSlice[T any](b Buffer, data []T) (*SearchIter, error) {
	view, err := cast.SliceToBytes(data)
	if err != nil {
		return nil, err
	}
	return Search(b, view)
}

// Next returns the next match offset. The second result is false once the
// buffer is exhausted.
func (it *SearchIter) Next() (int, bool) {
	for it.pos+len(it.needle) <= len(it.hay) {
		rel := bytes.IndexByte(it.hay[it.pos:], it.needle[0])
		if rel < 0 {
			it.pos = len(it.hay)
			return 0, false
		}
		at := it.pos + rel
		// Advance past the candidate's first byte only, so overlapping
		// occurrences still surface.
		it.pos = at + 1
		if at+len(it.needle) > len(it.hay) {
			return 0, false
		}
		if bytes.HasPrefix(it.hay[at:], it.needle) {
			return at, true
		}
	}
	return 0, false
}

// Seq adapts the iterator to a range-over-func sequence of match offsets.
func (it *SearchIter) Seq() iter.Seq[int] {
	return func(yield func(int) bool) {
		for {
			at, ok := it.Next()
			if !ok {
				return
			}
			if !yield(at) {
				return
			}
		}
	}
}

// Collect drains the iterator into a slice of match offsets.
func (it *SearchIter) Collect() []int {
	var offsets []int
	for at, ok := it.Next(); ok; at, ok = it.Next() {
		offsets = append(offsets, at)
	}
	return offsets
}
