package utils

import (
	"math/bits"
	"sync"
)

// StoreSizeClass lists the power-of-two store sizes the pool recycles.
// Requests outside the classed range fall through to plain allocation.
var StoreSizeClass = [...]int{64, 128, 256, 512, 1024, 2048, 4096, 8192, 16384, 32768}

// ClassIndex maps a requested byte count to its size class, or -1 when the
// request is out of the classed range.
func ClassIndex(n int) int {
	if n <= 0 || n > 32768 {
		return -1
	}
	idx := bits.Len(uint(n))
	if idx < 7 {
		return 0
	}
	if n&(n-1) == 0 {
		return idx - 7
	}
	return idx - 6
}

// StorePool recycles byte stores by size class. It exists for callers that
// churn through short-lived scratch views, where per-call allocation
// dominates the cost of the access itself.
type StorePool struct {
	pools [len(StoreSizeClass)]sync.Pool
}

func NewStorePool() *StorePool {
	var sp StorePool
	for i, sz := range StoreSizeClass {
		size := sz
		sp.pools[i].New = func() any {
			b := make([]byte, size)
			return &b
		}
	}
	return &sp
}

// Acquire returns a store of exactly n bytes, backed by a classed
// allocation when one fits. Contents are unspecified; use AcquireZeroed
// when the caller reads before writing.
func (sp *StorePool) Acquire(n int) []byte {
	idx := ClassIndex(n)
	if idx < 0 {
		return make([]byte, n)
	}
	ptr := sp.pools[idx].Get().(*[]byte)
	return (*ptr)[:n]
}

// AcquireZeroed is Acquire with the returned store cleared.
func (sp *StorePool) AcquireZeroed(n int) []byte {
	buf := sp.Acquire(n)
	clear(buf)
	return buf
}

// Release returns a store to its pool. Stores whose capacity is not an
// exact size class are dropped for the GC to reclaim.
func (sp *StorePool) Release(buf []byte) {
	c := cap(buf)
	if c&(c-1) != 0 || c < 64 || c > 32768 {
		return
	}
	idx := bits.Len(uint(c)) - 7
	if StoreSizeClass[idx] == c {
		buf = buf[:c]
		sp.pools[idx].Put(&buf)
	}
}
