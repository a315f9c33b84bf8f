package facet

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// growthChunk is the allocation granularity of a CountArray. Growing in
// chunks keeps repeated resets with similar facet-space sizes from
// reallocating every time.
const growthChunk = 256

// CountArray is a dense growable array of counts addressed by a Map's
// dense indices. Slots never incremented read as zero. A bitmap tracks
// the slots touched since the last reset so sparse traversal skips
// untouched ones without scanning the whole array.
//
// Not safe for concurrent use.
type CountArray struct {
	counts  []int64
	touched *roaring.Bitmap
}

// NewCountArray creates a CountArray with capacity for at least n slots.
func NewCountArray(n int) *CountArray {
	a := &CountArray{
		touched: roaring.New(),
	}
	a.Reset(n)
	return a
}

// Reset prepares the array for a new generation of at least n slots. When
// the backing array is already large enough it is cleared in place,
// otherwise it is reallocated to the next chunk boundary. All previous
// counts are discarded either way.
func (a *CountArray) Reset(n int) {
	if n > len(a.counts) {
		a.counts = make([]int64, roundUpChunk(n))
	} else {
		clear(a.counts)
	}
	a.touched.Clear()
}

// Len returns the current slot capacity.
func (a *CountArray) Len() int {
	return len(a.counts)
}

// Get returns the count at slot i, or 0 when i is negative or beyond the
// current capacity.
func (a *CountArray) Get(i int) int64 {
	if i < 0 || i >= len(a.counts) {
		return 0
	}
	return a.counts[i]
}

// Increment adds one to slot i and returns the new count, growing the
// array when i is beyond the current capacity. Every slot counted in the
// current generation is therefore always in bounds.
func (a *CountArray) Increment(i int) int64 {
	if i < 0 {
		return 0
	}
	if i >= len(a.counts) {
		grown := make([]int64, roundUpChunk(i+1))
		copy(grown, a.counts)
		a.counts = grown
	}
	a.counts[i]++
	a.touched.Add(uint32(i))
	return a.counts[i]
}

// NonEmpty iterates the slots touched since the last reset, in index
// order, yielding (index, count).
func (a *CountArray) NonEmpty() iter.Seq2[int, int64] {
	return func(yield func(int, int64) bool) {
		it := a.touched.Iterator()
		for it.HasNext() {
			i := int(it.Next())
			if !yield(i, a.counts[i]) {
				return
			}
		}
	}
}

func roundUpChunk(n int) int {
	return (n + growthChunk - 1) / growthChunk * growthChunk
}
