package facet

import (
	"iter"
	"slices"
)

// Count is one ranked facet result.
type Count struct {
	Key   Key
	Count int64
}

// ranksAbove reports whether a ranks above b: higher count first, key
// order on ties.
func ranksAbove(a, b Count) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Key.Less(b.Key)
}

// Counter accumulates facet counts for one query.
//
// Reset installs the query's Map and recycles the backing CountArray.
// Not safe for concurrent use; run concurrent queries on separate
// Counters.
type Counter struct {
	m      *Map
	counts *CountArray
}

// NewCounter creates a Counter with an empty count array.
func NewCounter() *Counter {
	return &Counter{
		counts: NewCountArray(0),
	}
}

// Reset installs a new Map and clears all counts. The array is reused in
// place when it is already large enough for the map's key count.
func (c *Counter) Reset(m *Map) {
	c.m = m
	n := 0
	if m != nil {
		n = m.Len()
	}
	c.counts.Reset(n)
}

// Increment adds one occurrence of key. It reports false when the key is
// unknown to the current map.
func (c *Counter) Increment(key Key) bool {
	if c.m == nil {
		return false
	}
	i := c.m.IndexOf(key)
	if i < 0 {
		return false
	}
	c.counts.Increment(i)
	return true
}

// IncrementIndex adds one occurrence at a dense index directly, for
// callers that already resolved the key.
func (c *Counter) IncrementIndex(i int) {
	c.counts.Increment(i)
}

// Count returns the accumulated count for key, or 0 when the key is
// unknown or was never incremented.
func (c *Counter) Count(key Key) int64 {
	if c.m == nil {
		return 0
	}
	return c.counts.Get(c.m.IndexOf(key))
}

// CountAt returns the accumulated count at a dense index.
func (c *Counter) CountAt(i int) int64 {
	return c.counts.Get(i)
}

// TopFacets returns up to limit facets ranked by count descending, ties
// broken by key ascending.
//
// With no fields given, candidates are the facets incremented since the
// last reset; zero-count facets are excluded. With fields given,
// candidates are every map entry under those fields, zero counts
// included; entries under other fields are excluded regardless of count.
//
// Selection is a bounded partial top-K, not a full sort.
func (c *Counter) TopFacets(limit int, fields ...string) []Count {
	if c.m == nil || limit <= 0 {
		return nil
	}

	h := topKHeap{items: make([]Count, 0, limit)}

	if len(fields) == 0 {
		for i, n := range c.counts.NonEmpty() {
			key, ok := c.m.KeyAt(i)
			if !ok {
				continue
			}
			h.pushBounded(Count{Key: key, Count: n}, limit)
		}
	} else {
		for _, field := range fields {
			group := c.m.FieldIndices(field)
			if group == nil {
				continue
			}
			it := group.Iterator()
			for it.HasNext() {
				i := int(it.Next())
				key, _ := c.m.KeyAt(i)
				h.pushBounded(Count{Key: key, Count: c.counts.Get(i)}, limit)
			}
		}
	}

	result := h.items
	slices.SortFunc(result, func(a, b Count) int {
		if ranksAbove(a, b) {
			return -1
		}
		if ranksAbove(b, a) {
			return 1
		}
		return 0
	})
	return result
}

// All iterates every key known to the current map in dense-index order,
// yielding a zero count where nothing was ever incremented. This is the
// complete stable listing, distinct from the sparse top-K paths.
func (c *Counter) All() iter.Seq[Count] {
	return func(yield func(Count) bool) {
		if c.m == nil {
			return
		}
		for i, key := range c.m.All() {
			if !yield(Count{Key: key, Count: c.counts.Get(i)}) {
				return
			}
		}
	}
}

// topKHeap is a bounded min-heap over ranking order: the root is the worst
// candidate kept so far, so a better incoming candidate replaces it in
// O(log k).
type topKHeap struct {
	items []Count
}

// worse reports whether items[i] ranks below items[j].
func (h *topKHeap) worse(i, j int) bool {
	return ranksAbove(h.items[j], h.items[i])
}

func (h *topKHeap) pushBounded(item Count, capacity int) {
	if len(h.items) < capacity {
		h.items = append(h.items, item)
		h.siftUp(len(h.items) - 1)
		return
	}

	// Full: replace the worst kept candidate when the new one beats it.
	if ranksAbove(item, h.items[0]) {
		h.items[0] = item
		h.siftDown(0)
	}
}

func (h *topKHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.worse(i, parent) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *topKHeap) siftDown(i int) {
	n := len(h.items)
	for {
		left, right := 2*i+1, 2*i+2
		smallest := i
		if left < n && h.worse(left, smallest) {
			smallest = left
		}
		if right < n && h.worse(right, smallest) {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
