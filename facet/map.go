package facet

import (
	"iter"
	"slices"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// Map is an immutable snapshot of the facet values known at query time.
// Each key gets a unique dense index in [0, Len()), assigned in key order,
// with reverse lookup and per-field grouping.
//
// Build a Map once per query via MapBuilder; a Counter never mutates it.
type Map struct {
	keys    []Key
	byKey   map[Key]int
	byField map[string]*roaring.Bitmap
}

// MapBuilder collects facet keys and produces a Map.
type MapBuilder struct {
	keys map[Key]struct{}
}

// NewMapBuilder creates an empty MapBuilder.
func NewMapBuilder() *MapBuilder {
	return &MapBuilder{
		keys: make(map[Key]struct{}),
	}
}

// Add records a facet key. Duplicates are ignored.
func (b *MapBuilder) Add(key Key) *MapBuilder {
	b.keys[key] = struct{}{}
	return b
}

// AddTerms records one key per value under the given field.
func (b *MapBuilder) AddTerms(field string, values ...string) *MapBuilder {
	for _, v := range values {
		b.Add(Key{Field: field, Value: v})
	}
	return b
}

// Build produces the Map. Dense indices follow the keys' total order, so
// two builders fed the same keys in any order produce identical maps.
func (b *MapBuilder) Build() *Map {
	keys := make([]Key, 0, len(b.keys))
	for k := range b.keys {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, Key.Compare)

	m := &Map{
		keys:    keys,
		byKey:   make(map[Key]int, len(keys)),
		byField: make(map[string]*roaring.Bitmap),
	}
	for i, k := range keys {
		m.byKey[k] = i

		group, ok := m.byField[k.Field]
		if !ok {
			group = roaring.New()
			m.byField[k.Field] = group
		}
		group.Add(uint32(i))
	}

	return m
}

// Len returns the number of keys in the map.
func (m *Map) Len() int {
	return len(m.keys)
}

// IndexOf returns the dense index of key, or -1 when the key is unknown.
func (m *Map) IndexOf(key Key) int {
	if i, ok := m.byKey[key]; ok {
		return i
	}
	return -1
}

// KeyAt returns the key with the given dense index.
func (m *Map) KeyAt(i int) (Key, bool) {
	if i < 0 || i >= len(m.keys) {
		return Key{}, false
	}
	return m.keys[i], true
}

// FieldIndices returns the dense indices of every key under field, or nil
// when the field is unknown. The returned bitmap must not be modified.
func (m *Map) FieldIndices(field string) *roaring.Bitmap {
	return m.byField[field]
}

// Fields returns the distinct field names in the map, sorted.
func (m *Map) Fields() []string {
	fields := make([]string, 0, len(m.byField))
	for f := range m.byField {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// All iterates every key in dense-index order.
func (m *Map) All() iter.Seq2[int, Key] {
	return func(yield func(int, Key) bool) {
		for i, k := range m.keys {
			if !yield(i, k) {
				return
			}
		}
	}
}
