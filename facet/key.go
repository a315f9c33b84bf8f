package facet

import "strings"

// Key identifies one facet value, e.g. field "category" with value "Shoes".
// The zero Key is valid and orders before every non-zero Key.
type Key struct {
	Field string
	Value string
}

// Compare orders keys by field, then by value. The total order makes
// ranking ties deterministic.
func (k Key) Compare(other Key) int {
	if c := strings.Compare(k.Field, other.Field); c != 0 {
		return c
	}
	return strings.Compare(k.Value, other.Value)
}

// Less reports whether k orders before other.
func (k Key) Less(other Key) bool {
	return k.Compare(other) < 0
}

// String renders the key as "field=value".
func (k Key) String() string {
	return k.Field + "=" + k.Value
}
