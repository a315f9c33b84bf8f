package index

// Request is the input for Search.
type Request struct {
	// Query is parsed by the engine's query-string syntax.
	Query string

	// SortBy orders results by a field, prefix with "-" for descending.
	// Empty means relevance order.
	SortBy string

	// From and Limit page through results.
	From  int
	Limit int

	// Fields lists stored fields to load for each hit. "*" loads all.
	Fields []string

	// Highlight names a field to compute match locations for. Empty
	// disables highlighting.
	Highlight string
}

// TokenMatch describes one match position inside a highlighted field.
type TokenMatch struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

// ResultDoc is a single search hit.
type ResultDoc struct {
	ID      string         `json:"id"`
	Score   float64        `json:"score"`
	Fields  map[string]any `json:"fields,omitempty"`
	Matches []TokenMatch   `json:"matches,omitempty"`
}

// ResultPage is one page of search results.
type ResultPage struct {
	Total     uint64      `json:"total"`
	Documents []ResultDoc `json:"documents"`
}
