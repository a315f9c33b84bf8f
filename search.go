package examine

import (
	"context"

	"github.com/PeteDuncanson/Examine/facet"
	"github.com/PeteDuncanson/Examine/index"
)

// SearchWithFacets runs the request through the cache's current searcher
// and counts facet-value occurrences over the hits.
//
// fmap describes the facet values known at query time; every hit's stored
// field terms are fed through a fresh Counter, so concurrent calls never
// share count state. When the request names no stored fields, the map's
// fields are loaded. The returned counts are the top limit facets ranked
// by count descending, key ascending on ties.
func SearchWithFacets(ctx context.Context, cache *SearcherCache, req *index.Request, fmap *facet.Map, limit int) (*index.ResultPage, []facet.Count, error) {
	s, err := cache.GetCurrentSearcher(ctx)
	if err != nil {
		return nil, nil, err
	}

	r := *req
	if len(r.Fields) == 0 {
		r.Fields = fmap.Fields()
	}

	page, err := s.Search(ctx, &r)
	if err != nil {
		return nil, nil, err
	}

	counter := facet.NewCounter()
	counter.Reset(fmap)
	for _, doc := range page.Documents {
		for field, v := range doc.Fields {
			for _, term := range termValues(v) {
				counter.Increment(facet.Key{Field: field, Value: term})
			}
		}
	}

	return page, counter.TopFacets(limit), nil
}

// termValues flattens a stored field value into its term strings. Engines
// return a bare string for single-valued fields and a slice for
// multi-valued ones.
func termValues(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
