// Package examine provides search over a document index backed by an
// external index engine.
//
// The engine (tokenization, on-disk index structures, query execution) is
// consumed through the narrow interfaces in the index subpackage. What this
// package adds is a SearcherCache: one long-lived, concurrency-safe
// reader/searcher pair that is kept current without serializing every
// search behind a reopen.
//
// # Quick Start
//
//	ctx := context.Background()
//	engine, _ := index.NewBleveEngine()
//
//	cache := examine.New(engine, "./index")
//	defer cache.Close()
//
//	_ = cache.EnsureIndexExists(ctx)
//
//	s, _ := cache.GetCurrentSearcher(ctx)
//	page, _ := s.Search(ctx, &index.Request{Query: "shoes", Limit: 10})
//
// Any number of goroutines may call GetCurrentSearcher concurrently. The
// fast path is a lock-free staleness check; only callers that lose the
// refresh race block, and only for the duration of the reopen.
//
// # Facets
//
// The facet subpackage counts facet-value occurrences per query and ranks
// them. SearchWithFacets ties the two together:
//
//	fmap := facet.NewMapBuilder().
//	    AddTerms("category", "Shoes", "Hats").
//	    Build()
//
//	page, top, _ := examine.SearchWithFacets(ctx, cache, req, fmap, 5)
package examine
