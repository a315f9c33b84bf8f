package examine_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/blevesearch/bleve/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	examine "github.com/PeteDuncanson/Examine"
	"github.com/PeteDuncanson/Examine/facet"
	"github.com/PeteDuncanson/Examine/index"
)

// End-to-end over a real bleve index: an external writer commits documents
// while the cache keeps a read-only searcher current.
func TestSearcherCache_Bleve(t *testing.T) {
	ctx := context.Background()

	engine, err := index.NewBleveEngine()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "idx")
	cache := examine.New(engine, path)
	defer func() {
		require.NoError(t, cache.Close())
	}()

	require.NoError(t, cache.EnsureIndexExists(ctx))
	require.NoError(t, cache.EnsureIndexExists(ctx))

	writeDocs(t, path, map[string]map[string]any{
		"1": {"text": "running shoes for trail running", "category": "Shoes"},
		"2": {"text": "wide brim sun hat", "category": "Hats"},
	})

	s, err := cache.GetCurrentSearcher(ctx)
	require.NoError(t, err)

	page, err := s.Search(ctx, &index.Request{Query: "text:running", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), page.Total)

	// More documents land; the next call hands out a refreshed searcher.
	writeDocs(t, path, map[string]map[string]any{
		"3": {"text": "running socks", "category": "Socks"},
	})

	s2, err := cache.GetCurrentSearcher(ctx)
	require.NoError(t, err)

	page, err = s2.Search(ctx, &index.Request{Query: "text:running", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), page.Total)

	fields, err := cache.ListSearchableFields(ctx)
	require.NoError(t, err)
	assert.Contains(t, fields, "text")
	assert.Contains(t, fields, "category")
	assert.NotContains(t, fields, "_all")

	fmap := facet.NewMapBuilder().
		AddTerms("category", "Shoes", "Hats", "Socks").
		Build()

	_, top, err := examine.SearchWithFacets(ctx, cache,
		&index.Request{Query: "text:running", Limit: 10}, fmap, 3)
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, int64(1), top[0].Count)
	assert.Equal(t, int64(1), top[1].Count)
	assert.Equal(t, "Shoes", top[0].Key.Value)
	assert.Equal(t, "Socks", top[1].Key.Value)

	// Force refresh discards the cached pair outright.
	s3, err := cache.ForceRefresh(ctx)
	require.NoError(t, err)
	assert.NotSame(t, s2, s3)
}

func writeDocs(t *testing.T, path string, docs map[string]map[string]any) {
	t.Helper()

	w, err := bleve.Open(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, w.Close())
	}()

	b := w.NewBatch()
	for id, doc := range docs {
		require.NoError(t, b.Index(id, doc))
	}
	require.NoError(t, w.Batch(b))
}
