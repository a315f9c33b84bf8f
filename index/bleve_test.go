package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/blevesearch/bleve/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T, docs map[string]map[string]any) (*BleveEngine, string) {
	t.Helper()

	engine, err := NewBleveEngine()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "idx")
	require.NoError(t, engine.CreateEmptyIndex(context.Background(), path))

	if len(docs) > 0 {
		writeDocs(t, path, docs)
	}
	return engine, path
}

// writeDocs plays the external writer: it takes the writer lock, commits a
// batch and releases the index again.
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

func TestNewBleveEngine(t *testing.T) {
	t.Run("DefaultAnalyzer", func(t *testing.T) {
		engine, err := NewBleveEngine()
		require.NoError(t, err)
		assert.NotNil(t, engine)
	})

	t.Run("NamedAnalyzer", func(t *testing.T) {
		_, err := NewBleveEngine(func(o *BleveOptions) {
			o.Analyzer = "english"
		})
		assert.NoError(t, err)
	})

	t.Run("UnknownAnalyzer", func(t *testing.T) {
		_, err := NewBleveEngine(func(o *BleveOptions) {
			o.Analyzer = "klingon"
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "klingon")
	})
}

func TestBleveEngine_CreateEmptyIndex(t *testing.T) {
	ctx := context.Background()

	engine, err := NewBleveEngine()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "idx")
	require.NoError(t, engine.CreateEmptyIndex(ctx, path))

	// Idempotent: an existing index is left alone.
	require.NoError(t, engine.CreateEmptyIndex(ctx, path))

	r, err := engine.Open(ctx, path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, r.Close())
	}()

	assert.True(t, r.IsCurrent())
	assert.Equal(t, StatusCurrent, r.Status())
}

func TestBleveEngine_OpenMissing(t *testing.T) {
	engine, err := NewBleveEngine()
	require.NoError(t, err)

	_, err = engine.Open(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestBleveReader_Search(t *testing.T) {
	ctx := context.Background()

	engine, path := newTestIndex(t, map[string]map[string]any{
		"1": {"text": "the quick brown fox", "category": "Shoes"},
		"2": {"text": "lazy dogs sleep all day", "category": "Hats"},
	})

	r, err := engine.Open(ctx, path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, r.Close())
	}()

	s := r.Searcher()

	page, err := s.Search(ctx, &Request{
		Query:  "text:fox",
		Limit:  10,
		Fields: []string{"category"},
	})
	require.NoError(t, err)

	require.Equal(t, uint64(1), page.Total)
	require.Len(t, page.Documents, 1)
	assert.Equal(t, "1", page.Documents[0].ID)
	assert.Equal(t, "Shoes", page.Documents[0].Fields["category"])
}

func TestBleveReader_Fields(t *testing.T) {
	ctx := context.Background()

	engine, path := newTestIndex(t, map[string]map[string]any{
		"1": {"text": "hello", "category": "Shoes"},
	})

	r, err := engine.Open(ctx, path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, r.Close())
	}()

	all, err := r.Fields(FieldModeAll)
	require.NoError(t, err)
	assert.Contains(t, all, "text")
	assert.Contains(t, all, "category")

	indexed, err := r.Fields(FieldModeIndexed)
	require.NoError(t, err)
	assert.Contains(t, indexed, "text")
	assert.NotContains(t, indexed, "_all")
}

func TestBleveReader_Staleness(t *testing.T) {
	ctx := context.Background()

	engine, path := newTestIndex(t, map[string]map[string]any{
		"1": {"text": "the quick brown fox"},
	})

	r, err := engine.Open(ctx, path)
	require.NoError(t, err)

	require.True(t, r.IsCurrent())

	// Unchanged index: Reopen hands back the same handle.
	same, err := r.Reopen()
	require.NoError(t, err)
	assert.Same(t, r, same)

	// An external writer commits more documents.
	writeDocs(t, path, map[string]map[string]any{
		"2": {"text": "a second fox arrives"},
	})

	assert.False(t, r.IsCurrent())
	assert.Equal(t, StatusNotCurrent, r.Status())

	nr, err := r.Reopen()
	require.NoError(t, err)
	require.NotSame(t, r, nr)

	// The old view still serves its point-in-time state.
	oldPage, err := r.Searcher().Search(ctx, &Request{Query: "text:fox", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), oldPage.Total)

	newPage, err := nr.Searcher().Search(ctx, &Request{Query: "text:fox", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), newPage.Total)

	require.NoError(t, r.Close())
	require.NoError(t, nr.Close())
}

func TestBleveReader_Closed(t *testing.T) {
	ctx := context.Background()

	engine, path := newTestIndex(t, nil)

	r, err := engine.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	assert.Equal(t, StatusClosed, r.Status())
	assert.False(t, r.IsCurrent())

	_, err = r.Reopen()
	assert.ErrorIs(t, err, ErrReaderClosed)

	_, err = r.Fields(FieldModeAll)
	assert.ErrorIs(t, err, ErrReaderClosed)

	// Double close is a no-op.
	assert.NoError(t, r.Close())
}
