package examine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeteDuncanson/Examine/facet"
	"github.com/PeteDuncanson/Examine/index"
)

func TestSearchWithFacets(t *testing.T) {
	ctx := context.Background()

	page := &index.ResultPage{
		Total: 4,
		Documents: []index.ResultDoc{
			{ID: "1", Fields: map[string]any{"category": "Shoes", "color": "Blue"}},
			{ID: "2", Fields: map[string]any{"category": "Shoes", "color": "Red"}},
			{ID: "3", Fields: map[string]any{"category": "Hats"}},
			{ID: "4", Fields: map[string]any{"category": []any{"Shoes", "Hats"}}},
		},
	}

	fmap := facet.NewMapBuilder().
		AddTerms("category", "Shoes", "Hats").
		AddTerms("color", "Blue", "Red").
		Build()

	t.Run("RankedCounts", func(t *testing.T) {
		eng := &fakeEngine{page: page}
		c := New(eng, "idx")
		defer c.Close()

		got, top, err := SearchWithFacets(ctx, c, &index.Request{Query: "*", Limit: 10}, fmap, 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), got.Total)

		require.Len(t, top, 2)
		assert.Equal(t, facet.Count{Key: facet.Key{Field: "category", Value: "Shoes"}, Count: 3}, top[0])
		assert.Equal(t, facet.Count{Key: facet.Key{Field: "category", Value: "Hats"}, Count: 2}, top[1])
	})

	t.Run("UnknownTermsIgnored", func(t *testing.T) {
		eng := &fakeEngine{page: &index.ResultPage{
			Total: 1,
			Documents: []index.ResultDoc{
				{ID: "1", Fields: map[string]any{"category": "Gloves"}},
			},
		}}
		c := New(eng, "idx")
		defer c.Close()

		_, top, err := SearchWithFacets(ctx, c, &index.Request{Query: "*"}, fmap, 10)
		require.NoError(t, err)
		assert.Empty(t, top)
	})

	t.Run("SearcherErrorPropagated", func(t *testing.T) {
		eng := &fakeEngine{openErr: assert.AnError}
		c := New(eng, "idx")
		defer c.Close()

		_, _, err := SearchWithFacets(ctx, c, &index.Request{Query: "*"}, fmap, 10)
		assert.ErrorIs(t, err, ErrIndexOpenFailed)
	})
}

func TestTermValues(t *testing.T) {
	assert.Equal(t, []string{"a"}, termValues("a"))
	assert.Equal(t, []string{"a", "b"}, termValues([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, termValues([]any{"a", "b", 3.0}))
	assert.Nil(t, termValues(42))
}
