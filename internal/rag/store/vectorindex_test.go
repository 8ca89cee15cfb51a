package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChromemIndex_SearchReturnsNearestNeighborFirst(t *testing.T) {
	idx, err := NewChromemIndex("test-collection")
	require.NoError(t, err)

	ids := []VectorID{CombineID(0, 0), CombineID(0, 1), CombineID(1, 0)}
	vectors := [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
	}
	require.NoError(t, idx.Add(ids, vectors))
	assert.Equal(t, 3, idx.Len())

	results, err := idx.Search([]float32{1, 0, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, ids[0], results[0].ID)
}

func TestChromemIndex_EmptyCollectionReturnsNoResults(t *testing.T) {
	idx, err := NewChromemIndex("empty-collection")
	require.NoError(t, err)

	results, err := idx.Search([]float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestVectorIDKey_RoundTrips(t *testing.T) {
	id := CombineID(42, 7)
	key := vectorIDKey(id)
	parsed, err := parseVectorIDKey(key)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}
