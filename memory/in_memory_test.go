package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupilot-ai/edupilot/core"
)

var _ core.MemoryIndex = (*InMemoryIndex)(nil)

func TestInMemoryIndex_AddAndSearch(t *testing.T) {
	idx := NewInMemoryIndex()

	require.NoError(t, idx.Add("ana", "Course: Biologie cellulaire (CEGEP)", map[string]any{"course_id": "c1"}))
	require.NoError(t, idx.Add("ana", "Course: Chimie organique", nil))

	results, err := idx.Search("biologie", "ana")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ana", results[0].OwnerID)
	assert.Contains(t, results[0].Content, "Biologie")
	assert.Equal(t, "c1", results[0].Metadata["course_id"])
}

func TestInMemoryIndex_SearchIsCaseInsensitive(t *testing.T) {
	idx := NewInMemoryIndex()
	require.NoError(t, idx.Add("ana", "Advanced Mechanics", nil))

	results, err := idx.Search("MECHANICS", "ana")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestInMemoryIndex_EmptyQueryMatchesAll(t *testing.T) {
	idx := NewInMemoryIndex()
	require.NoError(t, idx.Add("ana", "one", nil))
	require.NoError(t, idx.Add("ana", "two", nil))

	results, err := idx.Search("", "ana")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestInMemoryIndex_NeverCrossesOwners(t *testing.T) {
	idx := NewInMemoryIndex()
	require.NoError(t, idx.Add("ana", "shared topic", nil))
	require.NoError(t, idx.Add("ben", "shared topic", nil))

	results, err := idx.Search("shared", "ana")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ana", results[0].OwnerID)

	results, err = idx.Search("", "nobody")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestInMemoryIndex_RequiresOwner(t *testing.T) {
	idx := NewInMemoryIndex()
	assert.Error(t, idx.Add("", "content", nil))
}
