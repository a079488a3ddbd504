package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupilot-ai/edupilot/core"
)

var _ core.ArtifactStore = (*InMemoryStore)(nil)

func TestInMemoryStore_SaveLoad(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.Save("s1", "exam.json", []byte(`{"id":"exam_1"}`)))

	data, err := store.Load("s1", "exam.json")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"exam_1"}`, string(data))
}

func TestInMemoryStore_LoadMissing(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Load("s1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save("s1", "a", nil))
	_, err = store.Load("s1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStore_ListSorted(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Save("s1", "b", []byte("2")))
	require.NoError(t, store.Save("s1", "a", []byte("1")))

	names, err := store.List("s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	empty, err := store.List("unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInMemoryStore_CopiesBytes(t *testing.T) {
	store := NewInMemoryStore()
	src := []byte("original")
	require.NoError(t, store.Save("s1", "a", src))
	src[0] = 'X'

	data, err := store.Load("s1", "a")
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	data[0] = 'Y'
	again, err := store.Load("s1", "a")
	require.NoError(t, err)
	assert.Equal(t, "original", string(again))
}
