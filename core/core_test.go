package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyScope(t *testing.T) {
	assert.Equal(t, ScopeSession, KeyScope("current_step"))
	assert.Equal(t, ScopeSession, KeyScope(""))
	assert.Equal(t, ScopeUser, KeyScope("user:name"))
	assert.Equal(t, ScopeApp, KeyScope("app:version"))
	assert.Equal(t, ScopeTemp, KeyScope("temp:scratch"))
}

func TestNewEvent_ClonesDelta(t *testing.T) {
	delta := StateDelta{"k": "v"}
	ev := NewEvent("inv-1", AuthorAgent, delta)
	delta["k"] = "mutated"

	assert.Equal(t, "v", ev.Delta["k"])
	assert.Equal(t, AuthorAgent, ev.Author)
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestStateDelta_CloneNil(t *testing.T) {
	var delta StateDelta
	assert.Nil(t, delta.Clone())
}

func TestSentinelWrapping(t *testing.T) {
	err := SessionNotFoundError("s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Contains(t, err.Error(), "s1")

	err = StateCorruptionError("weird_value")
	assert.ErrorIs(t, err, ErrStateCorruption)
	assert.Contains(t, err.Error(), "weird_value")

	assert.False(t, errors.Is(ErrGenerationFailure, ErrInvalidTransition))
}

func TestSnapshot_GetStrings(t *testing.T) {
	snap := Snapshot{
		"plain": []string{"a", "b"},
		"mixed": []any{"x", 1, "y"},
		"other": 42,
	}
	assert.Equal(t, []string{"a", "b"}, snap.GetStrings("plain"))
	assert.Equal(t, []string{"x", "y"}, snap.GetStrings("mixed"))
	assert.Nil(t, snap.GetStrings("other"))
	assert.Nil(t, snap.GetStrings("absent"))
}

func TestSnapshot_ContextKeys(t *testing.T) {
	snap := Snapshot{"kept": 1, "temp:gone": 2, "user:kept": 3}
	ctx := snap.ContextKeys()

	require.Len(t, ctx, 2)
	_, exists := ctx["temp:gone"]
	assert.False(t, exists)
}
