package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupilot-ai/edupilot/core"
)

// Interface compliance (compile-time assertion)
var _ core.StateStore = (*InMemoryStore)(nil)

func TestInMemoryStore_CreateAndSnapshot(t *testing.T) {
	store := NewInMemoryStore()

	id, err := store.CreateSession("u1", core.StateDelta{
		core.KeyCurrentStep: "objectives_captured",
		core.KeyAppVersion:  "2.0.0",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	snap, err := store.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, "objectives_captured", snap.GetString(core.KeyCurrentStep))
	assert.Equal(t, "2.0.0", snap.GetString(core.KeyAppVersion))

	owner, err := store.Owner(id)
	require.NoError(t, err)
	assert.Equal(t, "u1", owner)
}

func TestInMemoryStore_SessionNotFound(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Snapshot("nope")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	err = store.AppendEvent("nope", core.StateDelta{"k": "v"}, core.AuthorAgent)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	_, err = store.Owner("nope")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestInMemoryStore_LastWriteWinsPerKey(t *testing.T) {
	store := NewInMemoryStore()
	id, _ := store.CreateSession("u1", core.StateDelta{"k": "v1"})

	require.NoError(t, store.AppendEvent(id, core.StateDelta{"k": "v2", "other": 1}, core.AuthorAgent))
	require.NoError(t, store.AppendEvent(id, core.StateDelta{"k": "v3"}, core.AuthorAgent))

	snap, err := store.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, "v3", snap["k"])
	assert.Equal(t, 1, snap["other"])
}

func TestInMemoryStore_ReplayDeterminism(t *testing.T) {
	store := NewInMemoryStore()
	id, _ := store.CreateSession("u1", core.StateDelta{"a": "1"})
	for i := 0; i < 20; i++ {
		require.NoError(t, store.AppendEvent(id, core.StateDelta{fmt.Sprintf("k%d", i%5): i}, core.AuthorAgent))
	}

	first, err := store.Snapshot(id)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := store.Snapshot(id)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestInMemoryStore_UserScopeSharedAcrossSessions(t *testing.T) {
	store := NewInMemoryStore()
	a, _ := store.CreateSession("ana", nil)
	b, _ := store.CreateSession("ana", nil)

	require.NoError(t, store.AppendEvent(a, core.StateDelta{"user:name": "Ana"}, core.AuthorAgent))
	require.NoError(t, store.AppendEvent(a, core.StateDelta{core.KeyCurrentStep: "draft_ready"}, core.AuthorAgent))

	snapB, err := store.Snapshot(b)
	require.NoError(t, err)
	assert.Equal(t, "Ana", snapB.GetString("user:name"), "user: key written in A must be visible in B")
	assert.Empty(t, snapB.GetString(core.KeyCurrentStep), "session-local key written in A must not leak into B")

	// Latest user:-scoped write wins regardless of which session wrote it.
	require.NoError(t, store.AppendEvent(b, core.StateDelta{"user:name": "Ana B."}, core.AuthorAgent))
	snapA, err := store.Snapshot(a)
	require.NoError(t, err)
	assert.Equal(t, "Ana B.", snapA.GetString("user:name"))
}

func TestInMemoryStore_UserScopeNeverCrossesUsers(t *testing.T) {
	store := NewInMemoryStore()
	a, _ := store.CreateSession("ana", nil)
	b, _ := store.CreateSession("ben", nil)

	require.NoError(t, store.AppendEvent(a, core.StateDelta{"user:name": "Ana"}, core.AuthorAgent))

	snapB, err := store.Snapshot(b)
	require.NoError(t, err)
	_, exists := snapB["user:name"]
	assert.False(t, exists, "another user's user: key must never be visible")
}

func TestInMemoryStore_AppScopeSharedProcessWide(t *testing.T) {
	store := NewInMemoryStore()
	a, _ := store.CreateSession("ana", nil)
	b, _ := store.CreateSession("ben", nil)

	require.NoError(t, store.AppendEvent(a, core.StateDelta{"app:version": "2.0.0"}, core.AuthorSystem))

	snapB, err := store.Snapshot(b)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", snapB.GetString("app:version"))
}

func TestInMemoryStore_TempScopeExcludedFromContextKeys(t *testing.T) {
	store := NewInMemoryStore()
	id, _ := store.CreateSession("u1", nil)
	require.NoError(t, store.AppendEvent(id, core.StateDelta{"temp:scratch": "x", "kept": "y"}, core.AuthorAgent))

	snap, err := store.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, "x", snap.GetString("temp:scratch"))

	ctx := snap.ContextKeys()
	_, exists := ctx["temp:scratch"]
	assert.False(t, exists)
	assert.Equal(t, "y", ctx.GetString("kept"))
}

func TestInMemoryStore_NilValueTombstonesKey(t *testing.T) {
	store := NewInMemoryStore()
	id, _ := store.CreateSession("u1", core.StateDelta{"k": "v"})
	require.NoError(t, store.AppendEvent(id, core.StateDelta{"k": nil}, core.AuthorAgent))

	snap, err := store.Snapshot(id)
	require.NoError(t, err)
	_, exists := snap["k"]
	assert.False(t, exists)
}

func TestInMemoryStore_EndSessionIsLogical(t *testing.T) {
	store := NewInMemoryStore()
	id, _ := store.CreateSession("u1", core.StateDelta{"k": "v"})
	require.NoError(t, store.EndSession(id, core.AuthorAPI))

	// Log survives; the tombstone is just another event.
	snap, err := store.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, "v", snap.GetString("k"))
	assert.Equal(t, true, snap["temp:session_ended"])

	events, err := store.Events(id)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestInMemoryStore_ConcurrentAppendsDifferentSessions(t *testing.T) {
	store := NewInMemoryStore()
	const sessions = 8
	const appendsEach = 50

	ids := make([]string, sessions)
	for i := range ids {
		ids[i], _ = store.CreateSession(fmt.Sprintf("user-%d", i), nil)
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			for j := 0; j < appendsEach; j++ {
				if err := store.AppendEvent(id, core.StateDelta{"n": j}, core.AuthorAgent); err != nil {
					t.Errorf("append failed: %v", err)
				}
			}
		}(i, id)
	}
	wg.Wait()

	for _, id := range ids {
		events, err := store.Events(id)
		require.NoError(t, err)
		assert.Len(t, events, appendsEach+1) // genesis + appends
		snap, err := store.Snapshot(id)
		require.NoError(t, err)
		assert.Equal(t, appendsEach-1, snap["n"])
	}
}

func TestInMemoryStore_ConcurrentAppendsSameSession(t *testing.T) {
	store := NewInMemoryStore()
	id, _ := store.CreateSession("u1", nil)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := store.AppendEvent(id, core.StateDelta{fmt.Sprintf("k%d", i): i}, core.AuthorAgent); err != nil {
				t.Errorf("append failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	events, err := store.Events(id)
	require.NoError(t, err)
	assert.Len(t, events, 101)

	snap, err := store.Snapshot(id)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		assert.Equal(t, i, snap[fmt.Sprintf("k%d", i)])
	}
}
