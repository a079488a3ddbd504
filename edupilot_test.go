package edupilot_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupilot-ai/edupilot"
	"github.com/edupilot-ai/edupilot/core"
	"github.com/edupilot-ai/edupilot/orchestrator"
)

func TestEduPilot_DefaultsRunFullWorkflow(t *testing.T) {
	pilot := edupilot.New()
	ctx := context.Background()

	resp, err := pilot.Chat(ctx, orchestrator.TurnRequest{
		Message: "Understand cells, Apply mitosis",
		Profile: &core.UserProfile{UserID: "ana", Name: "Ana"},
	})
	require.NoError(t, err)
	sessionID := resp.SessionID

	for _, message := range []string{"quiz", "Application", "yes"} {
		resp, err = pilot.Chat(ctx, orchestrator.TurnRequest{SessionID: sessionID, Message: message})
		require.NoError(t, err)
		require.Equal(t, orchestrator.StatusSuccess, resp.Status)
	}

	snap, err := pilot.StateStore().Snapshot(sessionID)
	require.NoError(t, err)
	assert.Equal(t, "completed", snap.GetString(core.KeyCurrentStep))
	assert.Equal(t, edupilot.Version, snap.GetString(core.KeyAppVersion), "app defaults are visible in every session")

	names, err := pilot.ArtifactStore().List(sessionID)
	require.NoError(t, err)
	assert.Len(t, names, 1)

	records, err := pilot.MemoryIndex().Search("profile", "ana")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestEduPilot_OptionOverrides(t *testing.T) {
	mem := &recordingIndex{}
	pilot := edupilot.New(func(o *edupilot.Options) {
		o.MemoryIndex = mem
	})

	_, err := pilot.Chat(context.Background(), orchestrator.TurnRequest{
		Message: "Understand cells",
		Profile: &core.UserProfile{UserID: "ana", Name: "Ana"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, mem.adds)
}

type recordingIndex struct {
	adds int
}

func (r *recordingIndex) Add(string, string, map[string]any) error {
	r.adds++
	return nil
}

func (r *recordingIndex) Search(string, string) ([]core.MemoryRecord, error) {
	return nil, nil
}
