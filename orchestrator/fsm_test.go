package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupilot-ai/edupilot/core"
)

func TestParseStep_AcceptsEveryDeclaredStep(t *testing.T) {
	for _, step := range Steps() {
		parsed, err := ParseStep(string(step))
		require.NoError(t, err)
		assert.Equal(t, step, parsed)
	}
	assert.Len(t, Steps(), 12)
}

func TestParseStep_UnknownValueIsCorruption(t *testing.T) {
	_, err := ParseStep("definitely_not_a_step")
	assert.ErrorIs(t, err, core.ErrStateCorruption)

	_, err = ParseStep("")
	assert.ErrorIs(t, err, core.ErrStateCorruption)
}

func TestStepTerminal(t *testing.T) {
	assert.True(t, StepCompleted.Terminal())
	assert.True(t, StepError.Terminal())
	for _, step := range Steps() {
		if step == StepCompleted || step == StepError {
			continue
		}
		assert.False(t, step.Terminal(), string(step))
	}
}

func TestIsConfirmation(t *testing.T) {
	for _, message := range []string{"yes", "YES", " Ready ", "oui", "prêt", "pret"} {
		assert.True(t, isConfirmation(message), message)
	}
	for _, message := range []string{"", "no", "yes please", "maybe", "readyyy"} {
		assert.False(t, isConfirmation(message), message)
	}
}
