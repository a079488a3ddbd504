// Package orchestrator drives the turn-based conversation workflow: a finite
// state machine over the event-sourced state store, one appended event per
// turn, with generation steps invoked per state.
package orchestrator

import (
	"strings"

	"github.com/edupilot-ai/edupilot/core"
)

// Step names a phase of the assessment workflow. The value is what gets
// persisted under core.KeyCurrentStep, so renaming a member is a breaking
// change for existing session logs.
type Step string

const (
	// Active workflow path.
	StepObjectivesCaptured Step = "objectives_captured"
	StepStructureProposed  Step = "structure_proposed"
	StepDraftReady         Step = "draft_ready"
	StepAssessmentCreated  Step = "assessment_created"
	StepCompleted          Step = "completed"
	StepError              Step = "error"

	// Declared for future phases. No transition targets them yet; they stay
	// valid enum members so persisted logs and AdvanceTo remain forward
	// compatible.
	StepActivitiesDesigned Step = "activities_designed"
	StepResourcesCompiled  Step = "resources_compiled"
	StepRubricReady        Step = "rubric_ready"
	StepFeedbackReady      Step = "feedback_ready"
	StepAssessmentInReview Step = "assessment_in_review"
	StepRevisionRequested  Step = "revision_requested"
)

// Steps returns every declared step, active path first.
func Steps() []Step {
	return []Step{
		StepObjectivesCaptured,
		StepStructureProposed,
		StepDraftReady,
		StepAssessmentCreated,
		StepCompleted,
		StepError,
		StepActivitiesDesigned,
		StepResourcesCompiled,
		StepRubricReady,
		StepFeedbackReady,
		StepAssessmentInReview,
		StepRevisionRequested,
	}
}

// ParseStep validates a persisted step value. An unknown value means the
// session log is corrupt; the caller must move the session to StepError
// rather than crash.
func ParseStep(value string) (Step, error) {
	for _, s := range Steps() {
		if string(s) == value {
			return s, nil
		}
	}
	return "", core.StateCorruptionError(value)
}

// Terminal reports whether the step accepts turns without ever transitioning
// again. Terminal steps self-loop; a new workflow needs a new session.
func (s Step) Terminal() bool {
	return s == StepCompleted || s == StepError
}

func (s Step) String() string { return string(s) }

// confirmationTokens are the affirmative answers accepted in
// StepAssessmentCreated. Matched case-insensitively after trimming.
var confirmationTokens = []string{"yes", "ready", "oui", "prêt", "pret"}

func isConfirmation(message string) bool {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, token := range confirmationTokens {
		if normalized == token {
			return true
		}
	}
	return false
}
