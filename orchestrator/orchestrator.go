package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/edupilot-ai/edupilot/artifact"
	"github.com/edupilot-ai/edupilot/consolidate"
	"github.com/edupilot-ai/edupilot/core"
	"github.com/edupilot-ai/edupilot/logging"
	"github.com/edupilot-ai/edupilot/memory"
)

// Turn response statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// DefaultOwnerID is used when a turn arrives without a user profile.
const DefaultOwnerID = "anonymous_user"

// TurnRequest is one user turn. Profile and Course are optional overrides
// that refresh the cached copies in state and the long-term memory index.
type TurnRequest struct {
	SessionID string
	Message   string
	Profile   *core.UserProfile
	Course    *core.Course
}

// TurnResponse is the well-formed result of a turn. SessionID is always set,
// even when the turn failed.
type TurnResponse struct {
	SessionID string         `json:"sessionId"`
	Response  string         `json:"response"`
	UIUpdates map[string]any `json:"uiUpdates"`
	Status    string         `json:"status"`
}

// Options holds dependency overrides passed to New().
type Options struct {
	// Memory receives long-lived profile and course facts.
	Memory core.MemoryIndex
	// Repository resolves detailed course records. May be nil; lookups are
	// then skipped and the context degrades.
	Repository core.Repository
	// Extractor overrides the objective-extraction step passed to New.
	Extractor core.ObjectiveExtractor
	// Generator overrides the assessment-generation step passed to New.
	Generator core.AssessmentGenerator
	// Artifacts persists generated assessments.
	Artifacts core.ArtifactStore
	// Middleware wraps every generation-step call, outermost first.
	Middleware []Middleware
	// Logger receives turn diagnostics.
	Logger logging.Logger
}

// Orchestrator processes turns: it reads the folded session state, runs the
// step handler for the current workflow phase, and appends exactly one event
// per turn. Safe for concurrent use; turns on the same session are serialized.
type Orchestrator struct {
	store      core.StateStore
	memory     core.MemoryIndex
	repository core.Repository
	extractor  core.ObjectiveExtractor
	generator  core.AssessmentGenerator
	artifacts  core.ArtifactStore
	middleware []Middleware
	logger     logging.Logger

	locks sync.Map // sessionID -> *sync.Mutex
}

// New constructs an Orchestrator over the given state store with optional
// overrides.
func New(store core.StateStore, extractor core.ObjectiveExtractor, generator core.AssessmentGenerator, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Memory:    memory.NewInMemoryIndex(),
		Artifacts: artifact.NewInMemoryStore(),
		Extractor: extractor,
		Generator: generator,
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if len(opts.Middleware) == 0 {
		opts.Middleware = []Middleware{TimingMiddleware(opts.Logger)}
	}

	return &Orchestrator{
		store:      store,
		memory:     opts.Memory,
		repository: opts.Repository,
		extractor:  opts.Extractor,
		generator:  opts.Generator,
		artifacts:  opts.Artifacts,
		middleware: opts.Middleware,
		logger:     opts.Logger,
	}
}

// stepResult is the outcome of a single state handler.
type stepResult struct {
	response string
	next     Step
	delta    core.StateDelta
	ui       map[string]any
}

// HandleTurn processes one user turn. It creates a session when none is given
// or the given one is unknown, serializes concurrent turns on the same
// session, and guarantees exactly one appended event per call. The returned
// response is always well formed; the error return is reserved for storage
// failures.
func (o *Orchestrator) HandleTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	start := time.Now()

	sessionID, err := o.resolveSession(req)
	if err != nil {
		return nil, err
	}

	unlock := o.lockSession(sessionID)
	defer unlock()

	snap, err := o.store.Snapshot(sessionID)
	if err != nil {
		return nil, err
	}

	ownerID, err := o.store.Owner(sessionID)
	if err != nil {
		return nil, err
	}
	if ownerID == "" {
		ownerID = DefaultOwnerID
	}

	current, perr := o.currentStep(snap)
	if perr != nil {
		o.logger.Error("session state corrupt", "session_id", sessionID, "error", perr)
		if aerr := o.store.AppendEvent(sessionID, core.StateDelta{core.KeyCurrentStep: string(StepError)}, core.AuthorSystem); aerr != nil {
			return nil, aerr
		}
		return &TurnResponse{
			SessionID: sessionID,
			Response:  "Something went wrong with this session. Please start a new one.",
			UIUpdates: map[string]any{"current_agent_id": "principal"},
			Status:    StatusError,
		}, nil
	}

	overrides := o.applyOverrides(ownerID, req)

	course := req.Course
	if course == nil {
		course = consolidate.FromSnapshot(snap)
	}
	detail := o.fetchCourseDetail(ctx, sessionID, course)
	consolidated := consolidate.Build(req.Message, snap.GetString(core.KeyLastResponse), course, detail)

	result := o.runStep(ctx, sessionID, current, req.Message, snap, consolidated)

	delta := core.StateDelta{
		core.KeyCurrentStep:  string(result.next),
		core.KeyLastMessage:  req.Message,
		core.KeyLastResponse: result.response,
	}
	for k, v := range overrides {
		delta[k] = v
	}
	for k, v := range result.delta {
		delta[k] = v
	}

	if err := o.store.AppendEvent(sessionID, delta, core.AuthorAgent); err != nil {
		return nil, err
	}

	status := StatusSuccess
	if result.next == StepError && current != StepError {
		status = StatusError
	}

	if tl, ok := o.logger.(*logging.TurnLogger); ok {
		tl.WithSession(sessionID, "").LogTurn(string(current), string(result.next), time.Since(start), nil)
	} else {
		o.logger.Info("turn completed",
			"session_id", sessionID,
			"step", string(current),
			"next_step", string(result.next),
			"duration", time.Since(start).String())
	}

	return &TurnResponse{
		SessionID: sessionID,
		Response:  result.response,
		UIUpdates: result.ui,
		Status:    status,
	}, nil
}

// AdvanceTo moves a session to an explicitly named step. It exists for future
// workflow phases that are declared but not yet wired into turn handling.
func (o *Orchestrator) AdvanceTo(sessionID string, step Step) error {
	if _, err := ParseStep(string(step)); err != nil {
		return err
	}
	unlock := o.lockSession(sessionID)
	defer unlock()
	return o.store.AppendEvent(sessionID, core.StateDelta{core.KeyCurrentStep: string(step)}, core.AuthorSystem)
}

// resolveSession returns an existing session id or creates a fresh session
// initialized at the first workflow step.
func (o *Orchestrator) resolveSession(req TurnRequest) (string, error) {
	if req.SessionID != "" {
		if _, err := o.store.Owner(req.SessionID); err == nil {
			return req.SessionID, nil
		}
		o.logger.Warn("unknown session id, creating a new session", "session_id", req.SessionID)
	}

	ownerID := DefaultOwnerID
	if req.Profile != nil && req.Profile.UserID != "" {
		ownerID = req.Profile.UserID
	}
	return o.store.CreateSession(ownerID, core.StateDelta{
		core.KeyCurrentStep: string(StepObjectivesCaptured),
	})
}

func (o *Orchestrator) lockSession(sessionID string) func() {
	v, _ := o.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// currentStep reads and validates the persisted workflow step. A missing
// value defaults to the initial step; an unrecognized value is corruption.
func (o *Orchestrator) currentStep(snap core.Snapshot) (Step, error) {
	value := snap.GetString(core.KeyCurrentStep)
	if value == "" {
		return StepObjectivesCaptured, nil
	}
	return ParseStep(value)
}

// applyOverrides folds fresh profile/course data into a state delta and
// records the facts in long-term memory. Memory failures are logged, never
// fatal.
func (o *Orchestrator) applyOverrides(ownerID string, req TurnRequest) core.StateDelta {
	delta := core.StateDelta{}

	if p := req.Profile; p != nil {
		if p.UserID != "" {
			delta[core.KeyProfileID] = p.UserID
			ownerID = p.UserID
		}
		if p.Name != "" {
			delta[core.KeyProfileName] = p.Name
		}
		if p.Email != "" {
			delta[core.KeyProfileEmail] = p.Email
		}
		if len(p.Preferences) > 0 {
			delta[core.KeyPreferences] = p.Preferences
		}
		if o.memory != nil {
			content := fmt.Sprintf("Profile: %s <%s>", p.Name, p.Email)
			if err := o.memory.Add(ownerID, content, map[string]any{"profile_id": p.UserID}); err != nil {
				o.logger.Warn("memory add failed", "owner_id", ownerID, "error", err)
			}
		}
	}

	if c := req.Course; c != nil {
		delta[core.KeyCourseID] = c.ID
		delta[core.KeyCourseTitle] = c.Title
		if c.Description != "" {
			delta[core.KeyCourseDescription] = c.Description
		}
		if c.Level != "" {
			delta[core.KeyCourseLevel] = c.Level
		}
		if o.memory != nil {
			content := fmt.Sprintf("Course: %s (%s)", c.Title, c.Level)
			if err := o.memory.Add(ownerID, content, map[string]any{"course_id": c.ID}); err != nil {
				o.logger.Warn("memory add failed", "owner_id", ownerID, "error", err)
			}
		}
	}

	return delta
}

// fetchCourseDetail resolves the detailed course record. A failed lookup
// degrades the consolidated context instead of failing the turn.
func (o *Orchestrator) fetchCourseDetail(ctx context.Context, sessionID string, course *core.Course) map[string]any {
	if course == nil {
		return nil
	}
	if len(course.Details) > 0 {
		return course.Details
	}
	if o.repository == nil || course.ID == "" {
		return nil
	}
	detail, err := o.repository.CourseDetails(ctx, course.ID)
	if err != nil {
		o.logger.Warn("course detail lookup failed, degrading context",
			"session_id", sessionID, "course_id", course.ID, "error", err)
		return nil
	}
	return detail
}

// runStep dispatches to the handler for the current step. A panic inside a
// handler is converted into a transition to the error step so the workflow is
// never left undefined.
func (o *Orchestrator) runStep(ctx context.Context, sessionID string, current Step, message string, snap core.Snapshot, consolidated string) (result stepResult) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("panic during turn", "session_id", sessionID, "step", string(current), "panic", r)
			result = stepResult{
				response: "An unexpected error occurred. Please start a new session.",
				next:     StepError,
				ui:       map[string]any{"current_agent_id": "principal"},
			}
		}
	}()

	switch current {
	case StepObjectivesCaptured:
		return o.stepObjectives(ctx, message, consolidated)
	case StepStructureProposed:
		return o.stepDocumentType(message)
	case StepDraftReady:
		return o.stepBloomLevel(message)
	case StepAssessmentCreated:
		return o.stepGenerate(ctx, sessionID, message, snap, consolidated)
	case StepCompleted:
		return stepResult{
			response: "The workflow is completed. You can download the generated assessment. What would you like to do next?",
			next:     StepCompleted,
			ui:       map[string]any{"current_agent_id": "principal"},
		}
	case StepError:
		return stepResult{
			response: "An error occurred during the workflow. Please try again or start a new session.",
			next:     StepError,
			ui:       map[string]any{"current_agent_id": "principal"},
		}
	default:
		// Declared future phase with no handler yet. Stay put.
		return stepResult{
			response: "This workflow phase is not available yet. Please start a new session.",
			next:     current,
			ui:       map[string]any{"current_agent_id": "principal"},
		}
	}
}

func (o *Orchestrator) stepObjectives(ctx context.Context, message, consolidated string) stepResult {
	if strings.TrimSpace(message) == "" {
		return stepResult{
			response: "Please describe the learning objectives you want to cover.",
			next:     StepObjectivesCaptured,
		}
	}

	var objectives []string
	err := o.invoke(ctx, "extract_objectives", func(ctx context.Context) error {
		var ierr error
		objectives, ierr = o.extractor.ExtractObjectives(ctx, message, consolidated)
		return ierr
	})
	if err != nil || len(objectives) == 0 {
		if err != nil {
			o.logger.Warn("objective extraction failed", "error", err)
		}
		return stepResult{
			response: "I couldn't extract clear objectives. Please try rephrasing or be more specific.",
			next:     StepObjectivesCaptured,
		}
	}

	return stepResult{
		response: "Okay, I have captured the following objectives:\n" + strings.Join(objectives, "\n") +
			"\n\nWhat type of document would you like to create (e.g., Exam, Quiz)?",
		next:  StepStructureProposed,
		delta: core.StateDelta{core.KeyObjectives: objectives},
		ui: map[string]any{
			"taskParameters":   map[string]any{"learningObjectives": strings.Join(objectives, ", ")},
			"current_agent_id": "pedagogie",
		},
	}
}

func (o *Orchestrator) stepDocumentType(message string) stepResult {
	documentType := strings.TrimSpace(message)
	if documentType == "" {
		return stepResult{
			response: "Please specify the type of document you want to create (e.g., Exam, Quiz).",
			next:     StepStructureProposed,
		}
	}
	return stepResult{
		response: fmt.Sprintf("Understood. You want to create a '%s'. What Bloom's Taxonomy level(s) should the assessment target?", documentType),
		next:     StepDraftReady,
		delta:    core.StateDelta{core.KeyDocumentType: documentType},
		ui: map[string]any{
			"taskParameters":   map[string]any{"outputType": documentType},
			"current_agent_id": "bloom",
		},
	}
}

func (o *Orchestrator) stepBloomLevel(message string) stepResult {
	bloomLevel := strings.TrimSpace(message)
	if bloomLevel == "" {
		return stepResult{
			response: "Please specify the Bloom's Taxonomy level(s).",
			next:     StepDraftReady,
		}
	}
	return stepResult{
		response: fmt.Sprintf("Targeting Bloom's level(s): %s. I can now generate the assessment. Are you ready?", bloomLevel),
		next:     StepAssessmentCreated,
		delta:    core.StateDelta{core.KeyBloomLevel: bloomLevel},
		ui: map[string]any{
			"taskParameters":   map[string]any{"bloomsLevel": bloomLevel},
			"current_agent_id": "questions",
		},
	}
}

func (o *Orchestrator) stepGenerate(ctx context.Context, sessionID, message string, snap core.Snapshot, consolidated string) stepResult {
	if !isConfirmation(message) {
		return stepResult{
			response: "Please let me know when you are ready to generate the assessment by typing 'yes' or 'ready'.",
			next:     StepAssessmentCreated,
		}
	}

	genReq := core.AssessmentRequest{
		CourseID:     snap.GetString(core.KeyCourseID),
		CourseTitle:  snap.GetString(core.KeyCourseTitle),
		DocumentType: snap.GetString(core.KeyDocumentType),
		BloomLevel:   snap.GetString(core.KeyBloomLevel),
		Objectives:   snap.GetStrings(core.KeyObjectives),
		Difficulty:   "medium",
		Consolidated: consolidated,
	}

	var assessment *core.Assessment
	err := o.invoke(ctx, "generate_assessment", func(ctx context.Context) error {
		var ierr error
		assessment, ierr = o.generator.GenerateAssessment(ctx, genReq)
		return ierr
	})
	if err != nil || assessment == nil {
		if err == nil {
			err = core.ErrGenerationFailure
		}
		o.logger.Error("assessment generation failed", "session_id", sessionID, "error", err)
		return stepResult{
			response: "Assessment generation failed. Please start a new session to try again.",
			next:     StepError,
			ui:       map[string]any{"current_agent_id": "principal"},
		}
	}

	artifactName := o.saveArtifact(sessionID, assessment)

	response := "The assessment has been generated."
	if artifactName != "" {
		response = fmt.Sprintf("The assessment has been generated. Artifact: %s", artifactName)
	}

	return stepResult{
		response: response,
		next:     StepCompleted,
		delta:    core.StateDelta{core.KeyAssessments: []*core.Assessment{assessment}},
		ui: map[string]any{
			"generatedExam":    assessment,
			"current_agent_id": "principal",
		},
	}
}

// saveArtifact serializes the assessment into the artifact store. Failures
// are logged but never fail the turn; the assessment still lives in state.
func (o *Orchestrator) saveArtifact(sessionID string, assessment *core.Assessment) string {
	if o.artifacts == nil {
		return ""
	}
	data, err := json.MarshalIndent(assessment, "", "  ")
	if err != nil {
		o.logger.Warn("assessment serialization failed", "session_id", sessionID, "error", err)
		return ""
	}
	name := fmt.Sprintf("%s.json", assessment.ID)
	if err := o.artifacts.Save(sessionID, name, data); err != nil {
		o.logger.Warn("artifact save failed", "session_id", sessionID, "error", err)
		return ""
	}
	return name
}
