package core

import "context"

// MemoryRecord is a long-lived fact stored in the memory index, always bound
// to the owner it belongs to.
type MemoryRecord struct {
	ID       string         `json:"id"`
	OwnerID  string         `json:"owner_id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// MemoryIndex stores and retrieves long-lived facts (user profiles, course
// records) keyed by owner identity. Search results must never cross owners.
type MemoryIndex interface {
	Add(ownerID, content string, metadata map[string]any) error
	Search(query, ownerID string) ([]MemoryRecord, error)
}

// Repository is the external course/user record lookup. A failing lookup is
// reported as ErrRepositoryUnavailable (possibly wrapped) and handled by
// degrading the consolidated context, not by failing the turn.
type Repository interface {
	CourseDetails(ctx context.Context, courseID string) (map[string]any, error)
}

// ObjectiveExtractor is the objective-extraction generation step. An empty
// result with nil error means no objectives could be extracted; the
// orchestrator re-prompts instead of transitioning.
type ObjectiveExtractor interface {
	ExtractObjectives(ctx context.Context, document, consolidated string) ([]string, error)
}

// AssessmentRequest carries everything the assessment-generation step needs.
type AssessmentRequest struct {
	CourseID     string
	CourseTitle  string
	DocumentType string
	BloomLevel   string
	Objectives   []string
	Difficulty   string
	Consolidated string
}

// AssessmentGenerator is the assessment-generation step invoked once the user
// confirms readiness.
type AssessmentGenerator interface {
	GenerateAssessment(ctx context.Context, req AssessmentRequest) (*Assessment, error)
}

// ArtifactStore persists generated artifacts (serialized assessments) per
// session.
type ArtifactStore interface {
	Save(sessionID, name string, data []byte) error
	Load(sessionID, name string) ([]byte, error)
	List(sessionID string) ([]string, error)
}
