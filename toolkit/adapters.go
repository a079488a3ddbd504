package toolkit

import (
	"context"

	"github.com/edupilot-ai/edupilot/core"
)

// ObjectiveExtractor adapts the deterministic objective splitter to the
// core.ObjectiveExtractor interface.
type ObjectiveExtractor struct{}

// NewObjectiveExtractor returns the template-based extractor.
func NewObjectiveExtractor() *ObjectiveExtractor { return &ObjectiveExtractor{} }

// ExtractObjectives splits the document into objectives. The consolidated
// context is unused by the template implementation.
func (e *ObjectiveExtractor) ExtractObjectives(_ context.Context, document, _ string) ([]string, error) {
	return ExtractObjectives(document), nil
}

// AssessmentBuilder adapts BuildAssessment to the core.AssessmentGenerator
// interface.
type AssessmentBuilder struct{}

// NewAssessmentBuilder returns the template-based assessment generator.
func NewAssessmentBuilder() *AssessmentBuilder { return &AssessmentBuilder{} }

// GenerateAssessment builds a deterministic assessment from the request.
func (b *AssessmentBuilder) GenerateAssessment(_ context.Context, req core.AssessmentRequest) (*core.Assessment, error) {
	return BuildAssessment(req)
}

var (
	_ core.ObjectiveExtractor  = (*ObjectiveExtractor)(nil)
	_ core.AssessmentGenerator = (*AssessmentBuilder)(nil)
)
