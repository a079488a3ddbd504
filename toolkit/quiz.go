package toolkit

import (
	"fmt"
	"strings"

	"github.com/edupilot-ai/edupilot/core"
)

// questionTypesFor maps a requested document type to the question mix used
// for it. Unknown types get open-ended items.
func questionTypesFor(documentType string) []string {
	switch strings.ToLower(strings.TrimSpace(documentType)) {
	case "quiz":
		return []string{"mcq", "true_false"}
	case "exam", "examen":
		return []string{"mcq", "true_false", "short_answer", "essay"}
	default:
		return []string{"essay", "project"}
	}
}

// BuildAssessment deterministically generates an assessment covering the
// requested objectives. Questions rotate through the objectives so every
// objective is exercised; closed question types get template options and an
// answer key entry.
func BuildAssessment(req core.AssessmentRequest) (*core.Assessment, error) {
	if len(req.Objectives) == 0 {
		return nil, fmt.Errorf("toolkit: no objectives provided: %w", core.ErrGenerationFailure)
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	documentType := req.DocumentType
	if documentType == "" {
		documentType = "quiz"
	}

	types := questionTypesFor(documentType)
	assessment := &core.Assessment{
		ID:         fmt.Sprintf("assessment_%s", core.NewID()),
		Title:      assessmentTitle(documentType, req.CourseTitle),
		CourseID:   req.CourseID,
		Type:       documentType,
		Difficulty: difficulty,
		AnswerKey:  make(map[string]any),
	}

	questionID := 1
	for _, qType := range types {
		for range req.Objectives {
			objective := req.Objectives[(questionID-1)%len(req.Objectives)]
			question := core.Question{
				ID:         fmt.Sprintf("Q%d", questionID),
				Type:       qType,
				Text:       fmt.Sprintf("Question %d about %q (%s)", questionID, objective, qType),
				BloomLevel: bloomLevelFor(objective, req.BloomLevel),
			}

			switch qType {
			case "mcq":
				question.Options = []core.Option{
					{ID: "A", Text: "Option A"},
					{ID: "B", Text: "Option B"},
					{ID: "C", Text: "Option C"},
					{ID: "D", Text: "Option D"},
				}
				question.CorrectAnswer = "A"
				assessment.AnswerKey[question.ID] = "A"
			case "true_false":
				question.Options = []core.Option{
					{ID: "T", Text: "True"},
					{ID: "F", Text: "False"},
				}
				question.CorrectAnswer = "T"
				assessment.AnswerKey[question.ID] = "T"
			case "short_answer":
				assessment.AnswerKey[question.ID] = "Example answer"
			default:
				assessment.AnswerKey[question.ID] = "Scoring guide: address the objective fully."
			}

			assessment.Questions = append(assessment.Questions, question)
			questionID++
		}
	}

	assessment.TotalQuestions = len(assessment.Questions)
	return assessment, nil
}

// bloomLevelFor prefers the user's explicit taxonomy target, otherwise
// infers a level from the objective's leading verb.
func bloomLevelFor(objective, requested string) string {
	if strings.TrimSpace(requested) != "" {
		return requested
	}
	return DetectBloomLevel(objective)
}

func assessmentTitle(documentType, courseTitle string) string {
	label := strings.ToLower(documentType)
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	if courseTitle == "" {
		return label
	}
	return fmt.Sprintf("%s: %s", label, courseTitle)
}
