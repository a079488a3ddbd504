package toolkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupilot-ai/edupilot/core"
)

func TestExtractObjectives(t *testing.T) {
	objectives := ExtractObjectives("Understand cells, Apply mitosis")
	require.Len(t, objectives, 2)
	assert.Equal(t, "Understand cells", objectives[0])
	assert.Equal(t, "Apply mitosis", objectives[1])
}

func TestExtractObjectives_MixedSeparators(t *testing.T) {
	objectives := ExtractObjectives("Define osmosis; Explain diffusion\nCreate a lab protocol")
	assert.Len(t, objectives, 3)
}

func TestExtractObjectives_NothingUsable(t *testing.T) {
	assert.Nil(t, ExtractObjectives(""))
	assert.Nil(t, ExtractObjectives("  , ;\n , "))
}

func TestDetectBloomLevel(t *testing.T) {
	assert.Equal(t, "Understanding", DetectBloomLevel("Understand cells"))
	assert.Equal(t, "Application", DetectBloomLevel("Apply mitosis"))
	assert.Equal(t, "Creation", DetectBloomLevel("Design an experiment"))
	assert.Equal(t, "Understanding", DetectBloomLevel("Ponder the universe"))
}

func TestGenerateObjectives(t *testing.T) {
	objectives := GenerateObjectives("photosynthesis", 3)
	require.Len(t, objectives, 3)
	assert.Contains(t, objectives[0], "photosynthesis")

	assert.Nil(t, GenerateObjectives("", 3))
	assert.Nil(t, GenerateObjectives("topic", 0))
}

func TestCheckBloomAlignment(t *testing.T) {
	levels := []string{"Remembering", "Understanding", "Application", "Analysis", "Evaluation"}
	report := CheckBloomAlignment(levels, nil, 0.75)

	assert.True(t, report.MeetsRequirement)
	assert.Equal(t, []string{"Creation"}, report.MissingLevels)
	assert.Equal(t, 5, report.TotalItems)
	assert.InDelta(t, 83.3, report.AlignmentScore, 0.1)
}

func TestCheckBloomAlignment_Insufficient(t *testing.T) {
	report := CheckBloomAlignment([]string{"Remembering"}, nil, 0.75)
	assert.False(t, report.MeetsRequirement)
	assert.Contains(t, report.Recommendation, "Consider adding items")
	assert.Len(t, report.MissingLevels, 5)
}

func TestAlignmentRefiner(t *testing.T) {
	assessment := &core.Assessment{
		ID: "a1",
		Questions: []core.Question{
			{ID: "Q1", Type: "mcq", BloomLevel: "Remembering"},
		},
		AnswerKey:      map[string]any{"Q1": "A"},
		TotalQuestions: 1,
	}

	refiner := &AlignmentRefiner{}
	refined, again, err := refiner.Refine(context.Background(), assessment, nil)
	require.NoError(t, err)
	assert.True(t, again)
	assert.Equal(t, 6, refined.TotalQuestions, "one question added per missing level")
	assert.Len(t, assessment.Questions, 1, "input assessment is untouched")

	levels := make([]string, 0, len(refined.Questions))
	for _, q := range refined.Questions {
		levels = append(levels, q.BloomLevel)
	}
	assert.True(t, CheckBloomAlignment(levels, nil, 0).MeetsRequirement)

	// A second pass settles.
	settled, again, err := refiner.Refine(context.Background(), refined, nil)
	require.NoError(t, err)
	assert.False(t, again)
	assert.Equal(t, refined, settled)
}

func TestAlignmentRefiner_NilAssessment(t *testing.T) {
	_, _, err := (&AlignmentRefiner{}).Refine(context.Background(), nil, nil)
	assert.ErrorIs(t, err, core.ErrGenerationFailure)
}

func TestGenerateSyllabus(t *testing.T) {
	objectives := []string{"Understand cells", "Apply mitosis", "Analyze meiosis"}
	syllabus, err := GenerateSyllabus(objectives, 2, ScheduleConstraints{StartDate: "2026-09-01"})
	require.NoError(t, err)

	assert.Len(t, syllabus.Modules, 2, "modules are capped at moduleCount")
	assert.Equal(t, "Understand cells", syllabus.Modules[0].PrimaryObjective)
	assert.Equal(t, 1, syllabus.Modules[0].StartWeek)
	assert.Equal(t, 2, syllabus.Modules[1].StartWeek)
	assert.NotEmpty(t, syllabus.Modules[0].Sessions)
	assert.Equal(t, "2026-09-01", syllabus.StartDate)
}

func TestGenerateSyllabus_RequiresInput(t *testing.T) {
	_, err := GenerateSyllabus(nil, 2, ScheduleConstraints{})
	assert.ErrorIs(t, err, core.ErrGenerationFailure)

	_, err = GenerateSyllabus([]string{"x"}, 0, ScheduleConstraints{})
	assert.ErrorIs(t, err, core.ErrGenerationFailure)
}

func TestBuildAssessment_Quiz(t *testing.T) {
	req := core.AssessmentRequest{
		CourseID:     "c1",
		CourseTitle:  "Biology",
		DocumentType: "quiz",
		Objectives:   []string{"Understand cells", "Apply mitosis"},
	}
	assessment, err := BuildAssessment(req)
	require.NoError(t, err)

	assert.NotEmpty(t, assessment.ID)
	assert.Equal(t, "Quiz: Biology", assessment.Title)
	assert.Equal(t, "c1", assessment.CourseID)
	assert.Equal(t, "medium", assessment.Difficulty)
	// 2 types x 2 objectives
	assert.Equal(t, 4, assessment.TotalQuestions)
	assert.Len(t, assessment.AnswerKey, 4)

	mcq := assessment.Questions[0]
	assert.Equal(t, "mcq", mcq.Type)
	assert.Len(t, mcq.Options, 4)
	assert.Equal(t, "A", mcq.CorrectAnswer)
}

func TestBuildAssessment_ExamAddsOpenTypes(t *testing.T) {
	req := core.AssessmentRequest{
		DocumentType: "exam",
		BloomLevel:   "Analysis",
		Objectives:   []string{"Analyze meiosis"},
	}
	assessment, err := BuildAssessment(req)
	require.NoError(t, err)

	types := map[string]bool{}
	for _, q := range assessment.Questions {
		types[q.Type] = true
		assert.Equal(t, "Analysis", q.BloomLevel, "explicit taxonomy target wins")
	}
	assert.True(t, types["short_answer"])
	assert.True(t, types["essay"])
}

func TestBuildAssessment_NoObjectives(t *testing.T) {
	_, err := BuildAssessment(core.AssessmentRequest{})
	assert.ErrorIs(t, err, core.ErrGenerationFailure)
}

func TestRecommendResources(t *testing.T) {
	resources := RecommendResources([]string{"cell biology"}, nil, 2)
	require.Len(t, resources, 2)
	assert.Equal(t, "cell biology", resources[0].Topic)
	assert.Contains(t, resources[0].URL, "cell-biology")

	assert.Nil(t, RecommendResources(nil, nil, 3))
}

func TestAdapters(t *testing.T) {
	ctx := context.Background()

	objectives, err := NewObjectiveExtractor().ExtractObjectives(ctx, "Understand cells, Apply mitosis", "")
	require.NoError(t, err)
	assert.Len(t, objectives, 2)

	assessment, err := NewAssessmentBuilder().GenerateAssessment(ctx, core.AssessmentRequest{
		DocumentType: "quiz",
		Objectives:   objectives,
	})
	require.NoError(t, err)
	assert.NotZero(t, assessment.TotalQuestions)
}
