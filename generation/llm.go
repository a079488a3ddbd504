// Package generation implements the LLM-backed generation steps: objective
// extraction and assessment generation over a model.Model. The toolkit
// package provides the deterministic equivalents.
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edupilot-ai/edupilot/core"
	"github.com/edupilot-ai/edupilot/internal/util"
	"github.com/edupilot-ai/edupilot/logging"
	"github.com/edupilot-ai/edupilot/model"
)

const extractorInstructions = `You are an instructional design assistant.
Extract the distinct learning objectives from the user's message.
Respond with a JSON array of strings, one objective per entry, and nothing else.`

const extractorPrompt = `Document:
{{.document}}`

const generatorInstructions = `You are an assessment author.
Generate an assessment as a single JSON object with the fields:
id, title, type, difficulty, questions (array of {id, type, text, bloom_level, options, correct_answer}), answer_key, total_questions.
Respond with JSON only.`

const generatorPrompt = `Create a {{.documentType}} for the course {{default "the course" .courseTitle}}.
Target Bloom's level: {{default "Understanding" .bloomLevel}}.
Difficulty: {{default "medium" .difficulty}}.
Objectives:
{{range .objectives}}- {{.}}
{{end}}`

// Options configures the LLM generation steps.
type Options struct {
	Logger logging.Logger
}

// Extractor is an LLM-backed core.ObjectiveExtractor.
type Extractor struct {
	model  model.Model
	logger logging.Logger
}

// NewExtractor builds an objective extractor over the given model.
func NewExtractor(m model.Model, optFns ...func(o *Options)) *Extractor {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Extractor{model: m, logger: opts.Logger}
}

// ExtractObjectives asks the model for a JSON array of objectives. A model
// error or unparseable reply is reported as ErrGenerationFailure.
func (e *Extractor) ExtractObjectives(ctx context.Context, document, consolidated string) ([]string, error) {
	prompt, err := util.RenderTemplate(extractorPrompt, map[string]any{"document": document})
	if err != nil {
		return nil, fmt.Errorf("render extraction prompt: %w", err)
	}

	resp, err := e.model.Generate(ctx, model.Request{
		Instructions: extractorInstructions,
		Prompt:       prompt,
		Context:      consolidated,
	})
	if err != nil {
		return nil, fmt.Errorf("objective extraction: %v: %w", err, core.ErrGenerationFailure)
	}

	var objectives []string
	if err := json.Unmarshal([]byte(stripFences(resp.Text)), &objectives); err != nil {
		e.logger.Warn("objective reply is not valid JSON", "error", err)
		return nil, fmt.Errorf("parse objectives: %v: %w", err, core.ErrGenerationFailure)
	}

	cleaned := objectives[:0]
	for _, o := range objectives {
		o = strings.TrimSpace(o)
		if o != "" {
			cleaned = append(cleaned, o)
		}
	}
	return cleaned, nil
}

// Generator is an LLM-backed core.AssessmentGenerator.
type Generator struct {
	model  model.Model
	logger logging.Logger
}

// NewGenerator builds an assessment generator over the given model.
func NewGenerator(m model.Model, optFns ...func(o *Options)) *Generator {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Generator{model: m, logger: opts.Logger}
}

// GenerateAssessment asks the model for a full assessment as JSON. A model
// error or unparseable reply is reported as ErrGenerationFailure.
func (g *Generator) GenerateAssessment(ctx context.Context, req core.AssessmentRequest) (*core.Assessment, error) {
	objectives := make([]any, len(req.Objectives))
	for i, o := range req.Objectives {
		objectives[i] = o
	}
	prompt, err := util.RenderTemplate(generatorPrompt, map[string]any{
		"documentType": req.DocumentType,
		"courseTitle":  req.CourseTitle,
		"bloomLevel":   req.BloomLevel,
		"difficulty":   req.Difficulty,
		"objectives":   objectives,
	})
	if err != nil {
		return nil, fmt.Errorf("render generation prompt: %w", err)
	}

	resp, err := g.model.Generate(ctx, model.Request{
		Instructions: generatorInstructions,
		Prompt:       prompt,
		Context:      req.Consolidated,
	})
	if err != nil {
		return nil, fmt.Errorf("assessment generation: %v: %w", err, core.ErrGenerationFailure)
	}

	var assessment core.Assessment
	if err := json.Unmarshal([]byte(stripFences(resp.Text)), &assessment); err != nil {
		g.logger.Warn("assessment reply is not valid JSON", "error", err)
		return nil, fmt.Errorf("parse assessment: %v: %w", err, core.ErrGenerationFailure)
	}

	if assessment.ID == "" {
		assessment.ID = fmt.Sprintf("assessment_%s", core.NewID())
	}
	if assessment.CourseID == "" {
		assessment.CourseID = req.CourseID
	}
	if assessment.TotalQuestions == 0 {
		assessment.TotalQuestions = len(assessment.Questions)
	}
	return &assessment, nil
}

// stripFences removes a surrounding markdown code fence from a model reply.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

var (
	_ core.ObjectiveExtractor  = (*Extractor)(nil)
	_ core.AssessmentGenerator = (*Generator)(nil)
)
