package toolkit

import (
	"context"
	"fmt"
	"strings"

	"github.com/edupilot-ai/edupilot/core"
)

// DefaultRequiredCoverage is the fraction of target levels that must appear
// for an item set to be considered aligned.
const DefaultRequiredCoverage = 0.75

// LevelStats describes how often one taxonomy level appears in an item set.
type LevelStats struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// AlignmentReport is the result of a taxonomy coverage check.
type AlignmentReport struct {
	AlignmentScore        float64               `json:"alignment_score"`
	MeetsRequirement      bool                  `json:"meets_requirement"`
	LevelDistribution     map[string]LevelStats `json:"level_distribution"`
	MissingLevels         []string              `json:"missing_levels"`
	UnderrepresentedLevel []string              `json:"underrepresented_levels"`
	TotalItems            int                   `json:"total_items_analyzed"`
	Recommendation        string                `json:"recommendation"`
}

// CheckBloomAlignment analyzes how well a set of taxonomy-tagged items
// (objectives or questions) covers the target levels. A nil targetLevels
// checks against the full taxonomy.
func CheckBloomAlignment(levels []string, targetLevels []string, requiredCoverage float64) AlignmentReport {
	if len(targetLevels) == 0 {
		targetLevels = BloomLevels
	}
	if requiredCoverage <= 0 {
		requiredCoverage = DefaultRequiredCoverage
	}

	counts := make(map[string]int, len(BloomLevels))
	for _, l := range BloomLevels {
		counts[l] = 0
	}
	total := 0
	for _, l := range levels {
		if _, known := counts[l]; known {
			counts[l]++
			total++
		}
	}

	covered := 0
	var missing []string
	for _, l := range targetLevels {
		if counts[l] > 0 {
			covered++
		} else {
			missing = append(missing, l)
		}
	}
	ratio := 0.0
	if len(targetLevels) > 0 {
		ratio = float64(covered) / float64(len(targetLevels))
	}

	distribution := make(map[string]LevelStats, len(counts))
	var underrepresented []string
	for _, l := range BloomLevels {
		pct := 0.0
		if total > 0 {
			pct = float64(counts[l]) / float64(total) * 100
		}
		distribution[l] = LevelStats{Count: counts[l], Percentage: pct}
		if counts[l] > 0 && pct < 10 {
			underrepresented = append(underrepresented, l)
		}
	}

	meets := ratio >= requiredCoverage
	recommendation := "Alignment is satisfactory."
	if !meets {
		recommendation = fmt.Sprintf("Consider adding items for these levels: %s", strings.Join(missing, ", "))
	}

	return AlignmentReport{
		AlignmentScore:        ratio * 100,
		MeetsRequirement:      meets,
		LevelDistribution:     distribution,
		MissingLevels:         missing,
		UnderrepresentedLevel: underrepresented,
		TotalItems:            total,
		Recommendation:        recommendation,
	}
}

// AlignmentRefiner improves an assessment until its questions cover enough
// taxonomy levels. Each pass adds one open-ended question per missing level,
// so the loop settles within a single pass over the full taxonomy.
type AlignmentRefiner struct {
	// RequiredCoverage defaults to DefaultRequiredCoverage when zero.
	RequiredCoverage float64
}

// Refine checks taxonomy coverage of the assessment's questions and, when
// coverage is short, returns a copy extended with questions for the missing
// levels. The second return reports whether another pass is wanted.
func (r *AlignmentRefiner) Refine(_ context.Context, assessment *core.Assessment, _ core.Snapshot) (*core.Assessment, bool, error) {
	if assessment == nil {
		return nil, false, fmt.Errorf("toolkit: no assessment to refine: %w", core.ErrGenerationFailure)
	}

	levels := make([]string, 0, len(assessment.Questions))
	for _, q := range assessment.Questions {
		levels = append(levels, q.BloomLevel)
	}
	report := CheckBloomAlignment(levels, nil, r.RequiredCoverage)
	if report.MeetsRequirement {
		return assessment, false, nil
	}

	refined := *assessment
	refined.Questions = append([]core.Question(nil), assessment.Questions...)
	refined.AnswerKey = make(map[string]any, len(assessment.AnswerKey)+len(report.MissingLevels))
	for k, v := range assessment.AnswerKey {
		refined.AnswerKey[k] = v
	}
	for _, level := range report.MissingLevels {
		id := fmt.Sprintf("Q%d", len(refined.Questions)+1)
		refined.Questions = append(refined.Questions, core.Question{
			ID:         id,
			Type:       "essay",
			Text:       fmt.Sprintf("Open question targeting the %s level.", level),
			BloomLevel: level,
		})
		refined.AnswerKey[id] = "Scoring guide: address the objective fully."
	}
	refined.TotalQuestions = len(refined.Questions)
	return &refined, true, nil
}
