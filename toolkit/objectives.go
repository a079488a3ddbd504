// Package toolkit provides the deterministic, template-based generators for
// objectives, syllabi, quizzes and resource recommendations. Everything here
// is a pure string/struct builder with no external calls, suitable both as a
// fallback when no LLM provider is configured and as a test double.
package toolkit

import (
	"fmt"
	"strings"
)

// Bloom's taxonomy levels, lowest to highest.
var BloomLevels = []string{
	"Remembering",
	"Understanding",
	"Application",
	"Analysis",
	"Evaluation",
	"Creation",
}

// bloomVerbs maps common objective verbs to their taxonomy level.
var bloomVerbs = map[string]string{
	"remember":   "Remembering",
	"recall":     "Remembering",
	"list":       "Remembering",
	"define":     "Remembering",
	"understand": "Understanding",
	"explain":    "Understanding",
	"describe":   "Understanding",
	"summarize":  "Understanding",
	"apply":      "Application",
	"use":        "Application",
	"implement":  "Application",
	"solve":      "Application",
	"analyze":    "Analysis",
	"compare":    "Analysis",
	"contrast":   "Analysis",
	"examine":    "Analysis",
	"evaluate":   "Evaluation",
	"assess":     "Evaluation",
	"justify":    "Evaluation",
	"critique":   "Evaluation",
	"create":     "Creation",
	"design":     "Creation",
	"develop":    "Creation",
	"compose":    "Creation",
}

// DetectBloomLevel returns the taxonomy level suggested by the leading verb
// of an objective, or "Understanding" when no known verb is found.
func DetectBloomLevel(objective string) string {
	for _, word := range strings.Fields(strings.ToLower(objective)) {
		word = strings.Trim(word, ".,;:!?'\"()")
		if level, ok := bloomVerbs[word]; ok {
			return level
		}
	}
	return "Understanding"
}

// ExtractObjectives splits a free-text description into individual learning
// objectives. Segments are separated by commas, semicolons or newlines;
// blank segments are dropped. Returns nil when nothing usable remains.
func ExtractObjectives(document string) []string {
	segments := strings.FieldsFunc(document, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})

	objectives := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		objectives = append(objectives, seg)
	}
	if len(objectives) == 0 {
		return nil
	}
	return objectives
}

// GenerateObjectives builds count template objectives for a topic, cycling
// through the taxonomy levels from the bottom up.
func GenerateObjectives(topic string, count int) []string {
	if count <= 0 || strings.TrimSpace(topic) == "" {
		return nil
	}
	verbs := []string{"Define", "Explain", "Apply", "Analyze", "Evaluate", "Design"}
	objectives := make([]string, 0, count)
	for i := 0; i < count; i++ {
		verb := verbs[i%len(verbs)]
		objectives = append(objectives, fmt.Sprintf("%s the core concepts of %s", verb, topic))
	}
	return objectives
}
