// Package consolidate builds the single bounded context block handed to each
// generation call. The build is a pure function of its inputs: deterministic,
// tolerant of missing sections and never failing the turn.
package consolidate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edupilot-ai/edupilot/core"
)

// Section markers. Kept stable because downstream prompts reference them.
const (
	headerMarker = "--- CONTEXT ---"
	courseMarker = "--- CURRENT COURSE DETAILS ---"
	detailMarker = "--- DETAILED COURSE INFORMATION (JSON) ---"
	footerMarker = "--- END CONTEXT ---"
)

// maxDetailBytes caps the pretty-printed JSON detail section so a deep
// repository payload cannot grow the context without bound.
const maxDetailBytes = 4096

const truncationNotice = "... [truncated]"

// Build assembles the consolidated context block. Every section is
// independently optional: a missing query, response, course or detail payload
// degrades the context rather than raising. Given identical inputs the output
// is byte-for-byte identical.
func Build(userQuery, agentResponse string, course *core.Course, detail map[string]any) string {
	parts := []string{headerMarker}

	if userQuery != "" {
		parts = append(parts, "Most Recent User Query: "+userQuery)
	}
	if agentResponse != "" {
		parts = append(parts, "Agent's Last Response: "+agentResponse)
	}
	if userQuery != "" || agentResponse != "" {
		parts = append(parts, "")
	}

	if course != nil {
		parts = append(parts, courseMarker)
		parts = append(parts, "Course_ID: "+course.ID)
		parts = append(parts, "Course_Name: "+course.Title)
		if course.Level != "" {
			parts = append(parts, "Course_Level: "+course.Level)
		}
		if course.Description != "" {
			parts = append(parts, "Course_Description_Summary: "+course.Description)
		}
		if course.Session != "" {
			parts = append(parts, "Course_Session: "+course.Session)
		}
		if course.Instructor != "" {
			parts = append(parts, "Course_Instructor: "+course.Instructor)
		}
		parts = append(parts, "")
	}

	if len(detail) > 0 {
		parts = append(parts, detailMarker)
		parts = append(parts, renderDetail(detail))
		parts = append(parts, "")
	}

	parts = append(parts, footerMarker)

	return strings.Join(parts, "\n")
}

// FromSnapshot reconstructs the cached course record out of a folded session
// snapshot, or nil when no course is cached.
func FromSnapshot(snap core.Snapshot) *core.Course {
	id := snap.GetString(core.KeyCourseID)
	title := snap.GetString(core.KeyCourseTitle)
	if id == "" && title == "" {
		return nil
	}
	return &core.Course{
		ID:          id,
		Title:       title,
		Description: snap.GetString(core.KeyCourseDescription),
		Level:       snap.GetString(core.KeyCourseLevel),
	}
}

// renderDetail pretty-prints the payload, falling back to a plain string
// coercion when the payload is not serializable, and truncates past the cap.
func renderDetail(detail map[string]any) string {
	var rendered string
	formatted, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		rendered = fmt.Sprintf("%v", detail)
	} else {
		rendered = string(formatted)
	}
	if len(rendered) > maxDetailBytes {
		rendered = rendered[:maxDetailBytes] + truncationNotice
	}
	return rendered
}
