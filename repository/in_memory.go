// Package repository provides course/user record lookup. The in-memory
// implementation ships with sample courses so the workflow runs end to end
// without an external backend.
package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/edupilot-ai/edupilot/core"
)

// InMemoryRepository is a process-local core.Repository seeded with sample
// course records. Safe for concurrent use.
type InMemoryRepository struct {
	mu      sync.RWMutex
	courses map[string]map[string]any
}

// NewInMemoryRepository returns a repository seeded with the sample courses.
func NewInMemoryRepository() *InMemoryRepository {
	r := &InMemoryRepository{courses: make(map[string]map[string]any)}
	for _, c := range sampleCourses() {
		r.courses[c["course_id"].(string)] = c
	}
	return r
}

// CourseDetails returns the detailed record for a course id, or a wrapped
// ErrRepositoryUnavailable when the course is unknown.
func (r *InMemoryRepository) CourseDetails(_ context.Context, courseID string) (map[string]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	course, ok := r.courses[courseID]
	if !ok {
		return nil, fmt.Errorf("course %s not found: %w", courseID, core.ErrRepositoryUnavailable)
	}
	cp := make(map[string]any, len(course))
	for k, v := range course {
		cp[k] = v
	}
	return cp, nil
}

// PutCourse registers or replaces a course record. Used by the user-course
// endpoints and by tests.
func (r *InMemoryRepository) PutCourse(courseID string, detail map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[string]any, len(detail))
	for k, v := range detail {
		cp[k] = v
	}
	cp["course_id"] = courseID
	r.courses[courseID] = cp
}

// CourseIDs lists the known course ids in unspecified order.
func (r *InMemoryRepository) CourseIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.courses))
	for id := range r.courses {
		ids = append(ids, id)
	}
	return ids
}

func sampleCourses() []map[string]any {
	return []map[string]any{
		{
			"course_id": "course-001",
			"name":      "Introduction to Educational Psychology",
			"summary":   "An introductory course on educational psychology and learning theories.",
			"objectives": []string{
				"Understand key concepts of educational psychology",
				"Apply learning theories to classroom practice",
				"Analyze student learning needs",
				"Design effective assessments",
				"Evaluate teaching effectiveness",
			},
			"blooms_levels": []string{"Understanding", "Application", "Analysis", "Creation", "Evaluation"},
		},
		{
			"course_id": "course-002",
			"name":      "Advanced Instructional Design",
			"summary":   "Advanced techniques for effective course design and delivery.",
			"objectives": []string{
				"Analyze learning context and student needs",
				"Design comprehensive instructional materials",
				"Develop technology-enhanced learning activities",
				"Evaluate instructional effectiveness",
				"Create innovative assessment strategies",
			},
			"blooms_levels": []string{"Analysis", "Creation", "Evaluation"},
		},
	}
}

// FailingRepository always reports ErrRepositoryUnavailable. Used in tests to
// exercise context degradation.
type FailingRepository struct{}

// CourseDetails always fails.
func (FailingRepository) CourseDetails(context.Context, string) (map[string]any, error) {
	return nil, core.ErrRepositoryUnavailable
}

var (
	_ core.Repository = (*InMemoryRepository)(nil)
	_ core.Repository = FailingRepository{}
)
