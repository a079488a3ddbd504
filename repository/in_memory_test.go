package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupilot-ai/edupilot/core"
)

func TestInMemoryRepository_SampleCourses(t *testing.T) {
	repo := NewInMemoryRepository()

	detail, err := repo.CourseDetails(context.Background(), "course-001")
	require.NoError(t, err)
	assert.Equal(t, "Introduction to Educational Psychology", detail["name"])
	assert.NotEmpty(t, detail["objectives"])

	assert.Len(t, repo.CourseIDs(), 2)
}

func TestInMemoryRepository_UnknownCourse(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.CourseDetails(context.Background(), "course-999")
	assert.ErrorIs(t, err, core.ErrRepositoryUnavailable)
}

func TestInMemoryRepository_PutCourse(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.PutCourse("course-010", map[string]any{"name": "Custom"})

	detail, err := repo.CourseDetails(context.Background(), "course-010")
	require.NoError(t, err)
	assert.Equal(t, "Custom", detail["name"])
	assert.Equal(t, "course-010", detail["course_id"])
}

func TestInMemoryRepository_DetailIsACopy(t *testing.T) {
	repo := NewInMemoryRepository()
	detail, err := repo.CourseDetails(context.Background(), "course-001")
	require.NoError(t, err)
	detail["name"] = "mutated"

	again, err := repo.CourseDetails(context.Background(), "course-001")
	require.NoError(t, err)
	assert.Equal(t, "Introduction to Educational Psychology", again["name"])
}
