package toolkit

import (
	"fmt"

	"github.com/edupilot-ai/edupilot/core"
)

// ScheduleConstraints bounds syllabus generation.
type ScheduleConstraints struct {
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Holidays  []string `json:"holidays,omitempty"`
}

// SessionPlan is one scheduled session inside a module.
type SessionPlan struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

// Activity is a scheduled block within a session.
type Activity struct {
	Type     string `json:"type"`
	Duration string `json:"duration"`
}

// Module groups sessions around a primary objective.
type Module struct {
	ID               int           `json:"id"`
	Title            string        `json:"title"`
	PrimaryObjective string        `json:"primary_objective"`
	DurationWeeks    int           `json:"duration_weeks"`
	StartWeek        int           `json:"start_week"`
	Sessions         []SessionPlan `json:"sessions"`
}

// Syllabus is a generated course plan.
type Syllabus struct {
	Title      string   `json:"title"`
	Objectives []string `json:"objectives"`
	Modules    []Module `json:"modules"`
	StartDate  string   `json:"start_date,omitempty"`
	EndDate    string   `json:"end_date,omitempty"`
	TotalWeeks int      `json:"total_weeks"`
	Holidays   []string `json:"holidays,omitempty"`
}

// GenerateSyllabus builds a structured syllabus from learning objectives.
// One module per objective, capped at moduleCount.
func GenerateSyllabus(objectives []string, moduleCount int, constraints ScheduleConstraints) (*Syllabus, error) {
	if len(objectives) == 0 {
		return nil, fmt.Errorf("toolkit: no learning objectives provided: %w", core.ErrGenerationFailure)
	}
	if moduleCount <= 0 {
		return nil, fmt.Errorf("toolkit: module count must be positive: %w", core.ErrGenerationFailure)
	}

	const weeksPerModule = 1

	modules := moduleCount
	if len(objectives) < modules {
		modules = len(objectives)
	}

	syllabus := &Syllabus{
		Title:      "Course Syllabus",
		Objectives: objectives,
		Modules:    make([]Module, 0, modules),
		StartDate:  constraints.StartDate,
		EndDate:    constraints.EndDate,
		TotalWeeks: moduleCount * weeksPerModule,
		Holidays:   constraints.Holidays,
	}

	for i := 0; i < modules; i++ {
		module := Module{
			ID:               i + 1,
			Title:            fmt.Sprintf("Module %d", i+1),
			PrimaryObjective: objectives[i],
			DurationWeeks:    weeksPerModule,
			StartWeek:        i*weeksPerModule + 1,
		}
		for j := 0; j < weeksPerModule; j++ {
			module.Sessions = append(module.Sessions, SessionPlan{
				ID:    fmt.Sprintf("%d.%d", i+1, j+1),
				Title: fmt.Sprintf("Session %d", j+1),
				Activities: []Activity{
					{Type: "Lecture", Duration: "60 min"},
					{Type: "Discussion", Duration: "30 min"},
					{Type: "Practice", Duration: "30 min"},
				},
			})
		}
		syllabus.Modules = append(syllabus.Modules, module)
	}

	return syllabus, nil
}
