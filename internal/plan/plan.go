// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package plan

// Priority ranks a chapter by exam weightage.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists the allowed values in descending order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Plan is a generated study plan. It is never mutated after Parse returns it.
type Plan struct {
	Title              string         `json:"title"`
	TotalDays          int            `json:"totalDays"`
	TotalHours         string         `json:"totalHours"`
	Summary            string         `json:"summary"`
	StudyPhases        []Phase        `json:"studyPhases"`
	RecommendedSources []Source       `json:"recommendedSources"`
	DetailedAdvice     DetailedAdvice `json:"detailedAdvice"`
	FinalWords         string         `json:"finalWords"`
}

// Phase is one ~20 day block of the plan.
type Phase struct {
	Phase    string        `json:"phase"`
	Focus    string        `json:"focus"`
	Chapters []ChapterPlan `json:"chapters"`
}

// ChapterPlan is the guidance for a single chapter within a phase.
type ChapterPlan struct {
	ChapterName      string   `json:"chapterName"`
	Priority         Priority `json:"priority"`
	QuestionsToSolve string   `json:"questionsToSolve"`
	KeyTopics        []string `json:"keyTopics"`
	RevisionPlan     []string `json:"revisionPlan"`
}

// Source is a recommended book, platform or test series.
type Source struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// DetailedAdvice holds the week-by-week goals and the mock test strategy.
type DetailedAdvice struct {
	WeeklyGoals      []string `json:"weeklyGoals"`
	MockTestStrategy string   `json:"mockTestStrategy"`
}

// ChapterCount returns the number of chapter plans across all phases.
func (p *Plan) ChapterCount() int {
	n := 0
	for _, ph := range p.StudyPhases {
		n += len(ph.Chapters)
	}
	return n
}

// CountByPriority returns how many chapters carry each priority.
func (p *Plan) CountByPriority() map[Priority]int {
	counts := make(map[Priority]int, len(Priorities))
	for _, ph := range p.StudyPhases {
		for _, ch := range ph.Chapters {
			counts[ch.Priority]++
		}
	}
	return counts
}
