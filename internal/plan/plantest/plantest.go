// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package plantest provides a known-good plan payload for tests.
package plantest

import (
	"encoding/json"

	"github.com/jeranaias/prepplan/internal/plan"
)

// ValidJSON is a payload that satisfies plan.ResponseSchema.
const ValidJSON = `{
  "title": "Operation 650+: Your NEET UG Sprint",
  "totalDays": 30,
  "totalHours": "9-11 hours",
  "summary": "Thirty focused days covering every remaining chapter, weighted toward high-yield topics.",
  "studyPhases": [
    {
      "phase": "Phase 1: Days 1-20",
      "focus": "High-weightage Biology and Physics",
      "chapters": [
        {
          "chapterName": "Human Physiology",
          "priority": "High",
          "questionsToSolve": "250-300 MCQs",
          "keyTopics": ["Neural control", "Excretion", "Breathing and gas exchange"],
          "revisionPlan": ["First revision after 5 days", "Second revision on Day 15"]
        },
        {
          "chapterName": "Current Electricity",
          "priority": "Medium",
          "questionsToSolve": "150-200 MCQs",
          "keyTopics": ["Kirchhoff's laws", "Wheatstone bridge", "Potentiometer", "Drift velocity"],
          "revisionPlan": ["Formula sheet on Day 3", "Mixed problem set on Day 12", "Quick review before mock"]
        }
      ]
    },
    {
      "phase": "Phase 2: Days 21-30",
      "focus": "Consolidation and full-length mocks",
      "chapters": [
        {
          "chapterName": "Biomolecules",
          "priority": "Low",
          "questionsToSolve": "100 MCQs",
          "keyTopics": ["Enzymes", "Proteins", "Nucleic acids"],
          "revisionPlan": ["NCERT line reading on Day 24", "Final quick review"]
        }
      ]
    }
  ],
  "recommendedSources": [
    {"name": "NCERT Textbooks", "type": "Book", "reason": "Most NEET Biology questions come straight from NCERT lines."},
    {"name": "H.C. Verma", "type": "Book", "reason": "Builds the Physics problem solving a 650+ score needs."},
    {"name": "All India Test Series", "type": "Mock Tests", "reason": "Exam-pattern practice under timed conditions."}
  ],
  "detailedAdvice": {
    "weeklyGoals": [
      "Week 1-2: Finish Human Physiology and attempt one sectional test.",
      "Week 3: Close out Current Electricity.",
      "Week 4: Two full-length mocks with analysis."
    ],
    "mockTestStrategy": "Take a full mock every third day in the final two weeks and spend two hours analysing each."
  },
  "finalWords": "Every chapter you close is marks in the bank. Keep going."
}`

// Valid returns ValidJSON decoded into a fresh plan.
func Valid() *plan.Plan {
	var p plan.Plan
	if err := json.Unmarshal([]byte(ValidJSON), &p); err != nil {
		panic("plantest: fixture does not decode: " + err.Error())
	}
	return &p
}

// Mutate decodes ValidJSON into a generic document, lets fn edit it, and
// re-encodes the result. Tests use it to build near-miss payloads.
func Mutate(fn func(doc map[string]any)) []byte {
	var doc map[string]any
	if err := json.Unmarshal([]byte(ValidJSON), &doc); err != nil {
		panic("plantest: fixture does not decode: " + err.Error())
	}
	fn(doc)
	out, err := json.Marshal(doc)
	if err != nil {
		panic("plantest: " + err.Error())
	}
	return out
}
