// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package plan

// Kind is the JSON type a schema node accepts.
type Kind string

const (
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindString  Kind = "string"
	KindInteger Kind = "integer"
)

// Schema is a provider-neutral description of a JSON value. The same tree is
// sent to the model as its response schema and, rendered by JSONSchema, used
// to validate the reply, so the two cannot drift apart.
type Schema struct {
	Kind        Kind
	Description string

	// object
	Properties []Property

	// array; every array must be non-empty
	Items    *Schema
	MinItems int // 0 means no lower bound beyond the non-empty rule
	MaxItems int // 0 means unbounded

	// string
	Enum []string
}

// Property is a named member of an object schema. Properties keep their
// declaration order, which is also the order the model is asked to emit.
type Property struct {
	Name     string
	Schema   *Schema
	Required bool
}

// Required returns the names of the required properties in order.
func (s *Schema) Required() []string {
	var names []string
	for _, p := range s.Properties {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// Property looks up a property by name.
func (s *Schema) Property(name string) (*Schema, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// JSONSchema renders s as a JSON Schema document.
func (s *Schema) JSONSchema() map[string]any {
	out := map[string]any{"type": string(s.Kind)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	switch s.Kind {
	case KindObject:
		props := make(map[string]any, len(s.Properties))
		for _, p := range s.Properties {
			props[p.Name] = p.Schema.JSONSchema()
		}
		out["properties"] = props
		if req := s.Required(); len(req) > 0 {
			out["required"] = req
		}
	case KindArray:
		if s.Items != nil {
			out["items"] = s.Items.JSONSchema()
		}
		out["minItems"] = max(s.MinItems, 1)
		if s.MaxItems > 0 {
			out["maxItems"] = s.MaxItems
		}
	case KindString:
		if len(s.Enum) > 0 {
			out["enum"] = s.Enum
		}
	}
	return out
}

func str(desc string) *Schema { return &Schema{Kind: KindString, Description: desc} }

func strList(desc string, lo, hi int) *Schema {
	return &Schema{Kind: KindArray, Description: desc, Items: &Schema{Kind: KindString}, MinItems: lo, MaxItems: hi}
}

func req(name string, s *Schema) Property { return Property{Name: name, Schema: s, Required: true} }

func priorityEnum() []string {
	out := make([]string, len(Priorities))
	for i, p := range Priorities {
		out[i] = string(p)
	}
	return out
}

// ResponseSchema is the structure every generated plan must satisfy.
var ResponseSchema = &Schema{
	Kind: KindObject,
	Properties: []Property{
		req("title", str("A catchy title for the study plan that references the student's goal.")),
		req("totalDays", &Schema{Kind: KindInteger, Description: "The number of days remaining."}),
		req("totalHours", str("Recommended study hours per day, e.g. \"8-10 hours\".")),
		req("summary", str("A brief, encouraging summary of the plan.")),
		req("studyPhases", &Schema{
			Kind:        KindArray,
			Description: "Sequential study phases of roughly 20 days each.",
			MinItems:    1,
			Items: &Schema{
				Kind: KindObject,
				Properties: []Property{
					req("phase", str("Phase title, e.g. \"Phase 1: Days 1-20\".")),
					req("focus", str("The goal of this phase.")),
					req("chapters", &Schema{
						Kind:     KindArray,
						MinItems: 1,
						Items: &Schema{
							Kind: KindObject,
							Properties: []Property{
								req("chapterName", str("The name of the chapter.")),
								req("priority", &Schema{
									Kind:        KindString,
									Description: "Priority by exam weightage.",
									Enum:        priorityEnum(),
								}),
								req("questionsToSolve", str("Recommended question volume, e.g. \"150-200 MCQs\".")),
								req("keyTopics", strList("The most important topics of the chapter.", 3, 4)),
								req("revisionPlan", strList("Revision milestones for the chapter.", 2, 3)),
							},
						},
					}),
				},
			},
		}),
		req("recommendedSources", &Schema{
			Kind:     KindArray,
			MinItems: 3,
			MaxItems: 3,
			Items: &Schema{
				Kind: KindObject,
				Properties: []Property{
					req("name", str("Name of the resource.")),
					req("type", str("e.g. Book, Online Platform, Mock Tests.")),
					req("reason", str("Why this source suits the exam and target.")),
				},
			},
		}),
		req("detailedAdvice", &Schema{
			Kind: KindObject,
			Properties: []Property{
				req("weeklyGoals", strList("One goal per week or block of weeks.", 1, 0)),
				req("mockTestStrategy", str("When to start mock tests, how often, and how to analyse them.")),
			},
		}),
		req("finalWords", str("A short motivational closing message.")),
	},
}
