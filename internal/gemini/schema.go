// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"google.golang.org/genai"

	"github.com/jeranaias/prepplan/internal/plan"
)

// toGenaiSchema converts the provider-neutral plan schema into the SDK's
// response schema. Property order is carried over via PropertyOrdering so the
// model emits fields in declaration order.
func toGenaiSchema(s *plan.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiType(s.Kind),
		Description: s.Description,
	}
	switch s.Kind {
	case plan.KindObject:
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for _, p := range s.Properties {
			out.Properties[p.Name] = toGenaiSchema(p.Schema)
			out.PropertyOrdering = append(out.PropertyOrdering, p.Name)
		}
		out.Required = s.Required()
	case plan.KindArray:
		out.Items = toGenaiSchema(s.Items)
		if s.MinItems > 0 {
			n := int64(s.MinItems)
			out.MinItems = &n
		}
		if s.MaxItems > 0 {
			n := int64(s.MaxItems)
			out.MaxItems = &n
		}
	case plan.KindString:
		if len(s.Enum) > 0 {
			out.Format = "enum"
			out.Enum = append([]string(nil), s.Enum...)
		}
	}
	return out
}

func genaiType(k plan.Kind) genai.Type {
	switch k {
	case plan.KindObject:
		return genai.TypeObject
	case plan.KindArray:
		return genai.TypeArray
	case plan.KindInteger:
		return genai.TypeInteger
	default:
		return genai.TypeString
	}
}
