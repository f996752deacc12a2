// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SchemaError reports the first place a payload departs from the schema.
type SchemaError struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "schema: " + e.Message
	}
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Message)
}

// MaxPayloadSize bounds the response Parse will look at.
const MaxPayloadSize = 1024 * 1024

// Parse checks data against ResponseSchema and decodes it into a Plan.
// Surrounding whitespace and a stray markdown code fence are tolerated.
func Parse(data []byte) (*Plan, error) {
	if len(data) > MaxPayloadSize {
		return nil, &SchemaError{Message: fmt.Sprintf("payload too large: %d bytes (max: %d)", len(data), MaxPayloadSize)}
	}
	data = stripFence(bytes.TrimSpace(data))
	if len(data) == 0 {
		return nil, &SchemaError{Message: "empty payload"}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode plan: trailing data after JSON value")
	}

	if err := validateResponse(doc); err != nil {
		return nil, err
	}

	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &p, nil
}

// schemaURL names the compiled document inside the compiler.
const schemaURL = "plan.schema.json"

var printer = message.NewPrinter(language.English)

// responseValidator is ResponseSchema compiled once on first use.
var responseValidator = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return ResponseSchema.Compile()
})

func validateResponse(doc any) error {
	compiled, err := responseValidator()
	if err != nil {
		return fmt.Errorf("compile response schema: %w", err)
	}
	return Validate(ResponseSchema, compiled, doc)
}

// Compile turns s into a JSON Schema validator.
func (s *Schema) Compile() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(s.JSONSchema())
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
}

// Validate checks a value produced by a json.Decoder with UseNumber against
// compiled, which must have been built from s. The mismatch is reported as a
// *SchemaError whose path is spelled against s.
func Validate(s *Schema, compiled *jsonschema.Schema, v any) error {
	err := compiled.Validate(v)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &SchemaError{Message: err.Error()}
	}
	return toSchemaError(s, firstLeaf(ve))
}

// firstLeaf returns the innermost cause with the lowest instance path, so
// repeated runs over the same payload report the same mismatch.
func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	var leaves []*jsonschema.ValidationError
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			leaves = append(leaves, e)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	slices.SortStableFunc(leaves, func(a, b *jsonschema.ValidationError) int {
		return strings.Compare(strings.Join(a.InstanceLocation, "/"), strings.Join(b.InstanceLocation, "/"))
	})
	return leaves[0]
}

func toSchemaError(s *Schema, leaf *jsonschema.ValidationError) *SchemaError {
	tokens := leaf.InstanceLocation
	if req, ok := leaf.ErrorKind.(*kind.Required); ok && len(req.Missing) > 0 {
		tokens = append(slices.Clone(tokens), req.Missing[0])
		return &SchemaError{Path: instancePath(s, tokens), Message: "required field missing"}
	}
	return &SchemaError{Path: instancePath(s, tokens), Message: leaf.ErrorKind.LocalizedString(printer)}
}

// instancePath spells a JSON pointer the way Go code reads it:
// studyPhases[0].chapters.
func instancePath(s *Schema, tokens []string) string {
	var b strings.Builder
	node := s
	for _, tok := range tokens {
		if node != nil && node.Kind == KindArray {
			b.WriteString("[" + tok + "]")
			node = node.Items
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(tok)
		if node != nil {
			node, _ = node.Property(tok)
		}
	}
	return b.String()
}

// stripFence removes a ```json ... ``` wrapper some models add despite being
// asked not to.
func stripFence(b []byte) []byte {
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[i+1:]
	} else {
		return b
	}
	b = bytes.TrimSpace(b)
	b = bytes.TrimSuffix(b, []byte("```"))
	return bytes.TrimSpace(b)
}
