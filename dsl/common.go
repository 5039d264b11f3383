package dsl

import (
	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// meta is embedded by every schema kind: the schema-local ErrorMap and the
// description exported to JSON Schema.
type meta struct {
	errorMap    skema.ErrorMap
	description string
}

// Description returns the text set with Describe.
func (m meta) Description() string { return m.description }

func (m meta) enter(pc *skema.ParseContext) *skema.ParseContext { return pc.WithErrorMap(m.errorMap) }

func (m meta) annotate(s *js.Schema) *js.Schema {
	if m.description != "" {
		s.Description = m.description
	}
	return s
}

// aborted records one invalid_type issue and aborts.
func aborted(pc *skema.ParseContext, v any, expected string) skema.Result {
	pc.InvalidType(v, expected)
	return skema.Aborted
}

// accepts reports whether t is one of want.
func accepts(t skema.ParsedType, want ...skema.ParsedType) bool {
	for _, w := range want {
		if t == w {
			return true
		}
	}
	return false
}
