package dsl

import (
	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// EnumSchema accepts one of a fixed, ordered set of options.
type EnumSchema struct {
	meta
	options []any
}

// Enum returns a schema accepting any of options.
func Enum(options ...any) EnumSchema { return EnumSchema{options: append([]any(nil), options...)} }

// Options returns a copy of the options in declaration order.
func (s EnumSchema) Options() []any { return append([]any(nil), s.options...) }

// Extract returns an enum restricted to the given options.
func (s EnumSchema) Extract(options ...any) EnumSchema {
	return s.filter(func(o any) bool { return containsLoose(options, o) })
}

// Exclude returns an enum without the given options.
func (s EnumSchema) Exclude(options ...any) EnumSchema {
	return s.filter(func(o any) bool { return !containsLoose(options, o) })
}

func (s EnumSchema) filter(keep func(any) bool) EnumSchema {
	out := make([]any, 0, len(s.options))
	for _, o := range s.options {
		if keep(o) {
			out = append(out, o)
		}
	}
	s.options = out
	return s
}

func (s EnumSchema) ErrorMap(m skema.ErrorMap) EnumSchema { s.errorMap = m; return s }
func (s EnumSchema) Describe(text string) EnumSchema      { s.description = text; return s }
func (s EnumSchema) Optional() OptionalSchema             { return Optional(s) }
func (s EnumSchema) Nullable() NullableSchema             { return Nullable(s) }
func (s EnumSchema) Default(v any) DefaultSchema          { return Default(s, v) }

func (s EnumSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	for _, o := range s.options {
		if looseEqual(v, o) {
			return skema.OK(o)
		}
	}
	s.enter(pc).AddIssue(v, skema.Issue{
		Code:     skema.CodeInvalidType,
		Expected: skema.JoinOptions(s.options),
		Received: skema.Classify(v).String(),
		Options:  s.Options(),
	})
	return skema.Aborted
}

func (s EnumSchema) JSONSchema() (*js.Schema, error) {
	return s.annotate(&js.Schema{Enum: s.Options()}), nil
}

func containsLoose(set []any, v any) bool {
	for _, o := range set {
		if looseEqual(o, v) {
			return true
		}
	}
	return false
}
