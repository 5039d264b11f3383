package dsl

import (
	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// BoolSchema accepts booleans.
type BoolSchema struct{ meta }

// Bool returns a boolean schema.
func Bool() BoolSchema { return BoolSchema{} }

func (s BoolSchema) ErrorMap(m skema.ErrorMap) BoolSchema { s.errorMap = m; return s }
func (s BoolSchema) Describe(text string) BoolSchema      { s.description = text; return s }
func (s BoolSchema) Optional() OptionalSchema             { return Optional(s) }
func (s BoolSchema) Nullable() NullableSchema             { return Nullable(s) }
func (s BoolSchema) Default(v bool) DefaultSchema         { return Default(s, v) }

func (s BoolSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	b, ok := skema.AsBool(v)
	if !ok {
		return aborted(s.enter(pc), v, skema.TypeBool.String())
	}
	return skema.OK(b)
}

func (s BoolSchema) JSONSchema() (*js.Schema, error) {
	return s.annotate(&js.Schema{Type: "boolean"}), nil
}

// NullSchema accepts only null.
type NullSchema struct{ meta }

// Null returns a schema accepting only nil.
func Null() NullSchema { return NullSchema{} }

func (s NullSchema) ErrorMap(m skema.ErrorMap) NullSchema { s.errorMap = m; return s }
func (s NullSchema) Describe(text string) NullSchema      { s.description = text; return s }

func (s NullSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	if skema.Classify(v) != skema.TypeNull {
		return aborted(s.enter(pc), v, skema.TypeNull.String())
	}
	return skema.OK(nil)
}

func (s NullSchema) JSONSchema() (*js.Schema, error) {
	return s.annotate(&js.Schema{Type: "null"}), nil
}

// AnySchema accepts every value unchanged. Any and Unknown differ only in
// name.
type AnySchema struct {
	meta
	unknown bool
}

// Any accepts every input, including Missing.
func Any() AnySchema { return AnySchema{} }

// Unknown accepts every input, including Missing.
func Unknown() AnySchema { return AnySchema{unknown: true} }

func (s AnySchema) ErrorMap(m skema.ErrorMap) AnySchema { s.errorMap = m; return s }
func (s AnySchema) Describe(text string) AnySchema      { s.description = text; return s }

func (s AnySchema) ParseValue(_ *skema.ParseContext, v any) skema.Result { return skema.OK(v) }

func (s AnySchema) JSONSchema() (*js.Schema, error) { return s.annotate(&js.Schema{}), nil }

// NeverSchema rejects every value.
type NeverSchema struct{ meta }

// Never returns a schema that always aborts with invalid_type.
func Never() NeverSchema { return NeverSchema{} }

func (s NeverSchema) ErrorMap(m skema.ErrorMap) NeverSchema { s.errorMap = m; return s }
func (s NeverSchema) Describe(text string) NeverSchema      { s.description = text; return s }

func (s NeverSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	return aborted(s.enter(pc), v, skema.TypeNever.String())
}

func (s NeverSchema) JSONSchema() (*js.Schema, error) {
	return s.annotate(&js.Schema{Not: &js.Schema{}}), nil
}
