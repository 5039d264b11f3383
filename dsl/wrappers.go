package dsl

import (
	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// OptionalSchema accepts Missing without consulting its inner schema.
type OptionalSchema struct {
	meta
	inner skema.Schema
}

// Optional lets s be absent: Missing validates to Missing and the enclosing
// object omits the key.
func Optional(s skema.Schema) OptionalSchema { return OptionalSchema{inner: s} }

// Unwrap returns the wrapped schema.
func (s OptionalSchema) Unwrap() skema.Schema { return s.inner }

func (s OptionalSchema) ErrorMap(m skema.ErrorMap) OptionalSchema { s.errorMap = m; return s }
func (s OptionalSchema) Describe(text string) OptionalSchema      { s.description = text; return s }
func (s OptionalSchema) Nullable() NullableSchema                 { return Nullable(s) }

func (s OptionalSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	if skema.IsMissing(v) {
		return skema.OK(skema.Missing)
	}
	return s.inner.ParseValue(s.enter(pc), v)
}

func (s OptionalSchema) export(ex *exporter) (*js.Schema, error) {
	out, err := ex.of(s.inner)
	if err != nil {
		return nil, err
	}
	return s.annotate(out), nil
}

// NullableSchema accepts null (nil or a nil pointer) without consulting its
// inner schema.
type NullableSchema struct {
	meta
	inner skema.Schema
}

// Nullable lets s be null.
func Nullable(s skema.Schema) NullableSchema { return NullableSchema{inner: s} }

// Unwrap returns the wrapped schema.
func (s NullableSchema) Unwrap() skema.Schema { return s.inner }

func (s NullableSchema) ErrorMap(m skema.ErrorMap) NullableSchema { s.errorMap = m; return s }
func (s NullableSchema) Describe(text string) NullableSchema      { s.description = text; return s }
func (s NullableSchema) Optional() OptionalSchema                 { return Optional(s) }

func (s NullableSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	if skema.Classify(v) == skema.TypeNull {
		return skema.OK(nil)
	}
	return s.inner.ParseValue(s.enter(pc), v)
}

func (s NullableSchema) export(ex *exporter) (*js.Schema, error) {
	in, err := ex.of(s.inner)
	if err != nil {
		return nil, err
	}
	return s.annotate(&js.Schema{AnyOf: []*js.Schema{in, {Type: "null"}}}), nil
}

// DefaultSchema substitutes a default for Missing and validates it through
// the inner schema at the same path.
type DefaultSchema struct {
	meta
	inner  skema.Schema
	fn     func() any
	static any
	fixed  bool
}

// Default substitutes v when the input is Missing.
func Default(s skema.Schema, v any) DefaultSchema {
	return DefaultSchema{inner: s, fn: func() any { return v }, static: v, fixed: true}
}

// DefaultFunc calls fn on every Missing input. Panics in fn propagate.
func DefaultFunc(s skema.Schema, fn func() any) DefaultSchema {
	return DefaultSchema{inner: s, fn: fn}
}

// Unwrap returns the wrapped schema.
func (s DefaultSchema) Unwrap() skema.Schema { return s.inner }

func (s DefaultSchema) ErrorMap(m skema.ErrorMap) DefaultSchema { s.errorMap = m; return s }
func (s DefaultSchema) Describe(text string) DefaultSchema      { s.description = text; return s }

func (s DefaultSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	if skema.IsMissing(v) {
		v = s.fn()
	}
	return s.inner.ParseValue(s.enter(pc), v)
}

func (s DefaultSchema) export(ex *exporter) (*js.Schema, error) {
	out, err := ex.of(s.inner)
	if err != nil {
		return nil, err
	}
	if s.fixed {
		out.Default = s.static
	}
	return s.annotate(out), nil
}

// isOptional reports whether s accepts Missing without an issue, so the
// JSON Schema export can leave the property out of "required".
func isOptional(s skema.Schema) bool {
	switch t := s.(type) {
	case OptionalSchema, DefaultSchema, AnySchema:
		return true
	case NullableSchema:
		return isOptional(t.inner)
	}
	return false
}
