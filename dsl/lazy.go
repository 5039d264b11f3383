package dsl

import (
	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// LazySchema resolves its inner schema on every call, which lets a schema
// refer to itself or to schemas declared after it.
type LazySchema struct {
	meta
	get func() skema.Schema
}

// Lazy defers to get; the result is never cached.
func Lazy(get func() skema.Schema) *LazySchema { return &LazySchema{get: get} }

// Schema resolves the inner schema.
func (s *LazySchema) Schema() skema.Schema { return s.get() }

// ErrorMap returns a copy with a schema-local message formatter.
func (s *LazySchema) ErrorMap(m skema.ErrorMap) *LazySchema {
	c := *s
	c.errorMap = m
	return &c
}

// Describe returns a copy with a description.
func (s *LazySchema) Describe(text string) *LazySchema {
	c := *s
	c.description = text
	return &c
}

func (s *LazySchema) Optional() OptionalSchema { return Optional(s) }
func (s *LazySchema) Nullable() NullableSchema { return Nullable(s) }

func (s *LazySchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	return s.get().ParseValue(s.enter(pc), v)
}

// export emits a $ref to a $defs entry so recursive graphs terminate.
func (s *LazySchema) export(ex *exporter) (*js.Schema, error) {
	ref, err := ex.define(s, func() (*js.Schema, error) { return ex.of(s.get()) })
	if err != nil {
		return nil, err
	}
	return s.annotate(ref), nil
}
