package dsl

import (
	"context"

	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// RefineFunc inspects an already validated value and returns the issues it
// finds. Issue paths are relative to the refined value; an empty Code means
// custom.
type RefineFunc func(ctx context.Context, v any) []skema.Issue

// EffectsSchema runs a refinement or a transformation after its inner
// schema. Effects are skipped when the inner schema aborts.
type EffectsSchema struct {
	meta
	inner     skema.Schema
	refine    RefineFunc
	transform func(ctx context.Context, v any) (any, error)
}

// Refine adds a predicate check; a false result records one custom issue
// carrying message.
func Refine(s skema.Schema, check func(v any) bool, message ...string) EffectsSchema {
	msg := ""
	if len(message) > 0 {
		msg = message[0]
	}
	return EffectsSchema{inner: s, refine: func(_ context.Context, v any) []skema.Issue {
		if check(v) {
			return nil
		}
		return []skema.Issue{{Code: skema.CodeCustom, Message: msg}}
	}}
}

// SuperRefine adds a check that reports any number of issues.
func SuperRefine(s skema.Schema, fn RefineFunc) EffectsSchema {
	return EffectsSchema{inner: s, refine: fn}
}

// Transform maps the inner output through fn. An error from fn records a
// custom issue and aborts.
func Transform(s skema.Schema, fn func(ctx context.Context, v any) (any, error)) EffectsSchema {
	return EffectsSchema{inner: s, transform: fn}
}

// Inner returns the schema the effect wraps.
func (s EffectsSchema) Inner() skema.Schema { return s.inner }

func (s EffectsSchema) ErrorMap(m skema.ErrorMap) EffectsSchema { s.errorMap = m; return s }
func (s EffectsSchema) Describe(text string) EffectsSchema      { s.description = text; return s }
func (s EffectsSchema) Optional() OptionalSchema                { return Optional(s) }
func (s EffectsSchema) Nullable() NullableSchema                { return Nullable(s) }

func (s EffectsSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	pc = s.enter(pc)
	r := s.inner.ParseValue(pc, v)
	if r.IsAborted() {
		return r
	}
	st := skema.Status{}
	if r.IsDirty() {
		st.Dirty()
	}
	if s.refine != nil {
		for _, iss := range s.refine(pc.Context(), r.Value) {
			if iss.Code == "" {
				iss.Code = skema.CodeCustom
			}
			pc.AddIssue(r.Value, iss)
			st.Dirty()
		}
		return st.With(r.Value)
	}
	out, err := s.transform(pc.Context(), r.Value)
	if err != nil {
		pc.AddIssue(r.Value, skema.Issue{Code: skema.CodeCustom, Message: err.Error()})
		return skema.Aborted
	}
	return st.With(out)
}

func (s EffectsSchema) export(ex *exporter) (*js.Schema, error) {
	out, err := ex.of(s.inner)
	if err != nil {
		return nil, err
	}
	return s.annotate(out), nil
}

// PipeSchema feeds the output of one schema into another.
type PipeSchema struct {
	meta
	in, out skema.Schema
}

// Pipe validates with in, then validates its output with out. out runs only
// when in is valid.
func Pipe(in, out skema.Schema) PipeSchema { return PipeSchema{in: in, out: out} }

func (s PipeSchema) ErrorMap(m skema.ErrorMap) PipeSchema { s.errorMap = m; return s }
func (s PipeSchema) Describe(text string) PipeSchema      { s.description = text; return s }
func (s PipeSchema) Optional() OptionalSchema             { return Optional(s) }

func (s PipeSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	pc = s.enter(pc)
	r := s.in.ParseValue(pc, v)
	if !r.IsValid() {
		return r
	}
	return s.out.ParseValue(pc, r.Value)
}

func (s PipeSchema) export(ex *exporter) (*js.Schema, error) {
	out, err := ex.of(s.in)
	if err != nil {
		return nil, err
	}
	return s.annotate(out), nil
}

// Refine is Refine(s, check, message...).
func (s ObjectSchema) Refine(check func(v any) bool, message ...string) EffectsSchema {
	return Refine(s, check, message...)
}

// SuperRefine is SuperRefine(s, fn).
func (s ObjectSchema) SuperRefine(fn RefineFunc) EffectsSchema { return SuperRefine(s, fn) }

// Refine is Refine(s, check, message...).
func (s StringSchema) Refine(check func(v any) bool, message ...string) EffectsSchema {
	return Refine(s, check, message...)
}

// SuperRefine is SuperRefine(s, fn).
func (s ArraySchema) SuperRefine(fn RefineFunc) EffectsSchema { return SuperRefine(s, fn) }
