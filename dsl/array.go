package dsl

import (
	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

type lenBound struct {
	n       int
	message string
}

// ArraySchema validates every element of a sequence against one schema.
type ArraySchema struct {
	meta
	elem          skema.Schema
	min, max, len *lenBound
}

// Array returns a schema for sequences whose elements all match elem.
func Array(elem skema.Schema) ArraySchema { return ArraySchema{elem: elem} }

func newBound(n int, message []string) *lenBound {
	b := &lenBound{n: n}
	if len(message) > 0 {
		b.message = message[0]
	}
	return b
}

// Min requires at least n elements.
func (s ArraySchema) Min(n int, message ...string) ArraySchema { s.min = newBound(n, message); return s }

// Max allows at most n elements.
func (s ArraySchema) Max(n int, message ...string) ArraySchema { s.max = newBound(n, message); return s }

// Length requires exactly n elements.
func (s ArraySchema) Length(n int, message ...string) ArraySchema {
	s.len = newBound(n, message)
	return s
}

// Nonempty is Min(1).
func (s ArraySchema) Nonempty(message ...string) ArraySchema { return s.Min(1, message...) }

// Element returns the element schema.
func (s ArraySchema) Element() skema.Schema { return s.elem }

func (s ArraySchema) ErrorMap(m skema.ErrorMap) ArraySchema { s.errorMap = m; return s }
func (s ArraySchema) Describe(text string) ArraySchema      { s.description = text; return s }
func (s ArraySchema) Optional() OptionalSchema              { return Optional(s) }
func (s ArraySchema) Nullable() NullableSchema              { return Nullable(s) }

func (s ArraySchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	pc = s.enter(pc)
	if !accepts(skema.Classify(v), skema.TypeArray, skema.TypeTuple) {
		return aborted(pc, v, skema.TypeArray.String())
	}
	items, _ := skema.AsSlice(v)
	var st skema.Status
	if b := s.len; b != nil {
		switch {
		case len(items) < b.n:
			s.lengthFail(pc, v, &st, skema.CodeTooSmall, b, true)
		case len(items) > b.n:
			s.lengthFail(pc, v, &st, skema.CodeTooBig, b, true)
		}
	}
	if b := s.min; b != nil && len(items) < b.n {
		s.lengthFail(pc, v, &st, skema.CodeTooSmall, b, false)
	}
	if b := s.max; b != nil && len(items) > b.n {
		s.lengthFail(pc, v, &st, skema.CodeTooBig, b, false)
	}
	results := make([]skema.Result, len(items))
	for i, item := range items {
		results[i] = s.elem.ParseValue(pc.Child(i), item)
	}
	return skema.MergeList(st, results)
}

func (s ArraySchema) lengthFail(pc *skema.ParseContext, v any, st *skema.Status, code string, b *lenBound, exact bool) {
	iss := lengthIssue(code, skema.MeasureArray, b.n, exact)
	iss.Message = b.message
	pc.AddIssue(v, iss)
	st.Dirty()
}

func (s ArraySchema) export(ex *exporter) (*js.Schema, error) {
	items, err := ex.of(s.elem)
	if err != nil {
		return nil, err
	}
	out := &js.Schema{Type: "array", Items: items}
	if s.len != nil {
		out.MinItems, out.MaxItems = js.Ptr(s.len.n), js.Ptr(s.len.n)
	}
	if s.min != nil {
		out.MinItems = js.Ptr(s.min.n)
	}
	if s.max != nil {
		out.MaxItems = js.Ptr(s.max.n)
	}
	return s.annotate(out), nil
}
