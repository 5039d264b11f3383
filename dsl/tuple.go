package dsl

import (
	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// TupleSchema validates a fixed number of positional elements, optionally
// followed by any number of elements matching a rest schema.
type TupleSchema struct {
	meta
	items []skema.Schema
	rest  skema.Schema
}

// Tuple returns a schema with one positional schema per element.
func Tuple(items ...skema.Schema) TupleSchema {
	return TupleSchema{items: append([]skema.Schema(nil), items...)}
}

// Rest validates elements past the fixed positions against r.
func (s TupleSchema) Rest(r skema.Schema) TupleSchema { s.rest = r; return s }

// Items returns a copy of the positional schemas.
func (s TupleSchema) Items() []skema.Schema { return append([]skema.Schema(nil), s.items...) }

func (s TupleSchema) ErrorMap(m skema.ErrorMap) TupleSchema { s.errorMap = m; return s }
func (s TupleSchema) Describe(text string) TupleSchema      { s.description = text; return s }
func (s TupleSchema) Optional() OptionalSchema              { return Optional(s) }
func (s TupleSchema) Nullable() NullableSchema              { return Nullable(s) }

func (s TupleSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	pc = s.enter(pc)
	if !accepts(skema.Classify(v), skema.TypeArray, skema.TypeTuple) {
		return aborted(pc, v, skema.TypeArray.String())
	}
	elems, _ := skema.AsSlice(v)
	n := len(s.items)
	if len(elems) < n {
		pc.AddIssue(v, lengthIssue(skema.CodeTooSmall, skema.MeasureArray, n, false))
		return skema.Aborted
	}
	if len(elems) > n && s.rest == nil {
		pc.AddIssue(v, lengthIssue(skema.CodeTooBig, skema.MeasureArray, n, false))
		return skema.Aborted
	}
	results := make([]skema.Result, len(elems))
	for i, e := range elems {
		item := s.rest
		if i < n {
			item = s.items[i]
		}
		results[i] = item.ParseValue(pc.Child(i), e)
	}
	return skema.MergeList(skema.Status{}, results)
}

func (s TupleSchema) export(ex *exporter) (*js.Schema, error) {
	out := &js.Schema{Type: "array", MinItems: js.Ptr(len(s.items))}
	for _, it := range s.items {
		p, err := ex.of(it)
		if err != nil {
			return nil, err
		}
		out.PrefixItems = append(out.PrefixItems, p)
	}
	if s.rest == nil {
		out.Items = false
		out.MaxItems = js.Ptr(len(s.items))
	} else {
		r, err := ex.of(s.rest)
		if err != nil {
			return nil, err
		}
		out.Items = r
	}
	return s.annotate(out), nil
}
