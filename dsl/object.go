package dsl

import (
	"sort"
	"sync"

	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// ShapeField is one named entry of an object shape.
type ShapeField struct {
	Name   string
	Schema skema.Schema
}

// Field builds a ShapeField.
func Field(name string, s skema.Schema) ShapeField { return ShapeField{Name: name, Schema: s} }

// shapeMemo resolves an object shape once and caches it for the life of the
// schema values sharing it.
type shapeMemo struct {
	once   sync.Once
	build  func() []ShapeField
	fields []ShapeField
	index  map[string]int
}

func newShape(build func() []ShapeField) *shapeMemo { return &shapeMemo{build: build} }

func (m *shapeMemo) get() ([]ShapeField, map[string]int) {
	m.once.Do(func() {
		m.fields, m.index = normalizeShape(m.build())
	})
	return m.fields, m.index
}

// normalizeShape dedupes fields by name: a later field replaces an earlier
// one but keeps the earlier position.
func normalizeShape(in []ShapeField) ([]ShapeField, map[string]int) {
	out := make([]ShapeField, 0, len(in))
	index := make(map[string]int, len(in))
	for _, f := range in {
		if i, ok := index[f.Name]; ok {
			out[i] = f
			continue
		}
		index[f.Name] = len(out)
		out = append(out, f)
	}
	return out, index
}

// ObjectSchema validates mappings against an ordered field shape. Unknown
// keys are stripped unless the policy or a catchall says otherwise.
type ObjectSchema struct {
	meta
	shape    *shapeMemo
	policy   skema.UnknownPolicy
	catchall skema.Schema
}

// Object returns an object schema with the given fields, in order.
func Object(fields ...ShapeField) ObjectSchema {
	fs := append([]ShapeField(nil), fields...)
	return ObjectSchema{shape: newShape(func() []ShapeField { return fs })}
}

// LazyObject defers building the shape until first use, so fields can refer
// to schemas declared later. fn runs at most once per schema value.
func LazyObject(fn func() []ShapeField) ObjectSchema {
	return ObjectSchema{shape: newShape(fn)}
}

// Shape returns a copy of the resolved fields.
func (s ObjectSchema) Shape() []ShapeField {
	fields, _ := s.shape.get()
	return append([]ShapeField(nil), fields...)
}

// Get returns the schema of the named field.
func (s ObjectSchema) Get(name string) (skema.Schema, bool) {
	fields, index := s.shape.get()
	i, ok := index[name]
	if !ok {
		return nil, false
	}
	return fields[i].Schema, true
}

// Policy returns the unknown-key policy.
func (s ObjectSchema) Policy() skema.UnknownPolicy { return s.policy }

func (s ObjectSchema) derive(fn func([]ShapeField) []ShapeField) ObjectSchema {
	prev := s.shape
	s.shape = newShape(func() []ShapeField {
		fields, _ := prev.get()
		return fn(append([]ShapeField(nil), fields...))
	})
	return s
}

// Extend adds fields; a field with an existing name replaces it.
func (s ObjectSchema) Extend(fields ...ShapeField) ObjectSchema {
	return s.derive(func(cur []ShapeField) []ShapeField { return append(cur, fields...) })
}

// Augment is Extend.
func (s ObjectSchema) Augment(fields ...ShapeField) ObjectSchema { return s.Extend(fields...) }

// Merge combines the shapes of s and o. o's fields win on collision, and o's
// unknown-key policy and catchall replace those of s.
func (s ObjectSchema) Merge(o ObjectSchema) ObjectSchema {
	out := s.derive(func(cur []ShapeField) []ShapeField {
		fields, _ := o.shape.get()
		return append(cur, fields...)
	})
	out.policy, out.catchall = o.policy, o.catchall
	return out
}

// Pick keeps only the named fields.
func (s ObjectSchema) Pick(names ...string) ObjectSchema {
	keep := nameSet(names)
	return s.derive(func(cur []ShapeField) []ShapeField {
		out := cur[:0]
		for _, f := range cur {
			if keep[f.Name] {
				out = append(out, f)
			}
		}
		return out
	})
}

// Omit drops the named fields.
func (s ObjectSchema) Omit(names ...string) ObjectSchema {
	drop := nameSet(names)
	return s.derive(func(cur []ShapeField) []ShapeField {
		out := cur[:0]
		for _, f := range cur {
			if !drop[f.Name] {
				out = append(out, f)
			}
		}
		return out
	})
}

// Partial wraps the named fields (all fields when none are named) in
// Optional.
func (s ObjectSchema) Partial(names ...string) ObjectSchema {
	sel := nameSet(names)
	return s.derive(func(cur []ShapeField) []ShapeField {
		for i, f := range cur {
			if len(sel) > 0 && !sel[f.Name] {
				continue
			}
			if _, ok := f.Schema.(OptionalSchema); !ok {
				cur[i].Schema = Optional(f.Schema)
			}
		}
		return cur
	})
}

// Required strips Optional wrappers from the named fields (all fields when
// none are named).
func (s ObjectSchema) Required(names ...string) ObjectSchema {
	sel := nameSet(names)
	return s.derive(func(cur []ShapeField) []ShapeField {
		for i, f := range cur {
			if len(sel) > 0 && !sel[f.Name] {
				continue
			}
			for {
				o, ok := cur[i].Schema.(OptionalSchema)
				if !ok {
					break
				}
				cur[i].Schema = o.inner
			}
		}
		return cur
	})
}

// KeyOf returns an enum of the field names in shape order.
func (s ObjectSchema) KeyOf() EnumSchema {
	fields, _ := s.shape.get()
	opts := make([]any, len(fields))
	for i, f := range fields {
		opts[i] = f.Name
	}
	return Enum(opts...)
}

// Strict rejects unknown keys with a single unrecognized_keys issue.
func (s ObjectSchema) Strict() ObjectSchema { return s.withPolicy(skema.UnknownStrict) }

// Strip drops unknown keys silently.
func (s ObjectSchema) Strip() ObjectSchema { return s.withPolicy(skema.UnknownStrip) }

// Passthrough copies unknown keys to the output unvalidated.
func (s ObjectSchema) Passthrough() ObjectSchema { return s.withPolicy(skema.UnknownPassthrough) }

func (s ObjectSchema) withPolicy(p skema.UnknownPolicy) ObjectSchema {
	s.policy, s.catchall = p, nil
	return s
}

// Catchall validates every unknown key's value against c, overriding the
// unknown-key policy.
func (s ObjectSchema) Catchall(c skema.Schema) ObjectSchema { s.catchall = c; return s }

func (s ObjectSchema) ErrorMap(m skema.ErrorMap) ObjectSchema { s.errorMap = m; return s }
func (s ObjectSchema) Describe(text string) ObjectSchema      { s.description = text; return s }
func (s ObjectSchema) Optional() OptionalSchema               { return Optional(s) }
func (s ObjectSchema) Nullable() NullableSchema               { return Nullable(s) }

func (s ObjectSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	pc = s.enter(pc)
	if skema.Classify(v) != skema.TypeMap {
		return aborted(pc, v, skema.TypeMap.String())
	}
	in, _ := skema.AsMap(v)
	fields, index := s.shape.get()

	pairs := make([]skema.KeyValue, 0, len(in)+len(fields))
	for _, f := range fields {
		raw, ok := in[f.Name]
		if !ok {
			raw = skema.Missing
		}
		pairs = append(pairs, skema.KeyValue{
			Key:   skema.OK(f.Name),
			Value: f.Schema.ParseValue(pc.Child(f.Name), raw),
		})
	}

	var extra []string
	for k := range in {
		if _, ok := index[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	var st skema.Status
	switch {
	case s.catchall != nil:
		for _, k := range extra {
			pairs = append(pairs, skema.KeyValue{Key: skema.OK(k), Value: s.catchall.ParseValue(pc.Child(k), in[k])})
		}
	case s.policy == skema.UnknownPassthrough:
		for _, k := range extra {
			pairs = append(pairs, skema.KeyValue{Key: skema.OK(k), Value: skema.OK(in[k])})
		}
	case s.policy == skema.UnknownStrict && len(extra) > 0:
		pc.AddIssue(v, skema.Issue{Code: skema.CodeUnrecognizedKeys, Keys: extra})
		st.Dirty()
	}
	return skema.MergeDict(st, pairs)
}

func (s ObjectSchema) export(ex *exporter) (*js.Schema, error) {
	fields, _ := s.shape.get()
	out := &js.Schema{Type: "object", Properties: make(map[string]*js.Schema, len(fields))}
	for _, f := range fields {
		p, err := ex.of(f.Schema)
		if err != nil {
			return nil, err
		}
		out.Properties[f.Name] = p
		if !isOptional(f.Schema) {
			out.Required = append(out.Required, f.Name)
		}
	}
	switch {
	case s.catchall != nil:
		c, err := ex.of(s.catchall)
		if err != nil {
			return nil, err
		}
		out.AdditionalProperties = c
	case s.policy == skema.UnknownStrict:
		out.AdditionalProperties = false
	}
	return s.annotate(out), nil
}

func nameSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
