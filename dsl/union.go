package dsl

import (
	"fmt"

	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// UnionSchema tries its alternatives in order. Each runs against a scratch
// context so a losing alternative leaves no issues behind.
type UnionSchema struct {
	meta
	options []skema.Schema
}

// Union returns a schema accepting any of options. The first valid
// alternative wins; failing that, the first dirty one; failing that, a
// single invalid_union issue carries every alternative's error.
func Union(options ...skema.Schema) UnionSchema {
	return UnionSchema{options: append([]skema.Schema(nil), options...)}
}

// Options returns a copy of the alternatives.
func (s UnionSchema) Options() []skema.Schema { return append([]skema.Schema(nil), s.options...) }

// Or returns a union with o appended.
func (s UnionSchema) Or(o skema.Schema) UnionSchema {
	s.options = append(s.options[:len(s.options):len(s.options)], o)
	return s
}

func (s UnionSchema) ErrorMap(m skema.ErrorMap) UnionSchema { s.errorMap = m; return s }
func (s UnionSchema) Describe(text string) UnionSchema      { s.description = text; return s }
func (s UnionSchema) Optional() OptionalSchema              { return Optional(s) }
func (s UnionSchema) Nullable() NullableSchema              { return Nullable(s) }

func (s UnionSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	if len(s.options) == 0 {
		panic(fmt.Errorf("%w: union without alternatives", skema.ErrInternal))
	}
	pc = s.enter(pc)
	var (
		chosen      skema.Result
		chosenIss   skema.Issues
		haveDirty   bool
		unionErrors = make([]*skema.ValidationError, 0, len(s.options))
	)
	for _, o := range s.options {
		scratch := pc.Scratch()
		r := o.ParseValue(scratch, v)
		if r.IsValid() {
			return r
		}
		if len(scratch.Issues()) == 0 {
			panic(fmt.Errorf("%w: %s union alternative without issues", skema.ErrInternal, r.Status))
		}
		if r.IsDirty() && !haveDirty {
			chosen, chosenIss, haveDirty = r, scratch.Issues(), true
		}
		unionErrors = append(unionErrors, skema.NewValidationError(scratch.Issues()))
	}
	if haveDirty {
		pc.MergeIssues(chosenIss)
		return chosen
	}
	pc.AddIssue(v, skema.Issue{Code: skema.CodeInvalidUnion, UnionErrors: unionErrors})
	return skema.Aborted
}

func (s UnionSchema) export(ex *exporter) (*js.Schema, error) {
	out := &js.Schema{}
	for _, o := range s.options {
		p, err := ex.of(o)
		if err != nil {
			return nil, err
		}
		out.AnyOf = append(out.AnyOf, p)
	}
	return s.annotate(out), nil
}

// DiscriminatedUnionSchema selects one object alternative by the value of a
// discriminator key instead of trying each in turn.
type DiscriminatedUnionSchema struct {
	meta
	key     string
	options []ObjectSchema
	values  []any
	owner   []int
}

// DiscriminatedUnion builds a union over objects whose key field is a
// Literal or Enum. It panics when an option lacks such a field or two
// options share a discriminator value.
func DiscriminatedUnion(key string, options ...ObjectSchema) DiscriminatedUnionSchema {
	s := DiscriminatedUnionSchema{key: key, options: append([]ObjectSchema(nil), options...)}
	for i, o := range s.options {
		field, ok := o.Get(key)
		if !ok {
			panic(fmt.Sprintf("dsl: discriminated union option %d has no %q field", i, key))
		}
		var vals []any
		switch t := field.(type) {
		case LiteralSchema:
			vals = []any{t.value}
		case EnumSchema:
			vals = t.Options()
		default:
			panic(fmt.Sprintf("dsl: discriminated union option %d: %q must be a literal or enum, got %T", i, key, field))
		}
		for _, v := range vals {
			if containsLoose(s.values, v) {
				panic(fmt.Sprintf("dsl: discriminated union: duplicate discriminator value %s", skema.FormatLiteral(v)))
			}
			s.values = append(s.values, v)
			s.owner = append(s.owner, i)
		}
	}
	return s
}

func (s DiscriminatedUnionSchema) ErrorMap(m skema.ErrorMap) DiscriminatedUnionSchema {
	s.errorMap = m
	return s
}

func (s DiscriminatedUnionSchema) Describe(text string) DiscriminatedUnionSchema {
	s.description = text
	return s
}

func (s DiscriminatedUnionSchema) Optional() OptionalSchema { return Optional(s) }

func (s DiscriminatedUnionSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	pc = s.enter(pc)
	if skema.Classify(v) != skema.TypeMap {
		return aborted(pc, v, skema.TypeMap.String())
	}
	in, _ := skema.AsMap(v)
	tag, present := in[s.key]
	if present {
		for i, val := range s.values {
			if skema.Classify(tag) == skema.Classify(val) && sameValue(tag, val) {
				return s.options[s.owner[i]].ParseValue(pc, v)
			}
		}
	}
	pc.AddIssue(v, skema.Issue{
		Code:    skema.CodeInvalidDiscriminator,
		Path:    skema.Path{s.key},
		Options: append([]any(nil), s.values...),
	})
	return skema.Aborted
}

func (s DiscriminatedUnionSchema) export(ex *exporter) (*js.Schema, error) {
	out := &js.Schema{}
	for _, o := range s.options {
		p, err := ex.of(o)
		if err != nil {
			return nil, err
		}
		out.OneOf = append(out.OneOf, p)
	}
	return s.annotate(out), nil
}
