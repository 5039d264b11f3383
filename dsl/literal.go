package dsl

import (
	"reflect"

	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// LiteralSchema accepts a single constant. The input must have the same
// parsed type as the constant: true never matches 1, and 1 never matches 1.0.
type LiteralSchema struct {
	meta
	value any
}

// Literal returns a schema accepting only v.
func Literal(v any) LiteralSchema { return LiteralSchema{value: v} }

// Value returns the constant.
func (s LiteralSchema) Value() any { return s.value }

func (s LiteralSchema) ErrorMap(m skema.ErrorMap) LiteralSchema { s.errorMap = m; return s }
func (s LiteralSchema) Describe(text string) LiteralSchema      { s.description = text; return s }
func (s LiteralSchema) Optional() OptionalSchema                { return Optional(s) }
func (s LiteralSchema) Nullable() NullableSchema                { return Nullable(s) }

func (s LiteralSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	if skema.Classify(v) == skema.Classify(s.value) && sameValue(v, s.value) {
		return skema.OK(s.value)
	}
	s.enter(pc).AddIssue(v, skema.Issue{
		Code:     skema.CodeInvalidLiteral,
		Expected: skema.FormatLiteral(s.value),
		Received: skema.Classify(v).String(),
	})
	return skema.Aborted
}

func (s LiteralSchema) JSONSchema() (*js.Schema, error) {
	return s.annotate(&js.Schema{Const: s.value}), nil
}

// sameValue compares two values already known to share a parsed type.
func sameValue(a, b any) bool {
	if a == b {
		return true
	}
	switch skema.Classify(a) {
	case skema.TypeString:
		x, _ := skema.AsString(a)
		y, _ := skema.AsString(b)
		return x == y
	case skema.TypeInteger:
		x, _ := skema.AsInt(a)
		y, _ := skema.AsInt(b)
		return x == y
	case skema.TypeFloat:
		x, _ := skema.AsFloat(a)
		y, _ := skema.AsFloat(b)
		return x == y
	case skema.TypeBool:
		x, _ := skema.AsBool(a)
		y, _ := skema.AsBool(b)
		return x == y
	case skema.TypeNull:
		return true
	}
	return reflect.DeepEqual(a, b)
}

// looseEqual is sameValue without the parsed-type requirement between
// integers and floats.
func looseEqual(a, b any) bool {
	ta, tb := skema.Classify(a), skema.Classify(b)
	if ta == tb {
		return sameValue(a, b)
	}
	if isNumeric(ta) && isNumeric(tb) {
		return toFloat(a) == toFloat(b)
	}
	return false
}

func isNumeric(t skema.ParsedType) bool { return t == skema.TypeInteger || t == skema.TypeFloat }

func toFloat(v any) float64 {
	if i, ok := skema.AsInt(v); ok {
		return float64(i)
	}
	f, _ := skema.AsFloat(v)
	return f
}
