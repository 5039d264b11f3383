package dsl

import (
	"math"

	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

type numberKind uint8

const (
	kindNumber numberKind = iota
	kindInt
	kindFloat
)

type numCheckKind uint8

const (
	numMin numCheckKind = iota
	numMax
	numMultipleOf
)

type numCheck struct {
	kind      numCheckKind
	value     float64
	inclusive bool
	message   string
}

// NumberSchema accepts integers, floats, or both, depending on the
// constructor. Integer values come out as int64 and floats as float64.
type NumberSchema struct {
	meta
	kind   numberKind
	checks []numCheck
}

// Number accepts integers and floats.
func Number() NumberSchema { return NumberSchema{kind: kindNumber} }

// Int accepts integers only; a float with an integral value is still a float.
func Int() NumberSchema { return NumberSchema{kind: kindInt} }

// Float accepts floats only.
func Float() NumberSchema { return NumberSchema{kind: kindFloat} }

func (s NumberSchema) with(c numCheck, message []string) NumberSchema {
	if len(message) > 0 {
		c.message = message[0]
	}
	s.checks = append(s.checks[:len(s.checks):len(s.checks)], c)
	return s
}

// Gt requires value > n.
func (s NumberSchema) Gt(n float64, message ...string) NumberSchema {
	return s.with(numCheck{kind: numMin, value: n}, message)
}

// Gte requires value >= n.
func (s NumberSchema) Gte(n float64, message ...string) NumberSchema {
	return s.with(numCheck{kind: numMin, value: n, inclusive: true}, message)
}

// Min is an alias of Gte.
func (s NumberSchema) Min(n float64, message ...string) NumberSchema { return s.Gte(n, message...) }

// Lt requires value < n.
func (s NumberSchema) Lt(n float64, message ...string) NumberSchema {
	return s.with(numCheck{kind: numMax, value: n}, message)
}

// Lte requires value <= n.
func (s NumberSchema) Lte(n float64, message ...string) NumberSchema {
	return s.with(numCheck{kind: numMax, value: n, inclusive: true}, message)
}

// Max is an alias of Lte.
func (s NumberSchema) Max(n float64, message ...string) NumberSchema { return s.Lte(n, message...) }

func (s NumberSchema) Positive(message ...string) NumberSchema    { return s.Gt(0, message...) }
func (s NumberSchema) Negative(message ...string) NumberSchema    { return s.Lt(0, message...) }
func (s NumberSchema) Nonnegative(message ...string) NumberSchema { return s.Gte(0, message...) }
func (s NumberSchema) Nonpositive(message ...string) NumberSchema { return s.Lte(0, message...) }

// MultipleOf requires value to be an integral multiple of n.
func (s NumberSchema) MultipleOf(n float64, message ...string) NumberSchema {
	return s.with(numCheck{kind: numMultipleOf, value: n}, message)
}

// ErrorMap sets the schema-local message formatter.
func (s NumberSchema) ErrorMap(m skema.ErrorMap) NumberSchema { s.errorMap = m; return s }

// Describe sets the description exported to JSON Schema.
func (s NumberSchema) Describe(text string) NumberSchema { s.description = text; return s }

func (s NumberSchema) Optional() OptionalSchema    { return Optional(s) }
func (s NumberSchema) Nullable() NullableSchema    { return Nullable(s) }
func (s NumberSchema) Default(v any) DefaultSchema { return Default(s, v) }

func (s NumberSchema) expected() string {
	switch s.kind {
	case kindInt:
		return skema.TypeInteger.String()
	case kindFloat:
		return skema.TypeFloat.String()
	}
	return "number"
}

func (s NumberSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	pc = s.enter(pc)
	var n numValue
	switch t := skema.Classify(v); {
	case t == skema.TypeInteger && s.kind != kindFloat:
		i, ok := skema.AsInt(v)
		if !ok {
			return outOfRange(pc, v)
		}
		n = numValue{i: i, f: float64(i), isInt: true}
	case t == skema.TypeFloat && s.kind != kindInt:
		x, ok := skema.AsFloat(v)
		if !ok {
			return aborted(pc, v, s.expected())
		}
		n = numValue{f: x}
	default:
		return aborted(pc, v, s.expected())
	}
	var st skema.Status
	for _, c := range s.checks {
		if iss, failed := c.run(n); failed {
			iss.Message = c.message
			pc.AddIssue(v, iss)
			st.Dirty()
		}
	}
	if n.isInt {
		return st.With(n.i)
	}
	return st.With(n.f)
}

// outOfRange reports an unsigned integer above math.MaxInt64.
func outOfRange(pc *skema.ParseContext, v any) skema.Result {
	pc.AddIssue(v, skema.Issue{Code: skema.CodeTooBig, Measure: skema.MeasureNumber, Maximum: int64(math.MaxInt64), Inclusive: true})
	return skema.Aborted
}

// numValue keeps integers exact; f is only used for float inputs and
// non-integral bounds.
type numValue struct {
	i     int64
	f     float64
	isInt bool
}

// cmp compares n with bound b: -1, 0 or +1. Integers are compared exactly.
func (n numValue) cmp(b float64) int {
	if !n.isInt || math.IsNaN(b) {
		switch {
		case n.f < b:
			return -1
		case n.f > b:
			return 1
		}
		return 0
	}
	switch {
	case b >= 1<<63:
		return -1
	case b < -(1 << 63):
		return 1
	}
	fl := math.Floor(b)
	switch fi := int64(fl); {
	case n.i < fi:
		return -1
	case n.i > fi:
		return 1
	case b == fl:
		return 0
	}
	return -1
}

func (c numCheck) run(n numValue) (skema.Issue, bool) {
	switch c.kind {
	case numMin:
		if d := n.cmp(c.value); d < 0 || (!c.inclusive && d == 0) {
			return skema.Issue{Code: skema.CodeTooSmall, Measure: skema.MeasureNumber, Minimum: bound(c.value), Inclusive: c.inclusive}, true
		}
	case numMax:
		if d := n.cmp(c.value); d > 0 || (!c.inclusive && d == 0) {
			return skema.Issue{Code: skema.CodeTooBig, Measure: skema.MeasureNumber, Maximum: bound(c.value), Inclusive: c.inclusive}, true
		}
	case numMultipleOf:
		if !isMultiple(n, c.value) {
			return skema.Issue{Code: skema.CodeNotMultipleOf, MultipleOf: bound(c.value)}, true
		}
	}
	return skema.Issue{}, false
}

// bound reports integral bounds as int64 so issues render "5", not "5.0".
func bound(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}

func isMultiple(n numValue, step float64) bool {
	if step == 0 {
		return false
	}
	if n.isInt && step == math.Trunc(step) && math.Abs(step) < 1<<63 {
		return n.i%int64(step) == 0
	}
	q := n.f / step
	return math.Abs(q-math.Round(q)) <= 1e-9*math.Max(1, math.Abs(q))
}

func (s NumberSchema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{Type: "number"}
	if s.kind == kindInt {
		out.Type = "integer"
	}
	for _, c := range s.checks {
		v := c.value
		switch {
		case c.kind == numMin && c.inclusive:
			out.Minimum = &v
		case c.kind == numMin:
			out.ExclusiveMinimum = &v
		case c.kind == numMax && c.inclusive:
			out.Maximum = &v
		case c.kind == numMax:
			out.ExclusiveMaximum = &v
		case c.kind == numMultipleOf:
			out.MultipleOf = &v
		}
	}
	return s.annotate(out), nil
}
