package dsl

import (
	"time"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/format"
	js "github.com/reoring/skema/jsonschema"
)

// DateSchema accepts time.Time values and strings in its layout, producing
// time.Time.
type DateSchema struct {
	meta
	layout     string
	validation string
	min, max   *time.Time
}

// Date accepts time.Time or a "2006-01-02" string.
func Date() DateSchema {
	return DateSchema{layout: format.DateLayout, validation: skema.ValidationDate}
}

// DateTime accepts time.Time or an RFC 3339 string.
func DateTime() DateSchema {
	return DateSchema{layout: format.DateTimeLayout, validation: skema.ValidationDateTime}
}

// Layout replaces the accepted string layout.
func (s DateSchema) Layout(layout string) DateSchema { s.layout = layout; return s }

// Min requires the value to be at or after t.
func (s DateSchema) Min(t time.Time) DateSchema { s.min = &t; return s }

// Max requires the value to be at or before t.
func (s DateSchema) Max(t time.Time) DateSchema { s.max = &t; return s }

func (s DateSchema) ErrorMap(m skema.ErrorMap) DateSchema { s.errorMap = m; return s }
func (s DateSchema) Describe(text string) DateSchema      { s.description = text; return s }
func (s DateSchema) Optional() OptionalSchema             { return Optional(s) }
func (s DateSchema) Nullable() NullableSchema             { return Nullable(s) }

func (s DateSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	pc = s.enter(pc)
	var t time.Time
	switch skema.Classify(v) {
	case skema.TypeDate:
		t = asTime(v)
	case skema.TypeString:
		str, _ := skema.AsString(v)
		parsed, err := format.ParseTime(str, s.layout)
		if err != nil {
			pc.AddIssue(v, skema.Issue{Code: skema.CodeInvalidString, Validation: s.validation})
			return skema.Aborted
		}
		t = parsed
	default:
		return aborted(pc, v, skema.TypeDate.String())
	}
	var st skema.Status
	if s.min != nil && t.Before(*s.min) {
		pc.AddIssue(v, skema.Issue{Code: skema.CodeTooSmall, Measure: skema.MeasureDate, Minimum: *s.min, Inclusive: true})
		st.Dirty()
	}
	if s.max != nil && t.After(*s.max) {
		pc.AddIssue(v, skema.Issue{Code: skema.CodeTooBig, Measure: skema.MeasureDate, Maximum: *s.max, Inclusive: true})
		st.Dirty()
	}
	return st.With(t)
}

func (s DateSchema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{Type: "string", Format: "date-time"}
	if s.validation == skema.ValidationDate {
		out.Format = "date"
	}
	return s.annotate(out), nil
}

func asTime(v any) time.Time {
	if p, ok := v.(*time.Time); ok {
		return *p
	}
	t, _ := v.(time.Time)
	return t
}
