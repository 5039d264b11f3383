package dsl

import (
	"regexp"
	"strings"
	"unicode/utf8"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/format"
	js "github.com/reoring/skema/jsonschema"
)

type stringCheckKind uint8

const (
	strMin stringCheckKind = iota
	strMax
	strLength
	strEmail
	strURL
	strUUID
	strRegex
	strStartsWith
	strEndsWith
	strDateTime
	strDate
	strTrim
)

type stringCheck struct {
	kind    stringCheckKind
	n       int
	text    string
	re      *regexp.Regexp
	message string
}

// StringSchema accepts strings and runs its checks in order.
type StringSchema struct {
	meta
	checks []stringCheck
}

// String returns a string schema without checks.
func String() StringSchema { return StringSchema{} }

func (s StringSchema) with(c stringCheck, message []string) StringSchema {
	if len(message) > 0 {
		c.message = message[0]
	}
	s.checks = append(s.checks[:len(s.checks):len(s.checks)], c)
	return s
}

// Min requires at least n characters.
func (s StringSchema) Min(n int, message ...string) StringSchema {
	return s.with(stringCheck{kind: strMin, n: n}, message)
}

// Max allows at most n characters.
func (s StringSchema) Max(n int, message ...string) StringSchema {
	return s.with(stringCheck{kind: strMax, n: n}, message)
}

// Length requires exactly n characters.
func (s StringSchema) Length(n int, message ...string) StringSchema {
	return s.with(stringCheck{kind: strLength, n: n}, message)
}

// Nonempty is Min(1).
func (s StringSchema) Nonempty(message ...string) StringSchema { return s.Min(1, message...) }

// Email checks the value with the call's email predicate.
func (s StringSchema) Email(message ...string) StringSchema {
	return s.with(stringCheck{kind: strEmail}, message)
}

// URL checks the value with the call's URL predicate.
func (s StringSchema) URL(message ...string) StringSchema {
	return s.with(stringCheck{kind: strURL}, message)
}

// UUID checks the value with the call's UUID predicate.
func (s StringSchema) UUID(message ...string) StringSchema {
	return s.with(stringCheck{kind: strUUID}, message)
}

// Regex requires re to match.
func (s StringSchema) Regex(re *regexp.Regexp, message ...string) StringSchema {
	return s.with(stringCheck{kind: strRegex, re: re}, message)
}

// StartsWith requires the given prefix.
func (s StringSchema) StartsWith(prefix string, message ...string) StringSchema {
	return s.with(stringCheck{kind: strStartsWith, text: prefix}, message)
}

// EndsWith requires the given suffix.
func (s StringSchema) EndsWith(suffix string, message ...string) StringSchema {
	return s.with(stringCheck{kind: strEndsWith, text: suffix}, message)
}

// DateTime requires the value to parse with layout (RFC 3339 when empty).
func (s StringSchema) DateTime(layout string, message ...string) StringSchema {
	return s.with(stringCheck{kind: strDateTime, text: layout}, message)
}

// Date requires the value to parse with layout (YYYY-MM-DD when empty).
func (s StringSchema) Date(layout string, message ...string) StringSchema {
	if layout == "" {
		layout = format.DateLayout
	}
	return s.with(stringCheck{kind: strDate, text: layout}, message)
}

// Trim removes surrounding whitespace; later checks and the output see the
// trimmed value.
func (s StringSchema) Trim() StringSchema { return s.with(stringCheck{kind: strTrim}, nil) }

// ErrorMap sets the schema-local message formatter.
func (s StringSchema) ErrorMap(m skema.ErrorMap) StringSchema { s.errorMap = m; return s }

// Describe sets the description exported to JSON Schema.
func (s StringSchema) Describe(text string) StringSchema { s.description = text; return s }

// Optional wraps s with Optional.
func (s StringSchema) Optional() OptionalSchema { return Optional(s) }

// Nullable wraps s with Nullable.
func (s StringSchema) Nullable() NullableSchema { return Nullable(s) }

// Default wraps s with Default.
func (s StringSchema) Default(v string) DefaultSchema { return Default(s, v) }

func (s StringSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	pc = s.enter(pc)
	str, ok := skema.AsString(v)
	if !ok {
		return aborted(pc, v, skema.TypeString.String())
	}
	var st skema.Status
	for _, c := range s.checks {
		if c.kind == strTrim {
			str = strings.TrimSpace(str)
			continue
		}
		if iss, failed := c.run(pc, str); failed {
			iss.Message = c.message
			pc.AddIssue(v, iss)
			st.Dirty()
		}
	}
	return st.With(str)
}

func (c stringCheck) run(pc *skema.ParseContext, str string) (skema.Issue, bool) {
	switch c.kind {
	case strMin:
		if utf8.RuneCountInString(str) < c.n {
			return lengthIssue(skema.CodeTooSmall, skema.MeasureString, c.n, false), true
		}
	case strMax:
		if utf8.RuneCountInString(str) > c.n {
			return lengthIssue(skema.CodeTooBig, skema.MeasureString, c.n, false), true
		}
	case strLength:
		switch n := utf8.RuneCountInString(str); {
		case n < c.n:
			return lengthIssue(skema.CodeTooSmall, skema.MeasureString, c.n, true), true
		case n > c.n:
			return lengthIssue(skema.CodeTooBig, skema.MeasureString, c.n, true), true
		}
	case strEmail:
		return formatIssue(pc, skema.ValidationEmail, str, "")
	case strURL:
		return formatIssue(pc, skema.ValidationURL, str, "")
	case strUUID:
		return formatIssue(pc, skema.ValidationUUID, str, "")
	case strDateTime:
		return formatIssue(pc, skema.ValidationDateTime, str, c.text)
	case strDate:
		return formatIssue(pc, skema.ValidationDate, str, c.text)
	case strRegex:
		if c.re == nil || !c.re.MatchString(str) {
			return skema.Issue{Code: skema.CodeInvalidString, Validation: skema.ValidationRegex}, true
		}
	case strStartsWith:
		if !strings.HasPrefix(str, c.text) {
			return skema.Issue{Code: skema.CodeInvalidString, Validation: skema.ValidationStartsWith, Expected: c.text}, true
		}
	case strEndsWith:
		if !strings.HasSuffix(str, c.text) {
			return skema.Issue{Code: skema.CodeInvalidString, Validation: skema.ValidationEndsWith, Expected: c.text}, true
		}
	}
	return skema.Issue{}, false
}

func formatIssue(pc *skema.ParseContext, validation, str, layout string) (skema.Issue, bool) {
	if pc.Formats().Check(validation, str, layout) {
		return skema.Issue{}, false
	}
	return skema.Issue{Code: skema.CodeInvalidString, Validation: validation}, true
}

// lengthIssue builds a too_small/too_big issue for an inclusive or exact
// length bound.
func lengthIssue(code, measure string, n int, exact bool) skema.Issue {
	iss := skema.Issue{Code: code, Measure: measure, Inclusive: true, Exact: exact}
	if code == skema.CodeTooSmall {
		iss.Minimum = n
	} else {
		iss.Maximum = n
	}
	return iss
}

func (s StringSchema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{Type: "string"}
	for _, c := range s.checks {
		switch c.kind {
		case strMin:
			out.MinLength = js.Ptr(c.n)
		case strMax:
			out.MaxLength = js.Ptr(c.n)
		case strLength:
			out.MinLength, out.MaxLength = js.Ptr(c.n), js.Ptr(c.n)
		case strEmail:
			out.Format = "email"
		case strURL:
			out.Format = "uri"
		case strUUID:
			out.Format = "uuid"
		case strDateTime:
			out.Format = "date-time"
		case strDate:
			out.Format = "date"
		case strRegex:
			if c.re != nil {
				out.Pattern = c.re.String()
			}
		case strStartsWith:
			out.Pattern = "^" + regexp.QuoteMeta(c.text)
		case strEndsWith:
			out.Pattern = regexp.QuoteMeta(c.text) + "$"
		}
	}
	return s.annotate(out), nil
}
