package dsl_test

import (
	"context"
	"math"
	"regexp"
	"testing"
	"time"

	skema "github.com/reoring/skema"
	g "github.com/reoring/skema/dsl"
)

// issuesOf parses v with s and returns the issues of the failure, failing the
// test when the parse succeeds.
func issuesOf(t *testing.T, s skema.Schema, v any) skema.Issues {
	t.Helper()
	res := skema.SafeParse(context.Background(), s, v)
	if res.Success {
		t.Fatalf("expected failure, got success with %#v", res.Data)
	}
	return res.Error.Issues()
}

// mustOK parses v with s and returns the output, failing on any issue.
func mustOK(t *testing.T, s skema.Schema, v any) any {
	t.Helper()
	out, err := skema.Parse(context.Background(), s, v)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return out
}

func TestString_AllChecksRun(t *testing.T) {
	s := g.String().Min(5).Email().StartsWith("x")
	iss := issuesOf(t, s, "ab")
	if len(iss) != 3 {
		t.Fatalf("expected 3 issues, got %d: %v", len(iss), iss)
	}
	if iss[0].Code != skema.CodeTooSmall || iss[0].Message != "String must contain at least 5 character(s)" {
		t.Fatalf("unexpected first issue: %+v", iss[0])
	}
	if iss[1].Code != skema.CodeInvalidString || iss[1].Validation != skema.ValidationEmail {
		t.Fatalf("expected invalid_string email, got %+v", iss[1])
	}
	if iss[2].Message != `Invalid input: must start with "x"` {
		t.Fatalf("unexpected startswith message: %q", iss[2].Message)
	}
}

func TestString_TypeMismatchIsSingleIssue(t *testing.T) {
	iss := issuesOf(t, g.String().Min(5).Email(), 42)
	if len(iss) != 1 || iss[0].Code != skema.CodeInvalidType {
		t.Fatalf("expected only invalid_type, got %v", iss)
	}
	if iss[0].Message != "Expected string, received integer" {
		t.Fatalf("unexpected message: %q", iss[0].Message)
	}
}

func TestString_CustomMessagesAndTrim(t *testing.T) {
	iss := issuesOf(t, g.String().Length(3, "need three"), "ab")
	if iss[0].Message != "need three" || !iss[0].Exact {
		t.Fatalf("expected exact custom message, got %+v", iss[0])
	}
	if v := mustOK(t, g.String().Trim().Min(1), "  hi "); v != "hi" {
		t.Fatalf("expected trimmed output, got %q", v)
	}
	iss = issuesOf(t, g.String().Trim().Min(2), "  a  ")
	if iss[0].Code != skema.CodeTooSmall {
		t.Fatalf("expected too_small on trimmed value, got %+v", iss[0])
	}
}

func TestString_Formats(t *testing.T) {
	cases := []struct {
		name string
		s    g.StringSchema
		ok   string
		bad  string
	}{
		{"email", g.String().Email(), "a@example.com", "nope"},
		{"url", g.String().URL(), "https://example.com/x", "::"},
		{"uuid", g.String().UUID(), "123e4567-e89b-12d3-a456-426614174000", "123"},
		{"regex", g.String().Regex(regexp.MustCompile(`^[a-z]+$`)), "abc", "ABC"},
		{"endswith", g.String().EndsWith(".go"), "main.go", "main.rs"},
		{"datetime", g.String().DateTime(""), "2024-05-01T10:00:00Z", "2024-05-01"},
		{"date", g.String().Date(""), "2024-05-01", "2024-5-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if v := mustOK(t, tc.s, tc.ok); v != tc.ok {
				t.Fatalf("expected %q, got %v", tc.ok, v)
			}
			iss := issuesOf(t, tc.s, tc.bad)
			if len(iss) != 1 || iss[0].Code != skema.CodeInvalidString {
				t.Fatalf("expected one invalid_string, got %v", iss)
			}
		})
	}
}

func TestNumber_Kinds(t *testing.T) {
	if v := mustOK(t, g.Int(), 3); v != int64(3) {
		t.Fatalf("expected int64(3), got %#v", v)
	}
	iss := issuesOf(t, g.Int(), 3.0)
	if iss[0].Expected != "integer" || iss[0].Received != "float" {
		t.Fatalf("expected integer/float mismatch, got %+v", iss[0])
	}
	if _, ok := mustOK(t, g.Number(), 3.5).(float64); !ok {
		t.Fatalf("expected float64 output")
	}
	if _, ok := mustOK(t, g.Number(), 7).(int64); !ok {
		t.Fatalf("expected int64 output")
	}
	iss = issuesOf(t, g.Float(), 1)
	if iss[0].Expected != "float" {
		t.Fatalf("expected float, got %+v", iss[0])
	}
	iss = issuesOf(t, g.Number(), "1")
	if iss[0].Expected != "number" || iss[0].Received != "string" {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}
}

func TestNumber_Bounds(t *testing.T) {
	mustOK(t, g.Int().Gte(5), 5)
	iss := issuesOf(t, g.Int().Gt(5), 5)
	if iss[0].Code != skema.CodeTooSmall || iss[0].Inclusive {
		t.Fatalf("expected exclusive too_small, got %+v", iss[0])
	}
	if iss[0].Message != "Number must be greater than 5" {
		t.Fatalf("unexpected message: %q", iss[0].Message)
	}
	iss = issuesOf(t, g.Number().Lte(1.5), 2.0)
	if iss[0].Message != "Number must be less than or equal to 1.5" {
		t.Fatalf("unexpected message: %q", iss[0].Message)
	}
	iss = issuesOf(t, g.Int().Positive().MultipleOf(2), -3)
	if len(iss) != 2 {
		t.Fatalf("expected both checks to fail, got %v", iss)
	}
	if iss[1].Code != skema.CodeNotMultipleOf || iss[1].Message != "Number must be a multiple of 2" {
		t.Fatalf("unexpected multipleOf issue: %+v", iss[1])
	}
}

func TestNumber_MultipleOfTolerance(t *testing.T) {
	mustOK(t, g.Number().MultipleOf(0.1), 0.3)
	iss := issuesOf(t, g.Number().MultipleOf(0.1), 0.35)
	if iss[0].Message != "Number must be a multiple of 0.1" {
		t.Fatalf("unexpected message: %q", iss[0].Message)
	}
}

func TestNumber_IntegersCompareExactly(t *testing.T) {
	const twoPow53 = 9007199254740992
	iss := issuesOf(t, g.Int().Lte(twoPow53), int64(twoPow53+1))
	if iss[0].Code != skema.CodeTooBig {
		t.Fatalf("expected too_big above 2^53, got %+v", iss[0])
	}
	mustOK(t, g.Int().Gt(twoPow53), int64(twoPow53+1))
	mustOK(t, g.Int().Lt(twoPow53), int64(twoPow53-1))
	iss = issuesOf(t, g.Int().MultipleOf(2), int64(twoPow53+1))
	if iss[0].Code != skema.CodeNotMultipleOf {
		t.Fatalf("expected not_multiple_of, got %+v", iss[0])
	}
	mustOK(t, g.Int().Gte(2.5), 3)
	issuesOf(t, g.Int().Gte(2.5), 2)
	mustOK(t, g.Int().Lte(1e19), int64(math.MaxInt64))
	if v := mustOK(t, g.Int(), uint64(math.MaxInt64)); v != int64(math.MaxInt64) {
		t.Fatalf("expected MaxInt64, got %#v", v)
	}
}

func TestNumber_UnsignedOverflowIsTooBig(t *testing.T) {
	iss := issuesOf(t, g.Int(), uint64(math.MaxUint64))
	if len(iss) != 1 || iss[0].Code != skema.CodeTooBig {
		t.Fatalf("expected a single too_big, got %v", iss)
	}
	if iss[0].Maximum != int64(math.MaxInt64) || !iss[0].Inclusive {
		t.Fatalf("expected inclusive MaxInt64 bound, got %+v", iss[0])
	}
}

func TestLeafSchemas(t *testing.T) {
	if v := mustOK(t, g.Bool(), true); v != true {
		t.Fatalf("expected true, got %v", v)
	}
	if iss := issuesOf(t, g.Bool(), "true"); iss[0].Expected != "boolean" {
		t.Fatalf("expected boolean, got %+v", iss[0])
	}
	if v := mustOK(t, g.Null(), nil); v != nil {
		t.Fatalf("expected nil, got %v", v)
	}
	if iss := issuesOf(t, g.Null(), 0); iss[0].Expected != "null" {
		t.Fatalf("expected null, got %+v", iss[0])
	}
	in := map[string]any{"x": []any{1}}
	if v := mustOK(t, g.Any(), in); v.(map[string]any)["x"] == nil {
		t.Fatalf("expected passthrough, got %v", v)
	}
	mustOK(t, g.Unknown(), skema.Missing)
	if iss := issuesOf(t, g.Never(), 1); iss[0].Expected != "never" {
		t.Fatalf("expected never, got %+v", iss[0])
	}
}

func TestDate(t *testing.T) {
	v := mustOK(t, g.Date(), "2024-02-03")
	d, ok := v.(time.Time)
	if !ok || d.Year() != 2024 || d.Month() != time.February || d.Day() != 3 {
		t.Fatalf("unexpected date: %#v", v)
	}
	now := time.Now()
	if got := mustOK(t, g.DateTime(), now); !got.(time.Time).Equal(now) {
		t.Fatalf("expected time.Time passthrough")
	}
	iss := issuesOf(t, g.Date(), "03/02/2024")
	if iss[0].Code != skema.CodeInvalidString || iss[0].Validation != skema.ValidationDate {
		t.Fatalf("expected invalid_string date, got %+v", iss[0])
	}
	mustOK(t, g.Date().Layout("02/01/2006"), "03/02/2024")

	lo := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	iss = issuesOf(t, g.Date().Min(lo), "2023-12-31")
	if iss[0].Code != skema.CodeTooSmall || iss[0].Measure != skema.MeasureDate {
		t.Fatalf("expected too_small date, got %+v", iss[0])
	}
	if iss = issuesOf(t, g.Date(), 5); iss[0].Expected != "date" {
		t.Fatalf("expected date, got %+v", iss[0])
	}
}
