package skema_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/dsl"
)

func userSchema() dsl.ObjectSchema {
	return dsl.Object(
		dsl.Field("name", dsl.String().Min(1)),
		dsl.Field("age", dsl.Int().Optional()),
	)
}

func TestParse_EndToEnd(t *testing.T) {
	ctx := context.Background()

	res := skema.SafeParse(ctx, userSchema(), map[string]any{"name": ""})
	if res.Success {
		t.Fatalf("expected failure for empty name")
	}
	iss := res.Error.Issues()
	if len(iss) != 1 {
		t.Fatalf("expected 1 issue, got %d: %v", len(iss), iss)
	}
	if iss[0].Code != skema.CodeTooSmall || !iss[0].Path.Equal(skema.Path{"name"}) {
		t.Fatalf("expected too_small at [name], got %s at %v", iss[0].Code, iss[0].Path)
	}

	v, err := skema.Parse(ctx, userSchema(), map[string]any{"name": "Bo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{"name": "Bo"}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("expected %#v, got %#v", want, v)
	}
	if _, present := v.(map[string]any)["age"]; present {
		t.Fatalf("expected absent optional key to stay absent")
	}
}

func TestParse_ReturnsValidationError(t *testing.T) {
	_, err := skema.Parse(context.Background(), dsl.String(), 1)
	if err == nil {
		t.Fatalf("expected error")
	}
	ve, ok := skema.AsValidationError(err)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Len() != 1 || ve.Issues()[0].Code != skema.CodeInvalidType {
		t.Fatalf("expected one invalid_type issue, got %v", ve.Issues())
	}
	var iss skema.Issues
	if !errors.As(err, &iss) {
		t.Fatalf("expected errors.As to extract Issues, got: %v", err)
	}
	if got, ok := skema.AsIssues(err); !ok || len(got) != 1 {
		t.Fatalf("expected AsIssues to succeed, got %v", got)
	}
	if err.Error() != "invalid_type at /" {
		t.Fatalf("unexpected summary %q", err.Error())
	}
}

func TestValidationError_IssuesIsACopy(t *testing.T) {
	res := skema.SafeParse(context.Background(), dsl.String(), 1)
	iss := res.Error.Issues()
	iss[0].Code = "changed"
	if res.Error.Issues()[0].Code != skema.CodeInvalidType {
		t.Fatalf("expected the error to be immutable")
	}
}

func TestParseAs(t *testing.T) {
	n, err := skema.ParseAs[int64](context.Background(), dsl.Int(), 7)
	if err != nil || n != 7 {
		t.Fatalf("expected 7, got %d (%v)", n, err)
	}
	_, err = skema.ParseAs[string](context.Background(), dsl.Int(), 7)
	if !errors.Is(err, skema.ErrUnexpectedOutput) {
		t.Fatalf("expected ErrUnexpectedOutput, got %v", err)
	}
}

func TestMustParsePanicsOnFailure(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic")
		}
		if _, ok := r.(*skema.ValidationError); !ok {
			t.Fatalf("expected *ValidationError panic value, got %T", r)
		}
	}()
	skema.MustParse(context.Background(), dsl.Int(), "x")
}

func TestIs(t *testing.T) {
	if !skema.Is(context.Background(), dsl.Bool(), true) {
		t.Fatalf("expected true to be a bool")
	}
	if skema.Is(context.Background(), dsl.Bool(), "true") {
		t.Fatalf("expected no coercion from string")
	}
}

// silentFailure fails without recording an issue.
type silentFailure struct{}

func (silentFailure) ParseValue(*skema.ParseContext, any) skema.Result { return skema.DirtyResult(nil) }

func TestInternalFaultPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, skema.ErrInternal) {
			t.Fatalf("expected ErrInternal panic, got %v", r)
		}
	}()
	skema.SafeParse(context.Background(), silentFailure{}, 1)
}

func TestUnionWithoutAlternativesPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, skema.ErrInternal) {
			t.Fatalf("expected ErrInternal panic, got %v", r)
		}
	}()
	skema.SafeParse(context.Background(), dsl.Union(), 1)
}

func TestFlattenAndFormat(t *testing.T) {
	s := dsl.Object(
		dsl.Field("name", dsl.String().Min(1)),
		dsl.Field("tags", dsl.Array(dsl.String())),
	).Strict()
	res := skema.SafeParse(context.Background(), s, map[string]any{
		"name":  "",
		"tags":  []any{"a", 2},
		"extra": true,
	})
	if res.Success {
		t.Fatalf("expected failure")
	}
	flat := res.Error.Flatten()
	if len(flat.FormErrors) != 1 {
		t.Fatalf("expected the unrecognized_keys issue as a form error, got %v", flat.FormErrors)
	}
	if len(flat.FieldErrors["name"]) != 1 || len(flat.FieldErrors["tags"]) != 1 {
		t.Fatalf("unexpected field errors %v", flat.FieldErrors)
	}
	formatted := res.Error.Format()
	if len(formatted["/tags/1"]) != 1 {
		t.Fatalf("expected an entry for /tags/1, got %v", formatted)
	}
	if got := res.Error.Pointers(); !reflect.DeepEqual(got, []string{"/", "/name", "/tags/1"}) {
		t.Fatalf("unexpected pointers %v", got)
	}
}

func TestValidationError_MarshalJSON(t *testing.T) {
	res := skema.SafeParse(context.Background(), dsl.Object(dsl.Field("a", dsl.Int())), map[string]any{})
	b, err := res.Error.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"issues":[{"code":"invalid_type","path":["a"],"message":"Required","expected":"integer","received":"missing"}]}`
	if string(b) != want {
		t.Fatalf("expected %s, got %s", want, b)
	}
}
