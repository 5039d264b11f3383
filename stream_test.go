package skema_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/dsl"
)

func TestStreamArray_ValidatesEachElement(t *testing.T) {
	item := dsl.Object(dsl.Field("sku", dsl.String()), dsl.Field("qty", dsl.Int().Positive()))
	in := `[{"sku":"a","qty":1}, {"sku":"b","qty":0}, {"sku":"c","qty":2}]`

	var valid []any
	var failed []string
	err := skema.StreamArray(context.Background(), item, strings.NewReader(in), func(i int, res skema.SafeParseResult) error {
		if res.Success {
			valid = append(valid, res.Data)
			return nil
		}
		failed = append(failed, res.Error.Pointers()...)
		return nil
	}, skema.ParseOpt{PathPrefix: skema.Path{"items"}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(valid) != 2 {
		t.Fatalf("expected 2 valid elements, got %v", valid)
	}
	if len(failed) != 1 || failed[0] != "/items/1/qty" {
		t.Fatalf("expected failure at /items/1/qty, got %v", failed)
	}
}

func TestStreamArray_StopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	var seen int
	err := skema.StreamArray(context.Background(), dsl.Int(), strings.NewReader(`[1, 2, 3]`), func(i int, _ skema.SafeParseResult) error {
		seen++
		if i == 1 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || seen != 2 {
		t.Fatalf("expected stop after 2 elements, got err=%v seen=%d", err, seen)
	}
}

func TestStreamArray_DecodeFailures(t *testing.T) {
	noop := func(int, skema.SafeParseResult) error { return nil }
	cases := []struct {
		name string
		in   string
		code string
		ptr  string
	}{
		{"not an array", `{"a":1}`, skema.CodeParseError, "/"},
		{"truncated", `[1, 2`, skema.CodeParseError, "/"},
		{"duplicate key", `[{}, {"a":1,"a":2}]`, skema.CodeDuplicateKey, "/1/a"},
		{"trailing", `[] []`, skema.CodeParseError, "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := skema.StreamArray(context.Background(), dsl.Any(), strings.NewReader(tc.in), noop,
				skema.ParseOpt{OnDuplicateKey: skema.Error})
			ve, ok := skema.AsValidationError(err)
			if !ok {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			iss := ve.Issues()
			if len(iss) != 1 || iss[0].Code != tc.code || iss[0].Path.Pointer() != tc.ptr {
				t.Fatalf("expected %s at %s, got %v", tc.code, tc.ptr, iss)
			}
		})
	}
}

func TestStreamArray_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := skema.StreamArray(ctx, dsl.Int(), strings.NewReader(`[1]`), func(int, skema.SafeParseResult) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
