package skema_test

import (
	"encoding/json"
	"testing"
	"time"

	skema "github.com/reoring/skema"
)

type color string

func TestClassify(t *testing.T) {
	s := "x"
	var nilPtr *int
	cases := []struct {
		name string
		in   any
		want skema.ParsedType
	}{
		{"string", "a", skema.TypeString},
		{"named string", color("red"), skema.TypeString},
		{"string pointer", &s, skema.TypeString},
		{"int", 1, skema.TypeInteger},
		{"int8", int8(1), skema.TypeInteger},
		{"uint64", uint64(1), skema.TypeInteger},
		{"float64", 1.0, skema.TypeFloat},
		{"float32", float32(1.5), skema.TypeFloat},
		{"json integer", json.Number("3"), skema.TypeInteger},
		{"json float", json.Number("3.5"), skema.TypeFloat},
		{"bool", true, skema.TypeBool},
		{"nil", nil, skema.TypeNull},
		{"nil pointer", nilPtr, skema.TypeNull},
		{"missing", skema.Missing, skema.TypeMissing},
		{"time", time.Now(), skema.TypeDate},
		{"map", map[string]any{}, skema.TypeMap},
		{"typed map", map[string]int{"a": 1}, skema.TypeMap},
		{"int keyed map", map[int]string{}, skema.TypeUnknown},
		{"slice", []any{1}, skema.TypeArray},
		{"typed slice", []string{"a"}, skema.TypeArray},
		{"go array", [2]int{1, 2}, skema.TypeTuple},
		{"struct", struct{}{}, skema.TypeUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := skema.Classify(tc.in); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestMissingIsDistinct(t *testing.T) {
	if skema.Missing == nil {
		t.Fatalf("expected Missing to differ from nil")
	}
	if skema.IsMissing(nil) || skema.IsMissing(struct{}{}) {
		t.Fatalf("expected only the sentinel to be Missing")
	}
	if !skema.IsMissing(skema.Missing) {
		t.Fatalf("expected IsMissing(Missing)")
	}
}

func TestAsNumberHelpers(t *testing.T) {
	if i, ok := skema.AsInt(json.Number("42")); !ok || i != 42 {
		t.Fatalf("expected 42, got %d (%v)", i, ok)
	}
	if _, ok := skema.AsInt(json.Number("4.2")); ok {
		t.Fatalf("expected a float literal not to convert to int")
	}
	if f, ok := skema.AsFloat(json.Number("4.5")); !ok || f != 4.5 {
		t.Fatalf("expected 4.5, got %v (%v)", f, ok)
	}
	if _, ok := skema.AsString(json.Number("1")); ok {
		t.Fatalf("expected json.Number not to be a string")
	}
}
