package dsl_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goccy/go-json"

	skema "github.com/reoring/skema"
	g "github.com/reoring/skema/dsl"
	js "github.com/reoring/skema/jsonschema"
)

func TestJSONSchema_Object(t *testing.T) {
	s := g.Object(
		g.Field("name", g.String().Min(1).Describe("display name")),
		g.Field("age", g.Int().Nonnegative().Optional()),
		g.Field("role", g.Enum("admin", "user").Default("user")),
	).Strict()

	out, err := s.JSONSchema()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Schema != js.Draft || out.Type != "object" {
		t.Fatalf("unexpected root: %+v", out)
	}
	if !reflect.DeepEqual(out.Required, []string{"name"}) {
		t.Fatalf("unexpected required: %v", out.Required)
	}
	if out.AdditionalProperties != false {
		t.Fatalf("strict must forbid additional properties, got %v", out.AdditionalProperties)
	}
	name := out.Properties["name"]
	if name.Type != "string" || name.MinLength == nil || *name.MinLength != 1 || name.Description != "display name" {
		t.Fatalf("unexpected name property: %+v", name)
	}
	age := out.Properties["age"]
	if age.Type != "integer" || age.Minimum == nil || *age.Minimum != 0 {
		t.Fatalf("unexpected age property: %+v", age)
	}
	if role := out.Properties["role"]; role.Default != "user" || len(role.Enum) != 2 {
		t.Fatalf("unexpected role property: %+v", role)
	}
}

func TestJSONSchema_LazyUsesDefs(t *testing.T) {
	var node skema.Schema
	lazy := g.Lazy(func() skema.Schema { return node })
	node = g.Object(
		g.Field("value", g.Int()),
		g.Field("next", lazy.Nullable()),
	)

	out, err := g.ToJSONSchema(node)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	def, ok := out.Defs["lazy1"]
	if !ok || len(out.Defs) != 1 {
		t.Fatalf("expected a single $defs entry, got %v", out.Defs)
	}
	if def.Type != "object" {
		t.Fatalf("unexpected definition: %+v", def)
	}
	ref := out.Properties["next"].AnyOf[0]
	if ref.Ref != "#/$defs/lazy1" {
		t.Fatalf("expected $ref, got %+v", ref)
	}
	if inner := def.Properties["next"].AnyOf[0]; inner.Ref != "#/$defs/lazy1" {
		t.Fatalf("recursion must reuse the definition, got %+v", inner)
	}

	b, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := back["$defs"]; !ok {
		t.Fatalf("expected $defs in %s", b)
	}
}

func TestJSONSchema_Composites(t *testing.T) {
	out, err := g.Tuple(g.String(), g.Bool()).JSONSchema()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.PrefixItems) != 2 || out.Items != false || *out.MaxItems != 2 {
		t.Fatalf("unexpected tuple schema: %+v", out)
	}

	out, err = g.Union(g.String(), g.Null()).JSONSchema()
	if err != nil || len(out.AnyOf) != 2 {
		t.Fatalf("unexpected union schema: %+v, %v", out, err)
	}

	out, err = g.Record(g.Int()).JSONSchema()
	if err != nil || out.AdditionalProperties.(*js.Schema).Type != "integer" || out.PropertyNames != nil {
		t.Fatalf("unexpected record schema: %+v, %v", out, err)
	}

	out, err = shapes().JSONSchema()
	if err != nil || len(out.OneOf) != 2 {
		t.Fatalf("unexpected discriminated union schema: %+v, %v", out, err)
	}
}

type opaque struct{}

func (opaque) ParseValue(_ *skema.ParseContext, v any) skema.Result { return skema.OK(v) }

func TestJSONSchema_Unsupported(t *testing.T) {
	_, err := g.Array(opaque{}).JSONSchema()
	if !errors.Is(err, g.ErrNoJSONSchema) {
		t.Fatalf("expected ErrNoJSONSchema, got %v", err)
	}
}
