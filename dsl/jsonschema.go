package dsl

import (
	"errors"
	"fmt"

	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// ErrNoJSONSchema is returned for schemas without a JSON Schema projection.
var ErrNoJSONSchema = errors.New("dsl: schema has no JSON Schema projection")

// maxDefs bounds $defs so a getter that builds a fresh Lazy on every call
// cannot recurse forever.
const maxDefs = 256

// ToJSONSchema projects s to a JSON Schema document. Lazy schemas become
// $defs entries referenced with $ref, so recursive schemas terminate.
// Refinements and transforms are not represented.
func ToJSONSchema(s skema.Schema) (*js.Schema, error) {
	ex := &exporter{defs: map[string]*js.Schema{}, names: map[*LazySchema]string{}}
	out, err := ex.of(s)
	if err != nil {
		return nil, err
	}
	if len(ex.defs) > 0 {
		out.Defs = ex.defs
	}
	out.Schema = js.Draft
	return out, nil
}

type jsonSchemaer interface {
	JSONSchema() (*js.Schema, error)
}

type exportable interface {
	export(ex *exporter) (*js.Schema, error)
}

type exporter struct {
	defs  map[string]*js.Schema
	names map[*LazySchema]string
}

func (ex *exporter) of(s skema.Schema) (*js.Schema, error) {
	switch t := s.(type) {
	case exportable:
		return t.export(ex)
	case jsonSchemaer:
		return t.JSONSchema()
	}
	return nil, fmt.Errorf("%w: %T", ErrNoJSONSchema, s)
}

func (ex *exporter) define(l *LazySchema, build func() (*js.Schema, error)) (*js.Schema, error) {
	name, ok := ex.names[l]
	if !ok {
		if len(ex.names) >= maxDefs {
			return nil, fmt.Errorf("dsl: more than %d lazy schemas while exporting", maxDefs)
		}
		name = fmt.Sprintf("lazy%d", len(ex.names)+1)
		ex.names[l] = name
		def, err := build()
		if err != nil {
			return nil, err
		}
		ex.defs[name] = def
	}
	return &js.Schema{Ref: "#/$defs/" + name}, nil
}

func (s ArraySchema) JSONSchema() (*js.Schema, error)              { return ToJSONSchema(s) }
func (s ObjectSchema) JSONSchema() (*js.Schema, error)             { return ToJSONSchema(s) }
func (s TupleSchema) JSONSchema() (*js.Schema, error)              { return ToJSONSchema(s) }
func (s RecordSchema) JSONSchema() (*js.Schema, error)             { return ToJSONSchema(s) }
func (s *LazySchema) JSONSchema() (*js.Schema, error)              { return ToJSONSchema(s) }
func (s OptionalSchema) JSONSchema() (*js.Schema, error)           { return ToJSONSchema(s) }
func (s NullableSchema) JSONSchema() (*js.Schema, error)           { return ToJSONSchema(s) }
func (s DefaultSchema) JSONSchema() (*js.Schema, error)            { return ToJSONSchema(s) }
func (s UnionSchema) JSONSchema() (*js.Schema, error)              { return ToJSONSchema(s) }
func (s DiscriminatedUnionSchema) JSONSchema() (*js.Schema, error) { return ToJSONSchema(s) }
func (s EffectsSchema) JSONSchema() (*js.Schema, error)            { return ToJSONSchema(s) }
func (s PipeSchema) JSONSchema() (*js.Schema, error)               { return ToJSONSchema(s) }
