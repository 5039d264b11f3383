package dsl

import (
	"sort"

	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// RecordSchema validates mappings with arbitrary keys: every key against the
// key schema and every value against the value schema.
type RecordSchema struct {
	meta
	key   skema.Schema
	value skema.Schema
}

// Record accepts any string key and validates every value against value.
func Record(value skema.Schema) RecordSchema { return RecordSchema{key: String(), value: value} }

// RecordOf validates keys against key and values against value.
func RecordOf(key, value skema.Schema) RecordSchema { return RecordSchema{key: key, value: value} }

func (s RecordSchema) ErrorMap(m skema.ErrorMap) RecordSchema { s.errorMap = m; return s }
func (s RecordSchema) Describe(text string) RecordSchema      { s.description = text; return s }
func (s RecordSchema) Optional() OptionalSchema               { return Optional(s) }
func (s RecordSchema) Nullable() NullableSchema               { return Nullable(s) }

func (s RecordSchema) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	pc = s.enter(pc)
	if skema.Classify(v) != skema.TypeMap {
		return aborted(pc, v, skema.TypeMap.String())
	}
	in, _ := skema.AsMap(v)
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]skema.KeyValue, 0, len(keys))
	for _, k := range keys {
		child := pc.Child(k)
		pairs = append(pairs, skema.KeyValue{
			Key:   s.key.ParseValue(child, k),
			Value: s.value.ParseValue(child, in[k]),
		})
	}
	return skema.MergeDict(skema.Status{}, pairs)
}

func (s RecordSchema) export(ex *exporter) (*js.Schema, error) {
	val, err := ex.of(s.value)
	if err != nil {
		return nil, err
	}
	out := &js.Schema{Type: "object", AdditionalProperties: val}
	if ks, ok := s.key.(StringSchema); !ok || len(ks.checks) > 0 {
		k, err := ex.of(s.key)
		if err != nil {
			return nil, err
		}
		out.PropertyNames = k
	}
	return s.annotate(out), nil
}
