package skema

import (
	"encoding/json"
	"math"
	"reflect"
	"time"
)

// ParsedType is the symbolic classification of a runtime value.
type ParsedType uint8

const (
	TypeUnknown ParsedType = iota
	TypeString
	TypeInteger
	TypeFloat
	TypeBool
	TypeNull
	TypeMap
	TypeArray
	TypeTuple
	TypeDate
	TypeMissing
	TypeNever
)

var parsedTypeNames = [...]string{
	TypeUnknown: "unknown",
	TypeString:  "string",
	TypeInteger: "integer",
	TypeFloat:   "float",
	TypeBool:    "boolean",
	TypeNull:    "null",
	TypeMap:     "map",
	TypeArray:   "array",
	TypeTuple:   "tuple",
	TypeDate:    "date",
	TypeMissing: "missing",
	TypeNever:   "never",
}

func (t ParsedType) String() string {
	if int(t) < len(parsedTypeNames) {
		return parsedTypeNames[t]
	}
	return "unknown"
}

// Classify maps v to exactly one ParsedType. It is total and side-effect free.
// Integers and floats are kept apart (no widening); Go arrays classify as
// tuples while slices classify as arrays.
func Classify(v any) ParsedType {
	switch t := v.(type) {
	case nil:
		return TypeNull
	case missing:
		return TypeMissing
	case string:
		return TypeString
	case bool:
		return TypeBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInteger
	case float32, float64:
		return TypeFloat
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return TypeInteger
		}
		return TypeFloat
	case time.Time:
		return TypeDate
	case map[string]any:
		return TypeMap
	case []any:
		return TypeArray
	}
	return classifyReflect(reflect.ValueOf(v))
}

func classifyReflect(rv reflect.Value) ParsedType {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return TypeNull
		}
		return Classify(rv.Elem().Interface())
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInteger
	case reflect.Float32, reflect.Float64:
		return TypeFloat
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return TypeMap
		}
	case reflect.Slice:
		if rv.IsNil() {
			return TypeNull
		}
		return TypeArray
	case reflect.Array:
		return TypeTuple
	}
	return TypeUnknown
}

// AsSlice views v as []any when it classifies as an array or tuple.
func AsSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// AsMap views v as map[string]any when it classifies as a map.
func AsMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// AsString returns v as a string when it classifies as TypeString.
func AsString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return "", false
	}
	rv := deref(reflect.ValueOf(v))
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// AsBool returns v as a bool when it classifies as TypeBool.
func AsBool(v any) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	rv := deref(reflect.ValueOf(v))
	if rv.Kind() == reflect.Bool {
		return rv.Bool(), true
	}
	return false, false
}

// AsInt returns v as an int64 when it classifies as TypeInteger and fits.
func AsInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case json.Number:
		i, err := t.Int64()
		return i, err == nil
	}
	rv := deref(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}

// AsFloat returns v as a float64 when it classifies as TypeFloat.
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		if Classify(t) != TypeFloat {
			return 0, false
		}
		f, err := t.Float64()
		return f, err == nil
	}
	rv := deref(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func deref(rv reflect.Value) reflect.Value {
	for (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv
}
