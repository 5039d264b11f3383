// Package codec pairs a decoding schema with its inverse so values can
// travel both ways between the wire form and the domain form.
package codec

import (
	"context"
	"fmt"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/dsl"
	js "github.com/reoring/skema/jsonschema"
)

// EncodeFunc converts a domain value back into its wire form.
type EncodeFunc func(ctx context.Context, v any) (any, error)

// Codec decodes with one schema and encodes with EncodeFunc, validating the
// encoded result against the wire schema. A Codec is itself a schema: using
// it inside an object decodes that field.
type Codec struct {
	decode skema.Schema
	wire   skema.Schema
	encode EncodeFunc
}

// New builds a Codec. decode maps wire values to domain values; wire
// validates what encode produces.
func New(decode, wire skema.Schema, encode EncodeFunc) Codec {
	return Codec{decode: decode, wire: wire, encode: encode}
}

// Identity returns a Codec whose both directions validate with s and pass the
// value through unchanged.
func Identity(s skema.Schema) Codec {
	return New(s, s, func(_ context.Context, v any) (any, error) { return v, nil })
}

func (c Codec) ParseValue(pc *skema.ParseContext, v any) skema.Result {
	return c.decode.ParseValue(pc, v)
}

// JSONSchema describes the wire form.
func (c Codec) JSONSchema() (*js.Schema, error) { return dsl.ToJSONSchema(c.wire) }

// Decode validates a wire value and returns the domain value.
func (c Codec) Decode(ctx context.Context, v any, opts ...skema.ParseOpt) (any, error) {
	return skema.Parse(ctx, c.decode, v, opts...)
}

// Encode converts a domain value to the wire form and validates it. Encoder
// failures are reported as a custom issue at the root.
func (c Codec) Encode(ctx context.Context, v any, opts ...skema.ParseOpt) (any, error) {
	out, err := c.encode(ctx, v)
	if err != nil {
		return nil, skema.NewValidationError(skema.Issues{{Code: skema.CodeCustom, Path: skema.Path{}, Message: err.Error()}})
	}
	return skema.Parse(ctx, c.wire, out, opts...)
}

func errExpected(want string, v any) error {
	return fmt.Errorf("expected %s, got %s", want, skema.Classify(v))
}
