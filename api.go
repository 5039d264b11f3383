package skema

import (
	"context"
	"errors"
	"fmt"
)

// Schema is an immutable descriptor of accepted values. ParseValue validates
// v at pc's path, recording issues in pc and returning the node's outcome.
// Implementations must not retain pc or mutate themselves.
type Schema interface {
	ParseValue(pc *ParseContext, v any) Result
}

// SafeParseResult is the tagged outcome of SafeParse.
type SafeParseResult struct {
	Success bool
	Data    any
	Error   *ValidationError
}

// SafeParse validates data against s and never fails with an error value:
// success carries the produced value, failure the aggregated
// ValidationError.
func SafeParse(ctx context.Context, s Schema, data any, opts ...ParseOpt) SafeParseResult {
	if s == nil {
		panic(fmt.Errorf("%w: nil schema", ErrInternal))
	}
	pc := NewParseContext(ctx, lastOpt(opts))
	r := s.ParseValue(pc, data)
	return finish(pc, r)
}

func finish(pc *ParseContext, r Result) SafeParseResult {
	if r.IsValid() {
		return SafeParseResult{Success: true, Data: r.Value}
	}
	mustHaveIssues(pc, r)
	return SafeParseResult{Error: NewValidationError(pc.Issues())}
}

// Parse validates data against s and returns the produced value, or a
// *ValidationError.
func Parse(ctx context.Context, s Schema, data any, opts ...ParseOpt) (any, error) {
	res := SafeParse(ctx, s, data, opts...)
	if !res.Success {
		return nil, res.Error
	}
	return res.Data, nil
}

// MustParse is like Parse but panics on failure.
func MustParse(ctx context.Context, s Schema, data any, opts ...ParseOpt) any {
	v, err := Parse(ctx, s, data, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// ErrUnexpectedOutput is returned by ParseAs when the schema's output does
// not have the requested Go type.
var ErrUnexpectedOutput = errors.New("skema: unexpected output type")

// ParseAs parses data and asserts the output to T.
func ParseAs[T any](ctx context.Context, s Schema, data any, opts ...ParseOpt) (T, error) {
	var zero T
	v, err := Parse(ctx, s, data, opts...)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %T", ErrUnexpectedOutput, v, zero)
	}
	return t, nil
}

// Is returns true if v conforms to the schema s.
func Is(ctx context.Context, s Schema, v any) bool {
	return SafeParse(ctx, s, v).Success
}
