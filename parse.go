package skema

import (
	"context"
	"errors"
	"fmt"
	"io"

	eng "github.com/reoring/skema/internal/engine"
)

// ParseFrom decodes src and validates the decoded value against s. Decode
// failures are reported as a *ValidationError holding a single parse_error
// or duplicate_key issue, so callers handle one error type.
func ParseFrom(ctx context.Context, s Schema, src Source, opts ...ParseOpt) (any, error) {
	res := SafeParseFrom(ctx, s, src, opts...)
	if !res.Success {
		return nil, res.Error
	}
	return res.Data, nil
}

// SafeParseFrom is the non-failing variant of ParseFrom.
func SafeParseFrom(ctx context.Context, s Schema, src Source, opts ...ParseOpt) SafeParseResult {
	if s == nil {
		panic(fmt.Errorf("%w: nil schema", ErrInternal))
	}
	opt := lastOpt(opts)
	v, err := src.Decode(opt)
	if err != nil {
		return SafeParseResult{Error: decodeFailure(ctx, opt, err)}
	}
	return SafeParse(ctx, s, v, opt)
}

// StreamParse validates a JSON document read from r.
func StreamParse(ctx context.Context, s Schema, r io.Reader, opts ...ParseOpt) (any, error) {
	return ParseFrom(ctx, s, JSONReader(r), opts...)
}

// decodeFailure turns a decode error into a one-issue ValidationError.
func decodeFailure(ctx context.Context, opt ParseOpt, err error) *ValidationError {
	iss := Issue{Code: CodeParseError}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		iss.Code = ie.Code
		iss.Path = Path(ie.Path)
	}
	iss.Params = map[string]any{"cause": err.Error()}
	pc := NewParseContext(ctx, opt)
	pc.AddIssue(nil, iss)
	return NewValidationError(pc.Issues())
}
