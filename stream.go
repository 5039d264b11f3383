package skema

import (
	"context"
	"io"

	eng "github.com/reoring/skema/internal/engine"
	"github.com/reoring/skema/internal/stream"
)

// ElementFunc receives the outcome of one array element. Returning an error
// stops StreamArray with that error.
type ElementFunc func(i int, res SafeParseResult) error

// StreamArray reads a top-level JSON array from r and validates each element
// against elem as soon as it is decoded, so only one element is held in
// memory at a time. Element issue paths start with the element index (after
// ParseOpt.PathPrefix). MaxDepth and OnDuplicateKey apply per element.
//
// A failing element does not stop the stream. Malformed input, a duplicate
// key under OnDuplicateKey=Error, or a non-array document stops it with a
// *ValidationError; ctx cancellation stops it with ctx.Err().
func StreamArray(ctx context.Context, elem Schema, r io.Reader, fn ElementFunc, opts ...ParseOpt) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opt := lastOpt(opts)
	src := getJSONDriver().NewReader(r)

	tok, err := src.NextToken()
	if err == nil && tok.Kind != eng.KindBeginArray {
		err = eng.IssueError{Code: CodeParseError, Message: "expected a top-level array", Offset: src.Location()}
	}
	if err != nil {
		return decodeFailure(ctx, opt, unexpectedEOF(err))
	}

	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, err := src.NextToken()
		if err != nil {
			return decodeFailure(ctx, opt, unexpectedEOF(err))
		}
		if tok.Kind == eng.KindEndArray {
			break
		}
		eo := opt
		eo.PathPrefix = opt.PathPrefix.Index(i)
		v, err := eng.Decode(stream.NewSubtree(src, tok), engineOptions(eo))
		if err != nil {
			return decodeFailure(ctx, eo, err)
		}
		if err := fn(i, SafeParse(ctx, elem, v, eo)); err != nil {
			return err
		}
	}

	if _, err := src.NextToken(); err != io.EOF {
		if err == nil {
			err = eng.IssueError{Code: CodeParseError, Message: "trailing data after top-level value", Offset: src.Location()}
		}
		return decodeFailure(ctx, opt, err)
	}
	return nil
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
