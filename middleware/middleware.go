// Package middleware validates JSON request bodies at HTTP boundaries. The
// net/http adapter lives here; echo and gin adapters are separate modules
// under this directory.
package middleware

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"

	skema "github.com/reoring/skema"
)

// ctxKeyValue is the context key for the validated body.
type ctxKeyValue struct{}

// ContextWithValue attaches a validated body to the context.
func ContextWithValue(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, validated{v})
}

// ValueFromContext retrieves the validated body stored by ValidateJSON.
func ValueFromContext(ctx context.Context) (any, bool) {
	v, ok := ctx.Value(ctxKeyValue{}).(validated)
	return v.v, ok
}

// validated wraps the body so a nil (JSON null) body is still found.
type validated struct{ v any }

// DefaultParseOpt returns a recommended default for HTTP JSON boundaries.
// - Duplicate keys are errors
// - Nesting is limited to 64 levels
func DefaultParseOpt() skema.ParseOpt {
	return skema.ParseOpt{OnDuplicateKey: skema.Error, MaxDepth: 64}
}

// ErrorPayload shapes a validation error for JSON responses.
func ErrorPayload(err *skema.ValidationError) map[string]any {
	return map[string]any{"issues": err.Issues(), "fieldErrors": err.Flatten().FieldErrors}
}

// Parse validates the body of r against s, using DefaultParseOpt when opts
// is empty.
func Parse(r *http.Request, s skema.Schema, opts ...skema.ParseOpt) skema.SafeParseResult {
	if len(opts) == 0 {
		opts = []skema.ParseOpt{DefaultParseOpt()}
	}
	return skema.SafeParseFrom(r.Context(), s, skema.JSONReader(r.Body), opts...)
}

// ValidateJSON parses the request body via schema s, stores the validated
// value in the request context on success, or responds 400 with the issues.
func ValidateJSON(s skema.Schema, next http.Handler, opts ...skema.ParseOpt) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := Parse(r, s, opts...)
		if !res.Success {
			WriteJSON(w, http.StatusBadRequest, ErrorPayload(res.Error))
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), res.Data)))
	})
}

// WriteJSON writes v as a JSON response with status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
