package skema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType          = "invalid_type"
	CodeInvalidLiteral       = "invalid_literal"
	CodeTooSmall             = "too_small"
	CodeTooBig               = "too_big"
	CodeInvalidString        = "invalid_string"
	CodeUnrecognizedKeys     = "unrecognized_keys"
	CodeInvalidUnion         = "invalid_union"
	CodeInvalidDiscriminator = "invalid_union_discriminator"
	CodeNotMultipleOf        = "not_multiple_of"
	CodeCustom               = "custom"
	// Source decoding
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
)

// Validation kinds carried by invalid_string issues.
const (
	ValidationEmail      = "email"
	ValidationURL        = "url"
	ValidationUUID       = "uuid"
	ValidationRegex      = "regex"
	ValidationStartsWith = "startswith"
	ValidationEndsWith   = "endswith"
	ValidationDateTime   = "datetime"
	ValidationDate       = "date"
)

// Measured kinds carried by too_small/too_big issues.
const (
	MeasureString = "string"
	MeasureNumber = "number"
	MeasureArray  = "array"
	MeasureDate   = "date"
)

// Issue represents a single validation failure.
type Issue struct {
	Code    string `json:"code"`
	Path    Path   `json:"path"`
	Message string `json:"message"`

	Expected string `json:"expected,omitempty"`
	Received string `json:"received,omitempty"`
	// Minimum/Maximum hold the bound of too_small/too_big issues.
	Minimum   any    `json:"minimum,omitempty"`
	Maximum   any    `json:"maximum,omitempty"`
	Inclusive bool   `json:"inclusive,omitempty"`
	Exact     bool   `json:"exact,omitempty"`
	Measure   string `json:"type,omitempty"`
	// Validation names the failed string check of invalid_string issues.
	Validation string   `json:"validation,omitempty"`
	Keys       []string `json:"keys,omitempty"`
	Options    []any    `json:"options,omitempty"`
	MultipleOf any      `json:"multipleOf,omitempty"`
	// UnionErrors holds one aggregated error per failed union alternative.
	UnionErrors []*ValidationError `json:"unionErrors,omitempty"`
	// Params carries structured parameters of custom issues.
	Params map[string]any `json:"params,omitempty"`
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path.Pointer())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// ValidationError aggregates all issues collected by one Parse/SafeParse
// call. It is immutable once constructed.
type ValidationError struct {
	issues Issues
}

// NewValidationError builds the aggregate error from issues. The slice is
// copied.
func NewValidationError(issues Issues) *ValidationError {
	return &ValidationError{issues: append(Issues(nil), issues...)}
}

// Issues returns a copy of the collected issues in report order.
func (e *ValidationError) Issues() Issues {
	if e == nil {
		return nil
	}
	return append(Issues(nil), e.issues...)
}

// Len reports the number of issues.
func (e *ValidationError) Len() int {
	if e == nil {
		return 0
	}
	return len(e.issues)
}

func (e *ValidationError) Error() string { return e.issues.Error() }

// Unwrap exposes the Issues so errors.As(err, &Issues{}) keeps working.
func (e *ValidationError) Unwrap() error { return e.issues }

// MarshalJSON renders the issue list.
func (e *ValidationError) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Issues Issues `json:"issues"`
	}{Issues: e.issues})
}

// Flattened groups messages by top-level key.
type Flattened struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

// Flatten groups messages by the first path segment; issues at the root go
// to FormErrors.
func (e *ValidationError) Flatten() Flattened {
	out := Flattened{FormErrors: []string{}, FieldErrors: map[string][]string{}}
	for _, it := range e.Issues() {
		if len(it.Path) == 0 {
			out.FormErrors = append(out.FormErrors, it.Message)
			continue
		}
		key := fmt.Sprint(it.Path[0])
		out.FieldErrors[key] = append(out.FieldErrors[key], it.Message)
	}
	return out
}

// Format groups messages by full JSON Pointer, unwrapping nested union
// errors when every alternative failed.
func (e *ValidationError) Format() map[string][]string {
	out := map[string][]string{}
	var walk func(Issues)
	walk = func(iss Issues) {
		for _, it := range iss {
			ptr := it.Path.Pointer()
			out[ptr] = append(out[ptr], it.Message)
			for _, ue := range it.UnionErrors {
				walk(ue.issues)
			}
		}
	}
	walk(e.Issues())
	return out
}

// Pointers returns the distinct JSON Pointers of the issues, sorted.
func (e *ValidationError) Pointers() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, it := range e.Issues() {
		p := it.Path.Pointer()
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// AsValidationError extracts a *ValidationError using errors.As internally.
func AsValidationError(err error) (*ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ErrInternal marks internal-consistency faults (for example a failed
// status with an empty issue sink). It is raised via panic, never returned
// as a validation failure.
var ErrInternal = errors.New("skema: internal consistency fault")
