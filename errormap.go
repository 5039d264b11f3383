package skema

import (
	"fmt"
	"strings"
	"time"

	"github.com/reoring/skema/i18n"
)

// ErrorMapCtx is the default context handed to an ErrorMap.
type ErrorMapCtx struct {
	// DefaultError is the message produced by the lower-priority formatters.
	DefaultError string
	// Data is the input value of the node that failed.
	Data any
}

// ErrorMap formats the message of an issue. Its return value is used as an
// opaque message string.
type ErrorMap func(iss Issue, ctx ErrorMapCtx) string

// DefaultErrorMap renders the built-in message through the i18n Translator.
func DefaultErrorMap(iss Issue, _ ErrorMapCtx) string {
	return i18n.T(messageKey(iss), messageData(iss))
}

func messageKey(iss Issue) string {
	switch iss.Code {
	case CodeInvalidType:
		if iss.Received == TypeMissing.String() {
			return iss.Code + ".required"
		}
	case CodeInvalidString:
		return iss.Code + "." + iss.Validation
	case CodeTooSmall, CodeTooBig:
		k := iss.Code + "." + iss.Measure
		switch {
		case iss.Exact:
			k += ".exact"
		case !iss.Inclusive:
			k += ".exclusive"
		}
		return k
	}
	return iss.Code
}

func messageData(iss Issue) map[string]string {
	data := map[string]string{}
	for k, v := range iss.Params {
		data[k] = fmt.Sprint(v)
	}
	if iss.Expected != "" {
		data["expected"] = iss.Expected
	}
	if iss.Received != "" {
		data["received"] = iss.Received
	}
	if iss.Minimum != nil {
		data["minimum"] = formatBound(iss.Minimum)
	}
	if iss.Maximum != nil {
		data["maximum"] = formatBound(iss.Maximum)
	}
	if iss.MultipleOf != nil {
		data["multipleOf"] = fmt.Sprint(iss.MultipleOf)
	}
	if iss.Validation != "" {
		data["validation"] = iss.Validation
	}
	if len(iss.Keys) > 0 {
		data["keys"] = "'" + strings.Join(iss.Keys, "', '") + "'"
	}
	if len(iss.Options) > 0 {
		data["options"] = JoinOptions(iss.Options)
	}
	return data
}

func formatBound(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

// JoinOptions renders literal options as an alternation: 'a' | 'b' | 3.
func JoinOptions(opts []any) string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		parts[i] = FormatLiteral(o)
	}
	return strings.Join(parts, " | ")
}

// FormatLiteral renders a literal the way issue messages quote it.
func FormatLiteral(v any) string {
	switch t := v.(type) {
	case string:
		return "'" + t + "'"
	case nil:
		return "null"
	}
	return fmt.Sprint(v)
}
