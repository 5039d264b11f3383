package codec

import (
	"context"
	"time"

	"github.com/reoring/skema/dsl"
	"github.com/reoring/skema/format"
)

// TimeRFC3339 converts between RFC 3339 strings and time.Time. Encoding
// normalizes to UTC with trailing fractional zeros trimmed.
func TimeRFC3339() Codec {
	return New(dsl.DateTime(), dsl.String().DateTime(format.DateTimeLayout), func(_ context.Context, v any) (any, error) {
		t, ok := v.(time.Time)
		if !ok {
			return nil, errExpected("date", v)
		}
		return t.UTC().Format(time.RFC3339Nano), nil
	})
}

// UnixMillis converts between integer epoch milliseconds and time.Time.
func UnixMillis() Codec {
	decode := dsl.Transform(dsl.Int(), func(_ context.Context, v any) (any, error) {
		return time.UnixMilli(v.(int64)).UTC(), nil
	})
	return New(decode, dsl.Int(), func(_ context.Context, v any) (any, error) {
		t, ok := v.(time.Time)
		if !ok {
			return nil, errExpected("date", v)
		}
		return t.UnixMilli(), nil
	})
}
