package benchmarks_test

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/reoring/skema/dsl"
)

const (
	hugeN = 10000
	hugeK = 8
)

func userSchema(tb testing.TB) dsl.ObjectSchema {
	tb.Helper()
	return dsl.Object(
		dsl.Field("id", dsl.String().Min(1)),
		dsl.Field("name", dsl.String().Optional()),
	)
}

func hugeItemSchema(tb testing.TB) dsl.ObjectSchema {
	tb.Helper()
	return dsl.Object(
		dsl.Field("id", dsl.String()),
		dsl.Field("name", dsl.String()),
		dsl.Field("age", dsl.Int().Nonnegative()),
		dsl.Field("active", dsl.Bool()),
		dsl.Field("meta", dsl.Object(dsl.Field("score", dsl.Number()))),
	).Passthrough()
}

func smallUserJSON() []byte { return []byte(`{"id":"u_1","name":"alice"}`) }

// generateHugeJSONArray returns a JSON array of objects of the form:
// [{"id":"obj_0","name":"n0","age":0,"active":true,"meta":{"score":0},"k0":"v0_0",...}, ...]
func generateHugeJSONArray(numObjects int, extraFields int) []byte {
	var buf bytes.Buffer
	buf.Grow(numObjects * (64 + extraFields*16))
	buf.WriteByte('[')
	for i := 0; i < numObjects; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		n := strconv.Itoa(i)
		buf.WriteString(`{"id":"obj_` + n + `","name":"n` + n + `","age":` + n + `,`)
		buf.WriteString(`"active":` + strconv.FormatBool(i%2 == 0) + `,`)
		buf.WriteString(`"meta":{"score":` + n + `}`)
		for k := 0; k < extraFields; k++ {
			kk := strconv.Itoa(k)
			buf.WriteString(`,"k` + kk + `":"v` + n + `_` + kk + `"`)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}
