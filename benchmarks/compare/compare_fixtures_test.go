package compare_test

import (
	"bytes"
	"strconv"

	"github.com/reoring/skema/dsl"
)

const (
	cmpHugeN = 10000
	cmpHugeK = 8
)

// userSchema requires id:string and strips unknown keys.
func userSchema() dsl.ObjectSchema {
	return dsl.Object(dsl.Field("id", dsl.String()), dsl.Field("name", dsl.String().Optional()))
}

func smallUserJSON() []byte { return []byte(`{"id":"u_1","name":"alice"}`) }

func generateHugeJSONArray(numObjects int, extraFields int) []byte {
	var buf bytes.Buffer
	buf.Grow(numObjects * (64 + extraFields*16))
	buf.WriteByte('[')
	for i := 0; i < numObjects; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		n := strconv.Itoa(i)
		buf.WriteString(`{"id":"obj_` + n + `","name":"n` + n + `","age":` + n + `,"meta":{"score":` + n + `}`)
		for k := 0; k < extraFields; k++ {
			kk := strconv.Itoa(k)
			buf.WriteString(`,"k` + kk + `":"v` + n + `_` + kk + `"`)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

func generateDeepNested(depth int) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < depth; i++ {
		buf.WriteString(`"a":{`)
	}
	buf.WriteString(`"z":1`)
	for i := 0; i < depth; i++ {
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes()
}
