package benchmarks_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/dsl"
)

func Benchmark_ParseFrom_Object_Small_JSONBytes(b *testing.B) {
	ctx := context.Background()
	s := userSchema(b)
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := skema.ParseFrom(ctx, s, skema.JSONBytes(data)); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseFrom_Object_Small_JSONReader(b *testing.B) {
	ctx := context.Background()
	s := userSchema(b)
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := skema.ParseFrom(ctx, s, skema.JSONReader(bytes.NewReader(data))); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Parse_Object_Small_Value(b *testing.B) {
	ctx := context.Background()
	s := userSchema(b)
	v := map[string]any{"id": "u_1", "name": "alice"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := skema.Parse(ctx, s, v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Parse_Object_Small_Invalid(b *testing.B) {
	ctx := context.Background()
	s := userSchema(b).Strict()
	v := map[string]any{"id": "", "name": 1, "extra": true}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := skema.SafeParse(ctx, s, v); res.Success {
			b.Fatal("expected failure")
		}
	}
}

func Benchmark_ParseFrom_HugeArray_Objects_JSONBytes(b *testing.B) {
	ctx := context.Background()
	s := dsl.Array(hugeItemSchema(b))
	data := generateHugeJSONArray(hugeN, hugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := skema.ParseFrom(ctx, s, skema.JSONBytes(data)); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_StreamParse_HugeArray_Objects(b *testing.B) {
	ctx := context.Background()
	s := dsl.Array(hugeItemSchema(b))
	data := generateHugeJSONArray(hugeN, hugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := skema.StreamParse(ctx, s, bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_StreamArray_HugeArray_Objects(b *testing.B) {
	ctx := context.Background()
	item := hugeItemSchema(b)
	data := generateHugeJSONArray(hugeN, hugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err := skema.StreamArray(ctx, item, bytes.NewReader(data), func(_ int, res skema.SafeParseResult) error {
			if !res.Success {
				return res.Error
			}
			return nil
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseFrom_YAML_Object_Small(b *testing.B) {
	ctx := context.Background()
	s := userSchema(b)
	data := []byte("id: u_1\nname: alice\n")
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := skema.ParseFrom(ctx, s, skema.YAMLBytes(data)); err != nil {
			b.Fatal(err)
		}
	}
}

// ---- encoding/json baselines ----

func Benchmark_encodingJSON_Unmarshal_SmallObject(b *testing.B) {
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_encodingJSON_Unmarshal_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(hugeN, hugeK)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v []map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}
