// Package skema provides:
//
// - Immutable, composable schemas (see the dsl package) validated against untyped input
// - A stable error model via Issues (code, path, structured parameters, message)
// - A tri-state parse status (valid/dirty/aborted) merged across aggregates
// - JSON/YAML Sources that decode bytes into the value model before validation
// - StreamArray for validating large top-level JSON arrays one element at a time
//
// Design policy:
// - Keep the engine (classifier, issues, context, merge) in the root package.
// - Place schema kinds under dsl/, default format predicates under format/,
//   declarative schema documents under schemafile/, bidirectional codecs under
//   codec/, HTTP adapters under middleware/, and the CLI under cmd/skema.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	user := dsl.Object(
//		dsl.Field("name", dsl.String().Min(1)),
//		dsl.Field("age", dsl.Int().Optional()),
//	)
//	res := skema.SafeParse(ctx, user, input)
//	if !res.Success {
//		for _, iss := range res.Error.Issues() {
//			fmt.Println(iss.Code, iss.Path.Pointer())
//		}
//	}
//
//	v, err := skema.ParseFrom(ctx, user, skema.JSONBytes(data))
package skema
