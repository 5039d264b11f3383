package rules

import (
	"context"
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	skema "github.com/reoring/skema"
)

// Expr compiles a boolean expr-lang expression into a Rule. The environment
// exposes the validated value as "value" and, when it is a map, each of its
// keys as a variable, so `stop >= begin` works on an object. A false result
// records one custom issue with message; an evaluation error records one
// custom issue describing it.
func Expr(expression, message string) (Rule, error) {
	if expression == "" {
		return nil, fmt.Errorf("rules: expression must not be empty")
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("rules: compile %q: %w", expression, err)
	}
	return exprRule(program, expression, message), nil
}

// MustExpr is like Expr but panics on a compile error.
func MustExpr(expression, message string) Rule {
	r, err := Expr(expression, message)
	if err != nil {
		panic(err)
	}
	return r
}

func exprRule(program *exprvm.Program, expression, message string) Rule {
	return func(_ context.Context, v any) []skema.Issue {
		out, err := exprlang.Run(program, environment(v))
		if err != nil {
			return []skema.Issue{{
				Code:    skema.CodeCustom,
				Message: fmt.Sprintf("rule %q failed: %v", expression, err),
				Params:  map[string]any{"expr": expression},
			}}
		}
		if ok, _ := out.(bool); ok {
			return nil
		}
		return []skema.Issue{{Code: skema.CodeCustom, Message: message, Params: map[string]any{"expr": expression}}}
	}
}

func environment(v any) map[string]any {
	env := map[string]any{"value": v}
	if m, ok := skema.AsMap(v); ok {
		for k, x := range m {
			if k != "value" {
				env[k] = x
			}
		}
	}
	return env
}
