// Package rules provides reusable cross-field checks for dsl.SuperRefine:
// conditionals, collection checks, combinators, and expr-lang expressions.
package rules

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	skema "github.com/reoring/skema"
)

// Rule inspects a validated value and returns issues with paths relative to
// it. It has the shape of dsl.RefineFunc.
type Rule = func(ctx context.Context, v any) []skema.Issue

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional composes conditional execution of rules.
type Conditional struct {
	path skema.Path
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional that evaluates a path against a value using an operator.
// The path is a JSON Pointer like "/status".
func If(path string, op Op, want any) Conditional {
	return Conditional{path: skema.ParsePointer(path), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Holds reports whether the condition is satisfied by v.
func (c Conditional) Holds(v any) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.Holds(v) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.Holds(v) {
				return true
			}
		}
		return false
	}
	cur, ok := valueAt(v, c.path)
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// Then attaches rules to run when the condition is satisfied.
func (c Conditional) Then(rules ...Rule) Rule {
	inner := And(rules...)
	return func(ctx context.Context, v any) []skema.Issue {
		if !c.Holds(v) {
			return nil
		}
		return inner(ctx, v)
	}
}

// Required reports a missing or null value at path.
func Required(path string) Rule {
	p := skema.ParsePointer(path)
	return func(_ context.Context, v any) []skema.Issue {
		if cur, ok := valueAt(v, p); ok && cur != nil {
			return nil
		}
		return []skema.Issue{{Code: skema.CodeInvalidType, Path: p, Expected: "value", Received: skema.TypeMissing.String()}}
	}
}

// AtLeastOne ensures the collection at collectionPath has at least 1 element.
func AtLeastOne(collectionPath string) Rule {
	p := skema.ParsePointer(collectionPath)
	return func(_ context.Context, v any) []skema.Issue {
		val, ok := valueAt(v, p)
		if !ok {
			return nil
		}
		// Not a collection: other checks report it.
		if items, ok := skema.AsSlice(val); ok && len(items) == 0 {
			return []skema.Issue{{Code: skema.CodeTooSmall, Path: p, Measure: skema.MeasureArray, Minimum: 1, Inclusive: true}}
		}
		return nil
	}
}

// UniqueBy ensures elements in a collection have unique key values.
// collectionPath is JSON Pointer to a slice field (e.g., "/items").
// keyPath is a relative path inside each element (e.g., "sku" or "/sku").
// Keys are compared by their fmt rendering, so mixed-type keys may collide.
func UniqueBy(collectionPath, keyPath string) Rule {
	cp := skema.ParsePointer(collectionPath)
	kp := skema.ParsePointer("/" + strings.TrimPrefix(keyPath, "/"))
	return func(_ context.Context, v any) []skema.Issue {
		val, ok := valueAt(v, cp)
		if !ok {
			return nil
		}
		items, ok := skema.AsSlice(val)
		if !ok {
			return nil
		}
		seen := map[string]int{}
		var out []skema.Issue
		for i, elem := range items {
			kv, ok := valueAt(elem, kp)
			if !ok {
				continue
			}
			key := fmt.Sprint(kv)
			if j, dup := seen[key]; dup {
				out = append(out, skema.Issue{
					Code:    skema.CodeCustom,
					Path:    cp.Index(i).Concat(kp),
					Message: "duplicate value",
					Params:  map[string]any{"first": j, "dup": i, "key": key},
				})
			} else {
				seen[key] = i
			}
		}
		return out
	}
}

// And executes all rules and concatenates their issues.
func And(rules ...Rule) Rule {
	return func(ctx context.Context, v any) []skema.Issue {
		var out []skema.Issue
		for _, r := range rules {
			if r == nil {
				continue
			}
			out = append(out, r(ctx, v)...)
		}
		return out
	}
}

// Or succeeds if any rule returns no issues. When all fail it returns the
// branch with the fewest issues.
func Or(rules ...Rule) Rule {
	return func(ctx context.Context, v any) []skema.Issue {
		var best []skema.Issue
		bestSet := false
		for _, r := range rules {
			if r == nil {
				continue
			}
			iss := r(ctx, v)
			if len(iss) == 0 {
				return nil
			}
			if !bestSet || len(iss) < len(best) {
				best = iss
				bestSet = true
			}
		}
		return best
	}
}

// ------- helpers -------

// valueAt navigates maps and slices of the value model by path.
func valueAt(v any, p skema.Path) (any, bool) {
	cur := v
	for _, seg := range p {
		if m, ok := skema.AsMap(cur); ok {
			nv, ok := m[fmt.Sprint(seg)]
			if !ok {
				return nil, false
			}
			cur = nv
			continue
		}
		idx, ok := index(seg)
		if !ok {
			return nil, false
		}
		items, ok := skema.AsSlice(cur)
		if !ok || idx < 0 || idx >= len(items) {
			return nil, false
		}
		cur = items[idx]
	}
	return cur, true
}

func index(seg any) (int, bool) {
	switch s := seg.(type) {
	case int:
		return s, true
	case string:
		n, err := strconv.Atoi(s)
		return n, err == nil
	}
	return 0, false
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return equal(cur, want)
	case Ne:
		return !equal(cur, want)
	}
	a, aok := number(cur)
	b, bok := number(want)
	if aok && bok {
		switch op {
		case Lt:
			return a < b
		case Le:
			return a <= b
		case Gt:
			return a > b
		case Ge:
			return a >= b
		}
		return false
	}
	as, aok := skema.AsString(cur)
	bs, bok := skema.AsString(want)
	if !aok || !bok {
		return false
	}
	switch op {
	case Lt:
		return as < bs
	case Le:
		return as <= bs
	case Gt:
		return as > bs
	case Ge:
		return as >= bs
	}
	return false
}

func equal(a, b any) bool {
	if x, ok := number(a); ok {
		y, ok := number(b)
		return ok && x == y
	}
	return fmt.Sprint(a) == fmt.Sprint(b) && skema.Classify(a) == skema.Classify(b)
}

func number(v any) (float64, bool) {
	if i, ok := skema.AsInt(v); ok {
		return float64(i), true
	}
	return skema.AsFloat(v)
}
