package skema

import (
	"fmt"
)

// ParseStatus is the severity of a node's outcome; the zero value is valid.
type ParseStatus uint8

const (
	StatusValid   ParseStatus = iota // No failure.
	StatusDirty                      // Non-fatal failure; siblings keep evaluating.
	StatusAborted                    // Structural failure; the node's value is undefined.
)

func (s ParseStatus) String() string {
	switch s {
	case StatusDirty:
		return "dirty"
	case StatusAborted:
		return "aborted"
	default:
		return "valid"
	}
}

// Status tracks one node's ParseStatus while it runs its checks.
type Status struct{ value ParseStatus }

// Dirty raises the status to StatusDirty unless it is already aborted.
func (s *Status) Dirty() {
	if s.value == StatusValid {
		s.value = StatusDirty
	}
}

// Abort raises the status to StatusAborted.
func (s *Status) Abort() { s.value = StatusAborted }

// Value returns the current ParseStatus.
func (s Status) Value() ParseStatus { return s.value }

// Result is what a schema node yields: a status and, unless aborted, a value.
type Result struct {
	Status ParseStatus
	Value  any
}

// OK builds a valid result.
func OK(v any) Result { return Result{Status: StatusValid, Value: v} }

// DirtyResult builds a dirty result that still carries a value.
func DirtyResult(v any) Result { return Result{Status: StatusDirty, Value: v} }

// Aborted is the result of a structurally failed node.
var Aborted = Result{Status: StatusAborted}

// With returns a result carrying v under the tracked status.
func (s Status) With(v any) Result {
	if s.value == StatusAborted {
		return Aborted
	}
	return Result{Status: s.value, Value: v}
}

// IsValid reports whether the result is valid.
func (r Result) IsValid() bool { return r.Status == StatusValid }

// IsDirty reports whether the result is dirty.
func (r Result) IsDirty() bool { return r.Status == StatusDirty }

// IsAborted reports whether the result is aborted.
func (r Result) IsAborted() bool { return r.Status == StatusAborted }

// MergeList folds child results in order. Any aborted child aborts the
// whole; otherwise the status is the worst child status and the values are
// collected in their original order.
func MergeList(st Status, results []Result) Result {
	values := make([]any, 0, len(results))
	for _, r := range results {
		switch r.Status {
		case StatusAborted:
			return Aborted
		case StatusDirty:
			st.Dirty()
		}
		values = append(values, r.Value)
	}
	return st.With(values)
}

// KeyValue is one entry handed to MergeDict.
type KeyValue struct {
	Key   Result
	Value Result
}

// MergeDict folds key/value results into a map. An aborted key or value
// aborts the whole; entries whose value is Missing are omitted, so an absent
// optional field never reappears in the output.
func MergeDict(st Status, pairs []KeyValue) Result {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		if p.Key.Status == StatusAborted || p.Value.Status == StatusAborted {
			return Aborted
		}
		if p.Key.Status == StatusDirty || p.Value.Status == StatusDirty {
			st.Dirty()
		}
		if IsMissing(p.Value.Value) {
			continue
		}
		out[keyString(p.Key.Value)] = p.Value.Value
	}
	return st.With(out)
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}
