package skema

import (
	"context"
	"fmt"
	"sync"

	"github.com/reoring/skema/format"
)

// Formats is the injected format-checking capability used by string checks.
// A nil predicate fails every value, identically to a failing predicate.
type Formats struct {
	Email func(string) bool
	URL   func(string) bool
	UUID  func(string) bool
	// Time checks value against layout; an empty layout means RFC 3339.
	Time func(value, layout string) bool
}

var (
	formatsMu      sync.RWMutex
	defaultFormats = Formats{Email: format.Email, URL: format.URL, UUID: format.UUID, Time: format.Time}
)

// SetDefaultFormats replaces the process-wide default predicates used when a
// call does not pass ParseOpt.Formats.
func SetDefaultFormats(f Formats) {
	formatsMu.Lock()
	defaultFormats = f
	formatsMu.Unlock()
}

// DefaultFormats returns the process-wide default predicates.
func DefaultFormats() Formats {
	formatsMu.RLock()
	defer formatsMu.RUnlock()
	return defaultFormats
}

// Check runs the predicate named by validation against s.
func (f *Formats) Check(validation, s, layout string) bool {
	var pred func(string) bool
	switch validation {
	case ValidationEmail:
		pred = f.Email
	case ValidationURL:
		pred = f.URL
	case ValidationUUID:
		pred = f.UUID
	case ValidationDateTime, ValidationDate:
		if f.Time == nil {
			return false
		}
		return f.Time(s, layout)
	}
	return pred != nil && pred(s)
}

// parseCommon is the state shared by every node of one top-level call.
type parseCommon struct {
	ctx      context.Context
	issues   Issues
	errorMap ErrorMap
	formats  *Formats
}

// ParseContext threads the shared issue sink, the current path, and the
// nearest schema ErrorMap through one validation call. The path is kept as a
// parent chain and only materialised when an issue is recorded.
type ParseContext struct {
	common    *parseCommon
	parent    *ParseContext
	seg       any
	hasSeg    bool
	prefix    Path
	schemaMap ErrorMap
}

// NewParseContext creates the root context of a call.
func NewParseContext(ctx context.Context, opt ParseOpt) *ParseContext {
	if ctx == nil {
		ctx = context.Background()
	}
	fm := opt.Formats
	if fm == nil {
		d := DefaultFormats()
		fm = &d
	}
	return &ParseContext{
		common: &parseCommon{ctx: ctx, errorMap: opt.ErrorMap, formats: fm},
		prefix: opt.PathPrefix,
	}
}

// Child returns a context whose path is extended by seg (a string key or
// an int index). It shares the issue sink.
func (pc *ParseContext) Child(seg any) *ParseContext {
	return &ParseContext{common: pc.common, parent: pc, seg: seg, hasSeg: true, schemaMap: pc.schemaMap}
}

// WithErrorMap returns a context at the same path whose schema ErrorMap is m.
func (pc *ParseContext) WithErrorMap(m ErrorMap) *ParseContext {
	if m == nil {
		return pc
	}
	c := *pc
	c.schemaMap = m
	return &c
}

// Scratch returns a context at the same path with a private, empty issue
// sink. Union alternatives run in scratch contexts so their issues do not
// reach the shared sink until a decision is made.
func (pc *ParseContext) Scratch() *ParseContext {
	c := *pc
	c.common = &parseCommon{ctx: pc.common.ctx, errorMap: pc.common.errorMap, formats: pc.common.formats}
	return &c
}

// Path materialises the current path, including the call's PathPrefix.
func (pc *ParseContext) Path() Path {
	n := 0
	var root *ParseContext
	for c := pc; c != nil; c = c.parent {
		if c.hasSeg {
			n++
		}
		root = c
	}
	out := make(Path, len(root.prefix)+n)
	copy(out, root.prefix)
	i := len(out)
	for c := pc; c != nil; c = c.parent {
		if c.hasSeg {
			i--
			out[i] = c.seg
		}
	}
	return out
}

// Context returns the call's context.Context.
func (pc *ParseContext) Context() context.Context { return pc.common.ctx }

// Formats returns the format predicates of the call.
func (pc *ParseContext) Formats() *Formats { return pc.common.formats }

// Issues returns the issues recorded in this context's sink so far.
func (pc *ParseContext) Issues() Issues { return pc.common.issues }

// MergeIssues appends already-resolved issues to the sink.
func (pc *ParseContext) MergeIssues(iss Issues) {
	pc.common.issues = append(pc.common.issues, iss...)
}

// AddIssue resolves the message of iss and appends it to the shared sink.
// iss.Path, when set, is relative to the current path. data is the input of
// the failing node and is handed to error maps.
//
// Message priority: iss.Message, the schema ErrorMap, the call ErrorMap,
// then DefaultErrorMap. Maps run from lowest to highest priority, each
// receiving the previous message as DefaultError.
func (pc *ParseContext) AddIssue(data any, iss Issue) {
	iss.Path = pc.Path().Concat(iss.Path)
	if iss.Message == "" {
		mctx := ErrorMapCtx{Data: data}
		mctx.DefaultError = DefaultErrorMap(iss, mctx)
		for _, m := range [...]ErrorMap{pc.common.errorMap, pc.schemaMap} {
			if m != nil {
				mctx.DefaultError = m(iss, mctx)
			}
		}
		iss.Message = mctx.DefaultError
	}
	pc.common.issues = append(pc.common.issues, iss)
}

// InvalidType records an invalid_type issue for data against expected.
func (pc *ParseContext) InvalidType(data any, expected string) {
	pc.AddIssue(data, Issue{Code: CodeInvalidType, Expected: expected, Received: Classify(data).String()})
}

// mustHaveIssues panics with ErrInternal when a failed result left no trace.
func mustHaveIssues(pc *ParseContext, r Result) {
	if !r.IsValid() && len(pc.Issues()) == 0 {
		panic(fmt.Errorf("%w: %s result without issues", ErrInternal, r.Status))
	}
}
