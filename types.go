package skema

// UnknownPolicy controls how object keys outside the declared shape are handled.
type UnknownPolicy int

const (
	UnknownStrip       UnknownPolicy = iota // Drop unknown keys silently (default).
	UnknownStrict                           // Reject unknown keys with one unrecognized_keys issue.
	UnknownPassthrough                      // Copy unknown keys through unvalidated.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownStrict:
		return "strict"
	case UnknownPassthrough:
		return "passthrough"
	default:
		return "strip"
	}
}

// Severity expresses how decoders treat a questionable input construct.
type Severity int

const (
	Ignore Severity = iota
	Error
)

// ParseOpt bundles call-level parsing options. When several are passed to an
// entry point, the last one wins.
type ParseOpt struct {
	// ErrorMap formats messages for every issue of the call unless a schema
	// or the issue itself overrides it.
	ErrorMap ErrorMap
	// PathPrefix is prepended to every issue path, for validating a sub-part
	// of a larger document.
	PathPrefix Path
	// Formats overrides the default format predicates.
	Formats *Formats
	// MaxDepth limits input nesting for Sources (0 = unlimited).
	MaxDepth int
	// OnDuplicateKey controls duplicate object keys in Sources.
	OnDuplicateKey Severity
}

// missing is the type of the Missing sentinel.
type missing struct{}

func (missing) String() string { return "<missing>" }

// Missing denotes "no value supplied", for example an absent object key. It
// never equals nil or any ordinary value.
var Missing any = missing{}

// IsMissing reports whether v is the Missing sentinel.
func IsMissing(v any) bool {
	_, ok := v.(missing)
	return ok
}

func lastOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return ParseOpt{}
	}
	return opts[len(opts)-1]
}
