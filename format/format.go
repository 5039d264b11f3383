// Package format holds the default format predicates used by string checks.
// Each predicate is a pure func(string) bool; the engine only sees pass/fail.
package format

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var emailRe = regexp.MustCompile(`^(?i)[a-z0-9_'+\-.]*[a-z0-9_+\-]@(?:[a-z0-9][a-z0-9\-]*\.)+[a-z]{2,}$`)

// Email reports whether s looks like an e-mail address.
func Email(s string) bool {
	if strings.Contains(s, "..") || strings.HasPrefix(s, ".") {
		return false
	}
	return emailRe.MatchString(s)
}

// URL reports whether s is an absolute URL with a scheme and host.
func URL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && (u.Host != "" || u.Opaque != "")
}

// UUID reports whether s is a canonical hyphenated UUID.
func UUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// Default layouts for the datetime/date checks.
const (
	DateTimeLayout = time.RFC3339Nano
	DateLayout     = time.DateOnly
)

// Time reports whether s parses with layout. An empty layout means RFC 3339.
func Time(s, layout string) bool {
	_, err := ParseTime(s, layout)
	return err == nil
}

// ParseTime parses s with layout, defaulting to RFC 3339.
func ParseTime(s, layout string) (time.Time, error) {
	if layout == "" {
		layout = DateTimeLayout
	}
	return time.Parse(layout, s)
}
