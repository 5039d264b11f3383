// Package stream exposes one value of a token stream as its own
// engine.TokenSource, so a large top-level array can be decoded one element
// at a time.
package stream

import (
	"io"

	eng "github.com/reoring/skema/internal/engine"
)

// Subtree replays a token already read from inner, then forwards tokens from
// inner until the value that token starts is complete. It reports io.EOF
// afterwards without reading further from inner.
type Subtree struct {
	inner eng.TokenSource
	first *eng.Token
	depth int
	done  bool
}

// NewSubtree returns a source for the value starting with first.
func NewSubtree(inner eng.TokenSource, first eng.Token) *Subtree {
	return &Subtree{inner: inner, first: &first}
}

func (s *Subtree) NextToken() (eng.Token, error) {
	if s.done {
		return eng.Token{}, io.EOF
	}
	var tok eng.Token
	if s.first != nil {
		tok, s.first = *s.first, nil
	} else {
		t, err := s.inner.NextToken()
		if err != nil {
			return eng.Token{}, err
		}
		tok = t
	}
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
		s.depth++
	case eng.KindEndObject, eng.KindEndArray:
		s.depth--
	}
	if s.depth <= 0 {
		s.done = true
	}
	return tok, nil
}

func (s *Subtree) Location() int64 { return s.inner.Location() }

// Done reports whether the whole value has been read.
func (s *Subtree) Done() bool { return s.done }
