package stream

import (
	"io"
	"testing"

	eng "github.com/reoring/skema/internal/engine"
)

type tokens struct {
	toks []eng.Token
	i    int
}

func (s *tokens) NextToken() (eng.Token, error) {
	if s.i >= len(s.toks) {
		return eng.Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *tokens) Location() int64 { return int64(s.i) }

func TestSubtree_StopsAtValueEnd(t *testing.T) {
	inner := &tokens{toks: []eng.Token{
		{Kind: eng.KindKey, String: "a"},
		{Kind: eng.KindBeginArray},
		{Kind: eng.KindEndArray},
		{Kind: eng.KindEndObject},
		{Kind: eng.KindNumber, Number: "2"},
	}}
	sub := NewSubtree(inner, eng.Token{Kind: eng.KindBeginObject})
	v, err := eng.Decode(sub, eng.Options{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m := v.(map[string]any); len(m["a"].([]any)) != 0 {
		t.Fatalf("unexpected value: %#v", v)
	}
	if !sub.Done() {
		t.Fatalf("expected subtree to be complete")
	}
	if tok, _ := inner.NextToken(); tok.Number != "2" {
		t.Fatalf("subtree must not consume past its value, next was %+v", tok)
	}
}

func TestSubtree_Primitive(t *testing.T) {
	inner := &tokens{toks: []eng.Token{{Kind: eng.KindNumber, Number: "9"}}}
	sub := NewSubtree(inner, eng.Token{Kind: eng.KindString, String: "x"})
	v, err := eng.Decode(sub, eng.Options{})
	if err != nil || v != "x" {
		t.Fatalf("expected x, got %v, %v", v, err)
	}
	if inner.i != 0 {
		t.Fatalf("primitive subtree must not read from inner")
	}
}
