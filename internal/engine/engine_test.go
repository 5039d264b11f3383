package engine

import (
	"errors"
	"io"
	"reflect"
	"testing"
)

type tokens struct {
	toks []Token
	i    int
}

func (s *tokens) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *tokens) Location() int64 { return int64(s.i) }

func src(toks ...Token) *tokens { return &tokens{toks: toks} }

func key(k string) Token   { return Token{Kind: KindKey, String: k} }
func num(n string) Token   { return Token{Kind: KindNumber, Number: n} }
func str(s string) Token   { return Token{Kind: KindString, String: s} }
func delim(k Kind) Token   { return Token{Kind: k} }
func boolean(b bool) Token { return Token{Kind: KindBool, Bool: b} }

func TestDecode_ValueModel(t *testing.T) {
	v, err := Decode(src(
		delim(KindBeginObject),
		key("n"), num("3"),
		key("f"), num("3.0"),
		key("big"), num("1e3"),
		key("list"), delim(KindBeginArray), str("a"), boolean(true), Token{Kind: KindNull}, delim(KindEndArray),
		delim(KindEndObject),
	), Options{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := map[string]any{
		"n":    int64(3),
		"f":    3.0,
		"big":  1000.0,
		"list": []any{"a", true, nil},
	}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("expected %#v, got %#v", want, v)
	}
}

func TestDecode_Duplicates(t *testing.T) {
	stream := func() *tokens {
		return src(delim(KindBeginObject), key("a"), num("1"), key("a"), num("2"), delim(KindEndObject))
	}
	v, err := Decode(stream(), Options{})
	if err != nil || v.(map[string]any)["a"] != int64(2) {
		t.Fatalf("expected last value to win, got %v, %v", v, err)
	}
	_, err = Decode(stream(), Options{OnDuplicate: DupError})
	var ie IssueError
	if !errors.As(err, &ie) || ie.Code != "duplicate_key" || ie.Path.Pointer() != "/a" {
		t.Fatalf("expected duplicate_key at /a, got %v", err)
	}
}

func TestDecode_ErrorPathIsTypedAndIsolated(t *testing.T) {
	_, err := Decode(src(
		delim(KindBeginObject),
		key("a"), delim(KindBeginArray), num("1"), num("2"), delim(KindEndArray),
		key("b"), delim(KindBeginObject), key("7"), num("1"), key("7"), num("2"), delim(KindEndObject),
		delim(KindEndObject),
	), Options{OnDuplicate: DupError})
	var ie IssueError
	if !errors.As(err, &ie) || !reflect.DeepEqual(ie.Path, Path{"b", "7"}) {
		t.Fatalf("expected duplicate at [b 7], got %#v (%v)", ie.Path, err)
	}
	if ie.Path.Pointer() != "/b/7" {
		t.Fatalf("unexpected pointer %s", ie.Path.Pointer())
	}
}

func TestDecode_MaxDepth(t *testing.T) {
	_, err := Decode(src(
		delim(KindBeginArray), delim(KindBeginArray), delim(KindEndArray), delim(KindEndArray),
	), Options{MaxDepth: 1})
	var ie IssueError
	if !errors.As(err, &ie) || !reflect.DeepEqual(ie.Path, Path{0}) {
		t.Fatalf("expected depth error at /0, got %v", err)
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := Decode(src(), Options{}); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}
	if _, err := Decode(src(delim(KindBeginArray), num("1")), Options{}); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}
	if _, err := Decode(src(delim(KindBeginObject), num("1")), Options{}); !errors.Is(err, ErrUnexpectedToken) {
		t.Fatalf("expected ErrUnexpectedToken, got %v", err)
	}
	var ie IssueError
	if _, err := Decode(src(num("1"), num("2")), Options{}); !errors.As(err, &ie) || ie.Code != "parse_error" {
		t.Fatalf("expected trailing data error, got %v", err)
	}
}

func TestJoinPointer(t *testing.T) {
	if got := JoinPointer("/a", "b/c~d"); got != "/a/b~1c~0d" {
		t.Fatalf("unexpected pointer: %s", got)
	}
}
