package engine

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota // Last occurrence wins.
	DupError
)

// Options controls enforcement while decoding.
type Options struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int // 0 = unlimited
}

// Path locates a decoded value: string keys and int indexes.
type Path []any

// Pointer renders p as a JSON Pointer ("/" for the root).
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, seg := range p {
		switch s := seg.(type) {
		case int:
			b.WriteString("/" + strconv.Itoa(s))
		case string:
			b.WriteString(JoinPointer("", s))
		}
	}
	return b.String()
}

// Clone returns a copy of p that later appends cannot alter.
func (p Path) Clone() Path { return append(Path(nil), p...) }

// IssueError is a decode failure located at Path.
type IssueError struct {
	Code    string
	Path    Path
	Message string
	Offset  int64
}

func (e IssueError) Error() string { return e.Message + " at " + e.Path.Pointer() }

// ErrUnexpectedToken reports a structurally invalid token stream.
var ErrUnexpectedToken = errors.New("engine: unexpected token")

// Decode builds the value model from src: map[string]any, []any, string,
// bool, nil, int64 for integral number literals and float64 otherwise.
// Trailing tokens after the first value are rejected.
func Decode(src TokenSource, opt Options) (any, error) {
	d := &decoder{src: src, opt: opt}
	tok, err := src.NextToken()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	v, err := d.value(tok, nil, 0)
	if err != nil {
		return nil, err
	}
	if _, err := src.NextToken(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, IssueError{Code: "parse_error", Message: "trailing data after top-level value", Offset: src.Location()}
	}
	return v, nil
}

// decoder shares one path slice across the walk; siblings overwrite the
// same slot, so errors carry a clone.
type decoder struct {
	src TokenSource
	opt Options
}

func (d *decoder) value(tok Token, path Path, depth int) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return d.object(path, depth+1)
	case KindBeginArray:
		return d.array(path, depth+1)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return Number(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, ErrUnexpectedToken
	}
}

func (d *decoder) checkDepth(path Path, depth int) error {
	if d.opt.MaxDepth > 0 && depth > d.opt.MaxDepth {
		return IssueError{Code: "parse_error", Path: path.Clone(), Message: "max depth exceeded", Offset: d.src.Location()}
	}
	return nil
}

func (d *decoder) object(path Path, depth int) (any, error) {
	if err := d.checkDepth(path, depth); err != nil {
		return nil, err
	}
	m := make(map[string]any)
	for {
		tok, err := d.src.NextToken()
		if err != nil {
			return nil, eofAsUnexpected(err)
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, ErrUnexpectedToken
		}
		kp := append(path, tok.String)
		if _, dup := m[tok.String]; dup && d.opt.OnDuplicate == DupError {
			return nil, IssueError{Code: "duplicate_key", Path: kp.Clone(), Message: "key '" + tok.String + "' duplicated", Offset: tok.Offset}
		}
		vt, err := d.src.NextToken()
		if err != nil {
			return nil, eofAsUnexpected(err)
		}
		v, err := d.value(vt, kp, depth)
		if err != nil {
			return nil, err
		}
		m[tok.String] = v
	}
}

func (d *decoder) array(path Path, depth int) (any, error) {
	if err := d.checkDepth(path, depth); err != nil {
		return nil, err
	}
	arr := []any{}
	for {
		tok, err := d.src.NextToken()
		if err != nil {
			return nil, eofAsUnexpected(err)
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := d.value(tok, append(path, len(arr)), depth)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

// Number converts a JSON number literal to int64 when it is integral and
// fits, and to float64 otherwise.
func Number(lit string) (any, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return i, nil
		}
	}
	f, err := json.Number(lit).Float64()
	if err != nil {
		return nil, err
	}
	return f, nil
}

func eofAsUnexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// JoinPointer appends token to a JSON Pointer base.
func JoinPointer(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}
