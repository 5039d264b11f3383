package skema

import (
	"bytes"
	"io"
	"sync"

	eng "github.com/reoring/skema/internal/engine"
	"github.com/reoring/skema/source/gojson"
	yamlsrc "github.com/reoring/skema/source/yaml"
)

// Source is an encoded document that can be decoded into the value model
// consumed by schemas: map[string]any, []any, string, bool, nil, int64 for
// integral numbers and float64 otherwise.
type Source interface {
	Decode(opt ParseOpt) (any, error)
}

// JSONDriver turns JSON input into engine token streams. The default driver
// is backed by github.com/goccy/go-json and may be swapped with SetJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) eng.TokenSource
	NewBytes(b []byte) eng.TokenSource
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the go-json backed driver.
func UseDefaultJSONDriver() { SetJSONDriver(defaultJSONDriver{}) }

func getJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

type defaultJSONDriver struct{}

func (defaultJSONDriver) NewReader(r io.Reader) eng.TokenSource { return gojson.NewReader(r) }
func (defaultJSONDriver) NewBytes(b []byte) eng.TokenSource     { return gojson.NewBytes(b) }
func (defaultJSONDriver) Name() string                          { return "goccy/go-json" }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return jsonSource{open: func(d JSONDriver) eng.TokenSource { return d.NewReader(r) }} }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return jsonSource{open: func(d JSONDriver) eng.TokenSource { return d.NewBytes(b) }} }

type jsonSource struct {
	open func(JSONDriver) eng.TokenSource
}

func (s jsonSource) Decode(opt ParseOpt) (any, error) {
	return eng.Decode(s.open(getJSONDriver()), engineOptions(opt))
}

// YAMLBytes wraps a YAML document as a Source.
func YAMLBytes(b []byte) Source { return yamlSource{b: b} }

// YAMLReader reads r fully and wraps it as a YAML Source.
func YAMLReader(r io.Reader) Source { return yamlSource{r: r} }

type yamlSource struct {
	b []byte
	r io.Reader
}

func (s yamlSource) Decode(opt ParseOpt) (any, error) {
	b := s.b
	if s.r != nil {
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(s.r); err != nil {
			return nil, err
		}
		b = buf.Bytes()
	}
	return yamlsrc.Decode(b, engineOptions(opt))
}

// ValueSource wraps an already-decoded value so it can flow through
// ParseFrom.
func ValueSource(v any) Source { return valueSource{v: v} }

type valueSource struct{ v any }

func (s valueSource) Decode(ParseOpt) (any, error) { return s.v, nil }

func engineOptions(opt ParseOpt) eng.Options {
	o := eng.Options{MaxDepth: opt.MaxDepth}
	if opt.OnDuplicateKey == Error {
		o.OnDuplicate = eng.DupError
	}
	return o
}
