// Package schemafile loads schemas from declarative YAML (or JSON) documents.
//
//	definitions:
//	  node:
//	    type: object
//	    properties:
//	      name: {type: string, min: 1}
//	      children: {type: array, items: {$ref: node}, optional: true}
//	schema:
//	  $ref: node
//
// References resolve through dsl.Lazy, so definitions may be recursive.
package schemafile

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/dsl"
	eng "github.com/reoring/skema/internal/engine"
	"github.com/reoring/skema/rules"
	yamlsrc "github.com/reoring/skema/source/yaml"
)

var (
	// ErrUnknownRef reports a $ref naming no definition.
	ErrUnknownRef = errors.New("schemafile: unknown $ref")
	// ErrUnknownType reports an unsupported type keyword.
	ErrUnknownType = errors.New("schemafile: unknown type")
	// ErrNoRoot reports a document without a schema entry.
	ErrNoRoot = errors.New("schemafile: document has no schema")
)

// Document is a loaded schema document.
type Document struct {
	Root        skema.Schema
	definitions map[string]skema.Schema
}

// Definition returns the named definition.
func (d *Document) Definition(name string) (skema.Schema, bool) {
	s, ok := d.definitions[name]
	return s, ok
}

// Definitions lists definition names in sorted order.
func (d *Document) Definitions() []string {
	names := make([]string, 0, len(d.definitions))
	for n := range d.definitions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type file struct {
	Definitions map[string]*node `yaml:"definitions"`
	Schema      *node            `yaml:"schema"`
}

type refineSpec struct {
	Expr    string `yaml:"expr"`
	Message string `yaml:"message"`
}

// node is one schema entry. Keywords only apply to the types that use them.
type node struct {
	Ref         string       `yaml:"$ref"`
	Type        string       `yaml:"type"`
	Description string       `yaml:"description"`
	Optional    bool         `yaml:"optional"`
	Nullable    bool         `yaml:"nullable"`
	Default     *yaml.Node   `yaml:"default"`
	Refine      []refineSpec `yaml:"refine"`

	// string, array
	Min    *float64 `yaml:"min"`
	Max    *float64 `yaml:"max"`
	Length *int     `yaml:"length"`
	Format string   `yaml:"format"`
	Layout string   `yaml:"layout"`
	// string
	Pattern    string `yaml:"pattern"`
	StartsWith string `yaml:"startsWith"`
	EndsWith   string `yaml:"endsWith"`
	Trim       bool   `yaml:"trim"`

	// number
	Gt         *float64 `yaml:"gt"`
	Lt         *float64 `yaml:"lt"`
	MultipleOf *float64 `yaml:"multipleOf"`

	// array, tuple
	Items       *node   `yaml:"items"`
	PrefixItems []*node `yaml:"prefixItems"`
	Rest        *node   `yaml:"rest"`

	// object
	Properties yaml.Node `yaml:"properties"`
	Unknown    string    `yaml:"unknown"`
	Catchall   *node     `yaml:"catchall"`

	// record
	Keys   *node `yaml:"keys"`
	Values *node `yaml:"values"`

	// literal, enum
	Const *yaml.Node  `yaml:"const"`
	Enum  []yaml.Node `yaml:"enum"`

	// union
	AnyOf         []*node `yaml:"anyOf"`
	Discriminator string  `yaml:"discriminator"`
}

// LoadFile reads and loads the document at path.
func LoadFile(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Load(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Load parses a document. JSON input works too, being a subset of YAML.
func Load(b []byte) (*Document, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	if f.Schema == nil {
		return nil, ErrNoRoot
	}
	doc := &Document{definitions: make(map[string]skema.Schema, len(f.Definitions))}
	c := &compiler{doc: doc, known: f.Definitions}
	for _, name := range sortedKeys(f.Definitions) {
		s, err := c.build(f.Definitions[name], "definitions."+name)
		if err != nil {
			return nil, err
		}
		doc.definitions[name] = s
	}
	root, err := c.build(f.Schema, "schema")
	if err != nil {
		return nil, err
	}
	doc.Root = root
	return doc, nil
}

type compiler struct {
	doc   *Document
	known map[string]*node
}

func (c *compiler) build(n *node, at string) (skema.Schema, error) {
	if n == nil {
		return nil, fmt.Errorf("schemafile: %s: empty schema", at)
	}
	s, err := c.base(n, at)
	if err != nil {
		return nil, err
	}
	if d := n.Description; d != "" {
		s = describe(s, d)
	}
	if len(n.Refine) > 0 {
		rs := make([]rules.Rule, 0, len(n.Refine))
		for i, r := range n.Refine {
			rule, err := rules.Expr(r.Expr, r.Message)
			if err != nil {
				return nil, fmt.Errorf("schemafile: %s.refine[%d]: %w", at, i, err)
			}
			rs = append(rs, rule)
		}
		s = dsl.SuperRefine(s, rules.And(rs...))
	}
	if n.Nullable {
		s = dsl.Nullable(s)
	}
	if n.Default != nil {
		v, err := value(n.Default)
		if err != nil {
			return nil, fmt.Errorf("schemafile: %s.default: %w", at, err)
		}
		s = dsl.Default(s, v)
	}
	if n.Optional {
		s = dsl.Optional(s)
	}
	return s, nil
}

func (c *compiler) base(n *node, at string) (skema.Schema, error) {
	if n.Ref != "" {
		if _, ok := c.known[n.Ref]; !ok {
			return nil, fmt.Errorf("%w %q at %s", ErrUnknownRef, n.Ref, at)
		}
		name, defs := n.Ref, c.doc.definitions
		return dsl.Lazy(func() skema.Schema { return defs[name] }), nil
	}
	switch n.Type {
	case "string":
		return stringSchema(n, at)
	case "integer":
		return numberSchema(dsl.Int(), n), nil
	case "float":
		return numberSchema(dsl.Float(), n), nil
	case "number":
		return numberSchema(dsl.Number(), n), nil
	case "boolean":
		return dsl.Bool(), nil
	case "null":
		return dsl.Null(), nil
	case "date", "datetime":
		d := dsl.Date()
		if n.Type == "datetime" {
			d = dsl.DateTime()
		}
		if n.Layout != "" {
			d = d.Layout(n.Layout)
		}
		return d, nil
	case "any", "":
		return dsl.Any(), nil
	case "unknown":
		return dsl.Unknown(), nil
	case "never":
		return dsl.Never(), nil
	case "array":
		return c.array(n, at)
	case "object":
		return c.object(n, at)
	case "tuple":
		return c.tuple(n, at)
	case "record":
		return c.record(n, at)
	case "literal":
		if n.Const == nil {
			return nil, fmt.Errorf("schemafile: %s: literal needs const", at)
		}
		v, err := value(n.Const)
		if err != nil {
			return nil, fmt.Errorf("schemafile: %s.const: %w", at, err)
		}
		return dsl.Literal(v), nil
	case "enum":
		opts := make([]any, 0, len(n.Enum))
		for i := range n.Enum {
			v, err := value(&n.Enum[i])
			if err != nil {
				return nil, fmt.Errorf("schemafile: %s.enum[%d]: %w", at, i, err)
			}
			opts = append(opts, v)
		}
		return dsl.Enum(opts...), nil
	case "union":
		return c.union(n, at)
	}
	return nil, fmt.Errorf("%w %q at %s", ErrUnknownType, n.Type, at)
}

func stringSchema(n *node, at string) (skema.Schema, error) {
	s := dsl.String()
	if n.Trim {
		s = s.Trim()
	}
	if n.Min != nil {
		s = s.Min(int(*n.Min))
	}
	if n.Max != nil {
		s = s.Max(int(*n.Max))
	}
	if n.Length != nil {
		s = s.Length(*n.Length)
	}
	switch n.Format {
	case "":
	case "email":
		s = s.Email()
	case "url", "uri":
		s = s.URL()
	case "uuid":
		s = s.UUID()
	case "date-time", "datetime":
		s = s.DateTime(n.Layout)
	case "date":
		s = s.Date(n.Layout)
	default:
		return nil, fmt.Errorf("schemafile: %s: unknown string format %q", at, n.Format)
	}
	if n.Pattern != "" {
		re, err := regexp.Compile(n.Pattern)
		if err != nil {
			return nil, fmt.Errorf("schemafile: %s.pattern: %w", at, err)
		}
		s = s.Regex(re)
	}
	if n.StartsWith != "" {
		s = s.StartsWith(n.StartsWith)
	}
	if n.EndsWith != "" {
		s = s.EndsWith(n.EndsWith)
	}
	return s, nil
}

func numberSchema(s dsl.NumberSchema, n *node) skema.Schema {
	if n.Gt != nil {
		s = s.Gt(*n.Gt)
	}
	if n.Min != nil {
		s = s.Gte(*n.Min)
	}
	if n.Lt != nil {
		s = s.Lt(*n.Lt)
	}
	if n.Max != nil {
		s = s.Lte(*n.Max)
	}
	if n.MultipleOf != nil {
		s = s.MultipleOf(*n.MultipleOf)
	}
	return s
}

func (c *compiler) array(n *node, at string) (skema.Schema, error) {
	elem, err := c.build(n.Items, at+".items")
	if err != nil {
		return nil, err
	}
	s := dsl.Array(elem)
	if n.Min != nil {
		s = s.Min(int(*n.Min))
	}
	if n.Max != nil {
		s = s.Max(int(*n.Max))
	}
	if n.Length != nil {
		s = s.Length(*n.Length)
	}
	return s, nil
}

func (c *compiler) object(n *node, at string) (skema.Schema, error) {
	var fields []dsl.ShapeField
	props := &n.Properties
	if props.Kind != 0 && props.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schemafile: %s.properties: expected a mapping", at)
	}
	for i := 0; i+1 < len(props.Content); i += 2 {
		name := props.Content[i].Value
		var fn node
		if err := props.Content[i+1].Decode(&fn); err != nil {
			return nil, fmt.Errorf("schemafile: %s.properties.%s: %w", at, name, err)
		}
		fs, err := c.build(&fn, at+".properties."+name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, dsl.Field(name, fs))
	}
	s := dsl.Object(fields...)
	switch n.Unknown {
	case "", "strip":
	case "strict":
		s = s.Strict()
	case "passthrough":
		s = s.Passthrough()
	default:
		return nil, fmt.Errorf("schemafile: %s.unknown: %q is not strip, strict or passthrough", at, n.Unknown)
	}
	if n.Catchall != nil {
		cs, err := c.build(n.Catchall, at+".catchall")
		if err != nil {
			return nil, err
		}
		s = s.Catchall(cs)
	}
	return s, nil
}

func (c *compiler) tuple(n *node, at string) (skema.Schema, error) {
	items := make([]skema.Schema, 0, len(n.PrefixItems))
	for i, it := range n.PrefixItems {
		s, err := c.build(it, fmt.Sprintf("%s.prefixItems[%d]", at, i))
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	t := dsl.Tuple(items...)
	if n.Rest != nil {
		r, err := c.build(n.Rest, at+".rest")
		if err != nil {
			return nil, err
		}
		t = t.Rest(r)
	}
	return t, nil
}

func (c *compiler) record(n *node, at string) (skema.Schema, error) {
	val, err := c.build(n.Values, at+".values")
	if err != nil {
		return nil, err
	}
	if n.Keys == nil {
		return dsl.Record(val), nil
	}
	key, err := c.build(n.Keys, at+".keys")
	if err != nil {
		return nil, err
	}
	return dsl.RecordOf(key, val), nil
}

func (c *compiler) union(n *node, at string) (skema.Schema, error) {
	opts := make([]skema.Schema, 0, len(n.AnyOf))
	for i, o := range n.AnyOf {
		s, err := c.build(o, fmt.Sprintf("%s.anyOf[%d]", at, i))
		if err != nil {
			return nil, err
		}
		opts = append(opts, s)
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("schemafile: %s: union needs anyOf entries", at)
	}
	if n.Discriminator == "" {
		return dsl.Union(opts...), nil
	}
	objs := make([]dsl.ObjectSchema, 0, len(opts))
	for i, o := range opts {
		obj, ok := o.(dsl.ObjectSchema)
		if !ok {
			return nil, fmt.Errorf("schemafile: %s.anyOf[%d]: discriminated union options must be plain objects", at, i)
		}
		objs = append(objs, obj)
	}
	return discriminated(n.Discriminator, objs, at)
}

func discriminated(key string, objs []dsl.ObjectSchema, at string) (s skema.Schema, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("schemafile: %s: %v", at, r)
		}
	}()
	return dsl.DiscriminatedUnion(key, objs...), nil
}

func describe(s skema.Schema, text string) skema.Schema {
	switch t := s.(type) {
	case dsl.StringSchema:
		return t.Describe(text)
	case dsl.NumberSchema:
		return t.Describe(text)
	case dsl.BoolSchema:
		return t.Describe(text)
	case dsl.DateSchema:
		return t.Describe(text)
	case dsl.ArraySchema:
		return t.Describe(text)
	case dsl.ObjectSchema:
		return t.Describe(text)
	case dsl.TupleSchema:
		return t.Describe(text)
	case dsl.RecordSchema:
		return t.Describe(text)
	case dsl.LiteralSchema:
		return t.Describe(text)
	case dsl.EnumSchema:
		return t.Describe(text)
	case dsl.UnionSchema:
		return t.Describe(text)
	case dsl.DiscriminatedUnionSchema:
		return t.Describe(text)
	case *dsl.LazySchema:
		return t.Describe(text)
	}
	return s
}

// value converts a YAML node to the value model, keeping integers apart
// from floats.
func value(n *yaml.Node) (any, error) { return yamlsrc.FromNode(n, eng.Options{}) }

func sortedKeys(m map[string]*node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
