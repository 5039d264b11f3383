// Package yaml decodes YAML documents into the engine value model using
// gopkg.in/yaml.v3 nodes, so integer and float scalars stay distinct and
// duplicate keys can be enforced.
package yaml

import (
	"fmt"

	yv3 "gopkg.in/yaml.v3"

	eng "github.com/reoring/skema/internal/engine"
)

// Decode parses the first YAML document in b. An empty document decodes to nil.
func Decode(b []byte, opt eng.Options) (any, error) {
	var doc yv3.Node
	if err := yv3.Unmarshal(b, &doc); err != nil {
		return nil, eng.IssueError{Code: "parse_error", Message: err.Error(), Offset: -1}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	return FromNode(doc.Content[0], opt)
}

// FromNode converts an already-parsed node.
func FromNode(n *yv3.Node, opt eng.Options) (any, error) {
	d := decoder{opt: opt}
	return d.node(n, nil, 0)
}

type decoder struct{ opt eng.Options }

func (d decoder) node(n *yv3.Node, path eng.Path, depth int) (any, error) {
	switch n.Kind {
	case yv3.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.node(n.Content[0], path, depth)
	case yv3.AliasNode:
		return d.node(n.Alias, path, depth)
	case yv3.ScalarNode:
		return scalar(n, path)
	case yv3.SequenceNode:
		if err := d.checkDepth(path, depth+1); err != nil {
			return nil, err
		}
		out := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := d.node(c, append(path, i), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yv3.MappingNode:
		if err := d.checkDepth(path, depth+1); err != nil {
			return nil, err
		}
		out := make(map[string]any, len(n.Content)/2)
		if err := d.mapping(n, path, depth+1, out); err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, eng.IssueError{Code: "parse_error", Path: path.Clone(), Message: fmt.Sprintf("unsupported yaml node kind %d", n.Kind), Offset: -1}
}

func (d decoder) mapping(n *yv3.Node, path eng.Path, depth int, out map[string]any) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, vn := n.Content[i], n.Content[i+1]
		if k.Kind == yv3.ScalarNode && k.Tag == "!!merge" {
			if err := d.merge(vn, path, depth, out); err != nil {
				return err
			}
			continue
		}
		if k.Kind != yv3.ScalarNode {
			return eng.IssueError{Code: "parse_error", Path: path.Clone(), Message: fmt.Sprintf("line %d: mapping keys must be scalars", k.Line), Offset: -1}
		}
		kp := append(path, k.Value)
		if _, dup := out[k.Value]; dup && d.opt.OnDuplicate == eng.DupError {
			return eng.IssueError{Code: "duplicate_key", Path: kp.Clone(), Message: "key '" + k.Value + "' duplicated", Offset: -1}
		}
		v, err := d.node(vn, kp, depth)
		if err != nil {
			return err
		}
		out[k.Value] = v
	}
	return nil
}

// merge applies a "<<" merge key; explicit keys of the mapping win because
// they are written after.
func (d decoder) merge(n *yv3.Node, path eng.Path, depth int, out map[string]any) error {
	if n.Kind == yv3.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yv3.MappingNode:
		return d.mapping(n, path, depth, out)
	case yv3.SequenceNode:
		for _, c := range n.Content {
			if err := d.merge(c, path, depth, out); err != nil {
				return err
			}
		}
		return nil
	}
	return eng.IssueError{Code: "parse_error", Path: path.Clone(), Message: "merge value must be a mapping", Offset: -1}
}

func (d decoder) checkDepth(path eng.Path, depth int) error {
	if d.opt.MaxDepth > 0 && depth > d.opt.MaxDepth {
		return eng.IssueError{Code: "parse_error", Path: path.Clone(), Message: "max depth exceeded", Offset: -1}
	}
	return nil
}

func scalar(n *yv3.Node, path eng.Path) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, scalarErr(path, err)
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			var f float64
			if ferr := n.Decode(&f); ferr != nil {
				return nil, scalarErr(path, err)
			}
			return f, nil
		}
		return i, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, scalarErr(path, err)
		}
		return f, nil
	}
	return n.Value, nil
}

func scalarErr(path eng.Path, err error) error {
	return eng.IssueError{Code: "parse_error", Path: path.Clone(), Message: err.Error(), Offset: -1}
}
