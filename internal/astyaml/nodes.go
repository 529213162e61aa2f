package astyaml

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/malphas-lang/sema/internal/lexer"
)

// resolve follows alias nodes to their anchors.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// span returns the location of n. A mapping may override its document
// position with an "at" field of the form "line:col".
func (p *Parser) span(n *yaml.Node) lexer.Span {
	sp := lexer.Span{Filename: p.filename, Line: max(n.Line, 1), Column: max(n.Column, 1)}
	if at := lookup(n, "at"); at != nil {
		var line, col int
		if _, err := fmt.Sscanf(at.Value, "%d:%d", &line, &col); err != nil || line < 1 || col < 1 {
			p.reportError(fmt.Sprintf("invalid position %q, expected line:col", at.Value), p.span(at))
			return sp
		}
		sp.Line, sp.Column = line, col
		return sp
	}
	width := 1
	if n.Kind == yaml.ScalarNode {
		width = max(1, utf8.RuneCountInString(n.Value))
	}
	if sp.Line <= len(p.lineStarts) {
		sp.Start = p.lineStarts[sp.Line-1] + sp.Column - 1
		sp.End = sp.Start + width
	}
	return sp
}

// lookup returns the value of key in the mapping n, or nil.
func lookup(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return resolve(n.Content[i+1])
		}
	}
	return nil
}

// fields checks that n is a mapping and returns its values by key. Keys
// outside allowed (and "at") are reported and ignored.
func (p *Parser) fields(n *yaml.Node, what string, allowed ...string) (map[string]*yaml.Node, bool) {
	if n == nil || n.Kind != yaml.MappingNode {
		if n != nil {
			p.reportErrorf(n, "expected a mapping for %s", what)
		}
		return nil, false
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if key.Value == "at" {
			continue
		}
		if !slices.Contains(allowed, key.Value) {
			p.reportErrorf(key, "unknown field '%s' in %s", key.Value, what)
			continue
		}
		if _, dup := out[key.Value]; dup {
			p.reportErrorf(key, "duplicate field '%s' in %s", key.Value, what)
			continue
		}
		out[key.Value] = resolve(n.Content[i+1])
	}
	return out, true
}

// list returns the elements of the sequence n. A missing or null value is
// an empty list.
func (p *Parser) list(n *yaml.Node, what string) []*yaml.Node {
	if isNull(n) {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		p.reportErrorf(n, "expected a list for %s", what)
		return nil
	}
	out := make([]*yaml.Node, 0, len(n.Content))
	for _, c := range n.Content {
		out = append(out, resolve(c))
	}
	return out
}

// scalar returns the text of a required scalar value.
func (p *Parser) scalar(n *yaml.Node, owner *yaml.Node, what string) (string, bool) {
	if n == nil {
		p.reportErrorf(owner, "missing %s", what)
		return "", false
	}
	if n.Kind != yaml.ScalarNode || isNull(n) || n.Value == "" {
		p.reportErrorf(n, "expected a non-empty scalar for %s", what)
		return "", false
	}
	return n.Value, true
}

// only returns the single key of fields that is one of kinds.
func (p *Parser) only(n *yaml.Node, fields map[string]*yaml.Node, what string, kinds []string) (string, bool) {
	var found []string
	for _, k := range kinds {
		if _, ok := fields[k]; ok {
			found = append(found, k)
		}
	}
	switch len(found) {
	case 1:
		return found[0], true
	case 0:
		p.reportErrorf(n, "%s has no kind", what)
	default:
		p.reportErrorf(n, "%s has more than one kind: %v", what, found)
	}
	return "", false
}
