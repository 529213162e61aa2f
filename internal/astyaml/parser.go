// Package astyaml reads syntax trees written as YAML documents. It stands in
// for a surface-syntax parser: the tree it produces is the one the checker
// consumes, with spans taken from the document positions and break and
// continue statements already resolved to their loops.
package astyaml

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/malphas-lang/sema/internal/ast"
	"github.com/malphas-lang/sema/internal/diag"
	"github.com/malphas-lang/sema/internal/lexer"
)

type Option func(*options)

type options struct {
	filename string
}

// WithFilename attributes all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// ParseError captures a malformed node with its location.
type ParseError struct {
	Message string
	Span    lexer.Span
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}

// Diagnostic converts e for the diagnostics formatter.
func (e ParseError) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     diag.CodeParserMalformedTree,
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
}

// Parser builds an ast.File from a YAML document.
//
// Shape errors are recoverable: the parser records them, skips the offending
// node and keeps going, so one run reports every malformed node. Callers must
// consult Errors before handing the tree to the checker.
type Parser struct {
	src        []byte
	filename   string
	lineStarts []int

	errors []ParseError

	// enclosing loops, innermost last
	loops []ast.LoopStmt
}

// New returns a parser for the document in src.
func New(src []byte, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &Parser{src: src, filename: cfg.filename, lineStarts: []int{0}}
	for i, b := range src {
		if b == '\n' {
			p.lineStarts = append(p.lineStarts, i+1)
		}
	}
	return p
}

// ParseFile reads the file at path and parses it.
func ParseFile(path string) (*ast.File, []ParseError, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read %s", path)
	}
	p := New(src, WithFilename(path))
	file, err := p.ParseFile()
	if err != nil {
		return nil, nil, err
	}
	return file, p.Errors(), nil
}

// Errors returns the recoverable errors encountered so far.
func (p *Parser) Errors() []ParseError {
	return p.errors
}

// Diagnostics returns Errors converted for the diagnostics formatter.
func (p *Parser) Diagnostics() []diag.Diagnostic {
	ds := make([]diag.Diagnostic, 0, len(p.errors))
	for _, e := range p.errors {
		ds = append(ds, e.Diagnostic())
	}
	return ds
}

// ParseFile parses the whole document. Only YAML syntax errors are returned
// as an error; everything else is recorded in Errors.
func (p *Parser) ParseFile() (*ast.File, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(p.src)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return ast.NewFile(nil, lexer.Span{Filename: p.filename, Line: 1, Column: 1}), nil
		}
		return nil, errors.Wrapf(err, "parse %s", p.displayName())
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return ast.NewFile(nil, p.span(root)), nil
		}
		root = root.Content[0]
	}
	root = resolve(root)

	fields, ok := p.fields(root, "document", "traits", "impls", "functions")
	if !ok {
		return ast.NewFile(nil, p.span(root)), nil
	}

	var decls []ast.Decl
	for _, n := range p.list(fields["traits"], "traits") {
		if d := p.parseTrait(n); d != nil {
			decls = append(decls, d)
		}
	}
	for _, n := range p.list(fields["impls"], "impls") {
		if d := p.parseImpl(n); d != nil {
			decls = append(decls, d)
		}
	}
	for _, n := range p.list(fields["functions"], "functions") {
		if d := p.parseFunction(n); d != nil {
			decls = append(decls, d)
		}
	}
	return ast.NewFile(decls, p.span(root)), nil
}

func (p *Parser) displayName() string {
	if p.filename == "" {
		return "document"
	}
	return p.filename
}

func (p *Parser) reportError(msg string, span lexer.Span) {
	if span.Filename == "" && p.filename != "" {
		span.Filename = p.filename
	}
	p.errors = append(p.errors, ParseError{Message: msg, Span: span})
}

func (p *Parser) reportErrorf(n *yaml.Node, format string, args ...any) {
	p.reportError(fmt.Sprintf(format, args...), p.span(n))
}
