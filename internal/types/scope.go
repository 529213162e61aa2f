package types

import (
	"github.com/malphas-lang/sema/internal/ast"
	"github.com/malphas-lang/sema/internal/lexer"
)

// DeclKind classifies the binding form that introduced a declaration.
type DeclKind int

const (
	DeclFunc DeclKind = iota
	DeclParam
	DeclLocal
)

func (k DeclKind) String() string {
	switch k {
	case DeclFunc:
		return "function"
	case DeclParam:
		return "parameter"
	default:
		return "local"
	}
}

// Decl represents a named entity in the source code.
type Decl struct {
	Name ast.Symbol
	Type Type
	Kind DeclKind
	Span lexer.Span
	Node ast.Node // The AST node where this symbol is defined
}

type slot struct {
	decl  *Decl
	depth int
}

// Resolver maps symbols to stacks of declarations tagged with the scope
// depth that introduced them. The root scope has depth 1.
//
// A Resolver is driven by a single traversal and is not safe for
// concurrent use.
type Resolver struct {
	symbols map[ast.Symbol][]slot
	depth   int
}

// NewResolver creates a resolver with the root scope open.
func NewResolver() *Resolver {
	r := &Resolver{symbols: make(map[ast.Symbol][]slot)}
	r.PushScope()
	return r
}

// Depth returns the current scope depth.
func (r *Resolver) Depth() int { return r.depth }

// PushScope opens a nested scope.
func (r *Resolver) PushScope() {
	r.depth++
}

// PopScope closes the current scope, dropping every declaration it
// introduced.
func (r *Resolver) PopScope() {
	if r.depth <= 0 {
		defect("pop of scope at depth %d", r.depth)
	}
	for sym, stack := range r.symbols {
		if len(stack) == 0 {
			defect("empty declaration stack for %q", sym)
		}
		if stack[len(stack)-1].depth != r.depth {
			continue
		}
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			delete(r.symbols, sym)
		} else {
			r.symbols[sym] = stack
		}
	}
	r.depth--
}

// Insert declares d in the current scope. The caller must have checked
// Clash first.
func (r *Resolver) Insert(d *Decl) {
	if prev := r.Clash(d.Name); prev != nil {
		defect("insert of %q clashes with declaration at %s", d.Name, prev.Span)
	}
	r.symbols[d.Name] = append(r.symbols[d.Name], slot{decl: d, depth: r.depth})
}

// Lookup returns the innermost visible declaration of sym, or nil.
func (r *Resolver) Lookup(sym ast.Symbol) *Decl {
	if stack := r.symbols[sym]; len(stack) > 0 {
		return stack[len(stack)-1].decl
	}
	return nil
}

// Clash returns the declaration of sym made in the current scope, or nil.
func (r *Resolver) Clash(sym ast.Symbol) *Decl {
	if stack := r.symbols[sym]; len(stack) > 0 && stack[len(stack)-1].depth == r.depth {
		return stack[len(stack)-1].decl
	}
	return nil
}

// Shadowed returns the outer declaration that a new declaration of sym in
// the current scope would hide.
func (r *Resolver) Shadowed(sym ast.Symbol) *Decl {
	if r.Clash(sym) != nil {
		return nil
	}
	return r.Lookup(sym)
}

// Close pops the root scope. Exactly the root scope must be open, and no
// declaration may survive it.
func (r *Resolver) Close() {
	if r.depth != 1 {
		defect("resolver closed at depth %d", r.depth)
	}
	r.PopScope()
	if len(r.symbols) != 0 {
		defect("%d symbols leaked past the root scope", len(r.symbols))
	}
}
