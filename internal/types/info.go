package types

import (
	"github.com/malphas-lang/sema/internal/ast"
)

// TypeAndValue records the type of an expression and whether it is
// addressable.
type TypeAndValue struct {
	Type   Type
	Lvalue bool
}

// Info holds the annotations computed by the checker. The syntax tree is
// never mutated.
type Info struct {
	Types map[ast.Expr]TypeAndValue
	Defs  map[*ast.Ident]*Decl // binding identifiers
	Uses  map[*ast.Ident]*Decl // resolved references
	Funcs map[*ast.FnDecl]*Decl
}

// NewInfo allocates empty annotation maps.
func NewInfo() *Info {
	return &Info{
		Types: make(map[ast.Expr]TypeAndValue),
		Defs:  make(map[*ast.Ident]*Decl),
		Uses:  make(map[*ast.Ident]*Decl),
		Funcs: make(map[*ast.FnDecl]*Decl),
	}
}

// TypeOf returns the type recorded for e, or NoType.
func (i *Info) TypeOf(e ast.Expr) Type {
	return i.Types[e].Type
}

// ObjectOf returns the declaration an identifier defines or refers to.
func (i *Info) ObjectOf(id *ast.Ident) *Decl {
	if d := i.Defs[id]; d != nil {
		return d
	}
	return i.Uses[id]
}
