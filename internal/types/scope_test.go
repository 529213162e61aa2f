package types

import (
	"testing"

	"github.com/malphas-lang/sema/internal/ast"
	"github.com/malphas-lang/sema/internal/lexer"
	"github.com/nalgeon/be"
)

func newDecl(name string, line int) *Decl {
	return &Decl{Name: ast.NewSymbol(name), Span: lexer.Span{Line: line, Column: 1}}
}

func TestResolverShadowingIsLIFO(t *testing.T) {
	r := NewResolver()
	be.Equal(t, r.Depth(), 1)

	a, b := newDecl("x", 1), newDecl("x", 2)
	r.PushScope()
	r.Insert(a)
	r.PushScope()
	be.True(t, r.Clash("x") == nil)
	be.True(t, r.Shadowed("x") == a)
	r.Insert(b)

	be.True(t, r.Lookup("x") == b)
	r.PopScope()
	be.True(t, r.Lookup("x") == a)
	r.PopScope()
	be.True(t, r.Lookup("x") == nil)

	r.Close()
}

func TestResolverClashInSameScope(t *testing.T) {
	r := NewResolver()
	r.PushScope()
	first := newDecl("x", 1)
	r.Insert(first)

	be.True(t, r.Clash("x") == first)
	be.True(t, r.Shadowed("x") == nil)

	defer func() {
		_, ok := recover().(*InternalError)
		be.True(t, ok)
		be.True(t, r.Lookup("x") == first)
	}()
	r.Insert(newDecl("x", 2))
}

func TestResolverEmptyScopesCostNothing(t *testing.T) {
	r := NewResolver()
	r.Insert(newDecl("f", 1))
	for i := 0; i < 10; i++ {
		r.PushScope()
	}
	be.Equal(t, len(r.symbols), 1)
	for i := 0; i < 10; i++ {
		r.PopScope()
	}
	be.True(t, r.Lookup("f") != nil)
	r.Close()
	be.Equal(t, len(r.symbols), 0)
}

func TestResolverTeardownMisuseIsDefect(t *testing.T) {
	tests := []struct {
		name string
		run  func(r *Resolver)
	}{
		{"close with open scope", func(r *Resolver) {
			r.PushScope()
			r.Close()
		}},
		{"pop below root", func(r *Resolver) {
			r.PopScope()
			r.PopScope()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				_, ok := recover().(*InternalError)
				be.True(t, ok)
			}()
			tt.run(NewResolver())
		})
	}
}
