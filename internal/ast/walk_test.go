package ast

import (
	"testing"

	"github.com/malphas-lang/sema/internal/lexer"
)

// fn add(a: int, b: int) -> int { let c: int = a + b; return add(c, 1); }
func sampleFile() *File {
	sp := lexer.Span{}
	intT := func() TypeExpr { return NewNamedType(NewIdent("int", sp), sp) }
	body := NewBlockStmt([]Stmt{
		NewLetStmt(NewIdent("c", sp), intT(),
			NewInfixExpr(lexer.PLUS, NewIdent("a", sp), NewIdent("b", sp), sp), sp),
		NewReturnStmt(NewCallExpr(NewIdent("add", sp),
			[]Expr{NewIdent("c", sp), NewIntegerLit("1", sp)}, sp), sp),
	}, sp)
	fn := NewFnDecl(NewIdent("add", sp), nil, []*Param{
		NewParam(NewIdent("a", sp), intT(), sp),
		NewParam(NewIdent("b", sp), intT(), sp),
	}, intT(), body, sp)
	return NewFile([]Decl{fn}, sp)
}

func TestWalkVisitsEveryStatement(t *testing.T) {
	var lets, returns int
	Walk(sampleFile(), func(n Node) bool {
		switch n.(type) {
		case *LetStmt:
			lets++
		case *ReturnStmt:
			returns++
		}
		return true
	})
	if lets != 1 || returns != 1 {
		t.Fatalf("expected 1 let and 1 return, got %d and %d", lets, returns)
	}
}

func TestWalkStopsDescending(t *testing.T) {
	visited := 0
	Walk(sampleFile(), func(n Node) bool {
		visited++
		_, isFn := n.(*FnDecl)
		return !isFn
	})
	if visited != 2 {
		t.Fatalf("expected file and function only, visited %d nodes", visited)
	}
}

func TestInspectSkipsBindingsAndTypes(t *testing.T) {
	var names []Symbol
	count := 0
	Inspect(sampleFile(), func(e Expr) {
		count++
		if id, ok := e.(*Ident); ok {
			names = append(names, id.Name)
		}
	})
	// a + b, a, b, add(c, 1), add, c, 1
	if count != 7 {
		t.Fatalf("expected 7 value expressions, got %d", count)
	}
	want := []Symbol{"a", "b", "add", "c"}
	if len(names) != len(want) {
		t.Fatalf("expected identifiers %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected identifiers %v, got %v", want, names)
		}
	}
}

func TestNewSymbolNormalizes(t *testing.T) {
	composed := NewSymbol("caf\u00e9")
	decomposed := NewSymbol("cafe\u0301")
	if composed != decomposed {
		t.Fatalf("expected %q and %q to normalize to the same symbol", composed, decomposed)
	}
}

func TestFileFuncs(t *testing.T) {
	sp := lexer.Span{}
	f := NewFile([]Decl{
		NewTraitDecl(NewIdent("Show", sp), sp),
		sampleFile().Decls[0],
	}, sp)
	if got := len(f.Funcs()); got != 1 {
		t.Fatalf("expected 1 function, got %d", got)
	}
}
