package astyaml

import (
	"slices"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/malphas-lang/sema/internal/ast"
	"github.com/malphas-lang/sema/internal/diag"
	"github.com/malphas-lang/sema/internal/lexer"
	"github.com/malphas-lang/sema/internal/types"
)

func parse(t *testing.T, src string) (*ast.File, *Parser) {
	t.Helper()
	p := New([]byte(src), WithFilename("test.yaml"))
	file, err := p.ParseFile()
	be.Err(t, err, nil)
	return file, p
}

func messages(p *Parser) string {
	var msgs []string
	for _, e := range p.Errors() {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "\n")
}

const identitySrc = `
traits: [Show]
impls:
  - {trait: Show, type: int}
functions:
  - name: id
    type_params: [{name: A, bounds: [Show]}]
    params: [{name: x, type: A}]
    returns: A
    body:
      - return: {ident: x}
`

func TestParseDeclarations(t *testing.T) {
	file, p := parse(t, identitySrc)
	be.Equal(t, len(p.Errors()), 0)
	be.Equal(t, len(file.Decls), 3)

	trait, ok := file.Decls[0].(*ast.TraitDecl)
	be.True(t, ok)
	be.Equal(t, trait.Name.Name, ast.Symbol("Show"))

	impl, ok := file.Decls[1].(*ast.ImplDecl)
	be.True(t, ok)
	be.Equal(t, impl.Type.(*ast.NamedType).Name.Name, ast.Symbol("int"))

	fns := file.Funcs()
	be.Equal(t, len(fns), 1)
	fn := fns[0]
	be.Equal(t, fn.Name.Name, ast.Symbol("id"))
	be.Equal(t, fn.Name.Span().Line, 6)
	be.Equal(t, fn.Name.Span().Filename, "test.yaml")
	be.Equal(t, len(fn.TypeParams), 1)
	be.Equal(t, len(fn.TypeParams[0].Bounds), 1)
	be.Equal(t, len(fn.Params), 1)

	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	be.True(t, ok)
	x, ok := ret.Value.(*ast.Ident)
	be.True(t, ok)
	be.Equal(t, x.Name, ast.Symbol("x"))
	be.Equal(t, x.Span().Line, 11)
}

func TestParseTypes(t *testing.T) {
	file, p := parse(t, `
functions:
  - name: apply
    params:
      - name: f
        type: {fn: {params: [int, {tuple: [bool, float]}], returns: int}}
      - name: g
        type: {fn: null}
    returns: {tuple: []}
`)
	be.Equal(t, messages(p), "")
	fn := file.Funcs()[0]
	be.True(t, fn.Body != nil)

	ft, ok := fn.Params[0].Type.(*ast.FunctionType)
	be.True(t, ok)
	be.Equal(t, len(ft.Params), 2)
	_, ok = ft.Params[1].(*ast.TupleType)
	be.True(t, ok)

	g := fn.Params[1].Type.(*ast.FunctionType)
	be.Equal(t, len(g.Params), 0)
	be.True(t, g.Return == nil)

	rt, ok := fn.ReturnType.(*ast.TupleType)
	be.True(t, ok)
	be.Equal(t, len(rt.Elems), 0)
}

func TestLoopControlResolvesToInnermostLoop(t *testing.T) {
	file, p := parse(t, `
functions:
  - name: f
    body:
      - break
      - while:
          cond: {bool: true}
          body:
            - for:
                body:
                  - if:
                      cond: {bool: false}
                      then: [continue]
            - break
`)
	be.Equal(t, messages(p), "")
	stmts := file.Funcs()[0].Body.Stmts
	be.Equal(t, len(stmts), 2)

	outside := stmts[0].(*ast.BreakStmt)
	be.True(t, outside.Loop == nil)

	while := stmts[1].(*ast.WhileStmt)
	forLoop := while.Body.Stmts[0].(*ast.ForStmt)
	inner := forLoop.Body.Stmts[0].(*ast.IfStmt).Then.Stmts[0].(*ast.ContinueStmt)
	be.True(t, inner.Loop == ast.LoopStmt(forLoop))

	after := while.Body.Stmts[1].(*ast.BreakStmt)
	be.True(t, after.Loop == ast.LoopStmt(while))
}

func TestLoopsDoNotCrossFunctions(t *testing.T) {
	file, p := parse(t, `
functions:
  - name: f
    body:
      - do:
          body: [break]
          cond: {bool: true}
  - name: g
    body: [continue]
`)
	be.Equal(t, messages(p), "")
	fns := file.Funcs()
	do := fns[0].Body.Stmts[0].(*ast.DoWhileStmt)
	be.True(t, do.Body.Stmts[0].(*ast.BreakStmt).Loop == ast.LoopStmt(do))
	be.True(t, fns[1].Body.Stmts[0].(*ast.ContinueStmt).Loop == nil)
}

func TestParseExpressions(t *testing.T) {
	file, p := parse(t, `
functions:
  - name: f
    body:
      - let: {name: a, type: int8, init: {int: "1", kind: int8}}
      - let: {name: b, init: {float: "2.5"}}
      - expr: {infix: {op: "=", left: {ident: a}, right: {prefix: {op: "-", expr: {ident: a}}}}}
      - expr: {postfix: {op: "++", expr: {ident: a}}}
      - expr: {call: {callee: {ident: f}, args: [{string: hi}, {tuple: [{bool: true}]}]}}
      - expr: {empty: true}
      - return: null
`)
	be.Equal(t, messages(p), "")
	stmts := file.Funcs()[0].Body.Stmts
	be.Equal(t, len(stmts), 7)

	lit := stmts[0].(*ast.LetStmt).Value.(*ast.IntegerLit)
	be.Equal(t, lit.Text, "1")
	be.Equal(t, lit.Kind, "int8")
	be.Equal(t, stmts[1].(*ast.LetStmt).Value.(*ast.FloatLit).Kind, "")

	assign := stmts[2].(*ast.ExprStmt).Expr.(*ast.InfixExpr)
	be.Equal(t, assign.Op, lexer.ASSIGN)
	be.Equal(t, assign.Right.(*ast.PrefixExpr).Op, lexer.MINUS)
	be.Equal(t, stmts[3].(*ast.ExprStmt).Expr.(*ast.PostfixExpr).Op, lexer.INC)

	call := stmts[4].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	be.Equal(t, len(call.Args), 2)
	be.Equal(t, call.Args[0].(*ast.StringLit).Value, "hi")

	_, ok := stmts[5].(*ast.ExprStmt).Expr.(*ast.EmptyExpr)
	be.True(t, ok)
	be.True(t, stmts[6].(*ast.ReturnStmt).Value == nil)
}

func TestElseIfChains(t *testing.T) {
	file, p := parse(t, `
functions:
  - name: f
    body:
      - if:
          cond: {bool: true}
          then: []
          else:
            if:
              cond: {bool: false}
              then: []
              else: [return]
`)
	be.Equal(t, messages(p), "")
	outer := file.Funcs()[0].Body.Stmts[0].(*ast.IfStmt)
	elseIf, ok := outer.Else.(*ast.IfStmt)
	be.True(t, ok)
	_, ok = elseIf.Else.(*ast.BlockStmt)
	be.True(t, ok)
}

func TestPositionOverride(t *testing.T) {
	file, p := parse(t, `
functions:
  - name: f
    body:
      - {return: {ident: x, at: "12:7"}, at: "12:3"}
`)
	be.Equal(t, messages(p), "")
	ret := file.Funcs()[0].Body.Stmts[0].(*ast.ReturnStmt)
	be.Equal(t, ret.Span().Line, 12)
	be.Equal(t, ret.Span().Column, 3)
	be.Equal(t, ret.Value.Span().Column, 7)
	be.Equal(t, ret.Value.Span().Filename, "test.yaml")
}

func TestMalformedNodesAreReported(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown field", "functions:\n  - {name: f, colour: red}\n", "unknown field 'colour' in function"},
		{"unknown statement", "functions:\n  - {name: f, body: [loop]}\n", "unknown statement 'loop'"},
		{"no kind", "functions:\n  - {name: f, body: [{}]}\n", "statement has no kind"},
		{"two kinds", "functions:\n  - {name: f, body: [{expr: {ident: a, int: \"1\"}}]}\n", "expression has more than one kind"},
		{"bad operator", "functions:\n  - {name: f, body: [{expr: {prefix: {op: \"*\", expr: {ident: a}}}}]}\n", "'*' is not a prefix operator"},
		{"missing name", "functions:\n  - {body: []}\n", "missing function name"},
		{"missing operand", "functions:\n  - {name: f, body: [{expr: {infix: {op: \"+\", left: {ident: a}}}}]}\n", "missing expression"},
		{"bad position", "functions:\n  - {name: f, at: \"x\"}\n", "invalid position \"x\""},
		{"not a list", "functions: {name: f}\n", "expected a list for functions"},
		{"bad for init", "functions:\n  - {name: f, body: [{for: {init: break}}]}\n", "for initializer must be a let or an expression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, p := parse(t, tt.src)
			be.True(t, len(p.Errors()) > 0)
			be.True(t, strings.Contains(messages(p), tt.want))

			ds := p.Diagnostics()
			be.Equal(t, ds[0].Code, diag.CodeParserMalformedTree)
			be.Equal(t, ds[0].Span.Filename, "test.yaml")
		})
	}
}

func TestSyntaxErrorIsFatal(t *testing.T) {
	p := New([]byte("functions: [\n"), WithFilename("bad.yaml"))
	_, err := p.ParseFile()
	be.Err(t, err, "parse bad.yaml")
}

func TestEmptyDocument(t *testing.T) {
	file, p := parse(t, "")
	be.Equal(t, len(file.Decls), 0)
	be.Equal(t, len(p.Errors()), 0)
}

func TestDecodedTreeChecks(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		codes []diag.Code
	}{
		{"identity", "[{return: {ident: x}}]", nil},
		{"float mismatch", `[{return: {infix: {op: "+", left: {ident: x}, right: {float: "1.0"}}}}]`,
			[]diag.Code{diag.CodeTypeMismatch}},
		{"break outside loop", "[break, {return: {ident: x}}]", []diag.Code{diag.CodeTypeLoopControlOutside}},
		{"break inside loop", "[{while: {cond: {bool: true}, body: [break]}}, {return: {ident: x}}]", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "functions:\n  - {name: f, params: [{name: x, type: int}], returns: int, body: " + tt.body + "}\n"
			file, p := parse(t, src)
			be.Equal(t, messages(p), "")

			res, err := types.NewChecker().Check(file)
			be.Err(t, err, nil)
			var got []diag.Code
			for _, d := range res.Diagnostics {
				got = append(got, d.Code)
			}
			be.True(t, slices.Equal(got, tt.codes))
			be.Equal(t, res.OK, len(tt.codes) == 0)
		})
	}
}
