package astyaml

import (
	"gopkg.in/yaml.v3"

	"github.com/malphas-lang/sema/internal/ast"
)

var stmtKinds = []string{"let", "expr", "return", "if", "while", "do", "for", "block", "break", "continue"}

// parseBlock reads a statement list. A missing list is an empty block
// located at owner.
func (p *Parser) parseBlock(n, owner *yaml.Node, what string) *ast.BlockStmt {
	if isNull(n) {
		return ast.NewBlockStmt(nil, p.span(owner))
	}
	var stmts []ast.Stmt
	for _, sn := range p.list(n, what) {
		if s := p.parseStmt(sn); s != nil {
			stmts = append(stmts, s)
		}
	}
	return ast.NewBlockStmt(stmts, p.span(n))
}

func (p *Parser) parseStmt(n *yaml.Node) ast.Stmt {
	if n.Kind == yaml.ScalarNode {
		switch n.Value {
		case "break":
			return ast.NewBreakStmt(p.innermostLoop(), p.span(n))
		case "continue":
			return ast.NewContinueStmt(p.innermostLoop(), p.span(n))
		case "return":
			return ast.NewReturnStmt(nil, p.span(n))
		}
		p.reportErrorf(n, "unknown statement '%s'", n.Value)
		return nil
	}

	fields, ok := p.fields(n, "statement", stmtKinds...)
	if !ok {
		return nil
	}
	kind, ok := p.only(n, fields, "statement", stmtKinds)
	if !ok {
		return nil
	}
	span := p.span(n)
	v := fields[kind]

	switch kind {
	case "let":
		return p.parseLet(v, n)

	case "expr":
		return ast.NewExprStmt(p.parseExpr(v, n), span)

	case "return":
		if isNull(v) {
			return ast.NewReturnStmt(nil, span)
		}
		return ast.NewReturnStmt(p.parseExpr(v, n), span)

	case "if":
		return p.parseIf(v, n)

	case "while":
		wf, ok := p.fields(v, "while", "cond", "body")
		if !ok {
			return nil
		}
		loop := ast.NewWhileStmt(p.parseExpr(wf["cond"], v), nil, span)
		loop.Body = p.parseLoopBody(loop, wf["body"], v)
		return loop

	case "do":
		df, ok := p.fields(v, "do", "body", "cond")
		if !ok {
			return nil
		}
		loop := ast.NewDoWhileStmt(nil, nil, span)
		loop.Body = p.parseLoopBody(loop, df["body"], v)
		loop.Cond = p.parseExpr(df["cond"], v)
		return loop

	case "for":
		return p.parseFor(v, n)

	case "block":
		return p.parseBlock(v, n, "block")

	case "break":
		return ast.NewBreakStmt(p.innermostLoop(), span)

	default:
		return ast.NewContinueStmt(p.innermostLoop(), span)
	}
}

func (p *Parser) parseLet(v, owner *yaml.Node) ast.Stmt {
	lf, ok := p.fields(v, "let", "name", "type", "init")
	if !ok {
		return nil
	}
	name := p.parseIdent(lf["name"], v, "let name")
	if name == nil {
		return nil
	}
	var typ ast.TypeExpr
	if !isNull(lf["type"]) {
		if typ = p.parseType(lf["type"]); typ == nil {
			return nil
		}
	}
	var init ast.Expr
	if !isNull(lf["init"]) {
		init = p.parseExpr(lf["init"], v)
	}
	return ast.NewLetStmt(name, typ, init, p.span(owner))
}

// parseIf reads {cond, then, else}. The else branch is a statement list or
// a nested {if: ...} mapping.
func (p *Parser) parseIf(v, owner *yaml.Node) ast.Stmt {
	f, ok := p.fields(v, "if", "cond", "then", "else")
	if !ok {
		return nil
	}
	cond := p.parseExpr(f["cond"], v)
	then := p.parseBlock(f["then"], v, "then")

	var els ast.Stmt
	switch e := f["else"]; {
	case isNull(e):
	case e.Kind == yaml.MappingNode && lookup(e, "if") != nil:
		els = p.parseIf(lookup(e, "if"), e)
	default:
		els = p.parseBlock(e, v, "else")
	}
	return ast.NewIfStmt(cond, then, els, p.span(owner))
}

func (p *Parser) parseFor(v, owner *yaml.Node) ast.Stmt {
	f, ok := p.fields(v, "for", "init", "cond", "step", "body")
	if !ok {
		return nil
	}
	loop := ast.NewForStmt(nil, nil, nil, nil, p.span(owner))
	if in := f["init"]; !isNull(in) {
		switch s := p.parseStmt(in).(type) {
		case nil:
		case *ast.LetStmt, *ast.ExprStmt:
			loop.Init = s
		default:
			p.reportErrorf(in, "for initializer must be a let or an expression")
		}
	}
	if !isNull(f["cond"]) {
		loop.Cond = p.parseExpr(f["cond"], v)
	}
	if !isNull(f["step"]) {
		loop.Step = p.parseExpr(f["step"], v)
	}
	loop.Body = p.parseLoopBody(loop, f["body"], v)
	return loop
}

func (p *Parser) parseLoopBody(loop ast.LoopStmt, n, owner *yaml.Node) *ast.BlockStmt {
	p.loops = append(p.loops, loop)
	body := p.parseBlock(n, owner, "loop body")
	p.loops = p.loops[:len(p.loops)-1]
	return body
}

// innermostLoop returns the loop a break or continue at the current
// position refers to, or nil outside of any loop.
func (p *Parser) innermostLoop() ast.LoopStmt {
	if len(p.loops) == 0 {
		return nil
	}
	return p.loops[len(p.loops)-1]
}
