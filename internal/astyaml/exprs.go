package astyaml

import (
	"gopkg.in/yaml.v3"

	"github.com/malphas-lang/sema/internal/ast"
	"github.com/malphas-lang/sema/internal/lexer"
)

var exprKinds = []string{"int", "float", "bool", "string", "ident", "prefix", "postfix", "infix", "call", "tuple", "empty"}

// parseExpr reads an expression. Malformed expressions are reported and
// replaced by an empty expression so the enclosing node stays intact.
func (p *Parser) parseExpr(n, owner *yaml.Node) ast.Expr {
	if n == nil {
		p.reportErrorf(owner, "missing expression")
		return ast.NewEmptyExpr(p.span(owner))
	}
	bad := func() ast.Expr { return ast.NewEmptyExpr(p.span(n)) }

	fields, ok := p.fields(n, "expression", append(exprKinds, "kind")...)
	if !ok {
		return bad()
	}
	kind, ok := p.only(n, fields, "expression", exprKinds)
	if !ok {
		return bad()
	}
	if _, sized := fields["kind"]; sized && kind != "int" && kind != "float" {
		p.reportErrorf(n, "only numeric literals take a kind")
	}
	span := p.span(n)
	v := fields[kind]

	switch kind {
	case "int":
		text, ok := p.scalar(v, n, "integer literal")
		if !ok {
			return bad()
		}
		lit := ast.NewIntegerLit(text, span)
		lit.Kind = p.literalKind(fields["kind"])
		return lit

	case "float":
		text, ok := p.scalar(v, n, "float literal")
		if !ok {
			return bad()
		}
		lit := ast.NewFloatLit(text, span)
		lit.Kind = p.literalKind(fields["kind"])
		return lit

	case "bool":
		var b bool
		if err := v.Decode(&b); err != nil {
			p.reportErrorf(v, "expected true or false")
			return bad()
		}
		return ast.NewBoolLit(b, span)

	case "string":
		if v.Kind != yaml.ScalarNode {
			p.reportErrorf(v, "expected a scalar for string literal")
			return bad()
		}
		return ast.NewStringLit(v.Value, span)

	case "ident":
		name, ok := p.scalar(v, n, "identifier")
		if !ok {
			return bad()
		}
		if lookup(n, "at") == nil {
			span = p.span(v)
		}
		return ast.NewIdent(name, span)

	case "prefix", "postfix":
		f, ok := p.fields(v, kind+" expression", "op", "expr")
		if !ok {
			return bad()
		}
		op, ok := p.operator(f["op"], v, kind)
		if !ok {
			return bad()
		}
		operand := p.parseExpr(f["expr"], v)
		if kind == "prefix" {
			return ast.NewPrefixExpr(op, operand, span)
		}
		return ast.NewPostfixExpr(op, operand, span)

	case "infix":
		f, ok := p.fields(v, "infix expression", "op", "left", "right")
		if !ok {
			return bad()
		}
		op, ok := p.operator(f["op"], v, kind)
		if !ok {
			return bad()
		}
		return ast.NewInfixExpr(op, p.parseExpr(f["left"], v), p.parseExpr(f["right"], v), span)

	case "call":
		f, ok := p.fields(v, "call", "callee", "args")
		if !ok {
			return bad()
		}
		callee := p.parseExpr(f["callee"], v)
		var args []ast.Expr
		for _, an := range p.list(f["args"], "args") {
			args = append(args, p.parseExpr(an, v))
		}
		return ast.NewCallExpr(callee, args, span)

	case "tuple":
		var elems []ast.Expr
		for _, en := range p.list(v, "tuple") {
			elems = append(elems, p.parseExpr(en, v))
		}
		return ast.NewTupleExpr(elems, span)

	default:
		return ast.NewEmptyExpr(span)
	}
}

// operator reads an operator and checks it may be used in position.
func (p *Parser) operator(n, owner *yaml.Node, position string) (lexer.TokenType, bool) {
	text, ok := p.scalar(n, owner, "operator")
	if !ok {
		return lexer.ILLEGAL, false
	}
	op := lexer.LookupOperator(text)
	valid := false
	switch {
	case op == lexer.ILLEGAL:
		p.reportErrorf(n, "unknown operator '%s'", text)
		return op, false
	case position == "prefix":
		valid = op.IsPrefix()
	case position == "postfix":
		valid = op.IsPostfix()
	default:
		valid = op.IsInfix()
	}
	if !valid {
		p.reportErrorf(n, "'%s' is not a %s operator", text, position)
		return lexer.ILLEGAL, false
	}
	return op, true
}

func (p *Parser) literalKind(n *yaml.Node) string {
	if isNull(n) {
		return ""
	}
	kind, _ := p.scalar(n, n, "literal kind")
	return kind
}
