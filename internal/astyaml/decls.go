package astyaml

import (
	"gopkg.in/yaml.v3"

	"github.com/malphas-lang/sema/internal/ast"
)

// parseIdent reads a required name field of owner.
func (p *Parser) parseIdent(n, owner *yaml.Node, what string) *ast.Ident {
	name, ok := p.scalar(n, owner, what)
	if !ok {
		return nil
	}
	return ast.NewIdent(name, p.span(n))
}

// parseTrait reads a trait name, given either as a scalar or as
// {name: Show}.
func (p *Parser) parseTrait(n *yaml.Node) *ast.TraitDecl {
	if n.Kind == yaml.ScalarNode {
		name := p.parseIdent(n, n, "trait name")
		if name == nil {
			return nil
		}
		return ast.NewTraitDecl(name, name.Span())
	}
	fields, ok := p.fields(n, "trait", "name")
	if !ok {
		return nil
	}
	name := p.parseIdent(fields["name"], n, "trait name")
	if name == nil {
		return nil
	}
	return ast.NewTraitDecl(name, p.span(n))
}

func (p *Parser) parseImpl(n *yaml.Node) *ast.ImplDecl {
	fields, ok := p.fields(n, "impl", "trait", "type")
	if !ok {
		return nil
	}
	trait := p.parseIdent(fields["trait"], n, "impl trait")
	if fields["type"] == nil {
		p.reportErrorf(n, "missing impl type")
		return nil
	}
	typ := p.parseType(fields["type"])
	if trait == nil || typ == nil {
		return nil
	}
	return ast.NewImplDecl(trait, typ, p.span(n))
}

func (p *Parser) parseFunction(n *yaml.Node) *ast.FnDecl {
	fields, ok := p.fields(n, "function", "name", "type_params", "params", "returns", "body")
	if !ok {
		return nil
	}
	span := p.span(n)
	name := p.parseIdent(fields["name"], n, "function name")
	if name == nil {
		return nil
	}

	var typeParams []*ast.TypeParam
	for _, tn := range p.list(fields["type_params"], "type_params") {
		if tp := p.parseTypeParam(tn); tp != nil {
			typeParams = append(typeParams, tp)
		}
	}

	var params []*ast.Param
	for _, pn := range p.list(fields["params"], "params") {
		pf, ok := p.fields(pn, "parameter", "name", "type")
		if !ok {
			continue
		}
		pname := p.parseIdent(pf["name"], pn, "parameter name")
		if pf["type"] == nil {
			p.reportErrorf(pn, "missing parameter type")
			continue
		}
		ptype := p.parseType(pf["type"])
		if pname == nil || ptype == nil {
			continue
		}
		params = append(params, ast.NewParam(pname, ptype, p.span(pn)))
	}

	var ret ast.TypeExpr
	if !isNull(fields["returns"]) {
		ret = p.parseType(fields["returns"])
	}

	// loops never cross a function boundary
	outer := p.loops
	p.loops = nil
	body := p.parseBlock(fields["body"], n, "body")
	p.loops = outer

	return ast.NewFnDecl(name, typeParams, params, ret, body, span)
}

// parseTypeParam reads {name: A, bounds: [Show]} or a bare scalar name.
func (p *Parser) parseTypeParam(n *yaml.Node) *ast.TypeParam {
	if n.Kind == yaml.ScalarNode {
		name := p.parseIdent(n, n, "type parameter name")
		if name == nil {
			return nil
		}
		return ast.NewTypeParam(name, nil, name.Span())
	}
	fields, ok := p.fields(n, "type parameter", "name", "bounds")
	if !ok {
		return nil
	}
	name := p.parseIdent(fields["name"], n, "type parameter name")
	if name == nil {
		return nil
	}
	var bounds []*ast.Ident
	for _, bn := range p.list(fields["bounds"], "bounds") {
		if b := p.parseIdent(bn, n, "trait bound"); b != nil {
			bounds = append(bounds, b)
		}
	}
	return ast.NewTypeParam(name, bounds, p.span(n))
}

// parseType reads a type expression: a scalar name,
// {fn: {params: [T], returns: T}} or {tuple: [T]}.
func (p *Parser) parseType(n *yaml.Node) ast.TypeExpr {
	if n.Kind == yaml.ScalarNode {
		name := p.parseIdent(n, n, "type name")
		if name == nil {
			return nil
		}
		return ast.NewNamedType(name, name.Span())
	}
	fields, ok := p.fields(n, "type", "fn", "tuple")
	if !ok {
		return nil
	}
	kind, ok := p.only(n, fields, "type", []string{"fn", "tuple"})
	if !ok {
		return nil
	}
	span := p.span(n)

	switch kind {
	case "fn":
		fn := fields["fn"]
		var ff map[string]*yaml.Node
		if !isNull(fn) {
			if ff, ok = p.fields(fn, "function type", "params", "returns"); !ok {
				return nil
			}
		}
		var params []ast.TypeExpr
		for _, pn := range p.list(ff["params"], "params") {
			t := p.parseType(pn)
			if t == nil {
				return nil
			}
			params = append(params, t)
		}
		var ret ast.TypeExpr
		if !isNull(ff["returns"]) {
			if ret = p.parseType(ff["returns"]); ret == nil {
				return nil
			}
		}
		return ast.NewFunctionType(params, ret, span)

	default:
		var elems []ast.TypeExpr
		for _, en := range p.list(fields["tuple"], "tuple") {
			t := p.parseType(en)
			if t == nil {
				return nil
			}
			elems = append(elems, t)
		}
		return ast.NewTupleType(elems, span)
	}
}
