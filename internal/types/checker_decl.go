package types

import (
	"fmt"

	"github.com/malphas-lang/sema/internal/ast"
	"github.com/malphas-lang/sema/internal/diag"
)

// collectDecls registers traits, impls and every function signature before
// any body is checked, so bodies may refer to functions declared later.
func (c *Checker) collectDecls(file *ast.File) {
	for _, decl := range file.Decls {
		if d, ok := decl.(*ast.TraitDecl); ok {
			c.collectTrait(d)
		}
	}
	for _, decl := range file.Decls {
		if d, ok := decl.(*ast.ImplDecl); ok {
			c.collectImpl(d)
		}
	}
	for _, fn := range file.Funcs() {
		c.collectFunc(fn)
	}
}

func (c *Checker) collectTrait(d *ast.TraitDecl) {
	if prev, ok := c.traits[d.Name.Name]; ok {
		c.reportRedefinition(d.Name.Name, d.Name.Span(), prev.Name.Span())
		return
	}
	c.traits[d.Name.Name] = d
	if _, ok := c.Table.LookupTrait(d.Name.Name.String()); !ok {
		c.Table.NewTrait(d.Name.Name.String())
	}
}

func (c *Checker) collectImpl(d *ast.ImplDecl) {
	tr := c.lookupTrait(d.Trait)
	typ := c.resolveType(d.Type, nil)
	if tr == nil || c.Table.IsError(typ) {
		return
	}
	key := implKey{typ: c.Table.Find(typ), trait: tr}
	if !c.impls.Insert(key) {
		c.reportError(diag.CodeTypeRedefinition,
			fmt.Sprintf("trait '%s' already implemented for '%s'", tr.Name(), c.typeString(typ)), d.Span())
		return
	}
	c.Table.AddImpl(typ, tr)
}

func (c *Checker) lookupTrait(id *ast.Ident) *Trait {
	tr, ok := c.Table.LookupTrait(id.Name.String())
	if !ok {
		c.reportError(diag.CodeTypeUnknownType, fmt.Sprintf("unknown trait '%s'", id.Name), id.Span())
		return nil
	}
	return tr
}

// collectFunc resolves the signature of fn and declares it in the root
// scope. A rejected redefinition still gets a signature so its body is
// checked.
func (c *Checker) collectFunc(fn *ast.FnDecl) {
	sig := &signature{typeParams: make(map[ast.Symbol]Type)}

	var vars []Type
	seen := make(map[ast.Symbol]*ast.TypeParam)
	for _, tp := range fn.TypeParams {
		if prev, ok := seen[tp.Name.Name]; ok {
			c.reportRedefinition(tp.Name.Name, tp.Name.Span(), prev.Name.Span())
			continue
		}
		seen[tp.Name.Name] = tp
		v := c.Table.NewNamedVar(tp.Name.Name.String())
		for _, b := range tp.Bounds {
			if tr := c.lookupTrait(b); tr != nil {
				c.Table.AddBound(v, tr)
			}
		}
		sig.typeParams[tp.Name.Name] = v
		vars = append(vars, v)
	}

	var params []Type
	for _, p := range fn.Params {
		params = append(params, c.resolveType(p.Type, sig.typeParams))
	}
	ret := c.resolveType(fn.ReturnType, sig.typeParams)

	typ := c.Table.NewFunction(params, ret)
	for _, v := range vars {
		c.Table.Bind(typ, v)
	}
	sig.typ = c.Table.Intern(typ)

	sig.decl = &Decl{
		Name: fn.Name.Name,
		Type: sig.typ,
		Kind: DeclFunc,
		Span: fn.Name.Span(),
		Node: fn,
	}
	c.sigs[fn] = sig
	if c.declare(sig.decl, fn.Name) {
		c.Info.Funcs[fn] = sig.decl
	}
	c.tracef("declare %s: %s", fn.Name.Name, c.typeString(sig.typ))
}

// declare inserts d unless a declaration of the same name exists in the
// current scope, in which case a redefinition is reported and the earlier
// declaration stays in effect.
func (c *Checker) declare(d *Decl, id *ast.Ident) bool {
	if prev := c.Scopes.Clash(d.Name); prev != nil {
		c.reportRedefinition(d.Name, d.Span, prev.Span)
		return false
	}
	if c.Options.WarnShadowing {
		if outer := c.Scopes.Shadowed(d.Name); outer != nil {
			c.reportWarning(diag.CodeTypeShadowedBinding,
				fmt.Sprintf("%s '%s' shadows %s declared in an outer scope", d.Kind, d.Name, outer.Kind),
				d.Span, outer.Span, "shadowed declaration here")
		}
	}
	c.Scopes.Insert(d)
	c.Info.Defs[id] = d
	return true
}

// resolveType converts a type annotation. A nil annotation is void.
// Unknown names are reported and resolve to the error type.
func (c *Checker) resolveType(typ ast.TypeExpr, typeParams map[ast.Symbol]Type) Type {
	switch t := typ.(type) {
	case nil:
		return c.Table.Primitive(Void)
	case *ast.NamedType:
		if v, ok := typeParams[t.Name.Name]; ok {
			return v
		}
		if k, ok := LookupPrimitive(t.Name.Name.String()); ok {
			return c.Table.Primitive(k)
		}
		c.reportError(diag.CodeTypeUnknownType, fmt.Sprintf("unknown type '%s'", t.Name.Name), t.Span())
		return c.Table.ErrorType()
	case *ast.FunctionType:
		var params []Type
		for _, p := range t.Params {
			params = append(params, c.resolveType(p, typeParams))
		}
		return c.Table.Intern(c.Table.NewFunction(params, c.resolveType(t.Return, typeParams)))
	case *ast.TupleType:
		var elems []Type
		for _, e := range t.Elems {
			elems = append(elems, c.resolveType(e, typeParams))
		}
		return c.Table.Intern(c.Table.NewTuple(elems))
	default:
		defect("unexpected type expression %T", typ)
		return NoType
	}
}

func (c *Checker) checkBodies(file *ast.File) {
	for _, fn := range file.Funcs() {
		c.checkFunc(fn)
	}
}

func (c *Checker) checkFunc(fn *ast.FnDecl) {
	sig := c.sigs[fn]
	if sig == nil {
		defect("function %s has no signature", fn.Name.Name)
	}
	c.tracef("check %s", fn.Name.Name)

	c.fn = sig
	c.pushScope()
	params := c.Table.Params(sig.typ)
	for i, p := range fn.Params {
		c.declare(&Decl{
			Name: p.Name.Name,
			Type: params[i],
			Kind: DeclParam,
			Span: p.Name.Span(),
			Node: p,
		}, p.Name)
	}
	if fn.Body != nil {
		for _, stmt := range fn.Body.Stmts {
			c.checkStmt(stmt)
		}
	}
	c.popScope()
	c.fn = nil
}

// checkSanity runs the global sanity pass over every signature.
func (c *Checker) checkSanity(file *ast.File) {
	for _, fn := range file.Funcs() {
		sig := c.sigs[fn]
		if !c.Table.IsSane(sig.typ) {
			c.reportError(diag.CodeTypeInvalidGeneric,
				fmt.Sprintf("invalid generic signature '%s' for '%s'", c.typeString(sig.typ), fn.Name.Name), fn.Name.Span())
		}
	}
}
