package types

import (
	"fmt"
	"strings"

	"github.com/malphas-lang/sema/internal/ast"
	"github.com/malphas-lang/sema/internal/diag"
)

// checkExpr types e bottom-up, records the result in Info and returns the
// type.
func (c *Checker) checkExpr(e ast.Expr) Type {
	tv := c.expr(e)
	c.Info.Types[e] = tv
	return tv.Type
}

func (c *Checker) lvalue(e ast.Expr) bool {
	return c.Info.Types[e].Lvalue
}

func (c *Checker) expr(e ast.Expr) TypeAndValue {
	switch e := e.(type) {
	case *ast.EmptyExpr:
		return TypeAndValue{Type: c.Table.Primitive(Void)}

	case *ast.IntegerLit:
		return TypeAndValue{Type: c.literalType(e.Kind, Int, PrimKind.IsInteger, e)}

	case *ast.FloatLit:
		return TypeAndValue{Type: c.literalType(e.Kind, Float, PrimKind.IsFloat, e)}

	case *ast.BoolLit:
		return TypeAndValue{Type: c.Table.Primitive(Bool)}

	case *ast.StringLit:
		return TypeAndValue{Type: c.Table.Primitive(String)}

	case *ast.Ident:
		// Identifiers are addressable even when unresolved
		if d := c.Scopes.Lookup(e.Name); d != nil {
			c.Info.Uses[e] = d
			return TypeAndValue{Type: d.Type, Lvalue: true}
		}
		c.reportError(diag.CodeTypeUndefinedIdentifier,
			fmt.Sprintf("symbol '%s' not found in current scope", e.Name), e.Span())
		return TypeAndValue{Type: c.Table.ErrorType(), Lvalue: true}

	case *ast.PrefixExpr:
		t := c.checkExpr(e.Expr)
		return TypeAndValue{Type: t, Lvalue: !c.Options.StrictPrefixLvalue}

	case *ast.PostfixExpr:
		return TypeAndValue{Type: c.checkExpr(e.Expr)}

	case *ast.InfixExpr:
		return c.checkInfix(e)

	case *ast.CallExpr:
		return TypeAndValue{Type: c.checkCall(e)}

	case *ast.TupleExpr:
		elems := make([]Type, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = c.checkExpr(el)
		}
		return TypeAndValue{Type: c.Table.Tuple(elems...)}

	default:
		defect("unexpected expression %T", e)
		return TypeAndValue{}
	}
}

// literalType resolves the primitive kind of a literal; an empty suffix
// selects def.
func (c *Checker) literalType(kind string, def PrimKind, valid func(PrimKind) bool, e ast.Expr) Type {
	if kind == "" {
		return c.Table.Primitive(def)
	}
	k, ok := LookupPrimitive(kind)
	if !ok || !valid(k) {
		c.reportError(diag.CodeTypeUnknownType, fmt.Sprintf("invalid literal type '%s'", kind), e.Span())
		return c.Table.ErrorType()
	}
	return c.Table.Primitive(k)
}

func (c *Checker) checkInfix(e *ast.InfixExpr) TypeAndValue {
	lt := c.checkExpr(e.Left)
	rt := c.checkExpr(e.Right)

	if !c.compatible(lt, rt) {
		c.reportMismatch(fmt.Sprintf("incompatible types in binary expression: '%s' and '%s'",
			c.typeString(lt), c.typeString(rt)), e.Span())
	}

	if e.Op.IsRelational() {
		return TypeAndValue{Type: c.Table.Primitive(Bool)}
	}

	tv := TypeAndValue{Type: c.pick(lt, rt)}
	if e.Op.IsAssign() {
		if !c.lvalue(e.Left) {
			c.reportError(diag.CodeTypeNotAnLvalue, "no lvalue on left-hand side of assignment", e.Left.Span())
		}
		tv.Lvalue = true
	}
	return tv
}

// checkCall requires the callee to be a function taking as many arguments
// as given, each compatible with its parameter. Generic callees are
// instantiated with the argument types first.
func (c *Checker) checkCall(e *ast.CallExpr) Type {
	ft := c.checkExpr(e.Callee)
	args := make([]Type, len(e.Args))
	argError := false
	for i, arg := range e.Args {
		args[i] = c.checkExpr(arg)
		argError = argError || c.Table.IsError(args[i])
	}

	if c.Table.IsError(ft) {
		return ft
	}
	if c.Table.Kind(ft) != KindFunction {
		c.reportError(diag.CodeTypeNotCallable,
			fmt.Sprintf("invocation not done on function type but instead type '%s' is given", c.typeString(ft)),
			e.Callee.Span())
		return c.Table.ErrorType()
	}
	if len(c.Table.Params(ft)) != len(args) {
		c.reportCallMismatch(e, ft, args)
		return c.Table.ErrorType()
	}

	callee := ft
	if c.Table.IsGeneric(ft) {
		if argError {
			return c.Table.ErrorType()
		}
		targs, ok := c.Table.Match(ft, args)
		if !ok {
			c.reportMismatch(fmt.Sprintf("cannot infer type arguments for '%s' from an invocation of type '%s'",
				exprString(e.Callee), c.invocationString(args, "_")), e.Callee.Span())
			return c.Table.ErrorType()
		}
		if err := c.Table.CheckBounds(ft, targs); err != nil {
			c.reportError(diag.CodeTypeConstraintNotSatisfied, err.Error(), e.Span())
			return c.Table.ErrorType()
		}
		callee = c.Table.Instantiate(ft, targs)
	}

	for i, p := range c.Table.Params(callee) {
		if !c.compatible(p, args[i]) {
			c.reportCallMismatch(e, ft, args)
			return c.Table.ErrorType()
		}
	}
	c.tracef("call %s: %s", exprString(e.Callee), c.typeString(callee))
	return c.Table.Result(callee)
}

// reportCallMismatch reports the declared type of the callee next to the
// type of the invocation. The invocation is rendered, not interned.
func (c *Checker) reportCallMismatch(e *ast.CallExpr, ft Type, args []Type) {
	result := "_"
	if !c.Table.IsGeneric(ft) {
		result = c.typeString(c.Table.Result(ft))
	}
	c.reportMismatch(fmt.Sprintf("'%s' expects an invocation of type '%s' but an invocation of type '%s' is given",
		exprString(e.Callee), c.typeString(ft), c.invocationString(args, result)), e.Callee.Span())
}

// invocationString renders a call as the function type it would need,
// e.g. "fn(int, bool) -> int".
func (c *Checker) invocationString(args []Type, result string) string {
	var sb strings.Builder
	sb.WriteString("fn(")
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.typeString(a))
	}
	sb.WriteString(") -> ")
	sb.WriteString(result)
	return sb.String()
}

// compatible reports whether a and b are equal, treating the error type as
// compatible with everything so one mistake is reported once.
func (c *Checker) compatible(a, b Type) bool {
	if c.Table.IsError(a) || c.Table.IsError(b) {
		return true
	}
	return c.Table.Equal(a, b)
}

// pick selects the result of a binary operation: the left type unless it
// is the error type.
func (c *Checker) pick(left, right Type) Type {
	if !c.Table.IsError(left) {
		return left
	}
	return right
}

func exprString(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Ident:
		return e.Name.String()
	case *ast.CallExpr:
		return exprString(e.Callee) + "(...)"
	default:
		return "expression"
	}
}
