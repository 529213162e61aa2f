package types

import (
	"fmt"

	"github.com/malphas-lang/sema/internal/ast"
	"github.com/malphas-lang/sema/internal/diag"
)

func (c *Checker) checkBlock(block *ast.BlockStmt) bool {
	if block == nil {
		return true
	}
	c.pushScope()
	ok := true
	for _, stmt := range block.Stmts {
		if !c.checkStmt(stmt) {
			ok = false
		}
	}
	c.popScope()
	return ok
}

// checkStmt checks one statement and reports whether it passed. Nested
// statements are checked even when an enclosing condition failed.
func (c *Checker) checkStmt(stmt ast.Stmt) bool {
	before := len(c.Errors)
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		c.checkBlock(s)

	case *ast.LetStmt:
		c.checkLet(s)

	case *ast.ExprStmt:
		c.checkExpr(s.Expr)

	case *ast.ReturnStmt:
		c.checkReturn(s)

	case *ast.IfStmt:
		c.checkCond(s.Cond)
		c.checkBlock(s.Then)
		if s.Else != nil {
			c.checkStmt(s.Else)
		}

	case *ast.WhileStmt:
		c.checkCond(s.Cond)
		c.checkBlock(s.Body)

	case *ast.DoWhileStmt:
		c.checkBlock(s.Body)
		c.checkCond(s.Cond)

	case *ast.ForStmt:
		// The init declaration is scoped to the loop
		c.pushScope()
		if s.Init != nil {
			c.checkStmt(s.Init)
		}
		if s.Cond != nil {
			c.checkCond(s.Cond)
		}
		if s.Step != nil {
			c.checkExpr(s.Step)
		}
		c.checkBlock(s.Body)
		c.popScope()

	case *ast.BreakStmt:
		if s.Loop == nil {
			c.reportError(diag.CodeTypeLoopControlOutside, "break statement not within a loop", s.Span())
		}

	case *ast.ContinueStmt:
		if s.Loop == nil {
			c.reportError(diag.CodeTypeLoopControlOutside, "continue statement not within a loop", s.Span())
		}

	default:
		defect("unexpected statement %T", stmt)
	}
	return !hasErrorSince(c.Errors, before)
}

func hasErrorSince(ds []diag.Diagnostic, before int) bool {
	return diag.HasErrors(ds[before:])
}

// checkLet checks the initializer before the name is bound, so the
// initializer cannot refer to the declaration it initializes.
func (c *Checker) checkLet(s *ast.LetStmt) {
	var initType Type
	if s.Value != nil {
		initType = c.checkExpr(s.Value)
	}

	var declType Type
	switch {
	case s.Type != nil:
		declType = c.resolveType(s.Type, c.typeParams())
		if s.Value != nil && !c.compatible(declType, initType) {
			c.reportMismatch(fmt.Sprintf("cannot initialize '%s' of type '%s' with a value of type '%s'",
				s.Name.Name, c.typeString(declType), c.typeString(initType)), s.Value.Span())
		}
	case s.Value != nil:
		declType = initType
	default:
		c.reportError(diag.CodeTypeUnknownType,
			fmt.Sprintf("cannot infer the type of '%s' without an initializer", s.Name.Name), s.Name.Span())
		declType = c.Table.ErrorType()
	}

	c.declare(&Decl{
		Name: s.Name.Name,
		Type: declType,
		Kind: DeclLocal,
		Span: s.Name.Span(),
		Node: s,
	}, s.Name)
}

// checkReturn requires the returned type to equal the declared result
// type. A bare return has type void.
func (c *Checker) checkReturn(s *ast.ReturnStmt) {
	if c.fn == nil {
		defect("return statement outside of a function body")
	}
	want := c.Table.Result(c.fn.typ)
	if s.Value == nil {
		if !c.Table.IsPrimitive(want, Void) && !c.Table.IsError(want) {
			c.reportMismatch(fmt.Sprintf("expected return type '%s' but the return statement has no value",
				c.typeString(want)), s.Span())
		}
		return
	}
	got := c.checkExpr(s.Value)
	if !c.compatible(want, got) {
		c.reportMismatch(fmt.Sprintf("expected return type '%s' but return expression is of type '%s'",
			c.typeString(want), c.typeString(got)), s.Value.Span())
	}
}

// checkCond requires cond to have type bool.
func (c *Checker) checkCond(cond ast.Expr) bool {
	t := c.checkExpr(cond)
	if c.Table.IsError(t) {
		return false
	}
	if !c.Table.IsPrimitive(c.Table.Find(t), Bool) {
		c.reportError(diag.CodeTypeConditionNotBool,
			fmt.Sprintf("condition not a bool: found '%s'", c.typeString(t)), cond.Span())
		return false
	}
	return true
}

func (c *Checker) typeParams() map[ast.Symbol]Type {
	if c.fn == nil {
		return nil
	}
	return c.fn.typeParams
}
