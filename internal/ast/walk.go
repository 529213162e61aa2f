package ast

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		for _, decl := range n.Decls {
			Walk(decl, fn)
		}

	case *TraitDecl:
		walkIdent(n.Name, fn)

	case *ImplDecl:
		walkIdent(n.Trait, fn)
		walkType(n.Type, fn)

	case *FnDecl:
		walkIdent(n.Name, fn)
		for _, tp := range n.TypeParams {
			Walk(tp, fn)
		}
		for _, param := range n.Params {
			Walk(param, fn)
		}
		walkType(n.ReturnType, fn)
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *TypeParam:
		walkIdent(n.Name, fn)
		for _, b := range n.Bounds {
			walkIdent(b, fn)
		}

	case *Param:
		walkIdent(n.Name, fn)
		walkType(n.Type, fn)

	case *BlockStmt:
		for _, stmt := range n.Stmts {
			Walk(stmt, fn)
		}

	case *LetStmt:
		walkIdent(n.Name, fn)
		walkType(n.Type, fn)
		walkExpr(n.Value, fn)

	case *ExprStmt:
		walkExpr(n.Expr, fn)

	case *ReturnStmt:
		walkExpr(n.Value, fn)

	case *IfStmt:
		walkExpr(n.Cond, fn)
		if n.Then != nil {
			Walk(n.Then, fn)
		}
		if n.Else != nil {
			Walk(n.Else, fn)
		}

	case *WhileStmt:
		walkExpr(n.Cond, fn)
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *DoWhileStmt:
		if n.Body != nil {
			Walk(n.Body, fn)
		}
		walkExpr(n.Cond, fn)

	case *ForStmt:
		if n.Init != nil {
			Walk(n.Init, fn)
		}
		walkExpr(n.Cond, fn)
		walkExpr(n.Step, fn)
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *PrefixExpr:
		walkExpr(n.Expr, fn)

	case *PostfixExpr:
		walkExpr(n.Expr, fn)

	case *InfixExpr:
		walkExpr(n.Left, fn)
		walkExpr(n.Right, fn)

	case *CallExpr:
		walkExpr(n.Callee, fn)
		for _, arg := range n.Args {
			walkExpr(arg, fn)
		}

	case *TupleExpr:
		for _, elem := range n.Elems {
			walkExpr(elem, fn)
		}

	case *FunctionType:
		for _, p := range n.Params {
			walkType(p, fn)
		}
		walkType(n.Return, fn)

	case *TupleType:
		for _, elem := range n.Elems {
			walkType(elem, fn)
		}

	case *NamedType:
		walkIdent(n.Name, fn)
	}
}

// Inspect calls fn for every expression in value position reachable from
// node. Identifiers that name a declaration and everything inside type
// annotations are skipped.
func Inspect(node Node, fn func(Expr)) {
	binding := make(map[*Ident]bool)
	Walk(node, func(n Node) bool {
		switch n := n.(type) {
		case TypeExpr, *TypeParam:
			return false
		case *TraitDecl:
			return false
		case *ImplDecl:
			return false
		case *FnDecl:
			binding[n.Name] = true
		case *Param:
			binding[n.Name] = true
		case *LetStmt:
			binding[n.Name] = true
		case *Ident:
			if binding[n] {
				return true
			}
		}
		if e, ok := n.(Expr); ok {
			fn(e)
		}
		return true
	})
}

// The helpers below keep typed nil pointers out of the Node interface.

func walkIdent(id *Ident, fn func(Node) bool) {
	if id != nil {
		Walk(id, fn)
	}
}

func walkExpr(e Expr, fn func(Node) bool) {
	if e != nil {
		Walk(e, fn)
	}
}

func walkType(t TypeExpr, fn func(Node) bool) {
	if t != nil {
		Walk(t, fn)
	}
}
