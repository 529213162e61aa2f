package ast

import "github.com/malphas-lang/sema/internal/lexer"

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl represents a top-level declaration.
type Decl interface {
	Node
	declNode()
}

// TypeExpr represents a type annotation expression.
type TypeExpr interface {
	Node
	typeNode()
}

// LoopStmt is a statement that break and continue may refer to.
type LoopStmt interface {
	Stmt
	loopNode()
}

// File represents a parsed compilation unit.
type File struct {
	Decls []Decl
	span  lexer.Span
}

// Span returns the span covering the entire file.
func (f *File) Span() lexer.Span { return f.span }

// NewFile constructs a file node with the provided span.
func NewFile(decls []Decl, span lexer.Span) *File {
	return &File{Decls: decls, span: span}
}

// Funcs returns the function declarations of the file in source order.
func (f *File) Funcs() []*FnDecl {
	var fns []*FnDecl
	for _, d := range f.Decls {
		if fn, ok := d.(*FnDecl); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

// TraitDecl declares a named trait.
type TraitDecl struct {
	Name *Ident
	span lexer.Span
}

// Span returns the declaration span.
func (d *TraitDecl) Span() lexer.Span { return d.span }

// NewTraitDecl constructs a trait declaration node.
func NewTraitDecl(name *Ident, span lexer.Span) *TraitDecl {
	return &TraitDecl{Name: name, span: span}
}

func (*TraitDecl) declNode() {}

// ImplDecl records that a concrete type implements a trait.
type ImplDecl struct {
	Trait *Ident
	Type  TypeExpr
	span  lexer.Span
}

// Span returns the declaration span.
func (d *ImplDecl) Span() lexer.Span { return d.span }

// NewImplDecl constructs an impl declaration node.
func NewImplDecl(trait *Ident, typ TypeExpr, span lexer.Span) *ImplDecl {
	return &ImplDecl{Trait: trait, Type: typ, span: span}
}

func (*ImplDecl) declNode() {}

// FnDecl represents a function declaration.
type FnDecl struct {
	Name       *Ident
	TypeParams []*TypeParam
	Params     []*Param
	ReturnType TypeExpr // nil means void
	Body       *BlockStmt
	span       lexer.Span
}

// Span returns the declaration span.
func (d *FnDecl) Span() lexer.Span { return d.span }

// NewFnDecl constructs a function declaration node.
func NewFnDecl(name *Ident, typeParams []*TypeParam, params []*Param, returnType TypeExpr, body *BlockStmt, span lexer.Span) *FnDecl {
	return &FnDecl{
		Name:       name,
		TypeParams: typeParams,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
		span:       span,
	}
}

// declNode marks FnDecl as a declaration.
func (*FnDecl) declNode() {}

// TypeParam represents a generic type parameter with its trait bounds.
type TypeParam struct {
	Name   *Ident
	Bounds []*Ident
	span   lexer.Span
}

// Span returns the type parameter span.
func (p *TypeParam) Span() lexer.Span { return p.span }

// NewTypeParam constructs a type parameter node.
func NewTypeParam(name *Ident, bounds []*Ident, span lexer.Span) *TypeParam {
	return &TypeParam{Name: name, Bounds: bounds, span: span}
}

// Param represents a function parameter.
type Param struct {
	Name *Ident
	Type TypeExpr
	span lexer.Span
}

// Span returns the parameter span.
func (p *Param) Span() lexer.Span { return p.span }

// NewParam constructs a parameter node.
func NewParam(name *Ident, typ TypeExpr, span lexer.Span) *Param {
	return &Param{Name: name, Type: typ, span: span}
}

// Statements

// BlockStmt represents a braced sequence of statements that opens a scope.
type BlockStmt struct {
	Stmts []Stmt
	span  lexer.Span
}

// Span returns the block span.
func (b *BlockStmt) Span() lexer.Span { return b.span }

// NewBlockStmt constructs a block statement node.
func NewBlockStmt(stmts []Stmt, span lexer.Span) *BlockStmt {
	return &BlockStmt{Stmts: stmts, span: span}
}

func (*BlockStmt) stmtNode() {}

// LetStmt represents a local declaration with an optional initializer.
type LetStmt struct {
	Name  *Ident
	Type  TypeExpr // nil when inferred from Value
	Value Expr     // nil when uninitialized
	span  lexer.Span
}

// Span returns the statement span.
func (s *LetStmt) Span() lexer.Span { return s.span }

// NewLetStmt constructs a let statement node.
func NewLetStmt(name *Ident, typ TypeExpr, value Expr, span lexer.Span) *LetStmt {
	return &LetStmt{Name: name, Type: typ, Value: value, span: span}
}

func (*LetStmt) stmtNode() {}

// ExprStmt represents an expression statement.
type ExprStmt struct {
	Expr Expr
	span lexer.Span
}

// Span returns the statement span.
func (s *ExprStmt) Span() lexer.Span { return s.span }

// NewExprStmt constructs an expression statement node.
func NewExprStmt(expr Expr, span lexer.Span) *ExprStmt {
	return &ExprStmt{Expr: expr, span: span}
}

func (*ExprStmt) stmtNode() {}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	Value Expr // nil for a bare return
	span  lexer.Span
}

// Span returns the statement span.
func (s *ReturnStmt) Span() lexer.Span { return s.span }

// NewReturnStmt constructs a return statement node.
func NewReturnStmt(value Expr, span lexer.Span) *ReturnStmt {
	return &ReturnStmt{Value: value, span: span}
}

func (*ReturnStmt) stmtNode() {}

// IfStmt represents a conditional with an optional else branch.
type IfStmt struct {
	Cond Expr
	Then *BlockStmt
	Else Stmt // *BlockStmt, *IfStmt or nil
	span lexer.Span
}

// Span returns the statement span.
func (s *IfStmt) Span() lexer.Span { return s.span }

// NewIfStmt constructs an if statement node.
func NewIfStmt(cond Expr, then *BlockStmt, els Stmt, span lexer.Span) *IfStmt {
	return &IfStmt{Cond: cond, Then: then, Else: els, span: span}
}

func (*IfStmt) stmtNode() {}

// WhileStmt represents a pre-tested loop.
type WhileStmt struct {
	Cond Expr
	Body *BlockStmt
	span lexer.Span
}

// Span returns the statement span.
func (s *WhileStmt) Span() lexer.Span { return s.span }

// NewWhileStmt constructs a while loop node.
func NewWhileStmt(cond Expr, body *BlockStmt, span lexer.Span) *WhileStmt {
	return &WhileStmt{Cond: cond, Body: body, span: span}
}

func (*WhileStmt) stmtNode() {}
func (*WhileStmt) loopNode() {}

// DoWhileStmt represents a post-tested loop.
type DoWhileStmt struct {
	Body *BlockStmt
	Cond Expr
	span lexer.Span
}

// Span returns the statement span.
func (s *DoWhileStmt) Span() lexer.Span { return s.span }

// NewDoWhileStmt constructs a do-while loop node.
func NewDoWhileStmt(body *BlockStmt, cond Expr, span lexer.Span) *DoWhileStmt {
	return &DoWhileStmt{Body: body, Cond: cond, span: span}
}

func (*DoWhileStmt) stmtNode() {}
func (*DoWhileStmt) loopNode() {}

// ForStmt represents a C-style loop. Init, Cond and Step are optional.
type ForStmt struct {
	Init Stmt // *LetStmt, *ExprStmt or nil
	Cond Expr
	Step Expr
	Body *BlockStmt
	span lexer.Span
}

// Span returns the statement span.
func (s *ForStmt) Span() lexer.Span { return s.span }

// NewForStmt constructs a for loop node.
func NewForStmt(init Stmt, cond, step Expr, body *BlockStmt, span lexer.Span) *ForStmt {
	return &ForStmt{Init: init, Cond: cond, Step: step, Body: body, span: span}
}

func (*ForStmt) stmtNode() {}
func (*ForStmt) loopNode() {}

// BreakStmt leaves the innermost loop. Loop is resolved by the parser and is
// nil when the statement does not appear inside a loop.
type BreakStmt struct {
	Loop LoopStmt
	span lexer.Span
}

// Span returns the statement span.
func (s *BreakStmt) Span() lexer.Span { return s.span }

// NewBreakStmt constructs a break statement node.
func NewBreakStmt(loop LoopStmt, span lexer.Span) *BreakStmt {
	return &BreakStmt{Loop: loop, span: span}
}

func (*BreakStmt) stmtNode() {}

// ContinueStmt jumps to the next iteration of the innermost loop.
type ContinueStmt struct {
	Loop LoopStmt
	span lexer.Span
}

// Span returns the statement span.
func (s *ContinueStmt) Span() lexer.Span { return s.span }

// NewContinueStmt constructs a continue statement node.
func NewContinueStmt(loop LoopStmt, span lexer.Span) *ContinueStmt {
	return &ContinueStmt{Loop: loop, span: span}
}

func (*ContinueStmt) stmtNode() {}

// Expressions

// EmptyExpr stands in for an omitted expression.
type EmptyExpr struct {
	span lexer.Span
}

// Span returns the expression span.
func (e *EmptyExpr) Span() lexer.Span { return e.span }

// NewEmptyExpr constructs an empty expression node.
func NewEmptyExpr(span lexer.Span) *EmptyExpr {
	return &EmptyExpr{span: span}
}

func (*EmptyExpr) exprNode() {}

// Ident represents an identifier.
type Ident struct {
	Name Symbol
	span lexer.Span
}

// Span returns the identifier span.
func (i *Ident) Span() lexer.Span { return i.span }

// exprNode marks Ident as an expression.
func (*Ident) exprNode() {}

// NewIdent constructs an identifier node.
func NewIdent(name string, span lexer.Span) *Ident {
	return &Ident{
		Name: NewSymbol(name),
		span: span,
	}
}

// IntegerLit represents an integer literal. Kind names the primitive type of
// the literal; empty means int.
type IntegerLit struct {
	Text string
	Kind string
	span lexer.Span
}

// Span returns the literal span.
func (l *IntegerLit) Span() lexer.Span { return l.span }

// NewIntegerLit constructs an integer literal node.
func NewIntegerLit(text string, span lexer.Span) *IntegerLit {
	return &IntegerLit{
		Text: text,
		span: span,
	}
}

// exprNode marks IntegerLit as an expression.
func (*IntegerLit) exprNode() {}

// FloatLit represents a floating point literal. Kind empty means float.
type FloatLit struct {
	Text string
	Kind string
	span lexer.Span
}

// Span returns the literal span.
func (l *FloatLit) Span() lexer.Span { return l.span }

// NewFloatLit constructs a float literal node.
func NewFloatLit(text string, span lexer.Span) *FloatLit {
	return &FloatLit{Text: text, span: span}
}

func (*FloatLit) exprNode() {}

// BoolLit represents true or false.
type BoolLit struct {
	Value bool
	span  lexer.Span
}

// Span returns the literal span.
func (l *BoolLit) Span() lexer.Span { return l.span }

// NewBoolLit constructs a boolean literal node.
func NewBoolLit(value bool, span lexer.Span) *BoolLit {
	return &BoolLit{Value: value, span: span}
}

func (*BoolLit) exprNode() {}

// StringLit represents a string literal.
type StringLit struct {
	Value string
	span  lexer.Span
}

// Span returns the literal span.
func (l *StringLit) Span() lexer.Span { return l.span }

// NewStringLit constructs a string literal node.
func NewStringLit(value string, span lexer.Span) *StringLit {
	return &StringLit{Value: value, span: span}
}

func (*StringLit) exprNode() {}

// PrefixExpr represents a prefix expression.
type PrefixExpr struct {
	Op   lexer.TokenType
	Expr Expr
	span lexer.Span
}

// Span returns the expression span.
func (e *PrefixExpr) Span() lexer.Span { return e.span }

// NewPrefixExpr constructs a prefix expression node.
func NewPrefixExpr(op lexer.TokenType, expr Expr, span lexer.Span) *PrefixExpr {
	return &PrefixExpr{Op: op, Expr: expr, span: span}
}

// exprNode marks PrefixExpr as an expression.
func (*PrefixExpr) exprNode() {}

// PostfixExpr represents expr++ and expr--.
type PostfixExpr struct {
	Op   lexer.TokenType
	Expr Expr
	span lexer.Span
}

// Span returns the expression span.
func (e *PostfixExpr) Span() lexer.Span { return e.span }

// NewPostfixExpr constructs a postfix expression node.
func NewPostfixExpr(op lexer.TokenType, expr Expr, span lexer.Span) *PostfixExpr {
	return &PostfixExpr{Op: op, Expr: expr, span: span}
}

func (*PostfixExpr) exprNode() {}

// InfixExpr represents an infix binary expression, assignments included.
type InfixExpr struct {
	Op    lexer.TokenType
	Left  Expr
	Right Expr
	span  lexer.Span
}

// Span returns the expression span.
func (e *InfixExpr) Span() lexer.Span { return e.span }

// NewInfixExpr constructs a binary expression node.
func NewInfixExpr(op lexer.TokenType, left, right Expr, span lexer.Span) *InfixExpr {
	return &InfixExpr{
		Op:    op,
		Left:  left,
		Right: right,
		span:  span,
	}
}

// exprNode marks InfixExpr as an expression.
func (*InfixExpr) exprNode() {}

// CallExpr represents a function call.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	span   lexer.Span
}

// Span returns the expression span.
func (e *CallExpr) Span() lexer.Span { return e.span }

// NewCallExpr constructs a call expression node.
func NewCallExpr(callee Expr, args []Expr, span lexer.Span) *CallExpr {
	return &CallExpr{Callee: callee, Args: args, span: span}
}

// exprNode marks CallExpr as an expression.
func (*CallExpr) exprNode() {}

// TupleExpr represents a parenthesized list of expressions.
type TupleExpr struct {
	Elems []Expr
	span  lexer.Span
}

// Span returns the expression span.
func (e *TupleExpr) Span() lexer.Span { return e.span }

// NewTupleExpr constructs a tuple expression node.
func NewTupleExpr(elems []Expr, span lexer.Span) *TupleExpr {
	return &TupleExpr{Elems: elems, span: span}
}

func (*TupleExpr) exprNode() {}

// Type expressions

// NamedType represents a named type reference: a primitive or a type parameter.
type NamedType struct {
	Name *Ident
	span lexer.Span
}

// Span returns the type span.
func (t *NamedType) Span() lexer.Span { return t.span }

// NewNamedType constructs a named type node.
func NewNamedType(name *Ident, span lexer.Span) *NamedType {
	return &NamedType{Name: name, span: span}
}

// typeNode marks NamedType as a type expression.
func (*NamedType) typeNode() {}

// FunctionType represents fn(params) -> return.
type FunctionType struct {
	Params []TypeExpr
	Return TypeExpr // nil means void
	span   lexer.Span
}

// Span returns the type span.
func (t *FunctionType) Span() lexer.Span { return t.span }

// NewFunctionType constructs a function type node.
func NewFunctionType(params []TypeExpr, ret TypeExpr, span lexer.Span) *FunctionType {
	return &FunctionType{Params: params, Return: ret, span: span}
}

func (*FunctionType) typeNode() {}

// TupleType represents (T1, T2, ...).
type TupleType struct {
	Elems []TypeExpr
	span  lexer.Span
}

// Span returns the type span.
func (t *TupleType) Span() lexer.Span { return t.span }

// NewTupleType constructs a tuple type node.
func NewTupleType(elems []TypeExpr, span lexer.Span) *TupleType {
	return &TupleType{Elems: elems, span: span}
}

func (*TupleType) typeNode() {}
