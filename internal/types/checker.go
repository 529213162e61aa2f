package types

import (
	"log"

	set "github.com/hashicorp/go-set/v3"

	"github.com/malphas-lang/sema/internal/ast"
	"github.com/malphas-lang/sema/internal/diag"
)

// Options tune checker behavior that is not fixed by the language rules.
type Options struct {
	// WarnShadowing reports a warning when a declaration hides an outer one.
	WarnShadowing bool
	// StrictPrefixLvalue makes prefix expressions non-addressable.
	StrictPrefixLvalue bool
}

// Checker performs type checking on the AST.
//
// A Checker checks exactly one file; Check closes its resolver.
type Checker struct {
	Table   *Table
	Scopes  *Resolver
	Options Options
	Trace   *log.Logger // optional
	Errors  []diag.Diagnostic
	Info    *Info

	ok     bool
	sigs   map[*ast.FnDecl]*signature
	traits map[ast.Symbol]*ast.TraitDecl
	impls  *set.Set[implKey] // impls declared by this file
	fn     *signature // function whose body is being checked
}

// signature is the resolved type of a function declaration together with
// the type variables its body may refer to.
type signature struct {
	decl       *Decl
	typ        Type
	typeParams map[ast.Symbol]Type
}

type implKey struct {
	typ   Type
	trait *Trait
}

// Result is the outcome of checking one file.
type Result struct {
	OK          bool
	Diagnostics []diag.Diagnostic
	Info        *Info
}

// NewChecker creates a new type checker with a fresh type table.
func NewChecker() *Checker {
	return NewCheckerWithTable(NewTable())
}

// NewCheckerWithTable creates a checker that interns into tb. Several
// checkers may share a table as long as they run one after another; traits
// and impls registered by an earlier run stay visible to later ones.
func NewCheckerWithTable(tb *Table) *Checker {
	return &Checker{
		Table:  tb,
		Scopes: NewResolver(),
		Errors: []diag.Diagnostic{},
		Info:   NewInfo(),
		ok:     true,
		sigs:   make(map[*ast.FnDecl]*signature),
		traits: make(map[ast.Symbol]*ast.TraitDecl),
		impls:  set.New[implKey](0),
	}
}

// Check validates the types in the given file. User errors are reported
// through the result; the returned error is non-nil only when an internal
// invariant broke, in which case the result is nil.
func (c *Checker) Check(file *ast.File) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			res, err = nil, ie
		}
	}()

	// Pass 1: Collect declarations
	c.collectDecls(file)

	// Pass 2: Check bodies
	c.checkBodies(file)

	// Pass 3: Global sanity of every signature
	c.checkSanity(file)

	c.Scopes.Close()
	if verr := c.Table.Verify(); verr != nil {
		return nil, &InternalError{err: verr}
	}

	return &Result{OK: c.ok, Diagnostics: c.Errors, Info: c.Info}, nil
}

// OK reports whether no error has been reported so far.
func (c *Checker) OK() bool { return c.ok }

func (c *Checker) tracef(format string, args ...any) {
	if c.Trace != nil {
		c.Trace.Printf("%*s"+format, append([]any{2 * (c.Scopes.Depth() - 1), ""}, args...)...)
	}
}

func (c *Checker) pushScope() {
	c.Scopes.PushScope()
	c.tracef("enter scope %d", c.Scopes.Depth())
}

func (c *Checker) popScope() {
	c.tracef("leave scope %d", c.Scopes.Depth())
	c.Scopes.PopScope()
}
