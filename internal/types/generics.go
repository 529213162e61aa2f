package types

import (
	"slices"

	"github.com/pkg/errors"
)

// NewVar allocates a fresh, unbound type variable. The id only serves
// diagnostics; equality never looks at it.
func (tb *Table) NewVar() Type {
	t := tb.newRecord(KindVar)
	r := tb.recs[t]
	r.id = tb.nextVar
	r.bounds = newTraitSet()
	tb.nextVar++
	return t
}

// NewNamedVar allocates a fresh variable that prints as name. Like the
// id, the name plays no part in equality.
func (tb *Table) NewNamedVar(name string) Type {
	t := tb.NewVar()
	tb.recs[t].name = name
	return t
}

// VarID returns the debug id of a type variable.
func (tb *Table) VarID(v Type) int {
	return tb.variable(v).id
}

// Binder returns the construct that binds v, or NoType.
func (tb *Table) Binder(v Type) Type {
	return tb.variable(v).binder
}

func (tb *Table) variable(v Type) *record {
	r := tb.rec(v)
	if r.kind != KindVar {
		defect("%s is not a type variable", tb.String(v))
	}
	return r
}

// Bind makes owner the binding site of v and appends v to owner's bound
// variables. A variable can be bound exactly once, and only to a tentative
// function or tuple node.
func (tb *Table) Bind(owner, v Type) {
	rv := tb.variable(v)
	if rv.binder != NoType {
		defect("type variable %s is already bound", tb.String(v))
	}
	ro := tb.rec(owner)
	if ro.kind != KindFunction && ro.kind != KindTuple {
		defect("cannot bind type variables to %s type", ro.kind)
	}
	if ro.unified {
		defect("cannot bind type variables to canonical type %s", tb.String(owner))
	}
	rv.binder = owner
	ro.bound = append(ro.bound, v)
}

// AddBound restricts v to types implementing tr.
func (tb *Table) AddBound(v Type, tr *Trait) {
	rv := tb.variable(v)
	if tr == nil {
		defect("nil trait bound on %s", tb.String(v))
	}
	if rv.unified {
		defect("cannot restrict canonical type variable %s", tb.String(v))
	}
	rv.bounds.Insert(tr)
}

// Bounds returns the traits restricting v, ordered by registration.
func (tb *Table) Bounds(v Type) []*Trait {
	return tb.variable(tb.Find(v)).bounds.Slice()
}

// IsClosed reports whether every variable reachable from t is bound.
func (tb *Table) IsClosed(t Type) bool {
	r := tb.rec(t)
	switch r.kind {
	case KindVar:
		return r.binder != NoType
	case KindFunction, KindTuple:
		for _, op := range r.operands {
			if !tb.IsClosed(op) {
				return false
			}
		}
	}
	return true
}

// IsSane reports whether every variable reachable from t is bound by a
// construct enclosing it and is restricted only by traits registered in
// the table. Sanity implies closedness.
func (tb *Table) IsSane(t Type) bool {
	return tb.sane(t, nil)
}

func (tb *Table) sane(t Type, enclosing []Type) bool {
	t = tb.Find(t)
	r := tb.recs[t]
	switch r.kind {
	case KindVar:
		if r.binder == NoType || !slices.Contains(enclosing, tb.Find(r.binder)) {
			return false
		}
		for _, tr := range r.bounds.Slice() {
			if !tb.registered(tr) {
				return false
			}
		}
		return true
	case KindFunction, KindTuple:
		if len(r.bound) > 0 {
			enclosing = append(enclosing, t)
			for _, v := range r.bound {
				if !tb.sane(v, enclosing) {
					return false
				}
			}
		}
		for _, op := range r.operands {
			if !tb.sane(op, enclosing) {
				return false
			}
		}
		return true
	case KindError, KindPrimitive:
		return true
	}
	return false
}

// Specialize copies t, replacing variables according to subst. Bound
// variables of nested constructs that subst does not mention are replaced
// by fresh clones bound to the copy. The result is tentative; subst is not
// modified.
func (tb *Table) Specialize(t Type, subst map[Type]Type) Type {
	s := make(map[Type]Type, len(subst))
	for v, to := range subst {
		s[tb.Find(v)] = to
	}
	return tb.specialize(t, s)
}

func (tb *Table) specialize(t Type, subst map[Type]Type) Type {
	t = tb.Find(t)
	r := tb.recs[t]
	switch r.kind {
	case KindVar:
		if to, ok := subst[t]; ok {
			return to
		}
		return t
	case KindFunction, KindTuple:
		n := tb.newRecord(r.kind)
		for _, v := range r.bound {
			v = tb.Find(v)
			if _, ok := subst[v]; ok {
				continue
			}
			clone := tb.NewNamedVar(tb.recs[v].name)
			tb.recs[clone].bounds.InsertSet(tb.recs[v].bounds)
			tb.Bind(n, clone)
			subst[v] = clone
		}
		ops := make([]Type, len(r.operands))
		for i, op := range r.operands {
			ops[i] = tb.specialize(op, subst)
		}
		tb.recs[n].operands = ops
		return n
	default:
		return t
	}
}

// Instantiate substitutes args for the bound variables of t, in
// declaration order, and interns the result.
func (tb *Table) Instantiate(t Type, args []Type) Type {
	vars := tb.rec(tb.Find(t)).bound
	if len(args) != len(vars) {
		defect("instantiating %s with %d arguments, want %d", tb.String(t), len(args), len(vars))
	}
	subst := make(map[Type]Type, len(vars))
	for i, v := range vars {
		subst[v] = args[i]
	}
	return tb.Intern(tb.Specialize(t, subst))
}

// CheckBounds reports the first argument that does not implement a trait
// restricting the variable it would replace.
func (tb *Table) CheckBounds(t Type, args []Type) error {
	vars := tb.rec(tb.Find(t)).bound
	for i, v := range vars {
		if i >= len(args) {
			break
		}
		for _, tr := range tb.Bounds(v) {
			if !tb.Implements(args[i], tr) {
				return errors.Errorf("type '%s' does not implement trait '%s' required by %s",
					tb.String(args[i]), tr.name, tb.varName(v))
			}
		}
	}
	return nil
}

// Match infers the arguments of the generic function type fn from the
// types of call arguments. It returns false when the argument count
// differs, when an argument does not fit its parameter, or when a bound
// variable is left undetermined.
func (tb *Table) Match(fn Type, argTypes []Type) ([]Type, bool) {
	fn = tb.Find(fn)
	params := tb.Params(fn)
	if len(params) != len(argTypes) {
		return nil, false
	}
	vars := tb.recs[fn].bound
	subst := make(map[Type]Type, len(vars))
	for _, v := range vars {
		subst[tb.Find(v)] = NoType
	}
	for i, p := range params {
		if !tb.match(p, argTypes[i], subst) {
			return nil, false
		}
	}
	result := make([]Type, len(vars))
	for i, v := range vars {
		inferred := subst[tb.Find(v)]
		if inferred == NoType {
			return nil, false
		}
		result[i] = inferred
	}
	return result, true
}

func (tb *Table) match(p, a Type, subst map[Type]Type) bool {
	p, a = tb.Find(p), tb.Find(a)
	if prev, ok := subst[p]; ok {
		if prev == NoType {
			subst[p] = a
			return true
		}
		return tb.Equal(prev, a)
	}
	rp, ra := tb.recs[p], tb.recs[a]
	if len(rp.bound) > 0 || len(ra.bound) > 0 || !tb.mentions(p, subst) {
		return tb.Equal(p, a)
	}
	if rp.kind != ra.kind || len(rp.operands) != len(ra.operands) {
		return false
	}
	for i := range rp.operands {
		if !tb.match(rp.operands[i], ra.operands[i], subst) {
			return false
		}
	}
	return true
}

// mentions reports whether any key of vars is reachable from t.
func (tb *Table) mentions(t Type, vars map[Type]Type) bool {
	t = tb.Find(t)
	if _, ok := vars[t]; ok {
		return true
	}
	for _, op := range tb.recs[t].operands {
		if tb.mentions(op, vars) {
			return true
		}
	}
	return false
}
