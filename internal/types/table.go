package types

import (
	set "github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"
)

// record is the storage behind a Type handle. Every variant shares the same
// layout; fields that do not apply to a kind stay zero.
type record struct {
	kind     Kind
	prim     PrimKind
	operands []Type // function: params then result
	bound    []Type // variables bound by this node, in declaration order

	rep     Type // representative, self until merged
	unified bool // canonical, or merged into a canonical node

	// type variables
	id     int
	name   string // declared name, display only
	bounds *set.TreeSet[*Trait]
	binder Type

	impls *set.Set[*Trait]

	hash   uint64
	hashed bool
}

// Table owns every type node of a run. Closed types are interned so that
// structurally equal closed types share one canonical node.
//
// A Table is not safe for concurrent use.
type Table struct {
	recs    []*record
	canon   map[uint64][]Type
	prims   [numPrims]Type
	errType Type
	nextVar int

	traits    map[string]*Trait
	traitList []*Trait
}

// NewTable creates a table with the error type and every primitive
// pre-registered as canonical singletons.
func NewTable() *Table {
	tb := &Table{
		recs:   []*record{nil}, // NoType
		canon:  make(map[uint64][]Type),
		traits: make(map[string]*Trait),
	}
	tb.errType = tb.Intern(tb.newRecord(KindError))
	for k := PrimKind(0); k < numPrims; k++ {
		t := tb.newRecord(KindPrimitive)
		tb.recs[t].prim = k
		tb.prims[k] = tb.Intern(t)
	}
	return tb
}

func (tb *Table) newRecord(kind Kind) Type {
	t := Type(len(tb.recs))
	tb.recs = append(tb.recs, &record{kind: kind, rep: t})
	return t
}

func (tb *Table) rec(t Type) *record {
	if t <= NoType || int(t) >= len(tb.recs) {
		defect("invalid type handle %d", t)
	}
	return tb.recs[t]
}

// Primitive returns the canonical primitive of kind k.
func (tb *Table) Primitive(k PrimKind) Type {
	if k >= numPrims {
		defect("invalid primitive kind %d", k)
	}
	return tb.prims[k]
}

// ErrorType returns the canonical error sentinel.
func (tb *Table) ErrorType() Type { return tb.errType }

// IsError reports whether t is the error sentinel.
func (tb *Table) IsError(t Type) bool {
	return tb.rec(t).kind == KindError
}

// IsPrimitive reports whether t is the primitive of kind k.
func (tb *Table) IsPrimitive(t Type, k PrimKind) bool {
	r := tb.rec(t)
	return r.kind == KindPrimitive && r.prim == k
}

// NewFunction builds a tentative function node. ret is the result type;
// NoType means void.
func (tb *Table) NewFunction(params []Type, ret Type) Type {
	if ret == NoType {
		ret = tb.prims[Void]
	}
	t := tb.newRecord(KindFunction)
	ops := make([]Type, 0, len(params)+1)
	ops = append(ops, params...)
	tb.recs[t].operands = append(ops, ret)
	return t
}

// NewTuple builds a tentative tuple node.
func (tb *Table) NewTuple(elems []Type) Type {
	t := tb.newRecord(KindTuple)
	tb.recs[t].operands = append([]Type(nil), elems...)
	return t
}

// Function builds and interns a function type.
func (tb *Table) Function(params []Type, ret Type) Type {
	return tb.Intern(tb.NewFunction(params, ret))
}

// Tuple builds and interns a tuple type.
func (tb *Table) Tuple(elems ...Type) Type {
	return tb.Intern(tb.NewTuple(elems))
}

// Kind returns the variant of t.
func (tb *Table) Kind(t Type) Kind { return tb.rec(t).kind }

// Prim returns the primitive kind of t; meaningless for other kinds.
func (tb *Table) Prim(t Type) PrimKind { return tb.rec(t).prim }

// Operands returns the operands of the representative of t.
func (tb *Table) Operands(t Type) []Type {
	return append([]Type(nil), tb.rec(tb.Find(t)).operands...)
}

// BoundVars returns the variables bound by the representative of t.
func (tb *Table) BoundVars(t Type) []Type {
	return append([]Type(nil), tb.rec(tb.Find(t)).bound...)
}

// Params returns the parameter types of a function type.
func (tb *Table) Params(t Type) []Type {
	r := tb.fn(t)
	return append([]Type(nil), r.operands[:len(r.operands)-1]...)
}

// Result returns the result type of a function type.
func (tb *Table) Result(t Type) Type {
	r := tb.fn(t)
	return r.operands[len(r.operands)-1]
}

func (tb *Table) fn(t Type) *record {
	r := tb.rec(tb.Find(t))
	if r.kind != KindFunction {
		defect("%s is not a function type", tb.String(t))
	}
	return r
}

// IsGeneric reports whether t binds type variables.
func (tb *Table) IsGeneric(t Type) bool {
	return len(tb.rec(tb.Find(t)).bound) > 0
}

// IsCanonical reports whether t has been interned.
func (tb *Table) IsCanonical(t Type) bool {
	return tb.rec(t).unified
}

// Find returns the representative of t, compressing the path behind it.
func (tb *Table) Find(t Type) Type {
	root := t
	for {
		next := tb.rec(root).rep
		if next == root {
			break
		}
		root = next
	}
	for t != root {
		r := tb.recs[t]
		t, r.rep = r.rep, root
	}
	return root
}

// Intern returns the canonical instance of t. Types that are not closed are
// returned unchanged because their identity is not settled yet.
func (tb *Table) Intern(t Type) Type {
	if !tb.IsClosed(t) {
		return t
	}
	return tb.intern(t)
}

func (tb *Table) intern(t Type) Type {
	r := tb.rec(t)
	if r.unified {
		return tb.Find(t)
	}
	if r.kind == KindVar {
		// variables are their own canonical instance and never enter the set
		r.unified = true
		return t
	}
	h := tb.hash(t)
	for _, c := range tb.canon[h] {
		if tb.Equal(t, c) {
			tb.changeRepr(t, c)
			return c
		}
	}
	return tb.insertNew(t, h)
}

// insertNew makes t canonical. Operands are interned first so that a
// canonical node only ever refers to canonical operands.
func (tb *Table) insertNew(t Type, h uint64) Type {
	r := tb.rec(t)
	for _, v := range r.bound {
		tb.rec(v).unified = true
	}
	for i, op := range r.operands {
		r.operands[i] = tb.intern(op)
	}
	for _, c := range tb.canon[h] {
		if tb.equal(t, c, &equalState{deep: true}) {
			defect("duplicate canonical type %s", tb.String(t))
		}
	}
	r.rep = t
	r.unified = true
	tb.canon[h] = append(tb.canon[h], t)
	return t
}

// changeRepr merges t into c. Bound variables and operands are aligned
// depth-first before t's own representative changes.
func (tb *Table) changeRepr(t, c Type) {
	t, c = tb.Find(t), tb.Find(c)
	if t == c {
		return
	}
	rt, rc := tb.rec(t), tb.rec(c)
	if rt.kind != rc.kind || len(rt.operands) != len(rc.operands) || len(rt.bound) != len(rc.bound) {
		defect("cannot merge %s into %s", tb.String(t), tb.String(c))
	}
	for i := range rt.bound {
		tb.changeRepr(rt.bound[i], rc.bound[i])
	}
	for i := range rt.operands {
		tb.changeRepr(rt.operands[i], rc.operands[i])
	}
	if rt.unified && rt.kind != KindVar {
		// two canonical nodes that only became equal through their binders
		tb.removeCanonical(t)
		if rt.impls != nil {
			if rc.impls == nil {
				rc.impls = set.New[*Trait](rt.impls.Size())
			}
			rc.impls.InsertSet(rt.impls)
		}
	}
	rt.rep = c
	rt.unified = true
}

func (tb *Table) removeCanonical(t Type) {
	h := tb.hash(t)
	bucket := tb.canon[h]
	for i, c := range bucket {
		if c == t {
			tb.canon[h] = append(bucket[:i:i], bucket[i+1:]...)
			return
		}
	}
}

type equalState struct {
	pairs map[Type]Type
	deep  bool
}

// Equal reports whether a and b denote the same type. Bound variables of
// corresponding generic constructs are paired while their operands are
// compared, which makes equality invariant under renaming of bound
// variables.
func (tb *Table) Equal(a, b Type) bool {
	return tb.equal(a, b, &equalState{})
}

func (tb *Table) equal(a, b Type, st *equalState) bool {
	a, b = tb.Find(a), tb.Find(b)
	if a == b {
		return true
	}
	ra, rb := tb.rec(a), tb.rec(b)
	if ra.kind == KindVar && rb.kind == KindVar {
		p, ok := st.pairs[a]
		return ok && p == b
	}
	if ra.unified && rb.unified && len(st.pairs) == 0 && !st.deep {
		return false
	}
	if ra.kind != rb.kind || ra.prim != rb.prim ||
		len(ra.operands) != len(rb.operands) || len(ra.bound) != len(rb.bound) {
		return false
	}
	if len(ra.bound) > 0 {
		if st.pairs == nil {
			st.pairs = make(map[Type]Type)
		}
		for i := range ra.bound {
			va, vb := tb.Find(ra.bound[i]), tb.Find(rb.bound[i])
			if !tb.recs[va].bounds.Equal(tb.recs[vb].bounds) {
				return false
			}
			st.pairs[va], st.pairs[vb] = vb, va
		}
		defer func() {
			for i := range ra.bound {
				delete(st.pairs, tb.Find(ra.bound[i]))
				delete(st.pairs, tb.Find(rb.bound[i]))
			}
		}()
	}
	for i := range ra.operands {
		if !tb.equal(ra.operands[i], rb.operands[i], st) {
			return false
		}
	}
	return true
}

func hashCombine(seed, v uint64) uint64 {
	return seed ^ (v + 0x9e3779b97f4a7c15 + seed<<6 + seed>>2)
}

// hash is invariant under renaming of bound variables: every variable
// hashes to its kind alone.
func (tb *Table) hash(t Type) uint64 {
	r := tb.rec(tb.Find(t))
	if r.hashed {
		return r.hash
	}
	h := hashCombine(0, uint64(r.kind))
	if r.kind != KindVar {
		h = hashCombine(h, uint64(r.prim))
		h = hashCombine(h, uint64(len(r.operands)))
		h = hashCombine(h, uint64(len(r.bound)))
		for _, op := range r.operands {
			h = hashCombine(h, tb.hash(op))
		}
	}
	r.hash, r.hashed = h, true
	return h
}

// Verify checks the canonical set: every member is its own representative,
// refers only to canonical operands, and no two members are equal.
func (tb *Table) Verify() error {
	for h, bucket := range tb.canon {
		for i, t := range bucket {
			r := tb.recs[t]
			if tb.Find(t) != t || !r.unified {
				return errors.Errorf("canonical type %s is not its own representative", tb.String(t))
			}
			if got := tb.hash(t); got != h {
				return errors.Errorf("canonical type %s filed under a stale hash", tb.String(t))
			}
			for _, op := range r.operands {
				if tb.Find(op) != op || !tb.recs[op].unified {
					return errors.Errorf("canonical type %s has tentative operand %s", tb.String(t), tb.String(op))
				}
			}
			for _, other := range bucket[i+1:] {
				if tb.equal(t, other, &equalState{deep: true}) {
					return errors.Errorf("canonical types %s and %s are equal", tb.String(t), tb.String(other))
				}
			}
		}
	}
	return nil
}

// Stats summarizes the contents of a table.
type Stats struct {
	Nodes     int
	Canonical int
	Vars      int
	Traits    int
}

// Stats returns counters for the table.
func (tb *Table) Stats() Stats {
	s := Stats{Nodes: len(tb.recs) - 1, Vars: tb.nextVar, Traits: len(tb.traitList)}
	for _, bucket := range tb.canon {
		s.Canonical += len(bucket)
	}
	return s
}
