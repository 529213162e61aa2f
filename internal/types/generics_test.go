package types

import (
	"slices"
	"testing"

	"github.com/nalgeon/be"
)

// genericPair builds the tentative tuple<A, B>(A, B).
func genericPair(tb *Table) (pair, a, b Type) {
	a, b = tb.NewVar(), tb.NewVar()
	pair = tb.NewTuple([]Type{a, b})
	tb.Bind(pair, a)
	tb.Bind(pair, b)
	return pair, a, b
}

// identity builds fn<V>(V) -> V with V restricted by bounds.
func identity(tb *Table, bounds ...*Trait) Type {
	v := tb.NewVar()
	for _, tr := range bounds {
		tb.AddBound(v, tr)
	}
	fn := tb.NewFunction([]Type{v}, v)
	tb.Bind(fn, v)
	return fn
}

func TestInstantiatePairEqualsTuple(t *testing.T) {
	tb := NewTable()
	pair, _, _ := genericPair(tb)
	pair = tb.Intern(pair)

	got := tb.Instantiate(pair, []Type{tb.Primitive(Int), tb.Primitive(Bool)})
	want := tb.Tuple(tb.Primitive(Int), tb.Primitive(Bool))

	be.Equal(t, got, want)
	be.True(t, tb.IsCanonical(got))
	be.Equal(t, tb.String(pair), "tuple<A, B>(A, B)")
}

func TestAlphaEquivalentGenericsShareCanonical(t *testing.T) {
	tb := NewTable()
	f := tb.Intern(identity(tb))
	g := identity(tb)

	be.True(t, tb.Equal(f, g))
	be.Equal(t, tb.Intern(g), f)

	// the renamed variable now resolves to the canonical one
	be.Equal(t, tb.Find(tb.BoundVars(g)[0]), tb.BoundVars(f)[0])
	be.Err(t, tb.Verify(), nil)
}

func TestBoundOrderMatters(t *testing.T) {
	tb := NewTable()
	// fn<A, B>(A, B) -> A versus fn<A, B>(B, A) -> B
	a1, b1 := tb.NewVar(), tb.NewVar()
	f1 := tb.NewFunction([]Type{a1, b1}, a1)
	tb.Bind(f1, a1)
	tb.Bind(f1, b1)

	a2, b2 := tb.NewVar(), tb.NewVar()
	f2 := tb.NewFunction([]Type{b2, a2}, b2)
	tb.Bind(f2, a2)
	tb.Bind(f2, b2)

	be.True(t, !tb.Equal(f1, f2))
	be.True(t, tb.Intern(f1) != tb.Intern(f2))
}

func TestTraitBoundsTakePartInEquality(t *testing.T) {
	tb := NewTable()
	show := tb.NewTrait("Show")

	plain := tb.Intern(identity(tb))
	bounded := tb.Intern(identity(tb, show))

	be.True(t, plain != bounded)
	be.Equal(t, tb.String(bounded), "fn<B: Show>(B) -> B")
}

func TestFreeVariablesNeverEqual(t *testing.T) {
	tb := NewTable()
	v, w := tb.NewVar(), tb.NewVar()
	be.True(t, tb.Equal(v, v))
	be.True(t, !tb.Equal(v, w))
	be.True(t, !tb.IsClosed(v))
}

func TestBindTwiceIsDefect(t *testing.T) {
	tb := NewTable()
	v := tb.NewVar()
	tb.Bind(tb.NewTuple([]Type{v}), v)

	defer func() {
		_, ok := recover().(*InternalError)
		be.True(t, ok)
	}()
	tb.Bind(tb.NewTuple([]Type{v}), v)
}

func TestInstantiateArityIsDefect(t *testing.T) {
	tb := NewTable()
	pair, _, _ := genericPair(tb)

	defer func() {
		_, ok := recover().(*InternalError)
		be.True(t, ok)
	}()
	tb.Instantiate(pair, []Type{tb.Primitive(Int)})
}

func TestSpecializeClonesNestedBinders(t *testing.T) {
	tb := NewTable()
	i := tb.Primitive(Int)

	// fn<A>(A) -> fn<B>(A, B) -> B
	a, b := tb.NewVar(), tb.NewVar()
	inner := tb.NewFunction([]Type{a, b}, b)
	tb.Bind(inner, b)
	outer := tb.NewFunction([]Type{a}, inner)
	tb.Bind(outer, a)

	specialized := tb.Specialize(outer, map[Type]Type{a: i})
	be.True(t, !tb.IsCanonical(specialized))
	be.Equal(t, len(tb.BoundVars(specialized)), 0)

	innerCopy := tb.Result(specialized)
	clone := tb.BoundVars(innerCopy)[0]
	be.True(t, clone != b)
	be.Equal(t, tb.Binder(clone), innerCopy)
	be.Equal(t, tb.Params(innerCopy)[0], i)

	// the original is untouched
	be.Equal(t, tb.BoundVars(inner)[0], b)
	be.Equal(t, tb.String(tb.Intern(specialized)), "fn(int) -> fn<C>(int, C) -> C")
}

func TestClosedVersusSane(t *testing.T) {
	tb := NewTable()
	show := tb.NewTrait("Show")

	// A bound to one tuple but used inside an unrelated one
	a := tb.NewVar()
	owner := tb.NewTuple([]Type{a})
	tb.Bind(owner, a)
	stray := tb.NewTuple([]Type{a})

	be.True(t, tb.IsClosed(stray))
	be.True(t, !tb.IsSane(stray))
	be.True(t, tb.IsSane(owner))

	// a trait from another table is not registered here
	other := NewTable().NewTrait("Show")
	v := tb.NewVar()
	tb.AddBound(v, other)
	fn := tb.NewFunction([]Type{v}, v)
	tb.Bind(fn, v)
	be.True(t, tb.IsClosed(fn))
	be.True(t, !tb.IsSane(fn))

	w := tb.NewVar()
	tb.AddBound(w, show)
	ok := tb.NewFunction([]Type{w}, tb.Primitive(Void))
	tb.Bind(ok, w)
	be.True(t, tb.IsSane(tb.Intern(ok)))
}

func TestImplementsAndCheckBounds(t *testing.T) {
	tb := NewTable()
	show := tb.NewTrait("Show")
	i, s := tb.Primitive(Int), tb.Primitive(String)
	tb.AddImpl(i, show)

	be.True(t, tb.Implements(i, show))
	be.True(t, !tb.Implements(s, show))
	be.Equal(t, len(tb.Impls(i)), 1)

	fn := tb.Intern(identity(tb, show))
	be.Err(t, tb.CheckBounds(fn, []Type{i}), nil)
	be.Err(t, tb.CheckBounds(fn, []Type{s}), "does not implement trait 'Show'")

	// a variable satisfies the traits it is restricted by
	be.True(t, tb.Implements(tb.BoundVars(fn)[0], show))
}

func TestMatchInfersArguments(t *testing.T) {
	tb := NewTable()
	i, b := tb.Primitive(Int), tb.Primitive(Bool)

	// fn<A, B>(A, tuple(A, B)) -> B
	va, vb := tb.NewVar(), tb.NewVar()
	fn := tb.NewFunction([]Type{va, tb.NewTuple([]Type{va, vb})}, vb)
	tb.Bind(fn, va)
	tb.Bind(fn, vb)
	fn = tb.Intern(fn)

	targs, ok := tb.Match(fn, []Type{i, tb.Tuple(i, b)})
	be.True(t, ok)
	be.True(t, slices.Equal(targs, []Type{i, b}))
	be.Equal(t, tb.Instantiate(fn, targs), tb.Function([]Type{i, tb.Tuple(i, b)}, b))

	_, ok = tb.Match(fn, []Type{i, tb.Tuple(b, b)})
	be.True(t, !ok)
	_, ok = tb.Match(fn, []Type{i})
	be.True(t, !ok)
}

func TestVarNames(t *testing.T) {
	tb := NewTable()
	var last Type
	for n := 0; n < 27; n++ {
		last = tb.NewVar()
	}
	be.Equal(t, tb.String(Type(int(last)-26)), "A")
	be.Equal(t, tb.String(last), "Z26")
}

func TestNamedVarsPrintDeclaredNames(t *testing.T) {
	tb := NewTable()
	for n := 0; n < 30; n++ {
		tb.NewVar()
	}

	// fn<T>(T) -> fn<U>(T, U) -> U
	tv, uv := tb.NewNamedVar("T"), tb.NewNamedVar("U")
	inner := tb.NewFunction([]Type{tv, uv}, uv)
	tb.Bind(inner, uv)
	outer := tb.NewFunction([]Type{tv}, inner)
	tb.Bind(outer, tv)
	outer = tb.Intern(outer)
	be.Equal(t, tb.String(outer), "fn<T>(T) -> fn<U>(T, U) -> U")

	// clones keep the name
	got := tb.Instantiate(outer, []Type{tb.Primitive(Int)})
	be.Equal(t, tb.String(got), "fn(int) -> fn<U>(int, U) -> U")

	// names play no part in equality
	w := tb.NewNamedVar("W")
	named := tb.NewFunction([]Type{w}, w)
	tb.Bind(named, w)
	be.True(t, tb.Equal(tb.Intern(identity(tb)), tb.Intern(named)))
}
