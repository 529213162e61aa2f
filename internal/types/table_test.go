package types

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestPrimitivesAreSingletons(t *testing.T) {
	tb := NewTable()
	for k := PrimKind(0); k < numPrims; k++ {
		p := tb.Primitive(k)
		be.True(t, tb.IsCanonical(p))
		be.Equal(t, tb.Intern(p), p)
		be.Equal(t, tb.String(p), k.String())
	}
	be.True(t, tb.Primitive(Int) != tb.Primitive(Int64))
	be.Equal(t, tb.String(tb.ErrorType()), "<type error>")
}

func TestInternSharesStructurallyEqualTypes(t *testing.T) {
	tb := NewTable()
	i, b := tb.Primitive(Int), tb.Primitive(Bool)

	t1 := tb.NewFunction([]Type{i, tb.NewTuple([]Type{i, b})}, b)
	t2 := tb.NewFunction([]Type{i, tb.NewTuple([]Type{i, b})}, b)
	be.True(t, t1 != t2)

	c1, c2 := tb.Intern(t1), tb.Intern(t2)
	be.Equal(t, c1, c2)
	be.Equal(t, tb.Find(t2), c1)
	be.Equal(t, tb.Function([]Type{i, tb.Tuple(i, b)}, b), c1)
	be.Equal(t, tb.String(c1), "fn(int, tuple(int, bool)) -> bool")

	// the nested tuple of the merged copy resolves to the canonical operand
	be.Equal(t, tb.Find(tb.recs[t2].operands[1]), tb.Operands(c1)[1])
}

func TestInternDistinguishesDifferentTypes(t *testing.T) {
	tb := NewTable()
	i, f := tb.Primitive(Int), tb.Primitive(Float)

	cases := []struct {
		name string
		a, b Type
	}{
		{"param types", tb.Function([]Type{i}, i), tb.Function([]Type{f}, i)},
		{"arity", tb.Function([]Type{i}, i), tb.Function([]Type{i, i}, i)},
		{"tuple vs function", tb.Tuple(i, i), tb.Function([]Type{i}, i)},
		{"result type", tb.Function(nil, i), tb.Function(nil, f)},
		{"empty tuple vs void", tb.Tuple(), tb.Primitive(Void)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			be.True(t, tc.a != tc.b)
			be.True(t, !tb.Equal(tc.a, tc.b))
		})
	}
}

func TestFindIsIdempotent(t *testing.T) {
	tb := NewTable()
	i := tb.Primitive(Int)
	var all []Type
	for n := 0; n < 5; n++ {
		tup := tb.NewTuple([]Type{i, tb.NewTuple([]Type{i})})
		all = append(all, tup)
		tb.Intern(tup)
	}
	for _, x := range all {
		be.Equal(t, tb.Find(tb.Find(x)), tb.Find(x))
	}
	be.Equal(t, tb.Find(all[4]), tb.Find(all[0]))
}

func TestOpenTypesAreNotInterned(t *testing.T) {
	tb := NewTable()
	v := tb.NewVar()
	fn := tb.NewFunction([]Type{v}, v)

	be.True(t, !tb.IsClosed(fn))
	be.Equal(t, tb.Intern(fn), fn)
	be.True(t, !tb.IsCanonical(fn))
}

func TestVerifyAcceptsConsistentTable(t *testing.T) {
	tb := NewTable()
	i := tb.Primitive(Int)
	tb.Function([]Type{i}, i)
	tb.Tuple(i, tb.Primitive(String))

	be.Err(t, tb.Verify(), nil)

	s := tb.Stats()
	be.Equal(t, s.Canonical, int(numPrims)+1+2)
}

func TestDuplicateCanonicalTypeIsDefect(t *testing.T) {
	tb := NewTable()
	i := tb.Primitive(Int)
	c := tb.Tuple(i)

	dup := tb.NewTuple([]Type{i})
	defer func() {
		r := recover()
		_, ok := r.(*InternalError)
		be.True(t, ok)
		be.Equal(t, tb.Find(c), c)
	}()
	tb.insertNew(dup, tb.hash(dup))
}

func TestInvalidHandleIsDefect(t *testing.T) {
	tb := NewTable()
	defer func() {
		_, ok := recover().(*InternalError)
		be.True(t, ok)
	}()
	tb.Kind(Type(9999))
}
