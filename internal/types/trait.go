package types

import (
	"cmp"

	set "github.com/hashicorp/go-set/v3"
)

// Trait is a named capability. Traits are owned by the Table that created
// them and compare by identity.
type Trait struct {
	id   int
	name string
}

// Name returns the trait name.
func (t *Trait) Name() string { return t.name }

func (t *Trait) String() string { return t.name }

func compareTraits(a, b *Trait) int {
	return cmp.Compare(a.id, b.id)
}

func newTraitSet() *set.TreeSet[*Trait] {
	return set.NewTreeSet[*Trait](compareTraits)
}

// NewTrait registers a trait. Registering the same name twice is a defect;
// callers check LookupTrait first.
func (tb *Table) NewTrait(name string) *Trait {
	if _, ok := tb.traits[name]; ok {
		defect("trait %s registered twice", name)
	}
	tr := &Trait{id: len(tb.traitList), name: name}
	tb.traits[name] = tr
	tb.traitList = append(tb.traitList, tr)
	return tr
}

// LookupTrait finds a registered trait by name.
func (tb *Table) LookupTrait(name string) (*Trait, bool) {
	tr, ok := tb.traits[name]
	return tr, ok
}

// Traits returns every registered trait in registration order.
func (tb *Table) Traits() []*Trait {
	return append([]*Trait(nil), tb.traitList...)
}

func (tb *Table) registered(tr *Trait) bool {
	return tr != nil && tb.traits[tr.name] == tr
}

// AddImpl records that t implements tr. The implementation is attached to
// the canonical instance, which is returned.
func (tb *Table) AddImpl(t Type, tr *Trait) Type {
	if !tb.registered(tr) {
		defect("impl of unregistered trait %v", tr)
	}
	c := tb.Intern(t)
	r := tb.rec(tb.Find(c))
	if r.kind == KindVar {
		defect("impl of %s for type variable %s", tr.name, tb.String(c))
	}
	if r.impls == nil {
		r.impls = set.New[*Trait](1)
	}
	r.impls.Insert(tr)
	return c
}

// Implements reports whether t satisfies tr. A type variable satisfies
// exactly the traits it is restricted by.
func (tb *Table) Implements(t Type, tr *Trait) bool {
	r := tb.rec(tb.Find(t))
	if r.kind == KindVar {
		return r.bounds.Contains(tr)
	}
	return r.impls != nil && r.impls.Contains(tr)
}

// Impls returns the traits registered for t, ordered by registration.
func (tb *Table) Impls(t Type) []*Trait {
	r := tb.rec(tb.Find(t))
	if r.impls == nil {
		return nil
	}
	sorted := newTraitSet()
	sorted.InsertSet(r.impls)
	return sorted.Slice()
}
