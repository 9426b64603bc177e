// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package obdd

import (
	"errors"
	"testing"
)

//********************************************************************************************

func newTestMgr(t testing.TB, nodes, cache, workers, nvars int) *Manager {
	t.Helper()
	m, err := New(nodes, cache, workers)
	if err != nil {
		t.Fatalf("cannot create manager: %s", err)
	}
	for i := 0; i < nvars; i++ {
		if _, err := m.NewVar(); err != nil {
			t.Fatalf("cannot create variable %d: %s", i, err)
		}
	}
	return m
}

// checker factors the repetitive error handling when composing operations.
// must takes the (function, error) pair of an operation as its only
// arguments, so calls compose directly.
type checker struct {
	tb testing.TB
}

func (c checker) must(f *Function, err error) *Function {
	c.tb.Helper()
	if err != nil {
		c.tb.Fatalf("unexpected error: %s", err)
	}
	return f
}

func ith(t testing.TB, m *Manager, i int) *Function {
	t.Helper()
	f, err := m.Ithvar(i)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return f
}

func nith(t testing.TB, m *Manager, i int) *Function {
	t.Helper()
	f, err := m.NIthvar(i)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return f
}

//********************************************************************************************

func TestApplyConstants(t *testing.T) {
	ck := checker{t}
	m := newTestMgr(t, 1000, 100, 1, 0)
	cst := []*Function{m.False(), m.True()}
	for op := OPand; op <= OPequiv; op++ {
		for a := 0; a < 2; a++ {
			for b := 0; b < 2; b++ {
				actual := ck.must(cst[a].Apply(op, cst[b]))
				if !actual.Eq(cst[opres[op][a][b]]) {
					t.Errorf("%s(%d, %d): expected %d, actual %d", op, a, b, opres[op][a][b], actual.id)
				}
			}
		}
	}
}

func TestCanonicity(t *testing.T) {
	ck := checker{t}
	m := newTestMgr(t, 1000, 100, 1, 3)
	x, y, z := ith(t, m, 0), ith(t, m, 1), ith(t, m, 2)
	// two different derivations of the same function reach the same node
	f := ck.must(ck.must(x.And(y)).Or(z))
	g := ck.must(ck.must(x.Or(z)).And(ck.must(y.Or(z))))
	if !f.Eq(g) {
		t.Errorf("(x&y)|z and (x|z)&(y|z): expected same node, got %d and %d", f.id, g.id)
	}
	// De Morgan
	lhs := ck.must(ck.must(x.And(y)).Not())
	rhs := ck.must(ck.must(x.Not()).Or(ck.must(y.Not())))
	if !lhs.Eq(rhs) {
		t.Errorf("!(x&y) and !x|!y: expected same node, got %d and %d", lhs.id, rhs.id)
	}
	// double negation is the identity
	if nn := ck.must(lhs.Not()); !nn.Eq(ck.must(x.And(y))) {
		t.Errorf("!!(x&y): expected same node as x&y")
	}
}

func TestIteEquiv(t *testing.T) {
	ck := checker{t}
	m := newTestMgr(t, 5000, 500, 1, 4)
	f := ck.must(m.Makeset([]int{0, 2, 3}))
	g := ck.must(m.Makeset([]int{0, 3}))
	ng := ck.must(g.Not())
	ite := ck.must(f.Ite(g, ng))
	ref := ck.must(ck.must(f.And(g)).Or(ck.must(ck.must(f.Not()).And(ng))))
	if !ite.Eq(ref) {
		t.Errorf("ite(f,g,!g) and (f&g)|(!f&!g): expected same node, got %d and %d", ite.id, ref.id)
	}
	// shortcut cases of ite
	if actual := ck.must(f.Ite(g, g)); !actual.Eq(g) {
		t.Errorf("ite(f,g,g): expected g")
	}
	if actual := ck.must(f.Ite(m.True(), m.False())); !actual.Eq(f) {
		t.Errorf("ite(f,1,0): expected f")
	}
	if actual := ck.must(f.Ite(m.False(), m.True())); !actual.Eq(ck.must(f.Not())) {
		t.Errorf("ite(f,0,1): expected !f")
	}
}

func TestXorShortcuts(t *testing.T) {
	ck := checker{t}
	m := newTestMgr(t, 1000, 100, 1, 2)
	x, y := ith(t, m, 0), ith(t, m, 1)
	f := ck.must(x.Or(y))
	if actual := ck.must(f.Xor(f)); !actual.Eq(m.False()) {
		t.Errorf("f^f: expected false")
	}
	if actual := ck.must(f.Xor(m.True())); !actual.Eq(ck.must(f.Not())) {
		t.Errorf("f^1: expected !f")
	}
	if actual := ck.must(f.Xor(m.False())); !actual.Eq(f) {
		t.Errorf("f^0: expected f")
	}
	if actual := ck.must(f.Nand(f)); !actual.Eq(ck.must(f.Not())) {
		t.Errorf("f nand f: expected !f")
	}
	if actual := ck.must(f.Imp(f)); !actual.Eq(m.True()) {
		t.Errorf("f -> f: expected true")
	}
	if actual := ck.must(f.ImpStrict(f)); !actual.Eq(m.False()) {
		t.Errorf("!f & f: expected false")
	}
}

//********************************************************************************************

func TestBadOperands(t *testing.T) {
	m1 := newTestMgr(t, 1000, 100, 1, 2)
	m2 := newTestMgr(t, 1000, 100, 1, 2)
	x1 := ith(t, m1, 0)
	x2 := ith(t, m2, 0)
	if _, err := x1.And(x2); !errors.Is(err, ErrCrossManager) {
		t.Errorf("And across managers: expected ErrCrossManager, actual %v", err)
	}
	if _, err := x1.Ite(x1, x2); !errors.Is(err, ErrCrossManager) {
		t.Errorf("Ite across managers: expected ErrCrossManager, actual %v", err)
	}
	if _, err := x1.Apply(Operator(42), x1); !errors.Is(err, ErrInvalidOperator) {
		t.Errorf("Apply with bad operator: expected ErrInvalidOperator, actual %v", err)
	}
	if _, err := x1.Apply(opIte, x1); !errors.Is(err, ErrInvalidOperator) {
		t.Errorf("Apply with internal tag: expected ErrInvalidOperator, actual %v", err)
	}
}

//********************************************************************************************

// TestStructure checks the two structural invariants of reduced ordered
// diagrams on every node reachable from a sample of functions: no node has
// two equal children, and levels strictly increase along every edge.
func TestStructure(t *testing.T) {
	ck := checker{t}
	m := newTestMgr(t, 5000, 500, 1, 5)
	a, b, c := ith(t, m, 0), ith(t, m, 2), ith(t, m, 4)
	f := ck.must(ck.must(a.Xor(b)).Or(ck.must(b.Equiv(c))))
	g := ck.must(ck.must(a.And(b)).Imp(c))
	nvars := m.Varnum()
	check := func(root *Function) {
		err := m.AllNodes(func(id, level, low, high int) error {
			if level == nvars {
				return nil
			}
			if low == high {
				t.Errorf("node %d at level %d has equal children %d", id, level, low)
			}
			for _, child := range []int{low, high} {
				// terminals sit above every variable level
				if clevel := int64(m.level(int32(child))); clevel <= int64(level) {
					t.Errorf("edge %d -> %d does not increase level (%d -> %d)", id, child, level, clevel)
				}
			}
			return nil
		}, root)
		if err != nil {
			t.Fatalf("traversal error: %s", err)
		}
	}
	check(f)
	check(g)
}

func TestNodeCount(t *testing.T) {
	ck := checker{t}
	m := newTestMgr(t, 1000, 100, 1, 4)
	if actual := m.False().NodeCount(); actual != 1 {
		t.Errorf("NodeCount(false): expected 1, actual %d", actual)
	}
	if actual := ith(t, m, 0).NodeCount(); actual != 2 {
		t.Errorf("NodeCount(x0): expected 2, actual %d", actual)
	}
	// f = x0 & x1 & !x2 & x3 is a chain of four decision nodes
	f := ck.must(ck.must(ck.must(ith(t, m, 0).And(ith(t, m, 1))).And(nith(t, m, 2))).And(ith(t, m, 3)))
	if !f.Satisfiable() {
		t.Errorf("x0&x1&!x2&x3: expected satisfiable")
	}
	if f.Valid() {
		t.Errorf("x0&x1&!x2&x3: expected not valid")
	}
	if actual := f.NodeCount(); actual != 5 {
		t.Errorf("NodeCount(x0&x1&!x2&x3): expected 5, actual %d", actual)
	}
	if actual := f.SatCountFloat(4); actual != 1.0 {
		t.Errorf("SatCountFloat(x0&x1&!x2&x3): expected 1, actual %g", actual)
	}
	// sharing: the diagram of f|g is smaller than the two diagrams set side
	// by side
	g := ck.must(ck.must(ith(t, m, 1).And(nith(t, m, 2))).And(ith(t, m, 3)))
	fg := ck.must(f.Or(g))
	if actual := fg.NodeCount(); actual >= f.NodeCount()+g.NodeCount() {
		t.Errorf("NodeCount(f|g) = %d: expected less than %d", actual, f.NodeCount()+g.NodeCount())
	}
}

func TestCofactors(t *testing.T) {
	ck := checker{t}
	m := newTestMgr(t, 1000, 100, 1, 2)
	x, y := ith(t, m, 0), ith(t, m, 1)
	f := ck.must(x.And(y))
	if actual := f.CofactorTrue(); !actual.Eq(y) {
		t.Errorf("(x&y) with x true: expected y")
	}
	if actual := f.CofactorFalse(); !actual.Eq(m.False()) {
		t.Errorf("(x&y) with x false: expected false")
	}
	if actual := m.True().CofactorTrue(); !actual.Eq(m.True()) {
		t.Errorf("cofactor of a terminal: expected itself")
	}
	if actual := f.Var(); actual != 0 {
		t.Errorf("Var(x&y): expected 0, actual %d", actual)
	}
	if actual := m.True().Var(); actual != -1 {
		t.Errorf("Var(true): expected -1, actual %d", actual)
	}
}
