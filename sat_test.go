// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package obdd

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

//********************************************************************************************

func TestSatCountFloat(t *testing.T) {
	ck := checker{t}
	m := newTestMgr(t, 5000, 500, 1, 4)
	x, y := ith(t, m, 0), ith(t, m, 1)
	var satTests = []struct {
		descr    string
		f        *Function
		expected float64
	}{
		{"false", m.False(), 0},
		{"true", m.True(), 16},
		{"x", x, 8},
		{"x&y", ck.must(x.And(y)), 4},
		{"x|y", ck.must(x.Or(y)), 12},
		{"x^y", ck.must(x.Xor(y)), 8},
	}
	for _, tt := range satTests {
		if actual := tt.f.SatCountFloat(4); actual != tt.expected {
			t.Errorf("SatCountFloat(%s): expected %g, actual %g", tt.descr, tt.expected, actual)
		}
	}
	// the count saturates instead of failing on very wide spaces
	if actual := m.True().SatCountFloat(2000); actual <= 0 {
		t.Errorf("SatCountFloat(true) over 2000 variables: expected +Inf, actual %g", actual)
	}
}

func TestSatisfiableValid(t *testing.T) {
	ck := checker{t}
	m := newTestMgr(t, 5000, 500, 1, 3)
	x, y := ith(t, m, 0), ith(t, m, 1)
	if m.False().Satisfiable() {
		t.Errorf("Satisfiable(false): expected false")
	}
	if !m.True().Valid() {
		t.Errorf("Valid(true): expected true")
	}
	// f is satisfiable exactly when !f is not valid
	for _, f := range []*Function{m.False(), m.True(), x, ck.must(x.And(y)), ck.must(x.Xor(y))} {
		if f.Satisfiable() == ck.must(f.Not()).Valid() {
			t.Errorf("Satisfiable(f) and Valid(!f) must disagree for node %d", f.id)
		}
	}
}

func TestPickCube(t *testing.T) {
	ck := checker{t}
	m := newTestMgr(t, 5000, 500, 1, 4)
	if cube := m.False().PickCube(); cube != nil {
		t.Errorf("PickCube(false): expected nil, actual %v", cube)
	}
	if cube := m.True().PickCube(); !cmp.Equal(cube, make([]Lbool, 4)) {
		t.Errorf("PickCube(true): expected all Undef, actual %v", cube)
	}
	f := ck.must(ck.must(ck.must(ith(t, m, 0).And(ith(t, m, 1))).And(nith(t, m, 2))).And(ith(t, m, 3)))
	expected := []Lbool{True, True, False, True}
	if cube := f.PickCube(); !cmp.Equal(cube, expected) {
		t.Errorf("PickCube(x0&x1&!x2&x3): expected %v, actual %v", expected, cube)
	}
	// a picked cube always satisfies the function
	g := ck.must(ck.must(ith(t, m, 0).Xor(ith(t, m, 1))).Or(ith(t, m, 3)))
	cube := g.PickCube()
	args := []Valuation{}
	for i, v := range cube {
		if v != Undef {
			args = append(args, Valuation{Var: ith(t, m, i), Value: v == True})
		}
	}
	if actual, err := g.Eval(args); err != nil || !actual {
		t.Errorf("Eval(PickCube(g)): expected true, actual %v (%v)", actual, err)
	}
}

func TestPickCubeWith(t *testing.T) {
	ck := checker{t}
	m := newTestMgr(t, 5000, 500, 1, 2)
	x, y := ith(t, m, 0), ith(t, m, 1)
	f := ck.must(x.Xor(y))
	// both polarities of x can satisfy x^y, so the literal set decides
	neg := ck.must(nith(t, m, 0).And(ith(t, m, 1)))
	cube, err := f.PickCubeWith(neg)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if expected := []Lbool{False, True}; !cmp.Equal(cube, expected) {
		t.Errorf("PickCubeWith(x^y, !x&y): expected %v, actual %v", expected, cube)
	}
	// preferences cannot force an unsatisfying branch
	g := ck.must(x.And(y))
	cube, err = g.PickCubeWith(ck.must(nith(t, m, 0).And(nith(t, m, 1))))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if expected := []Lbool{True, True}; !cmp.Equal(cube, expected) {
		t.Errorf("PickCubeWith(x&y, !x&!y): expected %v, actual %v", expected, cube)
	}
}

func TestPickCubeSymbolic(t *testing.T) {
	ck := checker{t}
	m := newTestMgr(t, 5000, 500, 1, 3)
	x, y := ith(t, m, 0), ith(t, m, 1)
	if actual := ck.must(m.False().PickCubeSymbolic()); !actual.Eq(m.False()) {
		t.Errorf("PickCubeSymbolic(false): expected false, actual node %d", actual.id)
	}
	if actual := ck.must(m.True().PickCubeSymbolic()); !actual.Eq(m.True()) {
		t.Errorf("PickCubeSymbolic(true): expected true, actual node %d", actual.id)
	}
	f := ck.must(x.Or(y))
	cube := ck.must(f.PickCubeSymbolic())
	// the cube is a single satisfying path, so it implies f
	if actual := ck.must(cube.Imp(f)); !actual.Eq(m.True()) {
		t.Errorf("PickCubeSymbolic(x|y): cube does not imply the function")
	}
	if !cube.Satisfiable() {
		t.Errorf("PickCubeSymbolic(x|y): expected a satisfiable cube")
	}
	// steering the symbolic pick works like the vector one
	pref := ck.must(nith(t, m, 0).And(ith(t, m, 1)))
	steered := ck.must(ck.must(x.Xor(y)).PickCubeSymbolicWith(pref))
	if !steered.Eq(pref) {
		t.Errorf("PickCubeSymbolicWith(x^y, !x&y): expected !x&y, actual node %d", steered.id)
	}
}

//********************************************************************************************

func TestEval(t *testing.T) {
	ck := checker{t}
	m := newTestMgr(t, 5000, 500, 1, 3)
	x, y, z := ith(t, m, 0), ith(t, m, 1), ith(t, m, 2)
	f := ck.must(ck.must(x.And(y)).Or(z))

	var evalTests = []struct {
		descr    string
		args     []Valuation
		expected bool
	}{
		{"111", []Valuation{{x, true}, {y, true}, {z, true}}, true},
		{"110", []Valuation{{x, true}, {y, true}, {z, false}}, true},
		{"100", []Valuation{{x, true}, {y, false}, {z, false}}, false},
		{"001", []Valuation{{x, false}, {y, false}, {z, true}}, true},
		{"0-1", []Valuation{{x, false}, {z, true}}, true},
	}
	for _, tt := range evalTests {
		actual, err := f.Eval(tt.args)
		if err != nil {
			t.Errorf("Eval(f, %s): unexpected error %s", tt.descr, err)
			continue
		}
		if actual != tt.expected {
			t.Errorf("Eval(f, %s): expected %v, actual %v", tt.descr, tt.expected, actual)
		}
	}
	// a path reaching an unassigned variable is an error
	if _, err := f.Eval([]Valuation{{x, true}, {z, false}}); !errors.Is(err, ErrMalformedAssignment) {
		t.Errorf("Eval with y unassigned: expected ErrMalformedAssignment, actual %v", err)
	}
	// assigning a non-variable is an error
	if _, err := f.Eval([]Valuation{{ck.must(x.And(y)), true}, {z, true}}); !errors.Is(err, ErrMalformedAssignment) {
		t.Errorf("Eval with a non-variable: expected ErrMalformedAssignment, actual %v", err)
	}
	// conflicting values for the same variable are rejected, while a
	// consistent repetition is not
	if _, err := f.Eval([]Valuation{{x, true}, {x, false}, {y, true}, {z, true}}); !errors.Is(err, ErrMalformedAssignment) {
		t.Errorf("Eval with conflicting values: expected ErrMalformedAssignment, actual %v", err)
	}
	if actual, err := f.Eval([]Valuation{{x, true}, {x, true}, {y, true}, {z, false}}); err != nil || !actual {
		t.Errorf("Eval with a repeated value: expected true, actual %v (%v)", actual, err)
	}
	// variables from another manager are rejected
	m2 := newTestMgr(t, 1000, 100, 1, 1)
	if _, err := f.Eval([]Valuation{{ith(t, m2, 0), true}}); !errors.Is(err, ErrCrossManager) {
		t.Errorf("Eval with a foreign variable: expected ErrCrossManager, actual %v", err)
	}
}
