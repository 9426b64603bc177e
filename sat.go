// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package obdd

import (
	"fmt"
	"math"
)

// Satisfiable reports whether f has at least one satisfying assignment. With
// a canonical representation this is simply a test against the constant
// false.
func (f *Function) Satisfiable() bool {
	return f.id != bddfalse
}

// Valid reports whether f is a tautology.
func (f *Function) Valid() bool {
	return f.id == bddtrue
}

// SatCountFloat returns the number of satisfying assignments of f over a
// space of nvars variables, as a float64. The count is exact up to the
// precision of float64 arithmetic; very wide spaces saturate to +Inf rather
// than fail. nvars must cover every variable in the support of f.
func (f *Function) SatCountFloat(nvars int) float64 {
	m := f.mgr
	m.world.RLock()
	defer m.world.RUnlock()
	// Each node counts assignments over the full space and each level
	// halves the weight of its two cofactors, so skipped levels need no
	// correction factor.
	memo := make(map[int32]float64)
	var count func(n int32) float64
	count = func(n int32) float64 {
		if n == bddfalse {
			return 0
		}
		if n == bddtrue {
			return math.Ldexp(1, nvars)
		}
		if c, ok := memo[n]; ok {
			return c
		}
		c := (count(m.low(n)) + count(m.high(n))) / 2
		memo[n] = c
		return c
	}
	return count(f.id)
}

// Valuation assigns a Boolean value to one variable, given by its positive
// literal.
type Valuation struct {
	Var   *Function
	Value bool
}

// Eval computes the value of f under the given assignment. The assignment
// must cover every variable on the evaluation path; since the diagram skips
// variables that do not influence the result, covering the support of f is
// always enough. An incomplete assignment, one naming a non-variable, or one
// giving two conflicting values to the same variable yields an
// ErrMalformedAssignment; repeating a variable with the same value is
// allowed.
func (f *Function) Eval(args []Valuation) (bool, error) {
	m := f.mgr
	m.world.RLock()
	defer m.world.RUnlock()
	values := make([]Lbool, m.Varnum())
	for k, arg := range args {
		if err := m.checkptr(arg.Var); err != nil {
			return false, fmt.Errorf("wrong variable %d in assignment: %w", k, err)
		}
		if arg.Var.id < 2 || m.low(arg.Var.id) != bddfalse || m.high(arg.Var.id) != bddtrue {
			return false, fmt.Errorf("term %d in assignment is not a variable: %w", k, ErrMalformedAssignment)
		}
		level := m.level(arg.Var.id)
		if values[level] != Undef && values[level] != lift(arg.Value) {
			return false, fmt.Errorf("conflicting values for variable %s: %w", m.VarName(int(level)), ErrMalformedAssignment)
		}
		values[level] = lift(arg.Value)
	}
	n := f.id
	for n >= 2 {
		switch values[m.level(n)] {
		case True:
			n = m.high(n)
		case False:
			n = m.low(n)
		default:
			return false, fmt.Errorf("variable %s unassigned: %w", m.VarName(int(m.level(n))), ErrMalformedAssignment)
		}
	}
	return n == bddtrue, nil
}

// PickCube returns one satisfying assignment of f as a vector with one entry
// per variable, Undef marking the variables whose value does not matter. It
// returns nil when f is unsatisfiable. The choice of assignment is
// deterministic for a given diagram but otherwise arbitrary.
func (f *Function) PickCube() []Lbool {
	m := f.mgr
	m.world.RLock()
	defer m.world.RUnlock()
	return m.pickCube(f.id, nil)
}

// PickCubeWith returns a satisfying assignment of f like PickCube, steering
// the choice of polarities with a literal set: whenever both branches of a
// node can reach true, the branch matching the polarity of the variable in
// the set is preferred. Variables absent from the set default to true. The
// literal set is a cube such as built by Makeset or PickCubeSymbolic.
func (f *Function) PickCubeWith(literals *Function) ([]Lbool, error) {
	m := f.mgr
	if err := m.checkptr(literals); err != nil {
		return nil, fmt.Errorf("wrong literal set in call to PickCubeWith: %w", err)
	}
	m.world.RLock()
	defer m.world.RUnlock()
	prefs := make(map[int32]bool)
	for n := literals.id; n >= 2; {
		if m.low(n) == bddfalse {
			prefs[m.level(n)] = true
			n = m.high(n)
		} else {
			prefs[m.level(n)] = false
			n = m.low(n)
		}
	}
	return m.pickCube(f.id, prefs), nil
}

// PickCubeSymbolic returns one satisfying assignment of f as a cube, the
// conjunction of one literal per constrained variable. It returns the
// constant false when f is unsatisfiable.
func (f *Function) PickCubeSymbolic() (*Function, error) {
	m := f.mgr
	return m.runOp(func() (int32, error) {
		cube := m.pickCube(f.id, nil)
		return m.cubeOf(cube)
	})
}

// PickCubeSymbolicWith is to PickCubeSymbolic what PickCubeWith is to
// PickCube: polarities are steered by the given literal set.
func (f *Function) PickCubeSymbolicWith(literals *Function) (*Function, error) {
	m := f.mgr
	if err := m.checkptr(literals); err != nil {
		return nil, fmt.Errorf("wrong literal set in call to PickCubeSymbolicWith: %w", err)
	}
	return m.runOp(func() (int32, error) {
		prefs := make(map[int32]bool)
		for n := literals.id; n >= 2; {
			if m.low(n) == bddfalse {
				prefs[m.level(n)] = true
				n = m.high(n)
			} else {
				prefs[m.level(n)] = false
				n = m.low(n)
			}
		}
		cube := m.pickCube(f.id, prefs)
		return m.cubeOf(cube)
	})
}

// pickCube walks one path from n to the true terminal, preferring the high
// branch unless prefs says otherwise, and always avoiding branches that lead
// straight to false. Caller holds the world read lock.
func (m *Manager) pickCube(n int32, prefs map[int32]bool) []Lbool {
	if n == bddfalse {
		return nil
	}
	cube := make([]Lbool, m.Varnum())
	for n >= 2 {
		level := m.level(n)
		choice := true
		if prefs != nil {
			if p, ok := prefs[level]; ok {
				choice = p
			}
		}
		// every inner node reaches true on at least one side, so flipping a
		// blocked choice is always enough
		if choice && m.high(n) == bddfalse {
			choice = false
		}
		if !choice && m.low(n) == bddfalse {
			choice = true
		}
		cube[level] = lift(choice)
		if choice {
			n = m.high(n)
		} else {
			n = m.low(n)
		}
	}
	return cube
}

// cubeOf builds the conjunction of literals described by an assignment
// vector. Caller holds the world read lock.
func (m *Manager) cubeOf(cube []Lbool) (int32, error) {
	if cube == nil {
		return bddfalse, nil
	}
	res := bddtrue
	var err error
	for level := len(cube) - 1; level >= 0; level-- {
		switch cube[level] {
		case True:
			res, err = m.makenode(int32(level), bddfalse, res)
		case False:
			res, err = m.makenode(int32(level), res, bddfalse)
		default:
			continue
		}
		if err != nil {
			return -1, err
		}
	}
	return res, nil
}
