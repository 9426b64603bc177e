// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package obdd

import (
	"fmt"
	"sort"
)

// Exist returns the existential quantification of f with respect to the
// variables in varset, where varset is a function computed with Makeset (the
// conjunction of a set of positive literals).
func (f *Function) Exist(varset *Function) (*Function, error) {
	return f.quantify(opExist, varset)
}

// Forall returns the universal quantification of f with respect to the
// variables in varset. See Exist.
func (f *Function) Forall(varset *Function) (*Function, error) {
	return f.quantify(opForall, varset)
}

// Unique returns the unique quantification of f with respect to the
// variables in varset, replacing each variable x in the set with the
// exclusive disjunction f[x/0] ^ f[x/1]. See Exist.
func (f *Function) Unique(varset *Function) (*Function, error) {
	return f.quantify(opUnique, varset)
}

func (f *Function) quantify(q Operator, varset *Function) (*Function, error) {
	m := f.mgr
	if err := m.checkptr(varset); err != nil {
		return nil, fmt.Errorf("wrong varset in call to %s: %w", q, err)
	}
	return m.runOp(func() (int32, error) {
		return m.quantRec(q, f.id, varset.id, 0)
	})
}

// ApplyExist computes the existential quantification of (f op g) in one
// fused pass, equivalent to f.Apply(op, g) followed by Exist(varset) but
// without materializing the intermediate result above the quantified levels.
func (f *Function) ApplyExist(op Operator, g, varset *Function) (*Function, error) {
	return f.applyQuant(opExist, op, g, varset)
}

// ApplyForall computes the universal quantification of (f op g) in one fused
// pass. See ApplyExist.
func (f *Function) ApplyForall(op Operator, g, varset *Function) (*Function, error) {
	return f.applyQuant(opForall, op, g, varset)
}

// ApplyUnique computes the unique quantification of (f op g) in one fused
// pass. See ApplyExist.
func (f *Function) ApplyUnique(op Operator, g, varset *Function) (*Function, error) {
	return f.applyQuant(opUnique, op, g, varset)
}

func (f *Function) applyQuant(q, op Operator, g, varset *Function) (*Function, error) {
	m := f.mgr
	if !op.valid() {
		return nil, fmt.Errorf("operator %s in call to %s: %w", op, q, ErrInvalidOperator)
	}
	if err := m.checkptr(g); err != nil {
		return nil, fmt.Errorf("wrong operand in call to %s %s: %w", q, op, err)
	}
	if err := m.checkptr(varset); err != nil {
		return nil, fmt.Errorf("wrong varset in call to %s %s: %w", q, op, err)
	}
	return m.runOp(func() (int32, error) {
		return m.appQuantRec(q, op, f.id, g.id, varset.id, 0)
	})
}

// Restrict computes the restriction of f by the cube c: every variable with
// a positive literal in c is fixed to true, every variable with a negative
// literal to false. The cube is a conjunction of literals, such as returned
// by PickCubeSymbolic.
func (f *Function) Restrict(cube *Function) (*Function, error) {
	m := f.mgr
	if err := m.checkptr(cube); err != nil {
		return nil, fmt.Errorf("wrong cube in call to Restrict: %w", err)
	}
	if cube.id == bddfalse {
		return nil, fmt.Errorf("empty cube in call to Restrict: %w", ErrMalformedAssignment)
	}
	return m.runOp(func() (int32, error) {
		return m.restrictRec(f.id, cube.id, 0)
	})
}

// Makeset returns the conjunction of the positive literals of the given
// variables, in the format expected by the quantification operations.
func (m *Manager) Makeset(vars []int) (*Function, error) {
	m.vmu.RLock()
	levels := make([]int, 0, len(vars))
	for _, v := range vars {
		if v < 0 || v >= len(m.varset) {
			m.vmu.RUnlock()
			return nil, fmt.Errorf("unknown variable (%d) in call to Makeset", v)
		}
		levels = append(levels, v)
	}
	m.vmu.RUnlock()
	// build the cube bottom-up, in decreasing level order
	sort.Ints(levels)
	return m.runOp(func() (int32, error) {
		res := bddtrue
		for k := len(levels) - 1; k >= 0; k-- {
			if k < len(levels)-1 && levels[k] == levels[k+1] {
				continue
			}
			var err error
			res, err = m.makenode(int32(levels[k]), bddfalse, res)
			if err != nil {
				return -1, err
			}
		}
		return res, nil
	})
}

// ************************************************************

// combiner gives the binary operator merging the two cofactors of a
// quantified level.
func combiner(q Operator) Operator {
	switch q {
	case opForall:
		return OPand
	case opUnique:
		return OPxor
	}
	return OPor
}

func (m *Manager) quantRec(q Operator, f, vars int32, depth int) (int32, error) {
	if f < 2 {
		// exists and forall are the identity on constants; unique
		// quantification of a constant is always false since both cofactors
		// are equal
		if q == opUnique && vars >= 2 {
			return bddfalse, nil
		}
		return f, nil
	}
	flevel := m.level(f)
	if q != opUnique {
		// skip set variables above the root of f, they no longer constrain
		// the result
		for vars >= 2 && m.level(vars) < flevel {
			vars = m.high(vars)
		}
	}
	if vars < 2 {
		return f, nil
	}
	vlevel := m.level(vars)
	if q == opUnique && vlevel < flevel {
		// the topmost quantified variable does not occur in f, so both
		// cofactors agree and their exclusive disjunction is false
		return bddfalse, nil
	}
	if res, ok := m.cache.lookup(q, f, vars, -1); ok {
		return res, nil
	}
	vnext := vars
	if vlevel == flevel {
		vnext = m.high(vars)
	}
	low, high, err := m.pool.fork(depth,
		func() (int32, error) { return m.quantRec(q, m.low(f), vnext, depth+1) },
		func() (int32, error) { return m.quantRec(q, m.high(f), vnext, depth+1) },
	)
	if err != nil {
		return -1, err
	}
	var res int32
	if vlevel == flevel {
		res, err = m.applyRec(combiner(q), low, high, depth)
	} else {
		res, err = m.makenode(flevel, low, high)
	}
	if err != nil {
		return -1, err
	}
	m.cache.insert(q, f, vars, -1, res)
	return res, nil
}

// packAppOp folds the quantifier tag and the inner operator into a single
// cache discriminant for the fused apply-quantify operations.
func packAppOp(q, op Operator) Operator {
	tag := opAppEx
	switch q {
	case opForall:
		tag = opAppAll
	case opUnique:
		tag = opAppUn
	}
	return tag | (op+1)<<8
}

func (m *Manager) appQuantRec(q, op Operator, f, g, vars int32, depth int) (int32, error) {
	if x, neg, ok := m.terminalBin(op, f, g); ok {
		var err error
		if neg {
			if x, err = m.notRec(x, depth); err != nil {
				return -1, err
			}
		}
		return m.quantRec(q, x, vars, depth)
	}
	if vars < 2 {
		return m.applyRec(op, f, g, depth)
	}
	level := min(m.level(f), m.level(g))
	if q != opUnique {
		for vars >= 2 && m.level(vars) < level {
			vars = m.high(vars)
		}
		if vars < 2 {
			return m.applyRec(op, f, g, depth)
		}
	}
	vlevel := m.level(vars)
	if q == opUnique && vlevel < level {
		return bddfalse, nil
	}
	packed := packAppOp(q, op)
	if res, ok := m.cache.lookup(packed, f, g, vars); ok {
		return res, nil
	}
	fl, fh := f, f
	if m.level(f) == level {
		fl, fh = m.low(f), m.high(f)
	}
	gl, gh := g, g
	if m.level(g) == level {
		gl, gh = m.low(g), m.high(g)
	}
	vnext := vars
	if vlevel == level {
		vnext = m.high(vars)
	}
	low, high, err := m.pool.fork(depth,
		func() (int32, error) { return m.appQuantRec(q, op, fl, gl, vnext, depth+1) },
		func() (int32, error) { return m.appQuantRec(q, op, fh, gh, vnext, depth+1) },
	)
	if err != nil {
		return -1, err
	}
	var res int32
	if vlevel == level {
		res, err = m.applyRec(combiner(q), low, high, depth)
	} else {
		res, err = m.makenode(level, low, high)
	}
	if err != nil {
		return -1, err
	}
	m.cache.insert(packed, f, g, vars, res)
	return res, nil
}

func (m *Manager) restrictRec(f, cube int32, depth int) (int32, error) {
	if f < 2 || cube < 2 {
		return f, nil
	}
	flevel := m.level(f)
	clevel := m.level(cube)
	if clevel < flevel {
		// the literal is above the root of f, so the assignment does not
		// constrain it; move to the rest of the cube
		next := m.high(cube)
		if m.low(cube) != bddfalse {
			next = m.low(cube)
		}
		return m.restrictRec(f, next, depth)
	}
	if clevel == flevel {
		if m.low(cube) == bddfalse {
			// positive literal, keep the true cofactor
			return m.restrictRec(m.high(f), m.high(cube), depth)
		}
		return m.restrictRec(m.low(f), m.low(cube), depth)
	}
	if res, ok := m.cache.lookup(opRestrict, f, cube, -1); ok {
		return res, nil
	}
	low, high, err := m.pool.fork(depth,
		func() (int32, error) { return m.restrictRec(m.low(f), cube, depth+1) },
		func() (int32, error) { return m.restrictRec(m.high(f), cube, depth+1) },
	)
	if err != nil {
		return -1, err
	}
	res, err := m.makenode(flevel, low, high)
	if err != nil {
		return -1, err
	}
	m.cache.insert(opRestrict, f, cube, -1, res)
	return res, nil
}
