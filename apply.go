// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package obdd

import "fmt"

// Not returns the negation of f.
func (f *Function) Not() (*Function, error) {
	m := f.mgr
	return m.runOp(func() (int32, error) {
		return m.notRec(f.id, 0)
	})
}

// Apply combines f and g under the binary operator op. The two operands must
// belong to the same manager.
func (f *Function) Apply(op Operator, g *Function) (*Function, error) {
	m := f.mgr
	if !op.valid() {
		return nil, fmt.Errorf("operator %s in call to Apply: %w", op, ErrInvalidOperator)
	}
	if err := m.checkptr(g); err != nil {
		return nil, fmt.Errorf("wrong operand in call to Apply %s: %w", op, err)
	}
	return m.runOp(func() (int32, error) {
		return m.applyRec(op, f.id, g.id, 0)
	})
}

// And returns the conjunction of f and g.
func (f *Function) And(g *Function) (*Function, error) { return f.Apply(OPand, g) }

// Or returns the disjunction of f and g.
func (f *Function) Or(g *Function) (*Function, error) { return f.Apply(OPor, g) }

// Xor returns the exclusive disjunction of f and g.
func (f *Function) Xor(g *Function) (*Function, error) { return f.Apply(OPxor, g) }

// Nand returns the negated conjunction of f and g.
func (f *Function) Nand(g *Function) (*Function, error) { return f.Apply(OPnand, g) }

// Nor returns the negated disjunction of f and g.
func (f *Function) Nor(g *Function) (*Function, error) { return f.Apply(OPnor, g) }

// Imp returns the implication f -> g.
func (f *Function) Imp(g *Function) (*Function, error) { return f.Apply(OPimp, g) }

// ImpStrict returns the strict implication !f & g.
func (f *Function) ImpStrict(g *Function) (*Function, error) { return f.Apply(OPimpstrict, g) }

// Equiv returns the equivalence of f and g.
func (f *Function) Equiv(g *Function) (*Function, error) { return f.Apply(OPequiv, g) }

// Ite computes the if-then-else expression (f & g) | (!f & h), more
// efficiently than with the three operations taken separately.
func (f *Function) Ite(g, h *Function) (*Function, error) {
	m := f.mgr
	if err := m.checkptr(g); err != nil {
		return nil, fmt.Errorf("wrong operand g in call to Ite: %w", err)
	}
	if err := m.checkptr(h); err != nil {
		return nil, fmt.Errorf("wrong operand h in call to Ite: %w", err)
	}
	return m.runOp(func() (int32, error) {
		return m.iteRec(f.id, g.id, h.id, 0)
	})
}

// Cofactors returns the pair of cofactors of f with respect to the variable
// at its root. This is a constant-time operation that simply reads the two
// children; a terminal is its own pair of cofactors.
func (f *Function) Cofactors() (ftrue, ffalse *Function) {
	m := f.mgr
	m.world.RLock()
	defer m.world.RUnlock()
	if f.id < 2 {
		return f, f
	}
	return m.retnode(m.high(f.id)), m.retnode(m.low(f.id))
}

// CofactorTrue returns the cofactor of f with its root variable fixed to
// true.
func (f *Function) CofactorTrue() *Function {
	ftrue, _ := f.Cofactors()
	return ftrue
}

// CofactorFalse returns the cofactor of f with its root variable fixed to
// false.
func (f *Function) CofactorFalse() *Function {
	_, ffalse := f.Cofactors()
	return ffalse
}

// Var returns the level of the variable at the root of f, or -1 when f is a
// constant.
func (f *Function) Var() int {
	f.mgr.world.RLock()
	defer f.mgr.world.RUnlock()
	if f.id < 2 {
		return -1
	}
	return int(f.mgr.level(f.id))
}

// ************************************************************

func (m *Manager) notRec(n int32, depth int) (int32, error) {
	if n == bddfalse {
		return bddtrue, nil
	}
	if n == bddtrue {
		return bddfalse, nil
	}
	if res, ok := m.cache.lookup(opNot, n, -1, -1); ok {
		return res, nil
	}
	low, high, err := m.pool.fork(depth,
		func() (int32, error) { return m.notRec(m.low(n), depth+1) },
		func() (int32, error) { return m.notRec(m.high(n), depth+1) },
	)
	if err != nil {
		return -1, err
	}
	res, err := m.makenode(m.level(n), low, high)
	if err != nil {
		return -1, err
	}
	m.cache.insert(opNot, n, -1, -1, res)
	return res, nil
}

// terminalBin resolves the binary operation (op, f, g) when a terminal rule
// applies. It returns the resolved node and neg == true when the result is
// the negation of that node. These short-circuit rules are essential for
// performance: they cut recursion as soon as one operand forces the result,
// regardless of the size of the other.
func (m *Manager) terminalBin(op Operator, f, g int32) (res int32, neg bool, ok bool) {
	switch op {
	case OPand:
		switch {
		case f == g:
			return f, false, true
		case f == bddfalse || g == bddfalse:
			return bddfalse, false, true
		case f == bddtrue:
			return g, false, true
		case g == bddtrue:
			return f, false, true
		}
	case OPor:
		switch {
		case f == g:
			return f, false, true
		case f == bddtrue || g == bddtrue:
			return bddtrue, false, true
		case f == bddfalse:
			return g, false, true
		case g == bddfalse:
			return f, false, true
		}
	case OPxor:
		switch {
		case f == g:
			return bddfalse, false, true
		case f == bddfalse:
			return g, false, true
		case g == bddfalse:
			return f, false, true
		case f == bddtrue:
			return g, true, true
		case g == bddtrue:
			return f, true, true
		}
	case OPnand:
		switch {
		case f == bddfalse || g == bddfalse:
			return bddtrue, false, true
		case f == g:
			return f, true, true
		case f == bddtrue:
			return g, true, true
		case g == bddtrue:
			return f, true, true
		}
	case OPnor:
		switch {
		case f == bddtrue || g == bddtrue:
			return bddfalse, false, true
		case f == g:
			return f, true, true
		case f == bddfalse:
			return g, true, true
		case g == bddfalse:
			return f, true, true
		}
	case OPimp:
		switch {
		case f == bddfalse || g == bddtrue || f == g:
			return bddtrue, false, true
		case f == bddtrue:
			return g, false, true
		case g == bddfalse:
			return f, true, true
		}
	case OPimpstrict:
		switch {
		case f == bddtrue || g == bddfalse || f == g:
			return bddfalse, false, true
		case f == bddfalse:
			return g, false, true
		case g == bddtrue:
			return f, true, true
		}
	case OPequiv:
		switch {
		case f == g:
			return bddtrue, false, true
		case f == bddtrue:
			return g, false, true
		case g == bddtrue:
			return f, false, true
		case f == bddfalse:
			return g, true, true
		case g == bddfalse:
			return f, true, true
		}
	}
	return -1, false, false
}

func (m *Manager) applyRec(op Operator, f, g int32, depth int) (int32, error) {
	if !op.valid() {
		return -1, ErrInvalidOperator
	}
	if x, neg, ok := m.terminalBin(op, f, g); ok {
		if neg {
			return m.notRec(x, depth)
		}
		return x, nil
	}
	// the constant-constant case is fully covered by the rules above, but we
	// keep the table as a safety net
	if f < 2 && g < 2 {
		return opres[op][f][g], nil
	}
	if op.commutative() && f > g {
		f, g = g, f
	}
	if res, ok := m.cache.lookup(op, f, g, -1); ok {
		return res, nil
	}
	flevel := m.level(f)
	glevel := m.level(g)
	level := min(flevel, glevel)
	fl, fh := f, f
	if flevel == level {
		fl, fh = m.low(f), m.high(f)
	}
	gl, gh := g, g
	if glevel == level {
		gl, gh = m.low(g), m.high(g)
	}
	low, high, err := m.pool.fork(depth,
		func() (int32, error) { return m.applyRec(op, fl, gl, depth+1) },
		func() (int32, error) { return m.applyRec(op, fh, gh, depth+1) },
	)
	if err != nil {
		return -1, err
	}
	res, err := m.makenode(level, low, high)
	if err != nil {
		return -1, err
	}
	m.cache.insert(op, f, g, -1, res)
	return res, nil
}

func (m *Manager) iteRec(f, g, h int32, depth int) (int32, error) {
	// Terminal cases. Most reduce the ternary operation to a cheaper binary
	// one.
	switch {
	case g == h:
		return g, nil
	case f == g:
		return m.applyRec(OPor, f, h, depth)
	case f == h:
		return m.applyRec(OPand, f, g, depth)
	case f == bddtrue:
		return g, nil
	case f == bddfalse:
		return h, nil
	}
	switch {
	case g < 2 && h < 2:
		// g != h is handled above, so this is (f ? 1 : 0) or (f ? 0 : 1)
		if g == bddfalse {
			return m.notRec(f, depth)
		}
		return f, nil
	case g < 2:
		if g == bddtrue {
			return m.applyRec(OPor, f, h, depth)
		}
		return m.applyRec(OPimpstrict, f, h, depth)
	case h < 2:
		if h == bddtrue {
			return m.applyRec(OPimp, f, g, depth)
		}
		return m.applyRec(OPand, f, g, depth)
	}
	if res, ok := m.cache.lookup(opIte, f, g, h); ok {
		return res, nil
	}
	level := min(m.level(f), min(m.level(g), m.level(h)))
	fl, fh := f, f
	if m.level(f) == level {
		fl, fh = m.low(f), m.high(f)
	}
	gl, gh := g, g
	if m.level(g) == level {
		gl, gh = m.low(g), m.high(g)
	}
	hl, hh := h, h
	if m.level(h) == level {
		hl, hh = m.low(h), m.high(h)
	}
	low, high, err := m.pool.fork(depth,
		func() (int32, error) { return m.iteRec(fl, gl, hl, depth+1) },
		func() (int32, error) { return m.iteRec(fh, gh, hh, depth+1) },
	)
	if err != nil {
		return -1, err
	}
	res, err := m.makenode(level, low, high)
	if err != nil {
		return -1, err
	}
	m.cache.insert(opIte, f, g, h, res)
	return res, nil
}
