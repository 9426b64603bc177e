// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package obdd

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Substitution is a prepared mapping from variables to replacement
// functions, applied with the Substitute operation. Preparing the mapping
// once lets several calls share the same memoization table. A substitution
// is owned by the manager of its replacement functions and can only be used
// with functions of that manager.
type Substitution struct {
	mgr   *Manager
	id    uint32
	image []int32     // replacement node for each level up to the last mapped one
	pins  []*Function // keeps the replacement functions alive across reclamations

	mu    sync.Mutex
	seq   uint64 // reclamation sequence the memo table was built against
	cache map[int32]int32
}

// NewSubstitution prepares the simultaneous substitution of the given
// variables by the given replacement functions. All variables must be
// distinct literals created with NewVar or Ithvar, all functions must belong
// to the same manager, and the two slices must have the same length.
// Substitutions are simultaneous: with {x -> y, y -> x}, the two variables
// are swapped and x is not rewritten twice.
func (m *Manager) NewSubstitution(vars []*Function, images []*Function) (*Substitution, error) {
	if len(vars) != len(images) {
		return nil, fmt.Errorf("substitution with %d variables for %d images: %w", len(vars), len(images), ErrMalformedAssignment)
	}
	s := &Substitution{
		mgr:   m,
		id:    atomic.AddUint32(&m.substID, 1),
		pins:  make([]*Function, 0, 2*len(vars)),
		cache: make(map[int32]int32),
	}
	m.world.RLock()
	defer m.world.RUnlock()
	last := int32(-1)
	seen := make(map[int32]bool, len(vars))
	for k, v := range vars {
		if err := m.checkptr(v); err != nil {
			return nil, fmt.Errorf("wrong variable %d in substitution: %w", k, err)
		}
		if v.id < 2 || m.low(v.id) != bddfalse || m.high(v.id) != bddtrue {
			return nil, fmt.Errorf("substituted term %d is not a variable: %w", k, ErrMalformedAssignment)
		}
		if seen[v.id] {
			return nil, fmt.Errorf("variable %s substituted twice: %w", m.VarName(int(m.level(v.id))), ErrMalformedAssignment)
		}
		seen[v.id] = true
		if err := m.checkptr(images[k]); err != nil {
			return nil, fmt.Errorf("wrong image %d in substitution: %w", k, err)
		}
		if lvl := m.level(v.id); lvl > last {
			last = lvl
		}
	}
	m.vmu.RLock()
	s.image = make([]int32, last+1)
	for lvl := range s.image {
		s.image[lvl] = m.varset[lvl][0]
	}
	m.vmu.RUnlock()
	for k, v := range vars {
		s.image[m.level(v.id)] = images[k].id
		s.pins = append(s.pins, v, images[k])
	}
	s.seq = atomic.LoadUint64(&m.gcseq)
	return s, nil
}

// Substitute applies the prepared substitution s to f. Replacement functions
// may mention any variable, including the substituted ones: each occurrence
// of a mapped variable is rewritten once, against the original f.
func (f *Function) Substitute(s *Substitution) (*Function, error) {
	m := f.mgr
	if s == nil || s.mgr != m {
		return nil, fmt.Errorf("substitution in call to Substitute: %w", ErrCrossManager)
	}
	return m.runOp(func() (int32, error) {
		s.refresh(atomic.LoadUint64(&m.gcseq))
		return m.substRec(f.id, s, 0)
	})
}

// Compose returns the composition f[v/g], substituting the single variable v
// with the function g.
func (f *Function) Compose(v, g *Function) (*Function, error) {
	s, err := f.mgr.NewSubstitution([]*Function{v}, []*Function{g})
	if err != nil {
		return nil, err
	}
	return f.Substitute(s)
}

// refresh drops the memo table when a reclamation pass ran since it was
// filled: its entries may name reclaimed nodes.
func (s *Substitution) refresh(seq uint64) {
	s.mu.Lock()
	if s.seq != seq {
		s.seq = seq
		s.cache = make(map[int32]int32)
	}
	s.mu.Unlock()
}

func (s *Substitution) lookup(f int32) (int32, bool) {
	s.mu.Lock()
	res, ok := s.cache[f]
	s.mu.Unlock()
	return res, ok
}

func (s *Substitution) insert(f, res int32) {
	s.mu.Lock()
	s.cache[f] = res
	s.mu.Unlock()
}

// substRec rewrites f bottom-up. Since a replacement function can sit
// anywhere in the variable order, rewritten cofactors cannot simply be
// recombined with makenode: the node for level x is rebuilt as
// ite(image(x), high', low'), which restores ordering and canonicity
// whatever the levels occurring in the images.
func (m *Manager) substRec(f int32, s *Substitution, depth int) (int32, error) {
	if f < 2 {
		return f, nil
	}
	level := m.level(f)
	if int(level) >= len(s.image) {
		// below the last substituted level nothing can change
		return f, nil
	}
	if res, ok := s.lookup(f); ok {
		return res, nil
	}
	low, high, err := m.pool.fork(depth,
		func() (int32, error) { return m.substRec(m.low(f), s, depth+1) },
		func() (int32, error) { return m.substRec(m.high(f), s, depth+1) },
	)
	if err != nil {
		return -1, err
	}
	res, err := m.iteRec(s.image[level], high, low, depth)
	if err != nil {
		return -1, err
	}
	s.insert(f, res)
	return res, nil
}
