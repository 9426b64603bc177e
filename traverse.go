// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package obdd

import (
	"fmt"
	"sort"
)

// NodeCount returns the number of nodes in the diagram of f. Shared
// subgraphs are counted once, and by convention the terminals reachable from
// f count as a single node, so that the two constant functions have size one
// and a literal has size two.
func (f *Function) NodeCount() int {
	m := f.mgr
	m.world.RLock()
	defer m.world.RUnlock()
	seen := make(map[int32]bool)
	var visit func(n int32)
	visit = func(n int32) {
		if n < 2 || seen[n] {
			return
		}
		seen[n] = true
		visit(m.low(n))
		visit(m.high(n))
	}
	visit(f.id)
	return len(seen) + 1
}

// AllNodes applies fn to every node reachable from one of the roots, or to
// every live node of the manager when no root is given. Nodes are visited in
// increasing slot order, terminals first, so the traversal is stable between
// calls on an unchanged diagram. The level reported for a terminal is the
// number of declared variables, one past every real level. Traversal stops
// on the first error from fn, which is returned.
func (m *Manager) AllNodes(fn func(id, level, low, high int) error, roots ...*Function) error {
	m.world.RLock()
	defer m.world.RUnlock()
	nvars := m.Varnum()
	report := func(n int32) error {
		if n < 2 {
			return fn(int(n), nvars, int(n), int(n))
		}
		return fn(int(n), int(m.level(n)), int(m.low(n)), int(m.high(n)))
	}
	if len(roots) == 0 {
		for n := int32(0); n < int32(len(m.nodes)); n++ {
			if n >= 2 && m.nodes[n].low == -1 {
				continue
			}
			if err := report(n); err != nil {
				return err
			}
		}
		return nil
	}
	seen := make(map[int32]bool)
	var visit func(n int32)
	visit = func(n int32) {
		if seen[n] {
			return
		}
		seen[n] = true
		if n < 2 {
			return
		}
		visit(m.low(n))
		visit(m.high(n))
	}
	for k, root := range roots {
		if err := m.checkptr(root); err != nil {
			return fmt.Errorf("wrong root %d in call to AllNodes: %w", k, err)
		}
		visit(root.id)
	}
	order := make([]int32, 0, len(seen))
	for n := range seen {
		order = append(order, n)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	for _, n := range order {
		if err := report(n); err != nil {
			return err
		}
	}
	return nil
}
