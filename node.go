// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package obdd

import (
	"math"
	"runtime"
	"sync/atomic"
)

// Node indexes for the two terminal constants. They occupy the first two
// slots of every node table and are immortal for the lifetime of a manager.
const (
	bddfalse int32 = 0
	bddtrue  int32 = 1
)

// termLevel is the level of the two constant nodes. It is above every
// possible variable, so that the ordering invariant holds on every
// root-to-terminal path without special cases.
const termLevel int32 = math.MaxInt32

// _MAXVAR is the maximal number of variables in a manager.
const _MAXVAR int32 = 0x1FFFFF

// _MAXREFCOUNT is the maximal value of the reference counter. It is also
// used to stick nodes (constants and variables) in the node table.
const _MAXREFCOUNT int32 = math.MaxInt32

// node is one slot of the node table. A slot is either an inner decision
// node, a terminal, or free. Free slots have low == -1 and chain the free
// list through their high field.
type node struct {
	level  int32 // order of the variable in the diagram
	low    int32 // false branch, or -1 when the slot is free
	high   int32 // true branch, or the next free slot
	refcou int32 // count of external references, updated atomically
}

// Function is a reference-counted handle on a node of a binary decision
// diagram. Handles are only created by a Manager and by combining existing
// handles; two handles are semantically equal exactly when Eq returns true,
// which is a constant-time identity test thanks to canonicity.
type Function struct {
	mgr *Manager
	id  int32
}

// Eq reports whether f and g reference the identical node in the identical
// manager. Because diagrams are a strong canonical form, this is equivalent
// to semantic equality of the two Boolean functions.
func (f *Function) Eq(g *Function) bool {
	return f.mgr == g.mgr && f.id == g.id
}

// Cmp compares f and g according to an arbitrary but stable total order,
// returning -1, 0, or +1. The order is not preserved if a node is reclaimed
// and later recreated, and it never relates functions from different
// managers to their structural counterparts.
func (f *Function) Cmp(g *Function) int {
	switch {
	case f.mgr.serial < g.mgr.serial:
		return -1
	case f.mgr.serial > g.mgr.serial:
		return 1
	case f.id < g.id:
		return -1
	case f.id > g.id:
		return 1
	}
	return 0
}

// Manager returns the manager owning f.
func (f *Function) Manager() *Manager {
	return f.mgr
}

// retnode wraps a node index into an external handle, incrementing its
// reference count and arming a finalizer so that the count drops when the
// handle becomes unreachable. Must be called while the caller still holds
// the world read lock, so that a sweep cannot run between the computation of
// n and the count increment.
func (m *Manager) retnode(n int32) *Function {
	if n == bddfalse {
		return m.constfalse
	}
	if n == bddtrue {
		return m.consttrue
	}
	f := &Function{mgr: m, id: n}
	if atomic.LoadInt32(&m.nodes[n].refcou) < _MAXREFCOUNT {
		atomic.AddInt32(&m.nodes[n].refcou, 1)
		runtime.SetFinalizer(f, (*Function).release)
	}
	return f
}

// release is the handle finalizer. It takes the world read lock so that it
// never races with a sweep rewriting the slot.
func (f *Function) release() {
	m := f.mgr
	m.world.RLock()
	if c := atomic.LoadInt32(&m.nodes[f.id].refcou); c > 0 && c < _MAXREFCOUNT {
		atomic.AddInt32(&m.nodes[f.id].refcou, -1)
	}
	m.world.RUnlock()
}

// Lbool is a lifted boolean: True, False, or Undef. Assignment vectors
// returned by PickCube use Undef for "don't care" variables, keeping the
// vector at a fixed width of one entry per variable.
type Lbool int8

const (
	Undef Lbool = 0
	True  Lbool = 1
	False Lbool = -1
)

// lift returns the Lbool corresponding to b.
func lift(b bool) Lbool {
	if b {
		return True
	}
	return False
}

func (l Lbool) String() string {
	switch l {
	case True:
		return "1"
	case False:
		return "0"
	default:
		return "-"
	}
}
