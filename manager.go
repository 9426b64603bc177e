// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package obdd

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// serialCounter is the source of manager serial numbers, used only to give
// handles a stable total order. All the actual state of a manager is owned
// by the Manager value itself.
var serialCounter uint64

// Manager owns one shared, hash-consed node graph together with the tables
// and the worker pool used to compute over it. A manager is the unit of
// isolation: handles from different managers can never be combined. All
// methods are safe for concurrent use.
type Manager struct {
	serial uint64

	// world is held for read by every operation and for write by the
	// reclamation pass, so a sweep never observes a half-built diagram.
	world sync.RWMutex

	alloc    sync.Mutex // guards the free list
	nodes    []node     // slots 0 and 1 are the False and True terminals
	freepos  int32      // first free slot, 0 if none
	freenum  int32      // number of free slots
	capacity int        // total number of inner-node slots
	produced int64      // total number of nodes ever created

	unique [uniqueShards]uniqueShard
	cache  *applyCache
	pool   *pool

	vmu      sync.RWMutex
	varset   [][2]int32 // positive and negative literal node for each level
	varnames []string

	constfalse *Function
	consttrue  *Function

	substID uint32 // id source for substitution objects
	gcseq   uint64 // bumped by every reclamation pass
	gchist  []gcpoint

	uniqueAccess uint64
	uniqueHit    uint64
	uniqueMiss   uint64
}

// New returns a manager with room for innerNodeCapacity inner nodes,
// applyCacheCapacity operation-cache entries and a pool of workers
// goroutines for the apply-family operations. The three parameters are fixed
// for the lifetime of the manager: exceeding the node capacity triggers a
// reclamation pass and, if that frees nothing, an ErrOutOfCapacity failure.
// A non-positive cache capacity picks a default proportional to the node
// capacity; a worker count below one means no parallelism.
func New(innerNodeCapacity int, applyCacheCapacity int, workers int) (*Manager, error) {
	if innerNodeCapacity < 2 {
		return nil, fmt.Errorf("bad inner node capacity (%d)", innerNodeCapacity)
	}
	if applyCacheCapacity <= 0 {
		applyCacheCapacity = innerNodeCapacity/5 + 1
	}
	if workers < 1 {
		workers = 1
	}
	m := &Manager{
		serial:   atomic.AddUint64(&serialCounter, 1),
		nodes:    make([]node, innerNodeCapacity+2),
		capacity: innerNodeCapacity,
		cache:    newApplyCache(applyCacheCapacity),
		pool:     newPool(workers),
	}
	m.nodes[bddfalse] = node{level: termLevel, low: bddfalse, high: bddfalse, refcou: _MAXREFCOUNT}
	m.nodes[bddtrue] = node{level: termLevel, low: bddtrue, high: bddtrue, refcou: _MAXREFCOUNT}
	for k := 2; k < len(m.nodes); k++ {
		m.nodes[k] = node{low: -1, high: int32(k + 1)}
	}
	m.nodes[len(m.nodes)-1].high = 0
	m.freepos = 2
	m.freenum = int32(innerNodeCapacity)
	for k := range m.unique {
		m.unique[k].tab = make(map[triple]int32)
	}
	m.constfalse = &Function{mgr: m, id: bddfalse}
	m.consttrue = &Function{mgr: m, id: bddtrue}
	return m, nil
}

// True returns the constant true function.
func (m *Manager) True() *Function {
	return m.consttrue
}

// False returns the constant false function.
func (m *Manager) False() *Function {
	return m.constfalse
}

// From returns a constant function from a boolean value.
func (m *Manager) From(v bool) *Function {
	if v {
		return m.consttrue
	}
	return m.constfalse
}

// NewVar appends a fresh variable at the end of the variable order and
// returns its positive literal. Variables are immortal for the lifetime of
// the manager. Like every allocating operation, a full node table triggers a
// reclamation pass before the call fails with ErrOutOfCapacity.
func (m *Manager) NewVar() (*Function, error) {
	for attempt := 0; ; attempt++ {
		f, err := m.newvar()
		if err != errDepleted {
			return f, err
		}
		if attempt > 0 {
			return nil, fmt.Errorf("cannot allocate variable %d: %w", m.Varnum(), ErrOutOfCapacity)
		}
		m.collect()
	}
}

func (m *Manager) newvar() (*Function, error) {
	m.world.RLock()
	defer m.world.RUnlock()
	m.vmu.Lock()
	defer m.vmu.Unlock()
	level := int32(len(m.varset))
	if level >= _MAXVAR {
		return nil, fmt.Errorf("too many variables (%d)", level)
	}
	v0, err := m.makenode(level, bddfalse, bddtrue)
	if err != nil {
		return nil, err
	}
	v1, err := m.makenode(level, bddtrue, bddfalse)
	if err != nil {
		// v0 is still unrooted at this point, so an aborted pair leaves
		// nothing behind once a reclamation pass runs
		return nil, err
	}
	// pin the two literals only once both exist
	atomic.StoreInt32(&m.nodes[v0].refcou, _MAXREFCOUNT)
	atomic.StoreInt32(&m.nodes[v1].refcou, _MAXREFCOUNT)
	m.varset = append(m.varset, [2]int32{v0, v1})
	m.varnames = append(m.varnames, fmt.Sprintf("x%d", level))
	return &Function{mgr: m, id: v0}, nil
}

// Varnum returns the number of declared variables.
func (m *Manager) Varnum() int {
	m.vmu.RLock()
	defer m.vmu.RUnlock()
	return len(m.varset)
}

// Ithvar returns the positive literal of the i'th variable. The variable
// must have been created with NewVar beforehand.
func (m *Manager) Ithvar(i int) (*Function, error) {
	m.vmu.RLock()
	defer m.vmu.RUnlock()
	if i < 0 || i >= len(m.varset) {
		return nil, fmt.Errorf("unknown variable (%d)", i)
	}
	return &Function{mgr: m, id: m.varset[i][0]}, nil
}

// NIthvar returns the negation of the i'th variable. See Ithvar.
func (m *Manager) NIthvar(i int) (*Function, error) {
	m.vmu.RLock()
	defer m.vmu.RUnlock()
	if i < 0 || i >= len(m.varset) {
		return nil, fmt.Errorf("unknown variable (%d)", i)
	}
	return &Function{mgr: m, id: m.varset[i][1]}, nil
}

// VarName returns the display name of the i'th variable, "x<i>" unless
// SetVarName changed it.
func (m *Manager) VarName(i int) string {
	m.vmu.RLock()
	defer m.vmu.RUnlock()
	if i < 0 || i >= len(m.varnames) {
		return ""
	}
	return m.varnames[i]
}

// SetVarName associates a display name to the i'th variable. Names are used
// by the export surface only and have no semantic effect.
func (m *Manager) SetVarName(i int, name string) error {
	m.vmu.Lock()
	defer m.vmu.Unlock()
	if i < 0 || i >= len(m.varnames) {
		return fmt.Errorf("unknown variable (%d)", i)
	}
	m.varnames[i] = name
	return nil
}

// NumInnerNodes returns the manager-wide count of live inner nodes.
func (m *Manager) NumInnerNodes() int {
	m.alloc.Lock()
	defer m.alloc.Unlock()
	return m.capacity - int(m.freenum)
}

// checkptr verifies that f is a function owned by this manager.
func (m *Manager) checkptr(f *Function) error {
	if f == nil {
		return fmt.Errorf("nil function: %w", ErrMalformedAssignment)
	}
	if f.mgr != m {
		return ErrCrossManager
	}
	return nil
}

// runOp runs one top-level operation under the world read lock, wrapping the
// resulting node into a counted handle. When the recursion runs out of free
// slots, it reclaims unused nodes once and restarts the computation from
// scratch: the aborted attempt left nothing rooted, so its transient nodes
// are swept, and its cache entries were reset together with the rest of the
// cache.
func (m *Manager) runOp(compute func() (int32, error)) (*Function, error) {
	m.maybeCollect()
	for attempt := 0; ; attempt++ {
		m.world.RLock()
		n, err := compute()
		var res *Function
		if err == nil {
			res = m.retnode(n)
		}
		m.world.RUnlock()
		if err == nil {
			return res, nil
		}
		if err != errDepleted {
			return nil, err
		}
		if attempt > 0 {
			return nil, ErrOutOfCapacity
		}
		m.collect()
	}
}

// Stats returns a short textual description of the state of the manager.
func (m *Manager) Stats() string {
	m.alloc.Lock()
	free := int(m.freenum)
	produced := m.produced
	ngc := len(m.gchist)
	m.alloc.Unlock()
	res := fmt.Sprintf("Varnum:     %d\n", m.Varnum())
	res += fmt.Sprintf("Allocated:  %d\n", m.capacity)
	res += fmt.Sprintf("Produced:   %d\n", produced)
	r := (float64(free) / float64(m.capacity)) * 100
	res += fmt.Sprintf("Free:       %d  (%.3g %%)\n", free, r)
	res += fmt.Sprintf("Used:       %d  (%.3g %%)\n", m.capacity-free, 100.0-r)
	res += fmt.Sprintf("Size:       %s\n", humanSize(m.capacity, unsafe.Sizeof(node{})))
	res += fmt.Sprintf("# of GC:    %d", ngc)
	if _DEBUG {
		res += fmt.Sprintf("\nUnique Access:  %d\n", atomic.LoadUint64(&m.uniqueAccess))
		res += fmt.Sprintf("Unique Hit:     %d\n", atomic.LoadUint64(&m.uniqueHit))
		res += fmt.Sprintf("Unique Miss:    %d\n", atomic.LoadUint64(&m.uniqueMiss))
		res += fmt.Sprintf("Operator Hits:  %d\n", atomic.LoadUint64(&m.cache.opHit))
		res += fmt.Sprintf("Operator Miss:  %d", atomic.LoadUint64(&m.cache.opMiss))
	}
	return res
}

// humanSize returns a human readable representation of count items of the
// given unit size.
func humanSize(count int, size uintptr) string {
	total := float64(count) * float64(size)
	switch {
	case total >= 1<<30:
		return fmt.Sprintf("%.2f GB", total/(1<<30))
	case total >= 1<<20:
		return fmt.Sprintf("%.2f MB", total/(1<<20))
	case total >= 1<<10:
		return fmt.Sprintf("%.2f kB", total/(1<<10))
	}
	return fmt.Sprintf("%.0f B", total)
}
