// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package obdd

import (
	"runtime"
	"sync/atomic"
)

// gcHighWater is the occupancy percentage above which an operation starts
// with an opportunistic reclamation pass.
const gcHighWater = 90

// gcpoint is a snapshot of the table taken at each reclamation, kept as a
// small history for Stats and tests.
type gcpoint struct {
	nodes     int // total number of slots in the node table
	freenodes int // number of free slots after the pass
}

// maybeCollect runs a reclamation pass when table occupancy crossed the high
// water mark. Called at top-level operation boundaries only.
func (m *Manager) maybeCollect() {
	m.alloc.Lock()
	free := int(m.freenum)
	m.alloc.Unlock()
	if free*100 < m.capacity*(100-gcHighWater) {
		m.collect()
	}
}

// collect is the mark-and-sweep reclamation pass. It marks every node
// reachable from an externally referenced one, then returns all other slots
// to the free list. Operation caches are invalidated wholesale, since their
// entries may name swept nodes. The pass owns the world write lock, so no
// operation is in flight and transient nodes of aborted computations are
// unrooted by construction.
func (m *Manager) collect() {
	// Give unreachable handles a chance to run their finalizers and drop
	// their counts before we decide what is garbage.
	runtime.GC()

	m.world.Lock()
	defer m.world.Unlock()

	if _LOGLEVEL > 0 {
		logf("starting GC (free: %d)", m.freenum)
	}

	marked := make([]uint64, (len(m.nodes)+63)/64)
	var markrec func(n int32)
	markrec = func(n int32) {
		if n < 2 || m.nodes[n].low == -1 || marked[n>>6]&(1<<(n&63)) != 0 {
			return
		}
		marked[n>>6] |= 1 << (n & 63)
		markrec(m.nodes[n].low)
		markrec(m.nodes[n].high)
	}
	for k := int32(2); k < int32(len(m.nodes)); k++ {
		if m.nodes[k].low != -1 && atomic.LoadInt32(&m.nodes[k].refcou) > 0 {
			markrec(k)
		}
	}

	// Sweep pass: rebuild the free list, returning every unmarked slot.
	// Surviving nodes do not move.
	m.freepos = 0
	m.freenum = 0
	for n := int32(len(m.nodes)) - 1; n > 1; n-- {
		if m.nodes[n].low != -1 && marked[n>>6]&(1<<(n&63)) != 0 {
			continue
		}
		if m.nodes[n].low != -1 {
			m.delnode(n)
		}
		m.nodes[n].low = -1
		m.nodes[n].high = m.freepos
		m.freepos = n
		m.freenum++
	}

	m.cache.reset()
	atomic.AddUint64(&m.gcseq, 1)
	// the history is also read by Stats, which does not hold the world lock
	m.alloc.Lock()
	m.gchist = append(m.gchist, gcpoint{nodes: len(m.nodes), freenodes: int(m.freenum)})
	m.alloc.Unlock()

	if _LOGLEVEL > 0 {
		logf("end GC (free: %d)", m.freenum)
	}
}

// GC explicitly starts a reclamation pass.
func (m *Manager) GC() {
	m.collect()
}
