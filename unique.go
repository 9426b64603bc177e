// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package obdd

import (
	"sync"
	"sync/atomic"
)

// uniqueShards is the number of independent segments of the unicity table.
// A triple always hashes to the same shard, so holding one shard lock across
// lookup-and-insert is enough to guarantee that concurrent workers racing on
// the same triple converge to a single surviving node. Must be a power of
// two.
const uniqueShards = 64

// triple is the identity of an inner node in the unicity table.
type triple struct {
	level, low, high int32
}

type uniqueShard struct {
	mu  sync.Mutex
	tab map[triple]int32
}

func (m *Manager) shardOf(t triple) *uniqueShard {
	h := pair(pair(uint64(uint32(t.level)), uint64(uint32(t.low))), uint64(uint32(t.high)))
	return &m.unique[h&(uniqueShards-1)]
}

// makenode returns the node (level, low, high), reusing an existing node
// when possible. It is the single choke point through which all node
// creation passes: it enforces the reduction rule (low == high) and the
// unicity of every triple. It returns errDepleted when the free list is
// empty; the top-level operation wrapper then reclaims and retries.
func (m *Manager) makenode(level, low, high int32) (int32, error) {
	if _DEBUG {
		atomic.AddUint64(&m.uniqueAccess, 1)
	}
	// check whether children are equal, in which case we can skip the node
	if low == high {
		return low, nil
	}
	t := triple{level: level, low: low, high: high}
	s := m.shardOf(t)
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.tab[t]; ok {
		if _DEBUG {
			atomic.AddUint64(&m.uniqueHit, 1)
		}
		return n, nil
	}
	if _DEBUG {
		atomic.AddUint64(&m.uniqueMiss, 1)
	}
	// No existing node: build one in the first free slot. Allocation failures
	// are reported to the caller rather than handled here, since reclamation
	// must not run below an in-flight recursion.
	m.alloc.Lock()
	n := m.freepos
	if n == 0 {
		m.alloc.Unlock()
		return -1, errDepleted
	}
	m.freepos = m.nodes[n].high
	m.freenum--
	m.produced++
	m.alloc.Unlock()
	m.nodes[n] = node{level: level, low: low, high: high}
	s.tab[t] = n
	return n, nil
}

// delnode removes a swept node from the unicity table. Only called during a
// reclamation pass, under the world write lock.
func (m *Manager) delnode(n int32) {
	t := triple{level: m.nodes[n].level, low: m.nodes[n].low, high: m.nodes[n].high}
	delete(m.shardOf(t).tab, t)
}

func (m *Manager) level(n int32) int32 {
	if n < 2 {
		return termLevel
	}
	return m.nodes[n].level
}

func (m *Manager) low(n int32) int32 {
	return m.nodes[n].low
}

func (m *Manager) high(n int32) int32 {
	return m.nodes[n].high
}
