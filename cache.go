// Copyright 2021. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package obdd

import (
	"sync"
	"sync/atomic"
)

// cacheStripes is the number of locks striping the operation cache. Must be
// a power of two.
const cacheStripes = 64

// cacheData is one entry of the operation cache: an operator tag, the
// identities of up to three operands, and the resulting node. Because of
// canonicity, identity comparison of operands is all that is ever needed.
type cacheData struct {
	a, b, c int32
	op      Operator
	res     int32
}

// applyCache memoizes the results of the recursive operations. It is a
// direct-mapped table with overwrite-on-collision eviction: bounded, never
// starving, and correctness never depends on a hit. Entries are invalidated
// wholesale when a reclamation pass runs, since they may name collected
// nodes.
type applyCache struct {
	stripes [cacheStripes]sync.Mutex
	table   []cacheData
	opHit   uint64
	opMiss  uint64
}

func newApplyCache(size int) *applyCache {
	c := &applyCache{table: make([]cacheData, primeGte(size))}
	c.reset()
	return c
}

// reset invalidates every entry. Callers must guarantee that no lookup or
// insert runs concurrently (in practice: the world write lock).
func (c *applyCache) reset() {
	for k := range c.table {
		c.table[k].a = -1
	}
}

// pair maps a pair of integers to a single hash value. Adapted from the
// pairing function used for the table indexes, with wrap-around instead of
// modular steps since we only need dispersion here.
func pair(a, b uint64) uint64 {
	return (a+b)*(a+b+1)/2 + a
}

func (c *applyCache) slot(op Operator, a, b, d int32) int {
	h := pair(pair(pair(uint64(op), uint64(uint32(a))), uint64(uint32(b))), uint64(uint32(d)))
	return int(h % uint64(len(c.table)))
}

// lookup returns the cached result for (op, a, b, d), if present.
func (c *applyCache) lookup(op Operator, a, b, d int32) (int32, bool) {
	slot := c.slot(op, a, b, d)
	stripe := &c.stripes[slot&(cacheStripes-1)]
	stripe.Lock()
	entry := c.table[slot]
	stripe.Unlock()
	if entry.a == a && entry.b == b && entry.c == d && entry.op == op {
		if _DEBUG {
			atomic.AddUint64(&c.opHit, 1)
		}
		return entry.res, true
	}
	if _DEBUG {
		atomic.AddUint64(&c.opMiss, 1)
	}
	return -1, false
}

// insert records the result for (op, a, b, d), possibly evicting whatever
// entry hashed to the same slot.
func (c *applyCache) insert(op Operator, a, b, d, res int32) {
	slot := c.slot(op, a, b, d)
	stripe := &c.stripes[slot&(cacheStripes-1)]
	stripe.Lock()
	c.table[slot] = cacheData{a: a, b: b, c: d, op: op, res: res}
	stripe.Unlock()
}
