// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package obdd

import (
	"sync"
	"testing"
)

//********************************************************************************************

// buildParity returns the exclusive disjunction of the first nvars
// variables, a function whose diagram touches every level.
func buildParity(t *testing.T, m *Manager, nvars int) *Function {
	ck := checker{t}
	t.Helper()
	f := m.False()
	for i := 0; i < nvars; i++ {
		f = ck.must(f.Xor(ith(t, m, i)))
	}
	return f
}

// TestWorkersAgree checks that a manager splitting its operations over
// several workers computes the same canonical results as a serial one.
func TestWorkersAgree(t *testing.T) {
	ck := checker{t}
	nvars := 14
	serial := newTestMgr(t, 100000, 10000, 1, nvars)
	parallel := newTestMgr(t, 100000, 10000, 4, nvars)

	fs := buildParity(t, serial, nvars)
	fp := buildParity(t, parallel, nvars)
	if expected, actual := fs.NodeCount(), fp.NodeCount(); actual != expected {
		t.Errorf("NodeCount with 4 workers: expected %d, actual %d", expected, actual)
	}
	if expected, actual := fs.SatCountFloat(nvars), fp.SatCountFloat(nvars); actual != expected {
		t.Errorf("SatCountFloat with 4 workers: expected %g, actual %g", expected, actual)
	}
	set := ck.must(parallel.Makeset([]int{0, 3, 7}))
	q := ck.must(fp.Exist(set))
	sset := ck.must(serial.Makeset([]int{0, 3, 7}))
	sq := ck.must(fs.Exist(sset))
	if expected, actual := sq.SatCountFloat(nvars), q.SatCountFloat(nvars); actual != expected {
		t.Errorf("SatCountFloat after Exist with 4 workers: expected %g, actual %g", expected, actual)
	}
}

// TestConcurrentClients runs several goroutines computing on the same
// manager at the same time. Since results are canonical, every client must
// end on the identical node.
func TestConcurrentClients(t *testing.T) {
	nvars := 10
	clients := 8
	m := newTestMgr(t, 100000, 10000, 2, nvars)

	results := make([]*Function, clients)
	var wg sync.WaitGroup
	for k := 0; k < clients; k++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			// build x0&x1 | x2&x3 | ... with a different rotation of the
			// pairs for each client
			npairs := nvars / 2
			f := m.False()
			for p := 0; p < npairs; p++ {
				i := 2 * ((p + k) % npairs)
				a, err := m.Ithvar(i)
				if err != nil {
					return
				}
				b, err := m.Ithvar(i + 1)
				if err != nil {
					return
				}
				pair, err := a.And(b)
				if err != nil {
					return
				}
				if f, err = f.Or(pair); err != nil {
					return
				}
			}
			results[k] = f
		}(k)
	}
	wg.Wait()
	for k := 1; k < clients; k++ {
		if results[k] == nil || results[0] == nil {
			t.Fatalf("client %d did not finish", k)
		}
		if !results[k].Eq(results[0]) {
			t.Errorf("client %d: expected node %d, actual %d", k, results[0].id, results[k].id)
		}
	}
}
