// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package obdd

import "golang.org/x/sync/semaphore"

// parallelDepth bounds the recursion depth below which apply operations may
// fork. Splitting deeper subproblems costs more in scheduling than it gains,
// since subdiagrams shrink geometrically.
const parallelDepth = 8

// pool is the fixed-size worker pool of a manager. The first worker is the
// goroutine calling into the engine, so a pool of n workers owns n-1 tokens:
// a fork takes a token to run its second branch on another goroutine and
// computes inline when none is available. TryAcquire keeps the recursion
// deadlock-free, as a fork never waits for a token held by one of its
// ancestors.
type pool struct {
	sem *semaphore.Weighted
}

func newPool(workers int) *pool {
	if workers <= 1 {
		return &pool{}
	}
	return &pool{sem: semaphore.NewWeighted(int64(workers - 1))}
}

// fork computes fa and fb, in parallel when depth and tokens allow, and
// returns both results. If either computation fails the first error wins.
func (p *pool) fork(depth int, fa, fb func() (int32, error)) (int32, int32, error) {
	if p.sem == nil || depth >= parallelDepth || !p.sem.TryAcquire(1) {
		ra, err := fa()
		if err != nil {
			return -1, -1, err
		}
		rb, err := fb()
		if err != nil {
			return -1, -1, err
		}
		return ra, rb, nil
	}
	var (
		rb   int32
		errb error
		done = make(chan struct{})
	)
	go func() {
		defer close(done)
		defer p.sem.Release(1)
		rb, errb = fb()
	}()
	ra, erra := fa()
	<-done
	if erra != nil {
		return -1, -1, erra
	}
	if errb != nil {
		return -1, -1, errb
	}
	return ra, rb, nil
}
