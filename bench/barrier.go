package bench

import "sync"

// barrier is a reusable synchronization point for n participants.
// Wait blocks until all n have arrived, releases them together, and
// resets for the next phase. The parallel sampler uses one barrier on
// each side of the timed region so that worker startup and teardown
// stay outside the measured window.
type barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	n       int
	arrived int
	gen     uint64
}

func newBarrier(n int) *barrier {
	b := &barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until all participants of the current generation have
// called Wait.
func (b *barrier) Wait() {
	b.mu.Lock()
	gen := b.gen
	b.arrived++
	if b.arrived == b.n {
		b.arrived = 0
		b.gen++
		b.cond.Broadcast()
		b.mu.Unlock()
		return
	}
	for gen == b.gen {
		b.cond.Wait()
	}
	b.mu.Unlock()
}
