package bench

import (
	"math"
	"runtime"
	"sync"
	"unsafe"

	"github.com/sarchlab/membw/kernels"
)

// Default sampling parameters.
const (
	// DefaultSamples is the number of independent timed trials per
	// kernel; the minimum across trials is the reported signal.
	DefaultSamples = 5

	// DefaultTimes is the number of back-to-back kernel passes inside
	// one timed trial.
	DefaultTimes = 5
)

// BytesPerGiB is one binary gigabyte.
const BytesPerGiB = 1 << 30

// Result is the outcome of measuring one kernel: the minimum observed
// wall time for moving Bytes bytes.
type Result struct {
	Kernel  string
	Bytes   uint64
	Seconds float64
}

// GiBps reports the result's bandwidth in binary GiB/s.
func (r Result) GiBps() float64 {
	return float64(r.Bytes) / BytesPerGiB / r.Seconds
}

// Sampler times kernels over buffer views. A measurement is the
// minimum over Samples trials of the wall time for Times back-to-back
// passes. Wall-clock noise is one-sided (preemption and interrupts
// only ever slow a trial down), so the minimum is the least biased
// estimate available without hardware counters.
type Sampler struct {
	Samples int
	Times   int
	Clock   Clock
}

// NewSampler returns a Sampler with the default trial counts.
func NewSampler(clock Clock) *Sampler {
	return &Sampler{
		Samples: DefaultSamples,
		Times:   DefaultTimes,
		Clock:   clock,
	}
}

// Measure runs k over view on the calling goroutine and returns the
// best-observed timing. len(view) must be a multiple of k.Stride.
func (s *Sampler) Measure(k kernels.Kernel, view []byte) Result {
	p := unsafe.Pointer(&view[0])
	n := uintptr(len(view))

	minElapsed := math.Inf(1)
	for i := 0; i < s.Samples; i++ {
		before := s.Clock.Now()
		for j := 0; j < s.Times; j++ {
			k.Fn(p, n)
		}
		after := s.Clock.Now()
		if total := after - before; total < minElapsed {
			minElapsed = total
		}
	}

	return Result{
		Kernel:  k.Name,
		Bytes:   uint64(len(view)) * uint64(s.Times),
		Seconds: minElapsed,
	}
}

// MeasureParallel runs k concurrently over view, split into one
// disjoint page-aligned chunk per worker. Workers are forked fresh for
// every trial; the enter barrier keeps goroutine startup out of the
// timed window and the exit barrier keeps teardown out. Worker 0 is
// the only participant that reads the clock, immediately after each
// barrier releases.
//
// The reported Bytes is the aggregate across all workers, so the
// result is system bandwidth, not per-worker bandwidth.
func (s *Sampler) MeasureParallel(k kernels.Kernel, view []byte, workers int) Result {
	chunks := Partition(len(view), workers)

	minElapsed := math.Inf(1)
	for i := 0; i < s.Samples; i++ {
		var before, after float64
		enter := newBarrier(workers)
		exit := newBarrier(workers)

		var wg sync.WaitGroup
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func(w int, c Chunk) {
				defer wg.Done()
				runtime.LockOSThread()
				defer runtime.UnlockOSThread()

				p := unsafe.Pointer(&view[c.Off])
				n := uintptr(c.Len)

				enter.Wait()
				if w == 0 {
					before = s.Clock.Now()
				}
				for j := 0; j < s.Times; j++ {
					k.Fn(p, n)
				}
				exit.Wait()
				if w == 0 {
					after = s.Clock.Now()
				}
			}(w, chunks[w])
		}
		wg.Wait()

		if total := after - before; total < minElapsed {
			minElapsed = total
		}
	}

	return Result{
		Kernel:  k.Name,
		Bytes:   uint64(len(view)) * uint64(s.Times),
		Seconds: minElapsed,
	}
}
