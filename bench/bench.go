// Package bench implements the measurement harness of the bandwidth
// profiler: the mapped buffer, the min-of-N sampler, the parallel work
// partitioner, and the report writers.
package bench

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/edsrzf/mmap-go"

	"github.com/sarchlab/membw/kernels"
)

// Options configures a Bench.
type Options struct {
	// BufferSize is the capacity of the measurement buffer in bytes.
	// Zero means one GiB.
	BufferSize int

	// Samples and Times override the sampling parameters. Zero means
	// the defaults.
	Samples int
	Times   int

	// Workers is the parallel-pass worker count. Zero means
	// runtime.GOMAXPROCS(0), which the GOMAXPROCS environment
	// variable controls.
	Workers int

	// SingleOnly skips the parallel pass.
	SingleOnly bool

	// Stdout receives report lines, Stderr receives pass headers and
	// warnings. Nil means the process streams.
	Stdout io.Writer
	Stderr io.Writer

	// Clock overrides the monotonic time source. Nil means NewClock.
	Clock Clock
}

// DefaultOptions returns the production configuration: a 1 GiB buffer
// measured with 5 trials of 5 passes each.
func DefaultOptions() Options {
	return Options{
		BufferSize: BytesPerGiB,
		Samples:    DefaultSamples,
		Times:      DefaultTimes,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}

// Bench owns the measurement buffer and the run-scoped active size.
// The buffer lives for the Bench's lifetime and is mapped anonymously,
// so its base address is page aligned by construction.
type Bench struct {
	opts    Options
	mapping mmap.MMap
	buf     []byte // the BufferSize-byte measurement region
	active  int
	sampler *Sampler
}

// New maps the measurement buffer and prepares a harness. The mapping
// is one page larger than the requested size so the prefetching
// kernels can run a fixed distance ahead of their cursor without
// leaving it.
func New(opts Options) (*Bench, error) {
	if opts.BufferSize <= 0 {
		opts.BufferSize = BytesPerGiB
	}
	if opts.Samples <= 0 {
		opts.Samples = DefaultSamples
	}
	if opts.Times <= 0 {
		opts.Times = DefaultTimes
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Clock == nil {
		opts.Clock = NewClock()
	}

	m, err := mmap.MapRegion(nil, opts.BufferSize+os.Getpagesize(), mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, fmt.Errorf("mapping %d byte buffer: %w", opts.BufferSize, err)
	}

	b := &Bench{
		opts:    opts,
		mapping: m,
		buf:     m[:opts.BufferSize],
		active:  opts.BufferSize,
	}
	b.sampler = &Sampler{
		Samples: opts.Samples,
		Times:   opts.Times,
		Clock:   opts.Clock,
	}
	return b, nil
}

// Close unmaps the buffer. The Bench is unusable afterwards.
func (b *Bench) Close() error {
	b.buf = nil
	return b.mapping.Unmap()
}

// Buffer exposes the measurement region.
func (b *Bench) Buffer() []byte {
	return b.buf
}

// Active reports the current active size in bytes.
func (b *Bench) Active() int {
	return b.active
}

// Sampler exposes the harness's sampler.
func (b *Bench) Sampler() *Sampler {
	return b.sampler
}

// Run executes the single-thread pass and, unless configured
// otherwise, the parallel pass over the resolved kernel catalogue.
func (b *Bench) Run() {
	cat := kernels.Catalogue()
	b.RunSingle(cat)
	if !b.opts.SingleOnly {
		b.RunParallel(cat)
	}
}

// RunSingle measures every kernel sequentially over the full buffer.
func (b *Bench) RunSingle(cat []kernels.Kernel) {
	b.active = len(b.buf)
	b.fault()

	fmt.Fprintf(b.opts.Stderr, "# Single-core performance. Threads: 1\n\n")
	for _, k := range cat {
		r := b.sampler.Measure(k, b.buf[:b.active])
		printSingle(b.opts.Stdout, r)
	}
}

// RunParallel shrinks the active size so it splits into equal
// page-aligned chunks, then measures every kernel with one worker per
// chunk.
func (b *Bench) RunParallel(cat []kernels.Kernel) {
	workers := b.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	page := os.Getpagesize()

	b.active = RoundActive(len(b.buf), workers, page)
	if b.active == 0 || b.active%(workers*page) != 0 {
		panic(fmt.Sprintf(
			"bench: active size %d is not a positive multiple of %d workers x %d byte pages",
			b.active, workers, page))
	}
	b.fault()

	fmt.Fprintf(b.opts.Stderr, "\n# Multi-core performance. Threads: %d\n\n", workers)
	for _, k := range cat {
		r := b.sampler.MeasureParallel(k, b.buf[:b.active], workers)
		printParallel(b.opts.Stdout, r)
	}
}

// fault touches every active page so first-use page-fault cost never
// lands inside a timed window.
func (b *Bench) fault() {
	view := b.buf[:b.active]
	for i := range view {
		view[i] = 0xFF
	}
}
