// Package kernels provides the catalogue of memory-access kernels used
// by the bandwidth profiler.
//
// Each kernel performs exactly one linear pass over a byte range using
// one specific access strategy. Kernels have no observable result;
// only their timing matters. Read kernels fold their loads into Sink
// so the compiler cannot eliminate the load stream.
//
// The catalogue is resolved once per process from the host CPU's
// capabilities: kernels that need an instruction-set extension the CPU
// lacks are simply absent from the list, never a runtime error.
package kernels

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// Fn is a memory-access kernel. It performs one full linear pass over
// n bytes starting at p. Callers guarantee that n is a multiple of the
// kernel's stride and that p carries the buffer's page alignment.
type Fn func(p unsafe.Pointer, n uintptr)

// Kernel is one entry of the resolved catalogue.
type Kernel struct {
	// Name is the display name used in report lines.
	Name string

	// Stride is the kernel's natural access width in bytes. The
	// length of any span handed to the kernel must be a multiple of
	// this.
	Stride uintptr

	// Read is true for kernels that only load from the buffer. Read
	// kernels never mutate buffer contents.
	Read bool

	// Fn is the kernel body.
	Fn Fn
}

// Sink receives the accumulated value of every read kernel, giving the
// load stream an architectural consumer. The parallel pass runs the
// same read kernel on every worker, so the publishing store is atomic;
// accumulation itself stays in locals and the store sits outside the
// measured loop.
var Sink uint64

var (
	resolveOnce sync.Once
	resolved    []Kernel
)

// Catalogue returns the ordered list of kernels available on this
// host: read kernels first, then write kernels. The list is resolved
// once per process; callers receive a copy.
func Catalogue() []Kernel {
	resolveOnce.Do(func() {
		resolved = catalogue()
	})
	out := make([]Kernel, len(resolved))
	copy(out, resolved)
	return out
}

const wordSize = 8

// writePattern is the word stored by the scalar write kernels. The
// value is arbitrary; it only has to reach memory.
const writePattern = 0x0101010101010101

func readLoop(p unsafe.Pointer, n uintptr) {
	var sum uint64
	for i := uintptr(0); i < n; i += wordSize {
		sum += *(*uint64)(unsafe.Add(p, i))
	}
	atomic.StoreUint64(&Sink, sum)
}

// readLoopUnrolled keeps four independent accumulators so consecutive
// loads do not serialize on one register.
func readLoopUnrolled(p unsafe.Pointer, n uintptr) {
	var s0, s1, s2, s3 uint64
	for i := uintptr(0); i < n; i += 4 * wordSize {
		s0 += *(*uint64)(unsafe.Add(p, i))
		s1 += *(*uint64)(unsafe.Add(p, i+8))
		s2 += *(*uint64)(unsafe.Add(p, i+16))
		s3 += *(*uint64)(unsafe.Add(p, i+24))
	}
	atomic.StoreUint64(&Sink, s0+s1+s2+s3)
}

func writeLoop(p unsafe.Pointer, n uintptr) {
	for i := uintptr(0); i < n; i += wordSize {
		*(*uint64)(unsafe.Add(p, i)) = writePattern
	}
}

func writeLoopUnrolled(p unsafe.Pointer, n uintptr) {
	for i := uintptr(0); i < n; i += 4 * wordSize {
		*(*uint64)(unsafe.Add(p, i)) = writePattern
		*(*uint64)(unsafe.Add(p, i+8)) = writePattern
		*(*uint64)(unsafe.Add(p, i+16)) = writePattern
		*(*uint64)(unsafe.Add(p, i+24)) = writePattern
	}
}

// writeMemset clears the span with a range clear, which the compiler
// lowers to the runtime's optimized memclr.
func writeMemset(p unsafe.Pointer, n uintptr) {
	b := unsafe.Slice((*byte)(p), n)
	for i := range b {
		b[i] = 0
	}
}

// portableReads and portableWrites are the kernels available on every
// architecture. Architecture files prepend and append their own.
func portableReads() []Kernel {
	return []Kernel{
		{Name: "read_loop", Stride: wordSize, Read: true, Fn: readLoop},
		{Name: "read_loop_unrolled", Stride: 4 * wordSize, Read: true, Fn: readLoopUnrolled},
	}
}

func portableWrites() []Kernel {
	return []Kernel{
		{Name: "write_loop", Stride: wordSize, Fn: writeLoop},
		{Name: "write_loop_unrolled", Stride: 4 * wordSize, Fn: writeLoopUnrolled},
	}
}

func memsetKernel() Kernel {
	return Kernel{Name: "write_memset", Stride: 1, Fn: writeMemset}
}
