//go:build amd64

package kernels

import (
	"sync/atomic"
	"unsafe"

	"github.com/klauspost/cpuid/v2"
)

// Assembly kernels. See kernels_amd64.s. Read kernels return their
// accumulator so the load stream survives into Sink.

//go:noescape
func readRepLodsq(p unsafe.Pointer, n uintptr) uint64

//go:noescape
func readSSE(p unsafe.Pointer, n uintptr) uint64

//go:noescape
func readAVX(p unsafe.Pointer, n uintptr) uint64

//go:noescape
func readPrefetchAVX(p unsafe.Pointer, n uintptr) uint64

//go:noescape
func writeRepStosq(p unsafe.Pointer, n uintptr)

//go:noescape
func writeSSE(p unsafe.Pointer, n uintptr)

//go:noescape
func writeNontemporalSSE(p unsafe.Pointer, n uintptr)

//go:noescape
func writeAVX(p unsafe.Pointer, n uintptr)

//go:noescape
func writeNontemporalAVX(p unsafe.Pointer, n uintptr)

func sinkRead(f func(unsafe.Pointer, uintptr) uint64) Fn {
	return func(p unsafe.Pointer, n uintptr) {
		atomic.StoreUint64(&Sink, f(p, n))
	}
}

// catalogue resolves the amd64 kernel list. The rep-string kernels are
// baseline x86-64; the SSE and AVX kernels enter only when cpuid
// reports the extension.
func catalogue() []Kernel {
	reads := []Kernel{
		{Name: "read_rep_lodsq", Stride: wordSize, Read: true, Fn: sinkRead(readRepLodsq)},
	}
	reads = append(reads, portableReads()...)

	writes := portableWrites()
	writes = append(writes, Kernel{Name: "write_rep_stosq", Stride: wordSize, Fn: writeRepStosq})

	if cpuid.CPU.Supports(cpuid.SSE4) {
		reads = append(reads,
			Kernel{Name: "read_sse", Stride: 16, Read: true, Fn: sinkRead(readSSE)})
		writes = append(writes,
			Kernel{Name: "write_sse", Stride: 16, Fn: writeSSE},
			Kernel{Name: "write_nontemporal_sse", Stride: 16, Fn: writeNontemporalSSE})
	}
	if cpuid.CPU.Supports(cpuid.AVX) {
		reads = append(reads,
			Kernel{Name: "read_avx", Stride: 32, Read: true, Fn: sinkRead(readAVX)},
			Kernel{Name: "read_prefetch_avx", Stride: 32, Read: true, Fn: sinkRead(readPrefetchAVX)})
		writes = append(writes,
			Kernel{Name: "write_avx", Stride: 32, Fn: writeAVX},
			Kernel{Name: "write_nontemporal_avx", Stride: 32, Fn: writeNontemporalAVX})
	}

	writes = append(writes, memsetKernel())
	return append(reads, writes...)
}
