//go:build !amd64

package kernels

// catalogue resolves the portable kernel list. Architectures without
// assembly kernels get the scalar loops and the memset write only; the
// SIMD entries never exist here, so the reporter and sampler see a
// smaller catalogue rather than a runtime probe.
func catalogue() []Kernel {
	out := portableReads()
	out = append(out, portableWrites()...)
	out = append(out, memsetKernel())
	return out
}
