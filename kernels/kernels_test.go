package kernels_test

import (
	"bytes"
	"math/rand"
	"sync/atomic"
	"unsafe"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/membw/bench"
	"github.com/sarchlab/membw/kernels"
)

// The kernels need page-aligned spans; a Bench buffer provides one.
const testBufferSize = 256 * 1024

var _ = Describe("Catalogue", func() {
	It("should resolve a non-empty kernel list", func() {
		Expect(kernels.Catalogue()).NotTo(BeEmpty())
	})

	It("should list every read kernel before the first write kernel", func() {
		seenWrite := false
		for _, k := range kernels.Catalogue() {
			if !k.Read {
				seenWrite = true
			}
			if seenWrite {
				Expect(k.Read).To(BeFalse(), "read kernel %s after a write kernel", k.Name)
			}
		}
	})

	It("should give every kernel a unique name, a stride, and a body", func() {
		seen := map[string]bool{}
		for _, k := range kernels.Catalogue() {
			Expect(seen[k.Name]).To(BeFalse(), "duplicate kernel %s", k.Name)
			seen[k.Name] = true
			Expect(int64(k.Stride)).To(BeNumerically(">", 0))
			Expect(k.Fn).NotTo(BeNil())
		}
	})

	It("should resolve the same ordered list on every call", func() {
		first := kernels.Catalogue()
		second := kernels.Catalogue()

		Expect(second).To(HaveLen(len(first)))
		for i := range first {
			Expect(second[i].Name).To(Equal(first[i].Name))
		}
	})

	It("should have strides that divide the test buffer size", func() {
		for _, k := range kernels.Catalogue() {
			Expect(uintptr(testBufferSize) % k.Stride).To(Equal(uintptr(0)))
		}
	})
})

var _ = Describe("Kernel execution", func() {
	var (
		b    *bench.Bench
		view []byte
	)

	BeforeEach(func() {
		var err error
		b, err = bench.New(bench.Options{BufferSize: testBufferSize})
		Expect(err).NotTo(HaveOccurred())

		view = b.Buffer()
		rng := rand.New(rand.NewSource(1))
		for i := range view {
			view[i] = byte(rng.Intn(256))
		}
	})

	AfterEach(func() {
		Expect(b.Close()).To(Succeed())
	})

	It("should leave the buffer untouched after every read kernel", func() {
		snapshot := make([]byte, len(view))
		copy(snapshot, view)

		for _, k := range kernels.Catalogue() {
			if !k.Read {
				continue
			}
			k.Fn(unsafe.Pointer(&view[0]), uintptr(len(view)))
			Expect(bytes.Equal(view, snapshot)).To(BeTrue(),
				"read kernel %s mutated the buffer", k.Name)
		}
	})

	It("should complete every write kernel over the full span", func() {
		for _, k := range kernels.Catalogue() {
			if k.Read {
				continue
			}
			k.Fn(unsafe.Pointer(&view[0]), uintptr(len(view)))
		}
	})

	It("should zero the buffer with write_memset", func() {
		for _, k := range kernels.Catalogue() {
			if k.Name != "write_memset" {
				continue
			}
			k.Fn(unsafe.Pointer(&view[0]), uintptr(len(view)))
			Expect(bytes.Equal(view, make([]byte, len(view)))).To(BeTrue())
		}
	})

	It("should accumulate the same sum in both scalar read loops", func() {
		var sums []uint64
		for _, k := range kernels.Catalogue() {
			if k.Name != "read_loop" && k.Name != "read_loop_unrolled" {
				continue
			}
			k.Fn(unsafe.Pointer(&view[0]), uintptr(len(view)))
			sums = append(sums, atomic.LoadUint64(&kernels.Sink))
		}

		Expect(sums).To(HaveLen(2))
		Expect(sums[0]).To(Equal(sums[1]))
	})
})
