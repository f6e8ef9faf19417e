package bench_test

import (
	"bytes"
	"os"
	"strings"
	"unsafe"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/membw/bench"
	"github.com/sarchlab/membw/kernels"
)

// kernelNames extracts the kernel column from report lines.
func kernelNames(out string) []string {
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		name, _, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		names = append(names, strings.TrimSpace(name))
	}
	return names
}

var _ = Describe("Bench", func() {
	var (
		stdout, stderr *bytes.Buffer
		b              *bench.Bench
	)

	BeforeEach(func() {
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}

		var err error
		b, err = bench.New(bench.Options{
			BufferSize: 1 << 20,
			Samples:    1,
			Times:      1,
			Workers:    4,
			Stdout:     stdout,
			Stderr:     stderr,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(b.Close()).To(Succeed())
	})

	It("should map a page-aligned buffer of the requested size", func() {
		buf := b.Buffer()
		Expect(buf).To(HaveLen(1 << 20))

		page := uintptr(os.Getpagesize())
		Expect(uintptr(unsafe.Pointer(&buf[0])) % page).To(Equal(uintptr(0)))
	})

	It("should report every catalogued kernel once per pass", func() {
		cat := kernels.Catalogue()
		b.RunSingle(cat)

		names := kernelNames(stdout.String())
		Expect(names).To(HaveLen(len(cat)))
		for i, k := range cat {
			Expect(names[i]).To(Equal(k.Name))
		}
		Expect(stderr.String()).To(ContainSubstring("# Single-core performance. Threads: 1"))
	})

	It("should produce structurally identical reports across repeated passes", func() {
		cat := kernels.Catalogue()

		b.RunSingle(cat)
		first := kernelNames(stdout.String())
		stdout.Reset()

		b.RunSingle(cat)
		second := kernelNames(stdout.String())

		Expect(second).To(Equal(first))
	})

	It("should suffix parallel lines and announce the worker count", func() {
		cat := kernels.Catalogue()
		b.RunParallel(cat)

		Expect(stderr.String()).To(ContainSubstring("# Multi-core performance. Threads: 4"))
		for _, name := range kernelNames(stdout.String()) {
			Expect(name).To(HaveSuffix("_par"))
		}
		Expect(b.Active() % (4 * os.Getpagesize())).To(Equal(0))
	})

	It("should run both passes end to end", func() {
		b.Run()

		names := kernelNames(stdout.String())
		Expect(names).To(HaveLen(2 * len(kernels.Catalogue())))
	})
})
