// Command membw measures achievable main-memory bandwidth.
//
// Usage:
//
//	go run ./cmd/membw [flags]
//
// Flags:
//
//	-size     Buffer size in GiB (default 1)
//	-samples  Timed trials per kernel (default 5)
//	-times    Back-to-back passes per trial (default 5)
//	-single   Skip the multi-core pass
//	-nice     Nice value to request (default -10)
//
// The multi-core pass runs one worker per available hardware thread;
// set the GOMAXPROCS environment variable to override the count.
// Report lines go to stdout, pass headers and warnings to stderr, so
// the report survives a plain redirect.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/sarchlab/membw/bench"
)

func main() {
	size := flag.Int("size", 1, "buffer size in GiB")
	samples := flag.Int("samples", bench.DefaultSamples, "timed trials per kernel")
	times := flag.Int("times", bench.DefaultTimes, "back-to-back passes per trial")
	single := flag.Bool("single", false, "skip the multi-core pass")
	niceValue := flag.Int("nice", -10, "nice value to request (negative raises priority)")
	flag.Parse()

	if err := bench.Renice(*niceValue); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to set process priority level: %v\n", err)
	}

	fmt.Fprintf(os.Stderr, "# Host: %s\n", hostSummary())

	opts := bench.DefaultOptions()
	opts.BufferSize = *size * bench.BytesPerGiB
	opts.Samples = *samples
	opts.Times = *times
	opts.SingleOnly = *single

	b, err := bench.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "membw: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	b.Run()
}

// hostSummary reports the CPU brand and hardware thread count, falling
// back to the runtime's view when the host query fails.
func hostSummary() string {
	threads := runtime.NumCPU()
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		threads = n
	}

	brand := "unknown CPU"
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 && infos[0].ModelName != "" {
		brand = infos[0].ModelName
	}

	return fmt.Sprintf("%s, %d hardware threads", brand, threads)
}
