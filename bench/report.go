package bench

import (
	"fmt"
	"io"
)

// Report formatting. Single-thread lines are 32 columns wide and
// parallel lines carry a _par suffix at 28 columns, so the two passes
// read differently in a combined report.

func printSingle(w io.Writer, r Result) {
	_, _ = fmt.Fprintf(w, "%32s: %5.2f GiB/s\n", r.Kernel, r.GiBps())
}

func printParallel(w io.Writer, r Result) {
	_, _ = fmt.Fprintf(w, "%28s_par: %5.2f GiB/s\n", r.Kernel, r.GiBps())
}
