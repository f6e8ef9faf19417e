// Package main provides the entry point stub for membw, a main-memory
// bandwidth profiler.
//
// For the full CLI, use: go run ./cmd/membw
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("membw - main-memory bandwidth profiler")
	fmt.Println("")
	fmt.Println("Usage: membw [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -size      Buffer size in GiB")
	fmt.Println("  -samples   Timed trials per kernel")
	fmt.Println("  -times     Back-to-back passes per trial")
	fmt.Println("  -single    Skip the multi-core pass")
	fmt.Println("  -nice      Nice value to request")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/membw' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/membw' instead.")
	}
}
