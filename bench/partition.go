package bench

import "fmt"

// Chunk is one worker's private, contiguous byte range of the active
// buffer. Chunks produced by Partition are disjoint and their union is
// exactly the active prefix; the parallel pass depends on that, not on
// locks, for correctness.
type Chunk struct {
	Off int
	Len int
}

// Partition splits size bytes into one equal contiguous chunk per
// worker, chunk i covering [i*size/workers, (i+1)*size/workers).
//
// size must divide evenly by workers. A violation means the active
// size was not rounded for this worker count; continuing would corrupt
// every subsequent measurement, so it aborts.
func Partition(size, workers int) []Chunk {
	if workers < 1 {
		panic(fmt.Sprintf("bench: invalid worker count %d", workers))
	}
	if size%workers != 0 {
		panic(fmt.Sprintf("bench: active size %d does not divide across %d workers", size, workers))
	}
	per := size / workers
	chunks := make([]Chunk, workers)
	for i := range chunks {
		chunks[i] = Chunk{Off: i * per, Len: per}
	}
	return chunks
}

// RoundActive returns the largest multiple of page*workers not
// exceeding size. Rounding the active size this way keeps every
// chunk's offset and length page aligned.
func RoundActive(size, workers, page int) int {
	quantum := page * workers
	return size / quantum * quantum
}
