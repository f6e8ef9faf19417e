package bench

import "time"

// Clock is a monotonic time source. Readings are in seconds, are
// non-decreasing, and carry no absolute meaning; only the difference
// between two readings is valid.
type Clock interface {
	Now() float64
}

type monotonicClock struct {
	start time.Time
}

// NewClock returns a Clock backed by the runtime's monotonic reading
// of time.Now, anchored at the moment of creation.
func NewClock() Clock {
	return &monotonicClock{start: time.Now()}
}

func (c *monotonicClock) Now() float64 {
	return time.Since(c.start).Seconds()
}
