package domain

import (
	"sync/atomic"
	"time"
)

// sequenceBits is the number of low bits reserved for the per-millisecond
// sequence component of generated ids.
const sequenceBits = 22

var lastID atomic.Int64

// NextID returns a time-ordered 63-bit identifier: unix milliseconds shifted
// left by sequenceBits, with the low bits acting as a process-local monotonic
// sequence. Within a process ids are strictly increasing, so concurrent
// callers can never collide.
func NextID() int64 {
	for {
		candidate := time.Now().UnixMilli() << sequenceBits
		last := lastID.Load()
		if candidate <= last {
			candidate = last + 1
		}
		if lastID.CompareAndSwap(last, candidate) {
			return candidate
		}
	}
}
