package store

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// firstID is the ID issued by a store with no persisted counter.
const firstID = 1

// IDAllocator hands out strictly increasing integer IDs.
//
// It is safe for concurrent use. Persisting the counter is the caller's job:
// after a successful collection write, store LastIssued so that a restarted
// allocator seeded with it resumes at Next.
type IDAllocator struct {
	next atomic.Int64
}

// NewIDAllocator creates an allocator whose first ID is 1.
func NewIDAllocator() *IDAllocator {
	a := &IDAllocator{}
	a.next.Store(firstID)
	return a
}

// Seed resumes allocation after last, the last ID issued before a restart.
func (a *IDAllocator) Seed(last int) {
	a.next.Store(int64(last) + 1)
}

// Allocate returns the next ID and advances the counter.
func (a *IDAllocator) Allocate() int {
	return int(a.next.Add(1) - 1)
}

// Next returns the ID the next Allocate call will return.
func (a *IDAllocator) Next() int {
	return int(a.next.Load())
}

// LastIssued returns the value persisted under the counter key.
func (a *IDAllocator) LastIssued() int {
	return a.Next() - 1
}

// parseCounter decodes a persisted counter. Non-integer and negative values
// are rejected so the allocator keeps its default.
func parseCounter(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// formatCounter encodes a counter as base-10 text.
func formatCounter(last int) string {
	return strconv.Itoa(last)
}
