package clock

import (
	"sync"
	"time"
)

// Clock supplies the current time. Cache expiry reads time through it so
// tests can move time forward deterministically.
type Clock interface {
	Now() time.Time
}

// System reads the real system clock
type System struct{}

// Now implements Clock
func (System) Now() time.Time {
	return time.Now()
}

// Fixture is a clock that only moves when told to.
// It is safe for concurrent use.
type Fixture struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixture creates a fixture clock at start, or at the current time if
// start is zero
func NewFixture(start time.Time) *Fixture {
	if start.IsZero() {
		start = time.Now()
	}
	return &Fixture{now: start}
}

// Now implements Clock
func (f *Fixture) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d
func (f *Fixture) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Deadline returns the time ttl after now on c, or the zero time when ttl
// is not positive (meaning no expiry)
func Deadline(c Clock, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return c.Now().Add(ttl)
}

// Expired reports whether deadline has passed on c. A zero deadline never expires.
func Expired(c Clock, deadline time.Time) bool {
	if deadline.IsZero() {
		return false
	}
	return !c.Now().Before(deadline)
}
