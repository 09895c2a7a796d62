// Package dayclock maps wall-clock time onto canonical calendar-day keys in a
// fixed reference timezone. Everything day-based in the engine hangs off it.
package dayclock

import (
	"fmt"
	"time"
)

// KeyLayout is the canonical day-key format.
const KeyLayout = "2006-01-02"

// DayKey identifies one calendar day, e.g. "2026-03-14".
type DayKey string

// IsZero reports whether the key is unset.
func (k DayKey) IsZero() bool { return k == "" }

func (k DayKey) String() string { return string(k) }

// Clock supplies the current time. Injected so day-boundary logic is testable
// with synthetic clocks instead of real wall-clock timers.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Resolver converts times to day keys in its reference timezone.
type Resolver struct {
	loc *time.Location
}

// NewResolver builds a Resolver for the named IANA timezone. Empty means UTC.
func NewResolver(tz string) (*Resolver, error) {
	if tz == "" {
		return &Resolver{loc: time.UTC}, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	return &Resolver{loc: loc}, nil
}

// KeyFor returns the canonical day key for t.
func (r *Resolver) KeyFor(t time.Time) DayKey {
	return DayKey(t.In(r.loc).Format(KeyLayout))
}

// Diff returns the calendar-day difference b-a (positive when b is later).
// The civil dates are re-anchored in UTC before subtracting: in the reference
// timezone a DST-transition day is 23 or 25 hours long and a duration-based
// count would be off by one.
func (r *Resolver) Diff(a, b DayKey) (int, error) {
	ta, err := time.ParseInLocation(KeyLayout, string(a), r.loc)
	if err != nil {
		return 0, fmt.Errorf("parse day key %q: %w", a, err)
	}
	tb, err := time.ParseInLocation(KeyLayout, string(b), r.loc)
	if err != nil {
		return 0, fmt.Errorf("parse day key %q: %w", b, err)
	}
	ua := time.Date(ta.Year(), ta.Month(), ta.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(tb.Year(), tb.Month(), tb.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24), nil
}

// FakeClock is a settable Clock for tests.
type FakeClock struct {
	now time.Time
}

// NewFakeClock starts a fake clock at t.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t}
}

func (c *FakeClock) Now() time.Time { return c.now }

// Set jumps the clock to t.
func (c *FakeClock) Set(t time.Time) { c.now = t }

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
