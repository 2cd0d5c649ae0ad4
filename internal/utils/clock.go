package utils

import (
	"sync"
	"time"

	"github.com/julianstephens/standup/internal/constants"
)

// Clock is the single source of "now" for every store.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock returns a wall clock for the given IANA timezone ("" or "Local" for the system zone).
func NewSystemClock(timezone string) (*SystemClock, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &SystemClock{loc: loc}, nil
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// FixedClock is a settable clock for tests and replays.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// Today returns the clock's current date (YYYY-MM-DD).
func Today(c Clock) string {
	return c.Now().Format(constants.DateFormat)
}

// Yesterday returns the calendar day before the clock's current date (YYYY-MM-DD).
func Yesterday(c Clock) string {
	return c.Now().AddDate(0, 0, -1).Format(constants.DateFormat)
}

// CurrentWeek returns the ISO-week key of the clock's current date.
func CurrentWeek(c Clock) string {
	return WeekKey(c.Now())
}

// ClockTime returns the clock's current time of day (HH:MM).
func ClockTime(c Clock) string {
	return c.Now().Format(constants.TimeFormat)
}
