// Package streak tracks consecutive days of check-ins.
package streak

import (
	"fmt"
	"sync"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/logger"
	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/storage"
	"github.com/julianstephens/standup/internal/utils"
)

type Tracker struct {
	mu    sync.Mutex
	p     storage.Provider
	clock utils.Clock
}

func NewTracker(p storage.Provider, clock utils.Clock) *Tracker {
	return &Tracker{p: p, clock: clock}
}

// Get returns the stored streak without checking in.
func (t *Tracker) Get() (models.Streak, error) {
	var st models.Streak
	if _, err := storage.ReadJSON(t.p, constants.UnitStreak, &st); err != nil {
		return st, err
	}
	return st, nil
}

// CheckIn records today's check-in and persists the result. A second
// check-in on the same day returns the stored state untouched.
func (t *Tracker) CheckIn() (models.Streak, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, err := t.Get()
	if err != nil {
		return st, err
	}
	today := utils.Today(t.clock)
	if st.LastCheckin == today {
		return st, nil
	}

	next, err := Advance(st, today)
	if err != nil {
		return st, err
	}
	if err := storage.WriteJSON(t.p, constants.UnitStreak, next); err != nil {
		return st, err
	}
	logger.Info("Streak updated", "current", next.Current, "longest", next.Longest, "total", next.Total)
	return next, nil
}

// Advance applies one check-in on today to st. The gap is measured in whole
// calendar days: one day extends the streak, more than one restarts it, and
// a first check-in starts it. A last check-in dated after today (the clock
// moved backwards) only moves the date.
func Advance(st models.Streak, today string) (models.Streak, error) {
	if st.LastCheckin == today {
		return st, nil
	}

	switch {
	case st.LastCheckin == "":
		st.Current = 1
		st.Total = 1
	default:
		gap, err := utils.DaysBetweenDates(st.LastCheckin, today)
		if err != nil {
			return st, fmt.Errorf("invalid streak state: %w", err)
		}
		switch {
		case gap == 1:
			st.Current++
			st.Total++
		case gap > 1:
			st.Current = 1
			st.Total++
		default:
			logger.Warn("Last check-in is after today", "last_checkin", st.LastCheckin, "today", today)
		}
	}

	st.Longest = max(st.Longest, st.Current)
	st.LastCheckin = today
	return st, nil
}
