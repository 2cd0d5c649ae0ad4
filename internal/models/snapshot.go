package models

import "time"

// Snapshot is everything the assistant and the status banner know about the
// user's day at one instant.
type Snapshot struct {
	Now       time.Time
	Streak    Streak
	Energy    *EnergyReading
	Goals     WeekBucket
	OpenTasks []Task
	Habits    []HabitStatus
	Context   string
}

// HabitProgress returns habits done today and the total habit count.
func (s Snapshot) HabitProgress() (done, total int) {
	for _, h := range s.Habits {
		if h.DoneToday {
			done++
		}
	}
	return done, len(s.Habits)
}
