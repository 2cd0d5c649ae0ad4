package models

import (
	"slices"

	"github.com/julianstephens/standup/internal/constants"
)

type Task struct {
	ID          string               `json:"id"`
	Text        string               `json:"text"`
	Category    constants.Category   `json:"category"`
	Status      constants.TaskStatus `json:"status"`
	CreatedAt   string               `json:"created"`             // YYYY-MM-DD format
	CompletedAt string               `json:"completed,omitempty"` // YYYY-MM-DD format
}

// Open reports whether the task still needs doing.
func (t Task) Open() bool {
	return t.Status != constants.StatusDone
}

type Habit struct {
	ID          string             `json:"id"`
	Text        string             `json:"text"`
	Category    constants.Category `json:"category"`
	CreatedAt   string             `json:"created"`     // YYYY-MM-DD format
	Completions []string           `json:"completions"` // YYYY-MM-DD dates, unique
}

// DoneOn reports whether the habit has a completion recorded for date.
func (h Habit) DoneOn(date string) bool {
	return slices.Contains(h.Completions, date)
}

// TaskFile is the persisted shape of the tasks unit.
type TaskFile struct {
	Tasks  []Task  `json:"tasks"`
	Habits []Habit `json:"recurring"`
}

// HabitStatus is a habit together with its derived completion state for today.
type HabitStatus struct {
	Habit
	DoneToday bool `json:"done_today"`
}
