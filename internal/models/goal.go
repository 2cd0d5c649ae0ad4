package models

import "github.com/julianstephens/standup/internal/constants"

type WeeklyGoal struct {
	ID          string             `json:"id"`
	Text        string             `json:"text"`
	Category    constants.Category `json:"category"`
	Completed   bool               `json:"completed"`
	CreatedAt   string             `json:"created"`                // YYYY-MM-DD format
	CompletedAt string             `json:"completed_at,omitempty"` // YYYY-MM-DD format
}

// WeekBucket is the persisted weekly goal set, tagged with its ISO-week key.
type WeekBucket struct {
	Week  string       `json:"week"`
	Goals []WeeklyGoal `json:"goals"`
}

// Progress returns completed and total goal counts.
func (b WeekBucket) Progress() (done, total int) {
	for _, g := range b.Goals {
		if g.Completed {
			done++
		}
	}
	return done, len(b.Goals)
}
