package constants

// Storage unit keys. Every store is persisted as one named unit.
const (
	UnitTasks         = "tasks"
	UnitWeeklyGoals   = "weekly_goals"
	UnitEnergy        = "energy"
	UnitStreak        = "streak"
	UnitContext       = "context"
	UnitJournalPrefix = "journal/"
)

// JournalUnit returns the unit key holding the journal for a date (YYYY-MM-DD).
func JournalUnit(date string) string {
	return UnitJournalPrefix + date
}
