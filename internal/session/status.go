package session

import (
	"fmt"
	"strings"

	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/utils"
)

var greetings = map[string]string{
	"morning":   "Good morning",
	"afternoon": "Good afternoon",
	"evening":   "Good evening",
}

// Greeting returns the salutation for the snapshot's time of day.
func Greeting(snap models.Snapshot) string {
	return greetings[utils.TimeOfDay(snap.Now)]
}

// EnergyLabel is the latest energy level, or a dash when none was logged today.
func EnergyLabel(snap models.Snapshot) string {
	if snap.Energy == nil {
		return "—"
	}
	return string(snap.Energy.Level)
}

// StatusMarkdown renders the session-start banner as Markdown.
func StatusMarkdown(snap models.Snapshot) string {
	goalsDone, goalsTotal := snap.Goals.Progress()
	habitsDone, habitsTotal := snap.HabitProgress()

	var b strings.Builder
	fmt.Fprintf(&b, "### 🎯 Daily Standup - Day %d 🔥\n\n", snap.Streak.Current)
	b.WriteString("| Streak | Energy | Tasks | Goals | Habits |\n")
	b.WriteString("|--------|--------|-------|-------|--------|\n")
	fmt.Fprintf(&b, "| %d days | %s | %d open | %d/%d | %d/%d |\n\n",
		snap.Streak.Current, EnergyLabel(snap), len(snap.OpenTasks),
		goalsDone, goalsTotal, habitsDone, habitsTotal)
	fmt.Fprintf(&b, "---\n\n%s! How are you feeling today?", Greeting(snap))
	return b.String()
}
