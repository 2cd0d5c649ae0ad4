package assistant

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/models"
)

func TestBuildPrompt(t *testing.T) {
	snap := models.Snapshot{
		Now:    time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC),
		Streak: models.Streak{Current: 4, Longest: 9, Total: 30},
		Energy: &models.EnergyReading{Level: constants.EnergyHigh, Note: "good sleep"},
		Goals: models.WeekBucket{Week: "2026-W43", Goals: []models.WeeklyGoal{
			{Text: "Ship v2", Completed: true},
			{Text: "Read a book"},
		}},
		OpenTasks: []models.Task{
			{Text: "Buy groceries", Category: constants.CategoryDailyChores},
			{Text: "Fix CI", Category: constants.CategoryWork},
			{Text: "R&D notes", Category: constants.CategoryWork},
		},
		Habits: []models.HabitStatus{
			{Habit: models.Habit{Text: "Stretch"}, DoneToday: true},
			{Habit: models.Habit{Text: "Meditate"}},
		},
		Context: "# About Me\n- Role: engineer",
	}

	got := BuildPrompt(snap, "what should I do next?")

	for _, want := range []string{
		"CURRENT: Monday, October 19, 2026 at 14:30 (afternoon)",
		"STREAK: Day 4 | Best: 9 | Total: 30",
		"ENERGY: high - good sleep",
		"WEEKLY GOALS (1/2):",
		`"Ship v2 ✓"`,
		`"work": [`,
		`"R&D notes"`,
		"HABITS: ✓ Stretch, ○ Meditate",
		"CONTEXT: # About Me\n- Role: engineer",
		"[ACTION:COMPLETE:task:name]",
		"Categories: work, health, personal_brand, daily_chores, learning",
		"USER: what should I do next?",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q\n%s", want, got)
		}
	}

	// Tasks are grouped in category order, work before daily_chores.
	if strings.Index(got, `"work"`) > strings.Index(got, `"daily_chores"`) {
		t.Errorf("task categories out of order:\n%s", got)
	}
}

func TestBuildPromptEmptyDay(t *testing.T) {
	got := BuildPrompt(models.Snapshot{Now: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)}, "hi")
	for _, want := range []string{
		"(morning)",
		"ENERGY: Not logged",
		"WEEKLY GOALS (0/0):\nNone",
		"TASKS: None",
		"HABITS: None",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q\n%s", want, got)
		}
	}
}
