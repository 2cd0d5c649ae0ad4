package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/utils"
)

const actionGuide = `ACTIONS - Include these tags to take actions:
- [ACTION:TASK:category:description] - Add task
- [ACTION:GOAL:category:description] - Add weekly goal
- [ACTION:HABIT:category:description] - Add daily habit
- [ACTION:ENERGY:level:note] - Log energy (high/medium/low)
- [ACTION:COMPLETE:task:name] - Complete task/habit/goal
- [ACTION:JOURNAL:none:note] - Journal an insight`

const replyRules = `RULES:
- Be brief (2-3 sentences)
- Take actions naturally when user mentions tasks/goals/energy
- Don't over-explain actions
- Be warm and encouraging`

// BuildPrompt renders the system prompt for one conversational turn.
func BuildPrompt(s models.Snapshot, userInput string) string {
	var b strings.Builder

	b.WriteString("You are a personal standup assistant. Help manage the user's day through natural conversation.\n\n")
	fmt.Fprintf(&b, "CURRENT: %s (%s)\n", s.Now.Format("Monday, January 02, 2006 at 15:04"), utils.TimeOfDay(s.Now))
	fmt.Fprintf(&b, "STREAK: Day %d | Best: %d | Total: %d\n", s.Streak.Current, s.Streak.Longest, s.Streak.Total)
	fmt.Fprintf(&b, "ENERGY: %s\n\n", energyLine(s.Energy))

	done, total := s.Goals.Progress()
	fmt.Fprintf(&b, "WEEKLY GOALS (%d/%d):\n%s\n\n", done, total, goalList(s.Goals.Goals))
	fmt.Fprintf(&b, "TASKS: %s\n\n", taskList(s.OpenTasks))
	fmt.Fprintf(&b, "HABITS: %s\n\n", habitList(s.Habits))
	fmt.Fprintf(&b, "CONTEXT: %s\n\n---\n\n", s.Context)

	b.WriteString(actionGuide)
	b.WriteString("\n\nCategories: ")
	cats := make([]string, len(constants.Categories))
	for i, c := range constants.Categories {
		cats[i] = string(c)
	}
	b.WriteString(strings.Join(cats, ", "))
	b.WriteString("\n\n")
	b.WriteString(replyRules)
	fmt.Fprintf(&b, "\n\nUSER: %s", userInput)
	return b.String()
}

func energyLine(r *models.EnergyReading) string {
	if r == nil {
		return "Not logged"
	}
	if r.Note == "" {
		return string(r.Level)
	}
	return fmt.Sprintf("%s - %s", r.Level, r.Note)
}

func goalList(goals []models.WeeklyGoal) string {
	if len(goals) == 0 {
		return "None"
	}
	items := make([]string, len(goals))
	for i, g := range goals {
		items[i] = g.Text
		if g.Completed {
			items[i] += " ✓"
		}
	}
	return indentJSON(items)
}

// taskList groups open task texts by category, in category order.
func taskList(open []models.Task) string {
	if len(open) == 0 {
		return "None"
	}
	byCat := make(map[constants.Category][]string)
	for _, t := range open {
		byCat[t.Category] = append(byCat[t.Category], t.Text)
	}
	var b strings.Builder
	b.WriteString("{")
	first := true
	write := func(cat string, items []string) {
		if !first {
			b.WriteString(",")
		}
		first = false
		key, _ := json.Marshal(cat)
		fmt.Fprintf(&b, "\n  %s: %s", key, strings.ReplaceAll(indentJSON(items), "\n", "\n  "))
	}
	for _, c := range constants.Categories {
		if items, ok := byCat[c]; ok {
			write(string(c), items)
			delete(byCat, c)
		}
	}
	for _, c := range slices.Sorted(maps.Keys(byCat)) {
		write(string(c), byCat[c])
	}
	b.WriteString("\n}")
	return b.String()
}

func habitList(habits []models.HabitStatus) string {
	if len(habits) == 0 {
		return "None"
	}
	items := make([]string, len(habits))
	for i, h := range habits {
		mark := "○"
		if h.DoneToday {
			mark = "✓"
		}
		items[i] = mark + " " + h.Text
	}
	return strings.Join(items, ", ")
}

func indentJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
