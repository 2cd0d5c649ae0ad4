package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/session"
)

var (
	bannerTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	statLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statValueStyle = lipgloss.NewStyle().
			Bold(true)

	statStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Align(lipgloss.Center)

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// StandupCmd starts the day: it checks in and shows where things stand.
type StandupCmd struct{}

func (c *StandupCmd) Run(ctx *Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()

	snap, err := ctx.Session.Start()
	if err != nil {
		return err
	}
	ctx.println(renderBanner(snap))
	ctx.printf("\n%s! How are you feeling today?\n", session.Greeting(snap))
	if !ctx.Session.HasModel() {
		ctx.warn(noKeyHint)
	}
	return nil
}

func renderBanner(snap models.Snapshot) string {
	goalsDone, goalsTotal := snap.Goals.Progress()
	habitsDone, habitsTotal := snap.HabitProgress()

	stat := func(label, value string) string {
		return statStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			statLabelStyle.Render(label),
			statValueStyle.Render(value),
		))
	}

	title := bannerTitleStyle.Render(fmt.Sprintf("🎯 Daily Standup - Day %d 🔥", snap.Streak.Current))
	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Streak", fmt.Sprintf("%d days", snap.Streak.Current)),
		stat("Energy", session.EnergyLabel(snap)),
		stat("Tasks", fmt.Sprintf("%d open", len(snap.OpenTasks))),
		stat("Goals", fmt.Sprintf("%d/%d", goalsDone, goalsTotal)),
		stat("Habits", fmt.Sprintf("%d/%d", habitsDone, habitsTotal)),
	)
	return bannerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", stats))
}
