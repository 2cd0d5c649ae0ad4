// Package dispatch applies parsed actions to the stores.
package dispatch

import (
	"errors"
	"fmt"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/logger"
	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/protocol"
)

type TaskStore interface {
	AddTask(text string, cat constants.Category) (models.Task, error)
	AddHabit(text string, cat constants.Category) (models.Habit, error)
	CompleteTaskByName(name string) (models.Task, bool, error)
	CompleteHabitByName(name string) (models.Habit, bool, error)
}

type GoalStore interface {
	Add(text string, cat constants.Category) (models.WeeklyGoal, error)
	CompleteByName(name string) (models.WeeklyGoal, bool, error)
}

type EnergyLog interface {
	Log(level constants.EnergyLevel, note string) (models.EnergyReading, error)
}

type Journal interface {
	Append(text string) error
}

type Dispatcher struct {
	tasks   TaskStore
	goals   GoalStore
	energy  EnergyLog
	journal Journal
}

func New(tasks TaskStore, goals GoalStore, energy EnergyLog, journal Journal) *Dispatcher {
	return &Dispatcher{tasks: tasks, goals: goals, energy: energy, journal: journal}
}

// Dispatch applies actions in order and returns one confirmation per action
// that changed state. A failing action does not stop the ones after it; every
// failure is joined into the returned error.
func (d *Dispatcher) Dispatch(actions []protocol.Action) ([]string, error) {
	var confirmations []string
	var errs []error
	for _, a := range actions {
		msg, ok, err := d.Apply(a)
		if err != nil {
			logger.Error("Action failed", "kind", a.Kind, "content", a.Content, "error", err)
			errs = append(errs, fmt.Errorf("%s %q: %w", a.Kind, a.Content, err))
			continue
		}
		if ok {
			confirmations = append(confirmations, msg)
		}
	}
	return confirmations, errors.Join(errs...)
}

// Apply performs a single action. It reports false when the action had no
// effect, such as a completion that matched nothing.
func (d *Dispatcher) Apply(a protocol.Action) (string, bool, error) {
	if a.Content == "" && a.Kind != protocol.KindLogEnergy {
		logger.Debug("Skipping action without content", "kind", a.Kind)
		return "", false, nil
	}

	switch a.Kind {
	case protocol.KindAddTask:
		t, err := d.tasks.AddTask(a.Content, category(a.Category))
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf(constants.MsgAddedTask, t.Text), true, nil

	case protocol.KindAddGoal:
		g, err := d.goals.Add(a.Content, category(a.Category))
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf(constants.MsgAddedGoal, g.Text), true, nil

	case protocol.KindAddHabit:
		h, err := d.tasks.AddHabit(a.Content, category(a.Category))
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf(constants.MsgAddedHabit, h.Text), true, nil

	case protocol.KindLogEnergy:
		r, err := d.energy.Log(constants.EnergyLevel(a.Category), a.Content)
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf(constants.MsgLoggedEnergy, r.Level), true, nil

	case protocol.KindComplete:
		return d.complete(a.Content)

	case protocol.KindJournal:
		if err := d.journal.Append(constants.InsightPrefix + a.Content); err != nil {
			return "", false, err
		}
		return constants.MsgJournaled, true, nil
	}

	logger.Debug("Ignoring action of unknown kind", "kind", a.Kind)
	return "", false, nil
}

// complete tries open tasks, then habits not yet done today, then incomplete
// weekly goals. The first case-insensitive substring match wins.
func (d *Dispatcher) complete(name string) (string, bool, error) {
	if t, ok, err := d.tasks.CompleteTaskByName(name); err != nil || ok {
		return fmt.Sprintf(constants.MsgCompleted, t.Text), ok, err
	}
	if h, ok, err := d.tasks.CompleteHabitByName(name); err != nil || ok {
		return fmt.Sprintf(constants.MsgCompleted, h.Text), ok, err
	}
	if g, ok, err := d.goals.CompleteByName(name); err != nil || ok {
		return fmt.Sprintf(constants.MsgCompletedGoal, g.Text), ok, err
	}
	logger.Debug("Completion matched nothing", "name", name)
	return "", false, nil
}

// category maps a directive category onto a known one, falling back to work.
func category(s string) constants.Category {
	if c, ok := constants.ParseCategory(s); ok {
		return c
	}
	logger.Warn("Unknown category, using default", "category", s)
	return constants.CategoryWork
}
