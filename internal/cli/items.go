package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosuri/uitable"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/goals"
	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/protocol"
	"github.com/julianstephens/standup/internal/tasks"
)

const shortIDLen = 8

// shortID is the random tail of a UUIDv7, which stays distinct for items
// created in the same millisecond.
func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[len(id)-shortIDLen:]
}

// matchID finds the single id equal to q or ending in q.
func matchID(ids []string, q string) (string, bool) {
	q = strings.ToLower(strings.TrimSpace(q))
	if len(q) < 4 {
		return "", false
	}
	found := ""
	for _, id := range ids {
		if id == q {
			return id, true
		}
		if strings.HasSuffix(id, q) {
			if found != "" {
				return "", false
			}
			found = id
		}
	}
	return found, found != ""
}

func newTable(headers ...any) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = boldColor.Sprint(h)
	}
	tbl.AddRow(row...)
	return tbl
}

// act applies actions through the session so confirmations are journaled.
func (c *Context) act(actions ...protocol.Action) error {
	msgs, err := c.Session.Act(actions...)
	c.confirm(msgs...)
	return err
}

// record runs a direct store change under the session lock and journals its
// confirmation. ok=false means nothing changed.
func (c *Context) record(fn func() (msg string, ok bool, err error)) error {
	var msg string
	var ok bool
	err := c.Session.Locked(func() error {
		var err error
		if msg, ok, err = fn(); err != nil || !ok {
			return err
		}
		return c.Session.Journal.Append(msg)
	})
	if err != nil {
		return err
	}
	if ok {
		c.confirm(msg)
	} else {
		c.warn("Nothing to complete.")
	}
	return nil
}

type TaskAddCmd struct {
	Text     []string `arg:"" help:"Task description."`
	Category string   `short:"c" default:"work" enum:"work,health,personal_brand,daily_chores,learning" help:"Category (${enum})."`
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()
	return ctx.act(protocol.Action{Kind: protocol.KindAddTask, Category: c.Category, Content: strings.Join(c.Text, " ")})
}

type TaskListCmd struct {
	All bool `short:"a" help:"Include completed tasks."`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	all, err := ctx.Session.Tasks.Tasks()
	if err != nil {
		return err
	}

	tbl := newTable("ID", "CATEGORY", "TASK", "CREATED", "DONE")
	shown := 0
	for _, t := range all {
		if !c.All && !t.Open() {
			continue
		}
		done := ""
		if !t.Open() {
			done = "✓ " + t.CompletedAt
		}
		tbl.AddRow(shortID(t.ID), categoryLabel(t.Category), t.Text, t.CreatedAt, done)
		shown++
	}
	if shown == 0 {
		ctx.println("No open tasks.")
		return nil
	}
	ctx.println(tbl)
	return nil
}

type TaskDoneCmd struct {
	Query string `arg:"" help:"Task ID, or part of its text."`
}

func (c *TaskDoneCmd) Run(ctx *Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()

	return ctx.record(func() (string, bool, error) {
		all, err := ctx.Session.Tasks.Tasks()
		if err != nil {
			return "", false, err
		}
		ids := make([]string, len(all))
		for i, t := range all {
			ids[i] = t.ID
		}

		var t models.Task
		ok := true
		if id, found := matchID(ids, c.Query); found {
			t, err = ctx.Session.Tasks.CompleteTask(id)
		} else {
			t, ok, err = ctx.Session.Tasks.CompleteTaskByName(c.Query)
		}
		if errors.Is(err, tasks.ErrAlreadyCompleted) {
			return "", false, fmt.Errorf("task %q is already done", t.Text)
		}
		return fmt.Sprintf(constants.MsgCompleted, t.Text), ok, err
	})
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDeleteCmd) Run(ctx *Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()

	return ctx.Session.Locked(func() error {
		all, err := ctx.Session.Tasks.Tasks()
		if err != nil {
			return err
		}
		for _, t := range all {
			if id, ok := matchID([]string{t.ID}, c.ID); ok {
				if err := ctx.Session.Tasks.DeleteTask(id); err != nil {
					return err
				}
				ctx.printf("Deleted task: %s\n", t.Text)
				return nil
			}
		}
		return fmt.Errorf("task %s: %w", c.ID, tasks.ErrNotFound)
	})
}

type HabitAddCmd struct {
	Text     []string `arg:"" help:"Habit description."`
	Category string   `short:"c" default:"health" enum:"work,health,personal_brand,daily_chores,learning" help:"Category (${enum})."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()
	return ctx.act(protocol.Action{Kind: protocol.KindAddHabit, Category: c.Category, Content: strings.Join(c.Text, " ")})
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Session.Tasks.Habits()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.println("No habits yet.")
		return nil
	}

	tbl := newTable("", "ID", "CATEGORY", "HABIT", "DAYS DONE")
	for _, h := range habits {
		mark := "○"
		if h.DoneToday {
			mark = okColor.Sprint("✓")
		}
		tbl.AddRow(mark, shortID(h.ID), categoryLabel(h.Category), h.Text, len(h.Completions))
	}
	ctx.println(tbl)
	return nil
}

type HabitDoneCmd struct {
	Query string `arg:"" help:"Habit ID, or part of its text."`
}

func (c *HabitDoneCmd) Run(ctx *Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()

	return ctx.record(func() (string, bool, error) {
		habits, err := ctx.Session.Tasks.Habits()
		if err != nil {
			return "", false, err
		}
		ids := make([]string, len(habits))
		for i, h := range habits {
			ids[i] = h.ID
		}

		var h models.Habit
		var ok bool
		if id, found := matchID(ids, c.Query); found {
			h, ok, err = ctx.Session.Tasks.CompleteHabit(id)
		} else {
			h, ok, err = ctx.Session.Tasks.CompleteHabitByName(c.Query)
		}
		return fmt.Sprintf(constants.MsgCompleted, h.Text), ok, err
	})
}

type GoalAddCmd struct {
	Text     []string `arg:"" help:"Goal for this week."`
	Category string   `short:"c" default:"work" enum:"work,health,personal_brand,daily_chores,learning" help:"Category (${enum})."`
}

func (c *GoalAddCmd) Run(ctx *Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()
	return ctx.act(protocol.Action{Kind: protocol.KindAddGoal, Category: c.Category, Content: strings.Join(c.Text, " ")})
}

type GoalListCmd struct{}

func (c *GoalListCmd) Run(ctx *Context) error {
	var b models.WeekBucket
	err := ctx.Session.Locked(func() error {
		var err error
		b, err = ctx.Session.Goals.Current()
		return err
	})
	if err != nil {
		return err
	}

	done, total := b.Progress()
	ctx.printf("%s  %s\n", boldColor.Sprintf("Week %s", b.Week), dimColor.Sprintf("%d/%d done", done, total))
	if total == 0 {
		ctx.println("No goals this week.")
		return nil
	}

	tbl := newTable("", "ID", "CATEGORY", "GOAL")
	for _, g := range b.Goals {
		mark := "○"
		if g.Completed {
			mark = okColor.Sprint("✓")
		}
		tbl.AddRow(mark, shortID(g.ID), categoryLabel(g.Category), g.Text)
	}
	ctx.println(tbl)
	return nil
}

type GoalDoneCmd struct {
	Query string `arg:"" help:"Goal ID, or part of its text."`
}

func (c *GoalDoneCmd) Run(ctx *Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()

	return ctx.record(func() (string, bool, error) {
		b, err := ctx.Session.Goals.Current()
		if err != nil {
			return "", false, err
		}
		ids := make([]string, len(b.Goals))
		for i, g := range b.Goals {
			ids[i] = g.ID
		}

		var g models.WeeklyGoal
		ok := true
		if id, found := matchID(ids, c.Query); found {
			g, err = ctx.Session.Goals.Complete(id)
		} else {
			g, ok, err = ctx.Session.Goals.CompleteByName(c.Query)
		}
		if errors.Is(err, goals.ErrAlreadyCompleted) {
			return "", false, fmt.Errorf("goal %q is already done", g.Text)
		}
		return fmt.Sprintf(constants.MsgCompletedGoal, g.Text), ok, err
	})
}

func categoryLabel(c constants.Category) string {
	if e, ok := constants.CategoryEmoji[c]; ok {
		return e + " " + string(c)
	}
	return string(c)
}
