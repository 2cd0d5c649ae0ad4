package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/energy"
	"github.com/julianstephens/standup/internal/protocol"
	"github.com/julianstephens/standup/internal/utils"
)

type EnergyLogCmd struct {
	Level string   `arg:"" help:"Energy level: high, medium or low."`
	Note  []string `arg:"" optional:"" help:"Optional note."`
}

func (c *EnergyLogCmd) Run(ctx *Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()

	if !energy.IsStandardLevel(constants.EnergyLevel(strings.ToLower(c.Level))) {
		ctx.warn(fmt.Sprintf("%q is not high, medium or low; logging it anyway.", c.Level))
	}
	return ctx.act(protocol.Action{Kind: protocol.KindLogEnergy, Category: c.Level, Content: strings.Join(c.Note, " ")})
}

type EnergyShowCmd struct {
	Date string `help:"Date (YYYY-MM-DD). Defaults to today."`
}

func (c *EnergyShowCmd) Run(ctx *Context) error {
	date, err := resolveDate(ctx, c.Date)
	if err != nil {
		return err
	}
	readings, err := ctx.Session.Energy.ForDate(date)
	if err != nil {
		return err
	}
	if len(readings) == 0 {
		ctx.printf("No energy readings for %s.\n", date)
		return nil
	}

	tbl := newTable("TIME", "LEVEL", "NOTE")
	for _, r := range readings {
		tbl.AddRow(r.Time, string(r.Level), r.Note)
	}
	ctx.println(tbl)
	return nil
}

type JournalShowCmd struct {
	Date string `help:"Date (YYYY-MM-DD). Defaults to today."`
	Raw  bool   `help:"Print the stored Markdown without rendering."`
}

func (c *JournalShowCmd) Run(ctx *Context) error {
	date, err := resolveDate(ctx, c.Date)
	if err != nil {
		return err
	}
	content, err := ctx.Session.Journal.Read(date)
	if err != nil {
		return err
	}
	if content == "" {
		ctx.printf("No journal for %s.\n", date)
		return nil
	}
	if c.Raw {
		_, err := io.WriteString(ctx.out(), content)
		return err
	}
	ctx.markdown(content)
	return nil
}

type JournalAddCmd struct {
	Text []string `arg:"" help:"Insight to record."`
}

func (c *JournalAddCmd) Run(ctx *Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()
	return ctx.act(protocol.Action{Kind: protocol.KindJournal, Category: "note", Content: strings.Join(c.Text, " ")})
}

type JournalListCmd struct{}

func (c *JournalListCmd) Run(ctx *Context) error {
	dates, err := ctx.Session.Journal.Dates()
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		ctx.println("No journal entries yet.")
		return nil
	}

	tbl := newTable("DATE", "ENTRIES")
	for i := len(dates) - 1; i >= 0; i-- {
		entries, err := ctx.Session.Journal.Entries(dates[i])
		if err != nil {
			return err
		}
		tbl.AddRow(dates[i], len(entries))
	}
	ctx.println(tbl)
	return nil
}

func resolveDate(ctx *Context, date string) (string, error) {
	if date == "" {
		return utils.Today(ctx.Session.Clock), nil
	}
	if !utils.ValidateDateFormat(date) {
		return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}
	return date, nil
}

type StreakCmd struct{}

func (c *StreakCmd) Run(ctx *Context) error {
	st, err := ctx.Session.Streak.Get()
	if err != nil {
		return err
	}
	if st.LastCheckin == "" {
		ctx.printf("No check-ins yet. Run '%s standup' to start your streak.\n", constants.AppName)
		return nil
	}

	tbl := newTable("CURRENT", "LONGEST", "TOTAL", "LAST CHECK-IN")
	tbl.AddRow(fmt.Sprintf("%d 🔥", st.Current), st.Longest, st.Total, st.LastCheckin)
	ctx.println(tbl)
	return nil
}

type ContextShowCmd struct{}

func (c *ContextShowCmd) Run(ctx *Context) error {
	var doc string
	err := ctx.Session.Locked(func() error {
		var err error
		doc, err = ctx.Session.Context.Read()
		return err
	})
	if err != nil {
		return err
	}
	ctx.markdown(doc)
	return nil
}

type ContextSetCmd struct {
	File string `arg:"" optional:"" type:"existingfile" help:"Markdown file with the new context. Reads stdin when omitted."`
}

func (c *ContextSetCmd) Run(ctx *Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()

	var data []byte
	if c.File != "" {
		data, err = os.ReadFile(c.File)
	} else {
		data, err = io.ReadAll(ctx.in())
	}
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(data)) == "" {
		return fmt.Errorf("context cannot be empty")
	}

	if err := ctx.Session.Locked(func() error { return ctx.Session.Context.Write(string(data)) }); err != nil {
		return err
	}
	ctx.confirm("✓ Context updated")
	return nil
}
