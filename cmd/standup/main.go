package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/standup/internal/assistant"
	"github.com/julianstephens/standup/internal/cli"
	"github.com/julianstephens/standup/internal/config"
	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/errors"
	"github.com/julianstephens/standup/internal/keyring"
	"github.com/julianstephens/standup/internal/logger"
	"github.com/julianstephens/standup/internal/session"
	"github.com/julianstephens/standup/internal/storage"
	"github.com/julianstephens/standup/internal/storage/postgres"
	"github.com/julianstephens/standup/internal/utils"
)

var CLI struct {
	Version   kong.VersionFlag
	ConfigDir string `help:"Config directory." type:"path" default:"~/.config/standup" env:"STANDUP_CONFIG_DIR"`
	Data      string `help:"Storage location: a directory, a *.db SQLite file, a PostgreSQL connection string or memory:." env:"STANDUP_DATA"`
	Debug     bool   `help:"Log debug output to stderr."`
	Plain     bool   `help:"Print Markdown without rendering it."`

	Init    cli.InitCmd    `cmd:"" help:"Initialize standup storage."`
	Standup cli.StandupCmd `cmd:"" help:"Check in and show today's status." default:"1"`
	Chat    cli.ChatCmd    `cmd:"" help:"Talk to the assistant."`
	Apply   cli.ApplyCmd   `cmd:"" help:"Apply the actions in an assistant reply."`
	Task    struct {
		Add    cli.TaskAddCmd    `cmd:"" help:"Add a task."`
		List   cli.TaskListCmd   `cmd:"" help:"List tasks."`
		Done   cli.TaskDoneCmd   `cmd:"" help:"Complete a task by ID or name."`
		Delete cli.TaskDeleteCmd `cmd:"" help:"Delete a task."`
	} `cmd:"" help:"Manage tasks."`
	Habit struct {
		Add  cli.HabitAddCmd  `cmd:"" help:"Add a daily habit."`
		List cli.HabitListCmd `cmd:"" help:"List habits and today's progress."`
		Done cli.HabitDoneCmd `cmd:"" help:"Mark a habit done for today."`
	} `cmd:"" help:"Manage daily habits."`
	Goal struct {
		Add  cli.GoalAddCmd  `cmd:"" help:"Add a goal for this week."`
		List cli.GoalListCmd `cmd:"" help:"List this week's goals."`
		Done cli.GoalDoneCmd `cmd:"" help:"Complete a weekly goal."`
	} `cmd:"" help:"Manage weekly goals."`
	Energy struct {
		Log  cli.EnergyLogCmd  `cmd:"" help:"Log an energy reading."`
		Show cli.EnergyShowCmd `cmd:"" help:"Show energy readings for a day."`
	} `cmd:"" help:"Track energy."`
	Journal struct {
		Show cli.JournalShowCmd `cmd:"" help:"Show a day's journal."`
		Add  cli.JournalAddCmd  `cmd:"" help:"Add a journal note."`
		List cli.JournalListCmd `cmd:"" help:"List journal days."`
	} `cmd:"" help:"Read and write the journal."`
	Streak  cli.StreakCmd `cmd:"" help:"Show the check-in streak."`
	Context struct {
		Show cli.ContextShowCmd `cmd:"" help:"Show the personal context document."`
		Set  cli.ContextSetCmd  `cmd:"" help:"Replace the personal context document."`
	} `cmd:"" help:"Manage the personal context document."`
	Key struct {
		Set    cli.KeySetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Delete cli.KeyDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
		Status cli.KeyStatusCmd `cmd:"" help:"Show which secrets are configured."`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup of the database."`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore the database from a backup."`
	} `cmd:"" help:"Manage SQLite backups."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks."`
	Mcp    cli.McpCmd    `cmd:"" help:"Serve standup tools over MCP on stdio."`
}

// Commands that manage storage themselves, or never touch it.
var skipLoad = []string{"init", "doctor", "key"}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily planning assistant: tasks, habits, weekly goals, energy and a journal"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.ConfigDir)
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: cfg.Dir, Level: cfg.LogLevel}); err != nil {
		errors.Fatal(fmt.Errorf("failed to initialize logger: %w", err))
	}

	store, err := openStore(cfg)
	if err != nil {
		errors.Fatal(err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close storage", "error", err)
		}
	}()

	clock, err := utils.NewSystemClock(cfg.Timezone)
	if err != nil {
		errors.Fatal(err)
	}

	opts := []session.Option{session.WithInputPreview(cfg.Journal.InputPreview)}
	if key, src := config.APIKey(); src != config.KeyMissing {
		client, err := assistant.NewOpenAIClient(assistant.Config{
			APIKey:    key,
			Model:     cfg.Model.Name,
			BaseURL:   cfg.Model.BaseURL,
			MaxTokens: cfg.Model.MaxTokens,
			Timeout:   cfg.Model.Timeout,
		})
		if err != nil {
			errors.Fatal(err)
		}
		logger.Debug("Model configured", "model", cfg.Model.Name, "key_source", src)
		opts = append(opts, session.WithModel(client))
	}

	if !skipsLoad(kctx.Command()) {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	appCtx := &cli.Context{
		Store:   store,
		Config:  cfg,
		Session: session.New(store, clock, opts...),
		Plain:   CLI.Plain,
	}
	if err := kctx.Run(appCtx); err != nil {
		errors.Fatal(err)
	}
}

// openStore resolves the storage location: --data wins, then a connection
// string kept in the keyring, then the config file.
func openStore(cfg *config.Config) (storage.Provider, error) {
	if CLI.Data != "" {
		return cli.OpenStore(CLI.Data)
	}
	if conn, err := keyring.Get(keyring.DBConnection); err == nil && conn != "" {
		logger.Debug("Using database connection from keyring")
		return postgres.New(conn), nil
	}
	return cli.OpenStore(cfg.Data)
}

func skipsLoad(command string) bool {
	name, _, _ := strings.Cut(command, " ")
	return slices.Contains(skipLoad, name)
}
