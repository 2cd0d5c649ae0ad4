package cli

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/julianstephens/standup/internal/backup"
	"github.com/julianstephens/standup/internal/config"
	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/lock"
	"github.com/julianstephens/standup/internal/migration"
	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/storage"
	"github.com/julianstephens/standup/internal/storage/postgres"
	"github.com/julianstephens/standup/internal/storage/sqlite"
	"github.com/julianstephens/standup/internal/utils"
	"github.com/julianstephens/standup/migrations"
)

type DoctorCmd struct{}

type check struct {
	name string
	// warn checks report problems without failing the run.
	warn bool
	run  func(ctx *Context) error
}

var checks = []check{
	{name: "Storage reachable", run: checkStorage},
	{name: "Schema version", run: checkSchema},
	{name: "Data validation", run: checkUnits},
	{name: "Clock/timezone", run: checkClock},
	{name: "Model credential", warn: true, run: checkCredential},
	{name: "Backups present", warn: true, run: checkBackups},
	{name: "Lock", warn: true, run: checkLock},
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	failed := false
	reachable := true
	for _, c := range checks {
		if !reachable && c.name == "Data validation" {
			ctx.printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.printf("%s %s: OK\n", okColor.Sprint("✓"), c.name)
		case c.warn:
			ctx.printf("%s %s: WARNING\n   %v\n", warnColor.Sprint("⚠"), c.name, err)
		default:
			ctx.printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			failed = true
			if c.name == "Storage reachable" {
				reachable = false
			}
		}
	}

	ctx.println()
	if failed {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkStorage(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, err := ctx.Store.Keys(""); err != nil {
		return fmt.Errorf("failed to list units: %w", err)
	}
	if db := sqlDB(ctx.Store); db != nil {
		var one int
		if err := db.QueryRow("SELECT 1").Scan(&one); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func sqlDB(p storage.Provider) *sql.DB {
	if s, ok := p.(interface{ GetDB() *sql.DB }); ok {
		return s.GetDB()
	}
	return nil
}

// checkSchema requires a SQL store to be exactly at the latest migration.
func checkSchema(ctx *Context) error {
	var dir string
	switch ctx.Store.(type) {
	case *sqlite.Store:
		dir = "sqlite"
	case *postgres.Store:
		dir = "postgres"
	default:
		return nil
	}
	db := sqlDB(ctx.Store)
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	sub, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return err
	}
	runner := migration.NewRunner(db, sub)

	current, err := runner.CurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.LatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}
	switch {
	case current > latest:
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	case current < latest:
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

// checkUnits decodes every structured unit and looks for duplicate IDs.
func checkUnits(ctx *Context) error {
	var tf models.TaskFile
	if _, err := storage.ReadJSON(ctx.Store, constants.UnitTasks, &tf); err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, t := range tf.Tasks {
		if seen[t.ID] {
			return fmt.Errorf("duplicate task ID found: %s", t.ID)
		}
		seen[t.ID] = true
	}
	for _, h := range tf.Habits {
		if seen[h.ID] {
			return fmt.Errorf("duplicate habit ID found: %s", h.ID)
		}
		seen[h.ID] = true
	}

	var wb models.WeekBucket
	if _, err := storage.ReadJSON(ctx.Store, constants.UnitWeeklyGoals, &wb); err != nil {
		return err
	}
	var el models.EnergyLog
	if _, err := storage.ReadJSON(ctx.Store, constants.UnitEnergy, &el); err != nil {
		return err
	}
	for date := range el {
		if !utils.ValidateDateFormat(date) {
			return fmt.Errorf("energy log has invalid date %q", date)
		}
	}

	var st models.Streak
	if _, err := storage.ReadJSON(ctx.Store, constants.UnitStreak, &st); err != nil {
		return err
	}
	if st.Current > st.Longest {
		return fmt.Errorf("streak current (%d) exceeds longest (%d)", st.Current, st.Longest)
	}
	if st.LastCheckin != "" && !utils.ValidateDateFormat(st.LastCheckin) {
		return fmt.Errorf("streak has invalid last check-in %q", st.LastCheckin)
	}
	return nil
}

func checkClock(ctx *Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Config != nil && !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("invalid timezone %q in config", ctx.Config.Timezone)
	}
	return nil
}

func checkCredential(ctx *Context) error {
	if _, src := config.APIKey(); src == config.KeyMissing {
		return fmt.Errorf("no API key in %s or the OS keyring; chat is disabled", constants.APIKeyEnvVar)
	}
	return nil
}

func checkBackups(ctx *Context) error {
	s, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil
	}
	backups, err := backup.NewManager(s.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkLock(ctx *Context) error {
	if ctx.Config == nil {
		return nil
	}
	path := lock.Path(ctx.Config.Dir)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("lockfile present at %s; another session may be running", path)
	}
	return nil
}
