package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/standup/internal/backup"
	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/logger"
	"github.com/julianstephens/standup/internal/storage/sqlite"
)

var errBackupUnsupported = errors.New("backups are only supported for SQLite storage")

func (c *Context) backupManager() (*backup.Manager, error) {
	s, ok := c.Store.(*sqlite.Store)
	if !ok {
		return nil, errBackupUnsupported
	}
	return backup.NewManager(s.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (cmd *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.confirm("✓ Backup created: " + filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (cmd *BackupListCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	table := newTable("CREATED", "FILE", "SIZE")
	for _, b := range backups {
		table.AddRow(
			b.Timestamp.Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path),
			fmt.Sprintf("%.1f KB", float64(b.Size)/1024.0),
		)
	}
	ctx.println(table)
	ctx.printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Path or filename of the backup to restore."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (cmd *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}

	path := cmd.File
	if !filepath.IsAbs(path) {
		candidate := filepath.Join(mgr.Dir(), path)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("backup file not found: %s", path)
	}

	if !cmd.Yes {
		ctx.warn("⚠️  WARNING: This will replace your current database with the backup.")
		ctx.println("A backup of your current database will be created before restoring.")
		ctx.printf("\nRestore from: %s\n", filepath.Base(path))
		ctx.printf("Continue? [y/N]: ")

		answer, err := bufio.NewReader(ctx.in()).ReadString('\n')
		if err != nil && answer == "" {
			ctx.println()
			ctx.println("Restore cancelled.")
			return nil
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()

	if err := ctx.Store.Close(); err != nil {
		logger.Warn("Failed to close database before restore", "error", err)
	}
	safety, err := mgr.Restore(path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("restored database failed to load: %w", err)
	}

	ctx.confirm("✓ Database restored successfully!")
	ctx.printf("Previous database saved as: %s\n", filepath.Base(safety))
	ctx.printf("Restart any running %s processes to use the restored database.\n", constants.AppName)
	return nil
}
