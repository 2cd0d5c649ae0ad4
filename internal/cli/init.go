package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/julianstephens/standup/internal/config"
	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete existing local data before initializing."`
	Source string `help:"Copy every unit from this storage location (directory, .db file or PostgreSQL connection string)."`
}

func (c *InitCmd) Run(ctx *Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()

	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if ctx.Config != nil {
		wrote, err := config.WriteDefault(ctx.Config.Dir, false)
		if err != nil {
			return err
		}
		if wrote {
			ctx.printf("Wrote default config: %s\n", config.Path(ctx.Config.Dir))
		}
	}

	if c.Source != "" {
		ctx.printf("Copying data from: %s\n", c.Source)
		n, err := c.copyFrom(ctx)
		if err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		ctx.printf("Copied %d units\n", n)
	}
	return nil
}

// reset removes local data. Remote databases are never dropped.
func (c *InitCmd) reset(ctx *Context) error {
	path := ctx.Store.GetConfigPath()
	if IsPostgres(path) || path == "postgresql" || path == constants.MemoryStoragePath {
		return ctx.Store.Close()
	}

	if c.Source != "" {
		src, serr := filepath.Abs(c.Source)
		dst, derr := filepath.Abs(path)
		if serr == nil && derr == nil && src == dst {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dst)
		}
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing data: %w", err)
	}
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing storage: %w", err)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete existing data: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(path + suffix)
	}
	ctx.printf("Deleted existing data at: %s\n", path)
	return nil
}

func (c *InitCmd) copyFrom(ctx *Context) (int, error) {
	src, err := OpenStore(c.Source)
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source: %w", err)
	}
	defer src.Close()
	return storage.Copy(ctx.Store, src)
}
