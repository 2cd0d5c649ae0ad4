package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"github.com/julianstephens/standup/internal/config"
	"github.com/julianstephens/standup/internal/constants"
	apperrors "github.com/julianstephens/standup/internal/errors"
	"github.com/julianstephens/standup/internal/lock"
	"github.com/julianstephens/standup/internal/logger"
	"github.com/julianstephens/standup/internal/session"
	"github.com/julianstephens/standup/internal/storage"
	"github.com/julianstephens/standup/internal/storage/postgres"
	"github.com/julianstephens/standup/internal/storage/sqlite"
)

type Context struct {
	Store   storage.Provider
	Config  *config.Config
	Session *session.Session

	// Out and In default to the process's stdout and stdin.
	Out io.Writer
	In  io.Reader
	// Plain disables Markdown rendering.
	Plain bool
}

func (c *Context) out() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return color.Output
}

func (c *Context) in() io.Reader {
	if c.In != nil {
		return c.In
	}
	return os.Stdin
}

func (c *Context) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...any) {
	_, _ = fmt.Fprintln(c.out(), args...)
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
	boldColor = color.New(color.Bold)
)

// confirm prints action confirmations the way a reply lists them.
func (c *Context) confirm(msgs ...string) {
	for _, m := range msgs {
		_, _ = okColor.Fprintln(c.out(), m)
	}
}

func (c *Context) warn(msg string) {
	_, _ = warnColor.Fprintln(c.out(), msg)
}

// markdown renders md for the terminal, falling back to the raw text.
func (c *Context) markdown(md string) {
	if c.Plain {
		c.println(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var rendered string
		if rendered, err = r.Render(md); err == nil {
			_, _ = io.WriteString(c.out(), rendered)
			return
		}
	}
	logger.Debug("Markdown rendering failed", "error", err)
	c.println(md)
}

// Lock takes the single-writer lock for the config directory. The returned
// release func is safe to call when no lock was taken.
func (c *Context) Lock() (func(), error) {
	if c.Config == nil {
		return func() {}, nil
	}
	l, err := lock.Acquire(c.Config.Dir)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return nil, apperrors.WithHint(err, "close the other session and try again")
		}
		return nil, err
	}
	return func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release lock", "error", err)
		}
	}, nil
}

// IsPostgres reports whether location is a PostgreSQL connection string.
func IsPostgres(location string) bool {
	return strings.HasPrefix(location, "postgres://") ||
		strings.HasPrefix(location, "postgresql://") ||
		strings.Contains(location, "host=")
}

// OpenStore picks a storage backend from location: a PostgreSQL connection
// string, a *.db SQLite file, "memory:" for a throwaway store, or otherwise a
// directory of unit files.
func OpenStore(location string) (storage.Provider, error) {
	switch {
	case location == constants.MemoryStoragePath:
		return storage.NewMemoryStore(), nil
	case IsPostgres(location):
		if err := postgres.ValidateConnString(location); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, apperrors.WithHint(err, fmt.Sprintf("store the password in .pgpass or PGPASSWORD, or keep the whole string in the keyring with '%s key set db'", constants.AppName))
			}
			return nil, err
		}
		return postgres.New(location), nil
	case strings.HasSuffix(location, ".db"):
		return sqlite.NewStore(location), nil
	default:
		return storage.NewDiskStore(location), nil
	}
}
