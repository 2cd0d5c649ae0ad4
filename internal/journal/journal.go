// Package journal keeps one append-only Markdown log per calendar day.
package journal

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/logger"
	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/storage"
	"github.com/julianstephens/standup/internal/utils"
)

// Store appends timestamped entries to today's journal unit. Existing text is
// never rewritten; each append reads the unit, adds to the end and writes it back.
type Store struct {
	mu    sync.Mutex
	p     storage.Provider
	clock utils.Clock
}

func NewStore(p storage.Provider, clock utils.Clock) *Store {
	return &Store{p: p, clock: clock}
}

// Append adds text as a new entry in today's journal, seeding the day header on first use.
func (s *Store) Append(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	date := now.Format(constants.DateFormat)
	key := constants.JournalUnit(date)

	content, err := s.p.Read(key)
	if err != nil && !errors.Is(err, storage.ErrNotExist) {
		return fmt.Errorf("failed to read journal for %s: %w", date, err)
	}

	var b strings.Builder
	if len(content) == 0 {
		b.WriteString(Header(date, now.Weekday().String()))
	} else {
		b.Write(content)
	}
	fmt.Fprintf(&b, "**%s** - %s\n\n", now.Format(constants.TimeFormat), text)

	if err := s.p.Write(key, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to write journal for %s: %w", date, err)
	}
	logger.Debug("Journal entry appended", "date", date, "length", len(text))
	return nil
}

// Header is the first line of every day's journal.
func Header(date, weekday string) string {
	return fmt.Sprintf("# Journal: %s (%s)\n\n", date, weekday)
}

// Read returns the raw journal for date, or "" when nothing was written that day.
func (s *Store) Read(date string) (string, error) {
	content, err := s.p.Read(constants.JournalUnit(date))
	if errors.Is(err, storage.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read journal for %s: %w", date, err)
	}
	return string(content), nil
}

// Today returns the raw journal for the clock's current date.
func (s *Store) Today() (string, error) {
	return s.Read(utils.Today(s.clock))
}

// Entries parses the journal for date into its entries, in append order.
func (s *Store) Entries(date string) ([]models.JournalEntry, error) {
	content, err := s.Read(date)
	if err != nil {
		return nil, err
	}
	return Parse(content), nil
}

// Dates lists every date with a journal, oldest first.
func (s *Store) Dates() ([]string, error) {
	keys, err := s.p.Keys(constants.UnitJournalPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}
	dates := make([]string, 0, len(keys))
	for _, k := range keys {
		dates = append(dates, strings.TrimPrefix(k, constants.UnitJournalPrefix))
	}
	return dates, nil
}

// Parse splits a day's journal text into entries. Lines that follow an entry
// marker belong to that entry until the next marker.
func Parse(content string) []models.JournalEntry {
	var entries []models.JournalEntry
	var cur *models.JournalEntry
	var body []string

	flush := func() {
		if cur != nil {
			cur.Text = strings.TrimRight(strings.Join(body, "\n"), "\n")
			entries = append(entries, *cur)
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if ts, text, ok := entryMarker(line); ok {
			flush()
			cur = &models.JournalEntry{Time: ts}
			body = []string{text}
			continue
		}
		if cur != nil {
			body = append(body, line)
		}
	}
	flush()
	return entries
}

// entryMarker recognizes "**HH:MM** - text".
func entryMarker(line string) (ts, text string, ok bool) {
	const open, closing = "**", "** - "
	if !strings.HasPrefix(line, open) || len(line) < len(open)+5+len(closing) {
		return "", "", false
	}
	ts = line[len(open) : len(open)+5]
	if !strings.HasPrefix(line[len(open)+5:], closing) || !utils.ValidateTimeFormat(ts) {
		return "", "", false
	}
	return ts, line[len(open)+5+len(closing):], true
}
