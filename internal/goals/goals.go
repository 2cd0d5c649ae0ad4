// Package goals holds the goal set for the current ISO week. Every access
// first rolls a stale set over, summarizing it into the journal.
package goals

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/logger"
	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/storage"
	"github.com/julianstephens/standup/internal/utils"
)

var (
	ErrNotFound         = errors.New("goal not found")
	ErrAlreadyCompleted = errors.New("goal already completed")
	ErrEmptyText        = errors.New("goal text cannot be empty")
)

// Archiver receives the summary of a week that has ended.
type Archiver interface {
	Append(text string) error
}

type Store struct {
	mu      sync.Mutex
	p       storage.Provider
	clock   utils.Clock
	archive Archiver
}

func NewStore(p storage.Provider, clock utils.Clock, archive Archiver) *Store {
	return &Store{p: p, clock: clock, archive: archive}
}

// current returns the active bucket, rolling it over when the stored week is
// not the clock's week. A non-empty stale set is summarized into the journal
// before being replaced; an empty one only has its week key updated.
func (s *Store) current() (models.WeekBucket, error) {
	week := utils.CurrentWeek(s.clock)
	b := models.WeekBucket{Week: week, Goals: []models.WeeklyGoal{}}

	found, err := storage.ReadJSON(s.p, constants.UnitWeeklyGoals, &b)
	if err != nil {
		return b, err
	}
	if found && b.Week == week {
		return b, nil
	}

	if found && len(b.Goals) > 0 {
		if err := s.archive.Append(Summary(b)); err != nil {
			return b, fmt.Errorf("failed to archive week %s: %w", b.Week, err)
		}
		done, total := b.Progress()
		logger.Info("Weekly goals archived", "week", b.Week, "completed", done, "total", total)
	} else if found {
		logger.Debug("Empty weekly goal set rolled over", "from", b.Week, "to", week)
	}

	b = models.WeekBucket{Week: week, Goals: []models.WeeklyGoal{}}
	if err := s.save(b); err != nil {
		return b, err
	}
	return b, nil
}

func (s *Store) save(b models.WeekBucket) error {
	return storage.WriteJSON(s.p, constants.UnitWeeklyGoals, b)
}

// Summary renders the journal entry recorded when a week's goals are archived.
func Summary(b models.WeekBucket) string {
	var completed, incomplete []string
	for _, g := range b.Goals {
		if g.Completed {
			completed = append(completed, g.Text)
		} else {
			incomplete = append(incomplete, g.Text)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## 📅 Week %s Summary\n\n", b.Week)
	fmt.Fprintf(&sb, "**Completed (%d):**\n", len(completed))
	for _, g := range completed {
		fmt.Fprintf(&sb, "- ✅ %s\n", g)
	}
	fmt.Fprintf(&sb, "\n**Not completed (%d):**\n", len(incomplete))
	for _, g := range incomplete {
		fmt.Fprintf(&sb, "- ❌ %s\n", g)
	}
	return sb.String()
}

// Current returns this week's goal set.
func (s *Store) Current() (models.WeekBucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

// Progress returns completed and total counts for this week.
func (s *Store) Progress() (done, total int, err error) {
	b, err := s.Current()
	if err != nil {
		return 0, 0, err
	}
	done, total = b.Progress()
	return done, total, nil
}

func (s *Store) Add(text string, cat constants.Category) (models.WeeklyGoal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.WeeklyGoal{}, ErrEmptyText
	}
	if cat == "" {
		cat = constants.CategoryWork
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.current()
	if err != nil {
		return models.WeeklyGoal{}, err
	}
	g := models.WeeklyGoal{
		ID:        utils.NewID(),
		Text:      text,
		Category:  cat,
		CreatedAt: utils.Today(s.clock),
	}
	b.Goals = append(b.Goals, g)
	if err := s.save(b); err != nil {
		return models.WeeklyGoal{}, err
	}
	logger.Info("Weekly goal added", "id", g.ID, "week", b.Week)
	return g, nil
}

// Complete marks the goal with id completed.
func (s *Store) Complete(id string) (models.WeeklyGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.current()
	if err != nil {
		return models.WeeklyGoal{}, err
	}
	i := slices.IndexFunc(b.Goals, func(g models.WeeklyGoal) bool { return g.ID == id })
	if i < 0 {
		return models.WeeklyGoal{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if b.Goals[i].Completed {
		return b.Goals[i], ErrAlreadyCompleted
	}
	return s.completeAt(b, i)
}

// CompleteByName completes the first incomplete goal whose text contains
// name, ignoring case. It reports false when nothing matched.
func (s *Store) CompleteByName(name string) (models.WeeklyGoal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.current()
	if err != nil {
		return models.WeeklyGoal{}, false, err
	}
	i := slices.IndexFunc(b.Goals, func(g models.WeeklyGoal) bool {
		return !g.Completed && utils.ContainsFold(g.Text, name)
	})
	if i < 0 {
		return models.WeeklyGoal{}, false, nil
	}
	g, err := s.completeAt(b, i)
	return g, err == nil, err
}

func (s *Store) completeAt(b models.WeekBucket, i int) (models.WeeklyGoal, error) {
	b.Goals[i].Completed = true
	b.Goals[i].CompletedAt = utils.Today(s.clock)
	if err := s.save(b); err != nil {
		return models.WeeklyGoal{}, err
	}
	logger.Info("Weekly goal completed", "id", b.Goals[i].ID, "week", b.Week)
	return b.Goals[i], nil
}
