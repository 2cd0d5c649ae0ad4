// Package tasks stores one-off tasks and daily habits in a single unit.
package tasks

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
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCompleted = errors.New("task already completed")
	ErrEmptyText        = errors.New("text cannot be empty")
)

type Store struct {
	mu    sync.Mutex
	p     storage.Provider
	clock utils.Clock
}

func NewStore(p storage.Provider, clock utils.Clock) *Store {
	return &Store{p: p, clock: clock}
}

// load reads the unit, writing the empty default the first time.
func (s *Store) load() (models.TaskFile, error) {
	f := models.TaskFile{Tasks: []models.Task{}, Habits: []models.Habit{}}
	found, err := storage.ReadJSON(s.p, constants.UnitTasks, &f)
	if err != nil {
		return f, err
	}
	if !found {
		if err := s.save(f); err != nil {
			return f, err
		}
	}
	return f, nil
}

func (s *Store) save(f models.TaskFile) error {
	return storage.WriteJSON(s.p, constants.UnitTasks, f)
}

func normalize(text string, cat constants.Category) (string, constants.Category, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", ErrEmptyText
	}
	if cat == "" {
		cat = constants.CategoryWork
	}
	return text, cat, nil
}

func (s *Store) AddTask(text string, cat constants.Category) (models.Task, error) {
	text, cat, err := normalize(text, cat)
	if err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return models.Task{}, err
	}
	task := models.Task{
		ID:        utils.NewID(),
		Text:      text,
		Category:  cat,
		Status:    constants.StatusTodo,
		CreatedAt: utils.Today(s.clock),
	}
	f.Tasks = append(f.Tasks, task)
	if err := s.save(f); err != nil {
		return models.Task{}, err
	}
	logger.Info("Task added", "id", task.ID, "category", cat)
	return task, nil
}

func (s *Store) AddHabit(text string, cat constants.Category) (models.Habit, error) {
	text, cat, err := normalize(text, cat)
	if err != nil {
		return models.Habit{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return models.Habit{}, err
	}
	habit := models.Habit{
		ID:          utils.NewID(),
		Text:        text,
		Category:    cat,
		CreatedAt:   utils.Today(s.clock),
		Completions: []string{},
	}
	f.Habits = append(f.Habits, habit)
	if err := s.save(f); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Habit added", "id", habit.ID, "category", cat)
	return habit, nil
}

// CompleteTask marks the task done. Done is terminal: completing it again
// returns ErrAlreadyCompleted.
func (s *Store) CompleteTask(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return models.Task{}, err
	}
	i := slices.IndexFunc(f.Tasks, func(t models.Task) bool { return t.ID == id })
	if i < 0 {
		return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if !f.Tasks[i].Open() {
		return f.Tasks[i], ErrAlreadyCompleted
	}
	return s.completeTaskAt(f, i)
}

func (s *Store) completeTaskAt(f models.TaskFile, i int) (models.Task, error) {
	f.Tasks[i].Status = constants.StatusDone
	f.Tasks[i].CompletedAt = utils.Today(s.clock)
	if err := s.save(f); err != nil {
		return models.Task{}, err
	}
	logger.Info("Task completed", "id", f.Tasks[i].ID)
	return f.Tasks[i], nil
}

// CompleteHabit records today's completion. It reports false, without
// writing, when the habit was already done today.
func (s *Store) CompleteHabit(id string) (models.Habit, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return models.Habit{}, false, err
	}
	i := slices.IndexFunc(f.Habits, func(h models.Habit) bool { return h.ID == id })
	if i < 0 {
		return models.Habit{}, false, fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}
	if f.Habits[i].DoneOn(utils.Today(s.clock)) {
		return f.Habits[i], false, nil
	}
	h, err := s.completeHabitAt(f, i)
	return h, err == nil, err
}

func (s *Store) completeHabitAt(f models.TaskFile, i int) (models.Habit, error) {
	f.Habits[i].Completions = append(f.Habits[i].Completions, utils.Today(s.clock))
	if err := s.save(f); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Habit completed", "id", f.Habits[i].ID, "date", utils.Today(s.clock))
	return f.Habits[i], nil
}

// CompleteTaskByName completes the first open task whose text contains name,
// ignoring case. It reports false when nothing matched.
func (s *Store) CompleteTaskByName(name string) (models.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return models.Task{}, false, err
	}
	i := slices.IndexFunc(f.Tasks, func(t models.Task) bool {
		return t.Open() && utils.ContainsFold(t.Text, name)
	})
	if i < 0 {
		return models.Task{}, false, nil
	}
	t, err := s.completeTaskAt(f, i)
	return t, err == nil, err
}

// CompleteHabitByName completes the first habit not yet done today whose text
// contains name, ignoring case.
func (s *Store) CompleteHabitByName(name string) (models.Habit, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return models.Habit{}, false, err
	}
	today := utils.Today(s.clock)
	i := slices.IndexFunc(f.Habits, func(h models.Habit) bool {
		return !h.DoneOn(today) && utils.ContainsFold(h.Text, name)
	})
	if i < 0 {
		return models.Habit{}, false, nil
	}
	h, err := s.completeHabitAt(f, i)
	return h, err == nil, err
}

func (s *Store) GetTask(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return models.Task{}, err
	}
	for _, t := range f.Tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
}

// Tasks returns every task in insertion order.
func (s *Store) Tasks() ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	return f.Tasks, err
}

// OpenTasks returns the tasks still to do, in insertion order.
func (s *Store) OpenTasks() ([]models.Task, error) {
	all, err := s.Tasks()
	if err != nil {
		return nil, err
	}
	open := make([]models.Task, 0, len(all))
	for _, t := range all {
		if t.Open() {
			open = append(open, t)
		}
	}
	return open, nil
}

// Habits returns every habit with its done-today flag derived from the clock.
func (s *Store) Habits() ([]models.HabitStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	today := utils.Today(s.clock)
	out := make([]models.HabitStatus, 0, len(f.Habits))
	for _, h := range f.Habits {
		out = append(out, models.HabitStatus{Habit: h, DoneToday: h.DoneOn(today)})
	}
	return out, nil
}

// DeleteTask removes a task outright. Conversation never deletes; this backs
// the direct task commands.
func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	n := len(f.Tasks)
	f.Tasks = slices.DeleteFunc(f.Tasks, func(t models.Task) bool { return t.ID == id })
	if len(f.Tasks) == n {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err := s.save(f); err != nil {
		return err
	}
	logger.Info("Task deleted", "id", id)
	return nil
}
