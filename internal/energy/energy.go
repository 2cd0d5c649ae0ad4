// Package energy records self-reported energy readings, grouped by day.
package energy

import (
	"errors"
	"strings"
	"sync"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/logger"
	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/storage"
	"github.com/julianstephens/standup/internal/utils"
)

var ErrEmptyLevel = errors.New("energy level cannot be empty")

type Store struct {
	mu    sync.Mutex
	p     storage.Provider
	clock utils.Clock
}

func NewStore(p storage.Provider, clock utils.Clock) *Store {
	return &Store{p: p, clock: clock}
}

func (s *Store) load() (models.EnergyLog, error) {
	log := models.EnergyLog{}
	if _, err := storage.ReadJSON(s.p, constants.UnitEnergy, &log); err != nil {
		return nil, err
	}
	if log == nil {
		log = models.EnergyLog{}
	}
	return log, nil
}

// Log appends a reading for today. Levels are stored lowercased; values
// outside high/medium/low are kept as given.
func (s *Store) Log(level constants.EnergyLevel, note string) (models.EnergyReading, error) {
	level = constants.EnergyLevel(strings.ToLower(strings.TrimSpace(string(level))))
	if level == "" {
		return models.EnergyReading{}, ErrEmptyLevel
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.load()
	if err != nil {
		return models.EnergyReading{}, err
	}
	today := utils.Today(s.clock)
	r := models.EnergyReading{
		Time:  utils.ClockTime(s.clock),
		Level: level,
		Note:  strings.TrimSpace(note),
	}
	log[today] = append(log[today], r)
	if err := storage.WriteJSON(s.p, constants.UnitEnergy, log); err != nil {
		return models.EnergyReading{}, err
	}
	logger.Info("Energy logged", "date", today, "level", level)
	return r, nil
}

// ForDate returns the readings for date in the order they were logged.
func (s *Store) ForDate(date string) ([]models.EnergyReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.load()
	if err != nil {
		return nil, err
	}
	return log[date], nil
}

// Latest returns today's most recent reading, or nil when none was logged.
func (s *Store) Latest() (*models.EnergyReading, error) {
	readings, err := s.ForDate(utils.Today(s.clock))
	if err != nil || len(readings) == 0 {
		return nil, err
	}
	r := readings[len(readings)-1]
	return &r, nil
}

// IsStandardLevel reports whether level is one of high, medium or low.
func IsStandardLevel(level constants.EnergyLevel) bool {
	switch level {
	case constants.EnergyHigh, constants.EnergyMedium, constants.EnergyLow:
		return true
	}
	return false
}
