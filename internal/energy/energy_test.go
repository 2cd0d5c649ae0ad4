package energy

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/storage"
	"github.com/julianstephens/standup/internal/utils"
)

func TestLogAndLatest(t *testing.T) {
	clock := utils.NewFixedClock(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	s := NewStore(storage.NewMemoryStore(), clock)

	latest, err := s.Latest()
	if err != nil || latest != nil {
		t.Fatalf("Latest() on empty log = %v, %v", latest, err)
	}

	if _, err := s.Log("HIGH", "slept well"); err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	clock.Advance(5 * time.Hour)
	if _, err := s.Log(constants.EnergyLow, "post-lunch dip"); err != nil {
		t.Fatalf("Log() error = %v", err)
	}

	latest, err = s.Latest()
	if err != nil {
		t.Fatal(err)
	}
	if latest.Level != constants.EnergyLow || latest.Time != "14:00" || latest.Note != "post-lunch dip" {
		t.Errorf("Latest() = %+v", latest)
	}

	readings, _ := s.ForDate("2026-10-19")
	if len(readings) != 2 || readings[0].Level != constants.EnergyHigh {
		t.Errorf("ForDate() = %+v", readings)
	}
}

func TestLatestIsPerDay(t *testing.T) {
	clock := utils.NewFixedClock(time.Date(2026, 10, 19, 21, 0, 0, 0, time.UTC))
	s := NewStore(storage.NewMemoryStore(), clock)
	_, _ = s.Log(constants.EnergyMedium, "")

	clock.Advance(12 * time.Hour)
	latest, err := s.Latest()
	if err != nil || latest != nil {
		t.Errorf("Latest() next day = %+v, %v, want nil", latest, err)
	}
}

func TestLogRejectsEmptyLevel(t *testing.T) {
	s := NewStore(storage.NewMemoryStore(), utils.NewFixedClock(time.Now()))
	if _, err := s.Log("  ", "note"); !errors.Is(err, ErrEmptyLevel) {
		t.Errorf("Log(blank) error = %v, want ErrEmptyLevel", err)
	}
}

func TestIsStandardLevel(t *testing.T) {
	if !IsStandardLevel(constants.EnergyMedium) {
		t.Error("medium should be standard")
	}
	if IsStandardLevel("wired") {
		t.Error("free text should not be standard")
	}
}
