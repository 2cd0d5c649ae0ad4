package models

import "github.com/julianstephens/standup/internal/constants"

type EnergyReading struct {
	Time  string                `json:"time"` // HH:MM format
	Level constants.EnergyLevel `json:"level"`
	Note  string                `json:"note,omitempty"`
}

// EnergyLog maps a date (YYYY-MM-DD) to that day's readings in append order.
type EnergyLog map[string][]EnergyReading
