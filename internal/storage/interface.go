package storage

import "errors"

var (
	// ErrNotExist is returned by Read when a unit has never been written
	ErrNotExist = errors.New("storage unit does not exist")
	// ErrNotLoaded is returned when a provider is used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider persists named units of state. Each Write replaces the whole unit,
// so a reader never observes a partially written unit.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Units
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Has(key string) (bool, error)
	// Keys returns every stored key beginning with prefix, sorted.
	Keys(prefix string) ([]string, error)

	// Utility
	GetConfigPath() string
}
