// Package contextdoc holds the user's free-text "about me" note that is fed
// verbatim into the assistant prompt.
package contextdoc

import (
	"errors"
	"fmt"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/storage"
)

type Store struct {
	p storage.Provider
}

func NewStore(p storage.Provider) *Store {
	return &Store{p: p}
}

// Read returns the document, seeding the default template on first access.
func (s *Store) Read() (string, error) {
	data, err := s.p.Read(constants.UnitContext)
	if errors.Is(err, storage.ErrNotExist) {
		if err := s.Write(constants.DefaultContext); err != nil {
			return "", err
		}
		return constants.DefaultContext, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read context: %w", err)
	}
	return string(data), nil
}

// Write replaces the document.
func (s *Store) Write(text string) error {
	if err := s.p.Write(constants.UnitContext, []byte(text)); err != nil {
		return fmt.Errorf("failed to write context: %w", err)
	}
	return nil
}
