// Package keyring keeps secrets (the model API key and a database
// connection string) in the OS keyring instead of config files.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/standup/internal/constants"
)

var (
	ErrNotFound           = errors.New("secret not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Secret names one entry under the application's keyring service.
type Secret string

const (
	APIKey       Secret = constants.KeyringAPIKeyUser
	DBConnection Secret = constants.KeyringDBUser
)

func (s Secret) Label() string {
	switch s {
	case APIKey:
		return "API key"
	case DBConnection:
		return "database connection string"
	default:
		return string(s)
	}
}

// ParseSecret accepts the CLI spellings of each secret.
func ParseSecret(name string) (Secret, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "api-key", "apikey", "openai", string(APIKey):
		return APIKey, true
	case "db", "database", string(DBConnection):
		return DBConnection, true
	}
	return "", false
}

func Get(s Secret) (string, error) {
	v, err := keyring.Get(constants.AppName, string(s))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

func Set(s Secret, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", s.Label())
	}
	if err := keyring.Set(constants.AppName, string(s), value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", s.Label(), err)
	}
	return nil
}

func Delete(s Secret) error {
	err := keyring.Delete(constants.AppName, string(s))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s from keyring: %w", s.Label(), err)
	}
	return nil
}

// IsAvailable is a best-effort probe: a lookup that fails with anything
// other than "not found" means there is no usable keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
