package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/standup/internal/logger"
)

// ReadJSON decodes the unit at key into v. It reports false, leaving v untouched,
// when the unit does not exist yet.
func ReadJSON(p Provider, key string, v any) (bool, error) {
	data, err := p.Read(key)
	if err != nil {
		if errors.Is(err, ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return true, nil
}

// WriteJSON encodes v and replaces the unit at key.
func WriteJSON(p Provider, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := p.Write(key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	logger.Debug("Unit written", "key", key, "bytes", len(data))
	return nil
}

// Copy writes every unit of src into dst and returns how many were copied.
func Copy(dst, src Provider) (int, error) {
	keys, err := src.Keys("")
	if err != nil {
		return 0, fmt.Errorf("failed to list source units: %w", err)
	}
	for i, key := range keys {
		data, err := src.Read(key)
		if err != nil {
			return i, fmt.Errorf("failed to read source unit %s: %w", key, err)
		}
		if err := dst.Write(key, data); err != nil {
			return i, fmt.Errorf("failed to write unit %s: %w", key, err)
		}
	}
	return len(keys), nil
}
