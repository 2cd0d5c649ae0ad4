package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a time-ordered identifier (UUIDv7), falling back to a random one.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// ContainsFold reports whether substr is within s, ignoring case. An empty
// substr never matches.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
