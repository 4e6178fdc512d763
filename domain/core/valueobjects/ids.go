package valueobjects

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	// IDLength is the length of every entity id
	IDLength = 8

	// MaxReferenceLength is the longest id accepted from a caller
	MaxReferenceLength = 64

	apiKeyPrefix = "axrp_"
)

// NewID returns a fresh 8 character id taken from a random UUID
func NewID() string {
	return uuid.New().String()[:IDLength]
}

// NewAPIKey returns a bearer credential of the form axrp_<32 hex chars>
func NewAPIKey() string {
	return apiKeyPrefix + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// IsAPIKey reports whether s has the shape of an issued API key
func IsAPIKey(s string) bool {
	if !strings.HasPrefix(s, apiKeyPrefix) {
		return false
	}
	rest := s[len(apiKeyPrefix):]
	if len(rest) != 32 {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}

// ValidateID checks an id received from a caller
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}
	if len(id) > MaxReferenceLength {
		return errors.New("id is too long")
	}
	return nil
}
