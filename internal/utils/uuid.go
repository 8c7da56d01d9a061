package utils

import "github.com/google/uuid"

// GenerateUUID returns a new time-ordered (v7) identifier as a string.
// Falls back to a random v4 identifier if the system clock misbehaves.
func GenerateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
