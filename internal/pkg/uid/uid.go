// Package uid generates the correlation ids attached to requests and logs.
package uid

import "github.com/google/uuid"

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// UUID generates time-ordered UUIDv7 strings, so ids sort by arrival in logs.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a UUIDv7, or a random UUIDv4 if the v7 source fails.
func (*UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
