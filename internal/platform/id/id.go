package id

import "github.com/google/uuid"

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// UUIDv7 produces time-sortable identifiers, so session and insight ids
// order the same way as their timestamps.
type UUIDv7 struct{}

func (UUIDv7) New() string {
	return uuid.Must(uuid.NewV7()).String()
}
