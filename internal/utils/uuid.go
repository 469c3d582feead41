package utils

import "github.com/google/uuid"

// UUIDGenerator produces time-ordered identifiers for credential entries.
// V7 keeps list ordering stable across devices; the random fallback only
// fires if the entropy source is unavailable.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
