package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator issues ULID identifiers. ULIDs sort by creation time, so
// entry and session ids stay roughly chronological in listings.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a new ULID string.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
