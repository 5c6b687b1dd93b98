package world

import (
	"strconv"

	"github.com/google/uuid"
)

// IDGenerator produces unique identifiers for tiles and triggers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random UUIDs. It is the default generator.
type UUIDGenerator struct{}

// NewID returns a new random UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequentialIDs issues prefix1, prefix2, ... in order.
type SequentialIDs struct {
	Prefix string
	n      int
}

// NewID returns the next identifier in the sequence.
func (s *SequentialIDs) NewID() string {
	s.n++
	return s.Prefix + strconv.Itoa(s.n)
}
