package id

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Generator creates opaque IDs for new records.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator issues random (version 4) UUIDs.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Wrap(err, "generate uuid")
	}
	return value.String(), nil
}

// Sequence returns fixed IDs in order, then fails. Used by tests.
type Sequence struct {
	ids  []string
	next int
}

func NewSequence(ids ...string) *Sequence {
	return &Sequence{ids: ids}
}

func (s *Sequence) NewID() (string, error) {
	if s.next >= len(s.ids) {
		return "", errors.New("id sequence exhausted")
	}
	value := s.ids[s.next]
	s.next++
	return value, nil
}
