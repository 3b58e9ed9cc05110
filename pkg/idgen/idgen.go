// Package idgen produces identifiers for members, tasks and items.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

type Generator interface {
	NewID() string
}

// UUID issues random v4 identifiers.
type UUID struct{}

func (UUID) NewID() string { return uuid.NewString() }

// Sequence issues prefix-1, prefix-2, ... and is meant for tests.
type Sequence struct {
	prefix string
	n      atomic.Int64
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.n.Add(1))
}
