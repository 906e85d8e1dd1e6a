package entity

import "sync/atomic"

// IDGenerator hands out monotonically increasing, never reused ids.
// It is safe for concurrent use.
type IDGenerator struct {
	last atomic.Uint64
}

// NewIDGenerator creates a generator whose first id is 1
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns a fresh id
func (g *IDGenerator) Next() ID {
	return ID(g.last.Add(1))
}

// DefaultIDs is used by constructors that are not given a generator
var DefaultIDs = NewIDGenerator()
