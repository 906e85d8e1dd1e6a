package behavior

import (
	"context"
	"errors"

	"github.com/opd-ai/go-morph/pkg/logging"
)

// ErrEmptyClass is logged when a bulk removal is requested without a class
var ErrEmptyClass = errors.New("behavior class must not be empty")

// Set holds a ship's active behaviors.
//
// Mutations are queued and only applied by Commit, so the set can be changed
// from inside a behavior's Run while the ship iterates a Snapshot.
type Set struct {
	active        []*Behavior
	pendingAdd    []*Behavior
	pendingRemove []*Behavior
	logger        *logging.Logger
}

// NewSet creates an empty set. A nil logger discards output.
func NewSet(logger *logging.Logger) *Set {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Set{logger: logger}
}

// Add queues b for addition at the next Commit
func (s *Set) Add(b *Behavior) {
	if b == nil {
		s.logger.Error(context.Background(), "nil behavior added", nil)
		return
	}
	s.pendingAdd = append(s.pendingAdd, b)
}

// Remove queues b for removal at the next Commit. A behavior still waiting
// to be added is dropped from the pending additions.
func (s *Set) Remove(b *Behavior) {
	if b == nil {
		return
	}
	s.pendingAdd = without(s.pendingAdd, func(p *Behavior) bool { return p == b })
	s.pendingRemove = append(s.pendingRemove, b)
}

// RemoveClass queues removal of every behavior with the given class
func (s *Set) RemoveClass(class string) {
	if class == "" {
		s.logger.Error(context.Background(), "bulk behavior removal ignored", ErrEmptyClass)
		return
	}
	s.pendingAdd = without(s.pendingAdd, func(p *Behavior) bool { return p.class == class })
	for _, b := range s.active {
		if b.class == class {
			s.pendingRemove = append(s.pendingRemove, b)
		}
	}
}

// Snapshot returns a copy of the active behaviors in insertion order
func (s *Set) Snapshot() []*Behavior {
	snapshot := make([]*Behavior, len(s.active))
	copy(snapshot, s.active)
	return snapshot
}

// Commit applies queued removals, then queued additions, and clears both
// queues.
func (s *Set) Commit() {
	for _, b := range s.pendingRemove {
		s.active = without(s.active, func(a *Behavior) bool { return a == b })
	}
	s.pendingRemove = s.pendingRemove[:0]

	for _, b := range s.pendingAdd {
		if !s.isActive(b) {
			s.active = append(s.active, b)
		}
	}
	s.pendingAdd = s.pendingAdd[:0]
}

// Contains reports whether b is active or waiting to be added
func (s *Set) Contains(b *Behavior) bool {
	if s.isActive(b) {
		return true
	}
	for _, p := range s.pendingAdd {
		if p == b {
			return true
		}
	}
	return false
}

// FindClass returns the first active or pending behavior with the class
func (s *Set) FindClass(class string) *Behavior {
	for _, b := range s.active {
		if b.class == class && !s.removalPending(b) {
			return b
		}
	}
	for _, b := range s.pendingAdd {
		if b.class == class {
			return b
		}
	}
	return nil
}

// Len returns the number of active behaviors
func (s *Set) Len() int {
	return len(s.active)
}

func (s *Set) isActive(b *Behavior) bool {
	for _, a := range s.active {
		if a == b {
			return true
		}
	}
	return false
}

func (s *Set) removalPending(b *Behavior) bool {
	for _, r := range s.pendingRemove {
		if r == b {
			return true
		}
	}
	return false
}

func without(list []*Behavior, drop func(*Behavior) bool) []*Behavior {
	kept := list[:0]
	for _, b := range list {
		if !drop(b) {
			kept = append(kept, b)
		}
	}
	for i := len(kept); i < len(list); i++ {
		list[i] = nil
	}
	return kept
}
