// Package module models the equippable ship components whose presence and
// level gate behaviors and determine a ship's derived steering caps.
package module

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrUnknownType is returned when a module type name cannot be parsed
var ErrUnknownType = errors.New("unknown module type")

// Type identifies the kind of a module
type Type int

// Module types
const (
	SimplePropulsor Type = iota
	Shield
	Laser
	Overmind
)

var typeNames = map[Type]string{
	SimplePropulsor: "simple_propulsor",
	Shield:          "shield",
	Laser:           "laser",
	Overmind:        "overmind",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseType converts a type name such as "simple_propulsor" into a Type
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Module is a single equipped component
type Module struct {
	ID         uint64
	Type       Type
	Level      int
	Experience float64
}

// New creates a module of the given type and level
func New(id uint64, t Type, level int) *Module {
	if level < 0 {
		level = 0
	}
	return &Module{ID: id, Type: t, Level: level}
}

// Progression controls how experience turns into levels
type Progression struct {
	// XPPerLevel is the experience needed to go from level n to n+1,
	// multiplied by n+1.
	XPPerLevel float64
	MaxLevel   int
}

// AddExperience credits xp to the module and applies as many level-ups as
// the accumulated experience allows. It reports whether the level changed.
func (m *Module) AddExperience(xp float64, p Progression) bool {
	if xp <= 0 || p.XPPerLevel <= 0 {
		return false
	}
	m.Experience += xp

	leveled := false
	for p.MaxLevel <= 0 || m.Level < p.MaxLevel {
		needed := p.XPPerLevel * float64(m.Level+1)
		if m.Experience < needed {
			break
		}
		m.Experience -= needed
		m.Level++
		leveled = true
	}
	return leveled
}

// PropulsorParams holds the per-module base values for simple propulsors
type PropulsorParams struct {
	MaxForce               float64
	MaxForceFactorPerLevel float64
	MaxSpeed               float64
	MaxSpeedFactorPerLevel float64
	// StackingPenalty multiplies the summed caps once per propulsor beyond
	// the first.
	StackingPenalty float64
}

// Caps are the values derived from the equipped modules
type Caps struct {
	MaxSteeringForce float64
	MaxSpeed         float64
}

// Loadout is the set of modules equipped on a ship, indexed by id and type
type Loadout struct {
	byID   map[uint64]*Module
	byType map[Type][]*Module
}

// NewLoadout creates an empty loadout
func NewLoadout() *Loadout {
	return &Loadout{
		byID:   make(map[uint64]*Module),
		byType: make(map[Type][]*Module),
	}
}

// Add equips m. Adding a module whose id is already present replaces it.
func (l *Loadout) Add(m *Module) {
	if m == nil {
		return
	}
	if old, ok := l.byID[m.ID]; ok {
		l.remove(old)
	}
	l.byID[m.ID] = m
	l.byType[m.Type] = append(l.byType[m.Type], m)
}

func (l *Loadout) remove(m *Module) {
	delete(l.byID, m.ID)
	list := l.byType[m.Type]
	for i, candidate := range list {
		if candidate == m {
			l.byType[m.Type] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

// ByID returns the module with the given id
func (l *Loadout) ByID(id uint64) (*Module, bool) {
	m, ok := l.byID[id]
	return m, ok
}

// ByType returns the modules of type t in equip order. The slice must not
// be modified.
func (l *Loadout) ByType(t Type) []*Module {
	return l.byType[t]
}

// HasType reports whether at least one module of type t is equipped
func (l *Loadout) HasType(t Type) bool {
	return len(l.byType[t]) > 0
}

// MaxLevel returns the highest level among modules of type t, 0 if none
func (l *Loadout) MaxLevel(t Type) int {
	maxLevel := 0
	for _, m := range l.byType[t] {
		if m.Level > maxLevel {
			maxLevel = m.Level
		}
	}
	return maxLevel
}

// Len returns the number of equipped modules
func (l *Loadout) Len() int {
	return len(l.byID)
}

// All returns the modules sorted by id
func (l *Loadout) All() []*Module {
	all := make([]*Module, 0, len(l.byID))
	for _, m := range l.byID {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// Caps computes the steering caps contributed by the simple propulsors.
// Each propulsor adds MaxForce*factor^level and MaxSpeed*factor^level; the
// sums are multiplied by StackingPenalty^n for n propulsors, so a lone
// propulsor is penalised too.
func (l *Loadout) Caps(p PropulsorParams) Caps {
	var caps Caps
	propulsors := l.byType[SimplePropulsor]
	if len(propulsors) == 0 {
		return caps
	}

	for _, m := range propulsors {
		caps.MaxSteeringForce += p.MaxForce * math.Pow(p.MaxForceFactorPerLevel, float64(m.Level))
		caps.MaxSpeed += p.MaxSpeed * math.Pow(p.MaxSpeedFactorPerLevel, float64(m.Level))
	}

	penalty := math.Pow(p.StackingPenalty, float64(len(propulsors)))
	caps.MaxSteeringForce *= penalty
	caps.MaxSpeed *= penalty
	return caps
}
