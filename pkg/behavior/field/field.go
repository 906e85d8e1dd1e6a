// Package field holds behaviors driven by the environment rather than by the
// ship's propulsors: gravity wells and star energy.
package field

import (
	"math"

	"github.com/opd-ai/go-morph/pkg/behavior"
	"github.com/opd-ai/go-morph/pkg/physics"
)

// Behavior classes
const (
	GravityClass = "gravity"
	StarsClass   = "stars_contribution"
)

// GravityConfig describes a fixed attraction well
type GravityConfig struct {
	Center      physics.Vector3
	Strength    float64
	MinDistance float64
	MaxForce    float64
	// Range limits the well's reach; 0 means unlimited
	Range float64
}

// Gravity pulls its host toward a fixed point
type Gravity struct {
	host    behavior.Host
	cfg     GravityConfig
	force   physics.Vector3
	wrapper *behavior.Behavior
}

// NewGravity creates a gravity well acting on host
func NewGravity(host behavior.Host, cfg GravityConfig) *Gravity {
	g := &Gravity{host: host, cfg: cfg}
	g.wrapper = behavior.NewForceGenerating(GravityClass, g)
	return g
}

// Behavior returns the attachable wrapper
func (g *Gravity) Behavior() *behavior.Behavior {
	return g.wrapper
}

// IsActive reports whether the host is within range of the well
func (g *Gravity) IsActive() bool {
	if g.cfg.Strength == 0 {
		return false
	}
	if g.cfg.Range <= 0 {
		return true
	}
	return g.host.GetPosition().Distance(g.cfg.Center) <= g.cfg.Range
}

// Run computes strength / max(d², minDistance²) toward the center
func (g *Gravity) Run(dt float64) {
	toCenter := g.cfg.Center.Copy().Sub(g.host.GetPosition())
	distSq := math.Max(toCenter.ModulusSquared(), g.cfg.MinDistance*g.cfg.MinDistance)
	if distSq == 0 {
		g.force.Nullify()
		return
	}

	g.force.CopyFrom(*toCenter.Normalize(g.cfg.Strength / distSq))
	if g.cfg.MaxForce > 0 {
		g.force.Truncate(g.cfg.MaxForce)
	}
}

// NonSteeringForce returns the force computed by the last Run
func (g *Gravity) NonSteeringForce() physics.Vector3 {
	return g.force
}

// StarsContribution feeds energy to its host every tick
type StarsContribution struct {
	host            behavior.Host
	energyPerSecond float64
	wrapper         *behavior.Behavior
}

// NewStarsContribution creates the passive energy behavior
func NewStarsContribution(host behavior.Host, energyPerSecond float64) *StarsContribution {
	s := &StarsContribution{host: host, energyPerSecond: energyPerSecond}
	s.wrapper = behavior.NewPassive(StarsClass, s)
	return s
}

// Behavior returns the attachable wrapper
func (s *StarsContribution) Behavior() *behavior.Behavior {
	return s.wrapper
}

// IsActive reports whether the contribution is positive
func (s *StarsContribution) IsActive() bool {
	return s.energyPerSecond > 0
}

// Run adds energyPerSecond*dt to the host
func (s *StarsContribution) Run(dt float64) {
	s.host.AddEnergy(s.energyPerSecond * dt)
}
