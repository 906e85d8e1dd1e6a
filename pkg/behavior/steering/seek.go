package steering

import (
	"image/color"
	"math"

	"github.com/opd-ai/go-morph/pkg/behavior"
	"github.com/opd-ai/go-morph/pkg/module"
	"github.com/opd-ai/go-morph/pkg/physics"
)

var destinationColor = color.RGBA{G: 255, A: 160}

// SeekConfig holds the seek/arrive parameters
type SeekConfig struct {
	// SlowingRadius is the distance under which desired speed decreases
	// linearly to zero
	SlowingRadius float64
	// ArrivalTolerance and StopSpeed define arrival: the target is dropped
	// once the ship is this close and this slow
	ArrivalTolerance   float64
	StopSpeed          float64
	EnergyPerForceUnit float64
	XPPerEnergy        float64
}

// Seek steers the ship to a destination and slows it down on approach
type Seek struct {
	host       behavior.Host
	cfg        SeekConfig
	propulsion *behavior.Propulsion
	wrapper    *behavior.Behavior

	target    physics.Vector3
	hasTarget bool
	steering  physics.Vector3
}

// NewSeek creates a seek behavior with no destination
func NewSeek(host behavior.Host, cfg SeekConfig) *Seek {
	s := &Seek{
		host:       host,
		cfg:        cfg,
		propulsion: behavior.NewPropulsion(host, cfg.EnergyPerForceUnit, cfg.XPPerEnergy),
	}
	s.wrapper = behavior.NewMovement(SeekClass, s, module.SimplePropulsor)
	return s
}

// Behavior returns the attachable wrapper
func (s *Seek) Behavior() *behavior.Behavior {
	return s.wrapper
}

// SetTarget installs or replaces the destination
func (s *Seek) SetTarget(target physics.Vector3) {
	s.target = target
	s.hasTarget = true
}

// ClearTarget cancels the current destination
func (s *Seek) ClearTarget() {
	s.hasTarget = false
	s.steering.Nullify()
}

// Target returns the destination and whether one is set
func (s *Seek) Target() (physics.Vector3, bool) {
	return s.target, s.hasTarget
}

// IsActive reports whether a destination is set
func (s *Seek) IsActive() bool {
	return s.hasTarget
}

// Run computes the arrive steering force and drops the target on arrival
func (s *Seek) Run(dt float64) {
	pos := s.host.GetPosition()
	vel := s.host.GetVelocity()

	toTarget := s.target.Copy().Sub(pos)
	distance := toTarget.Modulus()
	if distance <= s.cfg.ArrivalTolerance && vel.Modulus() <= s.cfg.StopSpeed {
		s.ClearTarget()
		s.propulsion.Charge(s.steering, dt)
		return
	}

	speed := s.host.GetMaxSpeed()
	if s.cfg.SlowingRadius > 0 {
		speed *= math.Min(1, distance/s.cfg.SlowingRadius)
	}
	desired := toTarget.Normalize(speed)

	s.steering.CopyFrom(*desired).Sub(vel).
		Truncate(s.host.GetMaxSteeringForce() / s.host.GetMass())
	s.propulsion.Charge(s.steering, dt)
}

// SteeringForce returns the force computed by the last Run
func (s *Seek) SteeringForce() physics.Vector3 {
	return s.steering
}

// ConsumeEnergy pays for the last steering force
func (s *Seek) ConsumeEnergy() bool {
	return s.propulsion.ConsumeEnergy()
}

// RewardModules credits the propulsors
func (s *Seek) RewardModules() {
	s.propulsion.RewardModules()
}

// DebugDraw marks the destination
func (s *Seek) DebugDraw(canvas behavior.DebugCanvas) {
	if !s.hasTarget {
		return
	}
	canvas.DrawLine(s.host.GetPosition(), s.target, destinationColor)
	canvas.DrawCircle(s.target, s.cfg.ArrivalTolerance+1, destinationColor)
}
