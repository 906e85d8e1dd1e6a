// Package steering provides the Movement behaviors that steer ships.
package steering

import (
	"image/color"
	"math/rand/v2"

	"github.com/opd-ai/go-morph/pkg/behavior"
	"github.com/opd-ai/go-morph/pkg/module"
	"github.com/opd-ai/go-morph/pkg/physics"
)

// Behavior classes
const (
	WanderClass = "wander"
	SeekClass   = "seek"
)

// DefaultJitter is the maximum per-axis wander target step per run
const DefaultJitter = 0.125

var (
	focusColor  = color.RGBA{R: 255, G: 255, B: 255, A: 38}
	targetColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	forceColor  = color.RGBA{B: 255, A: 255}
)

// WanderConfig holds the wander parameters
type WanderConfig struct {
	FocusDistance      float64
	Radius             float64
	Jitter             float64
	EnergyPerForceUnit float64
	XPPerEnergy        float64
}

// Wander steers toward a point that drifts randomly around a focus projected
// ahead of the ship.
type Wander struct {
	host       behavior.Host
	rng        *rand.Rand
	cfg        WanderConfig
	propulsion *behavior.Propulsion
	wrapper    *behavior.Behavior

	focus    physics.Vector3
	target   physics.Vector3
	steering physics.Vector3
	detached bool
}

// NewWander creates a wander behavior for host. rng must not be shared with
// other goroutines; seed it to make the walk reproducible.
func NewWander(host behavior.Host, rng *rand.Rand, cfg WanderConfig) *Wander {
	if cfg.Jitter <= 0 {
		cfg.Jitter = DefaultJitter
	}
	w := &Wander{
		host:       host,
		rng:        rng,
		cfg:        cfg,
		propulsion: behavior.NewPropulsion(host, cfg.EnergyPerForceUnit, cfg.XPPerEnergy),
	}
	w.wrapper = behavior.NewMovement(WanderClass, w, module.SimplePropulsor)
	return w
}

// Behavior returns the attachable wrapper
func (w *Wander) Behavior() *behavior.Behavior {
	return w.wrapper
}

// IsActive reports whether the wander still has a focus distance and has
// not detached itself
func (w *Wander) IsActive() bool {
	return w.cfg.FocusDistance != 0 && !w.detached
}

// Run moves the wander target and recomputes the steering force.
// A zero radius detaches the behavior from its host.
func (w *Wander) Run(dt float64) {
	if w.cfg.Radius == 0 {
		w.detached = true
		w.steering.Nullify()
		w.propulsion.Charge(w.steering, dt)
		w.host.RemoveBehavior(w.wrapper)
		return
	}

	pos := w.host.GetPosition()
	ahead := physics.North()
	ahead.Rotate(w.host.GetHeading()).Normalize(w.cfg.FocusDistance + w.host.GetMass())
	w.focus.CopyFrom(pos).Add(ahead)

	w.target.X += w.rng.Float64()*2*w.cfg.Jitter - w.cfg.Jitter
	w.target.Y += w.rng.Float64()*2*w.cfg.Jitter - w.cfg.Jitter
	if w.target.Modulus() > w.cfg.Radius {
		w.target.Nullify()
	}

	w.steering.CopyFrom(w.focus).Sub(pos).Add(w.target).
		Truncate(w.host.GetMaxSteeringForce() / w.host.GetMass())
	w.propulsion.Charge(w.steering, dt)
}

// SteeringForce returns the force computed by the last Run
func (w *Wander) SteeringForce() physics.Vector3 {
	return w.steering
}

// ConsumeEnergy pays for the last steering force
func (w *Wander) ConsumeEnergy() bool {
	return w.propulsion.ConsumeEnergy()
}

// RewardModules credits the propulsors
func (w *Wander) RewardModules() {
	w.propulsion.RewardModules()
}

// Focus returns the current focus point
func (w *Wander) Focus() physics.Vector3 {
	return w.focus
}

// Target returns the wander target offset relative to the focus
func (w *Wander) Target() physics.Vector3 {
	return w.target
}

// DebugDraw draws the focus ring, the wander radius and the target
func (w *Wander) DebugDraw(canvas behavior.DebugCanvas) {
	pos := w.host.GetPosition()
	canvas.DrawCircle(pos, w.cfg.FocusDistance, focusColor)
	canvas.DrawCircle(w.focus, w.cfg.Radius, focusColor)
	target := w.focus.Copy().Add(w.target)
	canvas.DrawCircle(*target, 2, targetColor)
	canvas.DrawLine(pos, *pos.Copy().Add(w.steering), forceColor)
}
