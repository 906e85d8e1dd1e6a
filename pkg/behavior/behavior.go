// Package behavior defines the per-tick logic units attached to ships and the
// deferred set that holds them.
package behavior

import (
	"fmt"
	"image/color"

	"github.com/opd-ai/go-morph/pkg/module"
	"github.com/opd-ai/go-morph/pkg/physics"
)

// Kind discriminates the behavior variants
type Kind int

const (
	// Movement behaviors produce a steering force paid for with energy
	Movement Kind = iota
	// ForceGenerating behaviors produce an incidental force such as gravity
	ForceGenerating
	// Passive behaviors only change ship state when run
	Passive
)

func (k Kind) String() string {
	switch k {
	case Movement:
		return "movement"
	case ForceGenerating:
		return "force_generating"
	case Passive:
		return "passive"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Runner is implemented by every behavior payload.
// IsActive must not have side effects. Run is the only place a behavior
// changes state and is always called with dt > 0.
type Runner interface {
	IsActive() bool
	Run(dt float64)
}

// Steerer is the payload of a Movement behavior
type Steerer interface {
	Runner
	// SteeringForce returns the force computed by the last Run
	SteeringForce() physics.Vector3
	// ConsumeEnergy pays for the last steering force and reports whether
	// the host had enough energy
	ConsumeEnergy() bool
	// RewardModules credits the modules that produced the force
	RewardModules()
}

// ForceSource is the payload of a ForceGenerating behavior
type ForceSource interface {
	Runner
	NonSteeringForce() physics.Vector3
}

// Host is the view of a ship that behaviors work against.
// Behaviors hold their host as a back reference and never own it.
type Host interface {
	GetPosition() physics.Vector3
	GetVelocity() physics.Vector3
	GetHeading() float64
	GetMass() float64
	GetMaxSteeringForce() float64
	GetMaxSpeed() float64
	ConsumeEnergy(amount float64) bool
	AddEnergy(amount float64)
	RemoveBehavior(b *Behavior)
	HasModuleType(t module.Type) bool
	RewardModules(t module.Type, experience float64)
}

// Behavior is a closed tagged variant over the three behavior kinds
type Behavior struct {
	kind    Kind
	class   string
	needs   []module.Type
	runner  Runner
	steerer Steerer
	source  ForceSource
}

// NewMovement wraps a Steerer. needs lists the module types the host must
// carry for the behavior to be attached.
func NewMovement(class string, s Steerer, needs ...module.Type) *Behavior {
	return &Behavior{kind: Movement, class: class, needs: needs, runner: s, steerer: s}
}

// NewForceGenerating wraps a ForceSource
func NewForceGenerating(class string, f ForceSource, needs ...module.Type) *Behavior {
	return &Behavior{kind: ForceGenerating, class: class, needs: needs, runner: f, source: f}
}

// NewPassive wraps a plain Runner
func NewPassive(class string, r Runner, needs ...module.Type) *Behavior {
	return &Behavior{kind: Passive, class: class, needs: needs, runner: r}
}

// Kind returns the variant tag
func (b *Behavior) Kind() Kind { return b.kind }

// Class returns the class tag used for bulk removal
func (b *Behavior) Class() string { return b.class }

// Needs returns the module types required at attach time
func (b *Behavior) Needs() []module.Type { return b.needs }

// IsActive reports whether the payload wants to run this tick
func (b *Behavior) IsActive() bool { return b.runner.IsActive() }

// Run advances the payload
func (b *Behavior) Run(dt float64) { b.runner.Run(dt) }

// Steerer returns the Movement payload, nil for other kinds
func (b *Behavior) Steerer() Steerer { return b.steerer }

// ForceSource returns the ForceGenerating payload, nil for other kinds
func (b *Behavior) ForceSource() ForceSource { return b.source }

// Payload returns the wrapped runner
func (b *Behavior) Payload() Runner { return b.runner }

// NeedsMet reports whether has returns true for every required module type
func (b *Behavior) NeedsMet(has func(module.Type) bool) bool {
	for _, t := range b.needs {
		if !has(t) {
			return false
		}
	}
	return true
}

func (b *Behavior) String() string {
	return fmt.Sprintf("%s(%s)", b.class, b.kind)
}

// DebugCanvas receives the overlay geometry of behaviors that expose one
type DebugCanvas interface {
	DrawCircle(center physics.Vector3, radius float64, c color.RGBA)
	DrawLine(from, to physics.Vector3, c color.RGBA)
}

// DebugDrawer is implemented by payloads with a debug overlay
type DebugDrawer interface {
	DebugDraw(canvas DebugCanvas)
}
