// Package particle implements the short-lived visual particles emitted by
// ships when they are hit or destroyed.
package particle

import (
	"image/color"
	"math/rand/v2"

	"github.com/opd-ai/go-morph/pkg/physics"
)

// DefaultCapacity bounds an engine created with a non-positive capacity
const DefaultCapacity = 4096

// Burst sizes
const (
	DamageBurstSize    = 5
	ExplosionBurstSize = 200
)

// Spec describes how an emitted particle looks over its lifetime
type Spec struct {
	Lifetime   float64
	StartSize  float64
	EndSize    float64
	StartColor color.RGBA
	EndColor   color.RGBA
}

// Particle is a single live particle
type Particle struct {
	Position physics.Vector3
	Velocity physics.Vector3
	Age      float64
	Spec
}

// Progress returns Age/Lifetime clamped to [0, 1]
func (p Particle) Progress() float64 {
	if p.Lifetime <= 0 {
		return 1
	}
	t := p.Age / p.Lifetime
	if t > 1 {
		return 1
	}
	return t
}

// Size interpolates between start and end size
func (p Particle) Size() float64 {
	t := p.Progress()
	return p.StartSize + (p.EndSize-p.StartSize)*t
}

// Color interpolates between start and end colour
func (p Particle) Color() color.RGBA {
	t := p.Progress()
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t)
	}
	return color.RGBA{
		R: lerp(p.StartColor.R, p.EndColor.R),
		G: lerp(p.StartColor.G, p.EndColor.G),
		B: lerp(p.StartColor.B, p.EndColor.B),
		A: lerp(p.StartColor.A, p.EndColor.A),
	}
}

// Emitter is the sink ships emit particles into
type Emitter interface {
	Emit(position, velocity physics.Vector3, spec Spec)
}

// Renderer draws particles
type Renderer interface {
	RenderParticle(p Particle)
}

// Engine owns and advances particles
type Engine struct {
	particles []Particle
	capacity  int
}

// NewEngine creates an engine holding at most capacity particles.
// When full, the oldest particle is dropped to make room.
func NewEngine(capacity int) *Engine {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Engine{
		particles: make([]Particle, 0, capacity),
		capacity:  capacity,
	}
}

// Emit adds a particle
func (e *Engine) Emit(position, velocity physics.Vector3, spec Spec) {
	if len(e.particles) == e.capacity {
		copy(e.particles, e.particles[1:])
		e.particles = e.particles[:len(e.particles)-1]
	}
	e.particles = append(e.particles, Particle{
		Position: position,
		Velocity: velocity,
		Spec:     spec,
	})
}

// Update moves every particle and drops the expired ones
func (e *Engine) Update(dt float64) {
	if dt <= 0 {
		return
	}
	alive := e.particles[:0]
	for _, p := range e.particles {
		p.Age += dt
		if p.Age >= p.Lifetime {
			continue
		}
		p.Position.Add(*p.Velocity.Copy().Mult(dt))
		alive = append(alive, p)
	}
	e.particles = alive
}

// Particles returns a snapshot of the live particles, oldest first
func (e *Engine) Particles() []Particle {
	out := make([]Particle, len(e.particles))
	copy(out, e.particles)
	return out
}

// Len returns the number of live particles
func (e *Engine) Len() int {
	return len(e.particles)
}

// Clear drops every particle
func (e *Engine) Clear() {
	e.particles = e.particles[:0]
}

// Render hands every live particle to r
func (e *Engine) Render(r Renderer) {
	for _, p := range e.particles {
		r.RenderParticle(p)
	}
}

var (
	// DamageSpec is used for hit sparks
	DamageSpec = Spec{
		Lifetime:   2,
		StartSize:  0.5,
		EndSize:    0.125,
		StartColor: color.RGBA{R: 255, G: 200, B: 80, A: 255},
		EndColor:   color.RGBA{R: 255, G: 60, A: 50},
	}
	// ExplosionSpec is used for destruction debris
	ExplosionSpec = Spec{
		Lifetime:   2,
		StartSize:  0.5,
		EndSize:    0.05,
		StartColor: color.RGBA{R: 255, G: 255, B: 200, A: 255},
		EndColor:   color.RGBA{R: 200, G: 40, A: 0},
	}
)

// DamageBurst emits a small spray of sparks thrown backward relative to the
// ship's velocity
func DamageBurst(e Emitter, rng *rand.Rand, position, velocity physics.Vector3) {
	angle := rng.Float64()*180 + 90
	for i := 0; i < DamageBurstSize; i++ {
		v := velocity.Copy().Mult(0.25).Rotate(angle + rng.Float64()*5).Add(velocity)
		e.Emit(position, *v, DamageSpec)
	}
}

// ExplosionBurst emits debris in every direction around position
func ExplosionBurst(e Emitter, rng *rand.Rand, position, velocity physics.Vector3) {
	for i := 0; i < ExplosionBurstSize; i++ {
		v := physics.NewVector3(200, 0, 0).Rotate(rng.Float64() * 360).Mult(rng.Float64()).Add(velocity)
		e.Emit(position, *v, ExplosionSpec)
	}
}
