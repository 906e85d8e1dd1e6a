package particle

import (
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/opd-ai/go-morph/pkg/physics"
)

type countingRenderer struct {
	rendered []Particle
}

func (r *countingRenderer) RenderParticle(p Particle) {
	r.rendered = append(r.rendered, p)
}

func TestEngine_UpdateAndExpire(t *testing.T) {
	e := NewEngine(10)
	e.Emit(physics.Vector3{}, physics.Vector3{X: 10}, Spec{Lifetime: 1})
	e.Emit(physics.Vector3{}, physics.Vector3{Y: 1}, Spec{Lifetime: 3})

	e.Update(0.5)
	particles := e.Particles()
	if len(particles) != 2 {
		t.Fatalf("Len() = %d, want 2", len(particles))
	}
	if particles[0].Position != (physics.Vector3{X: 5}) {
		t.Errorf("Position = %v, want (5, 0)", particles[0].Position)
	}

	e.Update(0.5)
	if e.Len() != 1 {
		t.Fatalf("Len() = %d after first lifetime elapsed, want 1", e.Len())
	}

	e.Update(0)
	if e.Len() != 1 {
		t.Error("Update(0) should be a no-op")
	}

	r := &countingRenderer{}
	e.Render(r)
	if len(r.rendered) != 1 {
		t.Errorf("Render() drew %d particles, want 1", len(r.rendered))
	}

	e.Clear()
	if e.Len() != 0 {
		t.Error("Clear() left particles behind")
	}
}

func TestEngine_CapacityDropsOldest(t *testing.T) {
	e := NewEngine(3)
	for i := 0; i < 5; i++ {
		e.Emit(physics.Vector3{X: float64(i)}, physics.Vector3{}, Spec{Lifetime: 1})
	}

	particles := e.Particles()
	if len(particles) != 3 {
		t.Fatalf("Len() = %d, want 3", len(particles))
	}
	for i, p := range particles {
		if p.Position.X != float64(i+2) {
			t.Errorf("particle %d at %v, want x=%d", i, p.Position, i+2)
		}
	}
}

func TestParticle_Interpolation(t *testing.T) {
	p := Particle{
		Age: 1,
		Spec: Spec{
			Lifetime:   2,
			StartSize:  1,
			EndSize:    0,
			StartColor: color.RGBA{R: 200, A: 255},
			EndColor:   color.RGBA{R: 0, A: 55},
		},
	}

	if got := p.Size(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Size() = %v, want 0.5", got)
	}
	if got := p.Color(); got.R != 100 || got.A != 155 {
		t.Errorf("Color() = %v, want R=100 A=155", got)
	}

	p.Age = 10
	if p.Progress() != 1 {
		t.Errorf("Progress() = %v, want clamped to 1", p.Progress())
	}
}

func TestBursts(t *testing.T) {
	tests := []struct {
		name  string
		burst func(Emitter, *rand.Rand, physics.Vector3, physics.Vector3)
		want  int
		spec  Spec
	}{
		{"damage", DamageBurst, DamageBurstSize, DamageSpec},
		{"explosion", ExplosionBurst, ExplosionBurstSize, ExplosionSpec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(1000)
			pos := physics.Vector3{X: 3, Y: 4}
			vel := physics.Vector3{X: 1}
			tt.burst(e, rand.New(rand.NewPCG(5, 6)), pos, vel)

			particles := e.Particles()
			if len(particles) != tt.want {
				t.Fatalf("emitted %d particles, want %d", len(particles), tt.want)
			}
			for _, p := range particles {
				if p.Position != pos {
					t.Errorf("particle emitted at %v, want %v", p.Position, pos)
				}
				if p.Spec != tt.spec {
					t.Errorf("Spec = %+v, want %+v", p.Spec, tt.spec)
				}
			}
		})
	}
}

func TestExplosionBurst_SpeedBound(t *testing.T) {
	e := NewEngine(1000)
	vel := physics.Vector3{X: 5}
	ExplosionBurst(e, rand.New(rand.NewPCG(9, 9)), physics.Vector3{}, vel)

	for _, p := range e.Particles() {
		relative := p.Velocity.Copy().Sub(vel)
		if relative.Modulus() > 200+1e-9 {
			t.Fatalf("debris speed %v exceeds 200", relative.Modulus())
		}
	}
}
