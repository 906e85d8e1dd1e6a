package field

import (
	"math"
	"testing"

	"github.com/opd-ai/go-morph/pkg/behavior"
	"github.com/opd-ai/go-morph/pkg/module"
	"github.com/opd-ai/go-morph/pkg/physics"
)

type stubHost struct {
	pos    physics.Vector3
	energy float64
}

func (h *stubHost) GetPosition() physics.Vector3           { return h.pos }
func (h *stubHost) GetVelocity() physics.Vector3           { return physics.Vector3{} }
func (h *stubHost) GetHeading() float64                    { return 0 }
func (h *stubHost) GetMass() float64                       { return 10 }
func (h *stubHost) GetMaxSteeringForce() float64           { return 0 }
func (h *stubHost) GetMaxSpeed() float64                   { return 0 }
func (h *stubHost) ConsumeEnergy(amount float64) bool      { return true }
func (h *stubHost) AddEnergy(amount float64)               { h.energy += amount }
func (h *stubHost) RemoveBehavior(*behavior.Behavior)      {}
func (h *stubHost) HasModuleType(module.Type) bool         { return false }
func (h *stubHost) RewardModules(module.Type, float64)     {}

func TestGravity(t *testing.T) {
	tests := []struct {
		name       string
		pos        physics.Vector3
		cfg        GravityConfig
		wantActive bool
		wantForce  physics.Vector3
	}{
		{
			name:       "inverse_square",
			pos:        physics.Vector3{X: 10},
			cfg:        GravityConfig{Strength: 1000, MinDistance: 1},
			wantActive: true,
			wantForce:  physics.Vector3{X: -10},
		},
		{
			name:       "min_distance_clamp",
			pos:        physics.Vector3{Y: 1},
			cfg:        GravityConfig{Strength: 1000, MinDistance: 10},
			wantActive: true,
			wantForce:  physics.Vector3{Y: -10},
		},
		{
			name:       "max_force_truncation",
			pos:        physics.Vector3{X: 10},
			cfg:        GravityConfig{Strength: 1000, MinDistance: 1, MaxForce: 2},
			wantActive: true,
			wantForce:  physics.Vector3{X: -2},
		},
		{
			name:       "out_of_range",
			pos:        physics.Vector3{X: 100},
			cfg:        GravityConfig{Strength: 1000, Range: 50},
			wantActive: false,
		},
		{
			name:       "at_center",
			pos:        physics.Vector3{},
			cfg:        GravityConfig{Strength: 1000},
			wantActive: true,
			wantForce:  physics.Vector3{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGravity(&stubHost{pos: tt.pos}, tt.cfg)
			if g.IsActive() != tt.wantActive {
				t.Fatalf("IsActive() = %v, want %v", g.IsActive(), tt.wantActive)
			}
			if !tt.wantActive {
				return
			}
			g.Run(0.1)
			got := g.NonSteeringForce()
			if math.Abs(got.X-tt.wantForce.X) > 1e-9 || math.Abs(got.Y-tt.wantForce.Y) > 1e-9 {
				t.Errorf("NonSteeringForce() = %v, want %v", got, tt.wantForce)
			}
			if math.IsNaN(got.X) || math.IsNaN(got.Y) {
				t.Error("NonSteeringForce() is NaN")
			}
		})
	}
}

func TestGravity_Kind(t *testing.T) {
	b := NewGravity(&stubHost{}, GravityConfig{Strength: 1}).Behavior()
	if b.Kind() != behavior.ForceGenerating || b.Class() != GravityClass {
		t.Errorf("Behavior() = %v", b)
	}
}

func TestStarsContribution(t *testing.T) {
	host := &stubHost{energy: 5}
	s := NewStarsContribution(host, 2)

	if !s.IsActive() {
		t.Fatal("positive contribution should be active")
	}
	if s.Behavior().Kind() != behavior.Passive {
		t.Errorf("Kind() = %v, want passive", s.Behavior().Kind())
	}
	for i := 0; i < 4; i++ {
		s.Run(0.25)
	}
	if math.Abs(host.energy-7) > 1e-9 {
		t.Errorf("energy = %v, want 7", host.energy)
	}

	if NewStarsContribution(host, 0).IsActive() {
		t.Error("zero contribution should be inactive")
	}
}
