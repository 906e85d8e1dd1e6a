// pkg/physics/vector_test.go
package physics

import (
	"math"
	"math/rand/v2"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestVector3_Add(t *testing.T) {
	tests := []struct {
		name     string
		v1       Vector3
		v2       Vector3
		expected Vector3
	}{
		{
			name:     "positive_vectors",
			v1:       Vector3{X: 3, Y: 4, Z: 1},
			v2:       Vector3{X: 1, Y: 2, Z: 1},
			expected: Vector3{X: 4, Y: 6, Z: 2},
		},
		{
			name:     "mixed_signs",
			v1:       Vector3{X: 5, Y: -3},
			v2:       Vector3{X: -2, Y: 7},
			expected: Vector3{X: 3, Y: 4},
		},
		{
			name:     "zero_vector",
			v1:       Vector3{},
			v2:       Vector3{X: 5, Y: -3},
			expected: Vector3{X: 5, Y: -3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.v1
			result := v.Add(tt.v2)
			if *result != tt.expected {
				t.Errorf("Add() = %v, expected %v", *result, tt.expected)
			}
			if result != &v {
				t.Error("Add() should return its receiver")
			}
		})
	}
}

func TestVector3_CopyBeforeMutate(t *testing.T) {
	original := Vector3{X: 1, Y: 2, Z: 3}
	copied := original.Copy().Mult(10).Sub(Vector3{X: 1})

	if original != (Vector3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("original mutated through Copy: %v", original)
	}
	if *copied != (Vector3{X: 9, Y: 20, Z: 30}) {
		t.Errorf("chained copy = %v, expected (9, 20, 30)", *copied)
	}
}

func TestVector3_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector3
		length   float64
		expected Vector3
	}{
		{"unit_x", Vector3{X: 5}, 1, Vector3{X: 1}},
		{"scale_up", Vector3{X: 3, Y: 4}, 10, Vector3{X: 6, Y: 8}},
		{"zero_stays_zero", Vector3{}, 5, Vector3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.v
			v.Normalize(tt.length)
			if !approxEqual(v.X, tt.expected.X, epsilon) || !approxEqual(v.Y, tt.expected.Y, epsilon) {
				t.Errorf("Normalize(%v) = %v, expected %v", tt.length, v, tt.expected)
			}
			if math.IsNaN(v.X) || math.IsNaN(v.Y) {
				t.Errorf("Normalize produced NaN: %v", v)
			}
		})
	}
}

func TestVector3_Truncate(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector3
		max      float64
		expected Vector3
	}{
		{"clamps_long_vector", Vector3{X: 30, Y: 40}, 5, Vector3{X: 3, Y: 4}},
		{"short_vector_untouched", Vector3{X: 1, Y: 1}, 5, Vector3{X: 1, Y: 1}},
		{"exact_length_untouched", Vector3{X: 3, Y: 4}, 5, Vector3{X: 3, Y: 4}},
		{"zero_max_yields_zero", Vector3{X: 3, Y: 4}, 0, Vector3{}},
		{"negative_max_yields_zero", Vector3{X: 3, Y: 4}, -1, Vector3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.v
			v.Truncate(tt.max)
			if !approxEqual(v.X, tt.expected.X, epsilon) || !approxEqual(v.Y, tt.expected.Y, epsilon) {
				t.Errorf("Truncate(%v) = %v, expected %v", tt.max, v, tt.expected)
			}
		})
	}
}

func TestVector3_TruncateKeepsDirection(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 500; i++ {
		v := Vector3{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}
		if v.IsZero() {
			continue
		}
		limit := rng.Float64() * 50
		before := v
		v.Truncate(limit)

		if v.Modulus() > limit+1e-9 {
			t.Fatalf("Truncate(%v) on %v gave modulus %v", limit, before, v.Modulus())
		}
		if limit == 0 {
			continue
		}
		cross := before.X*v.Y - before.Y*v.X
		if !approxEqual(cross, 0, 1e-6) || before.Dot(v) < 0 {
			t.Fatalf("Truncate changed direction: %v -> %v", before, v)
		}
	}
}

func TestVector3_Rotate(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector3
		degrees  float64
		expected Vector3
	}{
		{"north_quarter_turn", North(), 90, Vector3{X: -1, Y: 0}},
		{"east_half_turn", Vector3{X: 1}, 180, Vector3{X: -1}},
		{"full_turn", Vector3{X: 2, Y: 3}, 360, Vector3{X: 2, Y: 3}},
		{"negative_angle", North(), -90, Vector3{X: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.v
			v.Rotate(tt.degrees)
			if !approxEqual(v.X, tt.expected.X, 1e-9) || !approxEqual(v.Y, tt.expected.Y, 1e-9) {
				t.Errorf("Rotate(%v) = %v, expected %v", tt.degrees, v, tt.expected)
			}
		})
	}
}

func TestVector3_AngleWith(t *testing.T) {
	tests := []struct {
		name     string
		v1       Vector3
		v2       Vector3
		expected float64
	}{
		{"same_direction", North(), Vector3{Y: 5}, 0},
		{"west_is_90", North(), Vector3{X: -1}, 90},
		{"south_is_180", North(), Vector3{Y: -3}, 180},
		{"east_is_270", North(), Vector3{X: 4}, 270},
		{"zero_receiver", Vector3{}, Vector3{X: 1}, 0},
		{"zero_argument", North(), Vector3{}, 0},
		{"both_zero", Vector3{}, Vector3{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v1.AngleWith(tt.v2)
			if math.IsNaN(got) {
				t.Fatalf("AngleWith() returned NaN")
			}
			if !approxEqual(got, tt.expected, 1e-9) {
				t.Errorf("AngleWith() = %v, expected %v", got, tt.expected)
			}
			if got < 0 || got >= 360 {
				t.Errorf("AngleWith() = %v out of [0, 360)", got)
			}
		})
	}
}

func TestVector3_AngleWithMatchesRotate(t *testing.T) {
	for _, deg := range []float64{0, 15, 89, 135, 181, 270, 359} {
		rotated := North()
		rotated.Rotate(deg)
		north := North()
		got := north.AngleWith(rotated)
		diff := math.Abs(NormalizeAngle(got - deg))
		if diff > 1e-6 && diff < 360-1e-6 {
			t.Errorf("AngleWith(rotate(north, %v)) = %v", deg, got)
		}
	}
}

func TestVector3_Distance(t *testing.T) {
	a := Vector3{X: 1, Y: 1}
	b := Vector3{X: 4, Y: 5}
	if got := a.Distance(b); !approxEqual(got, 5, epsilon) {
		t.Errorf("Distance() = %v, expected 5", got)
	}
	if a != (Vector3{X: 1, Y: 1}) || b != (Vector3{X: 4, Y: 5}) {
		t.Error("Distance() mutated an operand")
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{725, 5},
		{-720, 0},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); !approxEqual(got, tt.want, epsilon) {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
