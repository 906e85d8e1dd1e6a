package physics

import (
	"math"
	"testing"
)

func TestTargetHeading(t *testing.T) {
	tests := []struct {
		name     string
		steering Vector3
		velocity Vector3
		maxForce float64
		mass     float64
		want     float64
	}{
		{
			name:     "strong_force_uses_steering",
			steering: Vector3{X: -10},
			velocity: Vector3{Y: 5},
			maxForce: 10,
			mass:     10,
			want:     90,
		},
		{
			name:     "no_max_force_uses_steering",
			steering: Vector3{Y: -1},
			velocity: Vector3{X: 5},
			maxForce: 0,
			mass:     10,
			want:     180,
		},
		{
			name:     "weak_force_blends_with_velocity",
			steering: Vector3{X: -1},
			velocity: Vector3{Y: 1},
			maxForce: 80,
			mass:     10,
			// hf = 1/80*10*4 = 0.5, blend = (-0.5, 1-0.5/3)
			want: NormalizeAngle(math.Atan2(0.5, 1-0.5/3) * 180 / math.Pi),
		},
		{
			name:     "zero_force_uses_velocity",
			steering: Vector3{},
			velocity: Vector3{X: -2},
			maxForce: 10,
			mass:     10,
			want:     90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TargetHeading(tt.steering, tt.velocity, tt.maxForce, tt.mass)
			if !approxEqual(got, tt.want, 1e-9) {
				t.Errorf("TargetHeading() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTurnToward(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		target  float64
		speed   float64
		dt      float64
		want    float64
	}{
		{"ccw_step", 0, 90, 10, 1, 10},
		{"cw_step", 0, 270, 10, 1, 345},
		{"snap_ccw", 0, 5, 10, 1, 5},
		{"snap_cw", 0, 355, 10, 1, 355},
		{"already_there", 42, 42, 10, 1, 42},
		{"wraps_past_zero", 355, 20, 10, 1, 5},
		// angleDiff 180 => multiplier 1
		{"opposite", 0, 180, 10, 1, 350},
		{"scaled_rate", 0, 200, 10, 1, NormalizeAngle(-10 * 200.0 / 180)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TurnToward(tt.current, tt.target, tt.speed, tt.dt)
			if !approxEqual(got, tt.want, 1e-9) {
				t.Errorf("TurnToward(%v, %v) = %v, want %v", tt.current, tt.target, got, tt.want)
			}
			if got < 0 || got >= 360 {
				t.Errorf("TurnToward() = %v out of [0, 360)", got)
			}
		})
	}
}

func TestTurnToward_OppositeCompletesInBoundedTicks(t *testing.T) {
	const (
		k    = 300.0
		mass = 10.0
		dt   = 1.0 / 60
	)
	heading := 0.0
	maxAngleSpeed := k / mass
	bound := int(math.Ceil(180/(maxAngleSpeed*dt))) + 1

	ticks := 0
	for heading != 180 && ticks <= bound {
		heading = TurnToward(heading, 180, maxAngleSpeed, dt)
		ticks++
	}
	if heading != 180 {
		t.Fatalf("heading = %v after %d ticks, want 180 within %d", heading, ticks, bound)
	}
}

func TestIntegrate(t *testing.T) {
	pos := Vector3{X: 1}
	vel := Vector3{X: 2}
	acc := Vector3{}

	realAccel := Integrate(&pos, &vel, &acc, Vector3{Y: 10}, 100, 0.5)

	if acc != (Vector3{Y: 10}) {
		t.Errorf("acceleration = %v, want (0, 10)", acc)
	}
	if vel != (Vector3{X: 2, Y: 5}) {
		t.Errorf("velocity = %v, want (2, 5)", vel)
	}
	if pos != (Vector3{X: 2, Y: 2.5}) {
		t.Errorf("position = %v, want (2, 2.5)", pos)
	}
	if realAccel != (Vector3{Y: -5}) {
		t.Errorf("realAccel = %v, want (0, -5)", realAccel)
	}
}

func TestIntegrate_TruncatesToMaxSpeed(t *testing.T) {
	pos := Vector3{}
	vel := Vector3{X: 9}
	acc := Vector3{}

	Integrate(&pos, &vel, &acc, Vector3{X: 100}, 10, 1)

	if !approxEqual(vel.Modulus(), 10, 1e-9) {
		t.Errorf("speed = %v, want 10", vel.Modulus())
	}
	if !approxEqual(pos.X, 10, 1e-9) {
		t.Errorf("position.X = %v, want 10", pos.X)
	}
}
