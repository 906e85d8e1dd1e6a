// pkg/physics/motion.go
package physics

import "math"

// MinHeadingForce is the steering force magnitude under which heading is
// left untouched, so near-zero forces do not make the ship jitter.
const MinHeadingForce = 0.1

// pureSteeringFactor is the heading factor above which the heading follows
// the steering force alone.
const pureSteeringFactor = 3

// TargetHeading computes the heading (degrees from north) a ship should turn
// toward, blending the steering force direction with the current velocity
// direction. The heading factor is |steering| / maxSteeringForce * mass * 4.
func TargetHeading(steering, velocity Vector3, maxSteeringForce, mass float64) float64 {
	north := North()
	if maxSteeringForce <= 0 {
		return north.AngleWith(steering)
	}

	headingFactor := steering.Modulus() / maxSteeringForce * mass * 4
	switch {
	case headingFactor > pureSteeringFactor:
		return north.AngleWith(steering)
	case headingFactor > 0:
		blended := steering.Copy().Mult(headingFactor).
			Add(*velocity.Copy().Mult(1 - headingFactor/pureSteeringFactor))
		return north.AngleWith(*blended)
	default:
		return north.AngleWith(velocity)
	}
}

// TurnToward rotates current toward target at maxAngleSpeed degrees per
// second. The rate grows with max(1, angleDiff/180) and the result snaps to
// target when a step would overshoot in either direction.
func TurnToward(current, target, maxAngleSpeed, dt float64) float64 {
	target = NormalizeAngle(target)
	angleDiff := NormalizeAngle(target - current)
	step := maxAngleSpeed * math.Max(1, angleDiff/180) * dt

	switch {
	case angleDiff < step:
		return target
	case angleDiff < 180:
		return NormalizeAngle(current + step)
	case angleDiff >= 360-step:
		return target
	default:
		return NormalizeAngle(current - step)
	}
}

// Integrate advances position and velocity by dt under netForce.
// The force is added to the acceleration accumulator, velocity is truncated
// to maxSpeed and the returned vector is old velocity minus new velocity.
func Integrate(position, velocity, acceleration *Vector3, netForce Vector3, maxSpeed, dt float64) Vector3 {
	acceleration.Add(netForce)

	realAccel := velocity.Copy()
	velocity.Add(*acceleration.Copy().Mult(dt)).Truncate(maxSpeed)
	realAccel.Sub(*velocity)

	position.Add(*velocity.Copy().Mult(dt))
	return *realAccel
}
