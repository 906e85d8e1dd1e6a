// pkg/physics/vector.go
package physics

import (
	"fmt"
	"math"
)

// Vector3 represents a 3D vector with x, y and z components.
//
// Arithmetic methods mutate the receiver and return it so calls can be
// chained. Callers that need the original value must Copy first.
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

// North returns the unit vector pointing up the y axis. Heading 0 faces north.
func North() Vector3 {
	return Vector3{X: 0, Y: 1, Z: 0}
}

// NewVector3 allocates a vector with the given components
func NewVector3(x, y, z float64) *Vector3 {
	return &Vector3{X: x, Y: y, Z: z}
}

// Copy returns a freshly allocated copy of the vector
func (v Vector3) Copy() *Vector3 {
	c := v
	return &c
}

// Set overwrites all components of v
func (v *Vector3) Set(x, y, z float64) *Vector3 {
	v.X, v.Y, v.Z = x, y, z
	return v
}

// CopyFrom overwrites v with the components of other
func (v *Vector3) CopyFrom(other Vector3) *Vector3 {
	*v = other
	return v
}

// Nullify sets every component to zero
func (v *Vector3) Nullify() *Vector3 {
	*v = Vector3{}
	return v
}

// Add adds other to v
func (v *Vector3) Add(other Vector3) *Vector3 {
	v.X += other.X
	v.Y += other.Y
	v.Z += other.Z
	return v
}

// Sub subtracts other from v
func (v *Vector3) Sub(other Vector3) *Vector3 {
	v.X -= other.X
	v.Y -= other.Y
	v.Z -= other.Z
	return v
}

// Mult scales v by factor
func (v *Vector3) Mult(factor float64) *Vector3 {
	v.X *= factor
	v.Y *= factor
	v.Z *= factor
	return v
}

// Modulus returns the magnitude of the vector
func (v Vector3) Modulus() float64 {
	return math.Sqrt(v.ModulusSquared())
}

// ModulusSquared returns magnitude squared (optimization for comparisons)
func (v Vector3) ModulusSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// IsZero reports whether every component is zero
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Normalize rescales v to the given length. A zero vector stays zero.
func (v *Vector3) Normalize(length float64) *Vector3 {
	modulus := v.Modulus()
	if modulus == 0 {
		return v
	}
	return v.Mult(length / modulus)
}

// Truncate clamps the magnitude of v to maxLength, keeping its direction.
// A non-positive maxLength yields the zero vector.
func (v *Vector3) Truncate(maxLength float64) *Vector3 {
	if maxLength <= 0 {
		return v.Nullify()
	}
	modulusSq := v.ModulusSquared()
	if modulusSq > maxLength*maxLength {
		v.Mult(maxLength / math.Sqrt(modulusSq))
	}
	return v
}

// Rotate rotates v counter-clockwise around the z axis by angle degrees
func (v *Vector3) Rotate(degrees float64) *Vector3 {
	rad := degrees * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	x := v.X*cos - v.Y*sin
	y := v.X*sin + v.Y*cos
	v.X, v.Y = x, y
	return v
}

// Distance returns the distance between two points
func (v Vector3) Distance(other Vector3) float64 {
	return other.Copy().Sub(v).Modulus()
}

// Dot returns the dot product of two vectors
func (v Vector3) Dot(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// AngleWith returns the counter-clockwise angle in degrees, in [0, 360),
// by which v must be rotated in the xy plane to point along other.
// Returns 0 when either vector has zero length.
func (v Vector3) AngleWith(other Vector3) float64 {
	if (v.X == 0 && v.Y == 0) || (other.X == 0 && other.Y == 0) {
		return 0
	}
	cross := v.X*other.Y - v.Y*other.X
	dot := v.X*other.X + v.Y*other.Y
	return NormalizeAngle(math.Atan2(cross, dot) * 180 / math.Pi)
}

// NormalizeAngle maps any angle in degrees into [0, 360)
func NormalizeAngle(degrees float64) float64 {
	a := math.Mod(degrees, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}
