// pkg/physics/collision.go
package physics

// Circle represents a circular pick or collision shape in the xy plane
type Circle struct {
	Center Vector3
	Radius float64
}

// Contains reports whether point lies inside the circle (z is ignored)
func (c Circle) Contains(point Vector3) bool {
	dx := point.X - c.Center.X
	dy := point.Y - c.Center.Y
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// Collides checks if two circles are overlapping
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) < c.Radius+other.Radius
}

// Bounds returns the square enclosing the circle
func (c Circle) Bounds() Rect {
	return Rect{Center: c.Center, Width: c.Radius * 2, Height: c.Radius * 2}
}

// Rect represents an axis-aligned rectangular area
type Rect struct {
	Center Vector3
	Width  float64
	Height float64
}

// RectFromCorners builds the rectangle spanned by two opposite corners,
// in any order. Used for drag selection.
func RectFromCorners(a, b Vector3) Rect {
	minX, maxX := a.X, b.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y, b.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return Rect{
		Center: Vector3{X: (minX + maxX) / 2, Y: (minY + maxY) / 2},
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Contains reports whether point lies inside the rectangle (z is ignored)
func (r Rect) Contains(point Vector3) bool {
	return point.X >= r.Center.X-r.Width/2 &&
		point.X < r.Center.X+r.Width/2 &&
		point.Y >= r.Center.Y-r.Height/2 &&
		point.Y < r.Center.Y+r.Height/2
}

func (r Rect) intersects(other Rect) bool {
	return !(other.Center.X-other.Width/2 > r.Center.X+r.Width/2 ||
		other.Center.X+other.Width/2 < r.Center.X-r.Width/2 ||
		other.Center.Y-other.Height/2 > r.Center.Y+r.Height/2 ||
		other.Center.Y+other.Height/2 < r.Center.Y-r.Height/2)
}

// QuadTree for spatial partitioning of point-like objects
type QuadTree[T any] struct {
	Boundary  Rect
	Capacity  int
	Points    []Vector3
	Objects   []T
	Divided   bool
	NorthWest *QuadTree[T]
	NorthEast *QuadTree[T]
	SouthWest *QuadTree[T]
	SouthEast *QuadTree[T]
}

// NewQuadTree creates a new quad tree with the given boundary and capacity
func NewQuadTree[T any](boundary Rect, capacity int) *QuadTree[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &QuadTree[T]{
		Boundary: boundary,
		Capacity: capacity,
		Points:   make([]Vector3, 0, capacity),
		Objects:  make([]T, 0, capacity),
	}
}

// Insert stores object at point. Points outside the boundary are rejected.
func (qt *QuadTree[T]) Insert(point Vector3, object T) bool {
	if !qt.Boundary.Contains(point) {
		return false
	}

	if len(qt.Points) < qt.Capacity && !qt.Divided {
		qt.Points = append(qt.Points, point)
		qt.Objects = append(qt.Objects, object)
		return true
	}

	if !qt.Divided {
		qt.Subdivide()
	}

	return qt.NorthWest.Insert(point, object) ||
		qt.NorthEast.Insert(point, object) ||
		qt.SouthWest.Insert(point, object) ||
		qt.SouthEast.Insert(point, object)
}

// Subdivide splits the quadtree into four quadrants
func (qt *QuadTree[T]) Subdivide() {
	x := qt.Boundary.Center.X
	y := qt.Boundary.Center.Y
	w := qt.Boundary.Width / 2
	h := qt.Boundary.Height / 2

	nw := Rect{Center: Vector3{X: x - w/2, Y: y + h/2}, Width: w, Height: h}
	ne := Rect{Center: Vector3{X: x + w/2, Y: y + h/2}, Width: w, Height: h}
	sw := Rect{Center: Vector3{X: x - w/2, Y: y - h/2}, Width: w, Height: h}
	se := Rect{Center: Vector3{X: x + w/2, Y: y - h/2}, Width: w, Height: h}

	qt.NorthWest = NewQuadTree[T](nw, qt.Capacity)
	qt.NorthEast = NewQuadTree[T](ne, qt.Capacity)
	qt.SouthWest = NewQuadTree[T](sw, qt.Capacity)
	qt.SouthEast = NewQuadTree[T](se, qt.Capacity)
	qt.Divided = true
}

// Clear drops every stored object and collapses the subdivisions
func (qt *QuadTree[T]) Clear() {
	qt.Points = qt.Points[:0]
	qt.Objects = qt.Objects[:0]
	qt.Divided = false
	qt.NorthWest, qt.NorthEast, qt.SouthWest, qt.SouthEast = nil, nil, nil, nil
}

// Query returns all objects whose point lies inside area
func (qt *QuadTree[T]) Query(area Rect) []T {
	found := make([]T, 0)
	qt.query(area, func(Vector3) bool { return true }, &found)
	return found
}

// QueryCircle returns all objects whose point lies inside the circle
func (qt *QuadTree[T]) QueryCircle(c Circle) []T {
	found := make([]T, 0)
	qt.query(c.Bounds(), c.Contains, &found)
	return found
}

func (qt *QuadTree[T]) query(area Rect, accept func(Vector3) bool, found *[]T) {
	if !qt.Boundary.intersects(area) {
		return
	}

	for i, point := range qt.Points {
		if area.Contains(point) && accept(point) {
			*found = append(*found, qt.Objects[i])
		}
	}

	if !qt.Divided {
		return
	}

	qt.NorthWest.query(area, accept, found)
	qt.NorthEast.query(area, accept, found)
	qt.SouthWest.query(area, accept, found)
	qt.SouthEast.query(area, accept, found)
}
