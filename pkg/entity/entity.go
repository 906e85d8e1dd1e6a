// pkg/entity/entity.go
package entity

import (
	"github.com/opd-ai/go-morph/pkg/physics"
)

// ID is a unique identifier for an entity
type ID uint64

// Entity is the base interface for all world objects
type Entity interface {
	GetID() ID
	GetPosition() physics.Vector3
	GetCollider() physics.Circle
	Update(deltaTime float64)
	Render(r Renderer)
	IsSelected() bool
	SetSelected(selected bool)
}

// BaseEntity contains common functionality for all entities
type BaseEntity struct {
	ID       ID
	Position physics.Vector3
	Velocity physics.Vector3
	Collider physics.Circle
	Selected bool
	Active   bool
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ID {
	return e.ID
}

// GetPosition returns a copy of the entity's position
func (e *BaseEntity) GetPosition() physics.Vector3 {
	return e.Position
}

// GetVelocity returns a copy of the entity's velocity
func (e *BaseEntity) GetVelocity() physics.Vector3 {
	return e.Velocity
}

// GetCollider returns the pick/collision shape centred on the entity
func (e *BaseEntity) GetCollider() physics.Circle {
	return physics.Circle{
		Center: e.Position,
		Radius: e.Collider.Radius,
	}
}

// IsSelected reports the selection flag
func (e *BaseEntity) IsSelected() bool {
	return e.Selected
}

// SetSelected sets the selection flag
func (e *BaseEntity) SetSelected(selected bool) {
	e.Selected = selected
}

// Update drifts the entity along its velocity
func (e *BaseEntity) Update(deltaTime float64) {
	e.Position.Add(*e.Velocity.Copy().Mult(deltaTime))
	e.Collider.Center = e.Position
}

// Render does nothing; concrete entities draw themselves
func (e *BaseEntity) Render(r Renderer) {}
