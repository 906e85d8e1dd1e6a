// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-morph/pkg/physics"
)

// CameraSystem maps world coordinates to window pixels. It zooms around the
// mouse, pans on the arrow keys and can follow a target.
type CameraSystem struct {
	center physics.Vector3
	width  float32
	height float32

	zoom    float32
	minZoom float32
	maxZoom float32

	target      physics.Vector3
	targetSet   bool
	followSpeed float32
	panSpeed    float32
}

// NewCameraSystem creates a camera for a width x height window
func NewCameraSystem(width, height, zoom float32) *CameraSystem {
	cs := &CameraSystem{
		width:       width,
		height:      height,
		zoom:        1,
		minZoom:     0.05,
		maxZoom:     20,
		followSpeed: 2,
		panSpeed:    400,
	}
	cs.SetZoom(zoom)
	return cs
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(ecs.BasicEntity) {}

// Update applies zoom and pan input and moves toward the target
func (cs *CameraSystem) Update(dt float32) {
	if w, h := engo.GameWidth(), engo.GameHeight(); w > 0 && h > 0 {
		cs.SetViewport(w, h)
	}
	cs.handleZoomInput()
	cs.handlePanInput(dt)
	cs.Follow(dt)
}

func (cs *CameraSystem) handleZoomInput() {
	mouse := engo.Point{X: engo.Input.Mouse.X, Y: engo.Input.Mouse.Y}
	if scrollY := engo.Input.Mouse.ScrollY; scrollY != 0 {
		cs.ZoomAt(mouse, 1+scrollY*0.1)
	}
	if engo.Input.Button(ButtonZoomIn).Down() {
		cs.ZoomAt(mouse, 1.02)
	}
	if engo.Input.Button(ButtonZoomOut).Down() {
		cs.ZoomAt(mouse, 0.98)
	}
	if engo.Input.Button(ButtonResetZoom).JustPressed() {
		cs.SetZoom(1)
	}
}

func (cs *CameraSystem) handlePanInput(dt float32) {
	step := cs.panSpeed * dt
	var dx, dy float32
	if engo.Input.Button(ButtonPanLeft).Down() {
		dx -= step
	}
	if engo.Input.Button(ButtonPanRight).Down() {
		dx += step
	}
	if engo.Input.Button(ButtonPanUp).Down() {
		dy -= step
	}
	if engo.Input.Button(ButtonPanDown).Down() {
		dy += step
	}
	if dx != 0 || dy != 0 {
		cs.ClearTarget()
		cs.Pan(dx, dy)
	}
}

// Follow moves the center a step toward the target, if one is set
func (cs *CameraSystem) Follow(dt float32) {
	if !cs.targetSet {
		return
	}
	k := float64(cs.followSpeed * dt)
	if k > 1 {
		k = 1
	}
	cs.center.X += (cs.target.X - cs.center.X) * k
	cs.center.Y += (cs.target.Y - cs.center.Y) * k
}

// SetViewport changes the window size in pixels
func (cs *CameraSystem) SetViewport(width, height float32) {
	cs.width, cs.height = width, height
}

// SetTarget makes the camera follow target
func (cs *CameraSystem) SetTarget(target physics.Vector3) {
	cs.target = target
	cs.targetSet = true
}

// ClearTarget stops following
func (cs *CameraSystem) ClearTarget() {
	cs.targetSet = false
}

// SetCenter moves the camera to center immediately
func (cs *CameraSystem) SetCenter(center physics.Vector3) {
	cs.center = center
}

// Center returns the world point at the middle of the window
func (cs *CameraSystem) Center() physics.Vector3 {
	return cs.center
}

// SetZoom sets the camera zoom level
func (cs *CameraSystem) SetZoom(zoom float32) {
	cs.zoom = cs.clampZoom(zoom)
}

// GetZoom returns the current zoom level
func (cs *CameraSystem) GetZoom() float32 {
	return cs.zoom
}

func (cs *CameraSystem) clampZoom(zoom float32) float32 {
	if zoom < cs.minZoom {
		return cs.minZoom
	}
	if zoom > cs.maxZoom {
		return cs.maxZoom
	}
	return zoom
}

// ZoomAt multiplies the zoom by factor keeping the world point under
// screen fixed
func (cs *CameraSystem) ZoomAt(screen engo.Point, factor float32) {
	if factor <= 0 {
		return
	}
	focal := cs.ScreenToWorld(screen)
	cs.SetZoom(cs.zoom * factor)
	after := cs.ScreenToWorld(screen)
	cs.center.X += focal.X - after.X
	cs.center.Y += focal.Y - after.Y
}

// Pan moves the view by a screen offset in pixels
func (cs *CameraSystem) Pan(dx, dy float32) {
	cs.center.X += float64(dx / cs.zoom)
	cs.center.Y -= float64(dy / cs.zoom)
}

// WorldToScreen converts world coordinates to window pixels. World y grows
// upward, window y grows downward.
func (cs *CameraSystem) WorldToScreen(p physics.Vector3) engo.Point {
	return engo.Point{
		X: float32(p.X-cs.center.X)*cs.zoom + cs.width/2,
		Y: cs.height/2 - float32(p.Y-cs.center.Y)*cs.zoom,
	}
}

// ScreenToWorld converts window pixels to world coordinates
func (cs *CameraSystem) ScreenToWorld(p engo.Point) physics.Vector3 {
	return physics.Vector3{
		X: float64((p.X-cs.width/2)/cs.zoom) + cs.center.X,
		Y: float64((cs.height/2-p.Y)/cs.zoom) + cs.center.Y,
	}
}

// Scale converts a world length to pixels
func (cs *CameraSystem) Scale(length float64) float32 {
	return float32(length) * cs.zoom
}
