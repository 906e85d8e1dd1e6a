// pkg/render/engo/input.go
package engo

import (
	"context"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-morph/pkg/entity"
	"github.com/opd-ai/go-morph/pkg/logging"
	"github.com/opd-ai/go-morph/pkg/physics"
)

// Button names registered by SetupInputBindings
const (
	ButtonPause     = "pause"
	ButtonFaster    = "faster"
	ButtonSlower    = "slower"
	ButtonAdditive  = "additive"
	ButtonZoomIn    = "zoomIn"
	ButtonZoomOut   = "zoomOut"
	ButtonResetZoom = "resetZoom"
	ButtonPanLeft   = "panLeft"
	ButtonPanRight  = "panRight"
	ButtonPanUp     = "panUp"
	ButtonPanDown   = "panDown"
)

// dragThreshold is the mouse travel in pixels that turns a click into a
// rectangle selection
const dragThreshold = 4

// Commander is the part of the world the input system drives
type Commander interface {
	SelectAt(point physics.Vector3, additive bool) (entity.ID, bool)
	SelectInRect(rect physics.Rect, additive bool) []entity.ID
	MoveSelectedTo(target physics.Vector3) (int, error)
	TogglePause() bool
	SetTimeScale(scale float64) error
	TimeScale() float64
}

// InputSystem turns mouse and keyboard input into world commands: click to
// select, drag to select a rectangle, right click to move the selection.
type InputSystem struct {
	world  Commander
	camera *CameraSystem
	logger *logging.Logger

	dragging  bool
	dragStart engo.Point
}

// NewInputSystem creates a new input system
func NewInputSystem(world Commander, camera *CameraSystem, logger *logging.Logger) *InputSystem {
	if logger == nil {
		logger = logging.Discard()
	}
	return &InputSystem{world: world, camera: camera, logger: logger}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(ecs.BasicEntity) {}

// Update processes input for the frame
func (is *InputSystem) Update(float32) {
	mouse := engo.Point{X: engo.Input.Mouse.X, Y: engo.Input.Mouse.Y}
	additive := engo.Input.Button(ButtonAdditive).Down()

	switch {
	case engo.Input.Mouse.Action == engo.Press && engo.Input.Mouse.Button == engo.MouseButtonLeft:
		is.PressLeft(mouse)
	case engo.Input.Mouse.Action == engo.Release && engo.Input.Mouse.Button == engo.MouseButtonLeft:
		is.ReleaseLeft(mouse, additive)
	case engo.Input.Mouse.Action == engo.Press && engo.Input.Mouse.Button == engo.MouseButtonRight:
		is.PressRight(mouse)
	}

	if engo.Input.Button(ButtonPause).JustPressed() {
		is.TogglePause()
	}
	if engo.Input.Button(ButtonFaster).JustPressed() {
		is.ScaleTime(2)
	}
	if engo.Input.Button(ButtonSlower).JustPressed() {
		is.ScaleTime(0.5)
	}
}

// PressLeft starts a click or a drag at screen point p
func (is *InputSystem) PressLeft(p engo.Point) {
	is.dragging = true
	is.dragStart = p
}

// ReleaseLeft ends a click or drag. A short drag selects the ship under the
// pointer, a longer one every ship inside the dragged rectangle.
func (is *InputSystem) ReleaseLeft(p engo.Point, additive bool) {
	if !is.dragging {
		return
	}
	is.dragging = false

	if math.Hypot(float64(p.X-is.dragStart.X), float64(p.Y-is.dragStart.Y)) < dragThreshold {
		is.world.SelectAt(is.camera.ScreenToWorld(p), additive)
		return
	}
	rect := physics.RectFromCorners(is.camera.ScreenToWorld(is.dragStart), is.camera.ScreenToWorld(p))
	picked := is.world.SelectInRect(rect, additive)
	is.logger.Debug(context.Background(), "rectangle selection", "ships", len(picked))
}

// PressRight sends the selected ships to the world point under p
func (is *InputSystem) PressRight(p engo.Point) {
	target := is.camera.ScreenToWorld(p)
	moved, err := is.world.MoveSelectedTo(target)
	if err != nil {
		is.logger.Warn(context.Background(), "move order rejected", "target", target.String(), "error", err.Error())
		return
	}
	is.logger.Debug(context.Background(), "move order issued", "target", target.String(), "ships", moved)
}

// TogglePause pauses or resumes the simulation
func (is *InputSystem) TogglePause() {
	paused := is.world.TogglePause()
	is.logger.Info(context.Background(), "simulation pause toggled", "paused", paused)
}

// ScaleTime multiplies the time scale by factor; out of range values are
// ignored
func (is *InputSystem) ScaleTime(factor float64) {
	scale := is.world.TimeScale() * factor
	if err := is.world.SetTimeScale(scale); err != nil {
		is.logger.Debug(context.Background(), "time scale unchanged", "requested", scale, "error", err.Error())
	}
}

// Dragging reports whether a left button drag is in progress
func (is *InputSystem) Dragging() bool { return is.dragging }

// SetupInputBindings sets up the key bindings for the morph scene
func SetupInputBindings() {
	engo.Input.RegisterButton(ButtonPause, engo.KeySpace, engo.KeyP)
	engo.Input.RegisterButton(ButtonFaster, engo.KeyE)
	engo.Input.RegisterButton(ButtonSlower, engo.KeyQ)
	engo.Input.RegisterButton(ButtonAdditive, engo.KeyLeftShift)
	engo.Input.RegisterButton(ButtonZoomIn, engo.KeyZ)
	engo.Input.RegisterButton(ButtonZoomOut, engo.KeyX)
	engo.Input.RegisterButton(ButtonResetZoom, engo.KeyR)
	engo.Input.RegisterButton(ButtonPanLeft, engo.KeyArrowLeft, engo.KeyA)
	engo.Input.RegisterButton(ButtonPanRight, engo.KeyArrowRight, engo.KeyD)
	engo.Input.RegisterButton(ButtonPanUp, engo.KeyArrowUp, engo.KeyW)
	engo.Input.RegisterButton(ButtonPanDown, engo.KeyArrowDown, engo.KeyS)
}
