// pkg/render/renderer.go
package render

import (
	"context"
	"image/color"

	"github.com/opd-ai/go-morph/pkg/entity"
	"github.com/opd-ai/go-morph/pkg/logging"
	"github.com/opd-ai/go-morph/pkg/particle"
	"github.com/opd-ai/go-morph/pkg/physics"
)

// NullRenderer is an implementation of entity.Renderer that only logs.
// It backs the headless mode of cmd/morph.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return NewNullRendererWithLogger(logging.NewLogger())
}

// NewNullRendererWithLogger creates a NullRenderer that logs through l
func NewNullRendererWithLogger(l *logging.Logger) *NullRenderer {
	return &NullRenderer{logger: l}
}

func (d *NullRenderer) log() *logging.Logger {
	if d.logger == nil {
		d.logger = logging.NewLogger()
	}
	return d.logger
}

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	d.log().Debug(context.Background(), "Clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	d.log().Debug(context.Background(), "Present called")
}

// RenderShip implements entity.Renderer.
func (d *NullRenderer) RenderShip(ship *entity.Ship) {
	ctx := context.Background()
	if ship == nil {
		d.log().Debug(ctx, "RenderShip called with nil ship")
		return
	}
	d.log().Debug(ctx, "RenderShip called",
		"ship_id", ship.GetID(),
		"position", ship.GetPosition().String(),
		"heading", ship.GetHeading(),
		"energy", ship.GetEnergy(),
		"damage", ship.GetDamage(),
	)
}

// RenderParticle implements entity.Renderer.
func (d *NullRenderer) RenderParticle(p particle.Particle) {
	d.log().Debug(context.Background(), "RenderParticle called",
		"position", p.Position.String(),
		"size", p.Size(),
	)
}

// DrawCircle implements entity.Renderer.
func (d *NullRenderer) DrawCircle(center physics.Vector3, radius float64, _ color.RGBA) {
	d.log().Debug(context.Background(), "DrawCircle called",
		"center", center.String(),
		"radius", radius,
	)
}

// DrawLine implements entity.Renderer.
func (d *NullRenderer) DrawLine(from, to physics.Vector3, _ color.RGBA) {
	d.log().Debug(context.Background(), "DrawLine called",
		"from", from.String(),
		"to", to.String(),
	)
}

// NullRendererInstance is a global instance of NullRenderer for convenience.
var NullRendererInstance entity.Renderer = NewNullRenderer()
