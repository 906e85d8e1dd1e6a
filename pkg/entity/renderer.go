package entity

import (
	"github.com/opd-ai/go-morph/pkg/behavior"
	"github.com/opd-ai/go-morph/pkg/particle"
)

// Renderer handles rendering world entities. It is the draw-primitive sink
// of the simulation; DrawCircle and DrawLine carry debug overlays.
type Renderer interface {
	RenderShip(ship *Ship)
	particle.Renderer
	behavior.DebugCanvas
	Clear()
	Present()
}
