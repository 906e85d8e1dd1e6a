// pkg/render/engo/hud.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-morph/pkg/engine"
	"github.com/opd-ai/go-morph/pkg/render"
)

// HUD layout in pixels
const (
	hudMargin      = 10
	hudGaugeWidth  = 120
	hudGaugeHeight = 10
	hudGaugeGap    = 6
	hudLineHeight  = 18
)

// Gauge is one bar of the HUD
type Gauge struct {
	Label    string
	Fraction float64
	Color    color.RGBA
}

// HUDSystem draws the status lines and the energy and damage gauges of the
// first selected ship
type HUDSystem struct {
	system      SpriteSystem
	font        *common.Font
	energyScale float64

	lines  []string
	gauges []Gauge

	texts []*sprite
	bars  spritePool
}

// NewHUDSystem creates a HUD whose energy gauge is full at energyScale
func NewHUDSystem(system SpriteSystem, energyScale float64) *HUDSystem {
	return &HUDSystem{
		system:      system,
		energyScale: energyScale,
		bars:        spritePool{z: 10},
	}
}

// SetFont sets the font used for HUD text. Without one only gauges are drawn.
func (hud *HUDSystem) SetFont(font *common.Font) {
	hud.font = font
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(ecs.BasicEntity) {}

// UpdateState rebuilds the HUD model from a world snapshot
func (hud *HUDSystem) UpdateState(state *engine.WorldState) {
	hud.lines = render.StatusLines(state, hud.energyScale)
	hud.gauges = hud.gauges[:0]

	for _, s := range state.Ships {
		if !s.Selected {
			continue
		}
		hud.gauges = append(hud.gauges,
			Gauge{Label: "energy", Fraction: fraction(s.Energy, hud.energyScale), Color: color.RGBA{R: 60, G: 160, B: 255, A: 255}},
			Gauge{Label: "damage", Fraction: fraction(s.Damage, s.MaxDamage), Color: color.RGBA{R: 255, G: 80, B: 40, A: 255}},
		)
		break
	}
}

// Lines returns the current status lines
func (hud *HUDSystem) Lines() []string { return hud.lines }

// Gauges returns the current gauges
func (hud *HUDSystem) Gauges() []Gauge { return hud.gauges }

// Update pushes the HUD model to the render system
func (hud *HUDSystem) Update(float32) {
	hud.bars.reset()
	for i, g := range hud.gauges {
		y := float32(hudMargin + i*(hudGaugeHeight+hudGaugeGap))
		hud.bar(hudMargin, y, hudGaugeWidth, color.RGBA{R: 40, G: 40, B: 40, A: 200})
		hud.bar(hudMargin, y, float32(g.Fraction)*hudGaugeWidth, g.Color)
	}
	hud.bars.hideUnused()

	if hud.font == nil {
		return
	}
	top := float32(hudMargin + len(hud.gauges)*(hudGaugeHeight+hudGaugeGap))
	for i, line := range hud.lines {
		if i >= len(hud.texts) {
			s := &sprite{BasicEntity: ecs.NewBasic()}
			s.SetShader(common.HUDShader)
			s.SetZIndex(10)
			hud.system.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
			hud.texts = append(hud.texts, s)
		}
		s := hud.texts[i]
		s.Drawable = common.Text{Font: hud.font, Text: line}
		s.Hidden = false
		s.Position = engo.Point{X: hudMargin, Y: top + float32(i*hudLineHeight)}
	}
	for _, s := range hud.texts[min(len(hud.lines), len(hud.texts)):] {
		s.Hidden = true
	}
}

func (hud *HUDSystem) bar(x, y, width float32, c color.RGBA) {
	s := hud.bars.next(hud.system)
	s.SetShader(common.HUDShader)
	s.Drawable = common.Rectangle{}
	s.Color = c
	s.Position = engo.Point{X: x, Y: y}
	s.Width, s.Height = width, hudGaugeHeight
}

func fraction(value, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, value/max))
}
