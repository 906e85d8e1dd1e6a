// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-morph/pkg/entity"
	"github.com/opd-ai/go-morph/pkg/particle"
	"github.com/opd-ai/go-morph/pkg/physics"
)

// Draw order of the sprite layers
const (
	zDots     float32 = 1
	zShips    float32 = 2
	zOverlays float32 = 3

	minShipPixels = 8
)

// SpriteSystem is the part of common.RenderSystem the renderer drives
type SpriteSystem interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// spritePool reuses sprites between frames; sprites past used are hidden
// at Present.
type spritePool struct {
	sprites []*sprite
	used    int
	z       float32
}

func (p *spritePool) next(sys SpriteSystem) *sprite {
	if p.used < len(p.sprites) {
		s := p.sprites[p.used]
		p.used++
		s.Hidden = false
		return s
	}
	s := &sprite{BasicEntity: ecs.NewBasic()}
	s.SetZIndex(p.z)
	sys.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	p.sprites = append(p.sprites, s)
	p.used++
	return s
}

func (p *spritePool) reset() { p.used = 0 }

func (p *spritePool) hideUnused() {
	for _, s := range p.sprites[p.used:] {
		s.Hidden = true
	}
}

// EngoRenderer implements entity.Renderer on top of an engo render system.
// Ships keep one sprite each; particles, trails and debug shapes come from
// pools refilled every frame.
type EngoRenderer struct {
	system     SpriteSystem
	camera     *CameraSystem
	assets     *AssetManager
	showTrails bool

	ships   map[entity.ID]*sprite
	seen    map[entity.ID]bool
	dots    spritePool
	circles spritePool
	lines   spritePool
}

// NewEngoRenderer creates a renderer adding its sprites to system
func NewEngoRenderer(system SpriteSystem, camera *CameraSystem, assets *AssetManager) *EngoRenderer {
	return &EngoRenderer{
		system:     system,
		camera:     camera,
		assets:     assets,
		showTrails: true,
		ships:      make(map[entity.ID]*sprite),
		seen:       make(map[entity.ID]bool),
		dots:       spritePool{z: zDots},
		circles:    spritePool{z: zOverlays},
		lines:      spritePool{z: zOverlays},
	}
}

// SetShowTrails toggles trail drawing
func (r *EngoRenderer) SetShowTrails(show bool) { r.showTrails = show }

// Clear implements entity.Renderer
func (r *EngoRenderer) Clear() {
	clear(r.seen)
	r.dots.reset()
	r.circles.reset()
	r.lines.reset()
}

// Present implements entity.Renderer. Ships not drawn since Clear are
// removed from the render system.
func (r *EngoRenderer) Present() {
	r.dots.hideUnused()
	r.circles.hideUnused()
	r.lines.hideUnused()

	for id, s := range r.ships {
		if !r.seen[id] {
			r.system.Remove(s.BasicEntity)
			delete(r.ships, id)
		}
	}
}

// RenderShip implements entity.Renderer
func (r *EngoRenderer) RenderShip(ship *entity.Ship) {
	if ship == nil {
		return
	}
	id := ship.GetID()
	r.seen[id] = true

	playerType := entity.Neutral
	if p := ship.GetPlayer(); p != nil {
		playerType = p.Type
	}

	s, ok := r.ships[id]
	if !ok {
		s = &sprite{BasicEntity: ecs.NewBasic()}
		s.Drawable = r.shipDrawable(playerType)
		s.SetZIndex(zShips)
		r.system.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
		r.ships[id] = s
	}

	if r.showTrails {
		c := PlayerColor(playerType)
		trail := ship.Trail()
		for i, p := range trail {
			fade := uint8(255 * (len(trail) - i) / (len(trail) + 1))
			r.dot(p, 2, color.RGBA{R: c.R, G: c.G, B: c.B, A: fade})
		}
	}

	radius := ship.GetCollider().Radius
	size := float32(math.Max(minShipPixels, float64(r.camera.Scale(2*radius))))
	s.Color = PlayerColor(playerType)
	s.Width, s.Height = size, size
	s.Rotation = float32(physics.NormalizeAngle(360 - ship.GetHeading()))
	s.SetCenter(r.camera.WorldToScreen(ship.GetPosition()))

	if ship.IsSelected() {
		r.DrawCircle(ship.GetPosition(), radius, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
}

func (r *EngoRenderer) shipDrawable(t entity.PlayerType) common.Drawable {
	if r.assets != nil {
		if d := r.assets.ShipSprite(t); d != nil {
			return d
		}
	}
	return common.Triangle{}
}

// RenderParticle implements entity.Renderer
func (r *EngoRenderer) RenderParticle(p particle.Particle) {
	r.dot(p.Position, r.camera.Scale(p.Size()), p.Color())
}

func (r *EngoRenderer) dot(p physics.Vector3, size float32, c color.RGBA) {
	if size < 1 {
		size = 1
	}
	s := r.dots.next(r.system)
	s.Drawable = common.Circle{}
	s.Color = c
	s.Width, s.Height = size, size
	s.Rotation = 0
	s.SetCenter(r.camera.WorldToScreen(p))
}

// DrawCircle implements entity.Renderer
func (r *EngoRenderer) DrawCircle(center physics.Vector3, radius float64, c color.RGBA) {
	size := r.camera.Scale(2 * radius)
	s := r.circles.next(r.system)
	s.Drawable = common.Circle{BorderWidth: 1, BorderColor: c}
	s.Color = color.Transparent
	s.Width, s.Height = size, size
	s.Rotation = 0
	s.SetCenter(r.camera.WorldToScreen(center))
}

// DrawLine implements entity.Renderer
func (r *EngoRenderer) DrawLine(from, to physics.Vector3, c color.RGBA) {
	a := r.camera.WorldToScreen(from)
	b := r.camera.WorldToScreen(to)
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)

	s := r.lines.next(r.system)
	s.Drawable = common.Rectangle{}
	s.Color = c
	s.Width = float32(math.Hypot(dx, dy))
	s.Height = 1
	s.Rotation = float32(math.Atan2(dy, dx) * 180 / math.Pi)
	s.Position = engo.Point{X: a.X, Y: a.Y}
}

// ShipCount returns how many ship sprites are live
func (r *EngoRenderer) ShipCount() int { return len(r.ships) }

// PlayerColor returns the tint used for ships of player type t
func PlayerColor(t entity.PlayerType) color.RGBA {
	switch t {
	case entity.Self:
		return color.RGBA{R: 0, G: 220, B: 0, A: 255}
	case entity.AI:
		return color.RGBA{R: 230, G: 40, B: 40, A: 255}
	default:
		return color.RGBA{R: 230, G: 200, B: 0, A: 255}
	}
}
