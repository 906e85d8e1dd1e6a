package render

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-morph/pkg/entity"
	"github.com/opd-ai/go-morph/pkg/particle"
	"github.com/opd-ai/go-morph/pkg/physics"
)

// Glyphs used by the terminal renderer
const (
	TrailRune    = '·'
	SmallRune    = '.'
	LargeRune    = '*'
	CircleRune   = 'o'
	LineRune     = '.'
	largeSizeMin = 3.0
)

// headingGlyphs are indexed by heading in 45 degree steps, counter-clockwise
// from north.
var headingGlyphs = [8]rune{'↑', '↖', '←', '↙', '↓', '↘', '→', '↗'}

// TerminalRenderer draws the world onto a tcell screen
type TerminalRenderer struct {
	screen     tcell.Screen
	view       *Viewport
	showTrails bool
	status     []string
}

// NewTerminalRenderer creates a renderer drawing through view onto screen
func NewTerminalRenderer(screen tcell.Screen, view *Viewport) *TerminalRenderer {
	w, h := screen.Size()
	if view == nil {
		view = NewViewport(w, h, 1)
	}
	view.Resize(w, h)
	return &TerminalRenderer{screen: screen, view: view, showTrails: true}
}

// Viewport returns the view used to map world coordinates to cells
func (r *TerminalRenderer) Viewport() *Viewport { return r.view }

// SetShowTrails toggles trail drawing
func (r *TerminalRenderer) SetShowTrails(show bool) { r.showTrails = show }

// SetStatus sets the lines drawn at the bottom of the screen by Present
func (r *TerminalRenderer) SetStatus(lines ...string) {
	r.status = append(r.status[:0], lines...)
}

// Clear implements entity.Renderer
func (r *TerminalRenderer) Clear() {
	w, h := r.screen.Size()
	r.view.Resize(w, h)
	r.screen.Clear()
}

// Present implements entity.Renderer
func (r *TerminalRenderer) Present() {
	w, h := r.screen.Size()
	style := tcell.StyleDefault.Reverse(true)
	top := h - len(r.status)
	for i, line := range r.status {
		y := top + i
		if y < 0 {
			continue
		}
		x := 0
		for _, ch := range line {
			if x >= w {
				break
			}
			r.screen.SetContent(x, y, ch, nil, style)
			x++
		}
		for ; x < w; x++ {
			r.screen.SetContent(x, y, ' ', nil, style)
		}
	}
	r.screen.Show()
}

// RenderShip implements entity.Renderer
func (r *TerminalRenderer) RenderShip(ship *entity.Ship) {
	if ship == nil {
		return
	}
	style := playerStyle(ship.GetPlayer())

	if r.showTrails {
		trailStyle := style.Dim(true)
		for _, p := range ship.Trail() {
			r.plot(p, TrailRune, trailStyle, false)
		}
	}
	if ship.IsSelected() {
		r.DrawCircle(ship.GetPosition(), ship.GetCollider().Radius, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		style = style.Reverse(true)
	}
	r.plot(ship.GetPosition(), HeadingGlyph(ship.GetHeading()), style, true)
}

// RenderParticle implements entity.Renderer
func (r *TerminalRenderer) RenderParticle(p particle.Particle) {
	ch := SmallRune
	if p.Size() >= largeSizeMin {
		ch = LargeRune
	}
	r.plot(p.Position, ch, rgbStyle(p.Color()), false)
}

// DrawCircle implements entity.Renderer
func (r *TerminalRenderer) DrawCircle(center physics.Vector3, radius float64, c color.RGBA) {
	style := rgbStyle(c)
	steps := int(2*math.Pi*r.view.CellSpan(radius)) + 8
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		p := physics.Vector3{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
		r.plot(p, CircleRune, style, false)
	}
}

// DrawLine implements entity.Renderer
func (r *TerminalRenderer) DrawLine(from, to physics.Vector3, c color.RGBA) {
	style := rgbStyle(c)
	x0, y0 := r.view.WorldToCell(from)
	x1, y1 := r.view.WorldToCell(to)

	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		r.setCell(x0, y0, LineRune, style, false)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (r *TerminalRenderer) plot(p physics.Vector3, ch rune, style tcell.Style, overwrite bool) {
	x, y := r.view.WorldToCell(p)
	r.setCell(x, y, ch, style, overwrite)
}

// setCell writes ch unless the cell is off the map area or, without
// overwrite, already holds a glyph.
func (r *TerminalRenderer) setCell(x, y int, ch rune, style tcell.Style, overwrite bool) {
	if !r.view.Contains(x, y) || y >= r.view.Height-len(r.status) {
		return
	}
	if !overwrite {
		if cur, _, _, _ := r.screen.GetContent(x, y); cur != ' ' && cur != 0 {
			return
		}
	}
	r.screen.SetContent(x, y, ch, nil, style)
}

// HeadingGlyph returns the arrow closest to heading
func HeadingGlyph(heading float64) rune {
	i := int(math.Round(physics.NormalizeAngle(heading)/45)) % len(headingGlyphs)
	return headingGlyphs[i]
}

func playerStyle(p *entity.Player) tcell.Style {
	if p == nil {
		return tcell.StyleDefault
	}
	switch p.Type {
	case entity.Self:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case entity.AI:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	}
}

func rgbStyle(c color.RGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
