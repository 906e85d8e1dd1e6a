package render

import (
	"math"

	"github.com/opd-ai/go-morph/pkg/physics"
)

// Viewport scale limits and cell geometry
const (
	UnitsPerCell = 10.0
	// CellAspect is how many times taller a terminal cell is than wide
	CellAspect = 2.0
	MinZoom    = 0.05
	MaxZoom    = 20.0
)

// Viewport maps world coordinates onto a grid of terminal cells. World y
// grows upward, cell rows grow downward.
type Viewport struct {
	Center physics.Vector3
	Zoom   float64
	Width  int
	Height int
}

// NewViewport creates a viewport centred on the origin
func NewViewport(width, height int, zoom float64) *Viewport {
	return &Viewport{Zoom: clampZoom(zoom), Width: width, Height: height}
}

// Resize changes the cell grid size
func (v *Viewport) Resize(width, height int) {
	v.Width, v.Height = width, height
}

// WorldToCell returns the cell containing p
func (v *Viewport) WorldToCell(p physics.Vector3) (int, int) {
	fx := (p.X-v.Center.X)*v.Zoom/UnitsPerCell + float64(v.Width)/2
	fy := float64(v.Height)/2 - (p.Y-v.Center.Y)*v.Zoom/(UnitsPerCell*CellAspect)
	return int(math.Floor(fx)), int(math.Floor(fy))
}

// CellToWorld returns the world position at the middle of cell (x, y)
func (v *Viewport) CellToWorld(x, y int) physics.Vector3 {
	return physics.Vector3{
		X: (float64(x)+0.5-float64(v.Width)/2)*UnitsPerCell/v.Zoom + v.Center.X,
		Y: (float64(v.Height)/2-(float64(y)+0.5))*UnitsPerCell*CellAspect/v.Zoom + v.Center.Y,
	}
}

// Contains reports whether cell (x, y) is on the grid
func (v *Viewport) Contains(x, y int) bool {
	return x >= 0 && x < v.Width && y >= 0 && y < v.Height
}

// Pan moves the view by a number of cells
func (v *Viewport) Pan(cellsX, cellsY int) {
	v.Center.X += float64(cellsX) * UnitsPerCell / v.Zoom
	v.Center.Y -= float64(cellsY) * UnitsPerCell * CellAspect / v.Zoom
}

// ZoomAt multiplies the zoom by factor keeping focal at the same cell
func (v *Viewport) ZoomAt(focal physics.Vector3, factor float64) {
	if factor <= 0 {
		return
	}
	old := v.Zoom
	v.Zoom = clampZoom(v.Zoom * factor)
	ratio := old / v.Zoom
	v.Center.X = focal.X - (focal.X-v.Center.X)*ratio
	v.Center.Y = focal.Y - (focal.Y-v.Center.Y)*ratio
}

// CellSpan returns how many cells a world distance covers horizontally
func (v *Viewport) CellSpan(distance float64) float64 {
	return distance * v.Zoom / UnitsPerCell
}

func clampZoom(z float64) float64 {
	if z <= 0 || math.IsNaN(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
