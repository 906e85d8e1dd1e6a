package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/opd-ai/go-morph/pkg/engine"
)

// GaugeWidth is the number of cells inside a status gauge
const GaugeWidth = 10

// Gauge renders value/max as a bar of width cells, e.g. "[####------]"
func Gauge(value, max float64, width int) string {
	if width <= 0 {
		return "[]"
	}
	filled := 0
	if max > 0 {
		filled = int(math.Round(math.Max(0, math.Min(1, value/max)) * float64(width)))
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// StatusLines summarizes state in two lines: the world line and the line of
// the first selected ship. energyScale is the energy shown as a full gauge.
func StatusLines(state *engine.WorldState, energyScale float64) []string {
	world := fmt.Sprintf("tick %d  t %.1fs  ships %d  destroyed %d  particles %d  x%.2f",
		state.Tick, state.Elapsed, len(state.Ships), state.Destroyed, state.Particles, state.TimeScale)
	if state.Paused {
		world += "  [PAUSED]"
	}

	ship := "no selection"
	for _, s := range state.Ships {
		if !s.Selected {
			continue
		}
		ship = fmt.Sprintf("#%d %s  E %s %.0f  D %s %.1f/%.0f  v %.1f  a %.1f",
			s.ID, s.Player,
			Gauge(s.Energy, energyScale, GaugeWidth), s.Energy,
			Gauge(s.Damage, s.MaxDamage, GaugeWidth), s.Damage, s.MaxDamage,
			s.Velocity.Modulus(), s.RealAccel)
		if n := len(state.Selected); n > 1 {
			ship += fmt.Sprintf("  (+%d)", n-1)
		}
		break
	}
	return []string{world, ship}
}
