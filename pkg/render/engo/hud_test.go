// pkg/render/engo/hud_test.go
package engo

import (
	"strings"
	"testing"

	"github.com/opd-ai/go-morph/pkg/engine"
	"github.com/opd-ai/go-morph/pkg/entity"
)

func TestHUDSystem_UpdateState(t *testing.T) {
	hud := NewHUDSystem(&fakeSprites{}, 100)
	state := &engine.WorldState{
		Tick: 42,
		Ships: []engine.ShipState{
			{ID: 1, Player: "red", PlayerType: "AI", Energy: 80, MaxDamage: 10},
			{ID: 2, Player: "blue", PlayerType: "Self", Energy: 50, Damage: 5, MaxDamage: 10, Selected: true},
		},
		Selected: []entity.ID{2},
	}

	hud.UpdateState(state)

	lines := hud.Lines()
	if len(lines) != 2 {
		t.Fatalf("Expected 2 status lines, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "tick 42") {
		t.Errorf("Expected the tick in %q", lines[0])
	}

	gauges := hud.Gauges()
	if len(gauges) != 2 {
		t.Fatalf("Expected 2 gauges, got %d", len(gauges))
	}
	tests := []struct {
		label    string
		fraction float64
	}{
		{"energy", 0.5},
		{"damage", 0.5},
	}
	for i, tt := range tests {
		if gauges[i].Label != tt.label || gauges[i].Fraction != tt.fraction {
			t.Errorf("gauge %d = %s %.2f, want %s %.2f", i, gauges[i].Label, gauges[i].Fraction, tt.label, tt.fraction)
		}
	}
}

func TestHUDSystem_BarsFollowSelection(t *testing.T) {
	sprites := &fakeSprites{}
	hud := NewHUDSystem(sprites, 100)

	hud.UpdateState(&engine.WorldState{
		Ships:    []engine.ShipState{{ID: 7, Energy: 150, Damage: 2, MaxDamage: 10, Selected: true}},
		Selected: []entity.ID{7},
	})
	hud.Update(0)

	if sprites.added != 4 {
		t.Fatalf("Expected a background and a fill per gauge, got %d sprites", sprites.added)
	}
	if fill := hud.bars.sprites[1]; fill.Width != hudGaugeWidth {
		t.Errorf("Expected an overfull energy gauge clamped to %d px, got %f", hudGaugeWidth, fill.Width)
	}
	if len(hud.texts) != 0 {
		t.Errorf("Expected no text sprites without a font, got %d", len(hud.texts))
	}

	hud.UpdateState(&engine.WorldState{})
	hud.Update(0)

	for i, s := range hud.bars.sprites {
		if !s.Hidden {
			t.Errorf("bar %d still visible with nothing selected", i)
		}
	}
}

func TestFraction(t *testing.T) {
	tests := []struct {
		name       string
		value, max float64
		want       float64
	}{
		{"half", 5, 10, 0.5},
		{"over", 15, 10, 1},
		{"negative", -1, 10, 0},
		{"no maximum", 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fraction(tt.value, tt.max); got != tt.want {
				t.Errorf("fraction(%v, %v) = %v, want %v", tt.value, tt.max, got, tt.want)
			}
		})
	}
}
