// pkg/render/engo/scene_test.go
package engo

import (
	"math"
	"testing"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-morph/pkg/config"
	"github.com/opd-ai/go-morph/pkg/engine"
	"github.com/opd-ai/go-morph/pkg/entity"
	"github.com/opd-ai/go-morph/pkg/physics"
)

func newTestScene(t *testing.T) (*Scene, *fakeSprites) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Fleet = nil
	cfg.Energy.StarsPerSecond = 0

	world := engine.NewWorld(cfg)
	player := entity.NewPlayer("pilot", entity.Self)
	for _, pos := range []physics.Vector3{{}, {X: 100}} {
		if _, err := world.SpawnShip(engine.ShipSpec{Player: player, Position: pos, Propulsors: 1}); err != nil {
			t.Fatalf("SpawnShip() error = %v", err)
		}
	}

	scene := NewScene(world, nil)
	scene.assets, _ = offlineAssets()
	sprites := &fakeSprites{}
	scene.build(sprites, 800, 600)
	return scene, sprites
}

func TestGameScene_Type(t *testing.T) {
	scene, _ := newTestScene(t)
	if scene.Type() != "MorphScene" {
		t.Errorf("Expected scene type MorphScene, got %s", scene.Type())
	}
}

func TestScene_Frame(t *testing.T) {
	scene, _ := newTestScene(t)

	scene.Frame(1.0 / 60)

	state := scene.world.State()
	if state.Tick != 1 {
		t.Errorf("Expected 1 tick, got %d", state.Tick)
	}
	if scene.renderer.ShipCount() != 2 {
		t.Errorf("Expected 2 ship sprites, got %d", scene.renderer.ShipCount())
	}
	if lines := scene.hud.Lines(); len(lines) == 0 || lines[1] != "no selection" {
		t.Errorf("unexpected HUD lines %v", lines)
	}
}

func TestScene_FrameCapsDelta(t *testing.T) {
	scene, _ := newTestScene(t)

	scene.Frame(5)

	elapsed := scene.world.State().Elapsed
	if want := scene.cfg.Simulation.MaxDeltaTime; math.Abs(elapsed-want) > 1e-9 {
		t.Errorf("Expected a long frame capped to %v s, got %v", want, elapsed)
	}
}

func TestScene_InputDrivesWorld(t *testing.T) {
	scene, _ := newTestScene(t)
	scene.Frame(1.0 / 60)

	// click the ship at the origin, then order it to the right
	scene.input.PressLeft(engo.Point{X: 400, Y: 300})
	scene.input.ReleaseLeft(engo.Point{X: 400, Y: 300}, false)
	if ids := scene.world.SelectedIDs(); len(ids) != 1 {
		t.Fatalf("Expected 1 selected ship, got %v", ids)
	}
	scene.input.PressRight(engo.Point{X: 700, Y: 300})

	scene.Frame(1.0 / 60)

	gauges := scene.hud.Gauges()
	if len(gauges) != 2 {
		t.Fatalf("Expected gauges for the selected ship, got %d", len(gauges))
	}
	ship, ok := scene.world.Ship(scene.world.SelectedIDs()[0])
	if !ok {
		t.Fatal("selected ship missing")
	}
	target, ok := ship.MovementTarget()
	if !ok || !nearVec(target, physics.Vector3{X: 300}) {
		t.Errorf("Expected a movement target at (300, 0), got %v %v", target, ok)
	}
}
