// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-morph/pkg/config"
	"github.com/opd-ai/go-morph/pkg/engine"
	"github.com/opd-ai/go-morph/pkg/logging"
)

// HUDFont is the optional font file looked up in the asset directory
const HUDFont = "hud.ttf"

// Scene runs a world inside an engo window. The engo frame loop drives the
// simulation ticks.
type Scene struct {
	world  *engine.World
	cfg    *config.Config
	logger *logging.Logger

	assets   *AssetManager
	camera   *CameraSystem
	renderer *EngoRenderer
	input    *InputSystem
	hud      *HUDSystem
}

// NewScene creates a scene for world
func NewScene(world *engine.World, logger *logging.Logger) *Scene {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Scene{
		world:  world,
		cfg:    world.Config,
		logger: logger,
		assets: NewAssetManager(world.Config.Render.AssetDir, logger),
	}
}

// Type returns the scene type (required by Engo)
func (scene *Scene) Type() string {
	return "MorphScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *Scene) Preload() {
	scene.assets.Preload()
}

// Setup is called when the scene starts (required by Engo)
func (scene *Scene) Setup(u engo.Updater) {
	w, ok := u.(*ecs.World)
	if !ok {
		scene.logger.Error(context.Background(), "unexpected engo updater", nil)
		return
	}
	SetupInputBindings()
	common.SetBackground(color.Black)

	renderSystem := &common.RenderSystem{}
	w.AddSystem(renderSystem)
	scene.build(renderSystem, engo.GameWidth(), engo.GameHeight())
	scene.hud.SetFont(scene.assets.Font(HUDFont, 14))

	w.AddSystem(scene.input)
	w.AddSystem(scene.camera)
	w.AddSystem(&simulationSystem{scene: scene})
	w.AddSystem(scene.hud)

	scene.logger.Info(context.Background(), "engo scene ready",
		"width", engo.GameWidth(),
		"height", engo.GameHeight(),
		"ships", scene.world.LiveShipCount(),
	)
}

// build wires the scene's systems onto sprites
func (scene *Scene) build(sprites SpriteSystem, width, height float32) {
	scene.camera = NewCameraSystem(width, height, float32(scene.cfg.Render.Zoom))
	scene.renderer = NewEngoRenderer(sprites, scene.camera, scene.assets)
	scene.renderer.SetShowTrails(scene.cfg.Render.ShowTrails)
	scene.input = NewInputSystem(scene.world, scene.camera, scene.logger)
	scene.hud = NewHUDSystem(sprites, scene.cfg.EnergyScale())
}

// Frame advances the world by one frame of dt seconds and redraws it
func (scene *Scene) Frame(dt float32) {
	step := math.Min(float64(dt), scene.cfg.Simulation.MaxDeltaTime)
	scene.world.Update(step)
	scene.world.Render(scene.renderer)
	scene.hud.UpdateState(scene.world.State())
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *Scene) Exit() {
	scene.logger.Info(context.Background(), "engo scene closed", "tick", scene.world.State().Tick)
}

// simulationSystem hooks Scene.Frame into the ecs update loop
type simulationSystem struct {
	scene *Scene
}

func (s *simulationSystem) Update(dt float32) { s.scene.Frame(dt) }

func (s *simulationSystem) Remove(ecs.BasicEntity) {}

// Run opens a window and runs the world until it is closed
func Run(world *engine.World, logger *logging.Logger) {
	engo.Run(engo.RunOptions{
		Title:  "morph",
		Width:  world.Config.Render.Width,
		Height: world.Config.Render.Height,
	}, NewScene(world, logger))
}
