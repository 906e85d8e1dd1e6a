// cmd/morph/terminal.go
package main

import (
	"context"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-morph/pkg/engine"
	"github.com/opd-ai/go-morph/pkg/logging"
	"github.com/opd-ai/go-morph/pkg/physics"
	"github.com/opd-ai/go-morph/pkg/render"
)

// Terminal key handling
const (
	zoomStep = 1.25
	panCells = 4
)

// terminalApp drives a world from a tcell screen. All world updates happen
// on the goroutine calling run.
type terminalApp struct {
	world       *engine.World
	screen      tcell.Screen
	renderer    *render.TerminalRenderer
	logger      *logging.Logger
	logCtx      context.Context
	energyScale float64
	showTrails  bool

	dragging  bool
	dragStart [2]int
}

func newTerminalApp(world *engine.World, screen tcell.Screen, logger *logging.Logger) *terminalApp {
	if logger == nil {
		logger = logging.Discard()
	}
	w, h := screen.Size()
	view := render.NewViewport(w, h, world.Config.Render.Zoom)
	r := render.NewTerminalRenderer(screen, view)
	r.SetShowTrails(world.Config.Render.ShowTrails)
	return &terminalApp{
		world:       world,
		screen:      screen,
		renderer:    r,
		logger:      logger,
		logCtx:      context.Background(),
		energyScale: world.Config.EnergyScale(),
		showTrails:  world.Config.Render.ShowTrails,
	}
}

// run processes input and steps the world at the configured tick rate until
// the user quits or ctx is done
func (app *terminalApp) run(ctx context.Context) error {
	app.logCtx = logging.WithCorrelationID(ctx, logging.GetCorrelationID(ctx))

	events := make(chan tcell.Event, 32)
	quit := make(chan struct{})
	go app.screen.ChannelEvents(events, quit)
	defer close(quit)

	rate := app.world.Config.Simulation.TickRate
	if rate <= 0 {
		rate = 60
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()

	app.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if app.handleEvent(ev) {
				app.logger.Info(app.logCtx, "terminal closed by user", "tick", app.world.State().Tick)
				return nil
			}
			app.draw()
		case now := <-ticker.C:
			app.world.Step(now)
			app.draw()
		}
	}
}

// draw renders one frame with the status lines
func (app *terminalApp) draw() {
	app.renderer.SetStatus(render.StatusLines(app.world.State(), app.energyScale)...)
	app.world.Render(app.renderer)
}

// handleEvent applies one input event and reports whether to quit
func (app *terminalApp) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		app.screen.Sync()
	case *tcell.EventKey:
		return app.handleKey(ev)
	case *tcell.EventMouse:
		app.handleMouse(ev)
	}
	return false
}

func (app *terminalApp) handleKey(ev *tcell.EventKey) bool {
	view := app.renderer.Viewport()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyTab:
		app.selectNext()
	case tcell.KeyLeft:
		view.Pan(-panCells, 0)
	case tcell.KeyRight:
		view.Pan(panCells, 0)
	case tcell.KeyUp:
		view.Pan(0, -panCells/2)
	case tcell.KeyDown:
		view.Pan(0, panCells/2)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case ' ':
			paused := app.world.TogglePause()
			app.logger.Info(app.logCtx, "simulation pause toggled", "paused", paused)
		case '+', '=':
			view.ZoomAt(view.Center, zoomStep)
		case '-':
			view.ZoomAt(view.Center, 1/zoomStep)
		case 'm':
			app.moveSelected(view.Center)
		case 't':
			app.showTrails = !app.showTrails
			app.renderer.SetShowTrails(app.showTrails)
		case ']':
			app.scaleTime(2)
		case '[':
			app.scaleTime(0.5)
		case 'c':
			app.world.ClearSelection()
		}
	}
	return false
}

func (app *terminalApp) handleMouse(ev *tcell.EventMouse) {
	view := app.renderer.Viewport()
	x, y := ev.Position()
	point := view.CellToWorld(x, y)
	additive := ev.Modifiers()&tcell.ModShift != 0

	switch buttons := ev.Buttons(); {
	case buttons&tcell.Button1 != 0:
		if !app.dragging {
			app.dragging = true
			app.dragStart = [2]int{x, y}
		}
	case buttons&tcell.Button2 != 0:
		app.moveSelected(point)
	case buttons&tcell.WheelUp != 0:
		view.ZoomAt(point, zoomStep)
	case buttons&tcell.WheelDown != 0:
		view.ZoomAt(point, 1/zoomStep)
	case buttons == tcell.ButtonNone && app.dragging:
		app.dragging = false
		if app.dragStart == [2]int{x, y} {
			app.world.SelectAt(point, additive)
			return
		}
		start := view.CellToWorld(app.dragStart[0], app.dragStart[1])
		app.world.SelectInRect(physics.RectFromCorners(start, point), additive)
	}
}

// selectNext selects the ship after the current selection in id order
func (app *terminalApp) selectNext() {
	ids := app.world.ShipIDs()
	if len(ids) == 0 {
		return
	}
	next := ids[0]
	if selected := app.world.SelectedIDs(); len(selected) > 0 {
		if i := slices.Index(ids, selected[0]); i >= 0 {
			next = ids[(i+1)%len(ids)]
		}
	}
	if err := app.world.Select(next, false); err != nil {
		app.logger.Warn(app.logCtx, "selection failed", "ship_id", next, "error", err.Error())
	}
}

func (app *terminalApp) moveSelected(target physics.Vector3) {
	moved, err := app.world.MoveSelectedTo(target)
	if err != nil {
		app.logger.Warn(app.logCtx, "move order rejected", "target", target.String(), "error", err.Error())
		return
	}
	app.logger.Debug(app.logCtx, "move order issued", "target", target.String(), "ships", moved)
}

func (app *terminalApp) scaleTime(factor float64) {
	scale := app.world.TimeScale() * factor
	if err := app.world.SetTimeScale(scale); err != nil {
		app.logger.Debug(app.logCtx, "time scale unchanged", "requested", scale, "error", err.Error())
	}
}
