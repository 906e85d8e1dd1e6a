// pkg/engine/world.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/opd-ai/go-morph/pkg/behavior/field"
	"github.com/opd-ai/go-morph/pkg/config"
	"github.com/opd-ai/go-morph/pkg/entity"
	"github.com/opd-ai/go-morph/pkg/event"
	"github.com/opd-ai/go-morph/pkg/logging"
	"github.com/opd-ai/go-morph/pkg/module"
	"github.com/opd-ai/go-morph/pkg/particle"
	"github.com/opd-ai/go-morph/pkg/physics"
	"github.com/opd-ai/go-morph/pkg/validation"
)

// Errors returned by the external interface
var (
	ErrShipNotFound = errors.New("ship not found")
	ErrCannotSteer  = errors.New("ship cannot steer")
)

// ShipSpec describes a ship to spawn
type ShipSpec struct {
	Player   *entity.Player
	Position physics.Vector3
	Heading  float64
	// Mass defaults to the configured ship mass when zero
	Mass       float64
	Propulsors int
	Wander     bool
}

// WorldOption customises NewWorld
type WorldOption func(*World)

// WithLogger sets the world's logger
func WithLogger(l *logging.Logger) WorldOption {
	return func(w *World) { w.logger = l }
}

// WithIDs sets the id generator shared by the world's ships and modules
func WithIDs(g *entity.IDGenerator) WorldOption {
	return func(w *World) { w.ids = g }
}

// World owns the ships and particles of a simulation and drives their ticks.
// All exported methods are safe for concurrent use; event handlers run after
// the world lock is released.
type World struct {
	Config       *config.Config
	EntityLock   sync.RWMutex
	EventBus     *event.Bus
	SpatialIndex *physics.QuadTree[*entity.Ship]
	CurrentTick  uint64
	ElapsedTime  float64 // simulated seconds
	LastUpdate   time.Time

	ships     map[entity.ID]*entity.Ship
	order     []entity.ID
	players   map[string]*entity.Player
	selected  map[entity.ID]bool
	particles *particle.Engine

	pendingRemoval []entity.ID
	pendingEvents  []event.Event

	paused    bool
	timeScale float64
	destroyed uint64
	spawned   uint64
	maxRadius float64
	indexHalf float64

	shipCfg entity.ShipConfig
	ids     *entity.IDGenerator
	logger  *logging.Logger
	// logCtx carries the correlation id of the current Run
	logCtx context.Context
}

// NewWorld creates an empty world with the specified configuration
func NewWorld(cfg *config.Config, opts ...WorldOption) *World {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	w := &World{
		Config:     cfg,
		EventBus:   event.NewEventBus(),
		LastUpdate: time.Now(),
		ships:      make(map[entity.ID]*entity.Ship),
		players:    make(map[string]*entity.Player),
		selected:   make(map[entity.ID]bool),
		particles:  particle.NewEngine(cfg.Particles.Capacity),
		timeScale:  cfg.Simulation.TimeScale,
		shipCfg:    cfg.ShipConfig(),
		logCtx:     context.Background(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.ids == nil {
		w.ids = entity.NewIDGenerator()
	}
	if w.logger == nil {
		w.logger = logging.Discard()
	}
	if w.timeScale <= 0 {
		w.timeScale = 1
	}

	w.rebuildSpatialIndex()
	return w
}

// unlockAndFlush releases the write lock and dispatches the events queued
// while it was held
func (w *World) unlockAndFlush() {
	events := w.pendingEvents
	w.pendingEvents = nil
	w.EntityLock.Unlock()

	for _, e := range events {
		w.EventBus.Publish(e)
	}
}

// Emit adds a particle. Part of entity.Environment; called with the world
// lock held.
func (w *World) Emit(position, velocity physics.Vector3, spec particle.Spec) {
	w.particles.Emit(position, velocity, spec)
}

// Publish queues an event until the world lock is released. Part of
// entity.Environment; subscribers use EventBus directly.
func (w *World) Publish(e event.Event) {
	w.pendingEvents = append(w.pendingEvents, e)
}

// RemoveEntity schedules removal of a ship at the end of the current tick
func (w *World) RemoveEntity(id entity.ID) {
	w.pendingRemoval = append(w.pendingRemoval, id)
}

// SpawnShip creates a ship from spec and adds it to the world
func (w *World) SpawnShip(spec ShipSpec) (entity.ID, error) {
	w.EntityLock.Lock()
	defer w.unlockAndFlush()

	return w.spawnShip(spec)
}

func (w *World) spawnShip(spec ShipSpec) (entity.ID, error) {
	mass := spec.Mass
	if mass == 0 {
		mass = w.Config.Ship.Mass
	}
	if err := validation.ValidateMass(mass); err != nil {
		return 0, err
	}
	if err := validation.ValidateTarget(spec.Position); err != nil {
		return 0, fmt.Errorf("invalid spawn position: %w", err)
	}

	w.spawned++
	rng := rand.New(rand.NewPCG(w.Config.Simulation.Seed, w.spawned))
	ship, err := entity.NewShip(spec.Position, spec.Heading, mass, spec.Player, w.shipCfg,
		entity.WithIDs(w.ids),
		entity.WithEnvironment(w),
		entity.WithRand(rng),
		entity.WithLogger(w.logger),
	)
	if err != nil {
		return 0, logging.WrapError(err, "spawn ship", "mass", mass)
	}

	for i := 0; i < spec.Propulsors; i++ {
		ship.AddModule(module.SimplePropulsor, 0)
	}
	for _, well := range w.Config.Gravity {
		ship.AddBehavior(field.NewGravity(ship, field.GravityConfig{
			Center:      physics.Vector3{X: well.X, Y: well.Y},
			Strength:    well.Strength,
			MinDistance: well.MinDistance,
			MaxForce:    well.MaxForce,
			Range:       well.Range,
		}).Behavior())
	}
	if spec.Wander && !ship.StartWander() {
		w.logger.Warn(w.logCtx, "wander rejected, ship has no propulsor", "ship_id", ship.GetID())
	}

	id := ship.GetID()
	w.ships[id] = ship
	pos, _ := slices.BinarySearch(w.order, id)
	w.order = slices.Insert(w.order, pos, id)
	if spec.Player != nil {
		w.players[spec.Player.Name] = spec.Player
	}
	w.maxRadius = math.Max(w.maxRadius, ship.GetCollider().Radius)
	w.rebuildSpatialIndex()

	w.Publish(event.NewShipEvent(event.ShipCreated, w, uint64(id), playerName(spec.Player)))
	w.logger.Info(w.logCtx, "ship spawned", "ship_id", id, "player", playerName(spec.Player))
	return id, nil
}

// SpawnFleet spawns the ships described in the configuration. Players with
// the same name share one *entity.Player.
func (w *World) SpawnFleet(spawns []config.ShipSpawn) ([]entity.ID, error) {
	w.EntityLock.Lock()
	defer w.unlockAndFlush()

	ids := make([]entity.ID, 0, len(spawns))
	for i, s := range spawns {
		playerType, err := entity.PlayerTypeFromString(s.PlayerType)
		if err != nil {
			return ids, fmt.Errorf("fleet[%d]: %w", i, err)
		}
		player, ok := w.players[s.Player]
		if !ok {
			player = entity.NewPlayer(s.Player, playerType)
			w.players[s.Player] = player
		}

		id, err := w.spawnShip(ShipSpec{
			Player:     player,
			Position:   physics.Vector3{X: s.X, Y: s.Y},
			Heading:    s.Heading,
			Mass:       s.Mass,
			Propulsors: s.Propulsors,
			Wander:     s.Wander,
		})
		if err != nil {
			return ids, fmt.Errorf("fleet[%d]: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Player returns the registered player with the given name
func (w *World) Player(name string) (*entity.Player, bool) {
	w.EntityLock.RLock()
	defer w.EntityLock.RUnlock()

	p, ok := w.players[name]
	return p, ok
}

// Run steps the world at the configured tick rate until ctx is done.
// World log lines written during the run carry the correlation id of ctx;
// one is generated when ctx has none.
func (w *World) Run(ctx context.Context) error {
	rate := w.Config.Simulation.TickRate
	if rate <= 0 {
		rate = 60
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()

	ctx = logging.WithCorrelationID(ctx, logging.GetCorrelationID(ctx))

	w.EntityLock.Lock()
	w.LastUpdate = time.Now()
	w.logCtx = ctx
	w.EntityLock.Unlock()

	w.logger.Info(ctx, "simulation loop started", "tick_rate", rate)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "simulation loop stopped", "reason", ctx.Err().Error())
			return ctx.Err()
		case now := <-ticker.C:
			w.Step(now)
		}
	}
}

// Step advances the world by the wall-clock time elapsed since the last step
func (w *World) Step(now time.Time) {
	w.EntityLock.Lock()
	dt := w.calculateDeltaTime(now)
	w.EntityLock.Unlock()

	w.Update(dt)
}

// calculateDeltaTime calculates the time since the last update and caps it.
func (w *World) calculateDeltaTime(now time.Time) float64 {
	deltaTime := now.Sub(w.LastUpdate).Seconds()
	w.LastUpdate = now

	// Cap delta time to prevent physics issues
	if maxDt := w.Config.Simulation.MaxDeltaTime; maxDt > 0 && deltaTime > maxDt {
		deltaTime = maxDt
	}
	if deltaTime < 0 {
		deltaTime = 0
	}
	return deltaTime
}

// Update advances the world by dt seconds, scaled by the time scale.
// Ships update in ascending id order. Nothing happens while paused.
func (w *World) Update(dt float64) {
	w.EntityLock.Lock()
	defer w.unlockAndFlush()

	if w.paused || dt <= 0 {
		return
	}
	dt *= w.timeScale

	w.updateShips(dt)
	w.particles.Update(dt)
	w.cleanupInactiveEntities()
	w.rebuildSpatialIndex()

	w.CurrentTick++
	w.ElapsedTime += dt
}

// updateShips updates all ships
func (w *World) updateShips(dt float64) {
	for _, id := range w.order {
		ship := w.ships[id]
		if !ship.Active {
			continue
		}
		ship.Update(dt)
		if w.Config.World.Wrap {
			w.wrapCoordinatesAroundWorld(&ship.Position)
			ship.Collider.Center = ship.Position
		}
	}
}

// wrapCoordinatesAroundWorld wraps the given position coordinates around world boundaries.
func (w *World) wrapCoordinatesAroundWorld(pos *physics.Vector3) {
	worldSize := w.Config.World.Size
	halfWorld := worldSize / 2

	if pos.X > halfWorld {
		pos.X -= worldSize
	} else if pos.X < -halfWorld {
		pos.X += worldSize
	}

	if pos.Y > halfWorld {
		pos.Y -= worldSize
	} else if pos.Y < -halfWorld {
		pos.Y += worldSize
	}
}

// cleanupInactiveEntities removes the ships whose removal was requested
// during the tick
func (w *World) cleanupInactiveEntities() {
	if len(w.pendingRemoval) == 0 {
		return
	}

	selectionChanged := false
	for _, id := range w.pendingRemoval {
		if _, ok := w.ships[id]; !ok {
			w.logger.Warn(w.logCtx, "removal of unknown ship ignored", "ship_id", id)
			continue
		}
		delete(w.ships, id)
		if i, found := slices.BinarySearch(w.order, id); found {
			w.order = slices.Delete(w.order, i, i+1)
		}
		if w.selected[id] {
			delete(w.selected, id)
			selectionChanged = true
		}
		w.destroyed++
	}
	w.pendingRemoval = w.pendingRemoval[:0]

	if selectionChanged {
		w.publishSelection()
	}
}

// rebuildSpatialIndex reinserts every live ship. Without wrapping the index
// grows to enclose ships that left the nominal world square.
func (w *World) rebuildSpatialIndex() {
	half := w.Config.World.Size / 2
	if !w.Config.World.Wrap {
		for _, ship := range w.ships {
			half = math.Max(half, math.Abs(ship.Position.X)+1)
			half = math.Max(half, math.Abs(ship.Position.Y)+1)
		}
	}

	if w.SpatialIndex == nil || half != w.indexHalf {
		w.SpatialIndex = physics.NewQuadTree[*entity.Ship](
			physics.Rect{Width: half * 2, Height: half * 2},
			w.Config.World.IndexCapacity,
		)
		w.indexHalf = half
	} else {
		w.SpatialIndex.Clear()
	}

	for _, id := range w.order {
		ship := w.ships[id]
		if ship.Active {
			w.SpatialIndex.Insert(ship.Position, ship)
		}
	}
}

// Render draws the world into r under the read lock
func (w *World) Render(r entity.Renderer) {
	w.EntityLock.RLock()
	defer w.EntityLock.RUnlock()

	r.Clear()
	for _, id := range w.order {
		ship := w.ships[id]
		ship.Render(r)
		if w.Config.Render.Debug {
			ship.DebugDraw(r)
		}
	}
	w.particles.Render(r)
	r.Present()
}

func (w *World) findShip(id entity.ID) (*entity.Ship, error) {
	ship, ok := w.ships[id]
	if !ok || !ship.Active {
		return nil, fmt.Errorf("%w: %d", ErrShipNotFound, id)
	}
	return ship, nil
}

// Ship returns the live ship with the given id. The pointer must only be
// read while the world is not updating.
func (w *World) Ship(id entity.ID) (*entity.Ship, bool) {
	w.EntityLock.RLock()
	defer w.EntityLock.RUnlock()

	ship, err := w.findShip(id)
	return ship, err == nil
}

// ShipIDs returns the ids of the live ships in update order
func (w *World) ShipIDs() []entity.ID {
	w.EntityLock.RLock()
	defer w.EntityLock.RUnlock()

	return slices.Clone(w.order)
}

// LiveShipCount returns the number of ships in the world
func (w *World) LiveShipCount() int {
	w.EntityLock.RLock()
	defer w.EntityLock.RUnlock()

	return len(w.ships)
}

// SetMovementTarget installs or updates the seek behavior of ship id
func (w *World) SetMovementTarget(id entity.ID, target physics.Vector3) error {
	if err := validation.ValidateTarget(target); err != nil {
		return err
	}

	w.EntityLock.Lock()
	defer w.unlockAndFlush()

	return w.setMovementTarget(id, target)
}

func (w *World) setMovementTarget(id entity.ID, target physics.Vector3) error {
	ship, err := w.findShip(id)
	if err != nil {
		return err
	}
	if !ship.SetMovementTarget(target) {
		return fmt.Errorf("%w: ship %d has no propulsor", ErrCannotSteer, id)
	}
	w.Publish(event.NewTargetEvent(w, uint64(id), target.X, target.Y))
	return nil
}

// FireOrder queues order on ship id
func (w *World) FireOrder(id entity.ID, order entity.Order) error {
	if order.Kind == entity.TakeDamage {
		if err := validation.ValidateDamage(order.Amount); err != nil {
			return err
		}
	}

	w.EntityLock.Lock()
	defer w.unlockAndFlush()

	ship, err := w.findShip(id)
	if err != nil {
		return err
	}
	ship.FireOrder(order)
	return nil
}

// AddModule equips a new module on ship id and returns the module id
func (w *World) AddModule(id entity.ID, t module.Type, level int) (uint64, error) {
	if err := validation.ValidateModuleLevel(level, w.Config.Propulsor.MaxLevel); err != nil {
		return 0, err
	}

	w.EntityLock.Lock()
	defer w.unlockAndFlush()

	ship, err := w.findShip(id)
	if err != nil {
		return 0, err
	}
	return ship.AddModule(t, level).ID, nil
}

// HasModuleType reports whether ship id carries a module of type t
func (w *World) HasModuleType(id entity.ID, t module.Type) (bool, error) {
	w.EntityLock.RLock()
	defer w.EntityLock.RUnlock()

	ship, err := w.findShip(id)
	if err != nil {
		return false, err
	}
	return ship.HasModuleType(t), nil
}

// TogglePause pauses or resumes the simulation and returns the new state
func (w *World) TogglePause() bool {
	w.EntityLock.Lock()
	defer w.unlockAndFlush()

	w.paused = !w.paused
	eventType := event.SimulationResumed
	if w.paused {
		eventType = event.SimulationPaused
	}
	w.Publish(event.NewSimulationEvent(eventType, w, w.paused, w.timeScale))
	return w.paused
}

// IsPaused reports whether the simulation is paused
func (w *World) IsPaused() bool {
	w.EntityLock.RLock()
	defer w.EntityLock.RUnlock()

	return w.paused
}

// SetTimeScale sets the factor applied to every dt
func (w *World) SetTimeScale(scale float64) error {
	sim := w.Config.Simulation
	if err := validation.ValidateTimeScale(scale, sim.MinTimeScale, sim.MaxTimeScale); err != nil {
		return err
	}

	w.EntityLock.Lock()
	defer w.unlockAndFlush()

	w.timeScale = scale
	w.Publish(event.NewSimulationEvent(event.TimeScaleChanged, w, w.paused, scale))
	return nil
}

// TimeScale returns the current time scale
func (w *World) TimeScale() float64 {
	w.EntityLock.RLock()
	defer w.EntityLock.RUnlock()

	return w.timeScale
}

func playerName(p *entity.Player) string {
	if p == nil {
		return ""
	}
	return p.Name
}
