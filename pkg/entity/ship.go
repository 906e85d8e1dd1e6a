// pkg/entity/ship.go
package entity

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/opd-ai/go-morph/pkg/behavior"
	"github.com/opd-ai/go-morph/pkg/behavior/field"
	"github.com/opd-ai/go-morph/pkg/behavior/steering"
	"github.com/opd-ai/go-morph/pkg/event"
	"github.com/opd-ai/go-morph/pkg/logging"
	"github.com/opd-ai/go-morph/pkg/module"
	"github.com/opd-ai/go-morph/pkg/particle"
	"github.com/opd-ai/go-morph/pkg/physics"
)

// TrailLength is the number of past positions kept for rendering
const TrailLength = 20

// ErrInvalidMass is returned when a ship is built with a non-positive mass
var ErrInvalidMass = errors.New("ship mass must be positive")

// ShipConfig holds the tunables shared by every ship of a world
type ShipConfig struct {
	InitialEnergy float64
	// MaxEnergy caps energy; 0 leaves it uncapped
	MaxEnergy float64
	MaxDamage float64
	// TurnRatePerMass is K in maxAngleSpeed = K / mass (degrees per second)
	TurnRatePerMass float64
	// TrailInterval is the simulated time between trail samples (seconds)
	TrailInterval        float64
	RadiusPerMass        float64
	StarsEnergyPerSecond float64
	Propulsor            module.PropulsorParams
	Progression          module.Progression
	Seek                 steering.SeekConfig
	Wander               steering.WanderConfig
}

// DefaultShipConfig returns the stock ship tunables
func DefaultShipConfig() ShipConfig {
	return ShipConfig{
		InitialEnergy:        100,
		MaxEnergy:            0,
		MaxDamage:            10,
		TurnRatePerMass:      1800,
		TrailInterval:        0.05,
		RadiusPerMass:        1.6,
		StarsEnergyPerSecond: 1,
		Propulsor: module.PropulsorParams{
			MaxForce:               400,
			MaxForceFactorPerLevel: 1.1,
			MaxSpeed:               100,
			MaxSpeedFactorPerLevel: 1.1,
			StackingPenalty:        0.75,
		},
		Progression: module.Progression{XPPerLevel: 100, MaxLevel: 10},
		Seek: steering.SeekConfig{
			SlowingRadius:      50,
			ArrivalTolerance:   0.5,
			StopSpeed:          0.1,
			EnergyPerForceUnit: 0.01,
			XPPerEnergy:        1,
		},
		Wander: steering.WanderConfig{
			FocusDistance:      100,
			Radius:             10,
			Jitter:             steering.DefaultJitter,
			EnergyPerForceUnit: 0.01,
			XPPerEnergy:        1,
		},
	}
}

// Environment is what a ship needs from the world it lives in
type Environment interface {
	particle.Emitter
	RemoveEntity(id ID)
	Publish(e event.Event)
}

type nopEnvironment struct{}

func (nopEnvironment) Emit(physics.Vector3, physics.Vector3, particle.Spec) {}
func (nopEnvironment) RemoveEntity(ID)                                      {}
func (nopEnvironment) Publish(event.Event)                                  {}

// ShipOption customises NewShip
type ShipOption func(*Ship)

// WithIDs makes the ship take its id (and module ids) from g
func WithIDs(g *IDGenerator) ShipOption {
	return func(s *Ship) { s.ids = g }
}

// WithEnvironment connects the ship to its world
func WithEnvironment(env Environment) ShipOption {
	return func(s *Ship) { s.env = env }
}

// WithRand sets the random source used for particle bursts and wander
func WithRand(rng *rand.Rand) ShipOption {
	return func(s *Ship) { s.rng = rng }
}

// WithLogger sets the ship's logger
func WithLogger(l *logging.Logger) ShipOption {
	return func(s *Ship) { s.logger = l }
}

// Ship is a player-owned vessel moved by its behaviors
type Ship struct {
	BaseEntity

	acceleration     physics.Vector3
	netForce         physics.Vector3
	steeringForce    physics.Vector3
	heading          float64
	mass             float64
	energy           float64
	damage           float64
	maxSteeringForce float64
	maxSpeed         float64
	realAccelModulus float64

	player    *Player
	modules   *module.Loadout
	behaviors *behavior.Set
	orders    []Order

	trail        [TrailLength]physics.Vector3
	trailLen     int
	trailElapsed float64

	dead      bool
	dieIssued bool

	cfg    ShipConfig
	ids    *IDGenerator
	env    Environment
	rng    *rand.Rand
	logger *logging.Logger
}

// NewShip creates a ship at position facing heading (degrees from north).
// A StarsContribution behavior is attached when the config grants energy.
func NewShip(position physics.Vector3, heading, mass float64, player *Player, cfg ShipConfig, opts ...ShipOption) (*Ship, error) {
	if mass <= 0 {
		return nil, ErrInvalidMass
	}

	s := &Ship{
		heading: physics.NormalizeAngle(heading),
		mass:    mass,
		energy:  cfg.InitialEnergy,
		player:  player,
		modules: module.NewLoadout(),
		cfg:     cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = DefaultIDs
	}
	if s.env == nil {
		s.env = nopEnvironment{}
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}

	s.BaseEntity = BaseEntity{
		ID:       s.ids.Next(),
		Position: position,
		Collider: physics.Circle{Center: position, Radius: mass * cfg.RadiusPerMass},
		Active:   true,
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(uint64(s.ID), 0x6d6f727068))
	}
	s.behaviors = behavior.NewSet(s.logger)

	if cfg.StarsEnergyPerSecond > 0 {
		s.AddBehavior(field.NewStarsContribution(s, cfg.StarsEnergyPerSecond).Behavior())
	}

	return s, nil
}

// Update runs one simulation tick of dt seconds. dt == 0 is a no-op.
func (s *Ship) Update(dt float64) {
	if dt <= 0 || s.dead {
		return
	}

	s.acceleration.Nullify()
	s.netForce.Nullify()
	s.steeringForce.Nullify()

	if s.player != nil && s.player.Type == AI && s.player.Pilot != nil {
		s.player.Pilot.Think(s, dt)
	}

	for _, b := range s.behaviors.Snapshot() {
		if !b.IsActive() {
			continue
		}
		b.Run(dt)

		switch b.Kind() {
		case behavior.Movement:
			steerer := b.Steerer()
			if steerer.ConsumeEnergy() {
				force := steerer.SteeringForce()
				s.steeringForce.Add(force)
				s.netForce.Add(force)
				steerer.RewardModules()
			}
		case behavior.ForceGenerating:
			s.netForce.Add(b.ForceSource().NonSteeringForce())
		case behavior.Passive:
		}
	}

	s.rotate(dt)

	realAccel := physics.Integrate(&s.Position, &s.Velocity, &s.acceleration, s.netForce, s.maxSpeed, dt)
	s.realAccelModulus = realAccel.Modulus()
	s.Collider.Center = s.Position

	s.drainOrders()
	s.updateTrail(dt)
	s.behaviors.Commit()
}

func (s *Ship) rotate(dt float64) {
	if s.steeringForce.Modulus() < physics.MinHeadingForce {
		return
	}
	target := physics.TargetHeading(s.steeringForce, s.Velocity, s.maxSteeringForce, s.mass)
	s.heading = physics.TurnToward(s.heading, target, s.cfg.TurnRatePerMass/s.mass, dt)
}

// FireOrder queues an order for the next drain. Only the first Die order
// is kept.
func (s *Ship) FireOrder(o Order) {
	if o.Kind == Die {
		if s.dieIssued {
			return
		}
		s.dieIssued = true
	}
	s.orders = append(s.orders, o)
}

func (s *Ship) drainOrders() {
	orders := s.orders
	s.orders = nil
	for _, o := range orders {
		s.handleOrder(o)
	}
}

func (s *Ship) handleOrder(o Order) {
	ctx := context.Background()

	switch o.Kind {
	case TakeDamage:
		if o.Amount < 0 {
			s.logger.Warn(ctx, "negative damage ignored", "ship_id", s.ID, "amount", o.Amount)
			return
		}
		s.damage += o.Amount
		s.env.Publish(event.NewDamageEvent(s, uint64(s.ID), o.Amount, s.damage))
		particle.DamageBurst(s.env, s.rng, s.Position, s.Velocity)
		if s.damage > s.cfg.MaxDamage {
			s.FireOrder(NewDie())
		}
		s.logger.Debug(ctx, "ship damaged", "ship_id", s.ID, "damage", s.damage)

	case Die:
		if s.dead {
			return
		}
		s.dead = true
		s.Active = false
		particle.ExplosionBurst(s.env, s.rng, s.Position, s.Velocity)
		s.env.Publish(event.NewShipEvent(event.ShipDestroyed, s, uint64(s.ID), s.playerName()))
		s.env.RemoveEntity(s.ID)
		s.logger.Info(ctx, "ship destroyed", "ship_id", s.ID)
	}
}

func (s *Ship) updateTrail(dt float64) {
	s.trailElapsed += dt
	if s.trailLen > 0 && s.trailElapsed < s.cfg.TrailInterval {
		return
	}

	copy(s.trail[1:], s.trail[:TrailLength-1])
	s.trail[0] = s.Position
	if s.trailLen < TrailLength {
		s.trailLen++
	}

	s.trailElapsed -= s.cfg.TrailInterval
	if s.trailElapsed < 0 || s.trailElapsed >= s.cfg.TrailInterval {
		s.trailElapsed = 0
	}
}

// Render draws the ship
func (s *Ship) Render(r Renderer) {
	r.RenderShip(s)
}

// DebugDraw hands the debug overlay of every active behavior to canvas
func (s *Ship) DebugDraw(canvas behavior.DebugCanvas) {
	for _, b := range s.behaviors.Snapshot() {
		if drawer, ok := b.Payload().(behavior.DebugDrawer); ok && b.IsActive() {
			drawer.DebugDraw(canvas)
		}
	}
}

// AddBehavior queues b for attachment at the end of the current tick.
// A behavior whose required module types are not all equipped is silently
// rejected; use HasBehavior to check.
func (s *Ship) AddBehavior(b *behavior.Behavior) {
	if b == nil {
		s.logger.Error(context.Background(), "nil behavior ignored", nil, "ship_id", s.ID)
		return
	}
	if !b.NeedsMet(s.HasModuleType) {
		s.logger.Debug(context.Background(), "behavior rejected, missing modules",
			"ship_id", s.ID, "behavior", b.String())
		return
	}
	s.behaviors.Add(b)
}

// RemoveBehavior queues b for removal at the end of the current tick
func (s *Ship) RemoveBehavior(b *behavior.Behavior) {
	s.behaviors.Remove(b)
}

// RemoveBehaviorsByClass queues removal of every behavior of class
func (s *Ship) RemoveBehaviorsByClass(class string) {
	s.behaviors.RemoveClass(class)
}

// HasBehavior reports whether b is attached or waiting to be attached
func (s *Ship) HasBehavior(b *behavior.Behavior) bool {
	return s.behaviors.Contains(b)
}

// BehaviorByClass returns an attached or pending behavior of class
func (s *Ship) BehaviorByClass(class string) *behavior.Behavior {
	return s.behaviors.FindClass(class)
}

// Behaviors returns a snapshot of the active behaviors
func (s *Ship) Behaviors() []*behavior.Behavior {
	return s.behaviors.Snapshot()
}

// SetMovementTarget points the ship's seek behavior at target, attaching
// one if needed. It returns false when the ship cannot seek.
func (s *Ship) SetMovementTarget(target physics.Vector3) bool {
	if b := s.BehaviorByClass(steering.SeekClass); b != nil {
		if seek, ok := b.Payload().(*steering.Seek); ok {
			seek.SetTarget(target)
			return true
		}
	}

	seek := steering.NewSeek(s, s.cfg.Seek)
	s.AddBehavior(seek.Behavior())
	if !s.HasBehavior(seek.Behavior()) {
		return false
	}
	seek.SetTarget(target)
	return true
}

// MovementTarget returns the destination of the ship's seek behavior, if any
func (s *Ship) MovementTarget() (physics.Vector3, bool) {
	b := s.BehaviorByClass(steering.SeekClass)
	if b == nil {
		return physics.Vector3{}, false
	}
	seek, ok := b.Payload().(*steering.Seek)
	if !ok {
		return physics.Vector3{}, false
	}
	return seek.Target()
}

// StartWander attaches a wander behavior driven by the ship's random source
func (s *Ship) StartWander() bool {
	w := steering.NewWander(s, s.rng, s.cfg.Wander)
	s.AddBehavior(w.Behavior())
	return s.HasBehavior(w.Behavior())
}

// AddModule equips a new module of type t and returns it
func (s *Ship) AddModule(t module.Type, level int) *module.Module {
	m := module.New(uint64(s.ids.Next()), t, level)
	s.EquipModule(m)
	return m
}

// EquipModule equips m and recomputes the derived caps
func (s *Ship) EquipModule(m *module.Module) {
	if m == nil {
		return
	}
	s.modules.Add(m)
	s.updateCaps()
	s.env.Publish(event.NewModuleEvent(event.ModuleEquipped, s, uint64(s.ID), m.ID, m.Type.String(), m.Level))
}

// HasModuleType reports whether a module of type t is equipped
func (s *Ship) HasModuleType(t module.Type) bool {
	return s.modules.HasType(t)
}

// Modules returns the equipped modules sorted by id
func (s *Ship) Modules() []*module.Module {
	return s.modules.All()
}

// RewardModules shares experience between the modules of type t and
// recomputes caps when one of them levels up
func (s *Ship) RewardModules(t module.Type, experience float64) {
	mods := s.modules.ByType(t)
	if len(mods) == 0 || experience <= 0 {
		return
	}
	share := experience / float64(len(mods))
	leveled := false
	for _, m := range mods {
		if m.AddExperience(share, s.cfg.Progression) {
			leveled = true
			s.env.Publish(event.NewModuleEvent(event.ModuleLeveledUp, s, uint64(s.ID), m.ID, m.Type.String(), m.Level))
		}
	}
	if leveled {
		s.updateCaps()
	}
}

func (s *Ship) updateCaps() {
	caps := s.modules.Caps(s.cfg.Propulsor)
	s.maxSteeringForce = caps.MaxSteeringForce
	s.maxSpeed = caps.MaxSpeed
}

// ConsumeEnergy takes amount from the ship's energy if enough is available
func (s *Ship) ConsumeEnergy(amount float64) bool {
	if amount < 0 {
		return false
	}
	if s.energy < amount {
		return false
	}
	s.energy -= amount
	return true
}

// AddEnergy adds amount, honouring MaxEnergy when set
func (s *Ship) AddEnergy(amount float64) {
	s.energy += amount
	if s.energy < 0 {
		s.energy = 0
	}
	if s.cfg.MaxEnergy > 0 && s.energy > s.cfg.MaxEnergy {
		s.energy = s.cfg.MaxEnergy
	}
}

func (s *Ship) playerName() string {
	if s.player == nil {
		return ""
	}
	return s.player.Name
}

// GetHeading returns the heading in degrees, [0, 360)
func (s *Ship) GetHeading() float64 { return s.heading }

// GetMass returns the ship's mass
func (s *Ship) GetMass() float64 { return s.mass }

// GetEnergy returns the available energy
func (s *Ship) GetEnergy() float64 { return s.energy }

// GetDamage returns the cumulative damage
func (s *Ship) GetDamage() float64 { return s.damage }

// GetMaxDamage returns the damage threshold above which the ship dies
func (s *Ship) GetMaxDamage() float64 { return s.cfg.MaxDamage }

// GetMaxSteeringForce returns the propulsor-derived force cap
func (s *Ship) GetMaxSteeringForce() float64 { return s.maxSteeringForce }

// GetMaxSpeed returns the propulsor-derived speed cap
func (s *Ship) GetMaxSpeed() float64 { return s.maxSpeed }

// GetAcceleration returns the acceleration of the last tick
func (s *Ship) GetAcceleration() physics.Vector3 { return s.acceleration }

// SteeringForce returns the net steering force of the last tick
func (s *Ship) SteeringForce() physics.Vector3 { return s.steeringForce }

// NetForce returns the net force of the last tick
func (s *Ship) NetForce() physics.Vector3 { return s.netForce }

// RealAccelModulus returns |old velocity - new velocity| of the last tick
func (s *Ship) RealAccelModulus() float64 { return s.realAccelModulus }

// GetPlayer returns the owning player
func (s *Ship) GetPlayer() *Player { return s.player }

// IsDead reports whether a Die order has been processed
func (s *Ship) IsDead() bool { return s.dead }

// DieIssued reports whether a Die order has been queued
func (s *Ship) DieIssued() bool { return s.dieIssued }

// PendingOrders returns the number of orders waiting for the next drain
func (s *Ship) PendingOrders() int { return len(s.orders) }

// Trail returns the recorded positions, newest first
func (s *Ship) Trail() []physics.Vector3 {
	out := make([]physics.Vector3, s.trailLen)
	copy(out, s.trail[:s.trailLen])
	return out
}
