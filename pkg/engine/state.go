package engine

import (
	"github.com/opd-ai/go-morph/pkg/entity"
	"github.com/opd-ai/go-morph/pkg/physics"
)

// WorldState represents a snapshot of the world
type WorldState struct {
	Tick      uint64
	Elapsed   float64
	Paused    bool
	TimeScale float64
	Ships     []ShipState
	Selected  []entity.ID
	Particles int
	Destroyed uint64
}

// ShipState represents a snapshot of a ship's state
type ShipState struct {
	ID               entity.ID
	Player           string
	PlayerType       string
	Position         physics.Vector3
	Velocity         physics.Vector3
	Heading          float64
	Mass             float64
	Radius           float64
	Energy           float64
	Damage           float64
	MaxDamage        float64
	MaxSpeed         float64
	MaxSteeringForce float64
	RealAccel        float64
	Selected         bool
	Target           *physics.Vector3
	Modules          []ModuleState
	Behaviors        []string
	Trail            []physics.Vector3
}

// ModuleState represents a snapshot of an equipped module
type ModuleState struct {
	ID         uint64
	Type       string
	Level      int
	Experience float64
}

// State returns a snapshot of the current world state
func (w *World) State() *WorldState {
	w.EntityLock.RLock()
	defer w.EntityLock.RUnlock()

	return &WorldState{
		Tick:      w.CurrentTick,
		Elapsed:   w.ElapsedTime,
		Paused:    w.paused,
		TimeScale: w.timeScale,
		Ships:     w.getShipStates(),
		Selected:  w.selectedIDs(),
		Particles: w.particles.Len(),
		Destroyed: w.destroyed,
	}
}

// getShipStates creates a snapshot of the current ship states in id order.
func (w *World) getShipStates() []ShipState {
	states := make([]ShipState, 0, len(w.order))
	for _, id := range w.order {
		ship := w.ships[id]
		if !ship.Active {
			continue
		}

		state := ShipState{
			ID:               id,
			Position:         ship.GetPosition(),
			Velocity:         ship.GetVelocity(),
			Heading:          ship.GetHeading(),
			Mass:             ship.GetMass(),
			Radius:           ship.GetCollider().Radius,
			Energy:           ship.GetEnergy(),
			Damage:           ship.GetDamage(),
			MaxDamage:        ship.GetMaxDamage(),
			MaxSpeed:         ship.GetMaxSpeed(),
			MaxSteeringForce: ship.GetMaxSteeringForce(),
			RealAccel:        ship.RealAccelModulus(),
			Selected:         ship.IsSelected(),
			Trail:            ship.Trail(),
		}
		if p := ship.GetPlayer(); p != nil {
			state.Player = p.Name
			state.PlayerType = p.Type.String()
		}
		if target, ok := ship.MovementTarget(); ok {
			state.Target = &target
		}
		for _, m := range ship.Modules() {
			state.Modules = append(state.Modules, ModuleState{
				ID:         m.ID,
				Type:       m.Type.String(),
				Level:      m.Level,
				Experience: m.Experience,
			})
		}
		for _, b := range ship.Behaviors() {
			state.Behaviors = append(state.Behaviors, b.Class())
		}
		states = append(states, state)
	}
	return states
}
