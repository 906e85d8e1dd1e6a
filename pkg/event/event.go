// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	ShipCreated       Type = "ship_created"
	ShipDestroyed     Type = "ship_destroyed"
	ShipDamaged       Type = "ship_damaged"
	ModuleEquipped    Type = "module_equipped"
	ModuleLeveledUp   Type = "module_leveled_up"
	SimulationPaused  Type = "simulation_paused"
	SimulationResumed Type = "simulation_resumed"
	SelectionChanged  Type = "selection_changed"
	MovementTargetSet Type = "movement_target_set"
	TimeScaleChanged  Type = "time_scale_changed"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription is returned by Subscribe. Cancel removes the handler.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[eventType]) == 0 {
		delete(b.handlers, eventType)
	}
}

// Publish sends an event to all subscribed handlers.
// Handlers run synchronously on the publishing goroutine.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// Specific event implementations

// ShipEvent contains information about ship-related events
type ShipEvent struct {
	BaseEvent
	ShipID uint64
	Player string
}

// NewShipEvent creates a new ship event
func NewShipEvent(eventType Type, source interface{}, shipID uint64, player string) *ShipEvent {
	return &ShipEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		ShipID: shipID,
		Player: player,
	}
}

// DamageEvent is published when a ship processes a TakeDamage order
type DamageEvent struct {
	BaseEvent
	ShipID      uint64
	Amount      float64
	TotalDamage float64
}

// NewDamageEvent creates a new damage event
func NewDamageEvent(source interface{}, shipID uint64, amount, total float64) *DamageEvent {
	return &DamageEvent{
		BaseEvent: BaseEvent{
			EventType: ShipDamaged,
			Source:    source,
		},
		ShipID:      shipID,
		Amount:      amount,
		TotalDamage: total,
	}
}

// ModuleEvent contains information about module changes on a ship
type ModuleEvent struct {
	BaseEvent
	ShipID     uint64
	ModuleID   uint64
	ModuleType string
	Level      int
}

// NewModuleEvent creates a new module event
func NewModuleEvent(eventType Type, source interface{}, shipID, moduleID uint64, moduleType string, level int) *ModuleEvent {
	return &ModuleEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		ShipID:     shipID,
		ModuleID:   moduleID,
		ModuleType: moduleType,
		Level:      level,
	}
}

// SimulationEvent reports pause and time scale changes
type SimulationEvent struct {
	BaseEvent
	Paused    bool
	TimeScale float64
}

// NewSimulationEvent creates a new simulation event
func NewSimulationEvent(eventType Type, source interface{}, paused bool, timeScale float64) *SimulationEvent {
	return &SimulationEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Paused:    paused,
		TimeScale: timeScale,
	}
}

// SelectionEvent carries the selected ship ids after a selection change
type SelectionEvent struct {
	BaseEvent
	ShipIDs []uint64
}

// NewSelectionEvent creates a new selection event
func NewSelectionEvent(source interface{}, shipIDs []uint64) *SelectionEvent {
	return &SelectionEvent{
		BaseEvent: BaseEvent{
			EventType: SelectionChanged,
			Source:    source,
		},
		ShipIDs: shipIDs,
	}
}

// TargetEvent is published when a ship receives a movement target
type TargetEvent struct {
	BaseEvent
	ShipID  uint64
	TargetX float64
	TargetY float64
}

// NewTargetEvent creates a new movement target event
func NewTargetEvent(source interface{}, shipID uint64, x, y float64) *TargetEvent {
	return &TargetEvent{
		BaseEvent: BaseEvent{
			EventType: MovementTargetSet,
			Source:    source,
		},
		ShipID:  shipID,
		TargetX: x,
		TargetY: y,
	}
}
