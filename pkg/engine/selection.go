package engine

import (
	"slices"

	"github.com/opd-ai/go-morph/pkg/entity"
	"github.com/opd-ai/go-morph/pkg/event"
	"github.com/opd-ai/go-morph/pkg/physics"
	"github.com/opd-ai/go-morph/pkg/validation"
)

// Select adds ship id to the selection. Without additive the previous
// selection is replaced.
func (w *World) Select(id entity.ID, additive bool) error {
	w.EntityLock.Lock()
	defer w.unlockAndFlush()

	ship, err := w.findShip(id)
	if err != nil {
		return err
	}
	if !additive {
		w.clearSelection()
	}
	w.selected[id] = true
	ship.SetSelected(true)
	w.publishSelection()
	return nil
}

// SelectAt selects the ship whose collider contains point, preferring the
// closest center. A miss clears the selection unless additive is set.
func (w *World) SelectAt(point physics.Vector3, additive bool) (entity.ID, bool) {
	w.EntityLock.Lock()
	defer w.unlockAndFlush()

	var picked *entity.Ship
	best := 0.0
	for _, ship := range w.SpatialIndex.QueryCircle(physics.Circle{Center: point, Radius: w.maxRadius}) {
		if !ship.GetCollider().Contains(point) {
			continue
		}
		d := ship.GetPosition().Distance(point)
		if picked == nil || d < best || (d == best && ship.GetID() < picked.GetID()) {
			picked, best = ship, d
		}
	}

	if !additive {
		w.clearSelection()
	}
	if picked != nil {
		w.selected[picked.GetID()] = true
		picked.SetSelected(true)
	}
	w.publishSelection()

	if picked == nil {
		return 0, false
	}
	return picked.GetID(), true
}

// SelectInRect selects every ship whose position lies in rect and returns
// the ids that were picked
func (w *World) SelectInRect(rect physics.Rect, additive bool) []entity.ID {
	w.EntityLock.Lock()
	defer w.unlockAndFlush()

	if !additive {
		w.clearSelection()
	}
	picked := make([]entity.ID, 0)
	for _, ship := range w.SpatialIndex.Query(rect) {
		w.selected[ship.GetID()] = true
		ship.SetSelected(true)
		picked = append(picked, ship.GetID())
	}
	slices.Sort(picked)
	w.publishSelection()
	return picked
}

// ClearSelection deselects every ship
func (w *World) ClearSelection() {
	w.EntityLock.Lock()
	defer w.unlockAndFlush()

	w.clearSelection()
	w.publishSelection()
}

// SelectedIDs returns the selected ship ids in ascending order
func (w *World) SelectedIDs() []entity.ID {
	w.EntityLock.RLock()
	defer w.EntityLock.RUnlock()

	return w.selectedIDs()
}

// MoveSelectedTo sends every selected ship to target and returns how many
// accepted the order. Ships without propulsion are skipped.
func (w *World) MoveSelectedTo(target physics.Vector3) (int, error) {
	if err := validation.ValidateTarget(target); err != nil {
		return 0, err
	}

	w.EntityLock.Lock()
	defer w.unlockAndFlush()

	moved := 0
	for _, id := range w.selectedIDs() {
		if err := w.setMovementTarget(id, target); err == nil {
			moved++
		}
	}
	return moved, nil
}

func (w *World) clearSelection() {
	for id := range w.selected {
		if ship, ok := w.ships[id]; ok {
			ship.SetSelected(false)
		}
	}
	clear(w.selected)
}

func (w *World) selectedIDs() []entity.ID {
	ids := make([]entity.ID, 0, len(w.selected))
	for id := range w.selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (w *World) publishSelection() {
	ids := w.selectedIDs()
	raw := make([]uint64, len(ids))
	for i, id := range ids {
		raw[i] = uint64(id)
	}
	w.Publish(event.NewSelectionEvent(w, raw))
}
