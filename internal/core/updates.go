package core

import (
	"context"
	"errors"
	"fmt"

	"sanctuary/pkg/domain"
)

// UpdateHealthStatus applies a new health status. A resident that turns unhealthy while
// living in an enclosure is moved to the first vacant isolation cage. When no cage is
// free the resident is evicted anyway and the returned CapacityExhausted error names the
// enclosure it left; the eviction is committed.
func (e *PlacementEngine) UpdateHealthStatus(ctx context.Context, id ResidentID, status HealthStatus) error {
	const op = "update health status"
	err := e.run(ctx, op, func(tx *Transaction) error {
		if err := e.validateValue(op, "health status", status, "required,enum"); err != nil {
			return err
		}
		r, err := tx.resident(id)
		if err != nil {
			return err
		}
		r.Health = status
		r = tx.update(r, "health="+string(status))
		if r.Healthy() {
			return nil
		}

		current, housed := tx.registry().Locate(r.ID)
		if !housed || current.Kind() != KindEnclosure {
			return nil
		}
		enclosureID := current.ID()
		if _, err := moveToIsolation(tx, r); err != nil {
			if !errors.Is(err, domain.ErrCapacityExhausted) {
				return err
			}
			return tx.strand(r, enclosureID, "unhealthy resident cannot stay in an enclosure and no isolation cage is free")
		}
		return nil
	})
	if from, stranded := domain.EvictedFrom(err); stranded {
		e.logger.Warn("resident evicted without a new home", "operation", op, "resident", id, "from", from)
	}
	return err
}

// UpdateSize grows a resident. Sizes never shrink. A resident whose enclosure can no
// longer hold it is moved to another enclosure of its species with room, or evicted with
// a CapacityExhausted error when none exists. Residents in isolation stay put.
func (e *PlacementEngine) UpdateSize(ctx context.Context, id ResidentID, size Size) error {
	const op = "update size"
	err := e.run(ctx, op, func(tx *Transaction) error {
		if err := e.validateValue(op, "size", size, "required,enum"); err != nil {
			return err
		}
		r, err := tx.resident(id)
		if err != nil {
			return err
		}
		oldSpace, newSpace := r.Space(), size.Space()
		if newSpace < oldSpace {
			return &PlacementError{Op: op, Kind: domain.ErrValidation, ResidentID: r.ID, Reason: fmt.Sprintf("size cannot shrink from %s to %s", r.Size, size)}
		}
		if r.Size == size {
			e.logger.Debug("size unchanged", "resident", r.ID, "size", size)
			return nil
		}

		var outgrown UnitID
		if current, housed := tx.registry().Locate(r.ID); housed {
			if enc, ok := current.(*domain.Enclosure); ok && enc.RemainingCapacity() < newSpace-oldSpace {
				outgrown = enc.ID()
			}
		}
		r.Size = size
		r = tx.update(r, "size="+string(size))
		if outgrown == "" {
			return nil
		}
		if _, err := moveToEnclosure(tx, r); err != nil {
			if !errors.Is(err, domain.ErrCapacityExhausted) {
				return err
			}
			return tx.strand(r, outgrown, "resident outgrew its enclosure and no other enclosure has room")
		}
		return nil
	})
	if from, stranded := domain.EvictedFrom(err); stranded {
		e.logger.Warn("resident evicted without a new home", "operation", op, "resident", id, "from", from)
	}
	return err
}

// UpdateWeight sets a new positive weight.
func (e *PlacementEngine) UpdateWeight(ctx context.Context, id ResidentID, weight float64) error {
	const op = "update weight"
	return e.run(ctx, op, func(tx *Transaction) error {
		if err := e.validateValue(op, "weight", weight, "gt=0"); err != nil {
			return err
		}
		r, err := tx.resident(id)
		if err != nil {
			return err
		}
		r.Weight = weight
		tx.update(r, fmt.Sprintf("weight=%g", weight))
		return nil
	})
}

// UpdateAge sets a new age. Ages never decrease.
func (e *PlacementEngine) UpdateAge(ctx context.Context, id ResidentID, age int) error {
	const op = "update age"
	return e.run(ctx, op, func(tx *Transaction) error {
		r, err := tx.resident(id)
		if err != nil {
			return err
		}
		if age < r.Age {
			return &PlacementError{Op: op, Kind: domain.ErrValidation, ResidentID: r.ID, Reason: fmt.Sprintf("age cannot decrease from %d to %d", r.Age, age)}
		}
		r.Age = age
		tx.update(r, fmt.Sprintf("age=%d", age))
		return nil
	})
}

// UpdateFavoriteFood sets a new favorite food.
func (e *PlacementEngine) UpdateFavoriteFood(ctx context.Context, id ResidentID, food FavoriteFood) error {
	const op = "update favorite food"
	return e.run(ctx, op, func(tx *Transaction) error {
		if err := e.validateValue(op, "favorite food", food, "required,enum"); err != nil {
			return err
		}
		r, err := tx.resident(id)
		if err != nil {
			return err
		}
		r.FavoriteFood = food
		tx.update(r, "favorite_food="+string(food))
		return nil
	})
}
