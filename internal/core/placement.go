package core

import (
	"context"

	"sanctuary/pkg/domain"
)

// Admit registers a new resident and places it in an isolation cage. New residents
// never go straight into an enclosure.
//
// When preferredIsolation is non-empty it must name a vacant isolation cage; there is no
// fallback to another cage. Otherwise the first vacant cage in registry order is used.
func (e *PlacementEngine) Admit(ctx context.Context, attrs ResidentAttributes, preferredIsolation UnitID) (Resident, HousingUnit, error) {
	const op = "admit"
	var (
		admitted Resident
		unit     HousingUnit
	)
	err := e.run(ctx, op, func(tx *Transaction) error {
		if err := e.validateAttributes(op, attrs); err != nil {
			return err
		}
		if _, ok := tx.registry().FirstAvailableIsolation(Resident{}); !ok {
			return newError(op, domain.ErrCapacityExhausted, "no isolation cage is free; the resident needs a home through an exchange agreement")
		}

		var dest HousingUnit
		if preferredIsolation != "" {
			u, err := tx.registry().FindByID(preferredIsolation)
			if err != nil {
				return &PlacementError{Op: op, Kind: domain.ErrValidation, UnitID: preferredIsolation, Reason: "requested isolation cage does not exist"}
			}
			if u.Kind() != KindIsolation {
				return &PlacementError{Op: op, Kind: domain.ErrValidation, UnitID: preferredIsolation, Reason: "requested unit is not an isolation cage"}
			}
			if !u.IsAvailableFor(Resident{}) {
				return &PlacementError{Op: op, Kind: domain.ErrOccupied, UnitID: preferredIsolation, Reason: "requested isolation cage already has an occupant"}
			}
			dest = u
		}

		r := domain.NewResident(e.ids.NewResidentID(), attrs, tx.now)
		if dest == nil {
			dest, _ = tx.registry().FirstAvailableIsolation(r)
		}
		if err := tx.admit(r, dest); err != nil {
			return err
		}
		admitted, unit = r, dest.Clone()
		return nil
	})
	if err != nil {
		return Resident{}, nil, err
	}
	e.logger.Info("resident admitted", "resident", admitted.ID, "name", admitted.Name, "species", admitted.Species, "unit", unit.ID())
	return admitted, unit, nil
}

// MoveToIsolation moves the resident into the first vacant isolation cage.
func (e *PlacementEngine) MoveToIsolation(ctx context.Context, id ResidentID) (HousingUnit, error) {
	const op = "move to isolation"
	var unit HousingUnit
	err := e.run(ctx, op, func(tx *Transaction) error {
		r, err := tx.resident(id)
		if err != nil {
			return err
		}
		dest, err := moveToIsolation(tx, r)
		if err != nil {
			return err
		}
		unit = dest.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("resident moved", "resident", id, "unit", unit.ID(), "kind", unit.Kind())
	return unit, nil
}

// MoveToEnclosure moves a healthy resident into the first enclosure that accepts it.
func (e *PlacementEngine) MoveToEnclosure(ctx context.Context, id ResidentID) (HousingUnit, error) {
	const op = "move to enclosure"
	var unit HousingUnit
	err := e.run(ctx, op, func(tx *Transaction) error {
		r, err := tx.resident(id)
		if err != nil {
			return err
		}
		dest, err := moveToEnclosure(tx, r)
		if err != nil {
			return err
		}
		unit = dest.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("resident moved", "resident", id, "unit", unit.ID(), "kind", unit.Kind())
	return unit, nil
}

// MoveTo relocates the resident into an explicit unit.
func (e *PlacementEngine) MoveTo(ctx context.Context, unitID UnitID, id ResidentID) error {
	const op = "move"
	err := e.run(ctx, op, func(tx *Transaction) error {
		if unitID == "" {
			return newError(op, domain.ErrValidation, "unit id is required")
		}
		r, err := tx.resident(id)
		if err != nil {
			return err
		}
		target, err := tx.registry().FindByID(unitID)
		if err != nil {
			return unitNotFound(op, unitID)
		}
		if target.Kind() == KindEnclosure && !r.Healthy() {
			return &PlacementError{Op: op, Kind: domain.ErrHealthRestriction, ResidentID: r.ID, UnitID: unitID, Reason: "only healthy residents may live in an enclosure"}
		}
		if !target.IsAvailableFor(r) {
			return &PlacementError{Op: op, Kind: domain.ErrUnavailable, ResidentID: r.ID, UnitID: unitID, Reason: "unit cannot take this resident"}
		}
		return tx.relocate(r, target)
	})
	if err != nil {
		return err
	}
	e.logger.Info("resident moved", "resident", id, "unit", unitID)
	return nil
}

// Remove evicts the resident and files a frozen snapshot in the alumni list.
func (e *PlacementEngine) Remove(ctx context.Context, id ResidentID) error {
	const op = "remove"
	err := e.run(ctx, op, func(tx *Transaction) error {
		r, err := tx.resident(id)
		if err != nil {
			return err
		}
		from, _ := tx.evict(r.ID)
		tx.directory().Retire(AlumniRecord{Resident: r, LastUnit: from, RemovedAt: tx.now})
		tx.recordChange(Change{Action: ActionRemove, ResidentID: r.ID, From: from})
		return nil
	})
	if err != nil {
		return err
	}
	e.logger.Info("resident removed", "resident", id)
	return nil
}

// AddCapacity appends new enclosures and isolation cages to the registry.
func (e *PlacementEngine) AddCapacity(ctx context.Context, newIsolationCount, newEnclosureCount int, newEnclosureCapacities []int) error {
	const op = "add capacity"
	err := e.run(ctx, op, func(tx *Transaction) error {
		if err := tx.registry().Grow(newIsolationCount, newEnclosureCount, newEnclosureCapacities); err != nil {
			return err
		}
		tx.recordChange(Change{Action: ActionGrow})
		return nil
	})
	if err != nil {
		return err
	}
	e.logger.Info("capacity added", "isolation_cages", newIsolationCount, "enclosures", newEnclosureCount)
	return nil
}

func moveToIsolation(tx *Transaction, r Resident) (HousingUnit, error) {
	dest, ok := tx.registry().FirstAvailableIsolation(r)
	if !ok {
		return nil, &PlacementError{Op: tx.op, Kind: domain.ErrCapacityExhausted, ResidentID: r.ID, Reason: "no isolation cage is free"}
	}
	if err := tx.relocate(r, dest); err != nil {
		return nil, err
	}
	return dest, nil
}

func moveToEnclosure(tx *Transaction, r Resident) (HousingUnit, error) {
	if !r.Healthy() {
		return nil, &PlacementError{Op: tx.op, Kind: domain.ErrHealthRestriction, ResidentID: r.ID, Reason: "only healthy residents may live in an enclosure"}
	}
	dest, ok := tx.registry().FirstAvailableEnclosure(r)
	if !ok {
		return nil, &PlacementError{Op: tx.op, Kind: domain.ErrCapacityExhausted, ResidentID: r.ID, Reason: "no enclosure has room for this resident"}
	}
	if err := tx.relocate(r, dest); err != nil {
		return nil, err
	}
	return dest, nil
}
