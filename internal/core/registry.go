package core

import (
	"sanctuary/pkg/domain"
)

// HousingRegistry holds housing units in creation order. The initial layout places all
// enclosures before all isolation cages; growth appends and never reorders or shrinks.
type HousingRegistry struct {
	ids   domain.IDGenerator
	units []HousingUnit
}

// RegistryCounts summarizes the registry.
type RegistryCounts struct {
	Enclosures             int
	IsolationCages         int
	OccupiedEnclosures     int
	OccupiedIsolationCages int
}

// NewHousingRegistry builds the initial layout. At least one cage and one enclosure are
// required and every enclosure capacity must be positive.
func NewHousingRegistry(ids domain.IDGenerator, isolationCages int, enclosureCapacities []int) (*HousingRegistry, error) {
	const op = "new registry"
	if isolationCages <= 0 || len(enclosureCapacities) == 0 {
		return nil, newError(op, domain.ErrValidation, "need at least one isolation cage and one enclosure, got %d and %d", isolationCages, len(enclosureCapacities))
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}
	r := &HousingRegistry{ids: ids}
	if err := r.Grow(isolationCages, len(enclosureCapacities), enclosureCapacities); err != nil {
		return nil, err
	}
	return r, nil
}

// List returns copies of every unit in registry order.
func (r *HousingRegistry) List() []HousingUnit {
	out := make([]HousingUnit, 0, len(r.units))
	for _, u := range r.units {
		out = append(out, u.Clone())
	}
	return out
}

// FindByID returns the live unit with the given id.
func (r *HousingRegistry) FindByID(id UnitID) (HousingUnit, error) {
	for _, u := range r.units {
		if u.ID() == id {
			return u, nil
		}
	}
	return nil, unitNotFound("find unit", id)
}

// FirstAvailableEnclosure scans in registry order for an enclosure that accepts candidate.
func (r *HousingRegistry) FirstAvailableEnclosure(candidate Resident) (HousingUnit, bool) {
	return r.firstAvailable(KindEnclosure, candidate)
}

// FirstAvailableIsolation scans in registry order for a vacant isolation cage.
func (r *HousingRegistry) FirstAvailableIsolation(candidate Resident) (HousingUnit, bool) {
	return r.firstAvailable(KindIsolation, candidate)
}

func (r *HousingRegistry) firstAvailable(kind UnitKind, candidate Resident) (HousingUnit, bool) {
	for _, u := range r.units {
		if u.Kind() == kind && u.IsAvailableFor(candidate) {
			return u, true
		}
	}
	return nil, false
}

// Grow appends new enclosures followed by new isolation cages. Existing unit identities
// and order are preserved.
func (r *HousingRegistry) Grow(newIsolationCount, newEnclosureCount int, newEnclosureCapacities []int) error {
	const op = "grow registry"
	if newIsolationCount < 0 || newEnclosureCount < 0 {
		return newError(op, domain.ErrValidation, "unit counts cannot be negative")
	}
	if len(newEnclosureCapacities) != newEnclosureCount {
		return newError(op, domain.ErrValidation, "expected %d enclosure capacities, got %d", newEnclosureCount, len(newEnclosureCapacities))
	}
	for i, capacity := range newEnclosureCapacities {
		if capacity <= 0 {
			return newError(op, domain.ErrValidation, "enclosure capacity at index %d must be positive, got %d", i, capacity)
		}
	}
	for _, capacity := range newEnclosureCapacities {
		r.units = append(r.units, domain.NewEnclosure(r.ids.NewUnitID(KindEnclosure), capacity))
	}
	for i := 0; i < newIsolationCount; i++ {
		r.units = append(r.units, domain.NewIsolationCage(r.ids.NewUnitID(KindIsolation)))
	}
	return nil
}

// Locate returns the unit currently holding the resident.
func (r *HousingRegistry) Locate(id ResidentID) (HousingUnit, bool) {
	for _, u := range r.units {
		if u.Holds(id) {
			return u, true
		}
	}
	return nil, false
}

// Counts reports unit totals and how many units have occupants.
func (r *HousingRegistry) Counts() RegistryCounts {
	var c RegistryCounts
	for _, u := range r.units {
		occupied := len(u.Residents()) > 0
		switch u.Kind() {
		case KindEnclosure:
			c.Enclosures++
			if occupied {
				c.OccupiedEnclosures++
			}
		case KindIsolation:
			c.IsolationCages++
			if occupied {
				c.OccupiedIsolationCages++
			}
		}
	}
	return c
}

func (r *HousingRegistry) clone() *HousingRegistry {
	cp := &HousingRegistry{ids: r.ids, units: make([]HousingUnit, 0, len(r.units))}
	for _, u := range r.units {
		cp.units = append(cp.units, u.Clone())
	}
	return cp
}
