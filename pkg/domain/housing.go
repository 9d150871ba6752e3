package domain

import "fmt"

// HousingUnit is the capability contract shared by enclosures and isolation cages.
// The set of implementations is closed; switch on Kind only where capacity or species
// semantics genuinely differ.
//
// Admit, Evict and Replace mutate the unit and are meant for the placement engine,
// which owns invariant checking. Units handed out by queries are copies.
type HousingUnit interface {
	ID() UnitID
	Kind() UnitKind
	// Residents returns the occupants in insertion order; never nil.
	Residents() []Resident
	// OccupiedSpecies reports the species housed, false when vacant.
	OccupiedSpecies() (Species, bool)
	IsAvailableFor(candidate Resident) bool
	Holds(id ResidentID) bool
	Admit(r Resident) error
	Evict(id ResidentID) bool
	// Replace swaps the stored copy of an occupant after an attribute update.
	Replace(r Resident) bool
	Clone() HousingUnit
	sealed()
}

// Enclosure is a multi-occupant unit bound by species homogeneity and spatial capacity.
type Enclosure struct {
	id        UnitID
	capacity  int
	residents []Resident
}

// NewEnclosure constructs a vacant enclosure with a fixed capacity in square meters.
func NewEnclosure(id UnitID, capacity int) *Enclosure {
	return &Enclosure{id: id, capacity: capacity, residents: []Resident{}}
}

func (e *Enclosure) ID() UnitID     { return e.id }
func (e *Enclosure) Kind() UnitKind { return KindEnclosure }
func (e *Enclosure) Capacity() int  { return e.capacity }
func (*Enclosure) sealed()          {}

func (e *Enclosure) Residents() []Resident {
	out := make([]Resident, len(e.residents))
	copy(out, e.residents)
	return out
}

func (e *Enclosure) OccupiedSpecies() (Species, bool) {
	if len(e.residents) == 0 {
		return "", false
	}
	return e.residents[0].Species, true
}

// UsedSpace sums the space requirement of every occupant.
func (e *Enclosure) UsedSpace() int {
	used := 0
	for _, r := range e.residents {
		used += r.Space()
	}
	return used
}

// RemainingCapacity is capacity minus used space. It is negative when an occupant grew
// past what the enclosure can hold.
func (e *Enclosure) RemainingCapacity() int {
	return e.capacity - e.UsedSpace()
}

// IsAvailableFor is a greedy first-fit predicate: a vacant enclosure accepts any resident
// that fits on its own, an occupied one accepts the same species while space remains.
func (e *Enclosure) IsAvailableFor(candidate Resident) bool {
	species, occupied := e.OccupiedSpecies()
	if !occupied {
		return candidate.Space() <= e.capacity
	}
	return candidate.Species == species && candidate.Space() <= e.RemainingCapacity()
}

func (e *Enclosure) Holds(id ResidentID) bool {
	return e.indexOf(id) >= 0
}

func (e *Enclosure) Admit(r Resident) error {
	if !e.IsAvailableFor(r) {
		return fmt.Errorf("enclosure %s cannot take resident %s", e.id, r.ID)
	}
	e.residents = append(e.residents, r)
	return nil
}

func (e *Enclosure) Evict(id ResidentID) bool {
	idx := e.indexOf(id)
	if idx < 0 {
		return false
	}
	e.residents = append(e.residents[:idx], e.residents[idx+1:]...)
	return true
}

func (e *Enclosure) Replace(r Resident) bool {
	idx := e.indexOf(r.ID)
	if idx < 0 {
		return false
	}
	e.residents[idx] = r
	return true
}

func (e *Enclosure) Clone() HousingUnit {
	return &Enclosure{id: e.id, capacity: e.capacity, residents: e.Residents()}
}

func (e *Enclosure) indexOf(id ResidentID) int {
	for i, r := range e.residents {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// IsolationCage is a single-occupant unit with no species restriction.
type IsolationCage struct {
	id       UnitID
	occupant *Resident
}

// NewIsolationCage constructs a vacant isolation cage.
func NewIsolationCage(id UnitID) *IsolationCage {
	return &IsolationCage{id: id}
}

func (c *IsolationCage) ID() UnitID     { return c.id }
func (c *IsolationCage) Kind() UnitKind { return KindIsolation }
func (*IsolationCage) sealed()          {}

func (c *IsolationCage) Residents() []Resident {
	if c.occupant == nil {
		return []Resident{}
	}
	return []Resident{*c.occupant}
}

func (c *IsolationCage) OccupiedSpecies() (Species, bool) {
	if c.occupant == nil {
		return "", false
	}
	return c.occupant.Species, true
}

// IsAvailableFor ignores the candidate: a cage is either empty or not.
func (c *IsolationCage) IsAvailableFor(Resident) bool {
	return c.occupant == nil
}

func (c *IsolationCage) Holds(id ResidentID) bool {
	return c.occupant != nil && c.occupant.ID == id
}

func (c *IsolationCage) Admit(r Resident) error {
	if c.occupant != nil {
		return fmt.Errorf("isolation cage %s already holds resident %s", c.id, c.occupant.ID)
	}
	c.occupant = &r
	return nil
}

func (c *IsolationCage) Evict(id ResidentID) bool {
	if !c.Holds(id) {
		return false
	}
	c.occupant = nil
	return true
}

func (c *IsolationCage) Replace(r Resident) bool {
	if !c.Holds(r.ID) {
		return false
	}
	c.occupant = &r
	return true
}

func (c *IsolationCage) Clone() HousingUnit {
	cp := &IsolationCage{id: c.id}
	if c.occupant != nil {
		occupant := *c.occupant
		cp.occupant = &occupant
	}
	return cp
}
