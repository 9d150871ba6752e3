package core

import (
	"fmt"
	"time"

	"sanctuary/pkg/domain"
)

type placementState struct {
	registry  *HousingRegistry
	directory *ResidentDirectory
}

func (s placementState) clone() placementState {
	return placementState{
		registry:  s.registry.clone(),
		directory: s.directory.clone(),
	}
}

// StateView exposes a read-only snapshot of placement state to rules.
type StateView struct {
	state *placementState
}

func newStateView(state *placementState) StateView {
	return StateView{state: state}
}

// ListHousingUnits returns copies of all housing units in registry order.
func (v StateView) ListHousingUnits() []HousingUnit {
	return v.state.registry.List()
}

// ListResidents returns current residents in admission order.
func (v StateView) ListResidents() []Resident {
	return v.state.directory.List()
}

// ListAlumni returns removed residents.
func (v StateView) ListAlumni() []AlumniRecord {
	return v.state.directory.Alumni()
}

// FindHousingUnit retrieves a copy of a housing unit by id.
func (v StateView) FindHousingUnit(id UnitID) (HousingUnit, bool) {
	u, err := v.state.registry.FindByID(id)
	if err != nil {
		return nil, false
	}
	return u.Clone(), true
}

// FindResident retrieves a current resident by id.
func (v StateView) FindResident(id ResidentID) (Resident, bool) {
	return v.state.directory.Get(id)
}

var _ RuleView = StateView{}

// Transaction is the working copy one engine operation mutates. Nothing it does is
// visible until the engine commits it.
type Transaction struct {
	op      string
	state   placementState
	changes []Change
	now     time.Time
	// keepOnError commits the working copy even though the operation fails. Only a
	// stranding cascade sets it.
	keepOnError bool
}

func (tx *Transaction) registry() *HousingRegistry {
	return tx.state.registry
}

func (tx *Transaction) directory() *ResidentDirectory {
	return tx.state.directory
}

func (tx *Transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// resident resolves a tracked resident for the current operation.
func (tx *Transaction) resident(id ResidentID) (Resident, error) {
	if id == "" {
		return Resident{}, newError(tx.op, domain.ErrValidation, "resident id is required")
	}
	r, ok := tx.directory().Get(id)
	if !ok {
		return Resident{}, residentNotFound(tx.op, id)
	}
	return r, nil
}

// admit registers a new resident and places it into dest.
func (tx *Transaction) admit(r Resident, dest HousingUnit) error {
	if !tx.directory().Add(r) {
		return fmt.Errorf("%s: resident %s already tracked", tx.op, r.ID)
	}
	if err := dest.Admit(r); err != nil {
		return &PlacementError{Op: tx.op, Kind: domain.ErrUnavailable, ResidentID: r.ID, UnitID: dest.ID(), Reason: err.Error()}
	}
	tx.recordChange(Change{Action: ActionAdmit, ResidentID: r.ID, To: dest.ID()})
	return nil
}

// relocate evicts r from wherever it lives, if anywhere, and admits it into dest.
func (tx *Transaction) relocate(r Resident, dest HousingUnit) error {
	from, _ := tx.evict(r.ID)
	if err := dest.Admit(r); err != nil {
		return &PlacementError{Op: tx.op, Kind: domain.ErrUnavailable, ResidentID: r.ID, UnitID: dest.ID(), Reason: err.Error()}
	}
	tx.recordChange(Change{Action: ActionMove, ResidentID: r.ID, From: from, To: dest.ID()})
	return nil
}

// evict removes the resident from its current unit and reports which unit that was.
func (tx *Transaction) evict(id ResidentID) (UnitID, bool) {
	current, ok := tx.registry().Locate(id)
	if !ok {
		return "", false
	}
	current.Evict(id)
	return current.ID(), true
}

// update stores changed attributes in the directory and in the occupant's unit and
// returns the stored copy.
func (tx *Transaction) update(r Resident, detail string) Resident {
	r.UpdatedAt = tx.now
	tx.directory().Put(r)
	if current, ok := tx.registry().Locate(r.ID); ok {
		current.Replace(r)
	}
	tx.recordChange(Change{Action: ActionUpdate, ResidentID: r.ID, Detail: detail})
	return r
}

// strand is the second phase of a failed cascade: the resident is evicted from the
// unit it may no longer occupy, the eviction is committed, and the returned error names
// the vacated unit.
func (tx *Transaction) strand(r Resident, from UnitID, reason string) error {
	tx.evict(r.ID)
	tx.recordChange(Change{Action: ActionEvict, ResidentID: r.ID, From: from, Detail: reason})
	tx.keepOnError = true
	return &PlacementError{
		Op:          tx.op,
		Kind:        domain.ErrCapacityExhausted,
		ResidentID:  r.ID,
		EvictedFrom: from,
		Reason:      reason,
	}
}
