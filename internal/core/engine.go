package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"sanctuary/pkg/domain"
)

// PlacementEngine places residents into housing units and keeps the placement
// invariants across admissions, moves, attribute updates and removals.
//
// Every mutating call runs against a private copy of the state under one write lock;
// the copy is committed only when the operation succeeds and the invariant rules pass.
// Queries take the read lock and return copies.
type PlacementEngine struct {
	mu       sync.RWMutex
	state    placementState
	rules    *domain.RulesEngine
	ids      domain.IDGenerator
	validate *validator.Validate
	clock    Clock
	logger   Logger
	audit    AuditRecorder
	metrics  MetricsRecorder
	tracer   Tracer
}

// NewPlacementEngine builds an engine over a fresh registry with the given number of
// isolation cages and one enclosure per capacity.
func NewPlacementEngine(isolationCages int, enclosureCapacities []int, opts ...Option) (*PlacementEngine, error) {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	registry, err := NewHousingRegistry(o.ids, isolationCages, enclosureCapacities)
	if err != nil {
		return nil, err
	}
	e := &PlacementEngine{
		state:    placementState{registry: registry, directory: NewResidentDirectory()},
		rules:    o.rules,
		ids:      o.ids,
		validate: newAttributeValidator(),
		clock:    o.clock,
		logger:   o.logger,
		audit:    o.audit,
		metrics:  o.metrics,
		tracer:   o.tracer,
	}
	if rec, ok := e.metrics.(OccupancyRecorder); ok {
		rec.ObserveOccupancy(registry.Counts(), 0, 0)
	}
	return e, nil
}

// run executes fn inside a transaction and commits the result. A failing fn discards
// its working copy unless it stranded a resident, in which case the eviction is
// committed and fn's error is still returned.
func (e *PlacementEngine) run(ctx context.Context, op string, fn func(tx *Transaction) error) error {
	started := time.Now()
	ctx, span := e.tracer.Start(ctx, op)

	e.mu.Lock()
	changes, err := e.runLocked(ctx, op, fn)
	counts := e.state.registry.Counts()
	residents, alumni := e.state.directory.Len(), len(e.state.directory.alumni)
	e.mu.Unlock()

	outcome := Outcome(err)
	span.End(err)
	e.metrics.Observe(ctx, op, outcome, time.Since(started))
	if rec, ok := e.metrics.(OccupancyRecorder); ok {
		rec.ObserveOccupancy(counts, residents, alumni)
	}
	now := e.clock.Now()
	for _, ch := range changes {
		e.audit.Record(ctx, AuditEntry{
			Operation:  op,
			Action:     ch.Action,
			ResidentID: ch.ResidentID,
			From:       ch.From,
			To:         ch.To,
			Detail:     ch.Detail,
			Outcome:    outcome,
			At:         now,
		})
	}
	return err
}

func (e *PlacementEngine) runLocked(ctx context.Context, op string, fn func(tx *Transaction) error) ([]Change, error) {
	tx := &Transaction{
		op:    op,
		state: e.state.clone(),
		now:   e.clock.Now(),
	}
	opErr := fn(tx)
	if opErr != nil && !tx.keepOnError {
		return nil, opErr
	}

	if e.rules != nil {
		res, err := e.rules.Evaluate(ctx, newStateView(&tx.state), tx.changes)
		if err != nil {
			return nil, fmt.Errorf("%s: evaluate rules: %w", op, err)
		}
		for _, v := range res.Warnings() {
			e.logger.Warn("placement rule warning", "operation", op, "rule", v.Rule, "message", v.Message, "unit", v.UnitID, "resident", v.ResidentID)
		}
		if res.HasBlocking() {
			violation := RuleViolationError{Result: res}
			e.logger.Error("placement rolled back", "operation", op, "error", violation.Error())
			return nil, violation
		}
	}

	e.state = tx.state
	return tx.changes, opErr
}

// ListResidents returns current residents in admission order.
func (e *PlacementEngine) ListResidents() []Resident {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.directory.List()
}

// ListAlumni returns the frozen records of removed residents in removal order.
func (e *PlacementEngine) ListAlumni() []AlumniRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.directory.Alumni()
}

// ListHousingUnits returns copies of every unit in registry order.
func (e *PlacementEngine) ListHousingUnits() []HousingUnit {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.registry.List()
}

// FindResident returns a current resident.
func (e *PlacementEngine) FindResident(id ResidentID) (Resident, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.state.directory.Get(id)
	if !ok {
		return Resident{}, residentNotFound("find resident", id)
	}
	return r, nil
}

// FindHousingUnit returns a copy of a unit.
func (e *PlacementEngine) FindHousingUnit(id UnitID) (HousingUnit, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	u, err := e.state.registry.FindByID(id)
	if err != nil {
		return nil, err
	}
	return u.Clone(), nil
}

// Locate returns a copy of the unit the resident occupies; false when unhoused or unknown.
func (e *PlacementEngine) Locate(id ResidentID) (HousingUnit, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	u, ok := e.state.registry.Locate(id)
	if !ok {
		return nil, false
	}
	return u.Clone(), true
}

// HousingIDs returns unit ids in registry order.
func (e *PlacementEngine) HousingIDs() []UnitID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]UnitID, 0, len(e.state.registry.units))
	for _, u := range e.state.registry.units {
		out = append(out, u.ID())
	}
	return out
}

// ResidentIDs returns current resident ids in admission order.
func (e *PlacementEngine) ResidentIDs() []ResidentID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]ResidentID(nil), e.state.directory.order...)
}

// Counts summarizes the registry.
func (e *PlacementEngine) Counts() RegistryCounts {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.registry.Counts()
}

// RosterEntry is one line of an enclosure sign.
type RosterEntry struct {
	Sex          domain.Sex
	FavoriteFood FavoriteFood
}

// EnclosureRoster maps each occupant's name to its sex and favorite food.
func (e *PlacementEngine) EnclosureRoster(id UnitID) (map[string]RosterEntry, error) {
	const op = "enclosure roster"
	e.mu.RLock()
	defer e.mu.RUnlock()
	u, err := e.state.registry.FindByID(id)
	if err != nil {
		return nil, unitNotFound(op, id)
	}
	if u.Kind() != KindEnclosure {
		return nil, &PlacementError{Op: op, Kind: domain.ErrWrongKind, UnitID: id, Reason: "unit is not an enclosure"}
	}
	roster := make(map[string]RosterEntry, len(u.Residents()))
	for _, r := range u.Residents() {
		roster[r.Name] = RosterEntry{Sex: r.Sex, FavoriteFood: r.FavoriteFood}
	}
	return roster, nil
}
