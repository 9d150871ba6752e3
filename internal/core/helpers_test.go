package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"sanctuary/pkg/domain"
)

var testNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t testing.TB, isolationCages int, capacities []int, opts ...Option) *PlacementEngine {
	t.Helper()
	base := []Option{
		WithIDGenerator(NewSequenceGenerator()),
		WithClock(ClockFunc(func() time.Time { return testNow })),
	}
	engine, err := NewPlacementEngine(isolationCages, capacities, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func attrs(name string, species Species, size Size) ResidentAttributes {
	return ResidentAttributes{
		Name:         name,
		Species:      species,
		Sex:          domain.SexFemale,
		Size:         size,
		Weight:       2.5,
		Age:          3,
		FavoriteFood: domain.FoodFruits,
		Health:       domain.HealthHealthy,
	}
}

func mustAdmit(t testing.TB, e *PlacementEngine, a ResidentAttributes) Resident {
	t.Helper()
	r, _, err := e.Admit(context.Background(), a, "")
	if err != nil {
		t.Fatalf("admit %s: %v", a.Name, err)
	}
	return r
}

// mustHouse admits a resident and moves it into the first enclosure that takes it.
func mustHouse(t testing.TB, e *PlacementEngine, a ResidentAttributes) (Resident, UnitID) {
	t.Helper()
	r := mustAdmit(t, e, a)
	unit, err := e.MoveToEnclosure(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("move %s to enclosure: %v", a.Name, err)
	}
	return r, unit.ID()
}

func locate(t testing.TB, e *PlacementEngine, id ResidentID) UnitID {
	t.Helper()
	unit, ok := e.Locate(id)
	if !ok {
		return ""
	}
	return unit.ID()
}

func unitHolds(t testing.TB, e *PlacementEngine, unitID UnitID, id ResidentID) bool {
	t.Helper()
	unit, err := e.FindHousingUnit(unitID)
	if err != nil {
		t.Fatalf("find unit %s: %v", unitID, err)
	}
	return unit.Holds(id)
}

func expectKind(t testing.TB, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

// checkInvariants asserts every placement invariant on the engine's public view.
func checkInvariants(t testing.TB, e *PlacementEngine) {
	t.Helper()
	seen := make(map[ResidentID]UnitID)
	for _, unit := range e.ListHousingUnits() {
		residents := unit.Residents()
		for _, r := range residents {
			if prev, dup := seen[r.ID]; dup {
				t.Fatalf("resident %s in both %s and %s", r.ID, prev, unit.ID())
			}
			seen[r.ID] = unit.ID()
		}
		switch u := unit.(type) {
		case *domain.IsolationCage:
			if len(residents) > 1 {
				t.Fatalf("cage %s holds %d residents", u.ID(), len(residents))
			}
		case *domain.Enclosure:
			if u.UsedSpace() > u.Capacity() {
				t.Fatalf("enclosure %s over capacity %d/%d", u.ID(), u.UsedSpace(), u.Capacity())
			}
			species, _ := u.OccupiedSpecies()
			for _, r := range residents {
				if r.Species != species {
					t.Fatalf("enclosure %s mixes %s and %s", u.ID(), species, r.Species)
				}
				if !r.Healthy() {
					t.Fatalf("unhealthy resident %s in enclosure %s", r.ID, u.ID())
				}
			}
		}
	}
	for _, a := range e.ListAlumni() {
		if unit, housed := seen[a.Resident.ID]; housed {
			t.Fatalf("alumni %s still housed in %s", a.Resident.ID, unit)
		}
	}
}

type logLine struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (l *recordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, logLine{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.add("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.add("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.add("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.add("error", msg, args) }

func (l *recordingLogger) has(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if line.level == level && line.msg == msg {
			return true
		}
	}
	return false
}

func (l *recordingLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fmt.Sprint(l.lines)
}
