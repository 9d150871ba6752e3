package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"sanctuary/pkg/domain"
)

func TestNewPlacementEngineValidatesLayout(t *testing.T) {
	cases := []struct {
		name       string
		cages      int
		capacities []int
	}{
		{"no cages", 0, []int{10}},
		{"negative cages", -1, []int{10}},
		{"no enclosures", 2, nil},
		{"zero capacity", 2, []int{10, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPlacementEngine(tc.cages, tc.capacities)
			expectKind(t, err, domain.ErrValidation)
		})
	}
}

func TestRegistryOrderEnclosuresFirst(t *testing.T) {
	e := newTestEngine(t, 2, []int{10, 20})
	got := e.HousingIDs()
	want := []UnitID{"ENC1", "ENC2", "ISO1", "ISO2"}
	if len(got) != len(want) {
		t.Fatalf("housing ids %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("housing ids %v want %v", got, want)
		}
	}
	counts := e.Counts()
	if counts.Enclosures != 2 || counts.IsolationCages != 2 || counts.OccupiedEnclosures != 0 || counts.OccupiedIsolationCages != 0 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}

func TestAdmitIntoPreferredCage(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 3, []int{10})

	r, unit, err := e.Admit(ctx, attrs("Coco", domain.SpeciesCapuchin, domain.SizeMedium), "ISO2")
	if err != nil {
		t.Fatalf("admit: %v", err)
	}
	if unit.ID() != "ISO2" || locate(t, e, r.ID) != "ISO2" {
		t.Fatalf("expected ISO2, got %s", unit.ID())
	}
	if r.ID != "R1" || !r.AdmittedAt.Equal(testNow) {
		t.Fatalf("unexpected resident %+v", r)
	}

	_, _, err = e.Admit(ctx, attrs("Bo", domain.SpeciesCapuchin, domain.SizeSmall), "ISO2")
	expectKind(t, err, domain.ErrOccupied)
	_, _, err = e.Admit(ctx, attrs("Bo", domain.SpeciesCapuchin, domain.SizeSmall), "ISO9")
	expectKind(t, err, domain.ErrValidation)
	_, _, err = e.Admit(ctx, attrs("Bo", domain.SpeciesCapuchin, domain.SizeSmall), "ENC1")
	expectKind(t, err, domain.ErrValidation)

	// No preference takes the first vacant cage.
	_, unit, err = e.Admit(ctx, attrs("Bo", domain.SpeciesCapuchin, domain.SizeSmall), "")
	if err != nil {
		t.Fatalf("admit: %v", err)
	}
	if unit.ID() != "ISO1" {
		t.Fatalf("expected ISO1, got %s", unit.ID())
	}
	if len(e.ListResidents()) != 2 {
		t.Fatalf("failed admissions must not register residents: %v", e.ResidentIDs())
	}
}

func TestAdmitValidatesAttributes(t *testing.T) {
	e := newTestEngine(t, 1, []int{10})
	mutations := map[string]func(*ResidentAttributes){
		"empty name":      func(a *ResidentAttributes) { a.Name = "" },
		"unknown species": func(a *ResidentAttributes) { a.Species = "gorilla" },
		"missing sex":     func(a *ResidentAttributes) { a.Sex = "" },
		"unknown size":    func(a *ResidentAttributes) { a.Size = "huge" },
		"zero weight":     func(a *ResidentAttributes) { a.Weight = 0 },
		"negative age":    func(a *ResidentAttributes) { a.Age = -1 },
		"unknown food":    func(a *ResidentAttributes) { a.FavoriteFood = "pizza" },
		"missing health":  func(a *ResidentAttributes) { a.Health = "" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			a := attrs("Coco", domain.SpeciesCapuchin, domain.SizeSmall)
			mutate(&a)
			_, _, err := e.Admit(context.Background(), a, "")
			expectKind(t, err, domain.ErrValidation)
		})
	}
	if len(e.ListResidents()) != 0 {
		t.Fatal("invalid admissions must not register residents")
	}
}

func TestAdmitUnhealthyGoesToIsolation(t *testing.T) {
	e := newTestEngine(t, 1, []int{10})
	a := attrs("Sick", domain.SpeciesTiti, domain.SizeSmall)
	a.Health = domain.HealthUnhealthy
	r := mustAdmit(t, e, a)

	_, err := e.MoveToEnclosure(context.Background(), r.ID)
	expectKind(t, err, domain.ErrHealthRestriction)
	if locate(t, e, r.ID) != "ISO1" {
		t.Fatal("failed move must leave the resident in place")
	}
}

func TestMoveToEnclosureRespectsSpeciesAndSpace(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 2, []int{12, 12})

	_, first := mustHouse(t, e, attrs("Howl", domain.SpeciesHowler, domain.SizeLarge))
	if first != "ENC1" {
		t.Fatalf("expected ENC1, got %s", first)
	}
	_, second := mustHouse(t, e, attrs("Cap", domain.SpeciesCapuchin, domain.SizeSmall))
	if second != "ENC2" {
		t.Fatalf("other species must skip ENC1, got %s", second)
	}

	big := mustAdmit(t, e, attrs("Howl2", domain.SpeciesHowler, domain.SizeLarge))
	_, err := e.MoveToEnclosure(ctx, big.ID)
	expectKind(t, err, domain.ErrCapacityExhausted)
	if locate(t, e, big.ID) != "ISO1" {
		t.Fatal("resident must stay in isolation when no enclosure fits")
	}
	checkInvariants(t, e)
}

func TestMoveToIsolation(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 1, []int{10})
	r, _ := mustHouse(t, e, attrs("Coco", domain.SpeciesCapuchin, domain.SizeSmall))

	unit, err := e.MoveToIsolation(ctx, r.ID)
	if err != nil {
		t.Fatalf("move to isolation: %v", err)
	}
	if unit.ID() != "ISO1" || unitHolds(t, e, "ENC1", r.ID) {
		t.Fatalf("resident not moved: %s", unit.ID())
	}

	_, _, err = e.Admit(ctx, attrs("Bo", domain.SpeciesCapuchin, domain.SizeSmall), "")
	expectKind(t, err, domain.ErrCapacityExhausted)

	_, err = e.MoveToIsolation(ctx, "R404")
	expectKind(t, err, domain.ErrNotFound)
	_, err = e.MoveToIsolation(ctx, "")
	expectKind(t, err, domain.ErrValidation)
}

func TestMoveToRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 2, []int{10})
	r := mustAdmit(t, e, attrs("Coco", domain.SpeciesCapuchin, domain.SizeMedium))

	if err := e.MoveTo(ctx, "ENC1", r.ID); err != nil {
		t.Fatalf("move to ENC1: %v", err)
	}
	for _, unit := range e.ListHousingUnits() {
		holds := unit.Holds(r.ID)
		if unit.ID() == "ENC1" && !holds {
			t.Fatal("ENC1 must list the resident")
		}
		if unit.ID() != "ENC1" && holds {
			t.Fatalf("%s still lists the resident", unit.ID())
		}
	}

	if err := e.MoveTo(ctx, "ISO2", r.ID); err != nil {
		t.Fatalf("move to ISO2: %v", err)
	}
	if locate(t, e, r.ID) != "ISO2" {
		t.Fatal("explicit cage move failed")
	}
	checkInvariants(t, e)
}

func TestMoveToFailures(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 2, []int{10, 3})
	housed, _ := mustHouse(t, e, attrs("Howl", domain.SpeciesHowler, domain.SizeSmall))
	caged := mustAdmit(t, e, attrs("Cap", domain.SpeciesCapuchin, domain.SizeMedium))
	sickAttrs := attrs("Sick", domain.SpeciesHowler, domain.SizeSmall)
	sickAttrs.Health = domain.HealthUnhealthy
	sick := mustAdmit(t, e, sickAttrs)

	cases := []struct {
		name string
		unit UnitID
		id   ResidentID
		kind error
	}{
		{"empty unit", "", caged.ID, domain.ErrValidation},
		{"empty resident", "ENC1", "", domain.ErrValidation},
		{"unknown resident", "ENC1", "R404", domain.ErrNotFound},
		{"unknown unit", "ENC9", caged.ID, domain.ErrNotFound},
		{"wrong species", "ENC1", caged.ID, domain.ErrUnavailable},
		{"too small", "ENC2", caged.ID, domain.ErrUnavailable},
		{"unhealthy into enclosure", "ENC2", sick.ID, domain.ErrHealthRestriction},
		{"occupied cage", locate(t, e, caged.ID), housed.ID, domain.ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectKind(t, e.MoveTo(ctx, tc.unit, tc.id), tc.kind)
		})
	}
	if locate(t, e, housed.ID) != "ENC1" || locate(t, e, sick.ID) == "" {
		t.Fatal("failed moves must not change placement")
	}
}

func TestRemoveFilesAlumni(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 1, []int{10})
	r, enc := mustHouse(t, e, attrs("Coco", domain.SpeciesCapuchin, domain.SizeSmall))

	if err := e.Remove(ctx, r.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	expectKind(t, e.Remove(ctx, r.ID), domain.ErrNotFound)

	alumni := e.ListAlumni()
	if len(alumni) != 1 || alumni[0].Resident.ID != r.ID || alumni[0].LastUnit != enc || !alumni[0].RemovedAt.Equal(testNow) {
		t.Fatalf("unexpected alumni %+v", alumni)
	}
	if unitHolds(t, e, enc, r.ID) || len(e.ListResidents()) != 0 {
		t.Fatal("removed resident still tracked")
	}
	expectKind(t, e.UpdateWeight(ctx, r.ID, 9), domain.ErrNotFound)
	if e.ListAlumni()[0].Resident.Weight != 2.5 {
		t.Fatal("alumni snapshot must be frozen")
	}
	checkInvariants(t, e)
}

func TestAddCapacityAppendsUnits(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 1, []int{10})

	if err := e.AddCapacity(ctx, 2, 1, []int{20}); err != nil {
		t.Fatalf("add capacity: %v", err)
	}
	want := []UnitID{"ENC1", "ISO1", "ENC2", "ISO2", "ISO3"}
	got := e.HousingIDs()
	if len(got) != len(want) {
		t.Fatalf("housing ids %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("housing ids %v want %v", got, want)
		}
	}

	expectKind(t, e.AddCapacity(ctx, 1, 2, []int{5}), domain.ErrValidation)
	expectKind(t, e.AddCapacity(ctx, -1, 0, nil), domain.ErrValidation)
	expectKind(t, e.AddCapacity(ctx, 0, 1, []int{0}), domain.ErrValidation)
	if len(e.HousingIDs()) != 5 {
		t.Fatal("failed growth must not add units")
	}
}

func TestUpdateSizeRules(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 1, []int{30})
	r, enc := mustHouse(t, e, attrs("Saki", domain.SpeciesSaki, domain.SizeMedium))

	expectKind(t, e.UpdateSize(ctx, r.ID, domain.SizeSmall), domain.ErrValidation)
	expectKind(t, e.UpdateSize(ctx, r.ID, "huge"), domain.ErrValidation)
	if err := e.UpdateSize(ctx, r.ID, domain.SizeMedium); err != nil {
		t.Fatalf("same size must be a no-op: %v", err)
	}
	if err := e.UpdateSize(ctx, r.ID, domain.SizeLarge); err != nil {
		t.Fatalf("grow in place: %v", err)
	}
	if locate(t, e, r.ID) != enc {
		t.Fatal("resident that still fits must stay")
	}
	unit, _ := e.FindHousingUnit(enc)
	if unit.Residents()[0].Size != domain.SizeLarge {
		t.Fatal("unit copy of the resident was not updated")
	}

	caged := mustAdmit(t, e, attrs("Tiny", domain.SpeciesTiti, domain.SizeSmall))
	if err := e.UpdateSize(ctx, caged.ID, domain.SizeLarge); err != nil {
		t.Fatalf("grow in isolation: %v", err)
	}
	if locate(t, e, caged.ID) != "ISO1" {
		t.Fatal("isolation residents are never relocated by growth")
	}
	checkInvariants(t, e)
}

func TestUpdateHealthInIsolationStaysPut(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 1, []int{10})
	r := mustAdmit(t, e, attrs("Coco", domain.SpeciesCapuchin, domain.SizeSmall))

	if err := e.UpdateHealthStatus(ctx, r.ID, domain.HealthUnhealthy); err != nil {
		t.Fatalf("update health: %v", err)
	}
	if err := e.UpdateHealthStatus(ctx, r.ID, domain.HealthHealthy); err != nil {
		t.Fatalf("update health: %v", err)
	}
	if locate(t, e, r.ID) != "ISO1" {
		t.Fatal("health changes never move residents out of isolation")
	}
	expectKind(t, e.UpdateHealthStatus(ctx, r.ID, ""), domain.ErrValidation)
	expectKind(t, e.UpdateHealthStatus(ctx, "", domain.HealthHealthy), domain.ErrValidation)
	expectKind(t, e.UpdateHealthStatus(ctx, "R404", domain.HealthHealthy), domain.ErrNotFound)
}

func TestSimpleAttributeUpdates(t *testing.T) {
	ctx := context.Background()
	later := testNow.Add(1)
	clock := testNow
	e := newTestEngine(t, 1, []int{10}, WithClock(ClockFunc(func() time.Time { return clock })))
	r, enc := mustHouse(t, e, attrs("Coco", domain.SpeciesCapuchin, domain.SizeSmall))

	clock = later
	if err := e.UpdateWeight(ctx, r.ID, 3.75); err != nil {
		t.Fatalf("update weight: %v", err)
	}
	if err := e.UpdateAge(ctx, r.ID, 3); err != nil {
		t.Fatalf("same age must be accepted: %v", err)
	}
	if err := e.UpdateAge(ctx, r.ID, 5); err != nil {
		t.Fatalf("update age: %v", err)
	}
	if err := e.UpdateFavoriteFood(ctx, r.ID, domain.FoodInsects); err != nil {
		t.Fatalf("update food: %v", err)
	}
	expectKind(t, e.UpdateWeight(ctx, r.ID, 0), domain.ErrValidation)
	expectKind(t, e.UpdateWeight(ctx, r.ID, -2), domain.ErrValidation)
	expectKind(t, e.UpdateAge(ctx, r.ID, 4), domain.ErrValidation)
	expectKind(t, e.UpdateFavoriteFood(ctx, r.ID, "pizza"), domain.ErrValidation)

	got, err := e.FindResident(r.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Weight != 3.75 || got.Age != 5 || got.FavoriteFood != domain.FoodInsects {
		t.Fatalf("unexpected resident %+v", got)
	}
	if !got.UpdatedAt.Equal(later) || !got.AdmittedAt.Equal(testNow) {
		t.Fatalf("timestamps admitted=%s updated=%s", got.AdmittedAt, got.UpdatedAt)
	}
	roster, err := e.EnclosureRoster(enc)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if roster["Coco"].FavoriteFood != domain.FoodInsects {
		t.Fatalf("enclosure copy not updated: %+v", roster)
	}
}

func TestEnclosureRoster(t *testing.T) {
	e := newTestEngine(t, 1, []int{10})
	_, enc := mustHouse(t, e, attrs("Coco", domain.SpeciesCapuchin, domain.SizeSmall))
	mateAttrs := attrs("Bo", domain.SpeciesCapuchin, domain.SizeSmall)
	mateAttrs.Sex = domain.SexMale
	mateAttrs.FavoriteFood = domain.FoodSeeds
	mustHouse(t, e, mateAttrs)

	roster, err := e.EnclosureRoster(enc)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(roster) != 2 || roster["Bo"] != (RosterEntry{Sex: domain.SexMale, FavoriteFood: domain.FoodSeeds}) {
		t.Fatalf("unexpected roster %+v", roster)
	}

	_, err = e.EnclosureRoster("ISO1")
	expectKind(t, err, domain.ErrWrongKind)
	_, err = e.EnclosureRoster("ENC9")
	expectKind(t, err, domain.ErrNotFound)
}

func TestQueriesReturnCopies(t *testing.T) {
	e := newTestEngine(t, 1, []int{10})
	r := mustAdmit(t, e, attrs("Coco", domain.SpeciesCapuchin, domain.SizeSmall))

	units := e.ListHousingUnits()
	for _, u := range units {
		u.Evict(r.ID)
	}
	if locate(t, e, r.ID) != "ISO1" {
		t.Fatal("mutating a listed unit changed engine state")
	}
	residents := e.ListResidents()
	residents[0].Name = "Changed"
	if got, _ := e.FindResident(r.ID); got.Name != "Coco" {
		t.Fatal("mutating a listed resident changed engine state")
	}
	ids := e.ResidentIDs()
	ids[0] = "X"
	if e.ResidentIDs()[0] != r.ID {
		t.Fatal("resident id slice aliases engine state")
	}
	if _, err := e.FindResident("R404"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := e.FindHousingUnit("ENC9"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, ok := e.Locate("R404"); ok {
		t.Fatal("unknown resident must not be located")
	}
}
