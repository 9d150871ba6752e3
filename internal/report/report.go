// Package report derives read-only views over placement state: where residents live,
// which units house each species, and how much of each food to buy. Nothing here holds
// state; every function reads a fresh snapshot from its Source.
package report

import (
	"fmt"
	"sort"

	"sanctuary/pkg/domain"
)

// Source is the query surface the reports read. *core.PlacementEngine satisfies it.
type Source interface {
	ListHousingUnits() []domain.HousingUnit
	ListResidents() []domain.Resident
}

// Location pairs a resident with the unit it occupies. Kind and UnitID are empty for a
// resident left unhoused by a failed cascade.
type Location struct {
	ResidentID domain.ResidentID
	Name       string
	Kind       domain.UnitKind
	UnitID     domain.UnitID
}

// Housed reports whether the resident occupies a unit.
func (l Location) Housed() bool {
	return l.UnitID != ""
}

// ResidentsWithLocations lists every tracked resident sorted by name, then id.
func ResidentsWithLocations(src Source) []Location {
	where := make(map[domain.ResidentID]domain.HousingUnit)
	for _, unit := range src.ListHousingUnits() {
		for _, r := range unit.Residents() {
			where[r.ID] = unit
		}
	}
	residents := src.ListResidents()
	out := make([]Location, 0, len(residents))
	for _, r := range residents {
		loc := Location{ResidentID: r.ID, Name: r.Name}
		if unit, ok := where[r.ID]; ok {
			loc.Kind = unit.Kind()
			loc.UnitID = unit.ID()
		}
		out = append(out, loc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ResidentID < out[j].ResidentID
	})
	return out
}

// SpeciesLocations maps every known species to the units housing it, in registry order.
// Species without residents map to an empty slice.
func SpeciesLocations(src Source) map[domain.Species][]domain.UnitID {
	out := make(map[domain.Species][]domain.UnitID, len(domain.AllSpecies()))
	for _, s := range domain.AllSpecies() {
		out[s] = []domain.UnitID{}
	}
	for _, unit := range src.ListHousingUnits() {
		seen := make(map[domain.Species]bool)
		for _, r := range unit.Residents() {
			if seen[r.Species] {
				continue
			}
			seen[r.Species] = true
			out[r.Species] = append(out[r.Species], unit.ID())
		}
	}
	return out
}

// LocationsForSpecies returns the units housing the species, in registry order.
func LocationsForSpecies(src Source, species domain.Species) ([]domain.UnitID, error) {
	if !species.Valid() {
		return nil, &domain.PlacementError{
			Op:     "locations for species",
			Kind:   domain.ErrValidation,
			Reason: fmt.Sprintf("unknown species %q", species),
		}
	}
	return SpeciesLocations(src)[species], nil
}

// FoodShoppingTotals sums each tracked resident's daily food requirement in grams,
// grouped by favorite food. Foods nobody prefers are absent.
func FoodShoppingTotals(src Source) map[domain.FavoriteFood]int {
	out := make(map[domain.FavoriteFood]int)
	for _, r := range src.ListResidents() {
		out[r.FavoriteFood] += r.Size.FoodRequired()
	}
	return out
}
