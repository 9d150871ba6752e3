package core

import (
	"context"
	"fmt"

	"sanctuary/pkg/domain"
)

// NewEnclosureSpeciesRule returns the rule keeping every enclosure single-species.
func NewEnclosureSpeciesRule() domain.Rule {
	return enclosureSpeciesRule{}
}

type enclosureSpeciesRule struct{}

func (enclosureSpeciesRule) Name() string { return "enclosure_species" }

func (enclosureSpeciesRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, unit := range view.ListHousingUnits() {
		if unit.Kind() != domain.KindEnclosure {
			continue
		}
		species, occupied := unit.OccupiedSpecies()
		if !occupied {
			continue
		}
		for _, r := range unit.Residents() {
			if r.Species != species {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:       "enclosure_species",
					Severity:   domain.SeverityBlock,
					Message:    fmt.Sprintf("enclosure %s houses %s but resident %s is %s", unit.ID(), species, r.ID, r.Species),
					UnitID:     unit.ID(),
					ResidentID: r.ID,
				})
			}
		}
	}
	return res, nil
}

// NewEnclosureHealthRule returns the rule keeping unhealthy residents out of enclosures.
func NewEnclosureHealthRule() domain.Rule {
	return enclosureHealthRule{}
}

type enclosureHealthRule struct{}

func (enclosureHealthRule) Name() string { return "enclosure_health" }

func (enclosureHealthRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, unit := range view.ListHousingUnits() {
		if unit.Kind() != domain.KindEnclosure {
			continue
		}
		for _, r := range unit.Residents() {
			if !r.Healthy() {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:       "enclosure_health",
					Severity:   domain.SeverityBlock,
					Message:    fmt.Sprintf("unhealthy resident %s is in enclosure %s", r.ID, unit.ID()),
					UnitID:     unit.ID(),
					ResidentID: r.ID,
				})
			}
		}
	}
	return res, nil
}
