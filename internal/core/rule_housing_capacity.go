package core

import (
	"context"
	"fmt"

	"sanctuary/pkg/domain"
)

// NewEnclosureCapacityRule returns the rule enforcing that occupants of an enclosure never
// need more space than it offers.
func NewEnclosureCapacityRule() domain.Rule {
	return enclosureCapacityRule{}
}

type enclosureCapacityRule struct{}

func (enclosureCapacityRule) Name() string { return "enclosure_capacity" }

func (enclosureCapacityRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, unit := range view.ListHousingUnits() {
		enc, ok := unit.(*domain.Enclosure)
		if !ok {
			continue
		}
		if used := enc.UsedSpace(); used > enc.Capacity() {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "enclosure_capacity",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("enclosure %s over capacity: %d/%d square meters", enc.ID(), used, enc.Capacity()),
				UnitID:   enc.ID(),
			})
		}
	}
	return res, nil
}

// NewIsolationOccupancyRule returns the rule enforcing at most one occupant per cage.
func NewIsolationOccupancyRule() domain.Rule {
	return isolationOccupancyRule{}
}

type isolationOccupancyRule struct{}

func (isolationOccupancyRule) Name() string { return "isolation_single_occupancy" }

func (isolationOccupancyRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, unit := range view.ListHousingUnits() {
		if unit.Kind() != domain.KindIsolation {
			continue
		}
		if n := len(unit.Residents()); n > 1 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "isolation_single_occupancy",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("isolation cage %s holds %d residents", unit.ID(), n),
				UnitID:   unit.ID(),
			})
		}
	}
	return res, nil
}
