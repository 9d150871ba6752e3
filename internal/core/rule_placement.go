package core

import (
	"context"
	"fmt"

	"sanctuary/pkg/domain"
)

// NewSinglePlacementRule returns the rule forbidding a resident from occupying two units.
func NewSinglePlacementRule() domain.Rule {
	return singlePlacementRule{}
}

type singlePlacementRule struct{}

func (singlePlacementRule) Name() string { return "single_placement" }

func (singlePlacementRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	seen := make(map[domain.ResidentID]domain.UnitID)
	for _, unit := range view.ListHousingUnits() {
		for _, r := range unit.Residents() {
			if first, dup := seen[r.ID]; dup {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:       "single_placement",
					Severity:   domain.SeverityBlock,
					Message:    fmt.Sprintf("resident %s is in both %s and %s", r.ID, first, unit.ID()),
					UnitID:     unit.ID(),
					ResidentID: r.ID,
				})
				continue
			}
			seen[r.ID] = unit.ID()
		}
	}
	return res, nil
}

// NewAdmissionIsolationFirstRule returns the rule requiring admissions to land in an
// isolation cage.
func NewAdmissionIsolationFirstRule() domain.Rule {
	return admissionIsolationFirstRule{}
}

type admissionIsolationFirstRule struct{}

func (admissionIsolationFirstRule) Name() string { return "admission_isolation_first" }

func (admissionIsolationFirstRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, ch := range changes {
		if ch.Action != domain.ActionAdmit {
			continue
		}
		unit, ok := view.FindHousingUnit(ch.To)
		if ok && unit.Kind() == domain.KindIsolation {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:       "admission_isolation_first",
			Severity:   domain.SeverityBlock,
			Message:    fmt.Sprintf("new resident %s must be admitted into an isolation cage, not %q", ch.ResidentID, ch.To),
			UnitID:     ch.To,
			ResidentID: ch.ResidentID,
		})
	}
	return res, nil
}

// NewAlumniUnhousedRule returns the rule keeping removed residents out of every unit.
func NewAlumniUnhousedRule() domain.Rule {
	return alumniUnhousedRule{}
}

type alumniUnhousedRule struct{}

func (alumniUnhousedRule) Name() string { return "alumni_unhoused" }

func (alumniUnhousedRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	alumni := view.ListAlumni()
	if len(alumni) == 0 {
		return res, nil
	}
	removed := make(map[domain.ResidentID]struct{}, len(alumni))
	for _, a := range alumni {
		removed[a.Resident.ID] = struct{}{}
	}
	for _, unit := range view.ListHousingUnits() {
		for _, r := range unit.Residents() {
			if _, ok := removed[r.ID]; ok {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:       "alumni_unhoused",
					Severity:   domain.SeverityBlock,
					Message:    fmt.Sprintf("removed resident %s still occupies %s", r.ID, unit.ID()),
					UnitID:     unit.ID(),
					ResidentID: r.ID,
				})
			}
		}
	}
	return res, nil
}

// NewUnhousedResidentRule returns a warning rule reporting tracked residents that have no
// unit, the state a failed cascade leaves behind.
func NewUnhousedResidentRule() domain.Rule {
	return unhousedResidentRule{}
}

type unhousedResidentRule struct{}

func (unhousedResidentRule) Name() string { return "unhoused_resident" }

func (unhousedResidentRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	housed := make(map[domain.ResidentID]struct{})
	for _, unit := range view.ListHousingUnits() {
		for _, r := range unit.Residents() {
			housed[r.ID] = struct{}{}
		}
	}
	res := domain.Result{}
	for _, r := range view.ListResidents() {
		if _, ok := housed[r.ID]; ok {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:       "unhoused_resident",
			Severity:   domain.SeverityWarn,
			Message:    fmt.Sprintf("resident %s (%s) has no housing and needs manual placement", r.ID, r.Name),
			ResidentID: r.ID,
		})
	}
	return res, nil
}
