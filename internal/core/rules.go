package core

import "sanctuary/pkg/domain"

// NewDefaultRulesEngine builds a rules engine enforcing every placement invariant.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	for _, rule := range defaultRules() {
		engine.Register(rule)
	}
	return engine
}

// defaultRules lists the built-in rules in evaluation order.
func defaultRules() []Rule {
	return []Rule{
		NewSinglePlacementRule(),
		NewIsolationOccupancyRule(),
		NewEnclosureSpeciesRule(),
		NewEnclosureCapacityRule(),
		NewEnclosureHealthRule(),
		NewAdmissionIsolationFirstRule(),
		NewAlumniUnhousedRule(),
		NewUnhousedResidentRule(),
	}
}
