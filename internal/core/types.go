package core

import "sanctuary/pkg/domain"

type (
	Species            = domain.Species
	Size               = domain.Size
	HealthStatus       = domain.HealthStatus
	FavoriteFood       = domain.FavoriteFood
	UnitKind           = domain.UnitKind
	ResidentID         = domain.ResidentID
	UnitID             = domain.UnitID
	Resident           = domain.Resident
	ResidentAttributes = domain.ResidentAttributes
	AlumniRecord       = domain.AlumniRecord
	HousingUnit        = domain.HousingUnit
	Change             = domain.Change
	Violation          = domain.Violation
	Result             = domain.Result
	Rule               = domain.Rule
	RuleView           = domain.RuleView
	RulesEngine        = domain.RulesEngine
	RuleViolationError = domain.RuleViolationError
	PlacementError     = domain.PlacementError
)

const (
	KindEnclosure = domain.KindEnclosure
	KindIsolation = domain.KindIsolation
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionAdmit  = domain.ActionAdmit
	ActionMove   = domain.ActionMove
	ActionEvict  = domain.ActionEvict
	ActionUpdate = domain.ActionUpdate
	ActionRemove = domain.ActionRemove
	ActionGrow   = domain.ActionGrow
)
