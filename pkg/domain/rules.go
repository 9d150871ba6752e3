package domain

import (
	"context"
	"fmt"
	"strings"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks the commit and rolls the operation back.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Action classifies a recorded change.
type Action string

const (
	ActionAdmit  Action = "admit"
	ActionMove   Action = "move"
	ActionEvict  Action = "evict"
	ActionUpdate Action = "update"
	ActionRemove Action = "remove"
	ActionGrow   Action = "grow"
)

// Change records one mutation applied during an engine operation.
type Change struct {
	Action     Action
	ResidentID ResidentID
	From       UnitID
	To         UnitID
	Detail     string
}

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule       string
	Severity   Severity
	Message    string
	UnitID     UnitID
	ResidentID ResidentID
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// Warnings returns the non-blocking violations.
func (r Result) Warnings() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity != SeverityBlock {
			out = append(out, v)
		}
	}
	return out
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	msgs := make([]string, 0, len(e.Result.Violations))
	for _, v := range e.Result.Violations {
		if v.Severity == SeverityBlock {
			msgs = append(msgs, fmt.Sprintf("%s: %s", v.Rule, v.Message))
		}
	}
	return "placement invariant violated: " + strings.Join(msgs, "; ")
}

// RuleView provides read-only access to placement state for rule evaluation.
type RuleView interface {
	ListHousingUnits() []HousingUnit
	ListResidents() []Resident
	ListAlumni() []AlumniRecord
	FindHousingUnit(id UnitID) (HousingUnit, bool)
	FindResident(id ResidentID) (Resident, bool)
}

// Rule defines an evaluation executed before an operation commits.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the registered rules in evaluation order.
func (e *RulesEngine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view, changes)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
