package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds returned by placement operations. Callers match them with errors.Is;
// the concrete error is usually a *PlacementError carrying context.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrUnavailable       = errors.New("unit unavailable")
	ErrHealthRestriction = errors.New("health restriction")
	ErrOccupied          = errors.New("unit occupied")
	ErrCapacityExhausted = errors.New("capacity exhausted")
	ErrWrongKind         = errors.New("wrong unit kind")
)

// PlacementError describes a failed engine operation.
type PlacementError struct {
	Op         string
	Kind       error
	ResidentID ResidentID
	UnitID     UnitID
	// EvictedFrom is set when a cascade removed the resident from this unit before
	// failing. The resident is left unhoused and needs manual placement.
	EvictedFrom UnitID
	Reason      string
}

func (e *PlacementError) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	kind := e.Kind
	if kind == nil {
		kind = ErrValidation
	}
	b.WriteString(kind.Error())
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.ResidentID != "" {
		fmt.Fprintf(&b, " (resident=%s)", e.ResidentID)
	}
	if e.UnitID != "" {
		fmt.Fprintf(&b, " (unit=%s)", e.UnitID)
	}
	if e.EvictedFrom != "" {
		fmt.Fprintf(&b, "; resident was evicted from %s and is unhoused", e.EvictedFrom)
	}
	return b.String()
}

// Unwrap exposes the error kind to errors.Is.
func (e *PlacementError) Unwrap() error {
	return e.Kind
}

// Stranded reports whether the failure left the resident without a unit.
func (e *PlacementError) Stranded() bool {
	return e.EvictedFrom != ""
}

// EvictedFrom returns the unit a failed cascade vacated, if err carries one.
func EvictedFrom(err error) (UnitID, bool) {
	var pe *PlacementError
	if errors.As(err, &pe) && pe.Stranded() {
		return pe.EvictedFrom, true
	}
	return "", false
}
