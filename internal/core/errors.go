package core

import (
	"fmt"

	"sanctuary/pkg/domain"
)

func newError(op string, kind error, format string, args ...any) *PlacementError {
	return &PlacementError{Op: op, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func residentNotFound(op string, id ResidentID) *PlacementError {
	return &PlacementError{Op: op, Kind: domain.ErrNotFound, ResidentID: id, Reason: "resident is not housed in the sanctuary"}
}

func unitNotFound(op string, id UnitID) *PlacementError {
	return &PlacementError{Op: op, Kind: domain.ErrNotFound, UnitID: id, Reason: "housing unit does not exist"}
}
