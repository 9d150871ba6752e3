package domain

import "time"

// ResidentID uniquely identifies a resident for its whole lifetime, including as alumni.
type ResidentID string

// UnitID uniquely identifies a housing unit.
type UnitID string

// IDGenerator mints identifiers for residents and housing units. It is injected into the
// registry and engine so id generation carries no package-level state.
type IDGenerator interface {
	NewResidentID() ResidentID
	NewUnitID(kind UnitKind) UnitID
}

// ResidentAttributes carries the caller-supplied attributes of a new resident.
type ResidentAttributes struct {
	Name         string       `json:"name" validate:"required"`
	Species      Species      `json:"species" validate:"required,enum"`
	Sex          Sex          `json:"sex" validate:"required,enum"`
	Size         Size         `json:"size" validate:"required,enum"`
	Weight       float64      `json:"weight" validate:"gt=0"`
	Age          int          `json:"age" validate:"gte=0"`
	FavoriteFood FavoriteFood `json:"favorite_food" validate:"required,enum"`
	Health       HealthStatus `json:"health" validate:"required,enum"`
}

// Resident represents an individual animal tracked by the sanctuary.
type Resident struct {
	ID           ResidentID   `json:"id"`
	Name         string       `json:"name"`
	Species      Species      `json:"species"`
	Sex          Sex          `json:"sex"`
	Size         Size         `json:"size"`
	Weight       float64      `json:"weight"`
	Age          int          `json:"age"`
	FavoriteFood FavoriteFood `json:"favorite_food"`
	Health       HealthStatus `json:"health"`
	AdmittedAt   time.Time    `json:"admitted_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewResident builds a resident from validated attributes.
func NewResident(id ResidentID, attrs ResidentAttributes, now time.Time) Resident {
	return Resident{
		ID:           id,
		Name:         attrs.Name,
		Species:      attrs.Species,
		Sex:          attrs.Sex,
		Size:         attrs.Size,
		Weight:       attrs.Weight,
		Age:          attrs.Age,
		FavoriteFood: attrs.FavoriteFood,
		Health:       attrs.Health,
		AdmittedAt:   now,
		UpdatedAt:    now,
	}
}

// Space is the enclosure space the resident currently needs.
func (r Resident) Space() int {
	return r.Size.Space()
}

// Healthy reports whether the resident may live in an enclosure.
func (r Resident) Healthy() bool {
	return r.Health == HealthHealthy
}

// AlumniRecord is the frozen snapshot of a resident that left the sanctuary.
type AlumniRecord struct {
	Resident  Resident  `json:"resident"`
	LastUnit  UnitID    `json:"last_unit,omitempty"`
	RemovedAt time.Time `json:"removed_at"`
}
