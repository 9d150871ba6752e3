package domain

// Species identifies the primate species of a resident.
type Species string

// Supported species. Enclosures hold residents of exactly one species.
const (
	SpeciesMarmoset     Species = "marmoset"
	SpeciesCapuchin     Species = "capuchin"
	SpeciesHowler       Species = "howler"
	SpeciesNight        Species = "night"
	SpeciesSaki         Species = "saki"
	SpeciesSpider       Species = "spider"
	SpeciesSquirrel     Species = "squirrel"
	SpeciesTamarin      Species = "tamarin"
	SpeciesTiti         Species = "titi"
	SpeciesUakaris      Species = "uakaris"
	SpeciesWoolly       Species = "woolly"
	SpeciesWoollySpider Species = "woolly_spider"
)

// AllSpecies lists every species in a stable order.
func AllSpecies() []Species {
	return []Species{
		SpeciesCapuchin,
		SpeciesHowler,
		SpeciesMarmoset,
		SpeciesNight,
		SpeciesSaki,
		SpeciesSpider,
		SpeciesSquirrel,
		SpeciesTamarin,
		SpeciesTiti,
		SpeciesUakaris,
		SpeciesWoolly,
		SpeciesWoollySpider,
	}
}

// Valid reports whether s is a known species.
func (s Species) Valid() bool {
	for _, known := range AllSpecies() {
		if s == known {
			return true
		}
	}
	return false
}

// Sex of a resident.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Valid reports whether s is a known sex.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// FavoriteFood is the food a resident prefers; it drives the shopping list.
type FavoriteFood string

const (
	FoodNuts    FavoriteFood = "nuts"
	FoodFruits  FavoriteFood = "fruits"
	FoodEggs    FavoriteFood = "eggs"
	FoodSeeds   FavoriteFood = "seeds"
	FoodLeaves  FavoriteFood = "leaves"
	FoodTreeSap FavoriteFood = "tree_sap"
	FoodInsects FavoriteFood = "insects"
)

// AllFoods lists every favorite food in a stable order.
func AllFoods() []FavoriteFood {
	return []FavoriteFood{FoodEggs, FoodFruits, FoodInsects, FoodLeaves, FoodNuts, FoodSeeds, FoodTreeSap}
}

// Valid reports whether f is a known food.
func (f FavoriteFood) Valid() bool {
	for _, known := range AllFoods() {
		if f == known {
			return true
		}
	}
	return false
}

// HealthStatus gates enclosure placement: only healthy residents may share an enclosure.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// Valid reports whether h is a known health status.
func (h HealthStatus) Valid() bool {
	return h == HealthHealthy || h == HealthUnhealthy
}

// Size is the body size class of a resident. Sizes only ever grow.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

type sizeRequirement struct {
	space int // square meters
	food  int // grams per day
}

var sizeTable = map[Size]sizeRequirement{
	SizeSmall:  {space: 1, food: 100},
	SizeMedium: {space: 5, food: 250},
	SizeLarge:  {space: 10, food: 500},
}

// Valid reports whether s is a known size class.
func (s Size) Valid() bool {
	_, ok := sizeTable[s]
	return ok
}

// Space returns the enclosure space in square meters a resident of this size needs.
// Unknown sizes need no space.
func (s Size) Space() int {
	return sizeTable[s].space
}

// FoodRequired returns the daily food requirement in grams.
func (s Size) FoodRequired() int {
	return sizeTable[s].food
}

// UnitKind discriminates the two housing variants.
type UnitKind string

const (
	KindEnclosure UnitKind = "enclosure"
	KindIsolation UnitKind = "isolation"
)

// Valid reports whether k is a known unit kind.
func (k UnitKind) Valid() bool {
	return k == KindEnclosure || k == KindIsolation
}
