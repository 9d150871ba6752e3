package core

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"sanctuary/pkg/domain"
)

// UUIDGenerator mints random UUID identifiers. It is the default generator.
type UUIDGenerator struct{}

func (UUIDGenerator) NewResidentID() ResidentID {
	return ResidentID(uuid.NewString())
}

func (UUIDGenerator) NewUnitID(UnitKind) UnitID {
	return UnitID(uuid.NewString())
}

// SequenceGenerator mints readable, deterministic identifiers such as ENC1, ISO3 and R7.
// Counters are per generator, so two sanctuaries never share numbering state.
type SequenceGenerator struct {
	mu        sync.Mutex
	residents int
	units     map[UnitKind]int
}

// NewSequenceGenerator returns a generator whose counters start at one.
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{units: make(map[UnitKind]int)}
}

func (g *SequenceGenerator) NewResidentID() ResidentID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.residents++
	return ResidentID(fmt.Sprintf("R%d", g.residents))
}

func (g *SequenceGenerator) NewUnitID(kind UnitKind) UnitID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.units[kind]++
	prefix := "ISO"
	if kind == domain.KindEnclosure {
		prefix = "ENC"
	}
	return UnitID(fmt.Sprintf("%s%d", prefix, g.units[kind]))
}

var (
	_ domain.IDGenerator = UUIDGenerator{}
	_ domain.IDGenerator = (*SequenceGenerator)(nil)
)
