package pool

import "fmt"

const (
	houseIndexMax = int(HouseMax)
	teamIndexMax  = 16

	// Structures 0..78 are regular instances, 79..81 the shared slots.
	structureIndexMaxSoft = 79
	structureIndexMaxHard = 82

	unitIndexMaxNormal = 102
	unitIndexMaxRaised = 1000
)

// CapacityMode selects the slot counts for a session.
type CapacityMode uint8

const (
	CapacityNormal CapacityMode = iota
	CapacityRaised
)

func (m CapacityMode) String() string {
	switch m {
	case CapacityNormal:
		return "normal"
	case CapacityRaised:
		return "raised"
	default:
		return fmt.Sprintf("CapacityMode(%d)", uint8(m))
	}
}

// CapacityModeFor maps the raise_unit_cap switch to a mode.
func CapacityModeFor(raised bool) CapacityMode {
	if raised {
		return CapacityRaised
	}
	return CapacityNormal
}

// CapacityPolicy fixes the slot counts of every pool for one session.
// Changing it means re-initialising all pools through World.Reset.
type CapacityPolicy struct {
	mode CapacityMode
}

// NewCapacityPolicy returns the policy for the mode.
func NewCapacityPolicy(mode CapacityMode) CapacityPolicy {
	if mode != CapacityNormal && mode != CapacityRaised {
		panic(fmt.Sprintf("pool: unknown capacity mode %d", mode))
	}
	return CapacityPolicy{mode: mode}
}

func (p CapacityPolicy) Mode() CapacityMode { return p.mode }

// Capacity returns the slot count of a pool.
func (p CapacityPolicy) Capacity(k Kind) int {
	switch k {
	case KindHouse:
		return houseIndexMax
	case KindStructure:
		return structureIndexMaxHard
	case KindUnit:
		if p.mode == CapacityRaised {
			return unitIndexMaxRaised
		}
		return unitIndexMaxNormal
	case KindTeam:
		return teamIndexMax
	default:
		panic(fmt.Sprintf("pool: unknown kind %d", k))
	}
}

// HardCapacity is the largest slot count any mode uses for the kind. An
// index below it but beyond Capacity belongs to a save made with a
// larger mode.
func (p CapacityPolicy) HardCapacity(k Kind) int {
	if k == KindUnit {
		return unitIndexMaxRaised
	}
	return p.Capacity(k)
}

// StructureSoftCapacity is the number of structure slots available to
// regular, non-shared structures.
func (p CapacityPolicy) StructureSoftCapacity() int {
	return structureIndexMaxSoft
}

// UnitRange returns the inclusive index sub-range owned by a unit type.
func (p CapacityPolicy) UnitRange(t UnitType) (start, end uint16) {
	ui := UnitInfoFor(t)
	if p.mode == CapacityRaised {
		return ui.IndexStart, ui.RaisedIndexEnd
	}
	return ui.IndexStart, ui.IndexEnd
}
