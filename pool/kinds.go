package pool

import "fmt"

// IndexInvalid asks Allocate to pick the first free slot. It is also the
// "no link" value stored in index fields such as House.StarportLinkedID.
const IndexInvalid uint16 = 0xFFFF

// TypeAny matches every subtype in a Find.
const TypeAny uint16 = 0xFFFF

// HouseType identifies a house. It doubles as the house's pool index.
type HouseType uint8

const (
	HouseHarkonnen HouseType = iota
	HouseAtreides
	HouseOrdos
	HouseFremen
	HouseSardaukar
	HouseMercenary

	HouseMax HouseType = iota

	// HouseInvalid matches every house in a Find.
	HouseInvalid HouseType = 0xFF
)

var houseNames = [HouseMax]string{
	"Harkonnen", "Atreides", "Ordos", "Fremen", "Sardaukar", "Mercenary",
}

func (h HouseType) String() string {
	if h < HouseMax {
		return houseNames[h]
	}
	if h == HouseInvalid {
		return "any"
	}
	return fmt.Sprintf("House(%d)", uint8(h))
}

// UnitType is a unit subtype.
type UnitType uint8

const (
	UnitCarryall UnitType = iota
	UnitOrnithopter
	UnitInfantry
	UnitTroopers
	UnitSoldier
	UnitTrooper
	UnitSaboteur
	UnitLauncher
	UnitDeviator
	UnitTank
	UnitSiegeTank
	UnitDevastator
	UnitSonicTank
	UnitTrike
	UnitRaiderTrike
	UnitQuad
	UnitHarvester
	UnitMCV
	UnitMissileHouse
	UnitMissileRocket
	UnitMissileTurret
	UnitMissileDeviator
	UnitMissileTrooper
	UnitBullet
	UnitSonicBlast
	UnitSandworm
	UnitFrigate

	UnitMax UnitType = iota

	UnitInvalid UnitType = 0xFF
)

func (t UnitType) String() string {
	if t < UnitMax {
		return unitInfo()[t].Name
	}
	if t == UnitInvalid {
		return "any"
	}
	return fmt.Sprintf("Unit(%d)", uint8(t))
}

// StructureType is a structure subtype.
type StructureType uint8

const (
	StructureSlab1x1 StructureType = iota
	StructureSlab2x2
	StructurePalace
	StructureLightVehicle
	StructureHeavyVehicle
	StructureHighTech
	StructureHouseOfIX
	StructureWOR
	StructureConstructionYard
	StructureWindtrap
	StructureBarracks
	StructureStarport
	StructureRefinery
	StructureRepair
	StructureWall
	StructureTurret
	StructureRocketTurret
	StructureSilo
	StructureOutpost

	StructureMax StructureType = iota

	StructureInvalid StructureType = 0xFF
)

func (t StructureType) String() string {
	if t < StructureMax {
		return structureInfo[t].Name
	}
	if t == StructureInvalid {
		return "any"
	}
	return fmt.Sprintf("Structure(%d)", uint8(t))
}

// Kind names one of the four pools.
type Kind uint8

const (
	KindHouse Kind = iota
	KindStructure
	KindUnit
	KindTeam
)

func (k Kind) String() string {
	switch k {
	case KindHouse:
		return "house"
	case KindStructure:
		return "structure"
	case KindUnit:
		return "unit"
	case KindTeam:
		return "team"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

func houseFilter(h HouseType) HouseType {
	if h < HouseMax {
		return h
	}
	return HouseInvalid
}
