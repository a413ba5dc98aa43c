package pool

import "github.com/plus3/dunepool/tile"

// Layout is a structure footprint.
type Layout uint8

const (
	Layout1x1 Layout = iota
	Layout2x1
	Layout1x2
	Layout2x2
	Layout2x3
	Layout3x2
	Layout3x3
)

// layoutTileDiff is the offset from a structure's top-left corner to the
// anchor used for distances and selection.
var layoutTileDiff = [...]tile.Tile32{
	Layout1x1: {X: 0x0080, Y: 0x0080},
	Layout2x1: {X: 0x0100, Y: 0x0080},
	Layout1x2: {X: 0x0080, Y: 0x0100},
	Layout2x2: {X: 0x0100, Y: 0x0100},
	Layout2x3: {X: 0x0100, Y: 0x0180},
	Layout3x2: {X: 0x0180, Y: 0x0100},
	Layout3x3: {X: 0x0180, Y: 0x0180},
}

// AnchorOffset returns the footprint anchor of the layout.
func (l Layout) AnchorOffset() tile.Tile32 {
	return layoutTileDiff[l]
}

// StructureInfo is the static per-type data the pool needs.
type StructureInfo struct {
	Name   string
	Layout Layout
}

var structureInfo = [StructureMax]StructureInfo{
	StructureSlab1x1:          {"Concrete Slab", Layout1x1},
	StructureSlab2x2:          {"Concrete Slab 2x2", Layout2x2},
	StructurePalace:           {"Palace", Layout3x3},
	StructureLightVehicle:     {"Light Factory", Layout2x2},
	StructureHeavyVehicle:     {"Heavy Factory", Layout3x2},
	StructureHighTech:         {"Hi-Tech Factory", Layout3x2},
	StructureHouseOfIX:        {"House of IX", Layout2x2},
	StructureWOR:              {"WOR", Layout2x2},
	StructureConstructionYard: {"Construction Yard", Layout2x2},
	StructureWindtrap:         {"Windtrap", Layout2x2},
	StructureBarracks:         {"Barracks", Layout2x2},
	StructureStarport:         {"Starport", Layout3x3},
	StructureRefinery:         {"Refinery", Layout3x2},
	StructureRepair:           {"Repair Facility", Layout3x2},
	StructureWall:             {"Wall", Layout1x1},
	StructureTurret:           {"Gun Turret", Layout1x1},
	StructureRocketTurret:     {"Rocket Turret", Layout1x1},
	StructureSilo:             {"Spice Silo", Layout2x2},
	StructureOutpost:          {"Radar Outpost", Layout2x2},
}

// StructureInfoFor returns the static data of a structure type.
func StructureInfoFor(t StructureType) *StructureInfo {
	return &structureInfo[t]
}
