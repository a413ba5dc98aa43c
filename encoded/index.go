// Package encoded implements the 16-bit tagged reference used wherever a
// single field may point at a unit, a structure or a map tile.
//
// Layout, high bit first:
//
//	None      00__ ____ ____ ____
//	Unit      01ii iiii iiii iiii   i = unit index
//	Structure 10ii iiii iiii iiii   i = structure index
//	Tile      11yy yyyy 1xxx xxx1   (x, y) = tile coordinate
//
// The pure half of the codec lives here. Checks that need the pools
// (is the unit allocated, where is the structure) live on pool.World.
package encoded

import (
	"fmt"

	"github.com/plus3/dunepool/tile"
)

// Type is the variant selected by the two high bits.
type Type uint8

const (
	TypeNone Type = iota
	TypeUnit
	TypeStructure
	TypeTile
)

func (t Type) String() string {
	switch t {
	case TypeUnit:
		return "unit"
	case TypeStructure:
		return "structure"
	case TypeTile:
		return "tile"
	default:
		return "none"
	}
}

const (
	tagMask       = 0xC000
	tagUnit       = 0x4000
	tagStructure  = 0x8000
	tagTile       = 0xC000
	rawIndexMask  = 0x3FFF
	tileMarkerX   = 0x0001
	tileMarkerY   = 0x0080
	tileXMask     = 0x007E
	tileYMask     = 0x3F00
	coordinateMax = 0x3F
)

// MaxIndex is the largest raw index a unit or structure reference holds.
const MaxIndex = rawIndexMask

// Index is an encoded reference. The zero value means no reference.
type Index uint16

// None is the empty reference.
const None Index = 0

// Type extracts the variant.
func (e Index) Type() Type {
	switch e & tagMask {
	case tagUnit:
		return TypeUnit
	case tagStructure:
		return TypeStructure
	case tagTile:
		return TypeTile
	default:
		return TypeNone
	}
}

// IsNone reports whether the reference carries no variant.
func (e Index) IsNone() bool {
	return e.Type() == TypeNone
}

// Decode strips the tag. For a tile reference the result is the packed
// tile, otherwise the raw pool index.
func (e Index) Decode() uint16 {
	if e.Type() == TypeTile {
		return uint16(e.Packed())
	}
	return uint16(e & rawIndexMask)
}

// Packed unpacks a tile reference. Other variants yield tile 0.
func (e Index) Packed() tile.Packed {
	if e.Type() != TypeTile {
		return 0
	}
	y := (uint16(e) & tileYMask) >> 8
	x := (uint16(e) & tileXMask) >> 1
	return tile.PackXY(x, y)
}

func (e Index) String() string {
	switch e.Type() {
	case TypeUnit:
		return fmt.Sprintf("unit#%d", e.Decode())
	case TypeStructure:
		return fmt.Sprintf("structure#%d", e.Decode())
	case TypeTile:
		return "tile" + e.Packed().String()
	default:
		return "none"
	}
}

// EncodeTile packs a tile coordinate. Only the low six bits of each axis
// are kept.
func EncodeTile(x, y uint8) Index {
	ex := uint16(x&coordinateMax)<<1 | tileMarkerX
	ey := uint16(y&coordinateMax)<<8 | tileMarkerY
	return Index(tagTile | ey | ex)
}

// EncodePacked is EncodeTile for an already packed coordinate.
func EncodePacked(p tile.Packed) Index {
	return EncodeTile(p.X(), p.Y())
}

// EncodeStructure tags a structure index. The slot is not checked.
func EncodeStructure(index uint16) Index {
	return Index(tagStructure | index&rawIndexMask)
}

// EncodeUnitRaw tags a unit index without checking the slot. Gameplay
// code goes through pool.World.EncodeUnit, which refuses absent units.
func EncodeUnitRaw(index uint16) Index {
	return Index(tagUnit | index&rawIndexMask)
}
