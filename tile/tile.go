// Package tile holds the coordinate types shared by the pools and the
// encoded reference codec.
//
// A Packed tile is (y << 6) | x on a 64x64 map. A Tile32 is the "real"
// position: the high byte of each axis is the tile, the low byte the
// offset inside it, so 0x80 is the centre of a tile.
package tile

import "fmt"

// MapSize is the width and height of the largest map, in tiles.
const MapSize = 64

// Packed is a tile coordinate packed into 12 bits.
type Packed uint16

// PackXY packs a tile coordinate.
func PackXY(x, y uint16) Packed {
	return Packed(y<<6 | x)
}

// X returns the column of the packed tile.
func (p Packed) X() uint8 {
	return uint8(p & 0x3F)
}

// Y returns the row of the packed tile.
func (p Packed) Y() uint8 {
	return uint8((p >> 6) & 0x3F)
}

// IsOutOfMap reports whether either axis falls off the largest map.
func (p Packed) IsOutOfMap() bool {
	return p&0xF000 != 0
}

// Tile32 returns the centre of the packed tile.
func (p Packed) Tile32() Tile32 {
	return Tile32{
		X: uint16(p.X())<<8 | 0x80,
		Y: uint16(p.Y())<<8 | 0x80,
	}
}

func (p Packed) String() string {
	return fmt.Sprintf("(%d,%d)", p.X(), p.Y())
}

// Tile32 is a sub-tile position.
type Tile32 struct {
	X, Y uint16
}

// MakeXY returns the top-left corner of tile (x, y).
func MakeXY(x, y uint16) Tile32 {
	return Tile32{X: x << 8, Y: y << 8}
}

// IsValid reports whether the position lies inside the addressable range.
func (t Tile32) IsValid() bool {
	return t.X&0xC000 == 0 && t.Y&0xC000 == 0
}

// Pack returns the tile that contains the position.
func (t Tile32) Pack() Packed {
	return PackXY(t.X>>8, t.Y>>8)
}

// Add offsets the position by d.
func (t Tile32) Add(d Tile32) Tile32 {
	return Tile32{X: t.X + d.X, Y: t.Y + d.Y}
}

func (t Tile32) String() string {
	return fmt.Sprintf("0x%04X:0x%04X", t.X, t.Y)
}
