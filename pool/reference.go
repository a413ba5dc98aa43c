package pool

import (
	"github.com/plus3/dunepool/encoded"
	"github.com/plus3/dunepool/tile"
)

// EncodeUnit tags a unit index. It returns encoded.None when the index is
// outside the pool or the unit is not allocated, so a reference to a unit
// that is being carried or has been destroyed is never minted.
func (w *World) EncodeUnit(index uint16) encoded.Index {
	if int(index) >= w.units.Cap() || !w.units.Get(index).Flags.Allocated {
		return encoded.None
	}
	return encoded.EncodeUnitRaw(index)
}

// EncodeStructure tags a structure index.
func (w *World) EncodeStructure(index uint16) encoded.Index {
	return encoded.EncodeStructure(index)
}

// IsValid reports whether ref still denotes something. A unit must be
// used and allocated, a structure used; a tile is always valid even when
// it lies off the map.
func (w *World) IsValid(ref encoded.Index) bool {
	switch ref.Type() {
	case encoded.TypeUnit:
		index := ref.Decode()
		if int(index) >= w.units.Cap() {
			return false
		}
		u := w.units.Get(index)
		return u.Flags.Used && u.Flags.Allocated
	case encoded.TypeStructure:
		index := ref.Decode()
		if int(index) >= w.structures.Cap() {
			return false
		}
		return w.structures.Get(index).Flags.Used
	case encoded.TypeTile:
		return true
	default:
		return false
	}
}

// Unit resolves a unit reference. It returns nil for any other variant
// and for a stale reference.
func (w *World) Unit(ref encoded.Index) *Unit {
	if ref.Type() != encoded.TypeUnit || !w.IsValid(ref) {
		return nil
	}
	return w.units.Get(ref.Decode())
}

// Structure resolves a structure reference. It returns nil for any other
// variant and for a stale reference.
func (w *World) Structure(ref encoded.Index) *Structure {
	if ref.Type() != encoded.TypeStructure || !w.IsValid(ref) {
		return nil
	}
	return w.structures.Get(ref.Decode())
}

// Object resolves a unit or structure reference to its common part.
func (w *World) Object(ref encoded.Index) *Object {
	switch ref.Type() {
	case encoded.TypeUnit:
		if u := w.Unit(ref); u != nil {
			return &u.Object
		}
	case encoded.TypeStructure:
		if s := w.Structure(ref); s != nil {
			return &s.Object
		}
	}
	return nil
}

// Tile resolves ref to a position. A tile reference yields the centre of
// its tile, a unit its position and a structure its anchor. Anything else
// yields the zero position and false.
func (w *World) Tile(ref encoded.Index) (tile.Tile32, bool) {
	switch ref.Type() {
	case encoded.TypeTile:
		return ref.Packed().Tile32(), true
	case encoded.TypeUnit:
		if u := w.Unit(ref); u != nil {
			return u.Position, true
		}
	case encoded.TypeStructure:
		if s := w.Structure(ref); s != nil {
			return s.Anchor(), true
		}
	}
	return tile.Tile32{}, false
}

// PackedTile resolves ref to the tile it stands on. Structures report the
// tile of their top-left corner.
func (w *World) PackedTile(ref encoded.Index) (tile.Packed, bool) {
	switch ref.Type() {
	case encoded.TypeTile:
		return ref.Packed(), true
	case encoded.TypeUnit:
		if u := w.Unit(ref); u != nil {
			return u.Position.Pack(), true
		}
	case encoded.TypeStructure:
		if s := w.Structure(ref); s != nil {
			return s.Position.Pack(), true
		}
	}
	return 0, false
}
