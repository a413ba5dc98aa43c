package tile

// Cell is the per-tile state the pools share with the map. Walls and
// concrete slabs keep their real state here rather than in a Structure.
type Cell struct {
	GroundTileID  uint16
	OverlayTileID uint16
	HouseID       uint8
	IsUnveiled    bool
	HasUnit       bool
	HasStructure  bool
	HasExplosion  bool
	// Index is the raw pool index of the unit or structure on the tile.
	Index uint16
}

// Map is the whole map buffer. It is a value type so a copy is a full
// checkpoint.
type Map struct {
	Cells    [MapSize * MapSize]Cell
	SpriteID [MapSize * MapSize]uint16
}

// At returns the cell at p, or nil when p is off the map.
func (m *Map) At(p Packed) *Cell {
	if p.IsOutOfMap() || int(p) >= len(m.Cells) {
		return nil
	}
	return &m.Cells[p]
}

// Reset clears every cell.
func (m *Map) Reset() {
	*m = Map{}
}
