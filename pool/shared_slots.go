package pool

// Walls and concrete slabs keep their real state on the map. The
// structure pool holds one record per type for them, at fixed indices
// above the regular range. Those records are never in the live list and
// never released; every Find pass reports them after the live list in
// the order Wall, Slab 2x2, Slab 1x1.
const (
	StructureIndexWall    uint16 = 79
	StructureIndexSlab2x2 uint16 = 80
	StructureIndexSlab1x1 uint16 = 81
)

var sharedSlotTail = []uint16{
	StructureIndexWall,
	StructureIndexSlab2x2,
	StructureIndexSlab1x1,
}

// SharesPoolElement reports whether all structures of type t share one
// pool record.
func SharesPoolElement(t StructureType) bool {
	return t == StructureSlab1x1 || t == StructureSlab2x2 || t == StructureWall
}

// SharedSlot returns the fixed index of a shared structure type.
func SharedSlot(t StructureType) (uint16, bool) {
	switch t {
	case StructureWall:
		return StructureIndexWall, true
	case StructureSlab2x2:
		return StructureIndexSlab2x2, true
	case StructureSlab1x1:
		return StructureIndexSlab1x1, true
	default:
		return 0, false
	}
}

// IsSharedSlot reports whether index is one of the shared slots.
func IsSharedSlot(index uint16) bool {
	return index >= StructureIndexWall && index <= StructureIndexSlab1x1
}
