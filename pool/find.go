package pool

// Find is a resumable cursor over one pool's live list. It holds a
// position, not a pointer, so it stays usable across allocations; a Free
// during the walk shifts later entries down and the cursor skips one.
// Systems that free while walking queue the frees on Commands instead.
type Find struct {
	// House limits the walk to one house, HouseInvalid for all.
	House HouseType
	// Type limits the walk to one subtype, TypeAny for all.
	Type  uint16
	index int
}

func newFind(house HouseType, typ uint16) Find {
	return Find{
		House: houseFilter(house),
		Type:  typ,
		index: -1,
	}
}
