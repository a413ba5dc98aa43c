package pool

import (
	"fmt"
	"iter"

	"github.com/plus3/dunepool/tile"
	"go.uber.org/zap"
)

// Structure is a building.
type Structure struct {
	Object
	CreatorHouseID HouseType
	ObjectType     uint8
	UpgradeLevel   uint8
	UpgradeTime    uint8
	State          int16
	CountDown      uint16
	BuildCost      uint16
	Queue          BuildQueue
}

func (s *Structure) header() *Header  { return &s.Header }
func (s *Structure) owner() HouseType { return s.HouseID }
func (s *Structure) subtype() uint16  { return uint16(s.Type) }

// StructureType returns the structure's subtype.
func (s *Structure) StructureType() StructureType { return StructureType(s.Type) }

// Anchor returns the position distance and selection logic use: the
// top-left corner moved to the middle of the footprint.
func (s *Structure) Anchor() tile.Tile32 {
	return s.Position.Add(StructureInfoFor(s.StructureType()).Layout.AnchorOffset())
}

// StructurePool stores the structures of a session, including the three
// shared wall and slab records.
type StructurePool struct {
	*arena[Structure, *Structure]
	soft int
	log  *zap.Logger
}

func newStructurePool(policy CapacityPolicy, validation *Validation, log *zap.Logger) *StructurePool {
	p := &StructurePool{
		arena: newArena[Structure](KindStructure, policy, validation),
		soft:  policy.StructureSoftCapacity(),
		log:   log,
	}
	p.tail = sharedSlotTail
	return p
}

// Init clears the pool and sets up the shared slots.
func (p *StructurePool) Init() {
	p.reset()

	p.Allocate(0, StructureSlab1x1, HouseHarkonnen)
	p.Allocate(0, StructureSlab2x2, HouseHarkonnen)
	p.Allocate(0, StructureWall, HouseHarkonnen)
}

// SoftCap returns the number of slots regular structures may use.
func (p *StructurePool) SoftCap() int {
	return p.soft
}

// Allocate claims slot index, or the first free regular slot when index
// is IndexInvalid, and returns nil when the slot is taken or the pool is
// full. Walls and slabs ignore index: they reset and return their shared
// slot, which stays out of the live list.
func (p *StructurePool) Allocate(index uint16, typ StructureType, house HouseType) *Structure {
	if typ >= StructureMax {
		panic(fmt.Sprintf("pool: structure type %d out of range", typ))
	}
	if house >= HouseMax {
		panic(fmt.Sprintf("pool: structure owner %d out of range", house))
	}

	shared, isShared := SharedSlot(typ)
	switch {
	case isShared:
		index = shared
	case index == IndexInvalid:
		free, ok := p.firstFree(0, p.soft-1)
		if !ok {
			p.log.Debug("structure pool exhausted", zap.Stringer("type", typ), zap.Stringer("house", house))
			return nil
		}
		index = free
	case int(index) >= p.soft:
		panic(fmt.Sprintf("pool: structure index %d outside regular range [0,%d)", index, p.soft))
	case p.Get(index).Flags.Used:
		return nil
	}

	s := p.claim(index)
	s.Type = uint8(typ)
	s.HouseID = house
	s.CreatorHouseID = house
	s.LinkedID = linkNone
	s.Script.Reset()

	if !isShared {
		p.link(s)
	}
	return s
}

// Free releases the build queue and script state. A regular structure
// also gives up its slot; a shared one keeps it and stays enumerable.
func (p *StructurePool) Free(s *Structure) {
	s.Queue.Free()
	s.Script.Reset()

	if IsSharedSlot(s.Index) {
		return
	}

	s.Flags = Flags{}
	if !p.unlink(s) {
		panic(fmt.Sprintf("pool: structure %d is not live", s.Index))
	}
}

// Recount rebuilds the live list from the used regular slots.
func (p *StructurePool) Recount() {
	p.recount(p.soft)
}

// FindFirst starts a walk over the structures matching house and typ,
// the shared slots included. Either filter may be a wildcard
// (HouseInvalid, StructureInvalid).
func (p *StructurePool) FindFirst(f *Find, house HouseType, typ StructureType) *Structure {
	*f = newFind(house, structureFilter(typ))
	return p.FindNext(f)
}

// FindNext continues a walk started by FindFirst.
func (p *StructurePool) FindNext(f *Find) *Structure {
	return p.next(f)
}

// All iterates the structures matching house and typ.
func (p *StructurePool) All(house HouseType, typ StructureType) iter.Seq[*Structure] {
	return p.all(house, structureFilter(typ))
}

func structureFilter(t StructureType) uint16 {
	if t < StructureMax {
		return uint16(t)
	}
	return TypeAny
}
