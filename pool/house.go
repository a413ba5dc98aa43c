package pool

import (
	"fmt"
	"iter"

	"go.uber.org/zap"
)

// House is a player or AI faction. Its pool index is its HouseType.
type House struct {
	Header
	Human        bool
	Credits      uint16
	CreditsQuota uint16
	// UnitCount is maintained by the unit pool. UnitCountMax caps it
	// while validation is strict.
	UnitCount    uint16
	UnitCountMax uint16

	StarportLinkedID  uint16
	StructureActiveID uint16
	HouseMissileID    uint16
	StarportQueue     BuildQueue
}

func (h *House) header() *Header  { return &h.Header }
func (h *House) owner() HouseType { return HouseType(h.Index) }
func (h *House) subtype() uint16  { return 0 }

// ID returns the house's type.
func (h *House) ID() HouseType { return HouseType(h.Index) }

// HousePool stores the houses of a session.
type HousePool struct {
	*arena[House, *House]
	log *zap.Logger
}

func newHousePool(policy CapacityPolicy, validation *Validation, log *zap.Logger) *HousePool {
	return &HousePool{
		arena: newArena[House](KindHouse, policy, validation),
		log:   log,
	}
}

// Init clears the pool.
func (p *HousePool) Init() {
	p.reset()
}

// ByID returns the house slot of id, used or not.
func (p *HousePool) ByID(id HouseType) *House {
	return p.Get(uint16(id))
}

// Allocate claims the slot of id, or the first free slot when id is
// HouseInvalid. It returns nil when the slot is taken or the pool full.
func (p *HousePool) Allocate(id HouseType) *House {
	var index uint16
	if id == HouseInvalid {
		free, ok := p.firstFree(0, p.Cap()-1)
		if !ok {
			p.log.Debug("house pool exhausted")
			return nil
		}
		index = free
	} else {
		index = uint16(id)
		if p.Get(index).Flags.Used {
			return nil
		}
	}

	h := p.claim(index)
	h.StarportLinkedID = IndexInvalid
	h.StructureActiveID = IndexInvalid
	h.HouseMissileID = IndexInvalid
	p.link(h)
	return h
}

// Free releases the starport queue and the slot.
func (p *HousePool) Free(h *House) {
	h.StarportQueue.Free()
	h.Flags = Flags{}
	if !p.unlink(h) {
		panic(fmt.Sprintf("pool: house %d is not live", h.Index))
	}
}

// Recount rebuilds the live list from the used slots.
func (p *HousePool) Recount() {
	p.recount(p.Cap())
}

// FindFirst starts a walk over the houses matching house.
func (p *HousePool) FindFirst(f *Find, house HouseType) *House {
	*f = newFind(house, TypeAny)
	return p.FindNext(f)
}

// FindNext continues a walk started by FindFirst.
func (p *HousePool) FindNext(f *Find) *House {
	return p.next(f)
}

// All iterates the houses matching house.
func (p *HousePool) All(house HouseType) iter.Seq[*House] {
	return p.all(house, TypeAny)
}
