package pool

import (
	"fmt"
	"iter"

	"github.com/plus3/dunepool/encoded"
	"go.uber.org/zap"
)

// Team is a group of units driven by one script.
type Team struct {
	Header
	HouseID     HouseType
	Action      uint8
	ActionStart uint8
	Movement    Movement
	MinMembers  uint16
	MaxMembers  uint16
	Members     uint16
	Target      encoded.Index
	TargetTile  uint16
	Script      Script
}

func (t *Team) header() *Header  { return &t.Header }
func (t *Team) owner() HouseType { return t.HouseID }
func (t *Team) subtype() uint16  { return 0 }

// TeamPool stores the teams of a session.
type TeamPool struct {
	*arena[Team, *Team]
	log *zap.Logger
}

func newTeamPool(policy CapacityPolicy, validation *Validation, log *zap.Logger) *TeamPool {
	return &TeamPool{
		arena: newArena[Team](KindTeam, policy, validation),
		log:   log,
	}
}

// Init clears the pool.
func (p *TeamPool) Init() {
	p.reset()
}

// Allocate claims slot index, or the first free slot when index is
// IndexInvalid. It returns nil when the slot is taken or the pool full.
func (p *TeamPool) Allocate(index uint16, house HouseType) *Team {
	if house >= HouseMax {
		panic(fmt.Sprintf("pool: team owner %d out of range", house))
	}

	if index == IndexInvalid {
		free, ok := p.firstFree(0, p.Cap()-1)
		if !ok {
			p.log.Debug("team pool exhausted", zap.Stringer("house", house))
			return nil
		}
		index = free
	} else if p.Get(index).Flags.Used {
		return nil
	}

	t := p.claim(index)
	t.HouseID = house
	t.Script.Reset()
	p.link(t)
	return t
}

// Free releases the slot.
func (p *TeamPool) Free(t *Team) {
	t.Flags = Flags{}
	t.Script.Reset()
	if !p.unlink(t) {
		panic(fmt.Sprintf("pool: team %d is not live", t.Index))
	}
}

// Recount rebuilds the live list from the used slots.
func (p *TeamPool) Recount() {
	p.recount(p.Cap())
}

// FindFirst starts a walk over the teams of house.
func (p *TeamPool) FindFirst(f *Find, house HouseType) *Team {
	*f = newFind(house, TypeAny)
	return p.FindNext(f)
}

// FindNext continues a walk started by FindFirst.
func (p *TeamPool) FindNext(f *Find) *Team {
	return p.next(f)
}

// All iterates the teams of house.
func (p *TeamPool) All(house HouseType) iter.Seq[*Team] {
	return p.all(house, TypeAny)
}
