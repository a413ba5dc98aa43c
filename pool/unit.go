package pool

import (
	"fmt"
	"iter"

	"github.com/plus3/dunepool/encoded"
	"go.uber.org/zap"
)

// squadNone marks a unit outside any squad.
const squadNone = 0xFFFF

// Unit is a mobile object: vehicles, infantry, aircraft, projectiles and
// sandworms.
type Unit struct {
	Object
	Amount       uint8
	Deviated     uint8
	DeviatedBy   HouseType
	Orientation  int8
	Team         uint8
	Route        [14]uint8
	TargetMove   encoded.Index
	TargetAttack encoded.Index
	Origin       encoded.Index
	SquadID      uint16

	PermanentFollow  bool
	DetonateAtTarget bool
}

func (u *Unit) header() *Header { return &u.Header }
func (u *Unit) subtype() uint16 { return uint16(u.Type) }

func (u *Unit) owner() HouseType { return u.Owner() }

// UnitType returns the unit's subtype.
func (u *Unit) UnitType() UnitType { return UnitType(u.Type) }

// Owner returns the house the unit currently fights for. It differs from
// HouseID while the unit is deviated.
func (u *Unit) Owner() HouseType {
	if u.Deviated != 0 {
		return u.DeviatedBy
	}
	return u.HouseID
}

// UnitPool stores the units of a session. Each unit type owns an index
// sub-range; automatic allocation only scans that range.
type UnitPool struct {
	*arena[Unit, *Unit]
	policy CapacityPolicy
	houses *HousePool
	log    *zap.Logger
}

func newUnitPool(policy CapacityPolicy, validation *Validation, houses *HousePool, log *zap.Logger) *UnitPool {
	return &UnitPool{
		arena:  newArena[Unit](KindUnit, policy, validation),
		policy: policy,
		houses: houses,
		log:    log,
	}
}

// Init clears the pool.
func (p *UnitPool) Init() {
	p.reset()
}

// Allocate claims slot index, or the first free slot of typ's sub-range
// when index is IndexInvalid. It returns nil when the slot is taken, the
// sub-range is full, or house has reached its unit cap while validation
// is strict. Air units and sandworms ignore the cap.
func (p *UnitPool) Allocate(index uint16, typ UnitType, house HouseType) *Unit {
	if typ >= UnitMax {
		panic(fmt.Sprintf("pool: unit type %d out of range", typ))
	}
	if house >= HouseMax {
		panic(fmt.Sprintf("pool: unit owner %d out of range", house))
	}

	ui := UnitInfoFor(typ)
	h := p.houses.ByID(house)

	if p.validation.Strict() && h.UnitCount >= h.UnitCountMax && !ui.ExemptFromHouseCap() {
		p.log.Debug("house unit cap reached",
			zap.Stringer("house", house), zap.Stringer("type", typ),
			zap.Uint16("count", h.UnitCount), zap.Uint16("max", h.UnitCountMax))
		return nil
	}

	if index == IndexInvalid {
		start, end := p.policy.UnitRange(typ)
		free, ok := p.firstFree(int(start), int(end))
		if !ok {
			p.log.Debug("unit pool exhausted", zap.Stringer("type", typ),
				zap.Uint16("start", start), zap.Uint16("end", end))
			return nil
		}
		index = free
	} else if p.Get(index).Flags.Used {
		return nil
	}

	h.UnitCount++

	u := p.claim(index)
	u.Type = uint8(typ)
	u.HouseID = house
	u.LinkedID = linkNone
	u.Flags.IsUnit = true
	u.Script.Reset()
	u.Route[0] = 0xFF
	u.SquadID = squadNone
	if typ == UnitSandworm {
		u.Amount = 3
	}

	p.link(u)
	return u
}

// Free releases the unit's script state and slot.
func (p *UnitPool) Free(u *Unit) {
	u.Flags = Flags{}
	u.Script.Reset()

	if !p.unlink(u) {
		panic(fmt.Sprintf("pool: unit %d is not live", u.Index))
	}

	h := p.houses.ByID(u.HouseID)
	if h.UnitCount > 0 {
		h.UnitCount--
	}
}

// Recount rebuilds the live list from the used slots and recomputes every
// house's UnitCount.
func (p *UnitPool) Recount() {
	for i := range p.houses.Cap() {
		p.houses.Get(uint16(i)).UnitCount = 0
	}

	p.recount(p.Cap())

	for _, index := range p.live {
		u := p.Get(index)
		p.houses.ByID(u.HouseID).UnitCount++
	}
}

// FindFirst starts a walk over the units matching house and typ. Either
// may be a wildcard (HouseInvalid, UnitInvalid).
func (p *UnitPool) FindFirst(f *Find, house HouseType, typ UnitType) *Unit {
	*f = newFind(house, unitFilter(typ))
	return p.FindNext(f)
}

// FindNext continues a walk started by FindFirst.
func (p *UnitPool) FindNext(f *Find) *Unit {
	return p.next(f)
}

// All iterates the units matching house and typ.
func (p *UnitPool) All(house HouseType, typ UnitType) iter.Seq[*Unit] {
	return p.all(house, unitFilter(typ))
}

func unitFilter(t UnitType) uint16 {
	if t < UnitMax {
		return uint16(t)
	}
	return TypeAny
}
