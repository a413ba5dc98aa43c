package mapgen

import (
	"errors"
	"fmt"

	"github.com/plus3/dunepool/pool"
	"github.com/plus3/dunepool/tile"
)

// ErrUnplayable reports a seed whose landscape cannot host every base.
var ErrUnplayable = errors.New("unplayable map")

// Ground tiles written by Skirmish.
const (
	GroundSand uint16 = iota
	GroundRock
	GroundSpice
)

// OverlayWall marks a wall tile.
const OverlayWall uint16 = 1

const (
	baseTries = 64
	unitReach = 3
	wormTries = 32
)

var startingLineup = []pool.UnitType{
	pool.UnitHarvester,
	pool.UnitTank,
	pool.UnitTrike,
	pool.UnitQuad,
	pool.UnitInfantry,
}

// Skirmish is the stock Builder: a sand, rock and spice landscape with one
// construction yard, a wall and a starting force per house, plus a few
// sandworms.
type Skirmish struct {
	Houses        []pool.HouseType
	RockPercent   uint16
	SpicePercent  uint16
	UnitsPerHouse int
	Worms         int
	UnitCountMax  uint16
	Credits       uint16
}

// DefaultSkirmish returns a two house skirmish.
func DefaultSkirmish() *Skirmish {
	return &Skirmish{
		Houses:        []pool.HouseType{pool.HouseAtreides, pool.HouseHarkonnen},
		RockPercent:   35,
		SpicePercent:  10,
		UnitsPerHouse: 5,
		Worms:         2,
		UnitCountMax:  25,
		Credits:       1000,
	}
}

// Build implements Builder. It replaces everything in w.
func (s *Skirmish) Build(w *pool.World, seed uint32) error {
	r := newLCG(seed)
	w.Init()

	s.landscape(w.Map(), r)
	for _, id := range s.Houses {
		if err := s.placeHouse(w, r, id); err != nil {
			return err
		}
	}
	s.placeWorms(w, r)
	return nil
}

func (s *Skirmish) landscape(m *tile.Map, r *lcg) {
	for i := range m.Cells {
		v := r.rangeIn(0, 99)
		switch {
		case v < s.RockPercent:
			m.Cells[i].GroundTileID = GroundRock
		case v < s.RockPercent+s.SpicePercent:
			m.Cells[i].GroundTileID = GroundSpice
		default:
			m.Cells[i].GroundTileID = GroundSand
		}
	}
}

func (s *Skirmish) placeHouse(w *pool.World, r *lcg, id pool.HouseType) error {
	h := w.Houses().ByID(id)
	if !h.Flags.Used {
		h = w.Houses().Allocate(id)
	}
	h.UnitCountMax = s.UnitCountMax
	h.Credits = s.Credits

	m := w.Map()
	x, y, ok := findBase(m, r)
	if !ok {
		return fmt.Errorf("%w: no room for the %s base", ErrUnplayable, id)
	}

	yard := w.Structures().Allocate(pool.IndexInvalid, pool.StructureConstructionYard, id)
	if yard == nil {
		return fmt.Errorf("%w: structure pool full", ErrUnplayable)
	}
	yard.Position = tile.MakeXY(uint16(x), uint16(y))
	yard.HitPoints = 400
	h.StructureActiveID = yard.Index
	for dy := range 2 {
		for dx := range 2 {
			occupy(m.At(tile.PackXY(uint16(x+dx), uint16(y+dy))), id, yard.Index, false)
		}
	}

	if x > 0 {
		if c := m.At(tile.PackXY(uint16(x-1), uint16(y))); c.GroundTileID == GroundRock && !c.HasStructure && !c.HasUnit {
			wall := w.Structures().Allocate(pool.IndexInvalid, pool.StructureWall, id)
			occupy(c, id, wall.Index, false)
			c.OverlayTileID = OverlayWall
		}
	}

	origin := w.EncodeStructure(yard.Index)
	for i := range s.UnitsPerHouse {
		typ := startingLineup[i%len(startingLineup)]
		p, ok := findFree(m, x, y)
		if !ok {
			return fmt.Errorf("%w: no room for the %s units", ErrUnplayable, id)
		}
		u := w.Units().Allocate(pool.IndexInvalid, typ, id)
		if u == nil {
			return fmt.Errorf("%w: unit pool full for %s", ErrUnplayable, typ)
		}
		u.Position = p.Tile32()
		u.HitPoints = 100
		u.Origin = origin
		occupy(m.At(p), id, u.Index, true)
	}
	return nil
}

func (s *Skirmish) placeWorms(w *pool.World, r *lcg) {
	m := w.Map()
	for range s.Worms {
		for range wormTries {
			p := tile.PackXY(r.rangeIn(0, tile.MapSize-1), r.rangeIn(0, tile.MapSize-1))
			c := m.At(p)
			if c.GroundTileID != GroundSand || c.HasUnit || c.HasStructure {
				continue
			}
			u := w.Units().Allocate(pool.IndexInvalid, pool.UnitSandworm, pool.HouseFremen)
			if u == nil {
				return
			}
			u.Position = p.Tile32()
			occupy(c, pool.HouseFremen, u.Index, true)
			break
		}
	}
}

// findBase looks for a free 2x2 block of rock.
func findBase(m *tile.Map, r *lcg) (x, y int, ok bool) {
	for range baseTries {
		bx := int(r.rangeIn(1, tile.MapSize-2))
		by := int(r.rangeIn(1, tile.MapSize-2))
		if rockBlock(m, bx, by) {
			return bx, by, true
		}
	}
	return 0, 0, false
}

func rockBlock(m *tile.Map, x, y int) bool {
	for dy := range 2 {
		for dx := range 2 {
			c := m.At(tile.PackXY(uint16(x+dx), uint16(y+dy)))
			if c == nil || c.GroundTileID != GroundRock || c.HasStructure || c.HasUnit {
				return false
			}
		}
	}
	return true
}

// findFree scans outwards from the base corner for an empty tile.
func findFree(m *tile.Map, x, y int) (tile.Packed, bool) {
	for dy := -unitReach; dy <= unitReach+1; dy++ {
		for dx := -unitReach; dx <= unitReach+1; dx++ {
			tx, ty := x+dx, y+dy
			if tx < 0 || ty < 0 || tx >= tile.MapSize || ty >= tile.MapSize {
				continue
			}
			p := tile.PackXY(uint16(tx), uint16(ty))
			if c := m.At(p); !c.HasUnit && !c.HasStructure {
				return p, true
			}
		}
	}
	return 0, false
}

func occupy(c *tile.Cell, house pool.HouseType, index uint16, unit bool) {
	c.HouseID = uint8(house)
	c.Index = index
	c.IsUnveiled = true
	if unit {
		c.HasUnit = true
	} else {
		c.HasStructure = true
	}
}
