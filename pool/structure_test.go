package pool_test

import (
	"testing"

	"github.com/plus3/dunepool/pool"
	"github.com/plus3/dunepool/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructureSharedSlots(t *testing.T) {
	t.Run("initialised with the pool", func(t *testing.T) {
		w := newTestWorld(t)
		structures := w.Structures()

		assert.Equal(t, 0, structures.Len())
		assert.Equal(t, 82, structures.Cap())
		assert.Equal(t, 79, structures.SoftCap())

		for _, typ := range []pool.StructureType{pool.StructureWall, pool.StructureSlab2x2, pool.StructureSlab1x1} {
			index, ok := pool.SharedSlot(typ)
			require.True(t, ok)
			s := structures.Get(index)
			assert.True(t, s.Flags.Used, typ.String())
			assert.Equal(t, typ, s.StructureType())
			assert.True(t, pool.IsSharedSlot(index))
			assert.True(t, pool.SharesPoolElement(typ))
		}

		assert.False(t, pool.SharesPoolElement(pool.StructureRefinery))
		_, ok := pool.SharedSlot(pool.StructureRefinery)
		assert.False(t, ok)
	})

	t.Run("allocation ignores the requested index", func(t *testing.T) {
		w := newTestWorld(t)
		structures := w.Structures()

		wall := structures.Allocate(5, pool.StructureWall, pool.HouseAtreides)
		require.NotNil(t, wall)
		assert.Equal(t, pool.StructureIndexWall, wall.Index)
		assert.Equal(t, pool.HouseAtreides, wall.HouseID)
		assert.False(t, structures.Get(5).Flags.Used)
		assert.Equal(t, 0, structures.Len())

		again := structures.Allocate(pool.IndexInvalid, pool.StructureWall, pool.HouseOrdos)
		assert.Same(t, wall, again, "one record for every wall")
	})

	t.Run("reported after the live list", func(t *testing.T) {
		w := newTestWorld(t)
		structures := w.Structures()

		require.NotNil(t, structures.Allocate(pool.IndexInvalid, pool.StructureRefinery, pool.HouseHarkonnen))
		require.NotNil(t, structures.Allocate(pool.IndexInvalid, pool.StructureWindtrap, pool.HouseHarkonnen))

		assert.Equal(t, []uint16{0, 1, 79, 80, 81}, collectStructures(w, pool.HouseInvalid, pool.StructureInvalid))
		assert.Equal(t, []uint16{79}, collectStructures(w, pool.HouseInvalid, pool.StructureWall))
		assert.Equal(t, []uint16{1}, collectStructures(w, pool.HouseHarkonnen, pool.StructureWindtrap))
		assert.Empty(t, collectStructures(w, pool.HouseAtreides, pool.StructureInvalid))
	})

	t.Run("free keeps the shared record enumerable", func(t *testing.T) {
		w := newTestWorld(t)
		structures := w.Structures()

		slab := structures.Allocate(pool.IndexInvalid, pool.StructureSlab2x2, pool.HouseHarkonnen)
		require.True(t, slab.Queue.Add(pool.BuildItem{ObjectType: 1, Count: 1}))
		slab.Script.Delay = 9

		structures.Free(slab)
		structures.Free(slab)

		assert.Zero(t, slab.Queue.Len())
		assert.Zero(t, slab.Script.Delay)
		assert.True(t, slab.Flags.Used)
		assert.Equal(t, []uint16{79, 80, 81}, collectStructures(w, pool.HouseInvalid, pool.StructureInvalid))
	})
}

func TestStructureAllocate(t *testing.T) {
	t.Run("regular range", func(t *testing.T) {
		w := newTestWorld(t)
		structures := w.Structures()

		for i := range structures.SoftCap() {
			s := structures.Allocate(pool.IndexInvalid, pool.StructureSilo, pool.HouseOrdos)
			require.NotNil(t, s)
			assert.Equal(t, uint16(i), s.Index)
		}
		assert.Nil(t, structures.Allocate(pool.IndexInvalid, pool.StructureSilo, pool.HouseOrdos))
		assert.Equal(t, 79, structures.Len())

		wall := structures.Allocate(pool.IndexInvalid, pool.StructureWall, pool.HouseOrdos)
		assert.NotNil(t, wall, "a full regular range does not affect walls")
	})

	t.Run("explicit index", func(t *testing.T) {
		w := newTestWorld(t)
		structures := w.Structures()

		s := structures.Allocate(12, pool.StructureRefinery, pool.HouseAtreides)
		require.NotNil(t, s)
		assert.Equal(t, uint16(12), s.Index)
		assert.Equal(t, pool.HouseAtreides, s.CreatorHouseID)
		assert.Nil(t, structures.Allocate(12, pool.StructureRefinery, pool.HouseAtreides))

		assert.Panics(t, func() { structures.Allocate(80, pool.StructureRefinery, pool.HouseAtreides) })
		assert.Panics(t, func() { structures.Allocate(pool.IndexInvalid, pool.StructureMax, pool.HouseAtreides) })
	})

	t.Run("free releases the queue and compacts", func(t *testing.T) {
		w := newTestWorld(t)
		structures := w.Structures()

		a := structures.Allocate(pool.IndexInvalid, pool.StructureHeavyVehicle, pool.HouseAtreides)
		b := structures.Allocate(pool.IndexInvalid, pool.StructureLightVehicle, pool.HouseAtreides)
		c := structures.Allocate(pool.IndexInvalid, pool.StructureBarracks, pool.HouseAtreides)
		require.True(t, b.Queue.Add(pool.BuildItem{ObjectType: uint8(pool.UnitTrike), Count: 2}))

		structures.Free(b)
		assert.Zero(t, b.Queue.Len())
		assert.False(t, b.Flags.Used)
		assert.Equal(t, []uint16{a.Index, c.Index}, structures.LiveIndices())
		assert.Panics(t, func() { structures.Free(b) })
	})

	t.Run("recount leaves shared slots out", func(t *testing.T) {
		w := newTestWorld(t)
		structures := w.Structures()

		require.NotNil(t, structures.Allocate(40, pool.StructureTurret, pool.HouseAtreides))
		require.NotNil(t, structures.Allocate(3, pool.StructureTurret, pool.HouseAtreides))
		structures.Recount()

		assert.Equal(t, []uint16{3, 40}, structures.LiveIndices())
		assert.Equal(t, 2, structures.CountOf(uint16(pool.StructureTurret)))
	})
}

func TestStructureAnchor(t *testing.T) {
	w := newTestWorld(t)

	refinery := w.Structures().Allocate(pool.IndexInvalid, pool.StructureRefinery, pool.HouseAtreides)
	refinery.Position = tile.MakeXY(10, 10)
	assert.Equal(t, tile.Tile32{X: 0x0B80, Y: 0x0B00}, refinery.Anchor())

	turret := w.Structures().Allocate(pool.IndexInvalid, pool.StructureTurret, pool.HouseAtreides)
	turret.Position = tile.MakeXY(3, 4)
	assert.Equal(t, tile.PackXY(3, 4).Tile32(), turret.Anchor())
}
