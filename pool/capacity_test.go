package pool_test

import (
	"testing"

	"github.com/plus3/dunepool/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityPolicy(t *testing.T) {
	t.Run("normal", func(t *testing.T) {
		p := pool.NewCapacityPolicy(pool.CapacityNormal)
		assert.Equal(t, 6, p.Capacity(pool.KindHouse))
		assert.Equal(t, 16, p.Capacity(pool.KindTeam))
		assert.Equal(t, 82, p.Capacity(pool.KindStructure))
		assert.Equal(t, 79, p.StructureSoftCapacity())
		assert.Equal(t, 102, p.Capacity(pool.KindUnit))
		assert.Equal(t, 1000, p.HardCapacity(pool.KindUnit))
		assert.Equal(t, 82, p.HardCapacity(pool.KindStructure))
	})

	t.Run("raised only grows units", func(t *testing.T) {
		p := pool.NewCapacityPolicy(pool.CapacityRaised)
		assert.Equal(t, 6, p.Capacity(pool.KindHouse))
		assert.Equal(t, 16, p.Capacity(pool.KindTeam))
		assert.Equal(t, 82, p.Capacity(pool.KindStructure))
		assert.Equal(t, 1000, p.Capacity(pool.KindUnit))
	})

	t.Run("mode from config flag", func(t *testing.T) {
		assert.Equal(t, pool.CapacityNormal, pool.CapacityModeFor(false))
		assert.Equal(t, pool.CapacityRaised, pool.CapacityModeFor(true))
	})

	t.Run("unknown mode panics", func(t *testing.T) {
		assert.Panics(t, func() { pool.NewCapacityPolicy(pool.CapacityMode(7)) })
	})
}

func TestUnitRange(t *testing.T) {
	normal := pool.NewCapacityPolicy(pool.CapacityNormal)
	raised := pool.NewCapacityPolicy(pool.CapacityRaised)

	tests := []struct {
		typ                   pool.UnitType
		start, end, raisedEnd uint16
	}{
		{pool.UnitCarryall, 0, 10, 10},
		{pool.UnitOrnithopter, 0, 10, 10},
		{pool.UnitMissileHouse, 0, 0, 0},
		{pool.UnitMissileRocket, 11, 15, 15},
		{pool.UnitBullet, 16, 17, 17},
		{pool.UnitSandworm, 18, 20, 20},
		{pool.UnitFrigate, 21, 21, 21},
		{pool.UnitHarvester, 22, 101, 999},
		{pool.UnitTank, 22, 101, 999},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			start, end := normal.UnitRange(tt.typ)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)

			start, end = raised.UnitRange(tt.typ)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.raisedEnd, end)
		})
	}
}

func TestLoadUnitInfo(t *testing.T) {
	t.Run("wrong entry count", func(t *testing.T) {
		_, err := pool.LoadUnitInfo([]byte("units:\n  - {name: Carryall, movement: winger, index_start: 0, index_end: 10}\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "entries")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := pool.LoadUnitInfo([]byte("units: [::"))
		require.Error(t, err)
	})

	t.Run("exemptions", func(t *testing.T) {
		assert.True(t, pool.UnitInfoFor(pool.UnitCarryall).ExemptFromHouseCap())
		assert.True(t, pool.UnitInfoFor(pool.UnitSandworm).ExemptFromHouseCap())
		assert.False(t, pool.UnitInfoFor(pool.UnitTank).ExemptFromHouseCap())
		assert.False(t, pool.UnitInfoFor(pool.UnitHarvester).ExemptFromHouseCap())
	})
}
