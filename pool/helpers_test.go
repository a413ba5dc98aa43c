package pool_test

import (
	"testing"

	"github.com/plus3/dunepool/pool"
	"github.com/stretchr/testify/require"
)

// newTestWorld returns a world with every house allocated and a unit cap
// high enough not to interfere.
func newTestWorld(t testing.TB, opts ...pool.Option) *pool.World {
	t.Helper()

	w := pool.NewWorld(opts...)
	for id := pool.HouseHarkonnen; id < pool.HouseMax; id++ {
		h := w.Houses().Allocate(id)
		require.NotNil(t, h, "house %s", id)
		h.UnitCountMax = 1000
	}
	return w
}

func unitIndices(units []*pool.Unit) []uint16 {
	out := make([]uint16, len(units))
	for i, u := range units {
		out[i] = u.Index
	}
	return out
}

func collectUnits(w *pool.World, house pool.HouseType, typ pool.UnitType) []uint16 {
	var out []uint16
	for u := range w.Units().All(house, typ) {
		out = append(out, u.Index)
	}
	return out
}

func collectStructures(w *pool.World, house pool.HouseType, typ pool.StructureType) []uint16 {
	var out []uint16
	for s := range w.Structures().All(house, typ) {
		out = append(out, s.Index)
	}
	return out
}
