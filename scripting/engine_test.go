package scripting_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/plus3/dunepool/encoded"
	"github.com/plus3/dunepool/pool"
	"github.com/plus3/dunepool/scripting"
)

func newEngine(t *testing.T) (*scripting.Engine, *pool.World) {
	t.Helper()

	w := pool.NewWorld()
	for id := pool.HouseHarkonnen; id < pool.HouseMax; id++ {
		h := w.Houses().Allocate(id)
		require.NotNil(t, h)
		h.UnitCountMax = 1000
	}
	e := scripting.NewEngine(w, nil)
	t.Cleanup(e.Close)
	return e, w
}

func globalInt(t *testing.T, e *scripting.Engine, name string) int {
	t.Helper()
	v, ok := e.Global(name).(lua.LNumber)
	require.True(t, ok, "%s is %s", name, e.Global(name).Type())
	return int(v)
}

func globalInts(t *testing.T, e *scripting.Engine, name string) []int {
	t.Helper()
	tbl, ok := e.Global(name).(*lua.LTable)
	require.True(t, ok, "%s is %s", name, e.Global(name).Type())
	out := []int{}
	for i := 1; i <= tbl.Len(); i++ {
		out = append(out, int(lua.LVAsNumber(tbl.RawGetInt(i))))
	}
	return out
}

func TestAPIVersion(t *testing.T) {
	e, _ := newEngine(t)
	assert.Equal(t, scripting.APIVersion, globalInt(t, e, "API_VERSION"))
}

func TestCodecMatchesGo(t *testing.T) {
	e, w := newEngine(t)

	u := w.Units().Allocate(pool.IndexInvalid, pool.UnitTrike, pool.HouseOrdos)
	s := w.Structures().Allocate(pool.IndexInvalid, pool.StructureWindtrap, pool.HouseOrdos)
	require.NotNil(t, u)
	require.NotNil(t, s)

	refs := []encoded.Index{
		encoded.None,
		encoded.Index(0x1234),
		w.EncodeUnit(u.Index),
		encoded.EncodeUnitRaw(60),
		w.EncodeStructure(s.Index),
		encoded.EncodeStructure(pool.StructureIndexSlab1x1),
		encoded.EncodeStructure(30),
		encoded.EncodeTile(5, 9),
		encoded.EncodeTile(63, 0),
	}

	for _, ref := range refs {
		t.Run(fmt.Sprintf("%#04x", uint16(ref)), func(t *testing.T) {
			require.NoError(t, e.DoString(fmt.Sprintf(`
				kind = index_type(%[1]d)
				raw = index_decode(%[1]d)
				valid = index_is_valid(%[1]d)
			`, uint16(ref))))

			assert.Equal(t, ref.Type().String(), lua.LVAsString(e.Global("kind")))
			assert.Equal(t, int(ref.Decode()), globalInt(t, e, "raw"))
			assert.Equal(t, lua.LBool(w.IsValid(ref)), e.Global("valid"))
		})
	}
}

func TestEncodeFunctions(t *testing.T) {
	e, w := newEngine(t)

	u := w.Units().Allocate(pool.IndexInvalid, pool.UnitQuad, pool.HouseAtreides)
	require.NotNil(t, u)

	require.NoError(t, e.DoString(fmt.Sprintf(`
		t = index_encode_tile(3, 4)
		live = index_encode_unit(%d)
		absent = index_encode_unit(90)
		wall = index_encode_structure(79)
	`, u.Index)))

	assert.Equal(t, int(encoded.EncodeTile(3, 4)), globalInt(t, e, "t"))
	assert.Equal(t, int(w.EncodeUnit(u.Index)), globalInt(t, e, "live"))
	assert.Equal(t, 0, globalInt(t, e, "absent"))
	assert.Equal(t, int(encoded.EncodeStructure(79)), globalInt(t, e, "wall"))
}

func TestIndexTile(t *testing.T) {
	e, w := newEngine(t)

	u := w.Units().Allocate(pool.IndexInvalid, pool.UnitTank, pool.HouseHarkonnen)
	require.NotNil(t, u)
	u.Position.X, u.Position.Y = 0x0A40, 0x0310

	require.NoError(t, e.DoString(fmt.Sprintf(`
		ux, uy = index_tile(%d)
		tx, ty = index_tile(index_encode_tile(3, 4))
		missing = index_tile(0)
	`, uint16(w.EncodeUnit(u.Index)))))

	assert.Equal(t, 0x0A40, globalInt(t, e, "ux"))
	assert.Equal(t, 0x0310, globalInt(t, e, "uy"))

	want, ok := w.Tile(encoded.EncodeTile(3, 4))
	require.True(t, ok)
	assert.Equal(t, int(want.X), globalInt(t, e, "tx"))
	assert.Equal(t, int(want.Y), globalInt(t, e, "ty"))
	assert.Equal(t, lua.LNil, e.Global("missing"))
}

func TestPoolQueries(t *testing.T) {
	e, w := newEngine(t)

	var ordos []int
	for range 3 {
		u := w.Units().Allocate(pool.IndexInvalid, pool.UnitTrike, pool.HouseOrdos)
		require.NotNil(t, u)
		ordos = append(ordos, int(u.Index))
	}
	tank := w.Units().Allocate(pool.IndexInvalid, pool.UnitTank, pool.HouseAtreides)
	require.NotNil(t, tank)
	yard := w.Structures().Allocate(pool.IndexInvalid, pool.StructureConstructionYard, pool.HouseAtreides)
	require.NotNil(t, yard)

	require.NoError(t, e.DoString(fmt.Sprintf(`
		all_units = units()
		ordos = units(%d)
		trikes = units(-1, %d)
		atreides_tanks = units(%d, %d)
		all_structures = structures()
		walls = structures(nil, %d)
	`, pool.HouseOrdos, pool.UnitTrike, pool.HouseAtreides, pool.UnitTank, pool.StructureWall)))

	assert.Equal(t, append(append([]int{}, ordos...), int(tank.Index)), globalInts(t, e, "all_units"))
	assert.Equal(t, ordos, globalInts(t, e, "ordos"))
	assert.Equal(t, ordos, globalInts(t, e, "trikes"))
	assert.Equal(t, []int{int(tank.Index)}, globalInts(t, e, "atreides_tanks"))
	assert.Equal(t, []int{int(yard.Index), 79, 80, 81}, globalInts(t, e, "all_structures"))
	assert.Equal(t, []int{79}, globalInts(t, e, "walls"))
}

func TestPoolQueryFilterRange(t *testing.T) {
	e, w := newEngine(t)
	require.NotNil(t, w.Units().Allocate(pool.IndexInvalid, pool.UnitTrike, pool.HouseOrdos))

	for _, src := range []string{
		"out = units(262)",
		"out = units(nil, 256)",
		"out = structures(300)",
	} {
		err := e.DoString(src)
		require.Error(t, err, src)
		assert.Contains(t, err.Error(), "out of range", src)
	}

	require.NoError(t, e.DoString("out = units(255)"))
	assert.Len(t, globalInts(t, e, "out"), 1, "255 is the any-house sentinel")
}

func TestOnTick(t *testing.T) {
	e, w := newEngine(t)

	require.NoError(t, e.DoString(`
		ticks = 0
		last = -1
		function on_tick(tick)
			ticks = ticks + 1
			last = tick
		end
	`))

	s := pool.NewScheduler(w)
	s.Register(e)
	s.Once()
	s.Once()

	assert.Equal(t, 2, globalInt(t, e, "ticks"))
	assert.Equal(t, 1, globalInt(t, e, "last"))
}

func TestOnTickErrorIsContained(t *testing.T) {
	e, w := newEngine(t)
	require.NoError(t, e.DoString(`function on_tick(tick) error("boom") end`))

	s := pool.NewScheduler(w)
	s.Register(e)
	assert.NotPanics(t, s.Once)
}

func TestCallInt(t *testing.T) {
	e, _ := newEngine(t)
	require.NoError(t, e.DoString(`function add(a, b) return a + b end`))

	got, err := e.CallInt("add", 2, 40)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	_, err = e.CallInt("missing")
	assert.Error(t, err)
}

func TestLoadDir(t *testing.T) {
	e, _ := newEngine(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte("order = order .. 'b'"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte("order = 'a'"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not lua"), 0o644))

	require.NoError(t, e.LoadDir(dir))
	assert.Equal(t, "ab", lua.LVAsString(e.Global("order")))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.lua"), []byte("this is not lua"), 0o644))
	assert.Error(t, e.LoadDir(dir))

	assert.Error(t, e.LoadDir(filepath.Join(dir, "missing")))
}
