package catalog_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/dunepool/pool"
	"github.com/plus3/dunepool/saveload"
	"github.com/plus3/dunepool/saveload/catalog"
)

func openCatalog(t *testing.T) (*catalog.Catalog, string) {
	t.Helper()
	dir := t.TempDir()
	c, err := catalog.Open(filepath.Join(dir, "index", "saves.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, dir
}

func TestRecordAndList(t *testing.T) {
	c, _ := openCatalog(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, e := range []catalog.Entry{
		{Path: "b.sav", Tick: 200, MapSeed: 7, RecordedAt: at, Header: saveload.Header{Version: 1, Mode: "normal", Units: 12}},
		{Path: "a.sav", Tick: 100, MapSeed: 7, RecordedAt: at, Header: saveload.Header{Version: 1, Mode: "normal", Units: 9}},
		{Path: "c.sav", Tick: 200, MapSeed: 9, RecordedAt: at, Header: saveload.Header{Version: 1, Mode: "raised", Units: 400}},
	} {
		require.NoError(t, c.Record(ctx, e))
	}

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"a.sav", "b.sav", "c.sav"}, []string{list[0].Path, list[1].Path, list[2].Path})
	assert.Equal(t, uint64(100), list[0].Tick)
	assert.Equal(t, 9, list[0].Units)
	assert.Equal(t, "raised", list[2].Mode)
	assert.True(t, at.Equal(list[2].RecordedAt))

	latest, err := c.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c.sav", latest.Path)
	assert.Equal(t, uint32(9), latest.MapSeed)

	require.NoError(t, c.Record(ctx, catalog.Entry{Path: "a.sav", Tick: 300, Header: saveload.Header{Version: 1, Mode: "normal"}}))
	latest, err = c.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a.sav", latest.Path, "recording a path again replaces it")
	assert.False(t, latest.RecordedAt.IsZero())

	list, err = c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestLatestEmpty(t *testing.T) {
	c, _ := openCatalog(t)
	_, err := c.Latest(context.Background())
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestRemove(t *testing.T) {
	c, _ := openCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.Record(ctx, catalog.Entry{Path: "a.sav", Header: saveload.Header{Version: 1, Mode: "normal"}}))
	require.NoError(t, c.Remove(ctx, "a.sav"))
	assert.ErrorIs(t, c.Remove(ctx, "a.sav"), catalog.ErrNotFound)

	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSave(t *testing.T) {
	c, dir := openCatalog(t)
	ctx := context.Background()

	w := pool.NewWorld()
	h := w.Houses().Allocate(pool.HouseOrdos)
	require.NotNil(t, h)
	h.UnitCountMax = 10
	u := w.Units().Allocate(pool.IndexInvalid, pool.UnitQuad, pool.HouseOrdos)
	require.NotNil(t, u)

	path := filepath.Join(dir, "saves", "tick-42.sav")
	e, err := c.Save(ctx, path, w, 42, 1234)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Units)
	assert.Equal(t, 1, e.Houses)
	assert.Equal(t, 3, e.Structures)

	latest, err := c.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, path, latest.Path)
	assert.Equal(t, uint64(42), latest.Tick)

	loaded := pool.NewWorld()
	hdr, err := saveload.ReadFile(latest.Path, loaded)
	require.NoError(t, err)
	assert.Equal(t, e.Header, hdr)
	assert.NotNil(t, loaded.Unit(loaded.EncodeUnit(u.Index)))
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := catalog.Open("")
	assert.Error(t, err)
}
