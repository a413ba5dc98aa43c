package tile_test

import (
	"fmt"
	"testing"

	"github.com/plus3/dunepool/tile"
	"github.com/stretchr/testify/assert"
)

func TestPackXY(t *testing.T) {
	tests := []struct {
		x, y uint16
	}{
		{0, 0},
		{63, 0},
		{0, 63},
		{63, 63},
		{17, 42},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("x=%d,y=%d", tt.x, tt.y), func(t *testing.T) {
			p := tile.PackXY(tt.x, tt.y)
			assert.Equal(t, uint8(tt.x), p.X())
			assert.Equal(t, uint8(tt.y), p.Y())
			assert.False(t, p.IsOutOfMap())
		})
	}
}

func TestPackedOutOfMap(t *testing.T) {
	assert.True(t, tile.Packed(0x1000).IsOutOfMap())
	assert.False(t, tile.Packed(0x0FFF).IsOutOfMap())
}

func TestTile32RoundTrip(t *testing.T) {
	p := tile.PackXY(10, 20)
	pos := p.Tile32()

	assert.Equal(t, uint16(10<<8|0x80), pos.X)
	assert.Equal(t, uint16(20<<8|0x80), pos.Y)
	assert.Equal(t, p, pos.Pack())
	assert.True(t, pos.IsValid())
}

func TestTile32Add(t *testing.T) {
	pos := tile.MakeXY(4, 5).Add(tile.Tile32{X: 0x100, Y: 0x80})

	assert.Equal(t, uint16(0x500), pos.X)
	assert.Equal(t, uint16(0x580), pos.Y)
	assert.Equal(t, tile.PackXY(5, 5), pos.Pack())
}

func TestMapAt(t *testing.T) {
	var m tile.Map

	cell := m.At(tile.PackXY(3, 3))
	assert.NotNil(t, cell)
	cell.HasStructure = true

	assert.True(t, m.At(tile.PackXY(3, 3)).HasStructure)
	assert.Nil(t, m.At(tile.Packed(0x1000)))

	m.Reset()
	assert.False(t, m.At(tile.PackXY(3, 3)).HasStructure)
}
