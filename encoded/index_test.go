package encoded_test

import (
	"fmt"
	"testing"

	"github.com/plus3/dunepool/encoded"
	"github.com/plus3/dunepool/tile"
	"github.com/stretchr/testify/assert"
)

func TestZeroIsNone(t *testing.T) {
	assert.Equal(t, encoded.TypeNone, encoded.None.Type())
	assert.True(t, encoded.None.IsNone())
	assert.Equal(t, "none", encoded.None.String())
}

func TestTypeFromHighBits(t *testing.T) {
	tests := []struct {
		value encoded.Index
		want  encoded.Type
	}{
		{0x0000, encoded.TypeNone},
		{0x3FFF, encoded.TypeNone},
		{0x4000, encoded.TypeUnit},
		{0x7FFF, encoded.TypeUnit},
		{0x8000, encoded.TypeStructure},
		{0xBFFF, encoded.TypeStructure},
		{0xC000, encoded.TypeTile},
		{0xFFFF, encoded.TypeTile},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("0x%04X", uint16(tt.value)), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Type())
		})
	}
}

func TestIndexRoundTrip(t *testing.T) {
	for index := uint16(0); index <= encoded.MaxIndex; index += 97 {
		u := encoded.EncodeUnitRaw(index)
		s := encoded.EncodeStructure(index)

		assert.Equal(t, encoded.TypeUnit, u.Type())
		assert.Equal(t, index, u.Decode())
		assert.Equal(t, encoded.TypeStructure, s.Type())
		assert.Equal(t, index, s.Decode())
	}
}

func TestTileRoundTrip(t *testing.T) {
	for y := uint8(0); y < tile.MapSize; y++ {
		for x := uint8(0); x < tile.MapSize; x++ {
			e := encoded.EncodeTile(x, y)
			p := e.Packed()

			if !assert.Equal(t, encoded.TypeTile, e.Type()) {
				return
			}
			if !assert.Equal(t, x, p.X()) || !assert.Equal(t, y, p.Y()) {
				return
			}
			assert.Equal(t, uint16(tile.PackXY(uint16(x), uint16(y))), e.Decode())
		}
	}
}

func TestTileMarkerBits(t *testing.T) {
	e := encoded.EncodeTile(0, 0)
	assert.Equal(t, encoded.Index(0xC081), e)

	e = encoded.EncodeTile(63, 63)
	assert.Equal(t, encoded.Index(0xFFFF), e)
}

func TestEncodePacked(t *testing.T) {
	p := tile.PackXY(12, 34)
	assert.Equal(t, encoded.EncodeTile(12, 34), encoded.EncodePacked(p))
	assert.Equal(t, p, encoded.EncodePacked(p).Packed())
}

func TestPackedOfNonTile(t *testing.T) {
	assert.Equal(t, tile.Packed(0), encoded.EncodeStructure(5).Packed())
}

func TestString(t *testing.T) {
	assert.Equal(t, "unit#7", encoded.EncodeUnitRaw(7).String())
	assert.Equal(t, "structure#12", encoded.EncodeStructure(12).String())
	assert.Equal(t, "tile(3,4)", encoded.EncodeTile(3, 4).String())
}
