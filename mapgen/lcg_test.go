package mapgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLCG(t *testing.T) {
	r := newLCG(1234)
	assert.Equal(t, []uint16{1356, 29133, 21998, 27018}, []uint16{r.next(), r.next(), r.next(), r.next()})

	r = newLCG(99)
	for range 1000 {
		v := r.rangeIn(10, 20)
		assert.GreaterOrEqual(t, v, uint16(10))
		assert.LessOrEqual(t, v, uint16(20))
	}

	assert.Equal(t, uint16(7), newLCG(5).rangeIn(7, 7))
	assert.Equal(t, newLCG(5).rangeIn(3, 9), newLCG(5).rangeIn(9, 3), "bounds may come in either order")
}
