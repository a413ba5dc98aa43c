package mapgen

// lcg is the classic 32-bit linear congruential generator map seeds have
// always been expanded with. The same seed must yield the same map on
// every machine, so nothing else may be used for landscape decisions.
type lcg struct {
	state uint32
}

func newLCG(seed uint32) *lcg {
	return &lcg{state: seed & SeedMask}
}

func (r *lcg) next() uint16 {
	r.state = 0x015A4E35*r.state + 1
	return uint16(r.state>>16) & 0x7FFF
}

// rangeIn returns a value in [lo, hi].
func (r *lcg) rangeIn(lo, hi uint16) uint16 {
	if lo > hi {
		lo, hi = hi, lo
	}
	for {
		v := uint16(int32(r.next())*int32(hi-lo+1)/0x8000) + lo
		if v <= hi {
			return v
		}
	}
}
