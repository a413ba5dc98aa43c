package pool

// Validation is the world's strictness counter. At depth zero the rules
// are strict: entities that are not on the map are hidden from Find and
// houses may not exceed their unit cap. Loading a save, placing units
// during generation and similar speculative work relax it for their
// duration.
type Validation struct {
	depth int
}

// Relax increments the counter and returns the function that undoes it.
// The returned function is safe to call more than once; only the first
// call counts.
//
//	defer w.Validation().Relax()()
func (v *Validation) Relax() (restore func()) {
	v.depth++
	done := false
	return func() {
		if done {
			return
		}
		done = true
		v.depth--
	}
}

// Strict reports whether no relaxation is in effect.
func (v *Validation) Strict() bool {
	return v.depth == 0
}

// Depth returns the number of outstanding relaxations.
func (v *Validation) Depth() int {
	return v.depth
}
