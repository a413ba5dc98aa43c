package pool

// System is one step of a simulation tick. Implementations keep their own
// state between ticks and must not free entities directly while walking a
// pool; they queue frees on frame.Commands instead.
type System interface {
	Execute(frame *TickFrame)
}
