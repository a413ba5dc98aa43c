package pool

// TickFrame is what a System sees during one tick.
type TickFrame struct {
	Tick     uint64
	Commands *Commands
	World    *World
}

func newTickFrame(tick uint64, w *World) *TickFrame {
	return &TickFrame{
		Tick:     tick,
		Commands: newCommands(),
		World:    w,
	}
}
