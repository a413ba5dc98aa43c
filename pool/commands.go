package pool

// Commands buffers frees and other structural changes until every system
// of the tick has run, so no system sees a live list compact under it.
type Commands struct {
	units      []queued
	structures []queued
	teams      []queued
	defers     []func()
}

// queued identifies one occupant of a slot.
type queued struct {
	index  uint16
	serial uint32
}

func queue(h *Header) queued {
	return queued{index: h.Index, serial: h.Serial}
}

// stale reports whether h no longer holds the occupant q was queued for.
func (q queued) stale(h *Header) bool {
	return !h.Flags.Used || h.Serial != q.serial
}

func newCommands() *Commands {
	return &Commands{}
}

// FreeUnit queues the unit for release.
func (c *Commands) FreeUnit(u *Unit) {
	c.units = append(c.units, queue(&u.Header))
}

// FreeStructure queues the structure for release.
func (c *Commands) FreeStructure(s *Structure) {
	c.structures = append(c.structures, queue(&s.Header))
}

// FreeTeam queues the team for release.
func (c *Commands) FreeTeam(t *Team) {
	c.teams = append(c.teams, queue(&t.Header))
}

// Defer queues fn to run after the frees.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.units) + len(c.structures) + len(c.teams) + len(c.defers)
}

// Flush applies every queued command to w and empties the buffer. Each
// queued record is freed at most once. A record that was released by
// other means is skipped, even when its slot has a new occupant by now.
func (c *Commands) Flush(w *World) {
	seen := make(map[uint16]bool)

	for _, q := range c.units {
		u := w.units.Get(q.index)
		if seen[q.index] || q.stale(&u.Header) {
			continue
		}
		seen[q.index] = true
		w.units.Free(u)
	}

	clear(seen)
	for _, q := range c.structures {
		s := w.structures.Get(q.index)
		if seen[q.index] || q.stale(&s.Header) {
			continue
		}
		seen[q.index] = true
		w.structures.Free(s)
	}

	clear(seen)
	for _, q := range c.teams {
		t := w.teams.Get(q.index)
		if seen[q.index] || q.stale(&t.Header) {
			continue
		}
		seen[q.index] = true
		w.teams.Free(t)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.units = c.units[:0]
	c.structures = c.structures[:0]
	c.teams = c.teams[:0]
	c.defers = c.defers[:0]
}
