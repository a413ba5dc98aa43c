package pool

import (
	"github.com/plus3/dunepool/tile"
	"go.uber.org/zap"
)

// Snapshot is a checkpoint of every pool and the map. Only one can be
// checked out at a time; Restore rolls the world back to it, Release
// keeps the world as it is and ends the checkout.
type Snapshot struct {
	world *World

	houses     arenaState[House]
	structures arenaState[Structure]
	units      arenaState[Unit]
	teams      arenaState[Team]
	tiles      tile.Map

	released bool
}

// Checkout captures the world. It panics when another snapshot is still
// checked out.
func (w *World) Checkout() *Snapshot {
	if w.snapshot != nil {
		panic("pool: snapshot already checked out")
	}

	s := &Snapshot{
		world:      w,
		houses:     w.houses.save(),
		structures: w.structures.save(),
		units:      w.units.save(),
		teams:      w.teams.save(),
		tiles:      w.tiles,
	}
	w.snapshot = s
	w.log.Debug("snapshot checked out")
	return s
}

// SnapshotOutstanding reports whether a snapshot is checked out.
func (w *World) SnapshotOutstanding() bool {
	return w.snapshot != nil
}

// Restore copies the captured state back. It can be called any number of
// times before Release.
func (s *Snapshot) Restore() {
	s.mustBeOpen()
	w := s.world
	w.houses.load(s.houses)
	w.structures.load(s.structures)
	w.units.load(s.units)
	w.teams.load(s.teams)
	w.tiles = s.tiles
	w.log.Debug("snapshot restored")
}

// Release ends the checkout.
func (s *Snapshot) Release() {
	s.mustBeOpen()
	s.released = true
	s.world.snapshot = nil
	s.world.log.Debug("snapshot released")
}

func (s *Snapshot) mustBeOpen() {
	if s.released {
		panic("pool: snapshot used after release")
	}
}

// Speculate runs fn against the world and rolls every change back if fn
// fails. The error from fn is returned unchanged.
func (w *World) Speculate(fn func(*World) error) error {
	s := w.Checkout()
	defer s.Release()

	if err := fn(w); err != nil {
		w.log.Debug("speculation rolled back", zap.Error(err))
		s.Restore()
		return err
	}
	return nil
}
