// Package pool holds the entity pools of the simulation: fixed-capacity
// slot storage for houses, structures, units and teams, the find protocol
// over them, encoded reference resolution and the world snapshot used by
// map generation.
//
// Everything here runs on the simulation goroutine. Nothing is locked.
package pool

import (
	"github.com/plus3/dunepool/tile"
	"go.uber.org/zap"
)

// World owns one pool of each kind plus the map buffer that snapshots
// checkpoint alongside them.
type World struct {
	policy     CapacityPolicy
	log        *zap.Logger
	validation Validation

	houses     *HousePool
	structures *StructurePool
	units      *UnitPool
	teams      *TeamPool
	tiles      tile.Map

	snapshot *Snapshot
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(w *World) {
		w.log = log
	}
}

// WithCapacity sets the capacity policy. The default is CapacityNormal.
func WithCapacity(policy CapacityPolicy) Option {
	return func(w *World) {
		w.policy = policy
	}
}

// NewWorld creates a world with every pool initialised.
func NewWorld(opts ...Option) *World {
	w := &World{
		policy: NewCapacityPolicy(CapacityNormal),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.build()
	w.Init()
	return w
}

func (w *World) build() {
	w.houses = newHousePool(w.policy, &w.validation, w.log.Named("house"))
	w.structures = newStructurePool(w.policy, &w.validation, w.log.Named("structure"))
	w.units = newUnitPool(w.policy, &w.validation, w.houses, w.log.Named("unit"))
	w.teams = newTeamPool(w.policy, &w.validation, w.log.Named("team"))
}

// Init clears every pool and the map.
func (w *World) Init() {
	w.houses.Init()
	w.structures.Init()
	w.units.Init()
	w.teams.Init()
	w.tiles.Reset()
}

// Reset switches to another capacity policy. All pools are rebuilt and
// every entity is lost. It panics while a snapshot is checked out.
func (w *World) Reset(policy CapacityPolicy) {
	if w.snapshot != nil {
		panic("pool: Reset with a snapshot checked out")
	}
	w.log.Info("resetting pools", zap.Stringer("mode", policy.Mode()))
	w.policy = policy
	w.build()
	w.Init()
}

// Recount rebuilds every live list from the slots. Call it after bulk
// loading and before the next tick.
func (w *World) Recount() {
	w.houses.Recount()
	w.structures.Recount()
	w.units.Recount()
	w.teams.Recount()
}

func (w *World) Policy() CapacityPolicy { return w.policy }
func (w *World) Logger() *zap.Logger { return w.log }
func (w *World) Validation() *Validation { return &w.validation }
func (w *World) Houses() *HousePool { return w.houses }
func (w *World) Structures() *StructurePool { return w.structures }
func (w *World) Units() *UnitPool { return w.units }
func (w *World) Teams() *TeamPool { return w.teams }
func (w *World) Map() *tile.Map { return &w.tiles }
