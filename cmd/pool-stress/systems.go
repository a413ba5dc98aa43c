package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/plus3/dunepool/encoded"
	"github.com/plus3/dunepool/pool"
	"github.com/plus3/dunepool/saveload"
	"github.com/plus3/dunepool/saveload/catalog"
)

// Counters is what the systems observed over a run.
type Counters struct {
	Spawned          int
	SpawnRejected    int
	StructuresBuilt  int
	Freed            int
	StaleTargets     int
	Retargeted       int
	SaveRoundTrips   int
	SaveBytes        int
	SaveMismatches   int
	Rollbacks        int
	RollbackFailures int
	Checkpoints      int
}

var errDiscard = errors.New("discard speculative tick")

// spawnSystem allocates units for random houses and, now and then, a
// structure.
type spawnSystem struct {
	rng      *rand.Rand
	perTick  int
	counters *Counters
}

func (s *spawnSystem) Execute(frame *pool.TickFrame) {
	w := frame.World
	for range s.perTick {
		house := pool.HouseType(s.rng.IntN(int(pool.HouseMax)))
		typ := pool.UnitType(s.rng.IntN(int(pool.UnitMax)))
		if w.Units().Allocate(pool.IndexInvalid, typ, house) == nil {
			s.counters.SpawnRejected++
			continue
		}
		s.counters.Spawned++
	}

	if s.rng.IntN(4) == 0 {
		house := pool.HouseType(s.rng.IntN(int(pool.HouseMax)))
		typ := pool.StructureType(s.rng.IntN(int(pool.StructureMax)))
		if w.Structures().Allocate(pool.IndexInvalid, typ, house) != nil && !pool.SharesPoolElement(typ) {
			s.counters.StructuresBuilt++
		}
	}
}

// combatSystem points units at random structures, drops targets that no
// longer resolve and queues the destruction of a few units and
// structures each tick.
type combatSystem struct {
	rng      *rand.Rand
	counters *Counters
}

func (s *combatSystem) Execute(frame *pool.TickFrame) {
	w := frame.World

	var targets []encoded.Index
	for st := range w.Structures().All(pool.HouseInvalid, pool.StructureInvalid) {
		if pool.SharesPoolElement(st.StructureType()) {
			continue
		}
		targets = append(targets, w.EncodeStructure(st.Index))
		if s.rng.IntN(64) == 0 {
			frame.Commands.FreeStructure(st)
		}
	}

	for u := range w.Units().All(pool.HouseInvalid, pool.UnitInvalid) {
		if !u.TargetAttack.IsNone() && !w.IsValid(u.TargetAttack) {
			u.TargetAttack = encoded.None
			s.counters.StaleTargets++
		}
		if u.TargetAttack.IsNone() && len(targets) > 0 {
			u.TargetAttack = targets[s.rng.IntN(len(targets))]
			s.counters.Retargeted++
		}
		if s.rng.IntN(16) == 0 {
			frame.Commands.FreeUnit(u)
			s.counters.Freed++
		}
	}
}

// persistenceSystem round-trips the world through saveload every few
// ticks and checks that a speculative burst of allocations rolls back.
// Both run after the tick's frees are flushed. With a catalog the saves
// go to dir and are recorded instead of staying in memory.
type persistenceSystem struct {
	every    int
	rng      *rand.Rand
	log      *zap.Logger
	counters *Counters

	catalog *catalog.Catalog
	dir     string
	mapSeed uint32
}

func (s *persistenceSystem) Execute(frame *pool.TickFrame) {
	if s.every <= 0 || frame.Tick == 0 || frame.Tick%uint64(s.every) != 0 {
		return
	}
	w := frame.World
	frame.Commands.Defer(func() {
		s.roundTrip(w, frame.Tick)
		s.rollback(w, frame.Tick)
	})
}

func (s *persistenceSystem) roundTrip(w *pool.World, tick uint64) {
	scratch := pool.NewWorld(pool.WithCapacity(w.Policy()))
	load := s.memoryRoundTrip
	if s.catalog != nil {
		load = s.checkpoint
	}
	if err := load(w, scratch, tick); err != nil {
		s.log.Error("save round trip failed", zap.Uint64("tick", tick), zap.Error(err))
		s.counters.SaveMismatches++
		return
	}
	s.counters.SaveRoundTrips++

	if !sameOccupancy(w.CollectStats(), scratch.CollectStats()) {
		s.log.Error("loaded world differs", zap.Uint64("tick", tick))
		s.counters.SaveMismatches++
	}
}

func (s *persistenceSystem) memoryRoundTrip(w, scratch *pool.World, _ uint64) error {
	var buf bytes.Buffer
	if err := saveload.Write(&buf, w); err != nil {
		return err
	}
	s.counters.SaveBytes += buf.Len()
	_, err := saveload.Read(&buf, scratch)
	return err
}

func (s *persistenceSystem) checkpoint(w, scratch *pool.World, tick uint64) error {
	path := filepath.Join(s.dir, fmt.Sprintf("tick-%d.sav", tick))
	entry, err := s.catalog.Save(context.Background(), path, w, tick, s.mapSeed)
	if err != nil {
		return err
	}
	if info, err := os.Stat(entry.Path); err == nil {
		s.counters.SaveBytes += int(info.Size())
	}
	s.counters.Checkpoints++

	header, err := saveload.ReadFile(entry.Path, scratch)
	if err != nil {
		return err
	}
	if header != entry.Header {
		return fmt.Errorf("header %+v does not match catalog entry %+v", header, entry.Header)
	}
	return nil
}

func (s *persistenceSystem) rollback(w *pool.World, tick uint64) {
	before := w.CollectStats()
	err := w.Speculate(func(w *pool.World) error {
		restore := w.Validation().Relax()
		defer restore()
		for range 32 {
			typ := pool.UnitType(s.rng.IntN(int(pool.UnitMax)))
			w.Units().Allocate(pool.IndexInvalid, typ, pool.HouseFremen)
		}
		return errDiscard
	})
	if !errors.Is(err, errDiscard) || !sameOccupancy(before, w.CollectStats()) {
		s.log.Error("speculative tick leaked", zap.Uint64("tick", tick), zap.Error(err))
		s.counters.RollbackFailures++
		return
	}
	s.counters.Rollbacks++
}

func sameOccupancy(a, b *pool.WorldStats) bool {
	if len(a.Pools) != len(b.Pools) {
		return false
	}
	for i := range a.Pools {
		pa, pb := a.Pools[i], b.Pools[i]
		if pa.Kind != pb.Kind || pa.Live != pb.Live || len(pa.Subtypes) != len(pb.Subtypes) {
			return false
		}
		for j := range pa.Subtypes {
			if pa.Subtypes[j] != pb.Subtypes[j] {
				return false
			}
		}
	}
	return true
}
