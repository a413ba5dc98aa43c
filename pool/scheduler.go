package pool

import (
	"context"
	"reflect"
	"time"

	"go.uber.org/zap"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	Ticks           uint64
	SystemCount     int
	TotalExecutions int64
	CommandsFlushed int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// scheduled pairs a system with its running stats. AvgDuration is only
// filled in by GetStats.
type scheduled struct {
	system System
	stats  SystemStats
}

func (e *scheduled) observe(d time.Duration) {
	st := &e.stats
	if st.ExecutionCount == 0 || d < st.MinDuration {
		st.MinDuration = d
	}
	st.MaxDuration = max(st.MaxDuration, d)
	st.LastDuration = d
	st.TotalDuration += d
	st.ExecutionCount++
}

// Scheduler runs systems against a world once per tick, in registration
// order, and flushes their queued commands after the last one.
type Scheduler struct {
	world   *World
	systems []*scheduled
	tick    uint64
	flushed int64
}

// NewScheduler creates a scheduler for w.
func NewScheduler(w *World) *Scheduler {
	return &Scheduler{world: w}
}

// Register appends a system. Its stats are reported under the name of
// its type.
func (s *Scheduler) Register(system System) {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	s.systems = append(s.systems, &scheduled{
		system: system,
		stats:  SystemStats{Name: t.Name()},
	})
}

// Once runs a single tick: every system, then the queued commands. The
// world is expected to be strict again by the end of it.
func (s *Scheduler) Once() {
	frame := newTickFrame(s.tick, s.world)

	for _, e := range s.systems {
		start := time.Now()
		e.system.Execute(frame)
		e.observe(time.Since(start))
	}

	s.flushed += int64(frame.Commands.Len())
	frame.Commands.Flush(s.world)

	if v := &s.world.validation; !v.Strict() {
		s.world.log.Warn("validation still relaxed at end of tick",
			zap.Uint64("tick", s.tick), zap.Int("depth", v.Depth()))
	}
	s.tick++
}

// Run ticks at the given interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Once()
		}
	}
}

// GetStats returns a copy of the tick count and per-system stats.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		Ticks:           s.tick,
		SystemCount:     len(s.systems),
		CommandsFlushed: s.flushed,
		Systems:         make([]SystemStats, len(s.systems)),
	}
	for i, e := range s.systems {
		st := e.stats
		if st.ExecutionCount > 0 {
			st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
		}
		stats.Systems[i] = st
		stats.TotalExecutions += st.ExecutionCount
	}
	return stats
}
