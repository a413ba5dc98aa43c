package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/dunepool/pool"
)

type Report struct {
	// Configuration
	Duration     time.Duration
	Mode         pool.CapacityMode
	MapSeed      uint32
	SpawnPerTick int
	Script       string

	// Results
	TotalTicks     uint64
	TotalTime      time.Duration
	TickTime       Stats
	GCPauseMetrics bool
	Counters       Counters
	Scheduler      *pool.SchedulerStats
	World          *pool.WorldStats
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Pool Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Capacity Mode:** {{.Mode}}
- **Map Seed:** {{.MapSeed}}
- **Spawns per Tick:** {{.SpawnPerTick}}
{{- if .Script}}
- **Script:** {{.Script}}
{{- end}}

## Performance Results
- **Total Ticks:** {{.TotalTicks}}
- **Total Test Time:** {{.TotalTime}}
- **Tick Time:**
  - **Avg:** {{.TickTime.Avg}}
  - **Min:** {{.TickTime.Min}}
  - **Max:** {{.TickTime.Max}}

## Systems
{{- range .Scheduler.Systems}}
- {{.Name}}: {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{- end}}
- Commands flushed: {{.Scheduler.CommandsFlushed}}

## Pool Activity
- Units spawned:      {{.Counters.Spawned}} ({{.Counters.SpawnRejected}} rejected)
- Structures built:   {{.Counters.StructuresBuilt}}
- Units freed:        {{.Counters.Freed}}
- Targets retargeted: {{.Counters.Retargeted}} ({{.Counters.StaleTargets}} stale)
- Save round trips:   {{.Counters.SaveRoundTrips}} ({{.Counters.SaveBytes | kb}} KiB written, {{.Counters.SaveMismatches}} mismatches)
- Rollbacks:          {{.Counters.Rollbacks}} ({{.Counters.RollbackFailures}} failures)
{{- if .Counters.Checkpoints}}
- Checkpoints:        {{.Counters.Checkpoints}}
{{- end}}

## Final Occupancy
{{- range .World.Pools}}
- {{.Kind}}: {{.Live}} / {{.Capacity}}
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"kb": func(n int) string {
			return fmt.Sprintf("%.1f", float64(n)/1024)
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
