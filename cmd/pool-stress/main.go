package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/plus3/dunepool/internal/config"
	"github.com/plus3/dunepool/internal/logging"
	"github.com/plus3/dunepool/mapgen"
	"github.com/plus3/dunepool/pool"
	"github.com/plus3/dunepool/saveload"
	"github.com/plus3/dunepool/saveload/catalog"
	"github.com/plus3/dunepool/scripting"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file. Defaults are used when empty.")
	duration := flag.Duration("duration", 0, "Override stress.duration.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	savePath := flag.String("save", "", "Write the final world to this file.")
	flag.Parse()

	if err := run(*configPath, *duration, *gcPauseMetrics, *savePath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, duration time.Duration, gcPauseMetrics bool, savePath string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if duration > 0 {
		cfg.Stress.Duration = duration
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if p := startProfile(cfg.Stress.Profile); p != nil {
		defer p.Stop()
	}

	log.Info("starting pool stress test",
		zap.Stringer("mode", cfg.CapacityPolicy().Mode()),
		zap.Duration("duration", cfg.Stress.Duration),
		zap.Uint64("seed", cfg.Stress.Seed))

	// 1. World and starting map
	world := pool.NewWorld(pool.WithCapacity(cfg.CapacityPolicy()), pool.WithLogger(log.Named("pool")))
	rng := rand.New(rand.NewPCG(cfg.Stress.Seed, cfg.Stress.Seed^0x9E3779B97F4A7C15))

	skirmish := mapgen.DefaultSkirmish()
	skirmish.UnitCountMax = cfg.Stress.HouseUnitMax
	gen := mapgen.NewGenerator(world, skirmish,
		mapgen.WithLogger(log.Named("mapgen")),
		mapgen.WithRand(rng),
		mapgen.WithMaxAttempts(cfg.MapGen.Attempts))
	mapSeed, err := gen.Run(uint32(cfg.Stress.Seed)&mapgen.SeedMask, mapgen.ModeTryTestElseRand)
	if err != nil {
		return fmt.Errorf("generate map: %w", err)
	}

	// 2. Scheduler and systems
	counters := &Counters{}
	scheduler := pool.NewScheduler(world)
	scheduler.Register(&spawnSystem{rng: rng, perTick: cfg.Stress.SpawnPerTick, counters: counters})
	scheduler.Register(&combatSystem{rng: rng, counters: counters})
	persistence := &persistenceSystem{
		every:    cfg.Stress.SaveEvery,
		rng:      rng,
		log:      log.Named("persistence"),
		counters: counters,
		dir:      cfg.Stress.CheckpointDir,
		mapSeed:  mapSeed,
	}
	if persistence.dir != "" {
		cat, err := catalog.Open(filepath.Join(persistence.dir, "catalog.db"))
		if err != nil {
			return fmt.Errorf("open checkpoint catalog: %w", err)
		}
		defer cat.Close()
		persistence.catalog = cat
	}
	scheduler.Register(persistence)

	if cfg.Stress.ScriptPath != "" {
		engine := scripting.NewEngine(world, log.Named("lua"))
		defer engine.Close()
		if err := loadScripts(engine, cfg.Stress.ScriptPath); err != nil {
			return err
		}
		scheduler.Register(engine)
	}

	// 3. Run the simulation loop
	report := &Report{
		Duration:       cfg.Stress.Duration,
		Mode:           cfg.CapacityPolicy().Mode(),
		MapSeed:        mapSeed,
		SpawnPerTick:   cfg.Stress.SpawnPerTick,
		Script:         cfg.Stress.ScriptPath,
		GCPauseMetrics: gcPauseMetrics,
		TickTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Stress.Duration)
	defer cancel()

	startTime := time.Now()
	tick(ctx, scheduler, cfg.Stress.TickRate, &report.TickTime)

	report.TotalTime = time.Since(startTime)
	report.TickTime.Finalize()
	report.Counters = *counters
	report.Scheduler = scheduler.GetStats()
	report.TotalTicks = report.Scheduler.Ticks
	report.World = world.CollectStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Info("simulation finished", zap.Uint64("ticks", report.TotalTicks))

	if savePath != "" {
		if err := saveload.WriteFile(savePath, world); err != nil {
			return err
		}
		log.Info("world saved", zap.String("path", savePath))
	}

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")

	if counters.SaveMismatches > 0 || counters.RollbackFailures > 0 {
		return fmt.Errorf("stress run found %d save mismatches and %d rollback failures",
			counters.SaveMismatches, counters.RollbackFailures)
	}
	return nil
}

// tick runs the scheduler until ctx is done. A zero rate runs ticks back
// to back.
func tick(ctx context.Context, s *pool.Scheduler, rate time.Duration, stats *Stats) {
	var ticker *time.Ticker
	if rate > 0 {
		ticker = time.NewTicker(rate)
		defer ticker.Stop()
	}

	for {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return
		}

		start := time.Now()
		s.Once()
		stats.Samples = append(stats.Samples, time.Since(start))
	}
}

func loadScripts(e *scripting.Engine, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stress.script_path: %w", err)
	}
	if info.IsDir() {
		return e.LoadDir(path)
	}
	return e.DoFile(path)
}

func startProfile(kind string) interface{ Stop() } {
	opts := []func(*profile.Profile){profile.ProfilePath("."), profile.NoShutdownHook}
	switch kind {
	case "cpu":
		opts = append(opts, profile.CPUProfile)
	case "mem":
		opts = append(opts, profile.MemProfileAllocs)
	case "trace":
		opts = append(opts, profile.TraceProfile)
	default:
		return nil
	}
	return profile.Start(opts...)
}
