// Command pool-viewer opens the pool debug windows over a generated map
// or a saved world. Scripts under stress.script_path are reloaded when
// edited.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/plus3/dunepool/internal/config"
	"github.com/plus3/dunepool/internal/logging"
	"github.com/plus3/dunepool/mapgen"
	"github.com/plus3/dunepool/pool"
	"github.com/plus3/dunepool/pool/debugui"
	debugui_ebiten "github.com/plus3/dunepool/pool/debugui/ebiten"
	"github.com/plus3/dunepool/saveload"
	"github.com/plus3/dunepool/scripting"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file. Defaults are used when empty.")
	loadPath := flag.String("load", "", "Open a saved world instead of generating a map.")
	seed := flag.Uint("seed", 0, "Map seed. 0 picks a random one.")
	flag.Parse()

	if err := run(*configPath, *loadPath, uint32(*seed)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, loadPath string, seed uint32) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	world := pool.NewWorld(pool.WithCapacity(cfg.CapacityPolicy()), pool.WithLogger(log.Named("pool")))

	if loadPath != "" {
		header, err := saveload.ReadFile(loadPath, world)
		if err != nil {
			return err
		}
		log.Info("world loaded", zap.String("path", loadPath), zap.Int("units", header.Units))
	} else {
		gen := mapgen.NewGenerator(world, mapgen.DefaultSkirmish(),
			mapgen.WithLogger(log.Named("mapgen")),
			mapgen.WithMaxAttempts(cfg.MapGen.Attempts))
		mode := mapgen.ModeTryTestElseRand
		if seed == 0 {
			mode = mapgen.ModeTryRandElseRand
		}
		if _, err := gen.Run(seed, mode); err != nil {
			return fmt.Errorf("generate map: %w", err)
		}
	}

	imguiBackend := ebitenbackend.NewEbitenBackend()
	imguiBackend.CreateWindow("Pool Viewer", 1280, 720)
	imgui.CurrentIO().SetIniFilename("")

	scheduler := pool.NewScheduler(world)
	if cfg.Stress.ScriptPath != "" {
		engine := scripting.NewEngine(world, log.Named("lua"))
		defer engine.Close()
		watchDir, err := loadScripts(engine, cfg.Stress.ScriptPath)
		if err != nil {
			return err
		}
		watcher, err := engine.Watch(watchDir)
		if err != nil {
			return fmt.Errorf("watch scripts: %w", err)
		}
		defer watcher.Close()
		scheduler.Register(engine)
	}
	debugui.Install(world, scheduler)

	game := &debugui_ebiten.Game{
		World:     world,
		Scheduler: scheduler,
		Backend:   debugui_ebiten.ImguiBackend{EbitenBackend: imguiBackend},
		Scale:     8,
	}
	return ebiten.RunGame(game)
}

// loadScripts runs a script file or every script in a directory and
// returns the directory to watch for edits.
func loadScripts(e *scripting.Engine, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stress.script_path: %w", err)
	}
	if info.IsDir() {
		return path, e.LoadDir(path)
	}
	return filepath.Dir(path), e.DoFile(path)
}
