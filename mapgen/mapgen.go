// Package mapgen drives procedural map generation against a live world.
// Each attempt runs inside a world snapshot and is rolled back when the
// builder rejects the seed.
package mapgen

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/plus3/dunepool/pool"
	"go.uber.org/zap"
)

// SeedMask keeps seeds to the 15 bits map seeds have always had.
const SeedMask = 0x7FFF

// ErrNoMap reports that generation stopped without a playable map.
var ErrNoMap = errors.New("no playable map generated")

// Mode is the state of the generation state machine.
type Mode uint8

const (
	// ModeStop ends generation.
	ModeStop Mode = iota
	// ModeTryTestElseStop tries the given seed once.
	ModeTryTestElseStop
	// ModeTryTestElseRand tries the given seed, then random ones.
	ModeTryTestElseRand
	// ModeTryRandElseStop tries one random seed.
	ModeTryRandElseStop
	// ModeTryRandElseRand keeps trying random seeds.
	ModeTryRandElseRand
	// ModeFinal tries the given seed, which must succeed.
	ModeFinal
)

func (m Mode) String() string {
	switch m {
	case ModeStop:
		return "stop"
	case ModeTryTestElseStop:
		return "try-test-else-stop"
	case ModeTryTestElseRand:
		return "try-test-else-rand"
	case ModeTryRandElseStop:
		return "try-rand-else-stop"
	case ModeTryRandElseRand:
		return "try-rand-else-rand"
	case ModeFinal:
		return "final"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Transition returns the mode that follows an attempt in mode.
func Transition(mode Mode, success bool) Mode {
	if success {
		return ModeStop
	}
	switch mode {
	case ModeTryTestElseRand, ModeTryRandElseRand:
		return ModeTryRandElseRand
	default:
		return ModeStop
	}
}

// Builder populates a world from a seed. It returns an error when the seed
// does not give a playable map; whatever it changed is then rolled back.
type Builder interface {
	Build(w *pool.World, seed uint32) error
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(w *pool.World, seed uint32) error

func (f BuilderFunc) Build(w *pool.World, seed uint32) error { return f(w, seed) }

// Generator runs a Builder through the mode state machine.
type Generator struct {
	world       *pool.World
	builder     Builder
	rng         *rand.Rand
	log         *zap.Logger
	maxAttempts int
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) {
		g.log = log
	}
}

// WithRand sets the source of random seeds.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithMaxAttempts bounds the number of attempts a Run makes.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		g.maxAttempts = n
	}
}

// NewGenerator creates a generator that builds into w.
func NewGenerator(w *pool.World, b Builder, opts ...Option) *Generator {
	g := &Generator{
		world:       w,
		builder:     b,
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:         zap.NewNop(),
		maxAttempts: 64,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.maxAttempts = max(g.maxAttempts, 1)
	return g
}

// PickRandomSeed returns a fresh 15-bit seed.
func (g *Generator) PickRandomSeed() uint32 {
	return g.rng.Uint32() & SeedMask
}

// Step makes one attempt. Test and final modes use seed, random modes
// draw a new one. It returns the mode to continue with, the seed that was
// tried and the builder's error. A failed attempt leaves the world as it
// was before the call.
func (g *Generator) Step(mode Mode, seed uint32) (next Mode, tried uint32, err error) {
	switch mode {
	case ModeTryTestElseStop, ModeTryTestElseRand, ModeFinal:
		tried = seed & SeedMask
	case ModeTryRandElseStop, ModeTryRandElseRand:
		tried = g.PickRandomSeed()
	default:
		return ModeStop, 0, nil
	}

	if !g.world.Validation().Strict() {
		panic("mapgen: attempt started with validation relaxed")
	}

	err = g.world.Speculate(func(w *pool.World) error {
		restore := w.Validation().Relax()
		defer restore()
		return g.builder.Build(w, tried)
	})

	next = Transition(mode, err == nil)
	if err != nil {
		g.log.Debug("map attempt rejected",
			zap.Stringer("mode", mode), zap.Uint32("seed", tried), zap.Error(err))
		return next, tried, err
	}
	g.log.Info("map generated", zap.Stringer("mode", mode), zap.Uint32("seed", tried))
	return next, tried, nil
}

// Run steps from mode until an attempt succeeds or the state machine
// stops, and returns the seed of the generated map.
func (g *Generator) Run(seed uint32, mode Mode) (uint32, error) {
	var lastErr error
	for attempt := 0; mode != ModeStop; attempt++ {
		if attempt == g.maxAttempts {
			return 0, fmt.Errorf("%w: gave up after %d attempts: %w", ErrNoMap, attempt, lastErr)
		}

		next, tried, err := g.Step(mode, seed)
		if err == nil {
			return tried, nil
		}
		if mode == ModeFinal {
			g.log.Error("final map seed failed", zap.Uint32("seed", tried), zap.Error(err))
		}
		lastErr = err
		mode = next
	}

	if lastErr == nil {
		return 0, ErrNoMap
	}
	return 0, fmt.Errorf("%w: %w", ErrNoMap, lastErr)
}
