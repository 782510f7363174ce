// Package optimizer decides how containers are distributed over ships in one
// round. Three strategies share the same contract: Fast (random ship,
// first-fit), Greedy (per-level packing and ship selection by fill ratio) and
// Genetic (Greedy's ship selection driven by an evolutionary packer).
package optimizer

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/guttosm/shipment-optimizer/internal/domain/model"
	"github.com/guttosm/shipment-optimizer/internal/shipment"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// ErrUnknownAlgorithm is returned by New for an unsupported algorithm name.
	ErrUnknownAlgorithm = errors.New("unknown optimizer algorithm")

	// ErrCrossoverInvariant signals a crossover child that is not a full
	// permutation of its parents' containers. It aborts the optimization.
	ErrCrossoverInvariant = errors.New("crossover produced an incomplete permutation")
)

// Algorithm names accepted by New.
const (
	AlgorithmFast    = "fast"
	AlgorithmGreedy  = "greedy"
	AlgorithmGenetic = "genetic"
)

// Optimizer places the containers of one round on the available ships.
type Optimizer interface {
	Name() string
	Optimize(req Request) (*shipment.Manager, error)
}

// Request is the input of one optimization round.
type Request struct {
	// Ships available in this round. They are shared read-only.
	Ships []*model.Ship
	// Containers waiting to be sent, already filtered to the round window.
	Containers []model.Container
	// Timestamp is the main timestamp of the round.
	Timestamp int
	// ContainerHeight is the uniform height of all containers.
	ContainerHeight int
	// Previous is the unfinished shipment of the prior round, if any.
	Previous *shipment.Shipment
}

// GenerationObserver is notified after every genetic generation.
type GenerationObserver interface {
	ObserveGeneration(ship *model.Ship, generation, alive, best int)
}

// Option configures an optimizer.
type Option func(*options)

type options struct {
	rng      *rand.Rand
	genetic  GeneticParams
	logger   zerolog.Logger
	observer GenerationObserver
}

func newOptions(opts []Option) options {
	o := options{
		genetic: DefaultGeneticParams(),
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return o
}

// WithRand sets the random source used for every random decision.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rng = r
		}
	}
}

// WithSeed makes the optimizer deterministic for the given seed.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithGeneticParams overrides the genetic search parameters.
func WithGeneticParams(p GeneticParams) Option {
	return func(o *options) {
		o.genetic = p
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithGenerationObserver registers an observer for genetic generations.
func WithGenerationObserver(obs GenerationObserver) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// New returns the optimizer registered under name. Besides the names, the
// numeric ids 1 (fast), 2 (greedy) and 3 (genetic) are accepted.
func New(name string, opts ...Option) (Optimizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case AlgorithmFast, "1":
		return NewFast(opts...), nil
	case AlgorithmGreedy, "2":
		return NewGreedy(opts...), nil
	case AlgorithmGenetic, "3":
		o := newOptions(opts)
		if err := o.genetic.Validate(); err != nil {
			return nil, err
		}
		return NewGenetic(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Algorithms lists the accepted algorithm names.
func Algorithms() []string {
	return []string{AlgorithmFast, AlgorithmGreedy, AlgorithmGenetic}
}

// PlaceOptions restricts and orders the cell scan of PlaceContainer.
type PlaceOptions struct {
	// SingleLevel restricts the scan to Level.
	SingleLevel bool
	Level       int
	// SortByWidth scans width-major instead of length-major.
	SortByWidth bool
}

// PlaceContainer tries every free cell of sh in raster order and places c at
// the first one where CheckAndAdd succeeds.
//
// The default order is level, length, width. With SortByWidth the width
// coordinate becomes the outermost loop.
func PlaceContainer(sh *shipment.Shipment, c model.Container, opts PlaceOptions) bool {
	ship := sh.Ship()
	levelFrom, levelTo := 0, sh.LevelsNr()
	if opts.SingleLevel {
		if opts.Level < 0 || opts.Level >= sh.LevelsNr() {
			return false
		}
		levelFrom, levelTo = opts.Level, opts.Level+1
	}

	try := func(level, l, w int) bool {
		if !sh.Free(level, l, w) {
			return false
		}
		corner := model.CornerPosition{Length: l, Width: w, HeightLevel: level}
		return sh.CheckAndAdd(model.NewPlacedContainer(c, corner)) == nil
	}

	if opts.SortByWidth {
		for w := 0; w < ship.Width; w++ {
			for level := levelFrom; level < levelTo; level++ {
				for l := 0; l < ship.Length; l++ {
					if try(level, l, w) {
						return true
					}
				}
			}
		}
		return false
	}

	for level := levelFrom; level < levelTo; level++ {
		for l := 0; l < ship.Length; l++ {
			for w := 0; w < ship.Width; w++ {
				if try(level, l, w) {
					return true
				}
			}
		}
	}
	return false
}

// commit hands sh to the manager and logs the reason when it is refused.
func commit(m *shipment.Manager, sh *shipment.Shipment, logger zerolog.Logger) bool {
	if err := m.CheckAndAdd(sh); err != nil {
		logger.Debug().Err(err).Int("timestamp", m.MainTimestamp()).Msg("shipment not committed")
		return false
	}
	return true
}
