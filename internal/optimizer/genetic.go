package optimizer

import (
	"math/rand/v2"

	"github.com/guttosm/shipment-optimizer/internal/domain/model"
	"github.com/guttosm/shipment-optimizer/internal/shipment"
	"github.com/rs/zerolog"
)

// Genetic runs Greedy's ship selection with an evolutionary single shipment
// packer searching container orders and scan orders.
type Genetic struct {
	packer *geneticPacker
	logger zerolog.Logger
}

// NewGenetic creates a Genetic optimizer. Parameters are used as given; New
// validates them.
func NewGenetic(opts ...Option) *Genetic {
	o := newOptions(opts)
	return &Genetic{
		packer: &geneticPacker{
			params:   o.genetic,
			rng:      o.rng,
			logger:   o.logger,
			observer: o.observer,
		},
		logger: o.logger,
	}
}

// Name implements Optimizer.
func (g *Genetic) Name() string { return AlgorithmGenetic }

// Params returns the search parameters in use.
func (g *Genetic) Params() GeneticParams { return g.packer.params }

// Optimize implements Optimizer. It fails only with ErrCrossoverInvariant.
func (g *Genetic) Optimize(req Request) (*shipment.Manager, error) {
	return selectShipments(req, g.packer, g.logger)
}

type geneticPacker struct {
	params   GeneticParams
	rng      *rand.Rand
	logger   zerolog.Logger
	observer GenerationObserver
	greedy   greedyPacker
}

// pack evolves a population for the ship of sh and loads the winner into sh.
// The sortByWidth argument is ignored; the scan order is part of the genes.
func (g *geneticPacker) pack(sh *shipment.Shipment, containers []model.Container, checkUrgent bool, mainTimestamp int, _ bool) (bool, error) {
	pop := NewPopulation(g.params, mainTimestamp, g.rng)
	pop.Initialize(containers, sh)

	logger := g.logger.With().Stringer("ship", sh.Ship()).Logger()
	for gen := range g.params.Generations {
		if err := pop.Evaluate(g.greedy, checkUrgent); err != nil {
			return false, err
		}
		alive, best := pop.stats()
		logger.Debug().
			Int("generation", gen+1).
			Int("generations", g.params.Generations).
			Int("alive", alive).
			Int("best", best).
			Msg("genetic generation")
		if g.observer != nil {
			g.observer.ObserveGeneration(sh.Ship(), gen+1, alive, best)
		}
		if err := pop.NextGeneration(); err != nil {
			return false, err
		}
	}

	winner := pop.Winner()
	if winner == nil {
		return false, nil
	}
	sh.Load(winner.shipment)
	if !checkUrgent {
		return true, nil
	}
	return carriesOverdue(sh, containers, mainTimestamp), nil
}
