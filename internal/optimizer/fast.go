package optimizer

import (
	"math/rand/v2"

	"github.com/guttosm/shipment-optimizer/internal/shipment"
	"github.com/rs/zerolog"
)

// Fast streams containers in input order into a randomly chosen ship and
// opens a new random ship whenever a container does not fit.
type Fast struct {
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewFast creates a Fast optimizer.
func NewFast(opts ...Option) *Fast {
	o := newOptions(opts)
	return &Fast{rng: o.rng, logger: o.logger}
}

// Name implements Optimizer.
func (f *Fast) Name() string { return AlgorithmFast }

// Optimize implements Optimizer. It never returns an error.
//
// When a backlog container (timestamp before the round) does not fit, the
// previous round's shipment is committed instead and every container already
// on it is skipped from then on.
func (f *Fast) Optimize(req Request) (*shipment.Manager, error) {
	m := shipment.NewManager(req.Timestamp)
	if len(req.Ships) == 0 {
		if req.Previous != nil {
			commit(m, req.Previous, f.logger)
		}
		return m, nil
	}

	usePrevious := false
	current := f.newShipment(req)
	for _, c := range req.Containers {
		if usePrevious && req.Previous != nil && req.Previous.Contains(c.ID) {
			continue
		}
		if PlaceContainer(current, c, PlaceOptions{}) {
			continue
		}
		if c.Timestamp < req.Timestamp {
			if !usePrevious {
				f.logger.Debug().Int("container", c.ID).Msg("backlog container does not fit, using previous shipment")
			}
			usePrevious = true
			if req.Previous != nil {
				commit(m, req.Previous, f.logger)
			}
			continue
		}
		commit(m, current, f.logger)
		current = f.newShipment(req)
		PlaceContainer(current, c, PlaceOptions{})
	}
	commit(m, current, f.logger)
	return m, nil
}

func (f *Fast) newShipment(req Request) *shipment.Shipment {
	ship := req.Ships[f.rng.IntN(len(req.Ships))]
	return shipment.New(ship, req.ContainerHeight)
}
