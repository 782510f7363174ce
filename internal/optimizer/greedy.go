package optimizer

import (
	"cmp"
	"slices"

	"github.com/guttosm/shipment-optimizer/internal/domain/model"
	"github.com/guttosm/shipment-optimizer/internal/shipment"
	"github.com/rs/zerolog"
)

// packer fills a single empty shipment from an ordered container list and
// reports whether every overdue container made it on board. Overdue
// containers are those ahead of the first container of mainTimestamp.
type packer interface {
	pack(sh *shipment.Shipment, containers []model.Container, checkUrgent bool, mainTimestamp int, sortByWidth bool) (bool, error)
}

// Greedy packs each level separately, stacks the tightest levels first and
// commits, ship after ship, the candidate with the lowest empty ratio.
type Greedy struct {
	packer packer
	logger zerolog.Logger
}

// NewGreedy creates a Greedy optimizer.
func NewGreedy(opts ...Option) *Greedy {
	o := newOptions(opts)
	return &Greedy{packer: greedyPacker{}, logger: o.logger}
}

// Name implements Optimizer.
func (g *Greedy) Name() string { return AlgorithmGreedy }

// Optimize implements Optimizer. It never returns an error.
func (g *Greedy) Optimize(req Request) (*shipment.Manager, error) {
	return selectShipments(req, g.packer, g.logger)
}

// prioritize orders containers by timestamp, larger footprint first on ties.
func prioritize(containers []model.Container) []model.Container {
	sorted := slices.Clone(containers)
	slices.SortStableFunc(sorted, func(a, b model.Container) int {
		if c := cmp.Compare(a.Timestamp, b.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(b.Area(), a.Area())
	})
	return sorted
}

// selectShipments is the ship selection loop shared by Greedy and Genetic.
//
// The first pass only accepts candidates that carry every overdue container;
// when none does, the previous shipment is committed unchanged. Later passes
// take any candidate until nothing is pending or nothing can be committed.
func selectShipments(req Request, p packer, logger zerolog.Logger) (*shipment.Manager, error) {
	m := shipment.NewManager(req.Timestamp)
	pending := prioritize(req.Containers)
	logger.Debug().Int("timestamp", req.Timestamp).Int("containers", len(pending)).Msg("optimization started")

	candidates, err := buildCandidates(req, pending, p, true)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		if req.Previous == nil {
			logger.Debug().
				Int("timestamp", req.Timestamp).
				Ints("overdue", overdueIDs(pending, req.Timestamp)).
				Msg("overdue containers do not fit current ships and no previous shipment is open")
		} else {
			logger.Debug().Int("timestamp", req.Timestamp).Msg("overdue containers do not fit current ships, previous shipment is used")
			if commit(m, req.Previous, logger) {
				pending = removeShipped(pending, req.Previous)
			}
		}
	} else {
		pending = chooseAndCommit(m, candidates, pending, logger)
	}

	for len(pending) > 0 {
		logger.Debug().Int("containers", len(pending)).Msg("containers to place")
		candidates, err := buildCandidates(req, pending, p, false)
		if err != nil {
			return nil, err
		}
		left := chooseAndCommit(m, candidates, pending, logger)
		if len(left) == len(pending) {
			break
		}
		pending = left
	}
	return m, nil
}

// buildCandidates packs one candidate shipment per ship. With checkUrgent only
// candidates carrying every overdue container are returned.
func buildCandidates(req Request, pending []model.Container, p packer, checkUrgent bool) ([]*shipment.Shipment, error) {
	candidates := make([]*shipment.Shipment, 0, len(req.Ships))
	for _, ship := range req.Ships {
		sh := shipment.New(ship, req.ContainerHeight)
		ok, err := p.pack(sh, pending, checkUrgent, req.Timestamp, false)
		if err != nil {
			return nil, err
		}
		if ok || !checkUrgent {
			candidates = append(candidates, sh)
		}
	}
	return candidates, nil
}

func emptyRatio(sh *shipment.Shipment) float64 {
	full := sh.FullVolume(false)
	if full == 0 {
		return 1
	}
	return float64(sh.EmptyVolume(false)) / float64(full)
}

// chooseAndCommit commits the candidate with the smallest empty ratio that the
// manager accepts and returns the containers still pending.
func chooseAndCommit(m *shipment.Manager, candidates []*shipment.Shipment, pending []model.Container, logger zerolog.Logger) []model.Container {
	slices.SortStableFunc(candidates, func(a, b *shipment.Shipment) int {
		return cmp.Compare(emptyRatio(a), emptyRatio(b))
	})
	for _, sh := range candidates {
		if commit(m, sh, logger) {
			return removeShipped(pending, sh)
		}
	}
	return pending
}

func removeShipped(pending []model.Container, sh *shipment.Shipment) []model.Container {
	return slices.DeleteFunc(slices.Clone(pending), func(c model.Container) bool {
		return sh.Contains(c.ID)
	})
}

// greedyPacker is the deterministic single shipment packer.
type greedyPacker struct{}

// pack fills each level as a one-level shipment, joins them tightest first and
// falls back to whole-grid first-fit when some level could not be stacked.
func (greedyPacker) pack(sh *shipment.Shipment, containers []model.Container, checkUrgent bool, mainTimestamp int, sortByWidth bool) (bool, error) {
	remaining := slices.Clone(containers)
	levels := make([]*shipment.Shipment, sh.LevelsNr())
	for i := range levels {
		level := sh.Copy(true)
		for _, c := range remaining {
			PlaceContainer(level, c, PlaceOptions{SingleLevel: true, Level: 0, SortByWidth: sortByWidth})
		}
		remaining = slices.DeleteFunc(remaining, func(c model.Container) bool {
			return level.Contains(c.ID)
		})
		levels[i] = level
	}
	slices.SortStableFunc(levels, func(a, b *shipment.Shipment) int {
		return cmp.Compare(a.EmptyVolume(true), b.EmptyVolume(true))
	})

	joined := make([]bool, len(levels))
	for {
		progress := false
		for i, level := range levels {
			if joined[i] {
				continue
			}
			if sh.CheckAndJoin(level) == nil {
				joined[i] = true
				progress = true
			}
		}
		if !progress || !slices.Contains(joined, false) {
			break
		}
	}

	if slices.Contains(joined, false) {
		for _, c := range containers {
			PlaceContainer(sh, c, PlaceOptions{})
		}
	}

	if !checkUrgent {
		return true, nil
	}
	return carriesOverdue(sh, containers, mainTimestamp), nil
}

// overdueIDs lists the containers ahead of the first one of mainTimestamp.
func overdueIDs(containers []model.Container, mainTimestamp int) []int {
	var ids []int
	for _, c := range containers {
		if c.Timestamp == mainTimestamp {
			break
		}
		ids = append(ids, c.ID)
	}
	return ids
}

// carriesOverdue reports whether every container listed before the first one
// of mainTimestamp is placed on sh.
func carriesOverdue(sh *shipment.Shipment, containers []model.Container, mainTimestamp int) bool {
	for _, c := range containers {
		if c.Timestamp == mainTimestamp {
			break
		}
		if !sh.Contains(c.ID) {
			return false
		}
	}
	return true
}
