package optimizer

import (
	"cmp"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/guttosm/shipment-optimizer/internal/domain/model"
	"github.com/guttosm/shipment-optimizer/internal/shipment"
)

// ErrInvalidGeneticParams is returned by GeneticParams.Validate.
var ErrInvalidGeneticParams = errors.New("invalid genetic parameters")

// GeneticParams tunes the evolutionary packer.
type GeneticParams struct {
	Generations         int
	BasePopulationSize  int
	SurvivorsNr         int
	MutationProbability float64
	// ShuffleLen is the chunk length of the initial block shuffle. A
	// non-positive value shuffles each partition as a whole.
	ShuffleLen int
}

// DefaultGeneticParams returns the default search parameters.
func DefaultGeneticParams() GeneticParams {
	return GeneticParams{
		Generations:         10,
		BasePopulationSize:  40,
		SurvivorsNr:         20,
		MutationProbability: 0.1,
		ShuffleLen:          -1,
	}
}

// Validate checks the parameters for values the search cannot work with.
func (p GeneticParams) Validate() error {
	switch {
	case p.Generations < 0:
		return fmt.Errorf("%w: generations must not be negative", ErrInvalidGeneticParams)
	case p.BasePopulationSize < 1:
		return fmt.Errorf("%w: base population size must be positive", ErrInvalidGeneticParams)
	case p.SurvivorsNr < 1:
		return fmt.Errorf("%w: survivors number must be positive", ErrInvalidGeneticParams)
	case p.SurvivorsNr > p.BasePopulationSize:
		return fmt.Errorf("%w: survivors number exceeds base population size", ErrInvalidGeneticParams)
	case p.MutationProbability < 0 || p.MutationProbability > 1:
		return fmt.Errorf("%w: mutation probability must be within [0, 1]", ErrInvalidGeneticParams)
	}
	return nil
}

// Population is the evolving set of individuals for one ship.
type Population struct {
	params      GeneticParams
	timestamp   int
	rng         *rand.Rand
	individuals []*Individual
	// pending is the prioritized order given to Initialize; overdue
	// containers are judged against it, never against an individual's genes.
	pending []model.Container
}

// NewPopulation creates an empty population for the round at timestamp.
func NewPopulation(params GeneticParams, timestamp int, rng *rand.Rand) *Population {
	return &Population{params: params, timestamp: timestamp, rng: rng}
}

// Individuals returns the current members in population order.
func (p *Population) Individuals() []*Individual {
	return slices.Clone(p.individuals)
}

// Initialize seeds the population with the given order under each sorting
// gene and fills it up to the base size with randomized orders that keep
// backlog containers ahead of current ones.
func (p *Population) Initialize(containers []model.Container, target *shipment.Shipment) {
	p.individuals = p.individuals[:0]
	p.pending = slices.Clone(containers)
	for _, opt := range []SortingOpt{SortByLength, SortByWidth, SortRandom} {
		p.individuals = append(p.individuals, newIndividual(slices.Clone(containers), target.Copy(true), opt))
	}

	backlog, current := p.split(containers)
	for len(p.individuals) < p.params.BasePopulationSize {
		order := append(p.shuffle(backlog), p.shuffle(current)...)
		p.individuals = append(p.individuals, newIndividual(order, target.Copy(true), randomSortingOpt(p.rng)))
	}
}

// split separates containers older than the round from current ones,
// preserving their relative order.
func (p *Population) split(containers []model.Container) (backlog, current []model.Container) {
	for _, c := range containers {
		if c.Timestamp < p.timestamp {
			backlog = append(backlog, c)
		} else {
			current = append(current, c)
		}
	}
	return backlog, current
}

// shuffle returns a copy of containers shuffled in consecutive chunks of
// ShuffleLen.
func (p *Population) shuffle(containers []model.Container) []model.Container {
	out := slices.Clone(containers)
	chunk := p.params.ShuffleLen
	if chunk <= 0 {
		chunk = len(out)
	}
	for start := 0; start < len(out); start += chunk {
		sub := out[start:min(start+chunk, len(out))]
		p.rng.Shuffle(len(sub), func(i, j int) { sub[i], sub[j] = sub[j], sub[i] })
	}
	return out
}

// Evaluate packs every individual that has not been evaluated yet. With
// checkUrgent an individual is alive only when it carries every overdue
// container of the order passed to Initialize.
func (p *Population) Evaluate(pk packer, checkUrgent bool) error {
	for _, ind := range p.individuals {
		if ind.evaluated {
			continue
		}
		if err := ind.evaluate(pk, checkUrgent, p.timestamp, p.pending, p.rng); err != nil {
			return err
		}
	}
	return nil
}

// Selection keeps the SurvivorsNr individuals with the highest value.
func (p *Population) Selection() {
	slices.SortStableFunc(p.individuals, func(a, b *Individual) int {
		return cmp.Compare(b.value, a.value)
	})
	p.individuals = p.individuals[:min(p.params.SurvivorsNr, len(p.individuals))]
}

// Crossover refills the population to its base size with children of two
// distinct random survivors. Survivors are not filtered on Alive.
func (p *Population) Crossover() error {
	parents := len(p.individuals)
	if parents < 2 {
		return nil
	}
	for range p.params.BasePopulationSize - parents {
		mother := p.rng.IntN(parents)
		father := p.rng.IntN(parents - 1)
		if father >= mother {
			father++
		}
		child, err := p.cross(p.individuals[mother], p.individuals[father])
		if err != nil {
			return err
		}
		p.individuals = append(p.individuals, child)
	}
	return nil
}

// cross builds one child by ordered recombination: each coin flip takes the
// next gene of one parent that the child does not hold yet.
func (p *Population) cross(mother, father *Individual) (*Individual, error) {
	n := len(mother.containers)
	genes := make([]model.Container, 0, n)
	taken := make(map[int]struct{}, n)
	cursors := [2]int{}
	parents := [2]*Individual{mother, father}

	for cursors[0] < n && cursors[1] < n {
		side := p.rng.IntN(2)
		parent, cursor := parents[side], cursors[side]
		for cursor < len(parent.containers) {
			gene := parent.containers[cursor]
			cursor++
			if _, ok := taken[gene.ID]; !ok {
				genes = append(genes, gene)
				taken[gene.ID] = struct{}{}
				break
			}
		}
		cursors[side] = cursor
	}

	if len(genes) != n {
		return nil, fmt.Errorf("%w: child has %d of %d containers", ErrCrossoverInvariant, len(genes), n)
	}
	opt := mother.sortingOpt
	if p.rng.IntN(2) == 1 {
		opt = father.sortingOpt
	}
	return newIndividual(genes, mother.shipment.Copy(true), opt), nil
}

// Mutation appends, for each survivor and with MutationProbability, a copy with
// one container moved to a random position and a random sorting gene.
func (p *Population) Mutation() {
	survivors := min(p.params.SurvivorsNr, len(p.individuals))
	for i := range survivors {
		if p.rng.Float64() >= p.params.MutationProbability {
			continue
		}
		p.individuals = append(p.individuals, p.mutate(p.individuals[i]))
	}
}

func (p *Population) mutate(original *Individual) *Individual {
	mutant := original.copy()
	if n := len(mutant.containers); n > 0 {
		from, to := p.rng.IntN(n), p.rng.IntN(n)
		gene := mutant.containers[from]
		mutant.containers = slices.Delete(mutant.containers, from, from+1)
		mutant.containers = slices.Insert(mutant.containers, to, gene)
	}
	mutant.sortingOpt = randomSortingOpt(p.rng)
	return mutant
}

// NextGeneration runs selection, crossover and mutation.
func (p *Population) NextGeneration() error {
	p.Selection()
	if err := p.Crossover(); err != nil {
		return err
	}
	p.Mutation()
	return nil
}

// Winner picks uniformly among the alive individuals of maximal value, or the
// first individual when none is alive. It returns nil for an empty population.
func (p *Population) Winner() *Individual {
	best := -1
	var bests []*Individual
	for _, ind := range p.individuals {
		if !ind.alive {
			continue
		}
		switch {
		case ind.value > best:
			best = ind.value
			bests = append(bests[:0], ind)
		case ind.value == best:
			bests = append(bests, ind)
		}
	}
	if len(bests) > 0 {
		return bests[p.rng.IntN(len(bests))]
	}
	if len(p.individuals) == 0 {
		return nil
	}
	return p.individuals[0]
}

// stats returns the number of alive individuals and the best alive value.
func (p *Population) stats() (alive, best int) {
	for _, ind := range p.individuals {
		if ind.alive {
			alive++
			best = max(best, ind.value)
		}
	}
	return alive, best
}
