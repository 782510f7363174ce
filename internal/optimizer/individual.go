package optimizer

import (
	"math/rand/v2"
	"slices"

	"github.com/guttosm/shipment-optimizer/internal/domain/model"
	"github.com/guttosm/shipment-optimizer/internal/shipment"
)

// SortingOpt is the gene choosing the cell scan order used while packing.
type SortingOpt int

const (
	// SortByLength scans length-major.
	SortByLength SortingOpt = iota
	// SortByWidth scans width-major.
	SortByWidth
	// SortRandom draws the scan order on every evaluation.
	SortRandom
)

func (o SortingOpt) String() string {
	switch o {
	case SortByLength:
		return "length"
	case SortByWidth:
		return "width"
	case SortRandom:
		return "random"
	default:
		return "unknown"
	}
}

func randomSortingOpt(rng *rand.Rand) SortingOpt {
	return SortingOpt(rng.IntN(3))
}

// Individual is one candidate packing: a container order, a sorting gene and
// the private scratch shipment it is evaluated on.
type Individual struct {
	containers []model.Container
	shipment   *shipment.Shipment
	sortingOpt SortingOpt

	evaluated bool
	alive     bool
	value     int
}

func newIndividual(containers []model.Container, sh *shipment.Shipment, opt SortingOpt) *Individual {
	return &Individual{containers: containers, shipment: sh, sortingOpt: opt}
}

// Containers returns the container order (the genes).
func (i *Individual) Containers() []model.Container { return slices.Clone(i.containers) }

// SortingOpt returns the sorting gene.
func (i *Individual) SortingOpt() SortingOpt { return i.sortingOpt }

// Shipment returns the scratch shipment the individual was evaluated on.
func (i *Individual) Shipment() *shipment.Shipment { return i.shipment }

// Evaluated reports whether the individual has been packed already.
func (i *Individual) Evaluated() bool { return i.evaluated }

// Alive reports whether the packing carried every overdue container.
func (i *Individual) Alive() bool { return i.alive }

// Value is the occupied volume of an alive packing, 0 otherwise.
func (i *Individual) Value() int { return i.value }

// copy returns an unevaluated individual with the same genes on a fresh
// scratch shipment.
func (i *Individual) copy() *Individual {
	return newIndividual(slices.Clone(i.containers), i.shipment.Copy(true), i.sortingOpt)
}

func (i *Individual) sortByWidth(rng *rand.Rand) bool {
	switch i.sortingOpt {
	case SortByLength:
		return false
	case SortByWidth:
		return true
	default:
		return rng.IntN(2) == 1
	}
}

// evaluate packs the individual's scratch shipment once. Overdue containers
// are those of pending ahead of the first one of mainTimestamp.
func (i *Individual) evaluate(p packer, checkUrgent bool, mainTimestamp int, pending []model.Container, rng *rand.Rand) error {
	if _, err := p.pack(i.shipment, i.containers, false, mainTimestamp, i.sortByWidth(rng)); err != nil {
		return err
	}
	alive := true
	if checkUrgent {
		alive = carriesOverdue(i.shipment, pending, mainTimestamp)
	}
	i.evaluated = true
	i.alive = alive
	if alive {
		i.value = i.shipment.OccupiedVolume()
	}
	return nil
}
