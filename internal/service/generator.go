package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"

	"github.com/guttosm/shipment-optimizer/internal/domain/model"
)

// ErrInvalidGeneratorConfig is returned when a generator cannot produce any input.
var ErrInvalidGeneratorConfig = errors.New("invalid generator configuration")

// GeneratorConfig describes a random input file.
type GeneratorConfig struct {
	Containers      int
	Ships           int
	Timestamps      int
	ContainerLimits Limits
	ShipLimits      Limits
}

// DefaultGeneratorConfig returns 100 containers, 3 ships and 10 timestamps.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Containers:      100,
		Ships:           3,
		Timestamps:      10,
		ContainerLimits: DefaultContainerLimits(),
		ShipLimits:      DefaultShipLimits(),
	}
}

func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

// Generate writes a random input in the format ReadInput accepts. Containers
// share one height and appear in timestamp order; the first line is always a
// ship and the remaining ships are spread between the containers.
func Generate(w io.Writer, cfg GeneratorConfig, rng *rand.Rand) error {
	if cfg.Ships < 1 || cfg.Timestamps < 1 || cfg.Containers < 0 {
		return fmt.Errorf("%d ships, %d timestamps, %d containers: %w",
			cfg.Ships, cfg.Timestamps, cfg.Containers, ErrInvalidGeneratorConfig)
	}

	seen := make(map[int]struct{}, cfg.Timestamps)
	timestamps := make([]int, 0, cfg.Timestamps)
	for len(timestamps) < cfg.Timestamps {
		ts := rng.IntN(10*cfg.Timestamps + 1)
		if _, ok := seen[ts]; !ok {
			seen[ts] = struct{}{}
			timestamps = append(timestamps, ts)
		}
	}
	slices.Sort(timestamps)

	cl := cfg.ContainerLimits
	height := between(rng, cl.MinHeight, cl.MaxHeight)
	containers := make([]model.Container, cfg.Containers)
	for i := range containers {
		containers[i] = model.Container{
			ID:        i,
			Length:    between(rng, cl.MinLength, cl.MaxLength),
			Width:     between(rng, cl.MinWidth, cl.MaxWidth),
			Height:    height,
			Timestamp: timestamps[rng.IntN(len(timestamps))],
		}
	}
	slices.SortStableFunc(containers, func(a, b model.Container) int {
		return a.Timestamp - b.Timestamp
	})

	lines := make([]string, 0, cfg.Containers+cfg.Ships)
	for _, c := range containers {
		lines = append(lines, c.String())
	}

	sl := cfg.ShipLimits
	for i := range cfg.Ships {
		ship := &model.Ship{
			ID:     i,
			Length: between(rng, sl.MinLength, sl.MaxLength),
			Width:  between(rng, sl.MinWidth, sl.MaxWidth),
			Height: between(rng, sl.MinHeight, sl.MaxHeight),
		}
		pos := 0
		if i > 0 {
			pos = rng.IntN(len(lines) + 1)
		}
		lines = slices.Insert(lines, pos, ship.String())
	}

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write input: %w", err)
		}
	}
	return bw.Flush()
}
