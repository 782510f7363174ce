// Package app provides service initialization.
package app

import (
	"github.com/guttosm/shipment-optimizer/config"
	"github.com/guttosm/shipment-optimizer/internal/metrics"
	"github.com/guttosm/shipment-optimizer/internal/optimizer"
	"github.com/guttosm/shipment-optimizer/internal/service"
	"github.com/rs/zerolog"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Optimizer optimizer.Optimizer
	Inventory *service.Inventory
}

// InitializeServices builds the optimizer and an empty inventory.
func InitializeServices(cfg config.Config, m *metrics.Metrics, logger zerolog.Logger) (*ServiceComponents, error) {
	opts := []optimizer.Option{
		optimizer.WithGeneticParams(geneticParams(cfg.Optimizer)),
		optimizer.WithLogger(logger),
	}
	if cfg.Optimizer.Seed != 0 {
		opts = append(opts, optimizer.WithSeed(cfg.Optimizer.Seed))
	}
	if m != nil {
		opts = append(opts, optimizer.WithGenerationObserver(m))
	}

	opt, err := optimizer.New(cfg.Optimizer.Algorithm, opts...)
	if err != nil {
		return nil, err
	}

	return &ServiceComponents{
		Optimizer: opt,
		Inventory: service.NewInventory(inventoryConfig(cfg.Simulation), &logger),
	}, nil
}

func geneticParams(cfg config.OptimizerConfig) optimizer.GeneticParams {
	return optimizer.GeneticParams{
		Generations:         cfg.Generations,
		BasePopulationSize:  cfg.PopulationSize,
		SurvivorsNr:         cfg.Survivors,
		MutationProbability: cfg.MutationProbability,
		ShuffleLen:          cfg.ShuffleLen,
	}
}

func inventoryConfig(cfg config.SimulationConfig) service.InventoryConfig {
	return service.InventoryConfig{
		MaxAvailableShips: cfg.MaxAvailableShips,
		ContainerLimits:   service.UniformLimits(cfg.ContainerMinSize, cfg.ContainerMaxSize),
		ShipLimits:        service.UniformLimits(cfg.ShipMinSize, cfg.ShipMaxSize),
	}
}
