package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/guttosm/shipment-optimizer/internal/domain/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxLineSize = 1 << 20

// InventoryConfig holds the validation settings of an Inventory.
type InventoryConfig struct {
	MaxAvailableShips int
	ContainerLimits   Limits
	ShipLimits        Limits
}

// DefaultInventoryConfig returns three available ships and the default limits.
func DefaultInventoryConfig() InventoryConfig {
	return InventoryConfig{
		MaxAvailableShips: 3,
		ContainerLimits:   DefaultContainerLimits(),
		ShipLimits:        DefaultShipLimits(),
	}
}

// Inventory groups the managers fed by the input stream.
type Inventory struct {
	Containers *ContainersManager
	Ships      *ShipsManager
	Timestamps *TimestampsManager
	logger     zerolog.Logger
}

// InputSummary counts what happened to the lines of an input stream.
type InputSummary struct {
	Ships      int
	Containers int
	Rejected   int
	Skipped    int
}

// NewInventory creates empty managers.
func NewInventory(cfg InventoryConfig, logger *zerolog.Logger) *Inventory {
	l := log.Logger
	if logger != nil {
		l = *logger
	}
	return &Inventory{
		Containers: NewContainersManager(cfg.ContainerLimits),
		Ships:      NewShipsManager(cfg.MaxAvailableShips, cfg.ShipLimits),
		Timestamps: NewTimestampsManager(),
		logger:     l,
	}
}

// ReadInput registers every line of r. Lines starting with 's' are ships,
// lines starting with 'c' are containers and anything else is skipped.
// Invalid records are logged and counted, never fatal.
func (inv *Inventory) ReadInput(r io.Reader) (InputSummary, error) {
	var summary InputSummary

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNr := 0
	for scanner.Scan() {
		lineNr++
		line := strings.TrimSpace(scanner.Text())

		err := inv.AddLine(line)
		switch {
		case err == nil && line[0] == 's':
			summary.Ships++
		case err == nil:
			summary.Containers++
		case errors.Is(err, errUnknownRecord):
			summary.Skipped++
			inv.logger.Debug().Int("line", lineNr).Str("content", line).Msg("incorrect type of line")
		default:
			summary.Rejected++
			inv.logger.Warn().Err(err).Int("line", lineNr).Msg("record rejected")
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("read input: %w", err)
	}

	inv.logger.Info().
		Int("ships", summary.Ships).
		Int("containers", summary.Containers).
		Int("rejected", summary.Rejected).
		Int("skipped", summary.Skipped).
		Msg("input registered")
	return summary, nil
}

var errUnknownRecord = errors.New("unknown record type")

// AddLine registers a single input line.
func (inv *Inventory) AddLine(line string) error {
	if line == "" {
		return errUnknownRecord
	}
	latest := inv.Timestamps.Max()

	switch line[0] {
	case 's':
		ship, err := model.ParseShip(line)
		if err != nil {
			return err
		}
		return inv.Ships.Add(ship, latest)
	case 'c':
		c, err := model.ParseContainer(line)
		if err != nil {
			return err
		}
		if err := inv.Containers.Add(c, latest); err != nil {
			return err
		}
		inv.Timestamps.Add(c.Timestamp)
		return nil
	default:
		return errUnknownRecord
	}
}
