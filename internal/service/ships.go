package service

import (
	"fmt"
	"slices"

	"github.com/guttosm/shipment-optimizer/internal/domain/model"
)

// ShipsManager registers ships and decides which of them are available.
type ShipsManager struct {
	limits       Limits
	maxAvailable int
	ships        []*model.Ship
	ids          map[int]struct{}
}

// NewShipsManager creates an empty manager offering at most maxAvailable ships at a time.
func NewShipsManager(maxAvailable int, limits Limits) *ShipsManager {
	return &ShipsManager{
		limits:       limits,
		maxAvailable: max(maxAvailable, 1),
		ids:          make(map[int]struct{}),
	}
}

// Add registers s, stamping it with the latest timestamp seen so far.
func (m *ShipsManager) Add(s *model.Ship, latestTimestamp int) error {
	if !m.limits.contains(s.Length, s.Width, s.Height) {
		return fmt.Errorf("ship %d: %w", s.ID, ErrInvalidShip)
	}
	if _, ok := m.ids[s.ID]; ok {
		return fmt.Errorf("ship %d: %w", s.ID, ErrDuplicateShip)
	}
	s.Timestamp = latestTimestamp
	m.ids[s.ID] = struct{}{}
	m.ships = append(m.ships, s)
	return nil
}

// Available returns the most recently registered ships stamped at or before
// maxTimestamp, newest first, at most MaxAvailable of them.
func (m *ShipsManager) Available(maxTimestamp int) []*model.Ship {
	var out []*model.Ship
	for i := len(m.ships) - 1; i >= 0 && len(out) < m.maxAvailable; i-- {
		if m.ships[i].Timestamp <= maxTimestamp {
			out = append(out, m.ships[i])
		}
	}
	return out
}

// MaxAvailable returns how many ships can be available at once.
func (m *ShipsManager) MaxAvailable() int { return m.maxAvailable }

// Ships returns every registered ship in registration order.
func (m *ShipsManager) Ships() []*model.Ship { return slices.Clone(m.ships) }
