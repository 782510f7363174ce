package shipment

import (
	"fmt"
	"slices"

	"github.com/guttosm/shipment-optimizer/internal/domain/model"
)

// Manager is the ordered ledger of the shipments decided in one round.
//
// Only the first shipment may carry backlog containers (timestamp lower than
// the main timestamp); every later shipment must hold containers of the main
// timestamp only. No container appears in two shipments.
type Manager struct {
	mainTimestamp int
	shipments     []*Shipment
	ids           map[int]struct{}
}

// NewManager creates an empty manager for the round at mainTimestamp.
func NewManager(mainTimestamp int) *Manager {
	return &Manager{
		mainTimestamp: mainTimestamp,
		ids:           make(map[int]struct{}),
	}
}

// MainTimestamp returns the reference timestamp of the round.
func (m *Manager) MainTimestamp() int { return m.mainTimestamp }

// Shipments returns the accepted shipments in acceptance order.
func (m *Manager) Shipments() []*Shipment { return slices.Clone(m.shipments) }

// Len returns the number of accepted shipments.
func (m *Manager) Len() int { return len(m.shipments) }

// First returns the first shipment or nil.
func (m *Manager) First() *Shipment {
	if len(m.shipments) == 0 {
		return nil
	}
	return m.shipments[0]
}

// Last returns the last shipment or nil.
func (m *Manager) Last() *Shipment {
	if len(m.shipments) == 0 {
		return nil
	}
	return m.shipments[len(m.shipments)-1]
}

// checkTimestamps validates the partitioning rule for sh as the next shipment.
// An empty shipment is acceptable only as the first one.
func (m *Manager) checkTimestamps(sh *Shipment) bool {
	timestamps := sh.Timestamps()
	if len(m.shipments) == 0 {
		return len(timestamps) == 0 || timestamps[len(timestamps)-1] <= m.mainTimestamp
	}
	return len(timestamps) == 1 && timestamps[0] == m.mainTimestamp
}

func (m *Manager) checkRedundancy(sh *Shipment) error {
	for _, c := range sh.containers {
		if _, ok := m.ids[c.ID]; ok {
			return fmt.Errorf("container %d: %w", c.ID, ErrDuplicateContainer)
		}
	}
	return nil
}

// CheckAndAdd appends sh if it respects the timestamp partitioning and shares
// no container with an already accepted shipment.
func (m *Manager) CheckAndAdd(sh *Shipment) error {
	if sh == nil {
		return ErrNilShipment
	}
	if !m.checkTimestamps(sh) {
		return ErrTimestampPartition
	}
	if err := m.checkRedundancy(sh); err != nil {
		return err
	}
	m.shipments = append(m.shipments, sh)
	for _, c := range sh.containers {
		m.ids[c.ID] = struct{}{}
	}
	return nil
}

// CheckAndRemove removes sh. The first shipment cannot be removed while other
// shipments exist, since it is the only one allowed to hold backlog.
func (m *Manager) CheckAndRemove(sh *Shipment) error {
	idx := slices.Index(m.shipments, sh)
	if idx < 0 {
		return ErrShipmentNotFound
	}
	if idx == 0 && len(m.shipments) > 1 {
		return ErrFirstShipmentLocked
	}
	m.shipments = slices.Delete(m.shipments, idx, idx+1)
	for _, c := range sh.containers {
		delete(m.ids, c.ID)
	}
	return nil
}

// Containers flattens the containers of all shipments, optionally skipping the
// first and/or the last one.
func (m *Manager) Containers(skipFirst, skipLast bool) []model.Container {
	list := m.shipments
	if skipFirst && len(list) > 0 {
		list = list[1:]
	}
	if skipLast && len(list) > 0 {
		list = list[:len(list)-1]
	}
	var out []model.Container
	for _, sh := range list {
		out = append(out, sh.containers...)
	}
	return out
}

// Contains reports whether any accepted shipment holds the container.
func (m *Manager) Contains(id int) bool {
	_, ok := m.ids[id]
	return ok
}

// SummaryEmptyVolume sums the empty volume of all shipments.
func (m *Manager) SummaryEmptyVolume(onlyUsedLevels bool) int {
	total := 0
	for _, sh := range m.shipments {
		total += sh.EmptyVolume(onlyUsedLevels)
	}
	return total
}
