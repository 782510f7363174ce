package service

import (
	"fmt"
	"slices"

	"github.com/guttosm/shipment-optimizer/internal/domain/model"
)

// Limits bounds every dimension of a record.
type Limits struct {
	MinLength, MaxLength int
	MinWidth, MaxWidth   int
	MinHeight, MaxHeight int
}

// UniformLimits applies the same bounds to length, width and height.
func UniformLimits(lo, hi int) Limits {
	return Limits{
		MinLength: lo, MaxLength: hi,
		MinWidth: lo, MaxWidth: hi,
		MinHeight: lo, MaxHeight: hi,
	}
}

// DefaultContainerLimits returns the container bounds 1..40.
func DefaultContainerLimits() Limits { return UniformLimits(1, 40) }

// DefaultShipLimits returns the ship bounds 50..100.
func DefaultShipLimits() Limits { return UniformLimits(50, 100) }

func (l Limits) contains(length, width, height int) bool {
	return l.MinLength <= length && length <= l.MaxLength &&
		l.MinWidth <= width && width <= l.MaxWidth &&
		l.MinHeight <= height && height <= l.MaxHeight
}

// ContainersManager registers containers and tracks which of them wait for a
// ship and which were already sent.
type ContainersManager struct {
	limits      Limits
	waiting     []model.Container
	sent        []model.Container
	ids         map[int]struct{}
	constHeight int
}

// NewContainersManager creates an empty manager.
func NewContainersManager(limits Limits) *ContainersManager {
	return &ContainersManager{
		limits: limits,
		ids:    make(map[int]struct{}),
	}
}

// Add registers c as waiting. The first accepted container fixes the height
// every later container must have. Timestamps are never negative.
func (m *ContainersManager) Add(c model.Container, minTimestamp int) error {
	if c.Timestamp < max(minTimestamp, 0) {
		return fmt.Errorf("container %d at %d, latest %d: %w", c.ID, c.Timestamp, minTimestamp, ErrContainerTooEarly)
	}
	if !m.limits.contains(c.Length, c.Width, c.Height) {
		return fmt.Errorf("container %d: %w", c.ID, ErrInvalidContainer)
	}
	if _, ok := m.ids[c.ID]; ok {
		return fmt.Errorf("container %d: %w", c.ID, ErrDuplicateContainer)
	}
	if m.constHeight == 0 {
		m.constHeight = c.Height
	} else if c.Height != m.constHeight {
		return fmt.Errorf("container %d height %d, expected %d: %w", c.ID, c.Height, m.constHeight, ErrContainerHeight)
	}

	m.ids[c.ID] = struct{}{}
	m.waiting = append(m.waiting, c)
	return nil
}

// ConstHeight returns the common container height, 0 before any container.
func (m *ContainersManager) ConstHeight() int { return m.constHeight }

// Waiting returns the waiting containers in arrival order, stopping at the
// first one newer than maxTimestamp.
func (m *ContainersManager) Waiting(maxTimestamp int) []model.Container {
	var out []model.Container
	for _, c := range m.waiting {
		if c.Timestamp > maxTimestamp {
			break
		}
		out = append(out, c)
	}
	return out
}

// Send moves the given containers from waiting to sent. Unknown ids are ignored.
func (m *ContainersManager) Send(containers []model.Container) {
	if len(containers) == 0 {
		return
	}
	send := make(map[int]struct{}, len(containers))
	for _, c := range containers {
		send[c.ID] = struct{}{}
	}
	m.waiting = slices.DeleteFunc(m.waiting, func(c model.Container) bool {
		if _, ok := send[c.ID]; ok {
			m.sent = append(m.sent, c)
			return true
		}
		return false
	})
}

// WaitingCount returns the number of containers not yet sent.
func (m *ContainersManager) WaitingCount() int { return len(m.waiting) }

// Sent returns the sent containers in sending order.
func (m *ContainersManager) Sent() []model.Container { return slices.Clone(m.sent) }
