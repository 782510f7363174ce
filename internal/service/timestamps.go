package service

import "slices"

// TimestampsManager keeps the sorted set of container timestamps and the
// [min, max] window of the current round. Both bounds are -1 until the first
// timestamp is added.
type TimestampsManager struct {
	timestamps []int
	min, max   int
}

// NewTimestampsManager creates an empty manager.
func NewTimestampsManager() *TimestampsManager {
	return &TimestampsManager{min: -1, max: -1}
}

// Add inserts a non-negative timestamp and widens the window to include it.
func (m *TimestampsManager) Add(ts int) bool {
	if ts < 0 {
		return false
	}
	idx, found := slices.BinarySearch(m.timestamps, ts)
	if found {
		return false
	}
	m.timestamps = slices.Insert(m.timestamps, idx, ts)
	if len(m.timestamps) == 1 {
		m.min, m.max = ts, ts
		return true
	}
	m.min = min(m.min, ts)
	m.max = max(m.max, ts)
	return true
}

// Min returns the lower bound of the window.
func (m *TimestampsManager) Min() int { return m.min }

// Max returns the upper bound of the window.
func (m *TimestampsManager) Max() int { return m.max }

// Len returns the number of known timestamps.
func (m *TimestampsManager) Len() int { return len(m.timestamps) }

func (m *TimestampsManager) has(ts int) bool {
	_, found := slices.BinarySearch(m.timestamps, ts)
	return found
}

// SetMin moves the lower bound to a known timestamp not above the upper bound.
func (m *TimestampsManager) SetMin(ts int) bool {
	if !m.has(ts) || ts > m.max {
		return false
	}
	m.min = ts
	return true
}

// SetMax moves the upper bound to a known timestamp not below the lower bound.
func (m *TimestampsManager) SetMax(ts int) bool {
	if !m.has(ts) || ts < m.min {
		return false
	}
	m.max = ts
	return true
}

// IncreaseMin advances the lower bound to the next timestamp and returns it,
// or returns -1 when it cannot move.
func (m *TimestampsManager) IncreaseMin() int {
	next, ok := m.next(m.min)
	if !ok || next > m.max {
		return -1
	}
	m.min = next
	return next
}

// IncreaseMax advances the upper bound to the next timestamp and returns it,
// or returns -1 when the bound already is the last timestamp.
func (m *TimestampsManager) IncreaseMax() int {
	next, ok := m.next(m.max)
	if !ok {
		return -1
	}
	m.max = next
	return next
}

func (m *TimestampsManager) next(ts int) (int, bool) {
	idx, found := slices.BinarySearch(m.timestamps, ts)
	if found {
		idx++
	}
	if idx >= len(m.timestamps) {
		return 0, false
	}
	return m.timestamps[idx], true
}
