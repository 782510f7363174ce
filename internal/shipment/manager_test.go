//go:build !integration

package shipment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_CheckAndAdd_Scenario(t *testing.T) {
	ship := newTestShip()
	m := NewManager(40)

	first := New(ship, 10)
	require.NoError(t, first.CheckAndAdd(at(box(1, 2, 2, 39), 0, 0, 0)))
	require.NoError(t, first.CheckAndAdd(at(box(2, 2, 2, 40), 0, 3, 3)))
	require.NoError(t, m.CheckAndAdd(first))

	redundant := New(ship, 10)
	require.NoError(t, redundant.CheckAndAdd(at(box(2, 2, 2, 40), 0, 0, 0)))
	assert.ErrorIs(t, m.CheckAndAdd(redundant), ErrDuplicateContainer)

	backlog := New(ship, 10)
	require.NoError(t, backlog.CheckAndAdd(at(box(3, 2, 2, 39), 0, 0, 0)))
	assert.ErrorIs(t, m.CheckAndAdd(backlog), ErrTimestampPartition)

	assert.Equal(t, 1, m.Len())
	assert.True(t, m.Contains(1))
	assert.False(t, m.Contains(3))
}

func TestManager_CheckAndAdd_Partition(t *testing.T) {
	ship := newTestShip()

	build := func(t *testing.T, timestamps ...int) *Shipment {
		t.Helper()
		sh := New(ship, 10)
		for i, ts := range timestamps {
			require.NoError(t, sh.CheckAndAdd(at(box(100+i, 1, 1, ts), 0, i, 0)))
		}
		return sh
	}

	tests := []struct {
		name    string
		first   []int
		second  []int
		wantErr error
	}{
		{name: "current only", first: []int{40}, second: []int{40}},
		{name: "backlog in first", first: []int{38, 39, 40}, second: []int{40}},
		{name: "empty first", first: nil, second: []int{40}},
		{name: "future container in first", first: []int{41}, wantErr: ErrTimestampPartition},
		{name: "backlog in second", first: []int{40}, second: []int{39, 40}, wantErr: ErrTimestampPartition},
		{name: "empty second", first: []int{40}, second: []int{}, wantErr: ErrTimestampPartition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(40)
			err := m.CheckAndAdd(build(t, tt.first...))
			if tt.second == nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			second := New(ship, 10)
			for i, ts := range tt.second {
				require.NoError(t, second.CheckAndAdd(at(box(200+i, 1, 1, ts), 0, i, 0)))
			}
			err = m.CheckAndAdd(second)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 1, m.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, m.Len())
		})
	}
}

func TestManager_CheckAndAdd_Nil(t *testing.T) {
	assert.ErrorIs(t, NewManager(1).CheckAndAdd(nil), ErrNilShipment)
}

func TestManager_CheckAndRemove(t *testing.T) {
	ship := newTestShip()
	m := NewManager(40)

	first := New(ship, 10)
	require.NoError(t, first.CheckAndAdd(at(box(1, 1, 1, 39), 0, 0, 0)))
	second := New(ship, 10)
	require.NoError(t, second.CheckAndAdd(at(box(2, 1, 1, 40), 0, 0, 0)))
	require.NoError(t, m.CheckAndAdd(first))
	require.NoError(t, m.CheckAndAdd(second))

	assert.ErrorIs(t, m.CheckAndRemove(first), ErrFirstShipmentLocked)
	assert.ErrorIs(t, m.CheckAndRemove(New(ship, 10)), ErrShipmentNotFound)

	require.NoError(t, m.CheckAndRemove(second))
	assert.False(t, m.Contains(2))
	require.NoError(t, m.CheckAndRemove(first))
	assert.Zero(t, m.Len())
	assert.Nil(t, m.First())
	assert.Nil(t, m.Last())
}

func TestManager_Containers(t *testing.T) {
	ship := newTestShip()
	m := NewManager(40)

	for i := 0; i < 3; i++ {
		sh := New(ship, 10)
		require.NoError(t, sh.CheckAndAdd(at(box(i+1, 1, 1, 40), 0, 0, 0)))
		require.NoError(t, m.CheckAndAdd(sh))
	}

	ids := func(skipFirst, skipLast bool) []int {
		var out []int
		for _, c := range m.Containers(skipFirst, skipLast) {
			out = append(out, c.ID)
		}
		return out
	}

	assert.Equal(t, []int{1, 2, 3}, ids(false, false))
	assert.Equal(t, []int{2, 3}, ids(true, false))
	assert.Equal(t, []int{1, 2}, ids(false, true))
	assert.Equal(t, []int{2}, ids(true, true))
	assert.Equal(t, 3*(500-10), m.SummaryEmptyVolume(false))
	assert.Equal(t, 3*(250-10), m.SummaryEmptyVolume(true))
	assert.Equal(t, 1, m.First().Containers()[0].ID)
	assert.Equal(t, 3, m.Last().Containers()[0].ID)
}
