//go:build !integration

package optimizer

import (
	"testing"

	"github.com/guttosm/shipment-optimizer/internal/domain/model"
	"github.com/guttosm/shipment-optimizer/internal/shipment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFast_Optimize(t *testing.T) {
	tests := []struct {
		name       string
		ships      []*model.Ship
		containers []model.Container
		wantIDs    [][]int
	}{
		{
			name:  "everything fits on one ship",
			ships: []*model.Ship{newShip(1, 5, 5, 20)},
			containers: []model.Container{
				newContainer(1, 2, 2, 40),
				newContainer(2, 2, 2, 40),
				newContainer(3, 2, 2, 40),
				newContainer(4, 2, 2, 40),
			},
			wantIDs: [][]int{{1, 2, 3, 4}},
		},
		{
			name:  "overflow opens new ships",
			ships: []*model.Ship{newShip(1, 2, 2, 10)},
			containers: []model.Container{
				newContainer(1, 2, 2, 40),
				newContainer(2, 2, 2, 40),
				newContainer(3, 2, 2, 40),
			},
			wantIDs: [][]int{{1}, {2}, {3}},
		},
		{
			name:       "no containers commits an empty shipment",
			ships:      []*model.Ship{newShip(1, 2, 2, 10)},
			containers: nil,
			wantIDs:    [][]int{{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFast(quiet(), WithSeed(1))
			m, err := f.Optimize(Request{
				Ships:           tt.ships,
				Containers:      tt.containers,
				Timestamp:       40,
				ContainerHeight: testHeight,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, shippedIDs(m))
			assertNoDuplicates(t, m, tt.containers)
		})
	}
}

func TestFast_Optimize_UsesPreviousShipmentForBacklog(t *testing.T) {
	big := newShip(1, 4, 4, 10)
	overdue := newContainer(1, 2, 2, 39)
	previous := shipment.New(big, testHeight)
	require.NoError(t, previous.CheckAndAdd(model.NewPlacedContainer(overdue, model.CornerPosition{})))

	m, err := NewFast(quiet(), WithSeed(1)).Optimize(Request{
		Ships:           []*model.Ship{newShip(2, 1, 1, 10)},
		Containers:      []model.Container{overdue, newContainer(2, 1, 1, 40)},
		Timestamp:       40,
		ContainerHeight: testHeight,
		Previous:        previous,
	})

	require.NoError(t, err)
	require.Equal(t, 2, m.Len())
	assert.Same(t, previous, m.First())
	assert.Equal(t, [][]int{{1}, {2}}, shippedIDs(m))
}

func TestFast_Optimize_NoShips(t *testing.T) {
	t.Run("without previous shipment", func(t *testing.T) {
		m, err := NewFast(quiet()).Optimize(Request{Containers: []model.Container{newContainer(1, 1, 1, 40)}, Timestamp: 40, ContainerHeight: testHeight})
		require.NoError(t, err)
		assert.Zero(t, m.Len())
	})

	t.Run("with previous shipment", func(t *testing.T) {
		previous := shipment.New(newShip(1, 2, 2, 10), testHeight)
		m, err := NewFast(quiet()).Optimize(Request{Timestamp: 40, ContainerHeight: testHeight, Previous: previous})
		require.NoError(t, err)
		assert.Same(t, previous, m.First())
	})
}

func TestFast_Optimize_SeedIsReproducible(t *testing.T) {
	ships := []*model.Ship{newShip(1, 2, 2, 10), newShip(2, 3, 3, 10), newShip(3, 4, 4, 10)}
	var containers []model.Container
	for id := 1; id <= 20; id++ {
		containers = append(containers, newContainer(id, 1+id%2, 1+id%3, 40))
	}
	req := Request{Ships: ships, Containers: containers, Timestamp: 40, ContainerHeight: testHeight}

	shipIDs := func(m *shipment.Manager) []int {
		var out []int
		for _, sh := range m.Shipments() {
			out = append(out, sh.Ship().ID)
		}
		return out
	}

	first, err := NewFast(quiet(), WithSeed(7)).Optimize(req)
	require.NoError(t, err)
	second, err := NewFast(quiet(), WithSeed(7)).Optimize(req)
	require.NoError(t, err)

	assert.Equal(t, shipIDs(first), shipIDs(second))
	assert.Equal(t, shippedIDs(first), shippedIDs(second))
	assertNoDuplicates(t, first, containers)
}
