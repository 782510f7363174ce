//go:build !integration

package service_test

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/guttosm/shipment-optimizer/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventory(cfg service.InventoryConfig) *service.Inventory {
	nop := zerolog.Nop()
	return service.NewInventory(cfg, &nop)
}

func TestInventory_ReadInput(t *testing.T) {
	input := strings.Join([]string{
		"s1,60,60,60",
		"c1,10,10,10,0",
		"c2,10,10,10,0",
		"x garbage",
		"",
		"c3,10,10,10,1",
		"s2,70,70,70",
		"c3,5,10,5,2",   // duplicate id
		"c4,41,10,10,2", // too wide
		"c5,10,10,10,0", // older than latest
		"c6,a,b",        // malformed
		"s3,10,10,10",   // too small
		"  c7,10,10,10,2  ",
	}, "\n")

	inv := newInventory(service.DefaultInventoryConfig())
	summary, err := inv.ReadInput(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, service.InputSummary{Ships: 2, Containers: 4, Rejected: 5, Skipped: 2}, summary)

	ships := inv.Ships.Ships()
	require.Len(t, ships, 2)
	assert.Equal(t, -1, ships[0].Timestamp)
	assert.Equal(t, 1, ships[1].Timestamp)

	assert.Equal(t, 10, inv.Containers.ConstHeight())
	assert.Equal(t, []int{1, 2, 3, 7}, ids(inv.Containers.Waiting(2)))
	assert.Equal(t, 3, inv.Timestamps.Len())
	assert.Equal(t, 0, inv.Timestamps.Min())
	assert.Equal(t, 2, inv.Timestamps.Max())
}

func TestInventory_ReadInput_Windows(t *testing.T) {
	inv := newInventory(service.DefaultInventoryConfig())
	summary, err := inv.ReadInput(strings.NewReader("s1,60,60,60\r\nc1,10,10,10,0\r\n"))

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Ships)
	assert.Equal(t, 1, summary.Containers)
}

func TestInventory_ReadInput_ReadError(t *testing.T) {
	inv := newInventory(service.DefaultInventoryConfig())
	boom := errors.New("boom")

	_, err := inv.ReadInput(iotest.ErrReader(boom))

	assert.ErrorIs(t, err, boom)
}

func TestInventory_AddLine_CustomLimits(t *testing.T) {
	inv := newInventory(service.InventoryConfig{
		MaxAvailableShips: 1,
		ContainerLimits:   service.UniformLimits(1, 5),
		ShipLimits:        service.UniformLimits(5, 10),
	})

	assert.NoError(t, inv.AddLine("s1,10,10,10"))
	assert.ErrorIs(t, inv.AddLine("s2,11,10,10"), service.ErrInvalidShip)
	assert.NoError(t, inv.AddLine("c1,5,5,5,0"))
	assert.ErrorIs(t, inv.AddLine("c2,6,5,5,0"), service.ErrInvalidContainer)
	assert.Error(t, inv.AddLine("q1,1,1,1"))
}
