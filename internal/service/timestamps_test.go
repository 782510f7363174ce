//go:build !integration

package service_test

import (
	"testing"

	"github.com/guttosm/shipment-optimizer/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestTimestampsManager_Add(t *testing.T) {
	tm := service.NewTimestampsManager()
	assert.Equal(t, -1, tm.Min())
	assert.Equal(t, -1, tm.Max())

	assert.True(t, tm.Add(5))
	assert.Equal(t, 5, tm.Min())
	assert.Equal(t, 5, tm.Max())

	assert.True(t, tm.Add(3))
	assert.False(t, tm.Add(5))
	assert.True(t, tm.Add(1))
	assert.True(t, tm.Add(10))
	assert.False(t, tm.Add(-1))

	assert.Equal(t, 4, tm.Len())
	assert.Equal(t, 1, tm.Min())
	assert.Equal(t, 10, tm.Max())
}

func TestTimestampsManager_Window(t *testing.T) {
	tm := service.NewTimestampsManager()
	for _, ts := range []int{5, 3, 5, 1, 10} {
		tm.Add(ts)
	}

	assert.True(t, tm.SetMax(tm.Min()))
	assert.Equal(t, 1, tm.Max())

	assert.Equal(t, 3, tm.IncreaseMax())
	assert.Equal(t, 5, tm.IncreaseMax())

	assert.False(t, tm.SetMin(4), "unknown timestamp")
	assert.False(t, tm.SetMin(10), "above max")
	assert.True(t, tm.SetMin(3))
	assert.False(t, tm.SetMax(1), "below min")

	assert.Equal(t, 5, tm.IncreaseMin())
	assert.Equal(t, -1, tm.IncreaseMin(), "cannot pass max")
	assert.Equal(t, 5, tm.Min())

	assert.Equal(t, 10, tm.IncreaseMax())
	assert.Equal(t, -1, tm.IncreaseMax())
	assert.Equal(t, 10, tm.Max())
}

func TestTimestampsManager_Empty(t *testing.T) {
	tm := service.NewTimestampsManager()

	assert.False(t, tm.SetMax(tm.Min()))
	assert.False(t, tm.SetMin(0))
	assert.Equal(t, -1, tm.IncreaseMax())
	assert.Equal(t, -1, tm.IncreaseMin())
	assert.Zero(t, tm.Len())
}
