//go:build !integration

package service_test

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/guttosm/shipment-optimizer/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		cfg  service.GeneratorConfig
	}{
		{name: "default configuration", cfg: service.DefaultGeneratorConfig()},
		{
			name: "many ships few timestamps",
			cfg: service.GeneratorConfig{
				Containers:      30,
				Ships:           8,
				Timestamps:      2,
				ContainerLimits: service.DefaultContainerLimits(),
				ShipLimits:      service.DefaultShipLimits(),
			},
		},
		{
			name: "ships only",
			cfg: service.GeneratorConfig{
				Ships:           2,
				Timestamps:      1,
				ContainerLimits: service.DefaultContainerLimits(),
				ShipLimits:      service.DefaultShipLimits(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, service.Generate(&buf, tt.cfg, seededRand(7)))

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			assert.Len(t, lines, tt.cfg.Containers+tt.cfg.Ships)
			assert.True(t, strings.HasPrefix(lines[0], "s"))

			// every generated record is accepted as is
			inv := newInventory(service.InventoryConfig{
				MaxAvailableShips: 3,
				ContainerLimits:   tt.cfg.ContainerLimits,
				ShipLimits:        tt.cfg.ShipLimits,
			})
			summary, err := inv.ReadInput(&buf)
			require.NoError(t, err)
			assert.Equal(t, service.InputSummary{Ships: tt.cfg.Ships, Containers: tt.cfg.Containers}, summary)
			assert.LessOrEqual(t, inv.Timestamps.Len(), tt.cfg.Timestamps)
		})
	}
}

func TestGenerate_Reproducible(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, service.Generate(&a, service.DefaultGeneratorConfig(), seededRand(3)))
	require.NoError(t, service.Generate(&b, service.DefaultGeneratorConfig(), seededRand(3)))
	assert.Equal(t, a.String(), b.String())
}

func TestGenerate_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*service.GeneratorConfig)
	}{
		{name: "no ships", modify: func(c *service.GeneratorConfig) { c.Ships = 0 }},
		{name: "no timestamps", modify: func(c *service.GeneratorConfig) { c.Timestamps = 0 }},
		{name: "negative containers", modify: func(c *service.GeneratorConfig) { c.Containers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := service.DefaultGeneratorConfig()
			tt.modify(&cfg)
			err := service.Generate(&bytes.Buffer{}, cfg, seededRand(1))
			assert.ErrorIs(t, err, service.ErrInvalidGeneratorConfig)
		})
	}
}
