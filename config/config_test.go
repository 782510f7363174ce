//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"OPTIMIZER_ALGORITHM", "OPTIMIZER_SEED", "GENETIC_GENERATIONS", "GENETIC_POPULATION_SIZE",
	"GENETIC_SURVIVORS", "GENETIC_MUTATION_PROBABILITY", "GENETIC_SHUFFLE_LEN",
	"INPUT_FILE", "MAX_AVAILABLE_SHIPS", "CONTAINER_MIN_SIZE", "CONTAINER_MAX_SIZE",
	"SHIP_MIN_SIZE", "SHIP_MAX_SIZE", "LOG_LEVEL", "LOG_PRETTY",
	"MONGODB_URI", "MONGODB_DATABASE", "MONGODB_ENABLED", "MONGODB_ROUNDS_TTL_DAYS", "MONGODB_TIMEOUT",
	"CIRCUIT_BREAKER_FAILURE_THRESHOLD", "CIRCUIT_BREAKER_SUCCESS_THRESHOLD", "CIRCUIT_BREAKER_TIMEOUT",
	"METRICS_TEXTFILE",
}

// clearEnv blanks every variable Load reads; empty values fall back to defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("loads default values", func(t *testing.T) {
		clearEnv(t)

		cfg := Load()

		assert.Equal(t, "greedy", cfg.Optimizer.Algorithm)
		assert.Zero(t, cfg.Optimizer.Seed)
		assert.Equal(t, 10, cfg.Optimizer.Generations)
		assert.Equal(t, 40, cfg.Optimizer.PopulationSize)
		assert.Equal(t, 20, cfg.Optimizer.Survivors)
		assert.InDelta(t, 0.1, cfg.Optimizer.MutationProbability, 1e-9)
		assert.Equal(t, -1, cfg.Optimizer.ShuffleLen)
		assert.Equal(t, 3, cfg.Simulation.MaxAvailableShips)
		assert.Equal(t, 1, cfg.Simulation.ContainerMinSize)
		assert.Equal(t, 40, cfg.Simulation.ContainerMaxSize)
		assert.Equal(t, 50, cfg.Simulation.ShipMinSize)
		assert.Equal(t, 100, cfg.Simulation.ShipMaxSize)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.False(t, cfg.Database.Enabled)
		assert.Equal(t, 15*time.Second, cfg.Database.CircuitBreakerTimeout)
		assert.Empty(t, cfg.Metrics.Textfile)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("loads values from environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPTIMIZER_ALGORITHM", "genetic")
		t.Setenv("OPTIMIZER_SEED", "42")
		t.Setenv("GENETIC_GENERATIONS", "5")
		t.Setenv("GENETIC_MUTATION_PROBABILITY", "0.5")
		t.Setenv("INPUT_FILE", "data/in.txt")
		t.Setenv("MAX_AVAILABLE_SHIPS", "2")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_PRETTY", "true")
		t.Setenv("MONGODB_ENABLED", "true")
		t.Setenv("MONGODB_TIMEOUT", "2s")
		t.Setenv("METRICS_TEXTFILE", "/tmp/run.prom")

		cfg := Load()

		assert.Equal(t, "genetic", cfg.Optimizer.Algorithm)
		assert.Equal(t, uint64(42), cfg.Optimizer.Seed)
		assert.Equal(t, 5, cfg.Optimizer.Generations)
		assert.InDelta(t, 0.5, cfg.Optimizer.MutationProbability, 1e-9)
		assert.Equal(t, "data/in.txt", cfg.Simulation.InputPath)
		assert.Equal(t, 2, cfg.Simulation.MaxAvailableShips)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Log.Pretty)
		assert.True(t, cfg.Database.Enabled)
		assert.Equal(t, 2*time.Second, cfg.Database.OperationTimeout)
		assert.Equal(t, "/tmp/run.prom", cfg.Metrics.Textfile)
	})

	t.Run("handles invalid values gracefully", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPTIMIZER_SEED", "-1")
		t.Setenv("GENETIC_GENERATIONS", "invalid")
		t.Setenv("GENETIC_MUTATION_PROBABILITY", "often")
		t.Setenv("MONGODB_ENABLED", "invalid")
		t.Setenv("CIRCUIT_BREAKER_TIMEOUT", "invalid")

		cfg := Load()

		assert.Zero(t, cfg.Optimizer.Seed)
		assert.Equal(t, 10, cfg.Optimizer.Generations)
		assert.InDelta(t, 0.1, cfg.Optimizer.MutationProbability, 1e-9)
		assert.False(t, cfg.Database.Enabled)
		assert.Equal(t, 15*time.Second, cfg.Database.CircuitBreakerTimeout)
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := LoadFile("")

		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		clearEnv(t)
		path := writeFile(t, `
[optimizer]
algorithm = "fast"
seed = 7

[simulation]
input_path = "rounds.txt"
max_available_ships = 5

[database]
enabled = true
circuit_breaker_timeout = "1m"
`)

		cfg, err := LoadFile(path)

		require.NoError(t, err)
		assert.Equal(t, "fast", cfg.Optimizer.Algorithm)
		assert.Equal(t, uint64(7), cfg.Optimizer.Seed)
		assert.Equal(t, "rounds.txt", cfg.Simulation.InputPath)
		assert.Equal(t, 5, cfg.Simulation.MaxAvailableShips)
		assert.True(t, cfg.Database.Enabled)
		assert.Equal(t, time.Minute, cfg.Database.CircuitBreakerTimeout)
		assert.Equal(t, 40, cfg.Optimizer.PopulationSize)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPTIMIZER_ALGORITHM", "genetic")
		path := writeFile(t, "[optimizer]\nalgorithm = \"fast\"\n")

		cfg, err := LoadFile(path)

		require.NoError(t, err)
		assert.Equal(t, "genetic", cfg.Optimizer.Algorithm)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		clearEnv(t)
		path := writeFile(t, "[optimizer]\nalgoritm = \"fast\"\n")

		_, err := LoadFile(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "optimizer.algoritm")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := LoadFile(writeFile(t, "[optimizer\n"))
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:    "no available ships",
			modify:  func(c *Config) { c.Simulation.MaxAvailableShips = 0 },
			wantErr: "max available ships",
		},
		{
			name:    "inverted container bounds",
			modify:  func(c *Config) { c.Simulation.ContainerMinSize = 50 },
			wantErr: "container size bounds",
		},
		{
			name:    "zero ship bound",
			modify:  func(c *Config) { c.Simulation.ShipMinSize = 0 },
			wantErr: "ship size bounds",
		},
		{
			name: "database without uri",
			modify: func(c *Config) {
				c.Database.Enabled = true
				c.Database.URI = ""
			},
			wantErr: "without a URI",
		},
		{
			name:    "non-positive timeout",
			modify:  func(c *Config) { c.Database.OperationTimeout = 0 },
			wantErr: "operation timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
