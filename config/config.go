// Package config provides configuration management for the shipment optimizer.
//
// Values come from an optional TOML file and are then overridden by
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the complete application configuration.
type Config struct {
	Optimizer  OptimizerConfig  `toml:"optimizer"`
	Simulation SimulationConfig `toml:"simulation"`
	Log        LogConfig        `toml:"log"`
	Database   DatabaseConfig   `toml:"database"`
	Metrics    MetricsConfig    `toml:"metrics"`
}

// OptimizerConfig selects and tunes the placement strategy.
type OptimizerConfig struct {
	// Algorithm is fast, greedy or genetic (or 1, 2, 3).
	Algorithm string `toml:"algorithm"`
	// Seed makes a run reproducible; 0 means a random seed.
	Seed                uint64  `toml:"seed"`
	Generations         int     `toml:"generations"`
	PopulationSize      int     `toml:"population_size"`
	Survivors           int     `toml:"survivors"`
	MutationProbability float64 `toml:"mutation_probability"`
	// ShuffleLen is the chunk size of the initial shuffle; -1 means one chunk.
	ShuffleLen int `toml:"shuffle_len"`
}

// SimulationConfig holds input and validation settings.
type SimulationConfig struct {
	InputPath         string `toml:"input_path"`
	MaxAvailableShips int    `toml:"max_available_ships"`
	// Container and ship bounds apply to length, width and height alike.
	ContainerMinSize int `toml:"container_min_size"`
	ContainerMaxSize int `toml:"container_max_size"`
	ShipMinSize      int `toml:"ship_min_size"`
	ShipMaxSize      int `toml:"ship_max_size"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI              string        `toml:"uri"`
	DatabaseName     string        `toml:"database_name"`
	Enabled          bool          `toml:"enabled"`
	RoundsTTLDays    int           `toml:"rounds_ttl_days"`
	OperationTimeout time.Duration `toml:"operation_timeout"`
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int           `toml:"circuit_breaker_failure_threshold"`
	CircuitBreakerSuccessThreshold int           `toml:"circuit_breaker_success_threshold"`
	CircuitBreakerTimeout          time.Duration `toml:"circuit_breaker_timeout"`
}

// MetricsConfig holds metrics output settings.
type MetricsConfig struct {
	// Textfile is the node-exporter textfile written at the end of a run; empty disables it.
	Textfile string `toml:"textfile"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Optimizer: OptimizerConfig{
			Algorithm:           "greedy",
			Generations:         10,
			PopulationSize:      40,
			Survivors:           20,
			MutationProbability: 0.1,
			ShuffleLen:          -1,
		},
		Simulation: SimulationConfig{
			InputPath:         "input.txt",
			MaxAvailableShips: 3,
			ContainerMinSize:  1,
			ContainerMaxSize:  40,
			ShipMinSize:       50,
			ShipMaxSize:       100,
		},
		Log: LogConfig{
			Level: "info",
		},
		Database: DatabaseConfig{
			URI:                            "mongodb://localhost:27017",
			DatabaseName:                   "shipment_optimizer",
			RoundsTTLDays:                  30,
			OperationTimeout:               5 * time.Second,
			CircuitBreakerFailureThreshold: 3,
			CircuitBreakerSuccessThreshold: 1,
			CircuitBreakerTimeout:          15 * time.Second,
		},
	}
}

// Load creates a Config from the defaults and environment variables.
func Load() Config {
	cfg := Default()
	applyEnv(&cfg)
	return cfg
}

// LoadFile decodes the TOML file at path over the defaults, then applies
// environment variables. An empty path behaves like Load.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("decode config file %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, fmt.Errorf("config file %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	o := &cfg.Optimizer
	o.Algorithm = getEnv("OPTIMIZER_ALGORITHM", o.Algorithm)
	o.Seed = getEnvUint("OPTIMIZER_SEED", o.Seed)
	o.Generations = getEnvInt("GENETIC_GENERATIONS", o.Generations)
	o.PopulationSize = getEnvInt("GENETIC_POPULATION_SIZE", o.PopulationSize)
	o.Survivors = getEnvInt("GENETIC_SURVIVORS", o.Survivors)
	o.MutationProbability = getEnvFloat("GENETIC_MUTATION_PROBABILITY", o.MutationProbability)
	o.ShuffleLen = getEnvInt("GENETIC_SHUFFLE_LEN", o.ShuffleLen)

	s := &cfg.Simulation
	s.InputPath = getEnv("INPUT_FILE", s.InputPath)
	s.MaxAvailableShips = getEnvInt("MAX_AVAILABLE_SHIPS", s.MaxAvailableShips)
	s.ContainerMinSize = getEnvInt("CONTAINER_MIN_SIZE", s.ContainerMinSize)
	s.ContainerMaxSize = getEnvInt("CONTAINER_MAX_SIZE", s.ContainerMaxSize)
	s.ShipMinSize = getEnvInt("SHIP_MIN_SIZE", s.ShipMinSize)
	s.ShipMaxSize = getEnvInt("SHIP_MAX_SIZE", s.ShipMaxSize)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Pretty = getEnvBool("LOG_PRETTY", cfg.Log.Pretty)

	d := &cfg.Database
	d.URI = getEnv("MONGODB_URI", d.URI)
	d.DatabaseName = getEnv("MONGODB_DATABASE", d.DatabaseName)
	d.Enabled = getEnvBool("MONGODB_ENABLED", d.Enabled)
	d.RoundsTTLDays = getEnvInt("MONGODB_ROUNDS_TTL_DAYS", d.RoundsTTLDays)
	d.OperationTimeout = getEnvDuration("MONGODB_TIMEOUT", d.OperationTimeout)
	d.CircuitBreakerFailureThreshold = getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", d.CircuitBreakerFailureThreshold)
	d.CircuitBreakerSuccessThreshold = getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", d.CircuitBreakerSuccessThreshold)
	d.CircuitBreakerTimeout = getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", d.CircuitBreakerTimeout)

	cfg.Metrics.Textfile = getEnv("METRICS_TEXTFILE", cfg.Metrics.Textfile)
}

// Validate reports every setting that cannot drive a run.
func (c Config) Validate() error {
	var errs []error
	s := c.Simulation
	if s.MaxAvailableShips < 1 {
		errs = append(errs, fmt.Errorf("max available ships must be positive, got %d", s.MaxAvailableShips))
	}
	if s.ContainerMinSize < 1 || s.ContainerMinSize > s.ContainerMaxSize {
		errs = append(errs, fmt.Errorf("invalid container size bounds [%d, %d]", s.ContainerMinSize, s.ContainerMaxSize))
	}
	if s.ShipMinSize < 1 || s.ShipMinSize > s.ShipMaxSize {
		errs = append(errs, fmt.Errorf("invalid ship size bounds [%d, %d]", s.ShipMinSize, s.ShipMaxSize))
	}
	if c.Database.Enabled && c.Database.URI == "" {
		errs = append(errs, errors.New("database enabled without a URI"))
	}
	if c.Database.OperationTimeout <= 0 {
		errs = append(errs, fmt.Errorf("database operation timeout must be positive, got %s", c.Database.OperationTimeout))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if u, err := strconv.ParseUint(v, 10, 64); err == nil {
			return u
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
