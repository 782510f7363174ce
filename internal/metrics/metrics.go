// Package metrics provides Prometheus metrics collection for simulation runs.
//
// A run is a batch job, so the registry is written once to a node-exporter
// textfile instead of being scraped.
package metrics

import (
	"strconv"
	"time"

	"github.com/guttosm/shipment-optimizer/internal/circuitbreaker"
	"github.com/guttosm/shipment-optimizer/internal/domain/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shipment_optimizer"

// Metrics holds the collectors of one simulation run.
type Metrics struct {
	registry *prometheus.Registry

	// RoundsTotal tracks optimization rounds by algorithm.
	RoundsTotal *prometheus.CounterVec
	// ShipmentsTotal tracks completed shipments by algorithm.
	ShipmentsTotal *prometheus.CounterVec
	// ContainersSentTotal tracks containers that left in completed shipments.
	ContainersSentTotal *prometheus.CounterVec
	// EmptyVolumeRatio is the empty share of the completed shipments of the last round.
	EmptyVolumeRatio *prometheus.GaugeVec
	// OptimizationDuration tracks how long a single Optimize call took.
	OptimizationDuration *prometheus.HistogramVec
	// GeneticGenerationsTotal tracks evaluated generations of the genetic strategy.
	GeneticGenerationsTotal prometheus.Counter
	// GeneticBestValue is the best occupied volume of the last evaluated generation, per ship.
	GeneticBestValue *prometheus.GaugeVec
	// CircuitBreakerState is 0 closed, 1 open and 2 half-open.
	CircuitBreakerState *prometheus.GaugeVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RoundsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rounds_total",
				Help:      "Total number of optimization rounds",
			},
			[]string{"algorithm"},
		),
		ShipmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "shipments_total",
				Help:      "Total number of completed shipments",
			},
			[]string{"algorithm"},
		),
		ContainersSentTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "containers_sent_total",
				Help:      "Total number of containers sent in completed shipments",
			},
			[]string{"algorithm"},
		),
		EmptyVolumeRatio: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "empty_volume_ratio",
				Help:      "Empty share of the full volume of the last round's completed shipments",
			},
			[]string{"algorithm"},
		),
		OptimizationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "optimization_duration_seconds",
				Help:      "Duration of a single optimization round in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"algorithm"},
		),
		GeneticGenerationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "genetic_generations_total",
				Help:      "Total number of evaluated genetic generations",
			},
		),
		GeneticBestValue: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "genetic_best_value",
				Help:      "Best occupied volume of the last evaluated generation",
			},
			[]string{"ship"},
		),
		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state (0 closed, 1 open, 2 half-open)",
			},
			[]string{"name"},
		),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRound records one round. The final flush of a run is counted but not timed.
func (m *Metrics) RecordRound(report *model.RoundReport, duration time.Duration) {
	algorithm := report.Algorithm

	m.RoundsTotal.WithLabelValues(algorithm).Inc()
	m.ShipmentsTotal.WithLabelValues(algorithm).Add(float64(len(report.Completed)))
	m.ContainersSentTotal.WithLabelValues(algorithm).Add(float64(report.ContainersSent()))
	if !report.Final {
		m.OptimizationDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	}

	full, empty := 0, 0
	for _, s := range report.Completed {
		full += s.FullVolume
		empty += s.EmptyVolume
	}
	if full > 0 {
		m.EmptyVolumeRatio.WithLabelValues(algorithm).Set(float64(empty) / float64(full))
	}
}

// ObserveGeneration records one evaluated generation of the genetic strategy.
func (m *Metrics) ObserveGeneration(ship *model.Ship, _ int, _ int, best int) {
	m.GeneticGenerationsTotal.Inc()
	if ship != nil {
		m.GeneticBestValue.WithLabelValues(strconv.Itoa(ship.ID)).Set(float64(best))
	}
}

// ObserveStateChange records a circuit breaker transition.
func (m *Metrics) ObserveStateChange(name string, _ circuitbreaker.State, to circuitbreaker.State) {
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
}

// WriteTextfile writes the registry in the text exposition format to path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
