package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/shipment-optimizer/internal/domain/model"
	"github.com/guttosm/shipment-optimizer/internal/optimizer"
	"github.com/guttosm/shipment-optimizer/internal/shipment"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RoundRecorder receives every round of a run, e.g. for metrics.
type RoundRecorder interface {
	RecordRound(report *model.RoundReport, duration time.Duration)
}

// RunSummary aggregates the shipments sent during a run.
type RunSummary struct {
	RunID             string
	Algorithm         string
	Rounds            int
	Shipments         int
	ContainersSent    int
	ContainersWaiting int
	FullVolume        int
	EmptyVolume       int
	// UsedLevels* ignore the levels above the highest used one.
	UsedLevelsFullVolume  int
	UsedLevelsEmptyVolume int
	Duration              time.Duration
}

// UsedRatio returns the occupied share of the full volume of sent ships.
func (s RunSummary) UsedRatio() float64 {
	if s.FullVolume == 0 {
		return 0
	}
	return float64(s.FullVolume-s.EmptyVolume) / float64(s.FullVolume)
}

func (s *RunSummary) add(sh *shipment.Shipment) {
	s.Shipments++
	s.ContainersSent += sh.Len()
	s.FullVolume += sh.FullVolume(false)
	s.EmptyVolume += sh.EmptyVolume(false)
	s.UsedLevelsFullVolume += sh.FullVolume(true)
	s.UsedLevelsEmptyVolume += sh.EmptyVolume(true)
}

// Simulator replays registered containers and ships through an optimizer,
// one round per container timestamp.
type Simulator struct {
	inventory     *Inventory
	optimizer     optimizer.Optimizer
	reporter      ReportingService
	recorder      RoundRecorder
	runID         string
	out           io.Writer
	logger        zerolog.Logger
	reportTimeout time.Duration
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithReporter sets where round reports are stored.
func WithReporter(r ReportingService) SimulatorOption {
	return func(s *Simulator) {
		if r != nil {
			s.reporter = r
		}
	}
}

// WithRecorder sets the round recorder.
func WithRecorder(r RoundRecorder) SimulatorOption {
	return func(s *Simulator) {
		s.recorder = r
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) SimulatorOption {
	return func(s *Simulator) {
		if id != "" {
			s.runID = id
		}
	}
}

// WithOutput sets where the human readable round log is written.
func WithOutput(w io.Writer) SimulatorOption {
	return func(s *Simulator) {
		if w != nil {
			s.out = w
		}
	}
}

// WithSimulatorLogger sets the logger.
func WithSimulatorLogger(l zerolog.Logger) SimulatorOption {
	return func(s *Simulator) {
		s.logger = l
	}
}

// WithReportTimeout bounds every call to the reporter.
func WithReportTimeout(d time.Duration) SimulatorOption {
	return func(s *Simulator) {
		s.reportTimeout = d
	}
}

// NewSimulator creates a simulator over a filled inventory.
func NewSimulator(inv *Inventory, opt optimizer.Optimizer, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		inventory: inv,
		optimizer: opt,
		reporter:  NewNoopReportingService(),
		runID:     uuid.NewString(),
		out:       io.Discard,
		logger:    log.Logger,
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With().Str("run_id", s.runID).Str("algorithm", opt.Name()).Logger()
	return s
}

// RunID returns the id stamped on every round of the run.
func (s *Simulator) RunID() string { return s.runID }

// Run executes rounds until no container is waiting within the window or the
// last timestamp was processed. The unfinished shipment of each round is
// carried into the next one and sent once the timestamps are exhausted.
// An optimizer error aborts the run; a report that cannot be stored does not.
func (s *Simulator) Run(ctx context.Context) (RunSummary, error) {
	started := time.Now()
	summary := RunSummary{RunID: s.runID, Algorithm: s.optimizer.Name()}
	containers := s.inventory.Containers
	ships := s.inventory.Ships
	timestamps := s.inventory.Timestamps

	timestamps.SetMax(timestamps.Min())
	maxTimestamp := timestamps.Max()
	s.logger.Info().Int("timestamps", timestamps.Len()).Msg("simulation started")

	var uncompleted *shipment.Shipment
	for {
		if err := ctx.Err(); err != nil {
			return s.finish(summary, started), err
		}

		waiting := containers.Waiting(maxTimestamp)
		if len(waiting) == 0 {
			break
		}
		timestamps.SetMin(oldestTimestamp(waiting))
		available := ships.Available(timestamps.Min())

		roundStart := time.Now()
		manager, err := s.optimizer.Optimize(optimizer.Request{
			Ships:           available,
			Containers:      waiting,
			Timestamp:       maxTimestamp,
			ContainerHeight: containers.ConstHeight(),
			Previous:        uncompleted,
		})
		if err != nil {
			return s.finish(summary, started), fmt.Errorf("round %d at timestamp %d: %w", summary.Rounds+1, maxTimestamp, err)
		}
		elapsed := time.Since(roundStart)

		completed, open := splitRound(manager.Shipments(), uncompleted)
		uncompleted = open
		for _, sh := range completed {
			containers.Send(sh.Containers())
		}
		for _, sh := range completed {
			summary.add(sh)
		}

		summary.Rounds++
		s.report(ctx, s.buildReport(summary.Rounds, maxTimestamp, available, completed, uncompleted, elapsed, false), elapsed)

		if next := timestamps.IncreaseMax(); next > -1 {
			maxTimestamp = next
			continue
		}

		var last []*shipment.Shipment
		if uncompleted != nil {
			containers.Send(uncompleted.Containers())
			summary.add(uncompleted)
			last = append(last, uncompleted)
		}
		summary.Rounds++
		s.report(ctx, s.buildReport(summary.Rounds, maxTimestamp, available, last, nil, 0, true), 0)
		break
	}

	return s.finish(summary, started), nil
}

func (s *Simulator) finish(summary RunSummary, started time.Time) RunSummary {
	summary.ContainersWaiting = s.inventory.Containers.WaitingCount()
	summary.Duration = time.Since(started)

	s.logger.Info().
		Int("rounds", summary.Rounds).
		Int("shipments", summary.Shipments).
		Int("containers_sent", summary.ContainersSent).
		Int("containers_waiting", summary.ContainersWaiting).
		Int("empty_volume", summary.EmptyVolume).
		Dur("duration", summary.Duration).
		Msg("simulation finished")
	s.writeSummary(summary)
	return summary
}

// splitRound separates the shipments to send from the one left open. The last
// shipment stays open unless it is the reused previous shipment, which always
// sails in the round that committed it.
func splitRound(shipments []*shipment.Shipment, previous *shipment.Shipment) (completed []*shipment.Shipment, open *shipment.Shipment) {
	if len(shipments) == 0 {
		return nil, nil
	}
	last := shipments[len(shipments)-1]
	if previous != nil && last == previous {
		return shipments, nil
	}
	return shipments[:len(shipments)-1], last
}

func oldestTimestamp(containers []model.Container) int {
	oldest := containers[0].Timestamp
	for _, c := range containers[1:] {
		oldest = min(oldest, c.Timestamp)
	}
	return oldest
}

func (s *Simulator) buildReport(round, timestamp int, available []*model.Ship, completed []*shipment.Shipment, uncompleted *shipment.Shipment, elapsed time.Duration, final bool) *model.RoundReport {
	report := &model.RoundReport{
		RunID:          s.runID,
		Round:          round,
		MainTimestamp:  timestamp,
		Algorithm:      s.optimizer.Name(),
		AvailableShips: make([]int, len(available)),
		Completed:      make([]model.ShipmentReport, len(completed)),
		DurationMs:     elapsed.Milliseconds(),
		Final:          final,
	}
	for i, ship := range available {
		report.AvailableShips[i] = ship.ID
	}
	for i, sh := range completed {
		report.Completed[i] = SnapshotShipment(sh)
		report.EmptyVolume += report.Completed[i].EmptyVolume
	}
	if uncompleted != nil {
		snapshot := SnapshotShipment(uncompleted)
		report.Uncompleted = &snapshot
	}
	return report
}

func (s *Simulator) report(ctx context.Context, report *model.RoundReport, elapsed time.Duration) {
	s.writeRound(report)
	if s.recorder != nil {
		s.recorder.RecordRound(report, elapsed)
	}

	if s.reportTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.reportTimeout)
		defer cancel()
	}
	if err := s.reporter.Report(ctx, report); err != nil {
		s.logger.Warn().Err(err).Int("round", report.Round).Msg("failed to store round report")
	}
}

func (s *Simulator) writeRound(r *model.RoundReport) {
	var b strings.Builder
	fmt.Fprintf(&b, "round %d, timestamp %d, available ships %v\n", r.Round, r.MainTimestamp, r.AvailableShips)
	for _, sh := range r.Completed {
		fmt.Fprintf(&b, "  sent %s\n", describeShipment(sh))
	}
	if r.Uncompleted != nil {
		fmt.Fprintf(&b, "  uncompleted %s\n", describeShipment(*r.Uncompleted))
	}
	_, _ = io.WriteString(s.out, b.String())
}

func describeShipment(sh model.ShipmentReport) string {
	pct := 0.0
	if sh.FullVolume > 0 {
		pct = 100 * float64(sh.EmptyVolume) / float64(sh.FullVolume)
	}
	return fmt.Sprintf("ship s%d: %d containers, empty volume %d (%.2f%% of full volume) %v",
		sh.ShipID, len(sh.ContainerIDs), sh.EmptyVolume, pct, sh.ContainerIDs)
}

func (s *Simulator) writeSummary(summary RunSummary) {
	_, _ = fmt.Fprintf(s.out, "sent %d containers in %d shipments over %d rounds, %d still waiting\n",
		summary.ContainersSent, summary.Shipments, summary.Rounds, summary.ContainersWaiting)
	_, _ = fmt.Fprintf(s.out, "used %.2f%% of ships volume, empty volume %d (%d on used levels)\n",
		100*summary.UsedRatio(), summary.EmptyVolume, summary.UsedLevelsEmptyVolume)
}
