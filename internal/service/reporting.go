package service

import (
	"context"
	"time"

	"github.com/guttosm/shipment-optimizer/internal/domain/model"
	"github.com/guttosm/shipment-optimizer/internal/repository"
	"github.com/guttosm/shipment-optimizer/internal/shipment"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportingService defines the interface for round report operations.
type ReportingService interface {
	// Report stores a single round.
	Report(ctx context.Context, report *model.RoundReport) error

	// ReportMany stores multiple rounds in bulk.
	ReportMany(ctx context.Context, reports []*model.RoundReport) error

	// QueryRounds retrieves rounds matching the query options.
	QueryRounds(ctx context.Context, opts model.RoundQueryOptions) ([]model.RoundReport, error)

	// CountRounds returns the count of rounds matching the query options.
	CountRounds(ctx context.Context, opts model.RoundQueryOptions) (int64, error)
}

// ReportingServiceImpl implements the ReportingService interface.
type ReportingServiceImpl struct {
	repo repository.RoundsRepositoryInterface
}

// NewReportingService creates a new reporting service implementation.
func NewReportingService(repo repository.RoundsRepositoryInterface) ReportingService {
	return &ReportingServiceImpl{
		repo: repo,
	}
}

// Report stores a single round.
func (s *ReportingServiceImpl) Report(ctx context.Context, report *model.RoundReport) error {
	return s.repo.Create(ctx, s.modelToDocument(report))
}

// ReportMany stores multiple rounds in bulk.
func (s *ReportingServiceImpl) ReportMany(ctx context.Context, reports []*model.RoundReport) error {
	if len(reports) == 0 {
		return nil
	}

	docs := make([]*repository.RoundDocument, len(reports))
	for i, report := range reports {
		docs[i] = s.modelToDocument(report)
	}

	return s.repo.CreateMany(ctx, docs)
}

// QueryRounds retrieves rounds matching the query options.
func (s *ReportingServiceImpl) QueryRounds(ctx context.Context, opts model.RoundQueryOptions) ([]model.RoundReport, error) {
	docs, err := s.repo.Query(ctx, toRepositoryOptions(opts))
	if err != nil {
		return nil, err
	}

	reports := make([]model.RoundReport, len(docs))
	for i, doc := range docs {
		reports[i] = s.documentToModel(doc)
	}

	return reports, nil
}

// CountRounds returns the count of rounds matching the query options.
func (s *ReportingServiceImpl) CountRounds(ctx context.Context, opts model.RoundQueryOptions) (int64, error) {
	return s.repo.Count(ctx, toRepositoryOptions(opts))
}

func toRepositoryOptions(opts model.RoundQueryOptions) repository.RoundQueryOptions {
	return repository.RoundQueryOptions{
		RunID:     opts.RunID,
		Algorithm: opts.Algorithm,
		Limit:     opts.Limit,
		Skip:      opts.Skip,
	}
}

// modelToDocument converts a domain model to a repository document.
func (s *ReportingServiceImpl) modelToDocument(report *model.RoundReport) *repository.RoundDocument {
	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}

	doc := &repository.RoundDocument{
		ID:             report.ID,
		RunID:          report.RunID,
		Round:          report.Round,
		MainTimestamp:  report.MainTimestamp,
		Algorithm:      report.Algorithm,
		AvailableShips: report.AvailableShips,
		Completed:      make([]repository.ShipmentDocument, len(report.Completed)),
		EmptyVolume:    report.EmptyVolume,
		DurationMs:     report.DurationMs,
		Final:          report.Final,
		CreatedAt:      report.CreatedAt,
	}
	for i, sh := range report.Completed {
		doc.Completed[i] = shipmentToDocument(sh)
	}
	if report.Uncompleted != nil {
		uncompleted := shipmentToDocument(*report.Uncompleted)
		doc.Uncompleted = &uncompleted
	}
	return doc
}

// documentToModel converts a repository document to a domain model.
func (s *ReportingServiceImpl) documentToModel(doc *repository.RoundDocument) model.RoundReport {
	report := model.RoundReport{
		ID:             doc.ID,
		RunID:          doc.RunID,
		Round:          doc.Round,
		MainTimestamp:  doc.MainTimestamp,
		Algorithm:      doc.Algorithm,
		AvailableShips: doc.AvailableShips,
		Completed:      make([]model.ShipmentReport, len(doc.Completed)),
		EmptyVolume:    doc.EmptyVolume,
		DurationMs:     doc.DurationMs,
		Final:          doc.Final,
		CreatedAt:      doc.CreatedAt,
	}
	for i, sh := range doc.Completed {
		report.Completed[i] = documentToShipment(sh)
	}
	if doc.Uncompleted != nil {
		uncompleted := documentToShipment(*doc.Uncompleted)
		report.Uncompleted = &uncompleted
	}
	return report
}

func shipmentToDocument(sh model.ShipmentReport) repository.ShipmentDocument {
	doc := repository.ShipmentDocument{
		ShipID:         sh.ShipID,
		OccupiedVolume: sh.OccupiedVolume,
		EmptyVolume:    sh.EmptyVolume,
		FullVolume:     sh.FullVolume,
		ContainerIDs:   sh.ContainerIDs,
		Placements:     make([]repository.PlacementDocument, len(sh.Placements)),
	}
	for i, p := range sh.Placements {
		doc.Placements[i] = repository.PlacementDocument{
			ContainerID: p.ContainerID,
			Level:       p.Corner.HeightLevel,
			Length:      p.Corner.Length,
			Width:       p.Corner.Width,
		}
	}
	return doc
}

func documentToShipment(doc repository.ShipmentDocument) model.ShipmentReport {
	sh := model.ShipmentReport{
		ShipID:         doc.ShipID,
		OccupiedVolume: doc.OccupiedVolume,
		EmptyVolume:    doc.EmptyVolume,
		FullVolume:     doc.FullVolume,
		ContainerIDs:   doc.ContainerIDs,
		Placements:     make([]model.PlacementReport, len(doc.Placements)),
	}
	for i, p := range doc.Placements {
		sh.Placements[i] = model.PlacementReport{
			ContainerID: p.ContainerID,
			Corner: model.CornerPosition{
				Length:      p.Length,
				Width:       p.Width,
				HeightLevel: p.Level,
			},
		}
	}
	return sh
}

// noopReportingService drops every round; it stands in when the database is disabled.
type noopReportingService struct{}

// NewNoopReportingService returns a ReportingService that stores nothing.
func NewNoopReportingService() ReportingService {
	return noopReportingService{}
}

func (noopReportingService) Report(context.Context, *model.RoundReport) error { return nil }

func (noopReportingService) ReportMany(context.Context, []*model.RoundReport) error { return nil }

func (noopReportingService) QueryRounds(context.Context, model.RoundQueryOptions) ([]model.RoundReport, error) {
	return nil, nil
}

func (noopReportingService) CountRounds(context.Context, model.RoundQueryOptions) (int64, error) {
	return 0, nil
}

// SnapshotShipment captures a shipment for reporting. Placements are listed
// level by level in placement order.
func SnapshotShipment(sh *shipment.Shipment) model.ShipmentReport {
	report := model.ShipmentReport{
		ShipID:         sh.Ship().ID,
		OccupiedVolume: sh.OccupiedVolume(),
		EmptyVolume:    sh.EmptyVolume(false),
		FullVolume:     sh.FullVolume(false),
		ContainerIDs:   make([]int, 0, sh.Len()),
	}
	for _, c := range sh.Containers() {
		report.ContainerIDs = append(report.ContainerIDs, c.ID)
	}
	for _, level := range sh.Levels() {
		for _, pc := range level {
			report.Placements = append(report.Placements, model.PlacementReport{
				ContainerID: pc.Container.ID,
				Corner:      pc.Corner1,
			})
		}
	}
	return report
}
