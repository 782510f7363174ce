// Package repository provides data access layer for MongoDB.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RoundDocument represents one optimization round in MongoDB.
type RoundDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RunID          string             `bson:"run_id" json:"run_id"`
	Round          int                `bson:"round" json:"round"`
	MainTimestamp  int                `bson:"main_timestamp" json:"main_timestamp"`
	Algorithm      string             `bson:"algorithm" json:"algorithm"`
	AvailableShips []int              `bson:"available_ships" json:"available_ships"`
	Completed      []ShipmentDocument `bson:"completed" json:"completed"`
	Uncompleted    *ShipmentDocument  `bson:"uncompleted,omitempty" json:"uncompleted,omitempty"`
	EmptyVolume    int                `bson:"empty_volume" json:"empty_volume"`
	DurationMs     int64              `bson:"duration_ms" json:"duration_ms"`
	Final          bool               `bson:"final" json:"final"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// ShipmentDocument is the stored form of one shipment of a round.
type ShipmentDocument struct {
	ShipID         int                 `bson:"ship_id" json:"ship_id"`
	OccupiedVolume int                 `bson:"occupied_volume" json:"occupied_volume"`
	EmptyVolume    int                 `bson:"empty_volume" json:"empty_volume"`
	FullVolume     int                 `bson:"full_volume" json:"full_volume"`
	ContainerIDs   []int               `bson:"container_ids" json:"container_ids"`
	Placements     []PlacementDocument `bson:"placements" json:"placements"`
}

// PlacementDocument is the stored corner of one placed container.
type PlacementDocument struct {
	ContainerID int `bson:"container_id" json:"container_id"`
	Level       int `bson:"level" json:"level"`
	Length      int `bson:"length" json:"length"`
	Width       int `bson:"width" json:"width"`
}

// RoundQueryOptions provides options for querying rounds.
type RoundQueryOptions struct {
	RunID     string
	Algorithm string
	Limit     int
	Skip      int
}

func (o RoundQueryOptions) filter() bson.M {
	filter := bson.M{}
	if o.RunID != "" {
		filter["run_id"] = o.RunID
	}
	if o.Algorithm != "" {
		filter["algorithm"] = o.Algorithm
	}
	return filter
}

// RoundsRepository provides methods for round operations at the repository level.
type RoundsRepository struct {
	collection *mongo.Collection
}

// NewRoundsRepository creates a new rounds repository.
func NewRoundsRepository(db *MongoDB) *RoundsRepository {
	return &RoundsRepository{
		collection: db.Rounds,
	}
}

func prepare(round *RoundDocument) {
	if round.ID.IsZero() {
		round.ID = primitive.NewObjectID()
	}
	if round.CreatedAt.IsZero() {
		round.CreatedAt = time.Now()
	}
}

// Create inserts a new round document.
func (r *RoundsRepository) Create(ctx context.Context, round *RoundDocument) error {
	prepare(round)
	_, err := r.collection.InsertOne(ctx, round)
	return err
}

// CreateMany inserts multiple round documents in bulk.
func (r *RoundsRepository) CreateMany(ctx context.Context, rounds []*RoundDocument) error {
	if len(rounds) == 0 {
		return nil
	}

	docs := make([]interface{}, len(rounds))
	for i, round := range rounds {
		prepare(round)
		docs[i] = round
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// Query returns round documents ordered by run and round number.
func (r *RoundsRepository) Query(ctx context.Context, opts RoundQueryOptions) ([]*RoundDocument, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "round", Value: 1}})
	if opts.Limit > 0 {
		findOptions.SetLimit(int64(opts.Limit))
	}
	if opts.Skip > 0 {
		findOptions.SetSkip(int64(opts.Skip))
	}

	cursor, err := r.collection.Find(ctx, opts.filter(), findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var rounds []*RoundDocument
	if err := cursor.All(ctx, &rounds); err != nil {
		return nil, err
	}

	return rounds, nil
}

// Count returns the number of round documents matching the options.
func (r *RoundsRepository) Count(ctx context.Context, opts RoundQueryOptions) (int64, error) {
	return r.collection.CountDocuments(ctx, opts.filter())
}
