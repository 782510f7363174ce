package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoundReport describes the outcome of one optimization round.
// It is what the reporting layer persists; the optimizer never reads it back.
type RoundReport struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RunID          string             `bson:"run_id" json:"run_id"`
	Round          int                `bson:"round" json:"round"`
	MainTimestamp  int                `bson:"main_timestamp" json:"main_timestamp"`
	Algorithm      string             `bson:"algorithm" json:"algorithm"`
	AvailableShips []int              `bson:"available_ships" json:"available_ships"`
	Completed      []ShipmentReport   `bson:"completed" json:"completed"`
	Uncompleted    *ShipmentReport    `bson:"uncompleted,omitempty" json:"uncompleted,omitempty"`
	EmptyVolume    int                `bson:"empty_volume" json:"empty_volume"`
	DurationMs     int64              `bson:"duration_ms" json:"duration_ms"`
	Final          bool               `bson:"final" json:"final"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// ShipmentReport is a read-only snapshot of a single shipment.
type ShipmentReport struct {
	ShipID         int               `bson:"ship_id" json:"ship_id"`
	OccupiedVolume int               `bson:"occupied_volume" json:"occupied_volume"`
	EmptyVolume    int               `bson:"empty_volume" json:"empty_volume"`
	FullVolume     int               `bson:"full_volume" json:"full_volume"`
	ContainerIDs   []int             `bson:"container_ids" json:"container_ids"`
	Placements     []PlacementReport `bson:"placements" json:"placements"`
}

// PlacementReport records where one container ended up.
type PlacementReport struct {
	ContainerID int            `bson:"container_id" json:"container_id"`
	Corner      CornerPosition `bson:"corner" json:"corner"`
}

// ContainersSent returns the number of containers in completed shipments.
func (r *RoundReport) ContainersSent() int {
	total := 0
	for _, s := range r.Completed {
		total += len(s.ContainerIDs)
	}
	return total
}

// RoundQueryOptions provides options for querying round reports.
type RoundQueryOptions struct {
	RunID     string
	Algorithm string
	Limit     int
	Skip      int
}
