// Package shipment implements the 3D occupancy model of a single ship-load and
// the ledger that keeps a round's shipments consistent with each other.
//
// Every mutating operation is a check-then-act call: it either applies the
// whole change or returns one of the errors below and leaves the receiver
// untouched. None of these errors is fatal; callers try another position,
// ship or strategy branch.
package shipment

import "errors"

var (
	// ErrOutOfBounds means a container corner lies outside the ship grid.
	ErrOutOfBounds = errors.New("container out of ship bounds")
	// ErrOverlap means the target footprint is already (partly) occupied.
	ErrOverlap = errors.New("container overlaps occupied space")
	// ErrUnstable means less than half of the footprint is supported by the level below.
	ErrUnstable = errors.New("container would be unstable")
	// ErrDuplicateContainer means the container is already placed.
	ErrDuplicateContainer = errors.New("container already placed")
	// ErrShipMismatch means two shipments are not built on the same ship.
	ErrShipMismatch = errors.New("shipments use different ships")
	// ErrLevelCapacityExceeded means a join would need more levels than the ship has.
	ErrLevelCapacityExceeded = errors.New("not enough free levels")
	// ErrTimestampPartition means a shipment breaks the manager's timestamp partitioning.
	ErrTimestampPartition = errors.New("timestamp partition violated")
	// ErrNotPlaced means the container is not placed at the given position.
	ErrNotPlaced = errors.New("container not placed here")
	// ErrSupportsOthers means removing the container would destabilise the level above.
	ErrSupportsOthers = errors.New("container supports others")
	// ErrNilShipment is returned when a nil shipment is offered to a manager.
	ErrNilShipment = errors.New("nil shipment")
	// ErrShipmentNotFound means the shipment is not held by the manager.
	ErrShipmentNotFound = errors.New("shipment not found")
	// ErrFirstShipmentLocked means the first shipment cannot leave while others depend on it.
	ErrFirstShipmentLocked = errors.New("first shipment cannot be removed while others exist")
)
