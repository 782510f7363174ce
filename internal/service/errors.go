// Package service holds the simulation: input registration, the operator loop
// that drives an optimizer round by round, and round reporting.
package service

import "errors"

var (
	// ErrInvalidContainer is returned when a container has dimensions outside the limits.
	ErrInvalidContainer = errors.New("container dimensions out of range")
	// ErrContainerTooEarly is returned when a container arrives before the latest timestamp seen.
	ErrContainerTooEarly = errors.New("container timestamp precedes latest timestamp")
	// ErrDuplicateContainer is returned when a container id was already registered.
	ErrDuplicateContainer = errors.New("duplicate container id")
	// ErrContainerHeight is returned when a container breaks the common container height.
	ErrContainerHeight = errors.New("container height differs from common height")
	// ErrInvalidShip is returned when a ship has dimensions outside the limits.
	ErrInvalidShip = errors.New("ship dimensions out of range")
	// ErrDuplicateShip is returned when a ship id was already registered.
	ErrDuplicateShip = errors.New("duplicate ship id")
)
