package model

import "fmt"

// Ship is a vessel that can carry one shipment.
// Timestamp is the moment the ship became available.
//
// Ships are compared by identity (pointer), never by value: two ships with
// the same dimensions are still different hulls.
type Ship struct {
	ID        int `bson:"id" json:"id"`
	Length    int `bson:"length" json:"length"`
	Width     int `bson:"width" json:"width"`
	Height    int `bson:"height" json:"height"`
	Timestamp int `bson:"timestamp" json:"timestamp"`
}

// Volume returns the full volume of the ship.
func (s *Ship) Volume() int {
	return s.Length * s.Width * s.Height
}

// String renders the ship in its input line format.
func (s *Ship) String() string {
	return fmt.Sprintf("s%d,%d,%d,%d", s.ID, s.Width, s.Height, s.Length)
}

// ParseShip parses a line in the format s{id},{width},{height},{length}.
// The returned ship has no timestamp; it is stamped on registration.
func ParseShip(line string) (*Ship, error) {
	values, err := parseRecord(line, 's', 4)
	if err != nil {
		return nil, fmt.Errorf("parse ship %q: %w", line, err)
	}
	return &Ship{
		ID:     values[0],
		Width:  values[1],
		Height: values[2],
		Length: values[3],
	}, nil
}
