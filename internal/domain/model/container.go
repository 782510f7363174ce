// Package model defines the core domain entities for the shipment optimizer.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidRecord is returned when an input line cannot be parsed into a record.
	ErrInvalidRecord = errors.New("invalid record")
)

// Container is a single cargo container waiting to be shipped.
// Dimensions are abstract integer grid units; Timestamp is the arrival time.
type Container struct {
	ID        int `bson:"id" json:"id"`
	Length    int `bson:"length" json:"length"`
	Width     int `bson:"width" json:"width"`
	Height    int `bson:"height" json:"height"`
	Timestamp int `bson:"timestamp" json:"timestamp"`
}

// Area returns the footprint area of the container (length * width).
func (c Container) Area() int {
	return c.Length * c.Width
}

// String renders the container in its input line format.
func (c Container) String() string {
	return fmt.Sprintf("c%d,%d,%d,%d,%d", c.ID, c.Width, c.Height, c.Length, c.Timestamp)
}

// ParseContainer parses a line in the format c{id},{width},{height},{length},{timestamp}.
func ParseContainer(line string) (Container, error) {
	values, err := parseRecord(line, 'c', 5)
	if err != nil {
		return Container{}, fmt.Errorf("parse container %q: %w", line, err)
	}
	return Container{
		ID:        values[0],
		Width:     values[1],
		Height:    values[2],
		Length:    values[3],
		Timestamp: values[4],
	}, nil
}

// parseRecord checks the record prefix and splits the remainder into exactly n integers.
func parseRecord(line string, prefix byte, n int) ([]int, error) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] != prefix {
		return nil, ErrInvalidRecord
	}
	parts := strings.Split(line[1:], ",")
	if len(parts) != n {
		return nil, ErrInvalidRecord
	}
	values := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, ErrInvalidRecord
		}
		values[i] = v
	}
	return values, nil
}
