package model

import "fmt"

// CornerPosition is a point of the ship grid.
// HeightLevel indexes a discrete stack level, not a raw height.
type CornerPosition struct {
	Length      int `bson:"length" json:"length"`
	Width       int `bson:"width" json:"width"`
	HeightLevel int `bson:"height_level" json:"height_level"`
}

// String returns a human readable representation of the corner.
func (p CornerPosition) String() string {
	return fmt.Sprintf("height=%d,length=%d,width=%d", p.HeightLevel, p.Length, p.Width)
}

// PlacedContainer binds a container to a position in a ship.
// Corner1 is the corner with the lowest coordinates; Corner2 is the opposite
// one on the same level (containers never span more than one level).
type PlacedContainer struct {
	Container Container
	Corner1   CornerPosition
	Corner2   CornerPosition
}

// NewPlacedContainer places c with its lowest corner at corner1.
func NewPlacedContainer(c Container, corner1 CornerPosition) PlacedContainer {
	return PlacedContainer{
		Container: c,
		Corner1:   corner1,
		Corner2: CornerPosition{
			Length:      corner1.Length + c.Length,
			Width:       corner1.Width + c.Width,
			HeightLevel: corner1.HeightLevel,
		},
	}
}

// Level returns the height level the container occupies.
func (p PlacedContainer) Level() int {
	return p.Corner1.HeightLevel
}

// Shifted returns a copy of the placed container moved by the given deltas.
func (p PlacedContainer) Shifted(dLength, dWidth, dLevel int) PlacedContainer {
	return NewPlacedContainer(p.Container, CornerPosition{
		Length:      p.Corner1.Length + dLength,
		Width:       p.Corner1.Width + dWidth,
		HeightLevel: p.Corner1.HeightLevel + dLevel,
	})
}

// String returns a human readable representation of the placement.
func (p PlacedContainer) String() string {
	return fmt.Sprintf("Container (%s) at (%s)", p.Container, p.Corner1)
}
