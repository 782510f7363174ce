package shipment

import "github.com/guttosm/shipment-optimizer/internal/domain/model"

// grid is a dense occupancy map stored as one contiguous buffer indexed by
// (level, length, width). A cell is 1 when a container covers it.
type grid struct {
	levels int
	length int
	width  int
	cells  []uint8
}

func newGrid(levels, length, width int) grid {
	levels, length, width = max(levels, 0), max(length, 0), max(width, 0)
	return grid{
		levels: levels,
		length: length,
		width:  width,
		cells:  make([]uint8, levels*length*width),
	}
}

func (g grid) clone() grid {
	c := g
	c.cells = make([]uint8, len(g.cells))
	copy(c.cells, g.cells)
	return c
}

func (g grid) index(level, l, w int) int {
	return (level*g.length+l)*g.width + w
}

func (g grid) at(level, l, w int) uint8 {
	return g.cells[g.index(level, l, w)]
}

// footprintSum counts occupied cells under pc's footprint at the given level.
// The footprint must already be known to lie inside the grid.
func (g grid) footprintSum(pc model.PlacedContainer, level int) int {
	sum := 0
	for l := pc.Corner1.Length; l < pc.Corner2.Length; l++ {
		row := g.index(level, l, 0)
		for w := pc.Corner1.Width; w < pc.Corner2.Width; w++ {
			sum += int(g.cells[row+w])
		}
	}
	return sum
}

func (g grid) fill(pc model.PlacedContainer, value uint8) {
	level := pc.Level()
	for l := pc.Corner1.Length; l < pc.Corner2.Length; l++ {
		row := g.index(level, l, 0)
		for w := pc.Corner1.Width; w < pc.Corner2.Width; w++ {
			g.cells[row+w] = value
		}
	}
}

func (g grid) occupied() int {
	sum := 0
	for _, v := range g.cells {
		sum += int(v)
	}
	return sum
}

// level returns a snapshot of one level as [length][width] rows.
func (g grid) level(level int) [][]uint8 {
	rows := make([][]uint8, g.length)
	for l := range rows {
		start := g.index(level, l, 0)
		rows[l] = append([]uint8(nil), g.cells[start:start+g.width]...)
	}
	return rows
}
