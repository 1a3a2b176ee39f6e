// Package systems provides the per-frame simulation systems: AI, combat, projectiles,
// collision and population orchestration.
package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Neighbor holds a nearby entry with precomputed spatial data.
type Neighbor struct {
	Index  int    // Index into the frame's actor slice
	Delta  r2.Vec // From query origin
	DistSq float64
}

// SpatialGrid provides cell-based neighbour lookups over a bounded arena.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]int
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 64
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all entries from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entry at the given position. Positions outside the grid land in edge cells.
func (g *SpatialGrid) Insert(index int, p r2.Vec) {
	idx := g.row(p.Y)*g.cols + g.col(p.X)
	g.cells[idx] = append(g.cells[idx], index)
}

// MaxQueryResults caps the number of neighbours returned by spatial queries.
const MaxQueryResults = 128

// QueryRadiusInto finds entries within radius of p and appends them to dst (up to
// MaxQueryResults). pos resolves an entry's current position.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, p r2.Vec, radius float64, pos func(int) r2.Vec) []Neighbor {
	minCol, maxCol := g.col(p.X-radius), g.col(p.X+radius)
	minRow, maxRow := g.row(p.Y-radius), g.row(p.Y+radius)
	radiusSq := radius * radius

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, i := range g.cells[row*g.cols+col] {
				d := r2.Sub(pos(i), p)
				distSq := r2.Norm2(d)
				if distSq > radiusSq {
					continue
				}
				dst = append(dst, Neighbor{Index: i, Delta: d, DistSq: distSq})
				if len(dst) >= MaxQueryResults {
					return dst
				}
			}
		}
	}
	return dst
}

func (g *SpatialGrid) col(x float64) int {
	return clampIndex(int(math.Floor(x/g.cellSize)), g.cols)
}

func (g *SpatialGrid) row(y float64) int {
	return clampIndex(int(math.Floor(y/g.cellSize)), g.rows)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
