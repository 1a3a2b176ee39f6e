package components

import "gonum.org/v1/gonum/spatial/r2"

// Rect is an axis-aligned rectangle. Actor bounds store it relative to the actor position.
type Rect struct {
	X, Y, W, H float64
}

// Canon returns r with negative extents folded away so W and H are never negative.
func (r Rect) Canon() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Translate offsets the rectangle by p.
func (r Rect) Translate(p r2.Vec) Rect {
	return Rect{X: r.X + p.X, Y: r.Y + p.Y, W: r.W, H: r.H}
}

func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Center returns the middle of the rectangle.
func (r Rect) Center() r2.Vec {
	return r2.Vec{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Overlaps reports strict interior overlap; touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Contains reports whether p lies inside or on the rectangle.
func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Clamp returns p moved to the nearest point inside r, shrunk by margin on every side.
func (r Rect) Clamp(p r2.Vec, margin float64) r2.Vec {
	minX, maxX := r.X+margin, r.MaxX()-margin
	minY, maxY := r.Y+margin, r.MaxY()-margin
	if minX > maxX {
		minX, maxX = r.Center().X, r.Center().X
	}
	if minY > maxY {
		minY, maxY = r.Center().Y, r.Center().Y
	}
	p.X = clamp(p.X, minX, maxX)
	p.Y = clamp(p.Y, minY, maxY)
	return p
}

// Scale returns the rectangle scaled about the origin, which for relative bounds means about the
// actor position.
func (r Rect) Scale(f float64) Rect {
	return Rect{X: r.X * f, Y: r.Y * f, W: r.W * f, H: r.H * f}.Canon()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
