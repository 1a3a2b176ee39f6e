package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
)

const epsilon = 1e-9

// unit returns v normalized, or false when v is zero-length or not finite.
func unit(v r2.Vec) (r2.Vec, bool) {
	n := r2.Norm(v)
	if n < epsilon || math.IsNaN(n) || math.IsInf(n, 0) {
		return r2.Vec{}, false
	}
	return r2.Scale(1/n, v), true
}

// perp returns v rotated a quarter turn counter-clockwise.
func perp(v r2.Vec) r2.Vec {
	return r2.Vec{X: -v.Y, Y: v.X}
}

func distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(b, a))
}

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clampFloat clamps v between minVal and maxVal.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// signedAngle returns the rotation in (-Pi, Pi] that turns from onto to.
func signedAngle(from, to r2.Vec) float64 {
	return math.Atan2(r2.Cross(from, to), r2.Dot(from, to))
}

// segmentsIntersect tests p1->p2 against q1->q2 in closed form. Parallel segments never hit.
func segmentsIntersect(p1, p2, q1, q2 r2.Vec) bool {
	r := r2.Sub(p2, p1)
	s := r2.Sub(q2, q1)
	denom := r2.Cross(r, s)
	if math.Abs(denom) < epsilon {
		return false
	}
	qp := r2.Sub(q1, p1)
	t := r2.Cross(qp, s) / denom
	u := r2.Cross(qp, r) / denom
	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}

// segmentHitsRectEdges reports whether the segment crosses any of the rectangle's four edges.
func segmentHitsRectEdges(a, b r2.Vec, r components.Rect) bool {
	tl := r2.Vec{X: r.X, Y: r.Y}
	tr := r2.Vec{X: r.MaxX(), Y: r.Y}
	br := r2.Vec{X: r.MaxX(), Y: r.MaxY()}
	bl := r2.Vec{X: r.X, Y: r.MaxY()}
	return segmentsIntersect(a, b, tl, tr) ||
		segmentsIntersect(a, b, tr, br) ||
		segmentsIntersect(a, b, br, bl) ||
		segmentsIntersect(a, b, bl, tl)
}

// expand grows r by the half extents of other, so a point test against the result is a box test
// against r.
func expand(r, other components.Rect) components.Rect {
	hw, hh := other.W/2, other.H/2
	return components.Rect{X: r.X - hw, Y: r.Y - hh, W: r.W + 2*hw, H: r.H + 2*hh}
}
