// Package camera provides a 2D follow camera for the debug viewer.
package camera

import "math"

// Camera controls the viewport into the arena.
// The view never leaves the world rectangle.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions (for clamping)
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	// FollowRate is the fraction of the remaining distance closed per 1/60 s.
	FollowRate float32

	shakeIntensity float32
	shakeLeft      float32
	shakeTotal     float32
	shakeTime      float32
	offsetX        float32
	offsetY        float32
}

// New creates a camera centered on the world with 1:1 zoom.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		X:          worldW / 2,
		Y:          worldH / 2,
		Zoom:       1.0,
		ViewportW:  viewportW,
		ViewportH:  viewportH,
		WorldW:     worldW,
		WorldH:     worldH,
		MaxZoom:    4.0,
		FollowRate: 0.15,
	}
	c.MinZoom = c.fitZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	c.clampToWorld()
	return c
}

// fitZoom is the smallest zoom at which the viewport does not exceed the world.
// At zoom Z the visible world area is (viewportW/Z, viewportH/Z).
func (c *Camera) fitZoom() float32 {
	return max(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// WorldToScreen converts world coordinates to screen coordinates, including shake.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom + c.offsetX
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom + c.offsetY
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2-c.offsetX)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2-c.offsetY)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a box centred at (wx, wy) with the given half-extent could be
// visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fitZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	c.clampToWorld()
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampToWorld()
}

// Follow eases the camera toward a world point over dt seconds.
func (c *Camera) Follow(wx, wy, dt float32) {
	rate := 1 - float32(math.Pow(float64(1-clamp(c.FollowRate, 0, 1)), float64(dt*60)))
	c.X += (wx - c.X) * rate
	c.Y += (wy - c.Y) * rate
	c.clampToWorld()
}

// Shake starts a screen shake. A stronger shake replaces a weaker one in progress.
func (c *Camera) Shake(intensity, duration float32) {
	if intensity <= 0 || duration <= 0 {
		return
	}
	if c.shakeLeft > 0 && c.shakeIntensity*c.shakeLeft/c.shakeTotal > intensity {
		return
	}
	c.shakeIntensity = intensity
	c.shakeLeft = duration
	c.shakeTotal = duration
}

// Shaking reports whether a shake is in progress.
func (c *Camera) Shaking() bool {
	return c.shakeLeft > 0
}

// Update advances the shake by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.shakeLeft <= 0 {
		c.offsetX, c.offsetY = 0, 0
		return
	}
	c.shakeLeft = max(c.shakeLeft-dt, 0)
	c.shakeTime += dt
	amp := c.shakeIntensity * c.shakeLeft / c.shakeTotal
	c.offsetX = amp * float32(math.Sin(float64(c.shakeTime*47)))
	c.offsetY = amp * float32(math.Cos(float64(c.shakeTime*61)))
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampToWorld()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = max(1.0, c.MinZoom)
	c.shakeLeft = 0
	c.offsetX, c.offsetY = 0, 0
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
// Returns (minX, minY, maxX, maxY) in world coordinates.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// clampToWorld keeps the visible area inside the world.
func (c *Camera) clampToWorld() {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	c.X = clampCenter(c.X, halfW, c.WorldW)
	c.Y = clampCenter(c.Y, halfH, c.WorldH)
}

// clampCenter clamps a view center so [v-half, v+half] stays in [0, size]. A view wider than
// the world is centred.
func clampCenter(v, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(v, half, size-half)
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
