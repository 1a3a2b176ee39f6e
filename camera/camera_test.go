package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, 2400, 1600)

	// Should be centered on world
	if cam.X != 1200 || cam.Y != 800 {
		t.Errorf("expected camera at (1200, 800), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 2400, 1600)

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(1200, 800)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2400, 1600)
	cam.SetZoom(1.5)
	cam.Shake(10, 1)
	cam.Update(0.1)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestViewStaysInsideWorld(t *testing.T) {
	cam := New(1280, 720, 2400, 1600)

	cam.Pan(-10000, -10000)
	minX, minY, _, _ := cam.VisibleWorldBounds()
	if !near(minX, 0) || !near(minY, 0) {
		t.Errorf("expected view pinned to the top-left corner, got (%f, %f)", minX, minY)
	}

	cam.Pan(10000, 10000)
	_, _, maxX, maxY := cam.VisibleWorldBounds()
	if !near(maxX, 2400) || !near(maxY, 1600) {
		t.Errorf("expected view pinned to the bottom-right corner, got (%f, %f)", maxX, maxY)
	}
}

func TestMinZoomFitsWorld(t *testing.T) {
	cam := New(1280, 720, 640, 480)

	// Viewport is larger than the world: zoom in until it fits
	if cam.MinZoom != 2 {
		t.Errorf("expected min zoom 2, got %f", cam.MinZoom)
	}
	if cam.Zoom < cam.MinZoom {
		t.Errorf("zoom %f below min %f", cam.Zoom, cam.MinZoom)
	}
	cam.SetZoom(0.1)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}
}

func TestFollowConverges(t *testing.T) {
	cam := New(1280, 720, 2400, 1600)

	for i := 0; i < 300; i++ {
		cam.Follow(900, 700, 1.0/60)
	}
	if !near(cam.X, 900) || !near(cam.Y, 700) {
		t.Errorf("expected camera at (900, 700), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestFollowIsFrameRateIndependent(t *testing.T) {
	a := New(1280, 720, 2400, 1600)
	b := New(1280, 720, 2400, 1600)

	a.Follow(900, 800, 1.0/30)
	b.Follow(900, 800, 1.0/60)
	b.Follow(900, 800, 1.0/60)

	if !near(a.X, b.X) {
		t.Errorf("expected equal positions, got %f vs %f", a.X, b.X)
	}
}

func TestShakeDecays(t *testing.T) {
	cam := New(1280, 720, 2400, 1600)
	cam.Shake(8, 0.2)
	if !cam.Shaking() {
		t.Fatal("expected shake in progress")
	}

	cam.Update(0.25)
	if cam.Shaking() {
		t.Error("expected shake to finish")
	}
	cam.Update(0.01)
	sx, sy := cam.WorldToScreen(cam.X, cam.Y)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected no offset after shake, got (%f, %f)", sx, sy)
	}
}

func TestWeakShakeDoesNotInterrupt(t *testing.T) {
	cam := New(1280, 720, 2400, 1600)
	cam.Shake(10, 1)
	cam.Shake(1, 0.1)
	cam.Update(0.5)
	if !cam.Shaking() {
		t.Error("expected the strong shake to continue")
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 2400, 1600)

	if !cam.IsVisible(1200, 800, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(100, 100, 10) {
		t.Error("far corner should be culled")
	}
}
