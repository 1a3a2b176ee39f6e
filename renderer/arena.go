package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/camera"
	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/game"
	"github.com/pthm-cable/brawl/systems"
)

const (
	gridSpacing   = 100
	disarmReach   = 60
	controlLegend = "WASD move | J/LMB attack | K/RMB charge | Space dash | E disarm | Tab debug | MMB inspect"
)

// Arena draws the simulation and owns the viewer-side state: camera, particles, HUD and
// the selected actor.
type Arena struct {
	cam       *camera.Camera
	particles *ParticleRenderer
	hud       *HUD
	controls  *ControlsPanel
	selected  components.ActorID
}

// NewArena creates a viewer for a world of the given size.
func NewArena(screenW, screenH, worldW, worldH float32) *Arena {
	cam := camera.New(screenW, screenH, worldW, worldH)
	hud := NewHUD()
	return &Arena{
		cam:       cam,
		particles: NewParticleRenderer(cam),
		hud:       hud,
		controls:  NewControlsPanel(hud, int32(screenW)-190, 10, 180),
		selected:  components.NoActor,
	}
}

// Camera returns the arena camera.
func (a *Arena) Camera() *camera.Camera { return a.cam }

// Effects returns the hooks the simulation should fire.
func (a *Arena) Effects() *systems.Effects { return a.particles.Effects() }

// Update advances viewer state by dt seconds and forwards held interactions to the game.
func (a *Arena) Update(g *game.Game, dt float32) {
	if rl.IsWindowResized() {
		w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
		a.cam.Resize(w, h)
		a.controls.x = int32(w) - a.controls.width - 10
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyEqual) {
		a.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) {
		a.cam.ZoomBy(0.8)
	}

	player, ok := g.Player()
	if ok {
		a.cam.Follow(float32(player.Pos.X), float32(player.Pos.Y), dt)
	}
	a.particles.Update(dt)
	a.cam.Update(dt)

	if rl.IsMouseButtonPressed(rl.MouseButtonMiddle) {
		a.selectAt(g, rl.GetMousePosition())
	}

	if ok && player.State != components.StateDead && rl.IsKeyDown(rl.KeyE) {
		if id, found := nearestTurret(g, player.Pos); found {
			g.SustainInteraction(id, float64(dt))
		}
	}
}

func (a *Arena) selectAt(g *game.Game, mouse rl.Vector2) {
	wx, wy := a.cam.ScreenToWorld(mouse.X, mouse.Y)
	p := r2.Vec{X: float64(wx), Y: float64(wy)}
	a.selected = components.NoActor
	for _, s := range g.Snapshots() {
		if s.Bounds.Contains(p) {
			a.selected = s.ID
			return
		}
	}
}

// nearestTurret returns the closest live turret within reach of pos.
func nearestTurret(g *game.Game, pos r2.Vec) (components.ActorID, bool) {
	best := components.NoActor
	bestDist := math.Inf(1)
	for _, s := range g.Snapshots() {
		if s.Archetype != components.ArchTurret || s.State == components.StateDead {
			continue
		}
		d := r2.Norm(r2.Sub(s.Pos, pos))
		if d <= disarmReach && d < bestDist {
			best, bestDist = s.ID, d
		}
	}
	return best, best != components.NoActor
}

// Draw renders the arena and the HUD. Call between BeginDrawing and EndDrawing.
func (a *Arena) Draw(g *game.Game) {
	rl.ClearBackground(rl.Color{R: 18, G: 20, B: 24, A: 255})
	a.drawGrid()

	snaps := g.Snapshots()
	var selected *components.Snapshot
	for i := range snaps {
		s := &snaps[i]
		if s.ID == a.selected {
			selected = s
		}
		a.drawActor(s)
	}
	a.particles.Draw()

	player, hasPlayer := g.Player()
	ammo, maxAmmo := g.Ammo()
	a.hud.Draw(HUDData{
		Wave:      g.Wave(),
		Player:    player,
		HasPlayer: hasPlayer,
		Ammo:      ammo,
		MaxAmmo:   maxAmmo,
		Tick:      g.Tick(),
		FPS:       rl.GetFPS(),
		Paused:    g.Paused(),
		Over:      g.Over(),
		Particles: a.particles.Count(),
	})
	if selected != nil {
		a.hud.DrawInspector(10, 150, *selected)
	}
	a.controls.Draw(g)
	a.hud.DrawControls(int32(a.cam.ViewportH), controlLegend)
}

func (a *Arena) drawGrid() {
	minX, minY, maxX, maxY := a.cam.VisibleWorldBounds()
	color := rl.Color{R: 30, G: 34, B: 40, A: 255}
	for x := float32(math.Floor(float64(minX)/gridSpacing)) * gridSpacing; x <= maxX; x += gridSpacing {
		sx, sy0 := a.cam.WorldToScreen(x, minY)
		_, sy1 := a.cam.WorldToScreen(x, maxY)
		rl.DrawLine(int32(sx), int32(sy0), int32(sx), int32(sy1), color)
	}
	for y := float32(math.Floor(float64(minY)/gridSpacing)) * gridSpacing; y <= maxY; y += gridSpacing {
		sx0, sy := a.cam.WorldToScreen(minX, y)
		sx1, _ := a.cam.WorldToScreen(maxX, y)
		rl.DrawLine(int32(sx0), int32(sy), int32(sx1), int32(sy), color)
	}

	// World border
	x0, y0 := a.cam.WorldToScreen(0, 0)
	x1, y1 := a.cam.WorldToScreen(a.cam.WorldW, a.cam.WorldH)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 2, rl.Color{R: 70, G: 80, B: 90, A: 255})
}

func (a *Arena) drawActor(s *components.Snapshot) {
	b := s.Bounds
	w, h := float32(b.W), float32(b.H)
	if !a.cam.IsVisible(float32(s.Pos.X), float32(s.Pos.Y), max(w, h)) {
		return
	}

	sx, sy := a.cam.WorldToScreen(float32(b.X), float32(b.Y))
	rect := rl.Rectangle{X: sx, Y: sy, Width: w * a.cam.Zoom, Height: h * a.cam.Zoom}

	color := archetypeColor(s.Archetype)
	switch {
	case s.State == components.StateDead:
		color = rl.Fade(color, 0.3)
	case s.Hidden:
		color = rl.Fade(color, 0.2)
	case s.Flashing:
		color = lerpColor(color, rl.White, float32(s.Flash))
	}
	if s.Archetype == components.ArchProjectile || s.Archetype == components.ArchPickup {
		rl.DrawCircle(int32(rect.X+rect.Width/2), int32(rect.Y+rect.Height/2), rect.Width/2, color)
	} else {
		rl.DrawRectangleRec(rect, color)
	}

	if s.Stunned {
		rl.DrawRectangleLinesEx(rect, 2, rl.SkyBlue)
	}
	if s.ID == a.selected {
		rl.DrawRectangleLinesEx(rect, 1, rl.Yellow)
	}

	// Health bar above damaged enemies
	if s.Archetype.IsEnemy() && s.State != components.StateDead && s.Health < s.MaxHealth && s.MaxHealth > 0 {
		ratio := float32(max(s.Health, 0) / s.MaxHealth)
		rl.DrawRectangle(int32(rect.X), int32(rect.Y)-6, int32(rect.Width), 3, rl.Color{R: 40, G: 40, B: 40, A: 255})
		rl.DrawRectangle(int32(rect.X), int32(rect.Y)-6, int32(rect.Width*ratio), 3, rl.Color{R: 200, G: 80, B: 80, A: 255})
	}
}

func archetypeColor(arch components.Archetype) rl.Color {
	switch arch {
	case components.ArchPlayer:
		return rl.Color{R: 90, G: 200, B: 255, A: 255}
	case components.ArchMelee:
		return rl.Color{R: 220, G: 90, B: 70, A: 255}
	case components.ArchRanged:
		return rl.Color{R: 230, G: 160, B: 60, A: 255}
	case components.ArchDrone:
		return rl.Color{R: 200, G: 80, B: 200, A: 255}
	case components.ArchTurret:
		return rl.Color{R: 160, G: 160, B: 90, A: 255}
	case components.ArchTunneler:
		return rl.Color{R: 140, G: 110, B: 80, A: 255}
	case components.ArchSplitter:
		return rl.Color{R: 120, G: 200, B: 90, A: 255}
	case components.ArchStatic:
		return rl.Color{R: 90, G: 90, B: 96, A: 255}
	case components.ArchProjectile:
		return rl.Color{R: 255, G: 240, B: 160, A: 255}
	case components.ArchPickup:
		return rl.Color{R: 110, G: 230, B: 120, A: 255}
	default:
		return rl.Color{R: 100, G: 100, B: 110, A: 255}
	}
}

func lerpColor(from, to rl.Color, t float32) rl.Color {
	t = min(max(t, 0), 1)
	mix := func(a, b uint8) uint8 { return uint8(float32(a) + (float32(b)-float32(a))*t) }
	return rl.Color{R: mix(from.R, to.R), G: mix(from.G, to.G), B: mix(from.B, to.B), A: from.A}
}
