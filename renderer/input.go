package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/camera"
	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/systems"
)

// actionKeys maps each action to the keys that trigger it.
var actionKeys = [systems.NumActions][]int32{
	systems.ActionMoveUp:    {rl.KeyW, rl.KeyUp},
	systems.ActionMoveDown:  {rl.KeyS, rl.KeyDown},
	systems.ActionMoveLeft:  {rl.KeyA, rl.KeyLeft},
	systems.ActionMoveRight: {rl.KeyD, rl.KeyRight},
	systems.ActionAttack:    {rl.KeyJ},
	systems.ActionFire:      {rl.KeyK},
	systems.ActionDash:      {rl.KeySpace, rl.KeyLeftShift},
}

var actionButtons = [systems.NumActions][]rl.MouseButton{
	systems.ActionAttack: {rl.MouseButtonLeft},
	systems.ActionFire:   {rl.MouseButtonRight},
}

// PollInput reads the keyboard and mouse into an input snapshot. The pointer direction runs
// from the player's screen position to the mouse.
func PollInput(cam *camera.Camera, player components.Snapshot) systems.InputSnapshot {
	var in systems.InputSnapshot
	for a := range systems.NumActions {
		for _, k := range actionKeys[a] {
			in.Held[a] = in.Held[a] || rl.IsKeyDown(k)
			in.Pressed[a] = in.Pressed[a] || rl.IsKeyPressed(k)
		}
		for _, b := range actionButtons[a] {
			in.Held[a] = in.Held[a] || rl.IsMouseButtonDown(b)
			in.Pressed[a] = in.Pressed[a] || rl.IsMouseButtonPressed(b)
		}
	}

	px, py := cam.WorldToScreen(float32(player.Pos.X), float32(player.Pos.Y))
	mouse := rl.GetMousePosition()
	dir := r2.Vec{X: float64(mouse.X - px), Y: float64(mouse.Y - py)}
	if r2.Norm(dir) > 1e-6 {
		in.Pointer = r2.Unit(dir)
	}
	return in
}
