package renderer

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/game"
	"github.com/pthm-cable/brawl/systems"
)

// ControlsPanel renders the debug buttons that drive the game's admin commands.
type ControlsPanel struct {
	hud     *HUD
	x, y    int32
	width   int32
	visible bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(hud *HUD, x, y, width int32) *ControlsPanel {
	return &ControlsPanel{hud: hud, x: x, y: y, width: width, visible: true}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and applies any button that was clicked.
func (c *ControlsPanel) Draw(g *game.Game) {
	if !c.visible {
		return
	}

	pad := c.hud.Theme.Padding
	const buttonH = 26
	height := pad*2 + c.hud.Theme.LineHeight + 4*(buttonH+6)
	c.hud.DrawPanel(c.x, c.y, c.width, height)
	rl.DrawText("Debug", c.x+pad, c.y+pad, c.hud.Theme.HeaderFontSize, c.hud.Theme.SectionHeader)

	bx := float32(c.x + pad)
	by := float32(c.y + pad + c.hud.Theme.LineHeight)
	bw := float32(c.width - 2*pad)
	button := func(label string) bool {
		clicked := gui.Button(rl.Rectangle{X: bx, Y: by, Width: bw, Height: buttonH}, label)
		by += buttonH + 6
		return clicked
	}

	if button(toggleText(g.Paused(), "Resume", "Pause")) {
		if g.Paused() {
			g.Resume()
		} else {
			g.Pause()
		}
	}
	if button("Start wave") && g.Wave().Phase == systems.WaveInactive {
		g.StartFirstWave()
	}
	if button("Next wave") {
		g.JumpToWave(g.Wave().Wave + 1)
	}
	if button("Clear drones") {
		g.ClearArchetype(components.ArchDrone)
	}
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
