package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/systems"
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	BarBg         rl.Color
	BarFill       rl.Color
	BarFillLow    rl.Color
	BarFillMedium rl.Color
	BarFillHigh   rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium:  rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:    rl.Color{R: 100, G: 200, B: 100, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     60,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Wave      systems.WaveStatus
	Player    components.Snapshot
	HasPlayer bool
	Ammo      int
	MaxAmmo   int
	Tick      uint64
	FPS       int32
	Paused    bool
	Over      bool
	Particles int
}

// HUD renders the heads-up display and the actor inspector.
type HUD struct {
	Theme Theme
}

// NewHUD creates a HUD with the default theme.
func NewHUD() *HUD {
	return &HUD{Theme: DefaultTheme()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	// Wave line
	w := data.Wave
	title := fmt.Sprintf("Wave %d", w.Wave)
	if w.Boss {
		title += " (boss)"
	}
	rl.DrawText(title, 10, 10, 20, rl.White)

	status := w.Phase.String()
	switch w.Phase {
	case systems.WaveActive:
		status = fmt.Sprintf("remaining %d | live %d | spawned %d/%d", w.Remaining, w.Live, w.Spawned, w.Quota)
	case systems.WaveCountdown:
		status = fmt.Sprintf("next wave in %.0f", w.Countdown+0.5)
	}
	rl.DrawText(status, 10, 35, 16, rl.LightGray)

	// Player
	if data.HasPlayer {
		y := h.DrawBar(10, 58, "Health", float32(data.Player.Health), float32(data.Player.MaxHealth), 260)
		rl.DrawText(fmt.Sprintf("Ammo: %d/%d", data.Ammo, data.MaxAmmo), 10, y, h.Theme.FontSize+2, rl.LightGray)
	}

	// Simulation info
	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Particles: %d", data.Tick, data.FPS, data.Particles),
		10, 100, 14, rl.Gray,
	)

	switch {
	case data.Over:
		rl.DrawText("RUN OVER", 10, 120, 20, rl.Red)
	case data.Paused:
		rl.DrawText("PAUSED", 10, 120, 20, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// DrawPanel draws a panel background with border.
func (h *HUD) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, h.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, h.Theme.PanelBorder)
}

// DrawBar draws a bar coloured by how full it is and returns the next Y position.
func (h *HUD) DrawBar(x, y int32, label string, current, maxValue float32, width int32) int32 {
	ratio := float32(0)
	if maxValue > 0 {
		ratio = current / maxValue
	}
	ratio = min(max(ratio, 0), 1)

	fill := h.Theme.BarFillHigh
	switch {
	case ratio < 0.3:
		fill = h.Theme.BarFillLow
	case ratio < 0.6:
		fill = h.Theme.BarFillMedium
	}

	barX := x + h.Theme.LabelWidth
	barWidth := width - h.Theme.LabelWidth - 60
	rl.DrawText(label+":", x, y, h.Theme.FontSize, h.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, h.Theme.BarHeight, h.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ratio), h.Theme.BarHeight, fill)
	rl.DrawText(fmt.Sprintf("%.0f/%.0f", current, maxValue), barX+barWidth+5, y, h.Theme.FontSize, h.Theme.ValueColor)

	return y + h.Theme.LineHeight + 2
}

// DrawInspector renders a panel describing one actor using the snapshot field descriptors.
func (h *HUD) DrawInspector(x, y int32, s components.Snapshot) {
	fields := components.SnapshotFieldDescriptors()
	width := int32(240)
	height := h.Theme.Padding*2 + h.Theme.LineHeight*int32(len(fields)+2)
	h.DrawPanel(x, y, width, height)

	cy := y + h.Theme.Padding
	px := x + h.Theme.Padding
	rl.DrawText(fmt.Sprintf("%s #%d", s.Archetype, s.ID), px, cy, h.Theme.HeaderFontSize, h.Theme.SectionHeader)
	cy += h.Theme.LineHeight
	rl.DrawText("State: "+s.State.String(), px, cy, h.Theme.FontSize, h.Theme.LabelColor)
	cy += h.Theme.LineHeight

	for _, fd := range fields {
		v := components.SnapshotValue(&s, fd.ID)
		if v == 0 && !fd.ShowWhenZero {
			continue
		}
		if fd.IsBar {
			upper := fd.Max
			if upper < 0 {
				upper = s.MaxHealth
			}
			cy = h.DrawBar(px, cy, fd.Label, float32(v-fd.Min), float32(upper-fd.Min), width-2*h.Theme.Padding)
			continue
		}
		rl.DrawText(fd.Label+": "+fmt.Sprintf(fd.Format, v), px, cy, h.Theme.FontSize, h.Theme.ValueColor)
		cy += h.Theme.LineHeight
	}
}
