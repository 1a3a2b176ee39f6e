package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/camera"
	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/systems"
)

// ParticleType selects how an effect particle looks.
type ParticleType uint8

const (
	ParticleImpact ParticleType = iota
	ParticleExplosion
	ParticleTrail
	ParticleGlow
)

const maxParticles = 2048

// EffectParticle is a short-lived visual.
type EffectParticle struct {
	Pos     r2.Vec
	Vel     r2.Vec
	Life    float32
	MaxLife float32
	Size    float32
	Type    ParticleType
	Color   rl.Color
}

// ParticleRenderer owns effect particles and renders them.
type ParticleRenderer struct {
	particles []EffectParticle
	cam       *camera.Camera
}

// NewParticleRenderer creates a new particle renderer drawing through cam.
func NewParticleRenderer(cam *camera.Camera) *ParticleRenderer {
	return &ParticleRenderer{cam: cam}
}

// Effects returns simulation hooks that emit particles and shake the camera.
func (r *ParticleRenderer) Effects() *systems.Effects {
	return &systems.Effects{
		Impact: func(pos r2.Vec, strength float64) {
			r.burst(pos, ParticleImpact, 6, float32(strength)*0.1+2, rl.Color{R: 255, G: 240, B: 200, A: 255})
		},
		Explosion: func(pos r2.Vec, radius float64) {
			r.burst(pos, ParticleExplosion, 24, float32(radius)/8, rl.Color{R: 255, G: 150, B: 50, A: 255})
		},
		Trail: func(pos, vel r2.Vec) {
			r.add(EffectParticle{Pos: pos, Vel: r2.Scale(-0.1, vel), Life: 0.15, MaxLife: 0.15, Size: 2, Type: ParticleTrail, Color: rl.SkyBlue})
		},
		Shake: func(intensity, duration float64) {
			r.cam.Shake(float32(intensity), float32(duration))
		},
		Glow: func(pos r2.Vec, arch components.Archetype) {
			r.add(EffectParticle{Pos: pos, Life: 0.4, MaxLife: 0.4, Size: 14, Type: ParticleGlow, Color: rl.Gold})
		},
		TimeDilation: func(scale, duration float64) {},
	}
}

func (r *ParticleRenderer) burst(pos r2.Vec, typ ParticleType, n int, size float32, color rl.Color) {
	for i := range n {
		dir := r2.Rotate(r2.Vec{X: 1}, float64(i)/float64(n)*6.283185307179586, r2.Vec{})
		speed := 60 + 40*float64(i%3)
		r.add(EffectParticle{
			Pos: pos, Vel: r2.Scale(speed, dir),
			Life: 0.35, MaxLife: 0.35, Size: size, Type: typ, Color: color,
		})
	}
}

func (r *ParticleRenderer) add(p EffectParticle) {
	if len(r.particles) >= maxParticles {
		return
	}
	r.particles = append(r.particles, p)
}

// Update ages particles and drops the expired ones.
func (r *ParticleRenderer) Update(dt float32) {
	alive := r.particles[:0]
	for _, p := range r.particles {
		p.Life -= dt
		if p.Life <= 0 {
			continue
		}
		p.Pos = r2.Add(p.Pos, r2.Scale(float64(dt), p.Vel))
		alive = append(alive, p)
	}
	r.particles = alive
}

// Count returns the number of live particles.
func (r *ParticleRenderer) Count() int {
	return len(r.particles)
}

// Draw renders all particles.
func (r *ParticleRenderer) Draw() {
	for i := range r.particles {
		p := &r.particles[i]

		// Calculate life ratio for fade
		lifeRatio := p.Life / p.MaxLife
		color := p.Color
		color.A = uint8(lifeRatio * float32(p.Color.A))

		sx, sy := r.cam.WorldToScreen(float32(p.Pos.X), float32(p.Pos.Y))
		size := p.Size * r.cam.Zoom
		if p.Type != ParticleGlow {
			size *= lifeRatio
		}
		if size < 0.5 {
			size = 0.5
		}
		if p.Type == ParticleGlow {
			rl.DrawCircleLines(int32(sx), int32(sy), size*(2-lifeRatio), color)
			continue
		}
		rl.DrawCircle(int32(sx), int32(sy), size, color)
	}
}
