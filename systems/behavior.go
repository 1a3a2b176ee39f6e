package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
)

// Behavior decides what an enemy wants to do this frame. Implementations set the actor's
// velocity and state; movement itself happens in physics.
type Behavior interface {
	Decide(f *Frame, e Enemy)
}

// DamageFilter lets an archetype alter incoming damage before it is applied.
type DamageFilter interface {
	FilterDamage(f *Frame, e Enemy, amount float64) float64
}

// DamageReactor runs after an enemy survives a hit.
type DamageReactor interface {
	AfterDamage(f *Frame, e Enemy)
}

// DeathRoutine replaces the generic death handling (pickup drop) for an archetype.
type DeathRoutine interface {
	OnDeath(f *Frame, e Enemy, source components.ActorID)
}

var behaviors = [components.NumArchetypes]Behavior{
	components.ArchMelee:    chaser{},
	components.ArchRanged:   rangedBehavior{},
	components.ArchTunneler: tunnelerBehavior{},
	components.ArchTurret:   turretBehavior{},
	components.ArchDrone:    droneBehavior{},
	components.ArchSplitter: splitterBehavior{},
}

// BehaviorFor returns the decision strategy for an archetype, or nil for non-enemies.
func BehaviorFor(arch components.Archetype) Behavior {
	if int(arch) >= len(behaviors) {
		return nil
	}
	return behaviors[arch]
}

// AISystem runs enemy decisions.
type AISystem struct{}

// NewAISystem creates a new AI system.
func NewAISystem() *AISystem {
	return &AISystem{}
}

// Update ticks every enemy's timers and runs its behavior. Stunned enemies skip decisions
// entirely; their timers still decay.
func (s *AISystem) Update(f *Frame) {
	for _, e := range f.Enemies {
		a, b := e.Actor, e.Brain
		if a.IsDead() {
			b.Mode = components.AIDead
			continue
		}
		b.Timers.Tick(f.DT)

		if a.Stunned {
			b.Mode = components.AIStunned
			continue
		}
		if b.Mode == components.AIStunned {
			b.Mode = components.AIIdle
			b.Timers.Set(components.TimerDecision, 0)
			b.Timers.Set(components.TimerBehavior, 0)
		}

		if beh := BehaviorFor(a.Archetype); beh != nil {
			beh.Decide(f, e)
		}
	}
}

// engaged reports whether the enemy is in a target-directed mode.
func engaged(b *components.Brain) bool {
	return b.Mode == components.AIPursuing || b.Mode == components.AIAttacking
}

func playerInRange(f *Frame, a *components.Actor, radius float64) bool {
	return f.PlayerAlive() && distance(a.Center(), f.Player.Center()) <= radius
}

// decide re-evaluates between pursuit and roaming whenever the decision timer fires.
// An engaged enemy keeps its target while it stays in aggro range.
func decide(f *Frame, e Enemy) {
	b := e.Brain
	if !b.Timers.Ready(components.TimerDecision) {
		if engaged(b) && !f.PlayerAlive() {
			startRoaming(e, b.Roll(0.5), f)
		}
		return
	}
	b.Timers.Set(components.TimerDecision, b.DecisionInterval)

	if playerInRange(f, e.Actor, b.AggroRange) {
		if engaged(b) {
			return
		}
		if b.Roll(b.Aggressiveness) {
			b.Mode = components.AIPursuing
			return
		}
	} else if engaged(b) {
		startRoaming(e, b.Roll(0.5), f)
		return
	}

	if b.Mode != components.AIWandering && b.Mode != components.AIIdle {
		startRoaming(e, b.Roll(0.5), f)
	}
}

// startRoaming enters wander or idle with a fresh duration.
func startRoaming(e Enemy, wander bool, f *Frame) {
	a, b := e.Actor, e.Brain
	ai := f.Cfg.AI
	if a.State == components.StateAttacking {
		a.SetState(components.StateIdle)
	}
	if wander {
		angle := b.Rng.Float64() * 2 * math.Pi
		b.Mode = components.AIWandering
		b.WanderDir = r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}
		b.Timers.Set(components.TimerBehavior, b.Between(ai.WanderMin, ai.WanderMax))
		return
	}
	b.Mode = components.AIIdle
	b.Timers.Set(components.TimerBehavior, b.Between(ai.IdleMin, ai.IdleMax))
}

// roam advances the wander/idle cycle. When a step runs out the enemy repeats it with
// RepeatChance, otherwise it switches to the other one.
func roam(f *Frame, e Enemy) {
	a, b := e.Actor, e.Brain
	if b.Timers.Ready(components.TimerBehavior) {
		wander := b.Mode == components.AIWandering
		if !b.Roll(f.Cfg.AI.RepeatChance) {
			wander = !wander
		}
		startRoaming(e, wander, f)
	}
	if b.Mode == components.AIWandering {
		a.Vel = r2.Scale(a.MoveSpeed*f.Cfg.AI.WanderSpeedFactor, b.WanderDir)
	}
}

// engage closes on the player and flags the attack state once within reach.
func engage(f *Frame, e Enemy) {
	a, b := e.Actor, e.Brain
	if distance(a.Center(), f.Player.Center()) <= f.Cfg.AI.AttackRange {
		b.Mode = components.AIAttacking
		a.SetState(components.StateAttacking)
	} else {
		b.Mode = components.AIPursuing
		if a.State == components.StateAttacking {
			a.SetState(components.StateMoving)
		}
	}
	pursue(f, e, a.MoveSpeed)
}

// pursue steers toward the player, blended with separation from nearby enemies. An incoming
// player projectile takes priority and triggers a sidestep.
func pursue(f *Frame, e Enemy, speed float64) {
	a := e.Actor
	if dodge(f, e) {
		return
	}
	to, ok := unit(r2.Sub(f.Player.Center(), a.Center()))
	if !ok {
		return
	}
	steer := r2.Add(to, r2.Scale(f.Cfg.AI.SeparationStrength, separation(f, e)))
	if dir, ok := unit(steer); ok {
		a.Vel = r2.Scale(speed, dir)
	}
}

// separation sums inverse-distance pushes away from enemies inside the separation radius, plus
// a tangential component so crowds slide around each other instead of stacking.
func separation(f *Frame, e Enemy) r2.Vec {
	a, b := e.Actor, e.Brain
	radius := b.SeparationRadius
	if radius <= 0 {
		return r2.Vec{}
	}
	var push r2.Vec
	c := a.Center()
	for _, o := range f.neighbors(c, radius, a.ID) {
		if !o.Archetype.IsEnemy() {
			continue
		}
		d := r2.Sub(c, o.Center())
		dist := r2.Norm(d)
		if dist < epsilon {
			// Coincident centers: split along x by id
			d = r2.Vec{X: 1}
			if a.ID < o.ID {
				d.X = -1
			}
			dist = radius / 2
		} else {
			d = r2.Scale(1/dist, d)
		}
		w := radius/dist - 1
		sign := 1.0
		if a.ID < o.ID {
			sign = -1
		}
		push = r2.Add(push, r2.Scale(w, d))
		push = r2.Add(push, r2.Scale(w*f.Cfg.AI.TangentialFactor*sign, perp(d)))
	}
	return push
}

// dodge keeps an active sidestep going, or starts one when a player projectile is predicted to
// cross the enemy's bounds within the lookahead window.
func dodge(f *Frame, e Enemy) bool {
	a, b := e.Actor, e.Brain
	ai := f.Cfg.AI
	if !b.Timers.Ready(components.TimerEvade) {
		a.Vel = r2.Scale(a.MoveSpeed*ai.DodgeSpeedFactor, b.DodgeDir)
		return true
	}
	if !b.Timers.Ready(components.TimerDodge) {
		return false
	}
	c := a.Center()
	for _, shot := range f.Projectiles {
		p := shot.Actor
		if p.IsDead() || shot.Proj.Spent || !shot.Proj.Faction.Opposes(a.Faction) {
			continue
		}
		if distance(p.Center(), c) > ai.DodgeScanRadius || !threatens(p, a, ai.DodgeLookahead) {
			continue
		}
		heading, ok := unit(p.Vel)
		if !ok {
			continue
		}
		side := perp(heading)
		if r2.Dot(side, r2.Sub(c, p.Center())) < 0 {
			side = r2.Scale(-1, side)
		}
		b.DodgeDir = side
		b.Timers.Set(components.TimerEvade, ai.DodgeDuration)
		b.Timers.Set(components.TimerDodge, ai.DodgeCooldown)
		a.Vel = r2.Scale(a.MoveSpeed*ai.DodgeSpeedFactor, side)
		return true
	}
	return false
}

// threatens predicts both actors lookahead seconds ahead and tests whether the projectile's
// path meets the target's predicted bounds.
func threatens(p, target *components.Actor, lookahead float64) bool {
	from := p.Center()
	to := r2.Add(from, r2.Scale(lookahead, p.Vel))
	box := expand(target.WorldBounds().Translate(r2.Scale(lookahead, target.Vel)), p.Bounds)
	return box.Contains(to) || segmentHitsRectEdges(from, to, box)
}

// chaser is the generic melee brain: roam until the player is noticed, then close in.
type chaser struct{}

func (chaser) Decide(f *Frame, e Enemy) {
	decide(f, e)
	if engaged(e.Brain) && f.PlayerAlive() {
		engage(f, e)
		return
	}
	roam(f, e)
}

// rangedBehavior keeps a preferred distance and shoots from inside its attack band.
type rangedBehavior struct{}

func (rangedBehavior) Decide(f *Frame, e Enemy) {
	a, b := e.Actor, e.Brain
	rc := f.Cfg.Ranged
	if f.PlayerAlive() && b.Timers.Ready(components.TimerSpecial) &&
		distance(a.Center(), f.Player.Center()) <= rc.EscapeDistance && escape(f, e) {
		return
	}

	decide(f, e)
	if !engaged(b) || !f.PlayerAlive() {
		roam(f, e)
		return
	}

	away := r2.Sub(a.Center(), f.Player.Center())
	dist := r2.Norm(away)
	switch {
	case dist < rc.RetreatDistance:
		dir, ok := unit(away)
		if !ok {
			dir = r2.Vec{X: 1}
		}
		b.Mode = components.AIPursuing
		a.SetState(components.StateMoving)
		a.Vel = r2.Scale(a.MoveSpeed, dir)
	case dist > rc.AttackRange:
		b.Mode = components.AIPursuing
		if a.State == components.StateAttacking {
			a.SetState(components.StateMoving)
		}
		pursue(f, e, a.MoveSpeed)
	default:
		b.Mode = components.AIAttacking
		a.SetState(components.StateAttacking)
		a.Vel = r2.Vec{}
		if b.Timers.Ready(components.TimerAttack) {
			if _, ok := fireAt(f, a, f.Player, ShotSpec{Speed: rc.ProjectileSpeed, Damage: rc.ProjectileDamage}); ok {
				b.Timers.Set(components.TimerAttack, rc.FireCooldown)
			}
		}
	}
}

// escape teleports the ranged enemy away from a player who got too close.
func escape(f *Frame, e Enemy) bool {
	a, b := e.Actor, e.Brain
	rc := f.Cfg.Ranged
	pos, ok := f.FindPositionNear(a.Pos, rc.EscapeMinRadius, rc.EscapeMaxRadius, f.Player.Pos, rc.RetreatDistance)
	if !ok {
		return false
	}
	f.Effects.glow(a.Center(), a.Archetype)
	a.Pos = pos
	a.Vel = r2.Vec{}
	b.Timers.Set(components.TimerSpecial, rc.EscapeCooldown)
	b.Mode = components.AIPursuing
	f.gridDirty = true
	return true
}

// turretBehavior never moves and cannot be damaged; it fires at the player inside its range.
type turretBehavior struct{}

func (turretBehavior) Decide(f *Frame, e Enemy) {
	a, b := e.Actor, e.Brain
	tc := f.Cfg.Turret
	a.Vel = r2.Vec{}
	if !playerInRange(f, a, tc.Range) {
		b.Mode = components.AIIdle
		a.SetState(components.StateIdle)
		return
	}
	b.Mode = components.AIAttacking
	a.SetState(components.StateAttacking)
	if !b.Timers.Ready(components.TimerAttack) {
		return
	}
	spec := ShotSpec{
		Speed:    tc.ProjectileSpeed,
		Damage:   tc.ProjectileDamage,
		Guided:   tc.Guided,
		TurnRate: tc.TurnRate,
	}
	if _, ok := fireAt(f, a, f.Player, spec); ok {
		b.Timers.Set(components.TimerAttack, tc.FireCooldown)
	}
}

func (turretBehavior) FilterDamage(*Frame, Enemy, float64) float64 { return 0 }

// tunnelerBehavior is the boss: it burrows when the player closes in, resurfaces elsewhere,
// fires from a magazine and sheds drones once badly hurt.
type tunnelerBehavior struct{}

func (tunnelerBehavior) Decide(f *Frame, e Enemy) {
	a, b := e.Actor, e.Brain
	tc := f.Cfg.Tunneler
	if b.Hidden {
		a.Vel = r2.Vec{}
		if b.Timers.Ready(components.TimerPhase) {
			resurface(f, e)
		}
		return
	}
	if b.Timers.Ready(components.TimerSpecial) && playerInRange(f, a, tc.TriggerRange) {
		burrow(f, e)
		return
	}

	decide(f, e)
	if engaged(b) && f.PlayerAlive() {
		engage(f, e)
	} else {
		roam(f, e)
	}
	magazine(f, e)
}

func burrow(f *Frame, e Enemy) {
	a, b := e.Actor, e.Brain
	tc := f.Cfg.Tunneler
	f.Effects.explosion(a.Center(), r2.Norm(r2.Vec{X: a.Bounds.W, Y: a.Bounds.H}))
	b.Hidden = true
	b.Mode = components.AITunneling
	b.Timers.Set(components.TimerPhase, tc.Duration)
	b.Timers.Set(components.TimerSpecial, tc.Cooldown)
	a.Collidable = false
	a.Vel = r2.Vec{}
	a.SetState(components.StateTunneling)
	f.gridDirty = true
}

func resurface(f *Frame, e Enemy) {
	a, b := e.Actor, e.Brain
	tc := f.Cfg.Tunneler
	avoid := a.Pos
	if f.PlayerAlive() {
		avoid = f.Player.Pos
	}
	if pos, ok := f.FindPositionNear(a.Pos, tc.MinRadius, tc.MaxRadius, avoid, tc.AvoidRadius); ok {
		a.Pos = pos
	} else {
		a.Pos = f.WorldBounds().Clamp(a.Pos, f.Cfg.Spawn.EdgeMargin)
	}
	b.Hidden = false
	b.Mode = components.AIPursuing
	a.Collidable = true
	a.SetState(components.StateIdle)
	f.gridDirty = true
	f.Effects.explosion(a.Center(), r2.Norm(r2.Vec{X: a.Bounds.W, Y: a.Bounds.H}))
	f.Effects.shake(6, 0.25)

	if b.Roll(tc.TurretChance) {
		spawnCluster(f, e, components.ArchTurret, tc.TurretCount, tc.TurretSpread)
	}
}

// magazine fires bursts until empty, then reloads.
func magazine(f *Frame, e Enemy) {
	a, b := e.Actor, e.Brain
	tc := f.Cfg.Tunneler
	if b.Reloading {
		if b.Timers.Ready(components.TimerReload) {
			b.Ammo = tc.MagazineSize
			b.Reloading = false
		}
		return
	}
	if b.Ammo <= 0 {
		b.Reloading = true
		b.Timers.Set(components.TimerReload, tc.ReloadTime)
		return
	}
	if !b.Timers.Ready(components.TimerAttack) || !playerInRange(f, a, tc.ShotRange) {
		return
	}
	if _, ok := fireAt(f, a, f.Player, ShotSpec{Speed: tc.ProjectileSpeed, Damage: tc.ProjectileDamage}); !ok {
		return
	}
	b.Ammo--
	b.Timers.Set(components.TimerAttack, tc.ShotInterval)
	if b.Ammo == 0 {
		b.Reloading = true
		b.Timers.Set(components.TimerReload, tc.ReloadTime)
	}
}

func (tunnelerBehavior) AfterDamage(f *Frame, e Enemy) {
	a, b := e.Actor, e.Brain
	if b.ShedDrones || a.Health >= a.MaxHealth/2 {
		return
	}
	b.ShedDrones = true
	tc := f.Cfg.Tunneler
	spawnCluster(f, e, components.ArchDrone, tc.DroneCount, tc.DroneSpread)
}

// spawnCluster places count offspring evenly around the parent.
func spawnCluster(f *Frame, e Enemy, arch components.Archetype, count int, spread float64) {
	if count <= 0 {
		return
	}
	c := e.Actor.Center()
	phase := e.Brain.Rng.Float64() * 2 * math.Pi
	for i := range count {
		angle := phase + 2*math.Pi*float64(i)/float64(count)
		pos := r2.Add(c, r2.Vec{X: math.Cos(angle) * spread, Y: math.Sin(angle) * spread})
		pos = f.WorldBounds().Clamp(pos, f.Cfg.Spawn.EdgeMargin)
		if _, ok := f.Spawner.Spawn(f, arch, SpawnOptions{Pos: &pos, Offspring: true}); !ok {
			return
		}
	}
}

// droneBehavior chases and explodes on death, hurting everything nearby.
type droneBehavior struct{ chaser }

func (droneBehavior) OnDeath(f *Frame, e Enemy, _ components.ActorID) {
	a := e.Actor
	dc := f.Cfg.Drone
	c := a.Center()
	f.Effects.explosion(c, dc.ExplosionRadius)
	f.Effects.shake(dc.ExplosionDamage/2, 0.2)

	// Own slice: chained detonations re-enter Nearby
	victims := f.Nearby(nil, c, dc.ExplosionRadius, a.ID)
	for _, v := range victims {
		if !v.Collidable || (v.Archetype != components.ArchPlayer && !v.Archetype.IsEnemy()) {
			continue
		}
		ApplyDamage(f, v, dc.ExplosionDamage, a.ID)
	}
}

// splitterBehavior chases and splits into smaller children on death. Children never split.
type splitterBehavior struct{ chaser }

func (splitterBehavior) OnDeath(f *Frame, e Enemy, _ components.ActorID) {
	dropLoot(f, e)
	a, b := e.Actor, e.Brain
	if b.IsChild {
		return
	}
	sc := f.Cfg.Splitter
	if sc.ChildCount <= 0 {
		return
	}

	axis := r2.Vec{X: 1}
	if f.Player != nil {
		if to, ok := unit(r2.Sub(f.Player.Center(), a.Center())); ok {
			axis = perp(to)
		}
	}
	opts := SpawnOptions{
		Offspring: true,
		IsChild:   true,
		MaxHealth: a.MaxHealth * sc.HealthScale,
		MoveSpeed: a.MoveSpeed * sc.SpeedScale,
		SizeScale: sc.SizeScale,
	}
	for i := range sc.ChildCount {
		// Alternate sides, widening with each pair
		side := float64(i/2+1) * sc.Offset
		if i%2 == 1 {
			side = -side
		}
		pos := r2.Add(a.Pos, r2.Scale(side, axis))
		pos = f.WorldBounds().Clamp(pos, f.Cfg.Spawn.EdgeMargin)
		opts.Pos = &pos
		if _, ok := f.Spawner.Spawn(f, components.ArchSplitter, opts); !ok {
			return
		}
	}
}
