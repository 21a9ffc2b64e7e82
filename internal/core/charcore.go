package core

import "math"

// PhysSize is the diameter of a character's collision box.
const PhysSize = 28.0

// Hook states.
const (
	HookRetracted    = -1
	HookIdle         = 0
	HookRetractStart = 1
	HookRetractEnd   = 3
	HookFlying       = 4
	HookGrabbed      = 5
)

// Core events raised during CharacterCore.Tick.
const (
	CoreEventGroundJump       = 0x01
	CoreEventAirJump          = 0x02
	CoreEventHookLaunch       = 0x04
	CoreEventHookAttachPlayer = 0x08
	CoreEventHookAttachGround = 0x10
	CoreEventHookHitNoHook    = 0x20
	CoreEventHookRetract      = 0x40
)

// maxHookTicks is how long a player can stay hooked to another player.
const maxHookTicks = 50 + 50/5

// WorldCore is the table of live physics cores that characters interact
// with (collision and hooking), indexed by client id.
type WorldCore struct {
	Characters [MaxClients]*CharacterCore
	Tuning     TuningParams
}

// CharacterCore is the deterministic physics state shared with the client
// predictor. Everything in it survives a Write/Read round trip after
// Quantize.
type CharacterCore struct {
	world *WorldCore
	col   Collision

	Pos          Vec2
	Vel          Vec2
	HookPos      Vec2
	HookDir      Vec2
	HookTick     int
	HookState    int
	HookedPlayer int
	Jumped       int
	JumpedTotal  int
	MaxJumps     int
	Direction    int
	Angle        int
	Input        PlayerInput

	TriggeredEvents int
}

func (c *CharacterCore) Reset() {
	*c = CharacterCore{
		world:        c.world,
		col:          c.col,
		HookState:    HookIdle,
		HookedPlayer: -1,
		MaxJumps:     2,
	}
}

func (c *CharacterCore) Init(world *WorldCore, col Collision) {
	c.world = world
	c.col = col
}

func (c *CharacterCore) grounded() bool {
	return c.col.CheckPoint(c.Pos.X+PhysSize/2, c.Pos.Y+PhysSize/2+5) ||
		c.col.CheckPoint(c.Pos.X-PhysSize/2, c.Pos.Y+PhysSize/2+5)
}

// Tick advances velocity, jump and hook state by one tick. Position is only
// changed by Move.
func (c *CharacterCore) Tick(useInput bool, t *TuningParams) {
	c.TriggeredEvents = 0

	grounded := c.grounded()
	targetDir := V(float64(c.Input.TargetX), float64(c.Input.TargetY)).Normalize()

	c.Vel.Y += t.Gravity

	maxSpeed, accel, friction := t.AirControlSpeed, t.AirControlAccel, t.AirFriction
	if grounded {
		maxSpeed, accel, friction = t.GroundControlSpeed, t.GroundControlAccel, t.GroundFriction
	}

	if useInput {
		c.Direction = c.Input.Direction

		var a float64
		if c.Input.TargetX == 0 {
			a = math.Atan(float64(c.Input.TargetY))
		} else {
			a = math.Atan(float64(c.Input.TargetY) / float64(c.Input.TargetX))
		}
		if c.Input.TargetX < 0 {
			a += math.Pi
		}
		c.Angle = int(a * 256)

		if c.Input.Jump != 0 {
			if c.Jumped&1 == 0 {
				if grounded {
					c.TriggeredEvents |= CoreEventGroundJump
					c.Vel.Y = -t.GroundJumpImpulse
					c.Jumped |= 1
					c.JumpedTotal++
				} else if c.Jumped&2 == 0 {
					c.TriggeredEvents |= CoreEventAirJump
					c.Vel.Y = -t.AirJumpImpulse
					c.Jumped |= 3
					c.JumpedTotal++
				}
			}
		} else {
			c.Jumped &^= 1
		}

		if c.Input.Hook != 0 {
			if c.HookState == HookIdle {
				c.HookState = HookFlying
				c.HookPos = c.Pos.Add(targetDir.Scale(PhysSize * 1.5))
				c.HookDir = targetDir
				c.HookedPlayer = -1
				c.HookTick = 0
				c.TriggeredEvents |= CoreEventHookLaunch
			}
		} else {
			c.HookedPlayer = -1
			c.HookState = HookIdle
			c.HookPos = c.Pos
		}
	}

	switch {
	case c.Direction < 0:
		c.Vel.X = saturatedAdd(-maxSpeed, maxSpeed, c.Vel.X, -accel)
	case c.Direction > 0:
		c.Vel.X = saturatedAdd(-maxSpeed, maxSpeed, c.Vel.X, accel)
	default:
		c.Vel.X *= friction
	}

	if grounded {
		c.Jumped &^= 2
		c.JumpedTotal = 0
	}

	c.tickHook(t)
	c.tickPlayerInteraction(t)

	if c.Vel.Length() > 6000 {
		c.Vel = c.Vel.Normalize().Scale(6000)
	}
}

func (c *CharacterCore) tickHook(t *TuningParams) {
	switch {
	case c.HookState == HookIdle:
		c.HookedPlayer = -1
		c.HookPos = c.Pos
	case c.HookState >= HookRetractStart && c.HookState < HookRetractEnd:
		c.HookState++
	case c.HookState == HookRetractEnd:
		c.HookState = HookRetracted
		c.TriggeredEvents |= CoreEventHookRetract
	case c.HookState == HookFlying:
		newPos := c.HookPos.Add(c.HookDir.Scale(t.HookFireSpeed))
		if c.Pos.Distance(newPos) > t.HookLength {
			c.HookState = HookRetractStart
			newPos = c.Pos.Add(newPos.Sub(c.Pos).Normalize().Scale(t.HookLength))
		}

		hitGround, retract := false, false
		if hit, at, _ := c.col.IntersectLine(c.HookPos, newPos); hit != 0 {
			newPos = at
			if hit&ColFlagNoHook != 0 {
				retract = true
			} else {
				hitGround = true
			}
		}

		if c.world != nil && t.PlayerHooking {
			best := 0.0
			for i, other := range c.world.Characters {
				if other == nil || other == c {
					continue
				}
				closest := closestPointOnLine(c.HookPos, newPos, other.Pos)
				if other.Pos.Distance(closest) < PhysSize+2 {
					if c.HookedPlayer == -1 || c.HookPos.Distance(other.Pos) < best {
						c.TriggeredEvents |= CoreEventHookAttachPlayer
						c.HookState = HookGrabbed
						c.HookedPlayer = i
						best = c.HookPos.Distance(other.Pos)
					}
				}
			}
		}

		if c.HookState == HookFlying {
			if hitGround {
				c.TriggeredEvents |= CoreEventHookAttachGround
				c.HookState = HookGrabbed
			} else if retract {
				c.TriggeredEvents |= CoreEventHookHitNoHook
				c.HookState = HookRetractStart
			}
			c.HookPos = newPos
		}
	}

	if c.HookState != HookGrabbed {
		return
	}
	if c.HookedPlayer != -1 {
		if other := c.hooked(); other != nil {
			c.HookPos = other.Pos
		} else {
			c.releaseHook()
		}
	}

	if c.HookedPlayer == -1 && c.HookPos.Distance(c.Pos) > 46 {
		hookVel := c.HookPos.Sub(c.Pos).Normalize().Scale(t.HookDragAccel)
		if hookVel.Y > 0 {
			hookVel.Y *= 0.3
		}
		if (hookVel.X < 0 && c.Direction < 0) || (hookVel.X > 0 && c.Direction > 0) {
			hookVel.X *= 0.95
		} else {
			hookVel.X *= 0.75
		}
		newVel := c.Vel.Add(hookVel)
		if newVel.Length() < t.HookDragSpeed || newVel.Length() < c.Vel.Length() {
			c.Vel = newVel
		}
	}

	c.HookTick++
	if c.HookedPlayer != -1 && (c.HookTick > maxHookTicks || c.hooked() == nil) {
		c.releaseHook()
	}
}

func (c *CharacterCore) hooked() *CharacterCore {
	if c.world == nil || c.HookedPlayer < 0 || c.HookedPlayer >= MaxClients {
		return nil
	}
	return c.world.Characters[c.HookedPlayer]
}

func (c *CharacterCore) releaseHook() {
	c.HookedPlayer = -1
	c.HookState = HookRetracted
	c.HookPos = c.Pos
}

func (c *CharacterCore) tickPlayerInteraction(t *TuningParams) {
	if c.world == nil {
		return
	}
	for i, other := range c.world.Characters {
		if other == nil || other == c {
			continue
		}
		dist := c.Pos.Distance(other.Pos)
		dir := c.Pos.Sub(other.Pos).Normalize()

		if t.PlayerCollision && dist < PhysSize*1.25 && dist > 0 {
			a := PhysSize*1.45 - dist
			velocity := 0.5
			if c.Vel.Length() > 0.0001 {
				velocity = 1 - (c.Vel.Normalize().Dot(dir)+1)/2
			}
			c.Vel = c.Vel.Add(dir.Scale(a * velocity * 0.75)).Scale(0.85)
		}

		if c.HookedPlayer == i && t.PlayerHooking && dist > PhysSize*1.5 {
			accel := t.HookDragAccel * (dist / t.HookLength)
			drag := t.HookDragSpeed
			other.Vel.X = saturatedAdd(-drag, drag, other.Vel.X, accel*dir.X*1.5)
			other.Vel.Y = saturatedAdd(-drag, drag, other.Vel.Y, accel*dir.Y*1.5)
			c.Vel.X = saturatedAdd(-drag, drag, c.Vel.X, -accel*dir.X*0.25)
			c.Vel.Y = saturatedAdd(-drag, drag, c.Vel.Y, -accel*dir.Y*0.25)
		}
	}
}

// Move applies velocity to position through the collision map and other
// characters.
func (c *CharacterCore) Move(t *TuningParams) {
	ramp := velocityRamp(c.Vel.Length()*50, t.VelrampStart, t.VelrampRange, t.VelrampCurvature)
	c.Vel.X *= ramp

	newPos := c.Pos
	c.col.MoveBox(&newPos, &c.Vel, V(PhysSize, PhysSize), 0)
	c.Vel.X *= 1 / ramp

	if c.world != nil && t.PlayerCollision {
		dist := c.Pos.Distance(newPos)
		end := int(dist + 1)
		last := c.Pos
		for i := 0; i < end; i++ {
			a := 0.0
			if dist > 0 {
				a = float64(i) / dist
			}
			pos := Mix(c.Pos, newPos, a)
			for _, other := range c.world.Characters {
				if other == nil || other == c {
					continue
				}
				d := pos.Distance(other.Pos)
				if d < PhysSize && d > 0 {
					if a > 0 {
						c.Pos = last
					} else if newPos.Distance(other.Pos) > d {
						c.Pos = newPos
					}
					return
				}
			}
			last = pos
		}
	}
	c.Pos = newPos
}

// Write stores the wire form of the core into r.
func (c *CharacterCore) Write(r *CharacterRecord) {
	r.X = roundToInt(c.Pos.X)
	r.Y = roundToInt(c.Pos.Y)
	r.VelX = roundToInt(c.Vel.X * 256)
	r.VelY = roundToInt(c.Vel.Y * 256)
	r.HookState = c.HookState
	r.HookTick = c.HookTick
	r.HookX = roundToInt(c.HookPos.X)
	r.HookY = roundToInt(c.HookPos.Y)
	r.HookDx = roundToInt(c.HookDir.X * 256)
	r.HookDy = roundToInt(c.HookDir.Y * 256)
	r.HookedPlayer = c.HookedPlayer
	r.Jumped = c.Jumped
	r.Direction = c.Direction
	r.Angle = c.Angle
}

// Read loads the wire form back into the core.
func (c *CharacterCore) Read(r *CharacterRecord) {
	c.Pos = V(float64(r.X), float64(r.Y))
	c.Vel = V(float64(r.VelX)/256, float64(r.VelY)/256)
	c.HookState = r.HookState
	c.HookTick = r.HookTick
	c.HookPos = V(float64(r.HookX), float64(r.HookY))
	c.HookDir = V(float64(r.HookDx)/256, float64(r.HookDy)/256)
	c.HookedPlayer = r.HookedPlayer
	c.Jumped = r.Jumped
	c.Direction = r.Direction
	c.Angle = r.Angle
}

// Quantize rounds the core to exactly what a client can reconstruct.
func (c *CharacterCore) Quantize() {
	var r CharacterRecord
	c.Write(&r)
	c.Read(&r)
}

func velocityRamp(value, start, rng, curvature float64) float64 {
	if value < start {
		return 1
	}
	return 1 / math.Pow(curvature, (value-start)/rng)
}

func saturatedAdd(min, max, current, modifier float64) float64 {
	if modifier < 0 {
		if current < min {
			return current
		}
		current += modifier
		if current < min {
			current = min
		}
		return current
	}
	if current > max {
		return current
	}
	current += modifier
	if current > max {
		current = max
	}
	return current
}
