package core

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// Rand is the randomness source of bot decisions and drops.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a generator seeded from rootSeed and label, so the same
// pair always replays the same bot behaviour.
func NewRand(rootSeed, label string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(rootSeed))
	h.Write([]byte{0})
	h.Write([]byte(label))
	sum := h.Sum64()
	if sum == 0 {
		sum = 1
	}
	return rand.New(rand.NewSource(int64(sum)))
}

// randomInt returns a value in [lo, hi].
func randomInt(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

const (
	botTargetRadius   = 480.0
	botMeleeReach     = PhysSize + 40
	botDeadZone       = 40.0
	botStandOffNear   = 448.0
	botStandOffFar    = 480.0
	botMinFireRange   = 240.0
	botHookKeepRange  = 96.0
	botHookRangeStart = 320.0
	botHookRangeEnd   = 380.0
	botLookAhead      = 48.0
)

type botState struct {
	target            int
	lastTargetPos     Vec2
	direction         int
	nextDirectionTick int
	randomPos         Vec2
	lastGroundPos     Vec2
	lastPos           Vec2
	lastVel           Vec2
}

// checkPos reports whether a solid tile sits a third of a body left or right
// of pos.
func (c *Character) checkPos(pos Vec2) bool {
	col := c.world.Col
	return col.GetCollisionAt(pos.X+PhysSize/3, pos.Y)&ColFlagSolid != 0 ||
		col.GetCollisionAt(pos.X-PhysSize/3, pos.Y)&ColFlagSolid != 0
}

// lineBlocked reports whether solid map geometry lies between a and b.
func (w *World) lineBlocked(a, b Vec2) bool {
	flags, _, _ := w.Col.IntersectLine(a, b)
	return flags != 0
}

// findTarget picks the nearest visible character in radius that is not a
// bot of the same group.
func (c *Character) findTarget(radius float64) *Character {
	w := c.world
	name := c.owner().BotData.Name
	closestRange := radius * 2
	var closest *Character
	for _, t := range w.Characters() {
		if t == c {
			continue
		}
		l := c.pos.Distance(t.pos)
		if l >= PhysSize+radius {
			continue
		}
		if tp := t.Player(); tp != nil && tp.IsBot && tp.BotData.Name == name {
			continue
		}
		if w.lineBlocked(c.pos, t.pos) {
			continue
		}
		if l < closestRange {
			closestRange = l
			closest = t
		}
	}
	return closest
}

func (c *Character) botFire(weapon int) {
	c.activeWeapon = weapon
	c.input.Fire = 1
	c.latestInput.Fire = 1
}

// doBotActions writes this tick's input for a bot character: chase or wander,
// jump over obstacles, attack and hook.
func (c *Character) doBotActions() {
	p := c.player
	if p == nil || !p.IsBot || !c.alive {
		return
	}
	w := c.world
	b := &c.bot

	oldTarget := w.CharacterByID(b.target)
	if closest := c.findTarget(botTargetRadius); closest != nil {
		if closest != oldTarget {
			b.target = closest.ClientID()
			b.lastTargetPos = closest.pos
		}
	} else {
		b.target = -1
	}

	c.input.Fire = 0
	c.latestInput.Fire = 0

	lookAhead := c.pos.Add(V(c.core.Vel.X, 0))
	if !(c.core.Vel.X > 0 && b.direction == 0) {
		lookAhead = lookAhead.Add(V(float64(b.direction)*botLookAhead, 0))
	}
	grounded := c.isGrounded()
	if c.prevInput.Jump == 0 && !c.checkPos(V(c.pos.X, c.pos.Y-32)) {
		if c.checkPos(lookAhead) && (grounded || c.pos.X != b.lastGroundPos.X) {
			c.input.Jump = 1
		} else {
			c.input.Jump = 0
		}
		if other := w.ClosestCharacter(lookAhead, 5, c); other != nil && other.owner().IsBot && grounded {
			c.input.Jump = 1
		}
	} else {
		c.input.Jump = 0
	}

	if target := w.CharacterByID(b.target); target != nil {
		c.chase(target)
	} else {
		c.wander(lookAhead)
	}

	// stacked bots split up
	if under := w.ClosestCharacter(V(c.pos.X, c.pos.Y+32), 5, c); under != nil && under.owner().IsBot {
		b.direction = -b.direction
	}
	if above := w.ClosestCharacter(V(c.pos.X, c.pos.Y-32), 5, c); above != nil && above.owner().IsBot {
		b.direction = -b.direction
	}

	if grounded {
		b.lastGroundPos = c.pos
	}
	b.lastPos = c.pos
	b.lastVel = c.core.Vel
	c.input.Direction = b.direction
}

func (c *Character) chase(target *Character) {
	w := c.world
	b := &c.bot
	data := c.owner().BotData

	if math.Abs(b.lastTargetPos.Y-target.pos.Y) > 1 {
		b.randomPos = V(float64(randomInt(w.Rand, -8, 8)), float64(randomInt(w.Rand, -8, 8)))
	} else {
		b.randomPos = V(0, 0)
	}

	dx := target.pos.X - c.pos.X
	blocked := w.lineBlocked(target.pos, c.pos)
	if data.Hammer || blocked {
		switch {
		case dx > botDeadZone:
			b.direction = 1
		case dx < -botDeadZone:
			b.direction = -1
		default:
			b.direction = 0
		}
	} else {
		// ranged bots hold a stand-off distance
		switch {
		case dx > botStandOffNear:
			b.direction = 1
		case dx < -botStandOffNear:
			b.direction = -1
		case dx < botStandOffFar && dx > 0:
			b.direction = -1
		case dx > -botStandOffFar && dx < 0:
			b.direction = 1
		default:
			b.direction = 0
		}
	}

	dist := target.pos.Distance(c.pos)
	if data.Hammer {
		if dist < botMeleeReach && randomInt(w.Rand, 1, 100) <= data.AttackProba {
			c.botFire(WeaponHammer)
		}
	} else if data.Gun {
		if dist > botMinFireRange && !blocked && randomInt(w.Rand, 1, 100) <= data.AttackProba {
			c.botFire(WeaponGun)
			b.randomPos = V(float64(randomInt(w.Rand, -16, 16)), float64(randomInt(w.Rand, -16, 16)))
		}
	}

	if data.Hook {
		if (!blocked && c.core.HookedPlayer == target.ClientID() && dist > botHookKeepRange) ||
			(dist > botHookRangeStart && dist < botHookRangeEnd) {
			c.input.Hook = 1
			b.randomPos = V(float64(randomInt(w.Rand, -8, 8)), float64(randomInt(w.Rand, -8, 8)))
			if data.Gun {
				c.botFire(WeaponGun)
				b.randomPos = V(float64(randomInt(w.Rand, -16, 16)), float64(randomInt(w.Rand, -16, 16)))
			}
		} else {
			c.input.Hook = 0
		}
	}

	c.input.TargetX = int(target.pos.X - c.pos.X + b.randomPos.X)
	c.input.TargetY = int(target.pos.Y - c.pos.Y + b.randomPos.Y)
	c.latestInput.TargetX = c.input.TargetX
	c.latestInput.TargetY = c.input.TargetY
	b.lastTargetPos = target.pos
}

func (c *Character) wander(lookAhead Vec2) {
	w := c.world
	b := &c.bot
	last := b.direction
	grounded := c.isGrounded()

	// turn back at a ledge we already stood on
	if grounded && !c.checkPos(V(b.lastPos.X, b.lastPos.Y+PhysSize/2+5)) {
		if c.pos.Distance(b.lastGroundPos) < 2 {
			b.direction = -last
		}
	}

	if w.CurrentTick >= b.nextDirectionTick ||
		(w.CurrentTick >= b.nextDirectionTick-150 && c.checkPos(lookAhead)) {
		if c.input.Jump == 0 && grounded {
			if randomInt(w.Rand, 0, 1) == 1 && b.direction != 0 {
				b.direction = -last
			} else {
				b.direction = randomInt(w.Rand, -1, 1)
			}
		}
		if b.direction != 0 {
			b.nextDirectionTick = w.CurrentTick + w.TickSpeed*randomInt(w.Rand, 2, 6)
		} else {
			b.nextDirectionTick = w.CurrentTick + w.TickSpeed
		}
	}

	aim := b.direction
	if aim == 0 {
		aim = last
	}
	c.input.TargetX = aim
	c.input.TargetY = 0
	c.latestInput.TargetX = c.input.TargetX
	c.latestInput.TargetY = c.input.TargetY
}
