package core

// maxSaneEdges bounds the switch edges accepted in one input.
const maxSaneEdges = 128

// resolveWantedWeapon walks next presses forward and prev presses backward
// through the possessed weapons, starting from the queued weapon or the
// active one. A direct selection (1-based, 0 for none) overrides cycling.
func resolveWantedWeapon(active, queued, next, prev, direct int, got [NumWeapons]bool) int {
	wanted := active
	if queued != -1 {
		wanted = queued
	}

	owned := 0
	for _, g := range got {
		if g {
			owned++
		}
	}

	if owned > 0 && next < maxSaneEdges {
		for next > 0 {
			wanted = (wanted + 1) % NumWeapons
			if got[wanted] {
				next--
			}
		}
	}
	if owned > 0 && prev < maxSaneEdges {
		for prev > 0 {
			wanted--
			if wanted < 0 {
				wanted = NumWeapons - 1
			}
			if got[wanted] {
				prev--
			}
		}
	}

	if direct != 0 {
		wanted = direct - 1
	}
	return wanted
}

func (c *Character) possessed() [NumWeapons]bool {
	var got [NumWeapons]bool
	for i, s := range c.weapons {
		got[i] = s.Got
	}
	return got
}

func (c *Character) handleWeaponSwitch() {
	p := c.owner()
	next := CountInput(c.latestPrevInput.NextWeapon, c.latestInput.NextWeapon).Presses
	prev := CountInput(c.latestPrevInput.PrevWeapon, c.latestInput.PrevWeapon).Presses

	if p.menu.open {
		if next > 0 && next < maxSaneEdges {
			p.menu.line++
			p.menu.needUpdate = true
			p.menu.closeTick = p.menuCloseTicks()
		}
		if prev > 0 && prev < maxSaneEdges {
			p.menu.line--
			p.menu.needUpdate = true
			p.menu.closeTick = p.menuCloseTicks()
		}
		return
	}

	wanted := resolveWantedWeapon(c.activeWeapon, c.queuedWeapon, next, prev, c.latestInput.WantedWeapon, c.possessed())
	if wanted >= 0 && wanted < NumWeapons && wanted != c.activeWeapon && c.weapons[wanted].Got {
		c.queuedWeapon = wanted
	}
	c.doWeaponSwitch()
}

func (c *Character) doWeaponSwitch() {
	if c.reloadTimer != 0 || c.queuedWeapon == -1 {
		return
	}
	c.setWeapon(c.queuedWeapon)
}

func (c *Character) setWeapon(w int) {
	if w == c.activeWeapon {
		return
	}
	c.lastWeapon = c.activeWeapon
	c.queuedWeapon = -1
	c.activeWeapon = w
	c.world.createSound(c.pos, SoundWeaponSwitch, MaskAll())

	if c.activeWeapon < 0 || c.activeWeapon >= NumWeapons {
		c.activeWeapon = 0
	}
}

// fullAuto reports whether holding fire keeps shooting.
func (c *Character) fullAuto() bool {
	switch c.activeWeapon {
	case WeaponShotgun, WeaponGrenade, WeaponRifle:
		return true
	}
	return c.owner().IsBot
}

func (c *Character) fireWeapon() {
	w := c.world
	p := c.owner()
	if c.reloadTimer != 0 || c.frozen() {
		return
	}

	c.doWeaponSwitch()
	dir := V(float64(c.latestInput.TargetX), float64(c.latestInput.TargetY)).Normalize()

	willFire := CountInput(c.latestPrevInput.Fire, c.latestInput.Fire).Presses > 0
	if c.fullAuto() && c.latestInput.Fire&1 != 0 && c.weapons[c.activeWeapon].Ammo != 0 {
		willFire = true
	}
	if !willFire {
		return
	}

	if p.menu.open {
		w.createSoundGlobal(SoundWeaponNoAmmo, c.ClientID())
		return
	}

	if c.weapons[c.activeWeapon].Ammo == 0 && !p.IsBot {
		// 125ms is as fast as a human can click
		c.reloadTimer = 125 * w.TickSpeed / 1000
		if c.lastNoAmmoSound+w.TickSpeed <= w.CurrentTick {
			w.createSound(c.pos, SoundWeaponNoAmmo, MaskAll())
			c.lastNoAmmoSound = w.CurrentTick
		}
		return
	}

	weapon := w.Weapons.Get(c.activeWeapon)
	if weapon == nil {
		return
	}

	projStart := c.pos.Add(dir.Scale(PhysSize * 0.75))
	if c.activeWeapon == WeaponHammer || c.activeWeapon == WeaponNinja {
		c.ninja.hits = c.ninja.hits[:0]
	}

	weapon.Fire(w, c.ClientID(), dir, projStart)
	c.attackTick = w.CurrentTick

	if c.weapons[c.activeWeapon].Ammo > 0 && !p.IsBot {
		c.onWeaponFire(c.activeWeapon)
	}
	if c.reloadTimer == 0 {
		c.reloadTimer = weapon.FireDelay() * w.TickSpeed / 1000
	}
}

func (c *Character) handleWeapons() {
	c.handleNinja()

	if c.reloadTimer > 0 {
		c.reloadTimer--
		return
	}
	c.fireWeapon()
}

func (c *Character) alreadyHit(t *Character) bool {
	for _, ref := range c.ninja.hits {
		if ref == t.ref {
			return true
		}
	}
	return false
}

// handleNinja moves a dashing character and damages everything it passes,
// each target at most once per dash.
func (c *Character) handleNinja() {
	if c.activeWeapon != WeaponNinja {
		return
	}
	w := c.world

	c.ninja.currentMoveTime--
	if c.ninja.currentMoveTime == 0 {
		c.core.Vel = c.ninja.activationDir.Scale(c.ninja.oldVelAmount)
	}
	if c.ninja.currentMoveTime <= 0 {
		return
	}

	c.core.Vel = c.ninja.activationDir.Scale(ninjaVelocity)
	oldPos := c.core.Pos
	w.Col.MoveBox(&c.core.Pos, &c.core.Vel, V(PhysSize, PhysSize), 0)
	c.core.Vel = V(0, 0)

	dir := c.core.Pos.Sub(oldPos)
	radius := PhysSize * 2
	center := oldPos.Add(dir.Scale(0.5))
	damage := 0
	if wp := w.Weapons.Get(WeaponNinja); wp != nil {
		damage = wp.Damage()
	}
	for _, t := range w.FindCharacters(center, radius) {
		if t == c || c.alreadyHit(t) {
			continue
		}
		if t.pos.Distance(c.core.Pos) > radius {
			continue
		}
		w.createSound(t.pos, SoundNinjaHit, MaskAll())
		if len(c.ninja.hits) < maxNinjaHits {
			c.ninja.hits = append(c.ninja.hits, t.ref)
		}
		t.TakeDamage(V(0, -10), damage, c.ClientID(), WeaponNinja)
	}
}
