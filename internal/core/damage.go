package core

// DamageResult is the outcome of a TakeDamage call.
type DamageResult int

const (
	// DamageAbsorbed means the hit was ignored: friendly fire between bots
	// of one group, or the character was already dead.
	DamageAbsorbed DamageResult = iota
	DamageSurvived
	DamageDied
)

// TakeDamage applies a hit of dmg points from client from (-1 for none).
// Armor soaks damage before health, except that any armored hit above one
// point always costs one health.
func (c *Character) TakeDamage(force Vec2, dmg, from, weapon int) DamageResult {
	if !c.alive {
		return DamageAbsorbed
	}
	w := c.world
	p := c.owner()

	fromPlayer := w.Player(from)
	if fromPlayer != nil && fromPlayer.IsBot && p.IsBot && !fromPlayer.BotData.TeamDamage &&
		fromPlayer.BotData.Name == p.BotData.Name {
		return DamageAbsorbed
	}

	c.core.Vel = c.core.Vel.Add(force)

	if from == c.ClientID() {
		dmg = max(1, dmg/2)
	}

	c.damageTaken++
	if w.CurrentTick < c.damageTakenTick+25 {
		// keep simultaneous indicators from stacking on one angle
		w.createDamageInd(c.pos, float64(c.damageTaken)*0.25, dmg)
	} else {
		c.damageTaken = 0
		w.createDamageInd(c.pos, 0, dmg)
	}

	if dmg > 0 {
		if c.armor > 0 {
			if dmg > 1 {
				c.health--
				dmg--
			}
			if dmg > c.armor {
				dmg -= c.armor
				c.armor = 0
			} else {
				c.armor -= dmg
				dmg = 0
			}
		}
		c.health -= dmg
	}

	c.damageTakenTick = w.CurrentTick

	if from >= 0 && from != c.ClientID() && fromPlayer != nil {
		mask := MaskOne(from)
		for _, sp := range w.players {
			if sp != nil && sp.Team == TeamSpectators && sp.SpectatorID == from {
				mask = mask.With(sp.ClientID)
			}
		}
		w.createSound(fromPlayer.ViewPos, SoundHit, mask)
	}

	if c.health <= 0 {
		if from >= 0 && from != c.ClientID() && fromPlayer != nil {
			if killer := fromPlayer.Character(); killer != nil {
				killer.SetEmote(EmoteHappy, w.CurrentTick+w.TickSpeed)
			}
		}
		if p.IsBot && fromPlayer != nil && !fromPlayer.IsBot {
			w.Controller.CreatePickup(c.pos, force.Normalize(), p.BotData)
		}
		c.Die(from, weapon)
		return DamageDied
	}

	if dmg > 2 {
		w.createSound(c.pos, SoundPlayerPainLong, MaskAll())
	} else {
		w.createSound(c.pos, SoundPlayerPainShort, MaskAll())
	}
	c.SetEmote(EmotePain, w.CurrentTick+500*w.TickSpeed/1000)
	return DamageSurvived
}

// Die kills the character: scoring, kill message, death effects and removal
// from the world. Bots lose their player slot as well.
func (c *Character) Die(killer, weapon int) {
	if !c.alive {
		return
	}
	w := c.world
	p := c.owner()

	p.RespawnTick = w.CurrentTick + w.TickSpeed/2
	killerPlayer := w.Player(killer)
	special := w.Controller.OnCharacterDeath(c, killerPlayer, weapon)

	if killerPlayer != nil && !killerPlayer.IsBot {
		msgWeapon := WeaponGame
		if killer != c.ClientID() {
			msgWeapon = weapon
			if weapon >= 0 {
				msgWeapon = w.Weapons.showType(weapon)
			}
		}
		w.Log.Debug("kill", "killer", killer, "killer_name", killerPlayer.Name,
			"victim", c.ClientID(), "victim_name", p.Name, "weapon", weapon, "special", special)
		w.Events.KillMessage(KillMessage{
			Killer:      killer,
			Victim:      c.ClientID(),
			Weapon:      msgWeapon,
			ModeSpecial: special,
		})
		p.CloseMenu()
	}

	w.createSound(c.pos, SoundPlayerDie, MaskAll())
	p.DieTick = w.CurrentTick

	c.alive = false
	w.removeCharacter(c)
	w.createDeath(c.pos, c.ClientID())

	if p.IsBot {
		w.OnBotDead(c.ClientID())
	}
}
