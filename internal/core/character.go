package core

// WeaponSlot is one weapon kind in a character's loadout. Ammo -1 means
// unlimited.
type WeaponSlot struct {
	Ammo int
	Got  bool
}

const maxNinjaHits = 10

type ninjaState struct {
	activationTick  int
	currentMoveTime int
	activationDir   Vec2
	oldVelAmount    float64
	hits            []CharacterRef
}

// Character is the physical body of a player. It is created on spawn and
// never reused after death; the player spawns a new one.
type Character struct {
	world  *World
	player *Player
	ref    CharacterRef

	alive     bool
	pos       Vec2
	health    int
	armor     int
	maxHealth int

	weapons         [NumWeapons]WeaponSlot
	loadout         [NumWeapons]bool // owned without an item: spawn weapon, ninja
	activeWeapon    int
	lastWeapon      int
	queuedWeapon    int
	reloadTimer     int
	attackTick      int
	lastNoAmmoSound int

	freezeStartTick int
	freezeEndTick   int
	emoteType       int
	emoteStop       int
	lastAction      int
	damageTaken     int
	damageTakenTick int
	nextDmgTick     int
	sitTick         int
	numInputs       int

	input           PlayerInput
	prevInput       PlayerInput
	latestInput     PlayerInput
	latestPrevInput PlayerInput

	core          CharacterCore
	sendCore      CharacterCore
	reckoningCore CharacterCore
	reckoningTick int

	ninja ninjaState
	bot   botState
}

func newCharacter(w *World) *Character {
	return &Character{
		world:     w,
		maxHealth: 10,
		ref:       CharacterRef{ID: -1},
	}
}

func (c *Character) Spawn(p *Player, pos Vec2) bool {
	w := c.world
	c.emoteStop = -1
	c.lastAction = -1
	c.lastNoAmmoSound = -1
	if p.IsBot && p.BotData.Gun {
		c.activeWeapon = WeaponGun
	} else {
		c.activeWeapon = WeaponHammer
	}
	c.lastWeapon = c.activeWeapon
	c.queuedWeapon = -1
	c.loadout = [NumWeapons]bool{}
	c.loadout[c.activeWeapon] = true

	c.freezeStartTick = 0
	c.freezeEndTick = 0

	c.player = p
	c.pos = pos

	c.core.Reset()
	c.core.Init(&w.Core, w.Col)
	c.core.Pos = pos

	c.reckoningTick = 0
	c.nextDmgTick = 0
	c.sendCore = CharacterCore{}
	c.reckoningCore = CharacterCore{}
	c.bot = botState{target: -1}

	c.ref = w.insertCharacter(c)
	p.char = c.ref
	c.alive = true

	c.syncWeapon()
	c.syncHealth()
	w.Controller.OnCharacterSpawn(c)
	return true
}

// Destroy takes the character out of the world without the death
// consequences.
func (c *Character) Destroy() {
	c.world.removeCharacter(c)
	c.alive = false
}

func (c *Character) owner() *Player {
	if c.player == nil {
		panic("core: character without a player")
	}
	return c.player
}

func (c *Character) ClientID() int { return c.ref.ID }
func (c *Character) Ref() CharacterRef { return c.ref }
func (c *Character) Player() *Player { return c.player }
func (c *Character) IsAlive() bool { return c.alive }
func (c *Character) Pos() Vec2 { return c.pos }
func (c *Character) Health() int { return c.health }
func (c *Character) Armor() int { return c.armor }
func (c *Character) MaxHealth() int { return c.maxHealth }
func (c *Character) ActiveWeapon() int { return c.activeWeapon }
func (c *Character) Emote() int { return c.emoteType }
func (c *Character) Input() PlayerInput { return c.input }
func (c *Character) Core() *CharacterCore { return &c.core }
func (c *Character) ReckoningTick() int { return c.reckoningTick }

func (c *Character) Weapon(kind int) WeaponSlot {
	if kind < 0 || kind >= NumWeapons {
		return WeaponSlot{}
	}
	return c.weapons[kind]
}

func (c *Character) frozen() bool { return c.freezeEndTick >= c.world.CurrentTick }

func (c *Character) isGrounded() bool {
	col := c.world.Col
	return col.CheckPoint(c.pos.X+PhysSize/2, c.pos.Y+PhysSize/2+5) ||
		col.CheckPoint(c.pos.X-PhysSize/2, c.pos.Y+PhysSize/2+5)
}

func (c *Character) SetEmote(emote, stopTick int) {
	c.emoteType = emote
	c.emoteStop = stopTick
}

// Freeze stops the character from moving, hooking and firing for the given
// time.
func (c *Character) Freeze(seconds float64) {
	if !c.alive {
		return
	}
	c.freezeStartTick = c.world.CurrentTick
	c.freezeEndTick = c.freezeStartTick + int(float64(c.world.TickSpeed)*seconds)
}

func (c *Character) GiveNinja() {
	c.ninja.activationTick = c.world.CurrentTick
	c.loadout[WeaponNinja] = true
	c.weapons[WeaponNinja].Got = true
	c.weapons[WeaponNinja].Ammo = -1
	if c.activeWeapon != WeaponNinja {
		c.lastWeapon = c.activeWeapon
	}
	c.activeWeapon = WeaponNinja
	c.world.createSound(c.pos, SoundPickupNinja, MaskAll())
}

// IncreaseHealth heals by amount, or to full when amount is -1. It reports
// false when the character was already at full health.
func (c *Character) IncreaseHealth(amount int) bool {
	if amount == -1 {
		c.health = c.maxHealth
		return true
	}
	if c.health >= c.maxHealth {
		return false
	}
	c.health = clampInt(c.health+amount, 0, c.maxHealth)
	return true
}

func (c *Character) IncreaseArmor(amount int) bool {
	if c.armor >= 10 {
		return false
	}
	c.armor = clampInt(c.armor+amount, 0, 10)
	return true
}

func (c *Character) OnPredictedInput(in PlayerInput) {
	if c.input != in {
		c.lastAction = c.world.CurrentTick
	}
	c.input = in
	c.numInputs++
	c.input.aimNotCentered()
}

func (c *Character) OnDirectInput(in PlayerInput) {
	c.latestPrevInput = c.latestInput
	c.latestInput = in
	c.latestInput.aimNotCentered()

	if c.numInputs > 2 && c.owner().Team != TeamSpectators {
		c.handleWeaponSwitch()
		c.fireWeapon()
	}
	c.latestPrevInput = c.latestInput
}

// ResetInput releases every held control, as if the player let go of the
// keyboard.
func (c *Character) ResetInput() {
	c.input.Direction = 0
	c.input.Hook = 0
	if c.input.Fire&1 != 0 {
		c.input.Fire++
	}
	c.input.Fire &= InputStateMask
	c.input.Jump = 0
	c.latestInput = c.input
	c.latestPrevInput = c.input
}

func (c *Character) syncWeapon() {
	items := c.world.Items
	for i := range c.weapons {
		// items that ran out drop the weapon
		c.weapons[i].Got = c.loadout[i]
		if items.HasAmmo(i) {
			c.weapons[i].Ammo = 0
		} else {
			c.weapons[i].Ammo = -1
		}
	}
	for _, e := range items.Entries(c.ClientID()) {
		it, ok := items.Item(e.Name)
		if !ok {
			continue
		}
		if it.AmmoFor >= 0 && it.AmmoFor < NumWeapons {
			c.weapons[it.AmmoFor].Ammo = e.Num
		} else if it.WeaponID >= 0 && it.WeaponID < NumWeapons {
			c.weapons[it.WeaponID].Got = c.weapons[it.WeaponID].Got || e.Num > 0
		}
	}
}

func (c *Character) syncHealth() {
	c.maxHealth = 10
	items := c.world.Items
	for _, e := range items.Entries(c.ClientID()) {
		if it, ok := items.Item(e.Name); ok && it.Health != 0 {
			c.maxHealth += it.Health * e.Num
		}
	}
}

// onWeaponFire spends one unit of the weapon's ammunition.
func (c *Character) onWeaponFire(weapon int) {
	items := c.world.Items
	for _, e := range items.Entries(c.ClientID()) {
		if it, ok := items.Item(e.Name); ok && it.AmmoFor == weapon {
			items.Add(c.ClientID(), e.Name, -1)
			return
		}
	}
}

func (c *Character) Tick() {
	p := c.owner()
	w := c.world

	c.syncWeapon()
	c.syncHealth()

	if w.BotsActive {
		c.doBotActions()
	}
	if !c.alive {
		return
	}

	c.handleInput()
	if !c.alive {
		return
	}

	c.core.Input = c.input
	c.core.Tick(true, p.NextTuning())

	c.handleEvents()

	c.prevInput = c.input
}

func (c *Character) handleInput() {
	p := c.owner()
	w := c.world

	c.handleWeapons()

	if p.Sit {
		c.sitTick++
		if c.sitTick >= w.TickSpeed*4 {
			if c.IncreaseHealth(1) {
				w.createSoundGlobal(SoundPickupHealth, c.ClientID())
			}
			c.sitTick = 0
		}
		c.input.Jump = 0
		c.input.Direction = 0
		c.input.Hook = 0
	} else {
		c.sitTick = 0
	}

	if c.frozen() {
		c.input.Jump = 0
		c.input.Direction = 0
		c.input.Hook = 0
	}

	c.SetEmote(p.Emote, w.CurrentTick)
}

// handleEvents applies death tiles, leaving the map and emote expiry.
func (c *Character) handleEvents() {
	w := c.world
	r := PhysSize / 3
	onDeath := false
	for _, off := range [4]Vec2{{r, -r}, {r, r}, {-r, -r}, {-r, r}} {
		if w.Col.GetCollisionAt(c.pos.X+off.X, c.pos.Y+off.Y)&ColFlagDeath != 0 {
			onDeath = true
			break
		}
	}
	if onDeath && w.CurrentTick >= c.nextDmgTick {
		c.nextDmgTick = w.CurrentTick + w.TickSpeed/10
		c.TakeDamage(V(0, 0), 1, c.ClientID(), WeaponWorld)
		if !c.alive {
			return
		}
	}

	if layerClipped(w.Col, c.pos) {
		c.Die(c.ClientID(), WeaponWorld)
		return
	}

	if c.emoteStop < w.CurrentTick {
		c.emoteType = EmoteNormal
		c.emoteStop = -1
	}

	c.updateTuning()
}

func (c *Character) updateTuning() {
	p := c.owner()
	if p.Sit || c.frozen() {
		p.NextTuning().immobilize()
	}
}

// TickPaused shifts every absolute tick stamp so timers resume where they
// stopped.
func (c *Character) TickPaused() {
	c.attackTick++
	c.damageTakenTick++
	c.ninja.activationTick++
	c.reckoningTick++
	if c.lastAction != -1 {
		c.lastAction++
	}
	if c.emoteStop > -1 {
		c.emoteStop++
	}
}
