package core

// HealthUndisclosed is the health sent to viewers that may not see the real
// value. Clients render it as alive with unknown health.
const HealthUndisclosed = 0

// Extended character flags.
const (
	CharacterFlagWeaponHammer  = 1 << 14
	CharacterFlagWeaponGun     = 1 << 15
	CharacterFlagWeaponShotgun = 1 << 16
	CharacterFlagWeaponGrenade = 1 << 17
	CharacterFlagWeaponLaser   = 1 << 18
	CharacterFlagWeaponNinja   = 1 << 19
	CharacterFlagInFreeze      = 1 << 21
)

// CharacterRecord is the network form of a character. Tick 0 means the
// client must not extrapolate.
type CharacterRecord struct {
	Tick         int
	X, Y         int
	VelX, VelY   int
	Angle        int
	Direction    int
	Jumped       int
	HookedPlayer int
	HookState    int
	HookTick     int
	HookX, HookY int
	HookDx       int
	HookDy       int

	PlayerFlags int
	Health      int
	Armor       int
	AmmoCount   int
	Weapon      int
	Emote       int
	AttackTick  int
}

// ExtendedCharacterRecord carries what newer clients use for prediction of
// freeze, jumps and weapons.
type ExtendedCharacterRecord struct {
	ClientID            int
	Flags               int
	FreezeStart         int
	FreezeEnd           int
	Jumps               int
	JumpedTotal         int
	NinjaActivationTick int
	TargetX, TargetY    int
}

// Snap returns the character as viewer sees it, or nils when viewer may not
// see it. Viewer -1 is the demo recorder and sees everything.
func (c *Character) Snap(viewer int) (*CharacterRecord, *ExtendedCharacterRecord) {
	if !c.alive {
		return nil, nil
	}
	w := c.world
	p := c.owner()
	id := c.ClientID()

	if !w.canSee(id, viewer) || w.networkClipped(viewer, c.pos) {
		return nil, nil
	}

	r := &CharacterRecord{}
	if c.reckoningTick == 0 || w.Paused {
		// a paused client cannot know how far to extrapolate
		r.Tick = 0
		c.core.Write(r)
	} else {
		r.Tick = c.reckoningTick
		c.sendCore.Write(r)
	}

	if r.HookedPlayer != -1 && !w.canSee(r.HookedPlayer, viewer) {
		r.HookedPlayer = -1
	}

	r.Emote = c.emoteType
	r.AmmoCount = 0
	r.Health = HealthUndisclosed
	r.Armor = 0
	showType := w.Weapons.showType(c.activeWeapon)
	r.Weapon = showType
	r.AttackTick = c.attackTick
	r.Direction = c.input.Direction

	if c.disclosesTo(viewer) {
		r.Health = max(1, roundToInt(float64(c.health)/float64(c.maxHealth)*10))
		r.Armor = c.armor
		if ammo := c.weapons[c.activeWeapon].Ammo; ammo > 0 {
			r.AmmoCount = ammo
		}
	}

	if r.Emote == EmoteNormal && 250-((w.CurrentTick-c.lastAction)%250) < 5 {
		r.Emote = EmoteBlink
	}
	r.PlayerFlags = p.PlayerFlags

	x := &ExtendedCharacterRecord{
		ClientID:            id,
		NinjaActivationTick: w.CurrentTick,
		Jumps:               c.core.MaxJumps,
		JumpedTotal:         c.core.JumpedTotal,
		TargetX:             c.core.Input.TargetX,
		TargetY:             c.core.Input.TargetY,
	}
	switch showType {
	case WeaponHammer:
		x.Flags |= CharacterFlagWeaponHammer
	case WeaponGun:
		x.Flags |= CharacterFlagWeaponGun
	case WeaponShotgun:
		x.Flags |= CharacterFlagWeaponShotgun
	case WeaponGrenade:
		x.Flags |= CharacterFlagWeaponGrenade
	case WeaponRifle:
		x.Flags |= CharacterFlagWeaponLaser
	case WeaponNinja:
		x.Flags |= CharacterFlagWeaponNinja
	}
	if c.frozen() {
		x.Flags |= CharacterFlagInFreeze
		x.FreezeStart = c.freezeStartTick
		x.FreezeEnd = c.freezeEndTick
		x.Jumps = 0
	}
	if p.Sit {
		x.Jumps = 0
	}
	return r, x
}

// disclosesTo reports whether viewer may see health, armor and ammo.
func (c *Character) disclosesTo(viewer int) bool {
	id := c.ClientID()
	if viewer == id || viewer == -1 {
		return true
	}
	if c.world.StrictSpectate {
		return false
	}
	vp := c.world.Player(viewer)
	return vp != nil && vp.SpectatorID == id
}

// ProjectileRecord is the network form of a projectile: its launch
// parameters, from which clients compute the current position.
type ProjectileRecord struct {
	X, Y       int
	VelX, VelY int
	Kind       int
	StartTick  int
}

// LaserRecord is one rifle beam segment.
type LaserRecord struct {
	X, Y         int
	FromX, FromY int
	StartTick    int
}

type PickupRecord struct {
	X, Y int
	Kind int
}

// PlayerRecord is the scoreboard entry of a client.
type PlayerRecord struct {
	ClientID int
	Local    bool
	Team     int
	Score    int
	Name     string
	IsBot    bool
}

// CharacterSnap pairs the two records of one character.
type CharacterSnap struct {
	Character CharacterRecord
	Extended  ExtendedCharacterRecord
}

// Snapshot is everything one viewer receives for a tick.
type Snapshot struct {
	Tick        int
	Players     []PlayerRecord
	Characters  []CharacterSnap
	Projectiles []ProjectileRecord
	Lasers      []LaserRecord
	Pickups     []PickupRecord
}

// Snap builds viewer's snapshot of the whole world.
func (w *World) Snap(viewer int) *Snapshot {
	s := &Snapshot{Tick: w.CurrentTick}
	for _, p := range w.players {
		if p == nil || !w.canSee(p.ClientID, viewer) {
			continue
		}
		s.Players = append(s.Players, PlayerRecord{
			ClientID: p.ClientID,
			Local:    p.ClientID == viewer,
			Team:     p.Team,
			Score:    p.Score,
			Name:     p.Name,
			IsBot:    p.IsBot,
		})
	}
	for _, c := range w.Characters() {
		if r, x := c.Snap(viewer); r != nil {
			s.Characters = append(s.Characters, CharacterSnap{Character: *r, Extended: *x})
		}
	}
	for _, pr := range w.projectiles {
		if pr.removed {
			continue
		}
		pos := pr.posAt(float64(w.CurrentTick-pr.startTick) / float64(w.TickSpeed))
		if w.networkClipped(viewer, pos) {
			continue
		}
		s.Projectiles = append(s.Projectiles, ProjectileRecord{
			X:         int(pr.Pos.X),
			Y:         int(pr.Pos.Y),
			VelX:      int(pr.Dir.X * 100),
			VelY:      int(pr.Dir.Y * 100),
			Kind:      w.Weapons.showType(pr.Kind),
			StartTick: pr.startTick,
		})
	}
	for _, l := range w.lasers {
		if l.removed || w.networkClipped(viewer, l.Pos) {
			continue
		}
		s.Lasers = append(s.Lasers, LaserRecord{
			X:         int(l.Pos.X),
			Y:         int(l.Pos.Y),
			FromX:     int(l.From.X),
			FromY:     int(l.From.Y),
			StartTick: l.evalTick,
		})
	}
	for _, pk := range w.pickups {
		if pk.removed || w.networkClipped(viewer, pk.Pos) {
			continue
		}
		s.Pickups = append(s.Pickups, PickupRecord{X: int(pk.Pos.X), Y: int(pk.Pos.Y), Kind: pk.Kind})
	}
	return s
}
