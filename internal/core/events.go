package core

import "math"

// Sound ids as understood by the client.
const (
	SoundGunFire          = 0
	SoundShotgunFire      = 1
	SoundGrenadeFire      = 2
	SoundHammerFire       = 3
	SoundHammerHit        = 4
	SoundNinjaFire        = 5
	SoundGrenadeExplode   = 6
	SoundNinjaHit         = 7
	SoundRifleFire        = 8
	SoundRifleBounce      = 9
	SoundWeaponSwitch     = 10
	SoundPlayerPainShort  = 11
	SoundPlayerPainLong   = 12
	SoundPlayerJump       = 15
	SoundPlayerDie        = 16
	SoundPlayerSpawn      = 17
	SoundHookAttachGround = 21
	SoundHookAttachPlayer = 22
	SoundHookNoAttach     = 23
	SoundPickupHealth     = 24
	SoundPickupArmor      = 25
	SoundPickupNinja      = 28
	SoundWeaponNoAmmo     = 30
	SoundHit              = 31
)

type EventType int

const (
	EventSound EventType = iota
	EventDamageInd
	EventHammerHit
	EventExplosion
	EventSpawn
	EventDeath
)

// Event is a one-shot world effect delivered to the clients in Mask.
type Event struct {
	Type     EventType
	X, Y     int
	Mask     ClientMask
	Sound    int
	ClientID int
	Angle    int
}

// KillMessage announces a kill to every client.
type KillMessage struct {
	Killer      int
	Victim      int
	Weapon      int
	ModeSpecial int
}

// GlobalSound is a positionless sound for one client, or every client when
// Target is -1.
type GlobalSound struct {
	Sound  int
	Target int
}

// EventSink receives everything the simulation broadcasts during a tick.
type EventSink interface {
	Emit(ev Event)
	SoundGlobal(sound, target int)
	KillMessage(msg KillMessage)
}

// EventBuffer collects one tick's worth of events. The room drains it after
// the snapshot pass.
type EventBuffer struct {
	Events []Event
	Sounds []GlobalSound
	Kills  []KillMessage
}

func (b *EventBuffer) Emit(ev Event) { b.Events = append(b.Events, ev) }

func (b *EventBuffer) SoundGlobal(sound, target int) {
	b.Sounds = append(b.Sounds, GlobalSound{Sound: sound, Target: target})
}

func (b *EventBuffer) KillMessage(msg KillMessage) { b.Kills = append(b.Kills, msg) }

// For returns the events visible to viewer.
func (b *EventBuffer) For(viewer int) []Event {
	var out []Event
	for _, ev := range b.Events {
		if viewer == -1 || ev.Mask.Has(viewer) {
			out = append(out, ev)
		}
	}
	return out
}

// SoundsFor returns the global sounds addressed to viewer.
func (b *EventBuffer) SoundsFor(viewer int) []GlobalSound {
	var out []GlobalSound
	for _, s := range b.Sounds {
		if s.Target == -1 || s.Target == viewer {
			out = append(out, s)
		}
	}
	return out
}

func (b *EventBuffer) Clear() {
	b.Events = b.Events[:0]
	b.Sounds = b.Sounds[:0]
	b.Kills = b.Kills[:0]
}

// Count returns how many events of type t carrying sound were emitted.
// Only sound events are matched when t is EventSound.
func (b *EventBuffer) Count(t EventType, sound int) int {
	n := 0
	for _, ev := range b.Events {
		if ev.Type != t {
			continue
		}
		if t == EventSound && ev.Sound != sound {
			continue
		}
		n++
	}
	return n
}

func (w *World) createSound(pos Vec2, sound int, mask ClientMask) {
	if sound < 0 {
		return
	}
	w.Events.Emit(Event{Type: EventSound, X: int(pos.X), Y: int(pos.Y), Mask: mask, Sound: sound})
}

func (w *World) createSoundGlobal(sound, target int) {
	if sound < 0 {
		return
	}
	w.Events.SoundGlobal(sound, target)
}

// createDamageInd fans amount indicators out over a 120 degree arc around
// straight up, rotated by angle.
func (w *World) createDamageInd(pos Vec2, angle float64, amount int) {
	a := 3*math.Pi/2 + angle
	s := a - math.Pi/3
	e := a + math.Pi/3
	for i := 0; i < amount; i++ {
		f := mixf(s, e, float64(i+1)/float64(amount+2))
		w.Events.Emit(Event{Type: EventDamageInd, X: int(pos.X), Y: int(pos.Y), Mask: MaskAll(), Angle: int(f * 256)})
	}
}

func (w *World) createHammerHit(pos Vec2) {
	w.Events.Emit(Event{Type: EventHammerHit, X: int(pos.X), Y: int(pos.Y), Mask: MaskAll()})
}

func (w *World) createPlayerSpawn(pos Vec2) {
	w.Events.Emit(Event{Type: EventSpawn, X: int(pos.X), Y: int(pos.Y), Mask: MaskAll()})
}

func (w *World) createDeath(pos Vec2, clientID int) {
	w.Events.Emit(Event{Type: EventDeath, X: int(pos.X), Y: int(pos.Y), Mask: MaskAll(), ClientID: clientID})
}

const (
	explosionRadius      = 135.0
	explosionInnerRadius = 48.0
)

// createExplosion emits the explosion effect and, unless noDamage is set,
// damages every character in range with a linear falloff past the inner
// radius.
func (w *World) createExplosion(pos Vec2, owner, weapon int, noDamage bool) {
	w.Events.Emit(Event{Type: EventExplosion, X: int(pos.X), Y: int(pos.Y), Mask: MaskAll()})
	if noDamage {
		return
	}
	for _, c := range w.FindCharacters(pos, explosionRadius) {
		diff := c.pos.Sub(pos)
		forceDir := V(0, 1)
		l := diff.Length()
		if l > 0 {
			forceDir = diff.Normalize()
		}
		l = 1 - clampf((l-explosionInnerRadius)/(explosionRadius-explosionInnerRadius), 0, 1)
		dmg := 6 * l
		if int(dmg) != 0 {
			c.TakeDamage(forceDir.Scale(dmg*2), int(dmg), owner, weapon)
		}
	}
}
