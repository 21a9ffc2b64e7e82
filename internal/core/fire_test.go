package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHammerFireStartsReload(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	primeInputs(c)

	c.OnDirectInput(PlayerInput{TargetX: 1, Fire: 1})

	require.Equal(t, 1, f.events.Count(EventSound, SoundHammerFire))
	require.Equal(t, f.w.CurrentTick, c.attackTick)
	delay := Hammer{}.FireDelay() * f.w.TickSpeed / 1000
	require.Equal(t, delay, c.reloadTimer)

	// a second click inside the reload window does nothing
	c.OnDirectInput(PlayerInput{TargetX: 1, Fire: 3})
	require.Equal(t, 1, f.events.Count(EventSound, SoundHammerFire))

	for i := 0; i < delay; i++ {
		require.NotZero(t, c.reloadTimer)
		c.handleWeapons()
	}
	require.Zero(t, c.reloadTimer)

	c.OnDirectInput(PlayerInput{TargetX: 1, Fire: 5})
	require.Equal(t, 2, f.events.Count(EventSound, SoundHammerFire))
}

func TestFireDelayNeverShrinks(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	primeInputs(c)

	fired := -1
	shots := 0
	for tick := 0; tick < 3*f.w.TickSpeed; tick++ {
		f.w.CurrentTick++
		before := f.events.Count(EventSound, SoundHammerFire)
		// mash the button: a full click every tick
		c.OnDirectInput(PlayerInput{TargetX: 1, Fire: (tick*2 + 1) & InputStateMask})
		c.handleWeapons()
		if f.events.Count(EventSound, SoundHammerFire) > before {
			if fired >= 0 {
				require.GreaterOrEqual(t, f.w.CurrentTick-fired, Hammer{}.FireDelay()*f.w.TickSpeed/1000)
			}
			fired = f.w.CurrentTick
			shots++
		}
	}
	require.Greater(t, shots, 1)
}

func TestHammerHitsNeighbour(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	target := f.human(t, 1, tileCentre(5, 10).Add(V(30, 0)))
	primeInputs(c)

	c.OnDirectInput(PlayerInput{TargetX: 1, Fire: 1})

	require.Equal(t, 10-Hammer{}.Damage(), target.Health())
	require.Equal(t, 1, f.events.Count(EventHammerHit, 0))
	require.Equal(t, 10, c.Health(), "the hammer never hits its owner")
}

func TestOutOfAmmoClicks(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	f.items.Add(0, "gun", 1)
	c.syncWeapon()
	require.True(t, c.Weapon(WeaponGun).Got)
	require.Zero(t, c.Weapon(WeaponGun).Ammo)
	primeInputs(c)
	// the click sound is rate limited from spawn
	f.w.CurrentTick = 100

	c.OnDirectInput(PlayerInput{TargetX: 1, WantedWeapon: WeaponGun + 1, Fire: 1})

	require.Equal(t, WeaponGun, c.ActiveWeapon())
	require.Equal(t, 1, f.events.Count(EventSound, SoundWeaponNoAmmo))
	require.Zero(t, f.events.Count(EventSound, SoundGunFire))
	require.Equal(t, 125*f.w.TickSpeed/1000, c.reloadTimer)
}

func TestFiringSpendsAmmo(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	f.items.Add(0, "gun", 1)
	f.items.Add(0, "bullet", 2)
	c.syncWeapon()
	require.Equal(t, 2, c.Weapon(WeaponGun).Ammo)
	primeInputs(c)

	c.OnDirectInput(PlayerInput{TargetX: 1, WantedWeapon: WeaponGun + 1, Fire: 1})

	require.Equal(t, 1, f.events.Count(EventSound, SoundGunFire))
	require.Equal(t, 1, f.items.Count(0, "bullet"))
	require.Len(t, f.w.projectiles, 1)
}

func TestWeaponsWithoutAmmoItemsNeverRunDry(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	c.syncWeapon()
	require.Equal(t, -1, c.Weapon(WeaponHammer).Ammo)
	require.Zero(t, c.Weapon(WeaponGun).Ammo)
}

func TestLosingTheItemDropsTheWeapon(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	f.items.Add(0, "gun", 1)
	c.syncWeapon()
	require.True(t, c.Weapon(WeaponGun).Got)

	f.items.Add(0, "gun", -1)
	c.syncWeapon()
	require.False(t, c.Weapon(WeaponGun).Got)
	require.True(t, c.Weapon(WeaponHammer).Got, "the spawn weapon needs no item")

	f.items.Add(0, "gun", 1)
	c.syncWeapon()
	f.items.Clear(0)
	c.syncWeapon()
	require.False(t, c.Weapon(WeaponGun).Got)
}

func TestFrozenCharacterCannotFire(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	primeInputs(c)
	c.Freeze(1)

	c.OnDirectInput(PlayerInput{TargetX: 1, Fire: 1})
	require.Zero(t, f.events.Count(EventSound, SoundHammerFire))
}

func TestOpenMenuSwallowsFire(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	primeInputs(c)
	c.Player().OpenMenu()

	c.OnDirectInput(PlayerInput{TargetX: 1, Fire: 1})

	require.Zero(t, f.events.Count(EventSound, SoundHammerFire))
	require.Equal(t, []GlobalSound{{Sound: SoundWeaponNoAmmo, Target: 0}}, f.events.SoundsFor(0))
}

func TestMenuScrollsInsteadOfSwitching(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	c.weapons[WeaponGun].Got = true
	primeInputs(c)
	p := c.Player()
	p.OpenMenu()

	c.OnDirectInput(PlayerInput{TargetX: 1, NextWeapon: 2})

	require.Equal(t, WeaponHammer, c.ActiveWeapon())
	require.Equal(t, 1, p.MenuLine())
}

func TestNinjaHitsEachTargetOncePerDash(t *testing.T) {
	f := newFixture(t)
	start := tileCentre(4, 8)
	c := f.human(t, 0, start)
	target := f.human(t, 1, start.Add(V(64, 0)))
	c.GiveNinja()
	primeInputs(c)

	c.OnDirectInput(PlayerInput{TargetX: 1, Fire: 1})
	require.Equal(t, 1, f.events.Count(EventSound, SoundNinjaFire))

	for i := 0; i < ninjaMoveTime*f.w.TickSpeed/1000+2; i++ {
		f.w.CurrentTick++
		c.handleNinja()
	}

	require.True(t, target.IsAlive())
	require.Equal(t, 10-Ninja{}.Damage(), target.Health())
	require.Equal(t, 1, f.events.Count(EventSound, SoundNinjaHit))
	require.Greater(t, c.core.Pos.X, target.pos.X, "the dash carries past the target")
}

func TestNinjaDashHitsAgainAfterRefire(t *testing.T) {
	f := newFixture(t)
	start := tileCentre(4, 8)
	c := f.human(t, 0, start)
	target := f.human(t, 1, start.Add(V(64, 0)))
	c.GiveNinja()
	primeInputs(c)

	dash := func(fire, dir int) {
		c.OnDirectInput(PlayerInput{TargetX: dir, Fire: fire})
		for i := 0; i < ninjaMoveTime*f.w.TickSpeed/1000+2; i++ {
			f.w.CurrentTick++
			c.handleNinja()
		}
		c.reloadTimer = 0
		c.pos = c.core.Pos
	}
	dash(1, 1)
	require.Equal(t, 1, f.events.Count(EventSound, SoundNinjaHit))
	dash(3, -1)
	require.Equal(t, 2, f.events.Count(EventSound, SoundNinjaHit))
	require.False(t, target.IsAlive())
}
