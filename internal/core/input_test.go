package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountInput(t *testing.T) {
	tests := []struct {
		name      string
		prev, cur int
		want      InputCount
	}{
		{"unchanged", 4, 4, InputCount{}},
		{"press", 0, 1, InputCount{Presses: 1}},
		{"release", 1, 2, InputCount{Releases: 1}},
		{"click", 0, 2, InputCount{Presses: 1, Releases: 1}},
		{"two clicks", 2, 6, InputCount{Presses: 2, Releases: 2}},
		{"wraps past mask", 62, 1, InputCount{Presses: 2, Releases: 1}},
		{"masked values", 64, 65, InputCount{Presses: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountInput(tt.prev, tt.cur))
		})
	}
}

func TestCountInputFullCircle(t *testing.T) {
	// one step short of a full lap
	got := CountInput(0, InputStateMask)
	assert.Equal(t, 32, got.Presses)
	assert.Equal(t, 31, got.Releases)
}

func TestResolveWantedWeapon(t *testing.T) {
	var got [NumWeapons]bool
	got[WeaponHammer] = true
	got[WeaponGun] = true
	got[WeaponRifle] = true

	tests := []struct {
		name                               string
		active, queued, next, prev, direct int
		want                               int
	}{
		{"no edges", WeaponHammer, -1, 0, 0, 0, WeaponHammer},
		{"next skips missing", WeaponGun, -1, 1, 0, 0, WeaponRifle},
		{"next wraps", WeaponRifle, -1, 1, 0, 0, WeaponHammer},
		{"full cycle returns", WeaponHammer, -1, 3, 0, 0, WeaponHammer},
		{"prev wraps", WeaponHammer, -1, 0, 1, 0, WeaponRifle},
		{"starts from queued", WeaponHammer, WeaponGun, 1, 0, 0, WeaponRifle},
		{"direct wins", WeaponHammer, -1, 2, 0, 5, WeaponRifle},
		{"insane edge count ignored", WeaponHammer, -1, maxSaneEdges, 0, 0, WeaponHammer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveWantedWeapon(tt.active, tt.queued, tt.next, tt.prev, tt.direct, got))
		})
	}
}

func TestWeaponSwitchOnDirectInput(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	c.weapons[WeaponGun].Got = true
	primeInputs(c)

	c.OnDirectInput(PlayerInput{TargetX: 1, NextWeapon: 2})

	require.Equal(t, WeaponGun, c.ActiveWeapon())
	require.Equal(t, WeaponHammer, c.lastWeapon)
	require.Equal(t, 1, f.events.Count(EventSound, SoundWeaponSwitch))
}

func TestWeaponSwitchIgnoresUnownedDirectPick(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	primeInputs(c)

	c.OnDirectInput(PlayerInput{TargetX: 1, WantedWeapon: WeaponRifle + 1})

	require.Equal(t, WeaponHammer, c.ActiveWeapon())
	require.Equal(t, -1, c.queuedWeapon)
}

func TestWeaponSwitchWaitsForReload(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	c.weapons[WeaponGun].Got = true
	c.reloadTimer = 3
	primeInputs(c)

	c.OnDirectInput(PlayerInput{TargetX: 1, WantedWeapon: WeaponGun + 1})
	require.Equal(t, WeaponHammer, c.ActiveWeapon())
	require.Equal(t, WeaponGun, c.queuedWeapon)

	for c.reloadTimer > 0 {
		c.handleWeapons()
	}
	c.OnDirectInput(PlayerInput{TargetX: 1, WantedWeapon: WeaponGun + 1})
	require.Equal(t, WeaponGun, c.ActiveWeapon())
}

func TestDirectInputIgnoredUntilPredictedInputsArrive(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	c.weapons[WeaponGun].Got = true

	c.OnDirectInput(PlayerInput{TargetX: 1, NextWeapon: 2, Fire: 1})

	require.Equal(t, WeaponHammer, c.ActiveWeapon())
	require.Zero(t, f.events.Count(EventSound, SoundHammerFire))
}

func TestChattingResetsHeldInput(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	p := c.Player()
	c.OnPredictedInput(PlayerInput{Direction: 1, Jump: 1, Hook: 1, Fire: 1, TargetX: 1})

	p.OnDirectInput(PlayerInput{PlayerFlags: PlayerFlagChatting, TargetX: 1})

	in := c.Input()
	require.Zero(t, in.Direction)
	require.Zero(t, in.Jump)
	require.Zero(t, in.Hook)
	require.Equal(t, 2, in.Fire, "a held fire button is released")

	// further movement is dropped while the chat stays open
	p.OnPredictedInput(PlayerInput{Direction: -1, PlayerFlags: PlayerFlagChatting})
	require.Zero(t, c.Input().Direction)
}

func TestAimNeverCentered(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	c.OnPredictedInput(PlayerInput{})
	require.Equal(t, -1, c.Input().TargetY)
}
