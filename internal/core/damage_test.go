package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArmorSoaksDamage(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	f.human(t, 1, tileCentre(8, 10))
	c.armor = 5

	res := c.TakeDamage(V(0, 0), 8, 1, WeaponGun)

	require.Equal(t, DamageSurvived, res)
	// one point always reaches health, then armor takes 5 of the remaining 7
	assert.Equal(t, 7, c.Health())
	assert.Equal(t, 0, c.Armor())
	assert.Equal(t, 1, f.events.Count(EventSound, SoundHit))
	assert.Equal(t, 1, f.events.Count(EventSound, SoundPlayerPainShort))
}

func TestArmorAbsorbsSmallHits(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	c.armor = 5

	c.TakeDamage(V(0, 0), 1, -1, WeaponWorld)

	assert.Equal(t, 10, c.Health())
	assert.Equal(t, 4, c.Armor())
}

func TestSelfDamageIsHalved(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))

	c.TakeDamage(V(0, 0), 5, 0, WeaponGrenade)
	assert.Equal(t, 8, c.Health())

	c.TakeDamage(V(0, 0), 1, 0, WeaponGrenade)
	assert.Equal(t, 7, c.Health(), "a halved hit still costs a point")
	assert.Zero(t, f.events.Count(EventSound, SoundHit), "no hit sound for hurting yourself")
}

func TestHazardDamage(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))

	res := c.TakeDamage(V(0, 0), 3, -1, WeaponWorld)

	require.Equal(t, DamageSurvived, res)
	assert.Equal(t, 7, c.Health())
	assert.Equal(t, 1, f.events.Count(EventSound, SoundPlayerPainLong))
	assert.Equal(t, EmotePain, c.Emote())
	assert.Equal(t, 3, f.events.Count(EventDamageInd, 0))
}

func TestDamagePushesCharacter(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))

	c.TakeDamage(V(4, -2), 1, -1, WeaponWorld)

	assert.Equal(t, V(4, -2), c.core.Vel)
}

func TestCharacterDiesOnce(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	killer := f.human(t, 1, tileCentre(8, 10))

	require.Equal(t, DamageDied, c.TakeDamage(V(0, 0), 20, 1, WeaponFreezeRifle))
	require.Equal(t, DamageAbsorbed, c.TakeDamage(V(0, 0), 20, 1, WeaponFreezeRifle))

	require.False(t, c.IsAlive())
	require.Len(t, f.events.Kills, 1)
	assert.Equal(t, KillMessage{Killer: 1, Victim: 0, Weapon: WeaponRifle}, f.events.Kills[0])
	assert.Equal(t, 1, f.events.Count(EventDeath, 0))
	assert.Equal(t, 1, f.events.Count(EventSound, SoundPlayerDie))
	assert.Equal(t, 1, killer.Player().Score)
	assert.Equal(t, EmoteHappy, killer.Emote())
	assert.Nil(t, f.w.CharacterByID(0))
}

func TestSelfKill(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	p := c.Player()

	c.Die(0, WeaponSelf)

	require.Len(t, f.events.Kills, 1)
	assert.Equal(t, WeaponGame, f.events.Kills[0].Weapon)
	assert.Equal(t, -1, p.Score)
	assert.Equal(t, f.w.CurrentTick+3*f.w.TickSpeed, p.RespawnTick)
}

func TestDeathClosesMenu(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))
	c.Player().OpenMenu()

	c.Die(0, WeaponWorld)

	assert.False(t, c.Player().MenuOpen())
}

func TestBotsOfOneGroupIgnoreEachOther(t *testing.T) {
	f := newFixture(t)
	zombie := BotData{Name: "zombie", Hammer: true}
	a := f.bot(t, MaxPlayers, zombie, tileCentre(5, 10))
	f.bot(t, MaxPlayers+1, zombie, tileCentre(6, 10))
	f.bot(t, MaxPlayers+2, BotData{Name: "raider", Gun: true}, tileCentre(7, 10))

	require.Equal(t, DamageAbsorbed, a.TakeDamage(V(0, 0), 3, MaxPlayers+1, WeaponHammer))
	assert.Equal(t, 10, a.Health())

	require.Equal(t, DamageSurvived, a.TakeDamage(V(0, 0), 3, MaxPlayers+2, WeaponGun))
	assert.Equal(t, 7, a.Health())
}

func TestTeamDamageBots(t *testing.T) {
	f := newFixture(t)
	a := f.bot(t, MaxPlayers, BotData{Name: "zombie"}, tileCentre(5, 10))
	f.bot(t, MaxPlayers+1, BotData{Name: "zombie", TeamDamage: true}, tileCentre(6, 10))

	require.Equal(t, DamageSurvived, a.TakeDamage(V(0, 0), 3, MaxPlayers+1, WeaponHammer))
}

func TestBotKilledByHumanDropsLoot(t *testing.T) {
	f := newFixture(t)
	hunter := f.human(t, 0, tileCentre(5, 10))
	b := f.bot(t, MaxPlayers, BotData{
		Name:  "zombie",
		Drops: []Drop{{Item: "bullet", Num: 5}},
	}, tileCentre(10, 10))

	require.Equal(t, DamageDied, b.TakeDamage(V(3, 0), 20, 0, WeaponGun))

	assert.Nil(t, f.w.Player(MaxPlayers), "a dead bot frees its slot")
	require.Len(t, f.w.pickups, 1)
	assert.Equal(t, []Drop{{Item: "bullet", Num: 5}}, f.w.pickups[0].Items)
	assert.Equal(t, 1, hunter.Player().Score)
	require.Len(t, f.events.Kills, 1)
	assert.Equal(t, WeaponGun, f.events.Kills[0].Weapon)
}

func TestBotKilledByBotDropsNothing(t *testing.T) {
	f := newFixture(t)
	b := f.bot(t, MaxPlayers, BotData{
		Name:  "zombie",
		Drops: []Drop{{Item: "bullet", Num: 5}},
	}, tileCentre(10, 10))
	f.bot(t, MaxPlayers+1, BotData{Name: "raider"}, tileCentre(11, 10))

	require.Equal(t, DamageDied, b.TakeDamage(V(0, 0), 20, MaxPlayers+1, WeaponGun))

	assert.Empty(t, f.w.pickups)
	assert.Empty(t, f.events.Kills, "bot kills are not announced")
}

func TestDeathTileHurts(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(6, 5))

	c.Tick()
	assert.Equal(t, 9, c.Health())
	assert.Equal(t, 1, f.events.Count(EventSound, SoundPlayerPainShort))

	// rate limited within the same tick
	c.Tick()
	assert.Equal(t, 9, c.Health())
}

func TestIncreaseHealth(t *testing.T) {
	f := newFixture(t)
	c := f.human(t, 0, tileCentre(5, 10))

	assert.False(t, c.IncreaseHealth(1), "already full")
	c.health = 4
	assert.True(t, c.IncreaseHealth(20))
	assert.Equal(t, 10, c.Health())
	c.health = 4
	assert.True(t, c.IncreaseHealth(-1))
	assert.Equal(t, 10, c.Health())

	assert.True(t, c.IncreaseArmor(15))
	assert.Equal(t, 10, c.Armor())
	assert.False(t, c.IncreaseArmor(1))
}
