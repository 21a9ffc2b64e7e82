package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHammerBotStrikesInReach(t *testing.T) {
	f := newFixture(t)
	data := BotData{Name: "zombie", Hammer: true, AttackProba: 100}
	b := f.bot(t, MaxPlayers, data, tileCentre(5, 10))
	target := f.human(t, 0, tileCentre(5, 10).Add(V(200, 0)))

	b.doBotActions()
	assert.Zero(t, b.input.Fire)
	assert.Equal(t, 1, b.input.Direction, "chases the target")
	assert.Equal(t, target.ClientID(), b.bot.target)

	target.pos = b.pos.Add(V(40, 0))
	b.doBotActions()
	assert.Equal(t, 1, b.input.Fire)
	assert.Equal(t, WeaponHammer, b.ActiveWeapon())
}

func TestMeleeBotIgnoresFarTargets(t *testing.T) {
	f := newFixture(t)
	data := BotData{Name: "zombie", Hammer: true, AttackProba: 100}
	b := f.bot(t, MaxPlayers, data, tileCentre(5, 10))
	target := f.human(t, 0, tileCentre(5, 10).Add(V(botTargetRadius+20, 0)))
	b.bot.target = target.ClientID()

	for i := 0; i < 200; i++ {
		b.doBotActions()
		assert.Zero(t, b.input.Fire)
		assert.Equal(t, -1, b.bot.target, "out of range targets are dropped")
	}
}

func TestGunBotKeepsDistance(t *testing.T) {
	f := newFixture(t)
	data := BotData{Name: "raider", Gun: true, AttackProba: 100}
	b := f.bot(t, MaxPlayers, data, tileCentre(5, 10))
	target := f.human(t, 0, tileCentre(5, 10).Add(V(300, 0)))

	b.doBotActions()
	assert.Equal(t, 1, b.input.Fire)
	assert.Equal(t, WeaponGun, b.ActiveWeapon())
	assert.Equal(t, -1, b.input.Direction, "backs off to its stand-off range")

	target.pos = b.pos.Add(V(100, 0))
	b.doBotActions()
	assert.Zero(t, b.input.Fire, "too close to shoot")
}

func TestBotIgnoresOwnGroup(t *testing.T) {
	f := newFixture(t)
	data := BotData{Name: "zombie", Hammer: true, AttackProba: 100}
	b := f.bot(t, MaxPlayers, data, tileCentre(5, 10))
	f.bot(t, MaxPlayers+1, data, tileCentre(6, 10))

	b.doBotActions()

	assert.Equal(t, -1, b.bot.target)
	assert.Zero(t, b.input.Fire)
}

func TestBotTargetsOtherGroups(t *testing.T) {
	f := newFixture(t)
	b := f.bot(t, MaxPlayers, BotData{Name: "zombie", Hammer: true}, tileCentre(5, 10))
	other := f.bot(t, MaxPlayers+1, BotData{Name: "raider", Gun: true}, tileCentre(9, 10))

	b.doBotActions()

	assert.Equal(t, other.ClientID(), b.bot.target)
}

func TestBotAttackProbability(t *testing.T) {
	f := newFixture(t)
	b := f.bot(t, MaxPlayers, BotData{Name: "zombie", Hammer: true}, tileCentre(5, 10))
	f.human(t, 0, tileCentre(5, 10).Add(V(30, 0)))

	for i := 0; i < 50; i++ {
		b.doBotActions()
		assert.Zero(t, b.input.Fire, "a zero attack chance never swings")
	}
}

func TestBotFiresWithoutAmmo(t *testing.T) {
	f := newFixture(t)
	data := BotData{Name: "raider", Gun: true, AttackProba: 100}
	b := f.bot(t, MaxPlayers, data, tileCentre(5, 10))
	f.human(t, 0, tileCentre(5, 10).Add(V(300, 0)))
	f.w.BotsActive = true

	b.Tick()

	assert.Equal(t, 1, f.events.Count(EventSound, SoundGunFire))
	assert.Len(t, f.w.projectiles, 1)
}

func TestNewRandIsDeterministic(t *testing.T) {
	a := NewRand("seed", "bots")
	b := NewRand("seed", "bots")
	c := NewRand("seed", "other")

	var sa, sb, sc []int
	for i := 0; i < 8; i++ {
		sa = append(sa, a.Intn(1000))
		sb = append(sb, b.Intn(1000))
		sc = append(sc, c.Intn(1000))
	}
	assert.Equal(t, sa, sb)
	assert.NotEqual(t, sa, sc)
}
