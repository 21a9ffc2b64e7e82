package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReckoningBaselineAfterSpawn(t *testing.T) {
	f := newFixture(t)
	p := f.w.AddPlayer(0, "tee")
	f.w.Step()

	c := p.Character()
	require.NotNil(t, c)
	assert.Equal(t, f.w.CurrentTick, c.ReckoningTick())

	s := f.w.Snap(0)
	require.Len(t, s.Characters, 1)
	assert.Equal(t, c.ReckoningTick(), s.Characters[0].Character.Tick)
}

func TestReckoningRefreshWindow(t *testing.T) {
	f := newFixture(t)
	p := f.w.AddPlayer(0, "tee")

	extrapolated := false
	for i := 0; i < 8*f.w.TickSpeed; i++ {
		f.w.Step()
		c := p.Character()
		require.NotNil(t, c)
		// The refresh test is strict, so a baseline may reach one tick past the
		// window at the start of a step; TickDefered renews it in that same
		// step, and snapshots never carry more than the window.
		gap := f.w.CurrentTick - c.ReckoningTick()
		require.LessOrEqual(t, gap, reckoningWindow*f.w.TickSpeed)
		if gap > 0 {
			extrapolated = true
		}
	}
	assert.True(t, extrapolated, "a resting character is left to client prediction")
}

func TestReckoningResyncsOnDivergence(t *testing.T) {
	f := newFixture(t)
	p := f.w.AddPlayer(0, "tee")
	for i := 0; i < f.w.TickSpeed; i++ {
		f.w.Step()
	}
	c := p.Character()
	require.NotNil(t, c)

	c.TakeDamage(V(20, -10), 1, -1, WeaponWorld)
	f.w.Step()

	assert.Equal(t, f.w.CurrentTick, c.ReckoningTick())
}

func TestPausedSnapDisablesExtrapolation(t *testing.T) {
	f := newFixture(t)
	p := f.w.AddPlayer(0, "tee")
	f.w.Step()
	f.w.Paused = true

	r, _ := p.Character().Snap(0)
	require.NotNil(t, r)
	assert.Zero(t, r.Tick)
}
