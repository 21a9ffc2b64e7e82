package core

// InputStateMask bounds the toggle counters carried in Fire, NextWeapon and
// PrevWeapon. Each press and each release advances the counter by one, so a
// lost packet still lets the server recover how many edges happened.
const InputStateMask = 0x3f

// Player flags carried on input and echoed in snapshots.
const (
	PlayerFlagPlaying    = 1 << 0
	PlayerFlagInMenu     = 1 << 1
	PlayerFlagChatting   = 1 << 2
	PlayerFlagScoreboard = 1 << 3
	PlayerFlagAim        = 1 << 4
)

// PlayerInput is the encoded intent a client (or the bot controller) sends
// every tick.
type PlayerInput struct {
	Direction    int
	TargetX      int
	TargetY      int
	Jump         int
	Fire         int
	Hook         int
	PlayerFlags  int
	WantedWeapon int
	NextWeapon   int
	PrevWeapon   int
}

// InputCount is the number of press and release edges between two counter
// values.
type InputCount struct {
	Presses  int
	Releases int
}

// CountInput walks the circular counter from prev to cur. Odd values are
// pressed states, even values released ones.
func CountInput(prev, cur int) InputCount {
	var c InputCount
	prev &= InputStateMask
	cur &= InputStateMask
	for i := prev; i != cur; {
		i = (i + 1) & InputStateMask
		if i&1 != 0 {
			c.Presses++
		} else {
			c.Releases++
		}
	}
	return c
}

// aimNotCentered applies the rule that a client may not aim at its own
// center.
func (in *PlayerInput) aimNotCentered() {
	if in.TargetX == 0 && in.TargetY == 0 {
		in.TargetY = -1
	}
}
