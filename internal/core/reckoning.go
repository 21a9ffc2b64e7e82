package core

// reckoningWindow is how many seconds a client may extrapolate from one
// baseline before the server sends a fresh one regardless.
const reckoningWindow = 3

// TickDefered runs after every character's Tick: it moves the body, emits
// the movement sounds and decides whether the dead reckoning baseline sent
// to clients is still good.
func (c *Character) TickDefered() {
	if !c.alive {
		return
	}
	w := c.world
	p := c.owner()

	// advance the client-side view of the last baseline
	{
		var tmp WorldCore
		tmp.Tuning = DefaultTuning()
		c.reckoningCore.Init(&tmp, w.Col)
		c.reckoningCore.Tick(false, &tmp.Tuning)
		c.reckoningCore.Move(&tmp.Tuning)
		c.reckoningCore.Quantize()
	}

	startPos, startVel := c.core.Pos, c.core.Vel
	body := V(PhysSize, PhysSize)
	stuckBefore := w.Col.TestBox(c.core.Pos, body)

	c.core.Move(p.NextTuning())
	stuckAfterMove := w.Col.TestBox(c.core.Pos, body)
	c.core.Quantize()
	stuckAfterQuant := w.Col.TestBox(c.core.Pos, body)
	c.pos = c.core.Pos

	if !stuckBefore && (stuckAfterMove || stuckAfterQuant) {
		w.Log.Debug("character stuck",
			"player", c.ClientID(),
			"after_move", stuckAfterMove,
			"after_quantize", stuckAfterQuant,
			"start_x", startPos.X, "start_y", startPos.Y,
			"vel_x", startVel.X, "vel_y", startVel.Y)
	}

	events := c.core.TriggeredEvents
	others := MaskAllExceptOne(c.ClientID())
	if events&CoreEventGroundJump != 0 {
		w.createSound(c.pos, SoundPlayerJump, others)
	}
	if events&CoreEventHookAttachPlayer != 0 {
		w.createSound(c.pos, SoundHookAttachPlayer, MaskAll())
	}
	if events&CoreEventHookAttachGround != 0 {
		w.createSound(c.pos, SoundHookAttachGround, others)
	}
	if events&CoreEventHookHitNoHook != 0 {
		w.createSound(c.pos, SoundHookNoAttach, others)
	}

	if p.Team == TeamSpectators {
		c.pos = V(float64(c.input.TargetX), float64(c.input.TargetY))
	}

	var predicted, current CharacterRecord
	c.reckoningCore.Write(&predicted)
	c.core.Write(&current)
	if c.reckoningTick+w.TickSpeed*reckoningWindow < w.CurrentTick || predicted != current {
		c.reckoningTick = w.CurrentTick
		c.sendCore = c.core
		c.reckoningCore = c.core
	}
}
