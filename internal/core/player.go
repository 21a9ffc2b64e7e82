package core

const (
	TeamSpectators = -1
	TeamGame       = 0

	SpecFreeView = -1
)

// Emotes.
const (
	EmoteNormal = iota
	EmotePain
	EmoteHappy
	EmoteSurprise
	EmoteAngry
	EmoteBlink
)

// BotData is the template a bot is created from. Bots sharing a Name form
// one group.
type BotData struct {
	Name        string
	Skin        string
	Hammer      bool
	Gun         bool
	Hook        bool
	TeamDamage  bool
	AttackProba int
	Drops       []Drop
}

// Drop is an item stack a bot leaves behind when a human kills it.
type Drop struct {
	Item string
	Num  int
}

const (
	MenuPageMain = iota
	MenuPageItem
)

// menu options in line order
var menuOptions = []string{"sit", "items", "close"}

type menuState struct {
	open       bool
	page       int
	line       int
	needUpdate bool
	closeTick  int
}

// Player is a client slot: a human connection or a bot. It outlives its
// characters and spawns a new one after each death.
type Player struct {
	world *World

	ClientID int
	Name     string
	UserID   int64
	IsBot    bool
	BotData  BotData

	Team        int
	SpectatorID int
	ViewPos     Vec2
	PlayerFlags int
	Score       int
	Sit         bool
	Emote       int

	RespawnTick    int
	DieTick        int
	LastActionTick int
	spawning       bool
	latestActivity struct{ TargetX, TargetY int }

	menu menuState

	prevTuning  TuningParams
	nextTuning  TuningParams
	tuningDirty bool

	char CharacterRef
}

func newPlayer(w *World, id int, bot bool, data *BotData) *Player {
	p := &Player{
		world:          w,
		ClientID:       id,
		IsBot:          bot,
		Team:           TeamGame,
		SpectatorID:    SpecFreeView,
		Emote:          EmoteNormal,
		RespawnTick:    w.CurrentTick,
		DieTick:        w.CurrentTick,
		LastActionTick: w.CurrentTick,
		prevTuning:     w.Tuning,
		nextTuning:     w.Tuning,
		char:           CharacterRef{ID: -1},
	}
	if data != nil {
		p.BotData = *data
		p.Name = data.Name
	}
	return p
}

// Character returns the player's live character, if any.
func (p *Player) Character() *Character {
	if p.char.ID < 0 {
		return nil
	}
	return p.world.Character(p.char)
}

// NextTuning is the tuning the player's character simulates with this tick.
func (p *Player) NextTuning() *TuningParams { return &p.nextTuning }

// TakeTuningUpdate returns the tuning to send to the client when it changed
// since the last call.
func (p *Player) TakeTuningUpdate() (TuningParams, bool) {
	if !p.tuningDirty {
		return TuningParams{}, false
	}
	p.tuningDirty = false
	return p.prevTuning, true
}

func (p *Player) handleTuningParams() {
	if p.prevTuning != p.nextTuning {
		p.prevTuning = p.nextTuning
		p.tuningDirty = !p.IsBot
	}
	p.nextTuning = p.world.Tuning
}

func (p *Player) tick() {
	w := p.world
	if !w.Paused {
		if p.char.ID < 0 && p.Team == TeamSpectators && p.SpectatorID == SpecFreeView {
			p.ViewPos = p.ViewPos.Sub(V(
				clampf(p.ViewPos.X-float64(p.latestActivity.TargetX), -500, 500),
				clampf(p.ViewPos.Y-float64(p.latestActivity.TargetY), -400, 400),
			))
		}

		if p.char.ID < 0 && p.DieTick+w.TickSpeed*3 <= w.CurrentTick {
			p.spawning = true
		}

		if p.char.ID >= 0 {
			if c := p.Character(); c != nil {
				p.ViewPos = c.pos
			} else {
				p.char = CharacterRef{ID: -1}
			}
		} else if p.spawning && p.RespawnTick <= w.CurrentTick && p.Team != TeamSpectators {
			p.tryRespawn()
		}
	} else {
		p.RespawnTick++
		p.DieTick++
		p.LastActionTick++
	}

	if c := p.Character(); p.menu.open && c != nil {
		if p.menu.needUpdate {
			p.menu.needUpdate = false
		}
		if p.menu.closeTick > 0 {
			p.menu.closeTick--
			if p.menu.closeTick == 0 {
				p.CloseMenu()
			}
		}
		if c.input.Fire&1 != 0 && c.prevInput.Fire&1 == 0 {
			p.useMenuOption()
		}
		if c.input.Hook&1 != 0 && c.prevInput.Hook&1 == 0 {
			p.menu.page = MenuPageMain
			p.menu.needUpdate = true
		}
	}

	p.handleTuningParams()
}

func (p *Player) postTick() {
	if p.Team == TeamSpectators && p.SpectatorID != SpecFreeView {
		if target := p.world.Player(p.SpectatorID); target != nil {
			p.ViewPos = target.ViewPos
		}
	}
}

func (p *Player) tryRespawn() {
	w := p.world
	pos := w.Controller.SpawnPos()
	p.spawning = false
	c := newCharacter(w)
	c.Spawn(p, pos)
	w.createPlayerSpawn(pos)
}

// Respawn asks for a new character as soon as the respawn delay allows.
func (p *Player) Respawn() {
	if p.Team != TeamSpectators {
		p.spawning = true
	}
}

// KillCharacter makes the current character die as if by weapon.
func (p *Player) KillCharacter(weapon int) {
	if c := p.Character(); c != nil {
		c.Die(p.ClientID, weapon)
	}
	p.char = CharacterRef{ID: -1}
}

func (p *Player) SetTeam(team int) {
	if team != TeamSpectators {
		team = TeamGame
	}
	if p.Team == team {
		return
	}
	w := p.world
	p.KillCharacter(WeaponGame)
	p.Team = team
	p.LastActionTick = w.CurrentTick
	p.SpectatorID = SpecFreeView
	p.RespawnTick = w.CurrentTick + w.TickSpeed/2
	w.Log.Debug("team_join", "player", p.ClientID, "name", p.Name, "team", team)

	if team == TeamSpectators {
		w.resetSpectators(p.ClientID)
	}
}

func (p *Player) OnPredictedInput(in PlayerInput) {
	// skip the input if chat is active
	if p.PlayerFlags&PlayerFlagChatting != 0 && in.PlayerFlags&PlayerFlagChatting != 0 {
		return
	}
	if c := p.Character(); c != nil {
		c.OnPredictedInput(in)
	}
}

func (p *Player) OnDirectInput(in PlayerInput) {
	if in.PlayerFlags&PlayerFlagChatting != 0 {
		if p.PlayerFlags&PlayerFlagChatting != 0 {
			return
		}
		if c := p.Character(); c != nil {
			c.ResetInput()
		}
		p.PlayerFlags = in.PlayerFlags
		return
	}

	p.PlayerFlags = in.PlayerFlags

	c := p.Character()
	if c != nil {
		c.OnDirectInput(in)
	}
	if c == nil && p.Team != TeamSpectators && in.Fire&1 != 0 {
		p.spawning = true
	}

	if in.Direction != 0 || p.latestActivity.TargetX != in.TargetX || p.latestActivity.TargetY != in.TargetY ||
		in.Jump != 0 || in.Fire&1 != 0 || in.Hook != 0 {
		p.latestActivity.TargetX = in.TargetX
		p.latestActivity.TargetY = in.TargetY
		p.LastActionTick = p.world.CurrentTick
	}
}

func (p *Player) MenuOpen() bool { return p.menu.open }

func (p *Player) MenuLine() int { return p.menu.line }

func (p *Player) OpenMenu() {
	p.menu.open = true
	p.menu.page = MenuPageMain
	p.menu.needUpdate = true
	p.menu.closeTick = p.menuCloseTicks()
}

func (p *Player) CloseMenu() {
	p.menu.open = false
	p.menu.line = 0
}

func (p *Player) menuCloseTicks() int { return p.world.TickSpeed * 10 }

func (p *Player) useMenuOption() {
	n := len(menuOptions)
	switch menuOptions[((p.menu.line%n)+n)%n] {
	case "sit":
		p.Sit = !p.Sit
	case "items":
		p.menu.page = MenuPageItem
		p.menu.needUpdate = true
		p.menu.closeTick = p.menuCloseTicks()
	case "close":
		p.CloseMenu()
	}
}

func (p *Player) SetEmote(emote int) { p.Emote = emote }
