package core

import (
	"log/slog"
	"math"
)

// DefaultTickSpeed is the simulation rate in ticks per second.
const DefaultTickSpeed = 50

// CharacterRef names a character by client slot and spawn generation. A ref
// taken before the slot was reused resolves to nothing.
type CharacterRef struct {
	ID  int
	Gen uint32
}

type charSlot struct {
	ch  *Character
	gen uint32
}

// Options are the collaborators a World is built from. Zero values get
// working defaults.
type Options struct {
	TickSpeed      int
	Tuning         *TuningParams
	Weapons        *WeaponRegistry
	Items          Inventory
	Events         EventSink
	Rand           Rand
	Logger         *slog.Logger
	BotsActive     bool
	StrictSpectate bool
	BotCount       int
	BotTemplates   []BotData
	// Controller is built from the world when nil.
	Controller func(w *World) Controller
}

// World owns every player, character and projectile of one game. It is not
// safe for concurrent use; the room goroutine drives it.
type World struct {
	TickSpeed   int
	CurrentTick int
	Paused      bool

	Core       WorldCore
	Tuning     TuningParams
	Col        Collision
	Weapons    *WeaponRegistry
	Items      Inventory
	Controller Controller
	Events     EventSink
	Rand       Rand
	Log        *slog.Logger

	BotsActive     bool
	StrictSpectate bool

	opts        Options
	players     [MaxClients]*Player
	chars       [MaxClients]charSlot
	projectiles []*Projectile
	lasers      []*Laser
	pickups     []*Pickup
	bots        *botSpawner
}

func NewWorld(col Collision, opts Options) *World {
	if opts.TickSpeed <= 0 {
		opts.TickSpeed = DefaultTickSpeed
	}
	if opts.Tuning == nil {
		t := DefaultTuning()
		opts.Tuning = &t
	}
	if opts.Weapons == nil {
		opts.Weapons = DefaultWeapons()
	}
	if opts.Items == nil {
		opts.Items = noItems{}
	}
	if opts.Events == nil {
		opts.Events = &EventBuffer{}
	}
	if opts.Rand == nil {
		opts.Rand = NewRand("lastday", "world")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	w := &World{
		TickSpeed:      opts.TickSpeed,
		Tuning:         *opts.Tuning,
		Col:            col,
		Weapons:        opts.Weapons,
		Items:          opts.Items,
		Events:         opts.Events,
		Rand:           opts.Rand,
		Log:            opts.Logger,
		BotsActive:     opts.BotsActive,
		StrictSpectate: opts.StrictSpectate,
		opts:           opts,
	}
	w.Core.Tuning = w.Tuning
	if opts.Controller != nil {
		w.Controller = opts.Controller(w)
	} else {
		w.Controller = NewSurvivalController(w)
	}
	if opts.BotCount > 0 && len(opts.BotTemplates) > 0 {
		w.bots = &botSpawner{count: opts.BotCount, templates: opts.BotTemplates}
	}
	return w
}

// Rebuild tears the world down and returns a fresh one over the same map
// and collaborators. Tuning and the connected human players carry over;
// bots, characters and projectiles do not.
func (w *World) Rebuild() *World {
	for i := range w.chars {
		if c := w.chars[i].ch; c != nil {
			c.Destroy()
		}
	}
	opts := w.opts
	tuning := w.Tuning
	opts.Tuning = &tuning

	nw := NewWorld(w.Col, opts)
	nw.CurrentTick = w.CurrentTick
	for _, p := range w.players {
		if p == nil || p.IsBot {
			continue
		}
		np := nw.AddPlayer(p.ClientID, p.Name)
		np.UserID = p.UserID
		np.Team = p.Team
	}
	return nw
}

// AddPlayer connects a human client and schedules its first spawn.
func (w *World) AddPlayer(id int, name string) *Player {
	if id < 0 || id >= MaxPlayers || w.players[id] != nil {
		return nil
	}
	p := newPlayer(w, id, false, nil)
	p.Name = name
	w.players[id] = p
	p.Respawn()
	w.Log.Debug("team_join", "player", id, "name", name, "team", p.Team)
	return p
}

// RemovePlayer disconnects a client, killing its character.
func (w *World) RemovePlayer(id int) {
	p := w.Player(id)
	if p == nil {
		return
	}
	p.KillCharacter(WeaponGame)
	w.players[id] = nil
	w.Items.Clear(id)
	w.resetSpectators(id)
	w.Log.Info("leave player", "player", id, "name", p.Name)
}

func (w *World) Player(id int) *Player {
	if id < 0 || id >= MaxClients {
		return nil
	}
	return w.players[id]
}

// Players returns the connected players in slot order.
func (w *World) Players() []*Player {
	var out []*Player
	for _, p := range w.players {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// CreateBot occupies a bot slot and spawns the bot right away.
func (w *World) CreateBot(id int, data BotData) *Player {
	if id < MaxPlayers || id >= MaxClients || w.players[id] != nil {
		return nil
	}
	p := newPlayer(w, id, true, &data)
	w.players[id] = p
	p.tryRespawn()
	return p
}

// OnBotDead drops the bot's player entirely.
func (w *World) OnBotDead(id int) {
	if id < 0 || id >= MaxClients {
		return
	}
	w.players[id] = nil
	w.resetSpectators(id)
}

func (w *World) resetSpectators(id int) {
	for _, p := range w.players {
		if p != nil && p.SpectatorID == id {
			p.SpectatorID = SpecFreeView
		}
	}
}

func (w *World) BotCount() int {
	n := 0
	for i := MaxPlayers; i < MaxClients; i++ {
		if w.players[i] != nil {
			n++
		}
	}
	return n
}

func (w *World) OnDirectInput(id int, in PlayerInput) {
	if p := w.Player(id); p != nil && !w.Paused {
		p.OnDirectInput(in)
	}
}

func (w *World) OnPredictedInput(id int, in PlayerInput) {
	if p := w.Player(id); p != nil && !w.Paused {
		p.OnPredictedInput(in)
	}
}

// Step advances the game by one tick: players (tick and post-tick each),
// then every entity's tick, then every character's deferred tick.
func (w *World) Step() {
	w.CurrentTick++

	for _, p := range w.players {
		if p != nil {
			p.tick()
			p.postTick()
		}
	}

	if w.Paused {
		for _, pr := range w.projectiles {
			pr.startTick++
		}
		for _, l := range w.lasers {
			l.evalTick++
		}
		w.eachCharacter((*Character).TickPaused)
	} else {
		for _, pr := range w.projectiles {
			if !pr.removed {
				pr.tick(w)
			}
		}
		for _, l := range w.lasers {
			if !l.removed {
				l.tick(w)
			}
		}
		for _, pk := range w.pickups {
			if !pk.removed {
				pk.tick(w)
			}
		}
		w.eachCharacter((*Character).Tick)
		w.eachCharacter((*Character).TickDefered)
		w.compact()
	}
	w.bots.maintain(w)
}

func (w *World) eachCharacter(fn func(*Character)) {
	for i := range w.chars {
		if c := w.chars[i].ch; c != nil {
			fn(c)
		}
	}
}

func (w *World) compact() {
	projectiles := w.projectiles[:0]
	for _, p := range w.projectiles {
		if !p.removed {
			projectiles = append(projectiles, p)
		}
	}
	w.projectiles = projectiles

	lasers := w.lasers[:0]
	for _, l := range w.lasers {
		if !l.removed {
			lasers = append(lasers, l)
		}
	}
	w.lasers = lasers

	pickups := w.pickups[:0]
	for _, p := range w.pickups {
		if !p.removed {
			pickups = append(pickups, p)
		}
	}
	w.pickups = pickups
}

func (w *World) insertCharacter(c *Character) CharacterRef {
	id := c.player.ClientID
	slot := &w.chars[id]
	slot.gen++
	slot.ch = c
	w.Core.Characters[id] = &c.core
	return CharacterRef{ID: id, Gen: slot.gen}
}

func (w *World) removeCharacter(c *Character) {
	id := c.ref.ID
	if id < 0 || id >= MaxClients {
		return
	}
	if w.chars[id].ch == c {
		w.chars[id].ch = nil
	}
	if w.Core.Characters[id] == &c.core {
		w.Core.Characters[id] = nil
	}
}

// Character resolves ref, returning nil when the character died or the slot
// was reused since.
func (w *World) Character(ref CharacterRef) *Character {
	if ref.ID < 0 || ref.ID >= MaxClients {
		return nil
	}
	slot := w.chars[ref.ID]
	if slot.gen != ref.Gen || slot.ch == nil || !slot.ch.alive {
		return nil
	}
	return slot.ch
}

// CharacterByID returns the live character in slot id.
func (w *World) CharacterByID(id int) *Character {
	if id < 0 || id >= MaxClients {
		return nil
	}
	if c := w.chars[id].ch; c != nil && c.alive {
		return c
	}
	return nil
}

// Characters returns the live characters in slot order.
func (w *World) Characters() []*Character {
	var out []*Character
	w.eachCharacter(func(c *Character) {
		if c.alive {
			out = append(out, c)
		}
	})
	return out
}

// FindCharacters returns the characters whose body overlaps the circle.
func (w *World) FindCharacters(pos Vec2, radius float64) []*Character {
	var out []*Character
	for _, c := range w.Characters() {
		if pos.Distance(c.pos) < radius+PhysSize {
			out = append(out, c)
		}
	}
	return out
}

// ClosestCharacter returns the nearest character within radius of pos,
// skipping notThis.
func (w *World) ClosestCharacter(pos Vec2, radius float64, notThis *Character) *Character {
	closestRange := radius * 2
	var closest *Character
	for _, c := range w.Characters() {
		if c == notThis {
			continue
		}
		l := pos.Distance(c.pos)
		if l < PhysSize+radius && l < closestRange {
			closestRange = l
			closest = c
		}
	}
	return closest
}

// IntersectCharacter returns the character nearest to from whose body the
// segment from-to passes within radius of, and the point where it does.
func (w *World) IntersectCharacter(from, to Vec2, radius float64, notThis *Character) (*Character, Vec2) {
	closestLen := from.Distance(to) * 100
	var closest *Character
	var at Vec2
	for _, c := range w.Characters() {
		if c == notThis {
			continue
		}
		p := closestPointOnLine(from, to, c.pos)
		if c.pos.Distance(p) < PhysSize+radius {
			l := from.Distance(p)
			if l < closestLen {
				at = p
				closestLen = l
				closest = c
			}
		}
	}
	return closest, at
}

func (w *World) addProjectile(p *Projectile) {
	p.startTick = w.CurrentTick
	w.projectiles = append(w.projectiles, p)
}

func (w *World) addLaser(l *Laser) {
	if !l.removed {
		w.lasers = append(w.lasers, l)
	}
}

func (w *World) addPickup(p *Pickup) {
	w.pickups = append(w.pickups, p)
}

// canSee reports whether viewer is allowed to see client id at all.
func (w *World) canSee(id, viewer int) bool {
	if viewer == -1 {
		return true
	}
	return w.Player(viewer) != nil && w.Player(id) != nil
}

// networkClipped reports whether pos is too far from viewer's camera to be
// worth sending.
func (w *World) networkClipped(viewer int, pos Vec2) bool {
	if viewer == -1 {
		return false
	}
	p := w.Player(viewer)
	if p == nil {
		return true
	}
	dx := p.ViewPos.X - pos.X
	dy := p.ViewPos.Y - pos.Y
	if math.Abs(dx) > 1000 || math.Abs(dy) > 800 {
		return true
	}
	return p.ViewPos.Distance(pos) > 1100
}

// botSpawner keeps a fixed number of bots in the game.
type botSpawner struct {
	count     int
	templates []BotData
	next      int
}

func (s *botSpawner) maintain(w *World) {
	if s == nil || !w.BotsActive || w.Paused || w.CurrentTick%w.TickSpeed != 0 {
		return
	}
	if w.BotCount() >= s.count {
		return
	}
	for id := MaxPlayers; id < MaxClients; id++ {
		if w.players[id] != nil {
			continue
		}
		w.CreateBot(id, s.templates[s.next%len(s.templates)])
		s.next++
		return
	}
}
