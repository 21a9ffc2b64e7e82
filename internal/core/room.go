package core

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"lastday/internal/dao"
	"lastday/internal/inventory"
	"lastday/internal/mq"
	"lastday/internal/protocol"
)

// Input timing constants
const (
	AcceptableLagTicks = 2 // 可接受的最大延迟tick数
	presenceInterval   = 5 // seconds
)

// RoomOptions configure every room the manager creates.
type RoomOptions struct {
	TickSpeed int
	Map       *TileMap
	World     Options
	// Store persists inventories; nil keeps them in memory only.
	Store inventory.Store
	// Seed roots every random stream of the room.
	Seed     string
	ServerID string
	Logger   *slog.Logger
}

type clientMessage struct {
	session *Session
	packet  *protocol.ClientPacket
}

// Room runs one World on its own goroutine. Sessions join and leave and
// send input through channels; nothing else touches the world.
type Room struct {
	ID         string
	World      *World
	Sessions   map[int]*Session
	Items      *inventory.Service
	Register   chan *Session
	Unregister chan *Session
	Inputs     chan clientMessage

	// 状态控制
	Mutex     sync.RWMutex
	Ticker    *time.Ticker
	StopChan  chan bool
	IsRunning bool

	done chan struct{} // closed when the room stops

	events   *EventBuffer
	serverID string
	log      *slog.Logger

	LastActiveTime int64
	CreatedAt      int64
}

func NewRoom(id string, opts RoomOptions) *Room {
	if opts.TickSpeed <= 0 {
		opts.TickSpeed = DefaultTickSpeed
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	logger := opts.Logger.With("room", id)
	if opts.Map == nil {
		opts.Map = DefaultMap()
	}

	items := inventory.NewService(inventory.NewCatalog(DefaultItems()...), opts.Store, 0, logger)
	events := &EventBuffer{}

	wo := opts.World
	wo.TickSpeed = opts.TickSpeed
	wo.Items = items
	wo.Events = events
	wo.Logger = logger
	if wo.Rand == nil {
		wo.Rand = NewRand(opts.Seed+"/"+id, "bots")
	}

	now := time.Now().Unix()
	return &Room{
		ID:             id,
		World:          NewWorld(opts.Map, wo),
		Sessions:       make(map[int]*Session),
		Items:          items,
		Register:       make(chan *Session),
		Unregister:     make(chan *Session),
		Inputs:         make(chan clientMessage, 256),
		StopChan:       make(chan bool, 1),
		done:           make(chan struct{}),
		events:         events,
		serverID:       opts.ServerID,
		log:            logger,
		LastActiveTime: now,
		CreatedAt:      now,
	}
}

func (r *Room) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Items.Run(ctx)

	r.Mutex.Lock()
	r.IsRunning = true
	r.Mutex.Unlock()
	r.Ticker = time.NewTicker(time.Second / time.Duration(r.World.TickSpeed))
	defer r.Ticker.Stop()

	for {
		select {
		case <-r.StopChan:
			close(r.done)
			r.Mutex.Lock()
			r.IsRunning = false
			r.Mutex.Unlock()
			return

		case s := <-r.Register:
			if r.Join(s) < 0 {
				s.send(&protocol.ServerPacket{Welcome: &protocol.Welcome{ClientID: -1}})
			}

		case s := <-r.Unregister:
			r.Leave(s)

		case msg := <-r.Inputs:
			r.HandlePacket(msg.session, msg.packet)

		case <-r.Ticker.C:
			r.GameLoop()
		}
	}
}

// Enter hands a session to the room goroutine. It reports false when the
// room has stopped.
func (r *Room) Enter(s *Session) bool {
	select {
	case r.Register <- s:
		return true
	case <-r.done:
		return false
	}
}

// Exit hands a departing session to the room goroutine, or drops it when the
// room has stopped.
func (r *Room) Exit(s *Session) {
	select {
	case r.Unregister <- s:
	case <-r.done:
	}
}

// Submit queues a client packet for the next tick. It reports false when the
// room has stopped.
func (r *Room) Submit(s *Session, pkt *protocol.ClientPacket) bool {
	// Inputs is buffered, so check first
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case r.Inputs <- clientMessage{session: s, packet: pkt}:
		return true
	case <-r.done:
		return false
	}
}

// Join gives the session a client slot and spawns its player. It returns
// -1 when the room is full.
func (r *Room) Join(s *Session) int {
	r.Mutex.Lock()
	defer r.Mutex.Unlock()

	id := -1
	for i := 0; i < MaxPlayers; i++ {
		if _, taken := r.Sessions[i]; !taken && r.World.Player(i) == nil {
			id = i
			break
		}
	}
	if id < 0 {
		r.log.Warn("room full", "user", s.UserID)
		return -1
	}

	s.ClientID = id
	r.Sessions[id] = s
	p := r.World.AddPlayer(id, s.Name)
	p.UserID = s.UserID
	if s.UserID > 0 {
		r.Items.Login(id, s.UserID)
	}
	r.LastActiveTime = time.Now().Unix()
	r.log.Info("player joined", "client", id, "name", s.Name, "user", s.UserID)

	s.send(&protocol.ServerPacket{Welcome: &protocol.Welcome{ClientID: id, TickSpeed: r.World.TickSpeed}})
	t := r.World.Tuning
	s.send(&protocol.ServerPacket{Tuning: &protocol.Tuning{Values: t.Values()}})
	return id
}

func (r *Room) Leave(s *Session) {
	r.Mutex.Lock()
	defer r.Mutex.Unlock()
	if cur, ok := r.Sessions[s.ClientID]; !ok || cur != s {
		return
	}
	delete(r.Sessions, s.ClientID)
	r.World.RemovePlayer(s.ClientID)
	r.LastActiveTime = time.Now().Unix()
	r.log.Info("player left", "client", s.ClientID, "name", s.Name)
	s.ClientID = -1

	// 没人了就重开一局
	if len(r.Sessions) == 0 {
		r.World = r.World.Rebuild()
	}
}

// HandlePacket applies one client frame. Inputs act on weapons right away
// and are queued for the movement of the next tick.
func (r *Room) HandlePacket(s *Session, pkt *protocol.ClientPacket) {
	r.Mutex.Lock()
	defer r.Mutex.Unlock()
	if s.ClientID < 0 || r.Sessions[s.ClientID] != s {
		return
	}
	w := r.World
	switch {
	case pkt.Input != nil:
		w.OnDirectInput(s.ClientID, inputFromWire(pkt.Input))
		s.InputQueue = append(s.InputQueue, pkt.Input)
	case pkt.Join != nil:
		if p := w.Player(s.ClientID); p != nil && pkt.Join.Name != "" {
			p.Name = pkt.Join.Name
			s.Name = pkt.Join.Name
		}
	case pkt.Command != nil:
		r.handleCommand(s, pkt.Command)
	}
}

func (r *Room) handleCommand(s *Session, cmd *protocol.Command) {
	p := r.World.Player(s.ClientID)
	if p == nil {
		return
	}
	switch cmd.Kind {
	case protocol.CommandSetTeam:
		p.SetTeam(cmd.Value)
	case protocol.CommandSpectate:
		if p.Team == TeamSpectators && (cmd.Value == SpecFreeView || r.World.Player(cmd.Value) != nil) {
			p.SpectatorID = cmd.Value
		}
	case protocol.CommandEmote:
		p.SetEmote(clampInt(cmd.Value, EmoteNormal, EmoteBlink))
	case protocol.CommandMenu:
		if p.MenuOpen() {
			p.CloseMenu()
		} else {
			p.OpenMenu()
		}
	case protocol.CommandKill:
		p.KillCharacter(WeaponSelf)
	}
}

// ProcessInputs feeds each session's newest acceptable input to the
// movement simulation.
func (r *Room) ProcessInputs() {
	w := r.World
	for id, s := range r.Sessions {
		if len(s.InputQueue) == 0 {
			continue
		}
		valid := s.InputQueue[:0]
		for _, in := range s.InputQueue {
			// 过期输入：比执行tick早太多
			if in.Tick != 0 && in.Tick < w.CurrentTick-AcceptableLagTicks {
				continue
			}
			valid = append(valid, in)
		}
		sort.SliceStable(valid, func(i, j int) bool { return valid[i].Tick < valid[j].Tick })
		if len(valid) > 0 {
			last := valid[len(valid)-1]
			w.OnPredictedInput(id, inputFromWire(last))
			s.LastProcessedTick = last.Tick
		}
		s.InputQueue = s.InputQueue[:0]
	}
}

// --- 核心 Tick 逻辑 ---
func (r *Room) GameLoop() {
	r.Mutex.Lock()
	defer r.Mutex.Unlock()

	// 1. 处理输入
	r.Items.Drain()
	r.ProcessInputs()

	// 2. 推进世界
	r.World.Step()

	// 3. 发送快照 (Snapshot)
	r.BroadcastSnapshot()
	r.sendTuning()
	r.publishKills()
	r.events.Clear()

	if r.World.CurrentTick%(r.World.TickSpeed*presenceInterval) == 0 {
		r.publishPresence()
	}
}

func (r *Room) BroadcastSnapshot() {
	for id, s := range r.Sessions {
		snap := r.World.Snap(id)
		s.send(&protocol.ServerPacket{Snapshot: encodeSnapshot(snap, r.events, id)})
	}
}

func (r *Room) sendTuning() {
	for id, s := range r.Sessions {
		p := r.World.Player(id)
		if p == nil {
			continue
		}
		if t, ok := p.TakeTuningUpdate(); ok {
			s.send(&protocol.ServerPacket{Tuning: &protocol.Tuning{Values: t.Values()}})
		}
	}
}

func (r *Room) publishKills() {
	for _, k := range r.events.Kills {
		killer := r.World.Player(k.Killer)
		if killer == nil || killer.IsBot || k.Killer == k.Victim {
			continue
		}
		victim := "unknown"
		if v := r.World.Player(k.Victim); v != nil {
			victim = v.Name
		}
		rec := mq.KillRecord{
			ID:         uuid.NewString(),
			RoomID:     r.ID,
			KillerID:   killer.UserID,
			KillerName: killer.Name,
			VictimName: victim,
			Weapon:     k.Weapon,
			Timestamp:  time.Now().Unix(),
		}
		// 发送战绩到 MQ
		go func() {
			if err := mq.PublishKill(rec); err != nil {
				r.log.Warn("kill feed publish failed", "error", err)
			}
		}()
	}
}

func (r *Room) publishPresence() {
	if dao.RDB == nil || r.serverID == "" {
		return
	}
	n := len(r.Sessions)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := dao.PublishPresence(ctx, r.serverID, r.ID, n); err != nil {
			r.log.Warn("presence update failed", "error", err)
		}
	}()
}

func (r *Room) PlayerCount() int {
	r.Mutex.RLock()
	defer r.Mutex.RUnlock()
	return len(r.Sessions)
}

// encodeSnapshot converts a world snapshot and the tick's events into the
// wire form for viewer.
func encodeSnapshot(s *Snapshot, ev *EventBuffer, viewer int) *protocol.Snapshot {
	out := &protocol.Snapshot{Tick: s.Tick}
	for _, p := range s.Players {
		out.Players = append(out.Players, protocol.PlayerInfo{
			ClientID: p.ClientID,
			Local:    p.Local,
			Team:     p.Team,
			Score:    p.Score,
			Name:     p.Name,
			IsBot:    p.IsBot,
		})
	}
	for _, cs := range s.Characters {
		c, x := cs.Character, cs.Extended
		out.Characters = append(out.Characters, protocol.Character{
			ClientID:            x.ClientID,
			Tick:                c.Tick,
			X:                   c.X,
			Y:                   c.Y,
			VelX:                c.VelX,
			VelY:                c.VelY,
			Angle:               c.Angle,
			Direction:           c.Direction,
			Jumped:              c.Jumped,
			HookedPlayer:        c.HookedPlayer,
			HookState:           c.HookState,
			HookTick:            c.HookTick,
			HookX:               c.HookX,
			HookY:               c.HookY,
			HookDx:              c.HookDx,
			HookDy:              c.HookDy,
			PlayerFlags:         c.PlayerFlags,
			Health:              c.Health,
			Armor:               c.Armor,
			AmmoCount:           c.AmmoCount,
			Weapon:              c.Weapon,
			Emote:               c.Emote,
			AttackTick:          c.AttackTick,
			Flags:               x.Flags,
			FreezeStart:         x.FreezeStart,
			FreezeEnd:           x.FreezeEnd,
			Jumps:               x.Jumps,
			JumpedTotal:         x.JumpedTotal,
			NinjaActivationTick: x.NinjaActivationTick,
			AimX:                x.TargetX,
			AimY:                x.TargetY,
		})
	}
	for _, p := range s.Projectiles {
		out.Projectiles = append(out.Projectiles, protocol.Projectile(p))
	}
	for _, l := range s.Lasers {
		out.Lasers = append(out.Lasers, protocol.Laser(l))
	}
	for _, p := range s.Pickups {
		out.Pickups = append(out.Pickups, protocol.Pickup(p))
	}
	if ev != nil {
		for _, e := range ev.For(viewer) {
			out.Events = append(out.Events, protocol.Event{
				Type:     int(e.Type),
				X:        e.X,
				Y:        e.Y,
				Sound:    e.Sound,
				ClientID: e.ClientID,
				Angle:    e.Angle,
			})
		}
		for _, snd := range ev.SoundsFor(viewer) {
			out.Sounds = append(out.Sounds, snd.Sound)
		}
		for _, k := range ev.Kills {
			out.Kills = append(out.Kills, protocol.Kill(k))
		}
	}
	return out
}
