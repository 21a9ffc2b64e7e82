package protocol

import "google.golang.org/protobuf/encoding/protowire"

// Character is a character record plus its extended record.
type Character struct {
	ClientID     int
	Tick         int
	X, Y         int
	VelX, VelY   int
	Angle        int
	Direction    int
	Jumped       int
	HookedPlayer int
	HookState    int
	HookTick     int
	HookX, HookY int
	HookDx       int
	HookDy       int
	PlayerFlags  int
	Health       int
	Armor        int
	AmmoCount    int
	Weapon       int
	Emote        int
	AttackTick   int

	Flags               int
	FreezeStart         int
	FreezeEnd           int
	Jumps               int
	JumpedTotal         int
	NinjaActivationTick int
	AimX, AimY          int
}

type PlayerInfo struct {
	ClientID int
	Local    bool
	Team     int
	Score    int
	Name     string
	IsBot    bool
}

type Projectile struct {
	X, Y       int
	VelX, VelY int
	Kind       int
	StartTick  int
}

type Laser struct {
	X, Y         int
	FromX, FromY int
	StartTick    int
}

type Pickup struct {
	X, Y int
	Kind int
}

// Event is a positional effect: sound, damage indicator, explosion, spawn
// or death.
type Event struct {
	Type     int
	X, Y     int
	Sound    int
	ClientID int
	Angle    int
}

type Kill struct {
	Killer      int
	Victim      int
	Weapon      int
	ModeSpecial int
}

type Snapshot struct {
	Tick        int
	Players     []PlayerInfo
	Characters  []Character
	Projectiles []Projectile
	Lasers      []Laser
	Pickups     []Pickup
	Events      []Event
	Sounds      []int
	Kills       []Kill
}

// Welcome tells a client its slot and the simulation rate.
type Welcome struct {
	ClientID  int
	TickSpeed int
}

// Tuning is the physics parameter set in the client's fixed order.
type Tuning struct {
	Values []float64
}

// ServerPacket carries exactly one of its members.
type ServerPacket struct {
	Snapshot *Snapshot
	Welcome  *Welcome
	Tuning   *Tuning
}

func (c *Character) marshal() []byte {
	var b []byte
	for i, v := range []int{
		c.ClientID, c.Tick, c.X, c.Y, c.VelX, c.VelY, c.Angle, c.Direction, c.Jumped,
		c.HookedPlayer, c.HookState, c.HookTick, c.HookX, c.HookY, c.HookDx, c.HookDy,
		c.PlayerFlags, c.Health, c.Armor, c.AmmoCount, c.Weapon, c.Emote, c.AttackTick,
		c.Flags, c.FreezeStart, c.FreezeEnd, c.Jumps, c.JumpedTotal, c.NinjaActivationTick,
		c.AimX, c.AimY,
	} {
		b = appendInt(b, protowire.Number(i+1), v)
	}
	return b
}

func (c *Character) fields() []*int {
	return []*int{
		&c.ClientID, &c.Tick, &c.X, &c.Y, &c.VelX, &c.VelY, &c.Angle, &c.Direction, &c.Jumped,
		&c.HookedPlayer, &c.HookState, &c.HookTick, &c.HookX, &c.HookY, &c.HookDx, &c.HookDy,
		&c.PlayerFlags, &c.Health, &c.Armor, &c.AmmoCount, &c.Weapon, &c.Emote, &c.AttackTick,
		&c.Flags, &c.FreezeStart, &c.FreezeEnd, &c.Jumps, &c.JumpedTotal, &c.NinjaActivationTick,
		&c.AimX, &c.AimY,
	}
}

// ints decodes a message whose fields 1..len(dst) are all integers.
func ints(b []byte, dst []*int) error {
	return walk(b, func(f field) error {
		if i := int(f.Num) - 1; i >= 0 && i < len(dst) && f.Type == protowire.VarintType {
			*dst[i] = f.int()
		}
		return nil
	})
}

func packInts(vals ...int) []byte {
	var b []byte
	for i, v := range vals {
		b = appendInt(b, protowire.Number(i+1), v)
	}
	return b
}

func (s *Snapshot) marshal() []byte {
	var b []byte
	b = appendInt(b, 1, s.Tick)
	for _, p := range s.Players {
		var pb []byte
		pb = appendInt(pb, 1, p.ClientID)
		pb = appendBool(pb, 2, p.Local)
		pb = appendInt(pb, 3, p.Team)
		pb = appendInt(pb, 4, p.Score)
		pb = appendString(pb, 5, p.Name)
		pb = appendBool(pb, 6, p.IsBot)
		b = appendMessage(b, 2, pb)
	}
	for i := range s.Characters {
		b = appendMessage(b, 3, s.Characters[i].marshal())
	}
	for _, p := range s.Projectiles {
		b = appendMessage(b, 4, packInts(p.X, p.Y, p.VelX, p.VelY, p.Kind, p.StartTick))
	}
	for _, l := range s.Lasers {
		b = appendMessage(b, 5, packInts(l.X, l.Y, l.FromX, l.FromY, l.StartTick))
	}
	for _, p := range s.Pickups {
		b = appendMessage(b, 6, packInts(p.X, p.Y, p.Kind))
	}
	for _, e := range s.Events {
		b = appendMessage(b, 7, packInts(e.Type, e.X, e.Y, e.Sound, e.ClientID, e.Angle))
	}
	for _, snd := range s.Sounds {
		b = protowire.AppendTag(b, 8, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(snd)))
	}
	for _, k := range s.Kills {
		b = appendMessage(b, 9, packInts(k.Killer, k.Victim, k.Weapon, k.ModeSpecial))
	}
	return b
}

func unmarshalSnapshot(b []byte) (*Snapshot, error) {
	s := &Snapshot{}
	err := walk(b, func(f field) error {
		switch f.Num {
		case 1:
			s.Tick = f.int()
		case 2:
			var p PlayerInfo
			if err := walk(f.Bytes, func(f field) error {
				switch f.Num {
				case 1:
					p.ClientID = f.int()
				case 2:
					p.Local = f.bool()
				case 3:
					p.Team = f.int()
				case 4:
					p.Score = f.int()
				case 5:
					p.Name = f.str()
				case 6:
					p.IsBot = f.bool()
				}
				return nil
			}); err != nil {
				return err
			}
			s.Players = append(s.Players, p)
		case 3:
			var c Character
			if err := ints(f.Bytes, c.fields()); err != nil {
				return err
			}
			s.Characters = append(s.Characters, c)
		case 4:
			var p Projectile
			if err := ints(f.Bytes, []*int{&p.X, &p.Y, &p.VelX, &p.VelY, &p.Kind, &p.StartTick}); err != nil {
				return err
			}
			s.Projectiles = append(s.Projectiles, p)
		case 5:
			var l Laser
			if err := ints(f.Bytes, []*int{&l.X, &l.Y, &l.FromX, &l.FromY, &l.StartTick}); err != nil {
				return err
			}
			s.Lasers = append(s.Lasers, l)
		case 6:
			var p Pickup
			if err := ints(f.Bytes, []*int{&p.X, &p.Y, &p.Kind}); err != nil {
				return err
			}
			s.Pickups = append(s.Pickups, p)
		case 7:
			var e Event
			if err := ints(f.Bytes, []*int{&e.Type, &e.X, &e.Y, &e.Sound, &e.ClientID, &e.Angle}); err != nil {
				return err
			}
			s.Events = append(s.Events, e)
		case 8:
			s.Sounds = append(s.Sounds, f.int())
		case 9:
			var k Kill
			if err := ints(f.Bytes, []*int{&k.Killer, &k.Victim, &k.Weapon, &k.ModeSpecial}); err != nil {
				return err
			}
			s.Kills = append(s.Kills, k)
		}
		return nil
	})
	return s, err
}

// Marshal encodes the packet.
func (p *ServerPacket) Marshal() []byte {
	var b []byte
	switch {
	case p.Snapshot != nil:
		b = appendMessage(b, 1, p.Snapshot.marshal())
	case p.Welcome != nil:
		b = appendMessage(b, 2, packInts(p.Welcome.ClientID, p.Welcome.TickSpeed))
	case p.Tuning != nil:
		var tb []byte
		for i, v := range p.Tuning.Values {
			tb = appendFloat(tb, protowire.Number(i+1), v)
		}
		b = appendMessage(b, 3, tb)
	}
	return b
}

// UnmarshalServerPacket decodes a frame sent by the server.
func UnmarshalServerPacket(b []byte) (*ServerPacket, error) {
	p := &ServerPacket{}
	err := walk(b, func(f field) error {
		if f.Type != protowire.BytesType {
			return nil
		}
		switch f.Num {
		case 1:
			s, err := unmarshalSnapshot(f.Bytes)
			if err != nil {
				return err
			}
			p.Snapshot = s
		case 2:
			w := &Welcome{}
			if err := ints(f.Bytes, []*int{&w.ClientID, &w.TickSpeed}); err != nil {
				return err
			}
			p.Welcome = w
		case 3:
			t := &Tuning{}
			if err := walk(f.Bytes, func(f field) error {
				i := int(f.Num) - 1
				if i < 0 || i > 64 || f.Type != protowire.Fixed32Type {
					return nil
				}
				for len(t.Values) <= i {
					t.Values = append(t.Values, 0)
				}
				t.Values[i] = f.float()
				return nil
			}); err != nil {
				return err
			}
			p.Tuning = t
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if p.Snapshot == nil && p.Welcome == nil && p.Tuning == nil {
		return nil, ErrMalformed
	}
	return p, nil
}
