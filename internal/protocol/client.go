package protocol

import "google.golang.org/protobuf/encoding/protowire"

// Input is one tick of client intent.
type Input struct {
	Tick         int
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

// Join is the first frame of a session.
type Join struct {
	Name string
}

type CommandKind int

const (
	CommandSetTeam CommandKind = iota + 1
	CommandSpectate
	CommandEmote
	CommandMenu
	CommandKill
)

// Command is an out-of-band player action.
type Command struct {
	Kind  CommandKind
	Value int
}

// ClientPacket carries exactly one of its members.
type ClientPacket struct {
	Input   *Input
	Join    *Join
	Command *Command
}

func (in *Input) marshal() []byte {
	var b []byte
	b = appendInt(b, 1, in.Tick)
	b = appendInt(b, 2, in.Direction)
	b = appendInt(b, 3, in.TargetX)
	b = appendInt(b, 4, in.TargetY)
	b = appendInt(b, 5, in.Jump)
	b = appendInt(b, 6, in.Fire)
	b = appendInt(b, 7, in.Hook)
	b = appendInt(b, 8, in.PlayerFlags)
	b = appendInt(b, 9, in.WantedWeapon)
	b = appendInt(b, 10, in.NextWeapon)
	b = appendInt(b, 11, in.PrevWeapon)
	return b
}

func unmarshalInput(b []byte) (*Input, error) {
	in := &Input{}
	err := walk(b, func(f field) error {
		switch f.Num {
		case 1:
			in.Tick = f.int()
		case 2:
			in.Direction = f.int()
		case 3:
			in.TargetX = f.int()
		case 4:
			in.TargetY = f.int()
		case 5:
			in.Jump = f.int()
		case 6:
			in.Fire = f.int()
		case 7:
			in.Hook = f.int()
		case 8:
			in.PlayerFlags = f.int()
		case 9:
			in.WantedWeapon = f.int()
		case 10:
			in.NextWeapon = f.int()
		case 11:
			in.PrevWeapon = f.int()
		}
		return nil
	})
	return in, err
}

// Marshal encodes the packet.
func (p *ClientPacket) Marshal() []byte {
	var b []byte
	switch {
	case p.Input != nil:
		b = appendMessage(b, 1, p.Input.marshal())
	case p.Join != nil:
		b = appendMessage(b, 2, appendString(nil, 1, p.Join.Name))
	case p.Command != nil:
		var cb []byte
		cb = appendInt(cb, 1, int(p.Command.Kind))
		cb = appendInt(cb, 2, p.Command.Value)
		b = appendMessage(b, 3, cb)
	}
	return b
}

// UnmarshalClientPacket decodes a frame sent by a client.
func UnmarshalClientPacket(b []byte) (*ClientPacket, error) {
	p := &ClientPacket{}
	err := walk(b, func(f field) error {
		if f.Type != protowire.BytesType {
			return nil
		}
		switch f.Num {
		case 1:
			in, err := unmarshalInput(f.Bytes)
			if err != nil {
				return err
			}
			p.Input = in
		case 2:
			j := &Join{}
			if err := walk(f.Bytes, func(f field) error {
				if f.Num == 1 {
					j.Name = f.str()
				}
				return nil
			}); err != nil {
				return err
			}
			p.Join = j
		case 3:
			c := &Command{}
			if err := walk(f.Bytes, func(f field) error {
				switch f.Num {
				case 1:
					c.Kind = CommandKind(f.int())
				case 2:
					c.Value = f.int()
				}
				return nil
			}); err != nil {
				return err
			}
			p.Command = c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if p.Input == nil && p.Join == nil && p.Command == nil {
		return nil, ErrMalformed
	}
	return p, nil
}
