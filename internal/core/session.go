package core

import (
	"lastday/internal/protocol"
)

// Session is a connected human client as the room sees it.
type Session struct {
	ClientID int
	UserID   int64
	Name     string
	Conn     Sender

	// 输入缓冲区, only touched by the room goroutine
	InputQueue []*protocol.Input

	LastProcessedTick int
}

func NewSession(userID int64, name string, conn Sender) *Session {
	return &Session{
		ClientID:   -1,
		UserID:     userID,
		Name:       name,
		Conn:       conn,
		InputQueue: make([]*protocol.Input, 0),
	}
}

func (s *Session) send(pkt *protocol.ServerPacket) {
	if s.Conn == nil {
		return
	}
	s.Conn.Send(pkt)
}

func inputFromWire(in *protocol.Input) PlayerInput {
	return PlayerInput{
		Direction:    clampInt(in.Direction, -1, 1),
		TargetX:      in.TargetX,
		TargetY:      in.TargetY,
		Jump:         in.Jump,
		Fire:         in.Fire,
		Hook:         in.Hook,
		PlayerFlags:  in.PlayerFlags,
		WantedWeapon: in.WantedWeapon,
		NextWeapon:   in.NextWeapon,
		PrevWeapon:   in.PrevWeapon,
	}
}
