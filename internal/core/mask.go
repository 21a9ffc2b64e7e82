package core

import "math/bits"

const (
	// MaxClients is the number of client slots, humans and bots together.
	MaxClients = 64
	// MaxPlayers is the number of slots reserved for human clients. Bots
	// occupy the slots from MaxPlayers up to MaxClients.
	MaxPlayers = 48
)

// ClientMask is the set of clients an event is delivered to.
type ClientMask uint64

func MaskAll() ClientMask { return ^ClientMask(0) }

func MaskOne(id int) ClientMask {
	if id < 0 || id >= MaxClients {
		return 0
	}
	return 1 << uint(id)
}

func MaskAllExceptOne(id int) ClientMask { return MaskAll() &^ MaskOne(id) }

// Has reports whether client id is included.
func (m ClientMask) Has(id int) bool {
	if id < 0 || id >= MaxClients {
		return false
	}
	return m&(1<<uint(id)) != 0
}

func (m ClientMask) With(id int) ClientMask { return m | MaskOne(id) }

func (m ClientMask) Count() int { return bits.OnesCount64(uint64(m)) }
