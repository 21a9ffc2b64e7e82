package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotSurvivesTheWire(t *testing.T) {
	in := &ServerPacket{Snapshot: &Snapshot{
		Tick: 1234,
		Players: []PlayerInfo{
			{ClientID: 0, Local: true, Score: -2, Name: "tee"},
			{ClientID: 64, Team: -1, Name: "zombie", IsBot: true},
		},
		Characters: []Character{{
			ClientID: 3, Tick: 1200, X: 512, Y: -40, VelX: -256, HookedPlayer: -1,
			Health: 10, Armor: 2, Weapon: 1, AimX: 1, AimY: -1, Flags: 1 << 21,
		}},
		Projectiles: []Projectile{{X: 10, Y: 20, VelX: 100, VelY: -5, Kind: 3, StartTick: 1230}},
		Pickups:     []Pickup{{X: 1, Y: 2, Kind: 2}},
		Events:      []Event{{Type: 0, X: 5, Y: 6, Sound: 31}, {Type: 5, ClientID: 7}},
		Sounds:      []int{30, 24},
		Kills:       []Kill{{Killer: 1, Victim: 3, Weapon: -3}},
	}}

	out, err := UnmarshalServerPacket(in.Marshal())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWelcomeAndTuning(t *testing.T) {
	out, err := UnmarshalServerPacket((&ServerPacket{Welcome: &Welcome{ClientID: 0, TickSpeed: 50}}).Marshal())
	require.NoError(t, err)
	require.NotNil(t, out.Welcome)
	assert.Equal(t, Welcome{ClientID: 0, TickSpeed: 50}, *out.Welcome)

	out, err = UnmarshalServerPacket((&ServerPacket{Tuning: &Tuning{Values: []float64{0.5, 0, 2, 0}}}).Marshal())
	require.NoError(t, err)
	require.NotNil(t, out.Tuning)
	// trailing zeros are implied
	assert.Equal(t, []float64{0.5, 0, 2}, out.Tuning.Values)
}

func TestClientPackets(t *testing.T) {
	packets := []*ClientPacket{
		{Input: &Input{Tick: 99, Direction: -1, TargetX: -30, TargetY: 12, Fire: 3, WantedWeapon: 2}},
		{Join: &Join{Name: "tee"}},
		{Command: &Command{Kind: CommandSpectate, Value: -1}},
	}
	for _, p := range packets {
		out, err := UnmarshalClientPacket(p.Marshal())
		require.NoError(t, err)
		assert.Equal(t, p, out)
	}
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	b := appendInt(nil, 40, 7)
	b = append(b, (&ClientPacket{Join: &Join{Name: "tee"}}).Marshal()...)
	b = appendFloat(b, 41, 1.5)

	out, err := UnmarshalClientPacket(b)
	require.NoError(t, err)
	require.NotNil(t, out.Join)
	assert.Equal(t, "tee", out.Join.Name)
}

func TestMalformedFrames(t *testing.T) {
	_, err := UnmarshalClientPacket(nil)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = UnmarshalClientPacket([]byte{0xff})
	assert.ErrorIs(t, err, ErrMalformed)

	// truncated body
	b := (&ClientPacket{Join: &Join{Name: "tee"}}).Marshal()
	_, err = UnmarshalClientPacket(b[:len(b)-1])
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = UnmarshalServerPacket(appendInt(nil, 1, 5))
	assert.ErrorIs(t, err, ErrMalformed, "a packet with no member")
}
