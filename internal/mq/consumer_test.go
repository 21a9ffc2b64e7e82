package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAck struct {
	acked, nacked, requeued bool
}

func (a *fakeAck) Ack(bool) error {
	a.acked = true
	return nil
}

func (a *fakeAck) Nack(_, requeue bool) error {
	a.nacked = true
	a.requeued = requeue
	return nil
}

type fakeSaver struct {
	saved []KillRecord
	err   error
}

func (s *fakeSaver) SaveKill(_ context.Context, rec KillRecord) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, rec)
	return nil
}

func TestProcessKillSavesAndAcks(t *testing.T) {
	rec := KillRecord{ID: "k1", RoomID: "r1", KillerID: 7, KillerName: "tee", VictimName: "zombie", Weapon: 1, Timestamp: 100}
	body, err := json.Marshal(rec)
	require.NoError(t, err)
	ack := &fakeAck{}
	saver := &fakeSaver{}

	processKill(context.Background(), body, ack, saver)

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	assert.Equal(t, []KillRecord{rec}, saver.saved)
}

func TestProcessKillDropsGarbage(t *testing.T) {
	ack := &fakeAck{}
	saver := &fakeSaver{}

	processKill(context.Background(), []byte("{not json"), ack, saver)

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeued, "a malformed record would fail forever")
	assert.Empty(t, saver.saved)
}

func TestProcessKillRequeuesOnStoreError(t *testing.T) {
	body, _ := json.Marshal(KillRecord{ID: "k2"})
	ack := &fakeAck{}

	processKill(context.Background(), body, ack, &fakeSaver{err: errors.New("db down")})

	assert.True(t, ack.nacked)
	assert.True(t, ack.requeued)
	assert.False(t, ack.acked)
}

func TestPublishWithoutChannelIsNoop(t *testing.T) {
	require.Nil(t, Channel)
	assert.NoError(t, PublishKill(KillRecord{ID: "k3"}))
}
