package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"lastday/internal/dao"
	"lastday/internal/log"
)

// KillSaver persists kills taken off the feed.
type KillSaver interface {
	SaveKill(ctx context.Context, rec KillRecord) error
}

// storeSaver writes kills into the kill history table.
type storeSaver struct {
	store *dao.Store
}

func NewStoreSaver(store *dao.Store) KillSaver { return storeSaver{store: store} }

func (s storeSaver) SaveKill(ctx context.Context, rec KillRecord) error {
	return s.store.AddKill(ctx, &dao.Kill{
		RecordID:   rec.ID,
		RoomID:     rec.RoomID,
		KillerID:   rec.KillerID,
		KillerName: rec.KillerName,
		VictimName: rec.VictimName,
		Weapon:     rec.Weapon,
		Timestamp:  rec.Timestamp,
	})
}

// StartConsumer reads the kill feed until the delivery channel closes or
// ctx is done.
func StartConsumer(ctx context.Context, ch *amqp.Channel, queue string, saver KillSaver) error {
	msgs, err := ch.Consume(
		queue,
		"",
		false, // auto-ack
		false, false, false, nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	log.Info("kill feed consumer started", "queue", queue)
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			handleDelivery(ctx, msg, saver)
		}
	}
}

// acknowledger is the part of amqp.Delivery handleDelivery needs.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func handleDelivery(ctx context.Context, msg amqp.Delivery, saver KillSaver) {
	processKill(ctx, msg.Body, msg, saver)
}

func processKill(ctx context.Context, body []byte, ack acknowledger, saver KillSaver) {
	var rec KillRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		log.Warn("dropping malformed kill record", "error", err)
		ack.Nack(false, false)
		return
	}
	if err := saver.SaveKill(ctx, rec); err != nil {
		log.Error("save kill failed", "id", rec.ID, "error", err)
		ack.Nack(false, true) // requeue
		return
	}
	ack.Ack(false)
	log.Debug("kill saved", "id", rec.ID, "killer", rec.KillerName, "victim", rec.VictimName)
}
