package mq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"lastday/internal/log"
	"lastday/pkg/config"
)

var (
	Conn    *amqp.Connection
	Channel *amqp.Channel
)

// KillRecord is one kill on the feed.
type KillRecord struct {
	ID         string `json:"id"`
	RoomID     string `json:"room_id"`
	KillerID   int64  `json:"killer_id"`
	KillerName string `json:"killer_name"`
	VictimName string `json:"victim_name"`
	Weapon     int    `json:"weapon"`
	Timestamp  int64  `json:"timestamp"`
}

func InitMQ() {
	var err error
	Conn, err = amqp.Dial(config.AppConfig.MQ.Url)
	if err != nil {
		log.Fatal("mq connect failed", "error", err)
	}

	Channel, err = Conn.Channel()
	if err != nil {
		log.Fatal("mq channel failed", "error", err)
	}

	// 声明队列
	_, err = Channel.QueueDeclare(
		config.AppConfig.MQ.QueueName,
		true, false, false, false, nil,
	)
	if err != nil {
		log.Fatal("mq queue declare failed", "queue", config.AppConfig.MQ.QueueName, "error", err)
	}
}

// PublishKill puts a kill on the feed. Without a channel it is a no-op.
func PublishKill(rec KillRecord) error {
	if Channel == nil {
		return nil
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode kill: %w", err)
	}
	err = Channel.Publish(
		"",
		config.AppConfig.MQ.QueueName,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    rec.ID,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish kill: %w", err)
	}
	return nil
}

func Close() {
	if Channel != nil {
		Channel.Close()
	}
	if Conn != nil {
		Conn.Close()
	}
}
