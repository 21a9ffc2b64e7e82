package dao

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"lastday/internal/log"
	"lastday/pkg/config"
)

var RDB *redis.Client

// ErrNoSession means the ticket is unknown or expired.
var ErrNoSession = errors.New("dao: no such session")

// 键名定义
const (
	KeySessionPrefix = "session:" // Hash: session:{token} -> {user_id, name}
	KeyServerPrefix  = "server:"  // Hash: server:{id} -> {room_id: players}
	KeyServerList    = "servers:online"
)

func InitRedis() {
	cfg := config.AppConfig.Redis
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RDB.Ping(ctx).Result(); err != nil {
		log.Fatal("redis connect failed", "addr", cfg.Addr, "error", err)
	}
}

// Session is what a login ticket resolves to.
type Session struct {
	UserID int64
	Name   string
}

// CreateSession stores a websocket join ticket for ttl.
func CreateSession(ctx context.Context, token string, s Session, ttl time.Duration) error {
	key := KeySessionPrefix + token
	pipe := RDB.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"user_id": s.UserID,
		"name":    s.Name,
	})
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession resolves a join ticket.
func GetSession(ctx context.Context, token string) (Session, error) {
	data, err := RDB.HGetAll(ctx, KeySessionPrefix+token).Result()
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	if len(data) == 0 {
		return Session{}, ErrNoSession
	}
	uid, err := strconv.ParseInt(data["user_id"], 10, 64)
	if err != nil {
		return Session{}, fmt.Errorf("session user id %q: %w", data["user_id"], err)
	}
	return Session{UserID: uid, Name: data["name"]}, nil
}

func DeleteSession(ctx context.Context, token string) error {
	return RDB.Del(ctx, KeySessionPrefix+token).Err()
}

// PublishPresence records how many players a room of this server holds.
// The key expires unless refreshed, so a crashed server drops out.
func PublishPresence(ctx context.Context, serverID, roomID string, players int) error {
	key := KeyServerPrefix + serverID
	pipe := RDB.Pipeline()
	if players > 0 {
		pipe.HSet(ctx, key, roomID, players)
	} else {
		pipe.HDel(ctx, key, roomID)
	}
	pipe.Expire(ctx, key, 2*time.Minute)
	pipe.SAdd(ctx, KeyServerList, serverID)
	_, err := pipe.Exec(ctx)
	return err
}

// GetPresence returns the player count per room of a server.
func GetPresence(ctx context.Context, serverID string) (map[string]int, error) {
	data, err := RDB.HGetAll(ctx, KeyServerPrefix+serverID).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(data))
	for room, v := range data {
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		out[room] = n
	}
	return out, nil
}
